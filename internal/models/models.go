// package models defines the data model for the comic library migration tool
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Model defines the base interface for all persistent models.
// Implementations include MigrationRun and CachedEntry.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// SourceEntry is a comic series from Mylar in normalized form.
//
// Mylar reports series under several field-name variants depending on the API
// command and version; normalization happens in the matcher package.
type SourceEntry struct {
	Title      string
	SourceID   string // Mylar's own identifier, used for detail lookups
	ExternalID string // ComicVine identifier, trailing numeric segment only
	Status     string // lower-cased free text; "active" means monitored
	Monitored  bool
}

// SourceIssue is a single issue of a Mylar series.
type SourceIssue struct {
	ID       string // Mylar issue identifier, used for file downloads
	Number   string // issue number, compared as a string
	FilePath string // Mylar-side path to the file, may be empty
}

// TargetVolume is a comic volume as tracked by Kapowarr.
type TargetVolume struct {
	ID               int           `json:"id"`
	ExternalID       string        `json:"comicvine_id"`
	Title            string        `json:"title"`
	RootFolderID     int           `json:"root_folder"`
	Monitored        bool          `json:"monitored"`
	MonitorNewIssues bool          `json:"monitor_new_issues"`
	AutoSearch       bool          `json:"auto_search"`
	Folder           string        `json:"folder"`
	Issues           []TargetIssue `json:"issues"`
}

// UnmarshalJSON accepts comicvine_id as either a JSON number or a string.
// Kapowarr stores the id numerically and reports it that way; the string form
// shows up in import previews and older records.
func (v *TargetVolume) UnmarshalJSON(data []byte) error {
	type wire TargetVolume
	aux := struct {
		*wire
		ExternalID any `json:"comicvine_id"`
	}{wire: (*wire)(v)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch id := aux.ExternalID.(type) {
	case nil:
		v.ExternalID = ""
	case string:
		v.ExternalID = id
	case float64:
		v.ExternalID = strconv.FormatFloat(id, 'f', -1, 64)
	default:
		v.ExternalID = fmt.Sprintf("%v", id)
	}

	return nil
}

// TargetIssue is a single issue of a Kapowarr volume.
type TargetIssue struct {
	ID     int    `json:"id"`
	Number string `json:"issue_number"`
}

// VolumeSpec is the creation payload for a new Kapowarr volume.
//
// Only the comicvine id and root folder are required; monitor flags are sent
// only when they deviate from Kapowarr's monitored-by-default behavior.
type VolumeSpec struct {
	ExternalID       string `json:"comicvine_id"`
	RootFolderID     int    `json:"root_folder_id"`
	Monitor          *bool  `json:"monitor,omitempty"`
	MonitorNewIssues *bool  `json:"monitor_new_issues,omitempty"`
	AutoSearch       *bool  `json:"auto_search,omitempty"`
}

// RootFolder is a storage root configured in Kapowarr.
type RootFolder struct {
	ID     int    `json:"id"`
	Folder string `json:"folder"`
}

// ImportEntry pairs a file with the Kapowarr issue (or volume) it belongs to
// for the library import endpoint.
type ImportEntry struct {
	Filepath string `json:"filepath"`
	ID       int    `json:"id"`
}

// Run status values for MigrationRun.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// MigrationRun records one migration pass and its final counters.
//
// The run history is an audit log only: the engine never consults it, and
// resuming across runs remains a best-effort title match.
type MigrationRun struct {
	id             string
	sequence       int
	status         string
	dryRun         bool
	entriesTotal   int
	created        int
	alreadyPresent int
	skipped        int
	failed         int
	filesCopied    int
	resumeFrom     string
	startedAt      time.Time
	completedAt    *time.Time
	createdAt      time.Time
	updatedAt      time.Time
	deletedAt      *time.Time
}

// NewMigrationRun creates a run in the running state with timestamps set to now.
func NewMigrationRun(sequence int, dryRun bool, resumeFrom string) *MigrationRun {
	now := time.Now()
	return &MigrationRun{
		sequence:   sequence,
		status:     RunStatusRunning,
		dryRun:     dryRun,
		resumeFrom: resumeFrom,
		startedAt:  now,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (m *MigrationRun) ID() string            { return m.id }
func (m *MigrationRun) Sequence() int         { return m.sequence }
func (m *MigrationRun) Status() string        { return m.status }
func (m *MigrationRun) DryRun() bool          { return m.dryRun }
func (m *MigrationRun) EntriesTotal() int     { return m.entriesTotal }
func (m *MigrationRun) Created() int          { return m.created }
func (m *MigrationRun) AlreadyPresent() int   { return m.alreadyPresent }
func (m *MigrationRun) Skipped() int          { return m.skipped }
func (m *MigrationRun) Failed() int           { return m.failed }
func (m *MigrationRun) FilesCopied() int      { return m.filesCopied }
func (m *MigrationRun) ResumeFrom() string    { return m.resumeFrom }
func (m *MigrationRun) StartedAt() time.Time  { return m.startedAt }
func (m *MigrationRun) CreatedAt() time.Time  { return m.createdAt }
func (m *MigrationRun) UpdatedAt() time.Time  { return m.updatedAt }
func (m *MigrationRun) CompletedAt() *time.Time { return m.completedAt }
func (m *MigrationRun) DeletedAt() *time.Time { return m.deletedAt }

func (m *MigrationRun) SetID(id string)               { m.id = id }
func (m *MigrationRun) SetSequence(seq int)           { m.sequence = seq }
func (m *MigrationRun) SetStatus(status string)       { m.status = status }
func (m *MigrationRun) SetDryRun(dry bool)            { m.dryRun = dry }
func (m *MigrationRun) SetEntriesTotal(n int)         { m.entriesTotal = n }
func (m *MigrationRun) SetCreated(n int)              { m.created = n }
func (m *MigrationRun) SetAlreadyPresent(n int)       { m.alreadyPresent = n }
func (m *MigrationRun) SetSkipped(n int)              { m.skipped = n }
func (m *MigrationRun) SetFailed(n int)               { m.failed = n }
func (m *MigrationRun) SetFilesCopied(n int)          { m.filesCopied = n }
func (m *MigrationRun) SetResumeFrom(title string)    { m.resumeFrom = title }
func (m *MigrationRun) SetStartedAt(t time.Time)      { m.startedAt = t }
func (m *MigrationRun) SetCreatedAt(t time.Time)      { m.createdAt = t }
func (m *MigrationRun) SetUpdatedAt(t time.Time)      { m.updatedAt = t }
func (m *MigrationRun) SetCompletedAt(t *time.Time)   { m.completedAt = t }
func (m *MigrationRun) SetDeletedAt(t *time.Time)     { m.deletedAt = t }

// Validate checks run invariants before persistence.
func (m *MigrationRun) Validate() error {
	switch m.status {
	case RunStatusRunning, RunStatusCompleted, RunStatusFailed:
	default:
		return ErrInvalidRunStatus
	}
	if m.entriesTotal < 0 || m.created < 0 || m.skipped < 0 || m.failed < 0 {
		return ErrNegativeCounter
	}
	return nil
}

// CachedEntry is a snapshot of a normalized source entry recorded during a run,
// kept so past runs can be inspected without re-querying Mylar.
type CachedEntry struct {
	id         string
	runID      string
	title      string
	externalID string
	status     string
	state      string // final per-entry migration state
	createdAt  time.Time
	updatedAt  time.Time
}

// NewCachedEntry snapshots an entry with its final migration state.
func NewCachedEntry(runID string, entry SourceEntry, state string) *CachedEntry {
	now := time.Now()
	return &CachedEntry{
		runID:      runID,
		title:      entry.Title,
		externalID: entry.ExternalID,
		status:     entry.Status,
		state:      state,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (c *CachedEntry) ID() string           { return c.id }
func (c *CachedEntry) RunID() string        { return c.runID }
func (c *CachedEntry) Title() string        { return c.title }
func (c *CachedEntry) ExternalID() string   { return c.externalID }
func (c *CachedEntry) Status() string       { return c.status }
func (c *CachedEntry) State() string        { return c.state }
func (c *CachedEntry) CreatedAt() time.Time { return c.createdAt }
func (c *CachedEntry) UpdatedAt() time.Time { return c.updatedAt }

func (c *CachedEntry) SetID(id string)          { c.id = id }
func (c *CachedEntry) SetRunID(id string)       { c.runID = id }
func (c *CachedEntry) SetState(state string)    { c.state = state }
func (c *CachedEntry) SetCreatedAt(t time.Time) { c.createdAt = t }
func (c *CachedEntry) SetUpdatedAt(t time.Time) { c.updatedAt = t }

// Validate checks cached entry invariants before persistence.
func (c *CachedEntry) Validate() error {
	if c.runID == "" {
		return ErrMissingRunID
	}
	if c.title == "" {
		return ErrMissingTitle
	}
	return nil
}
