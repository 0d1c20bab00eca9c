package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"mylar2kapowarr/internal/models"
	"mylar2kapowarr/internal/shared"
)

// EntryRepository implements [models.Repository] for [models.CachedEntry] persistence.
type EntryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates a new [EntryRepository] with the given database connection
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create inserts a new entry snapshot with a generated ID
func (r *EntryRepository) Create(entry *models.CachedEntry) error {
	entry.SetID(shared.GenerateID())

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO run_entries (id, run_id, title, external_id, status, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		entry.ID(), entry.RunID(), entry.Title(), entry.ExternalID(), entry.Status(),
		entry.State(), entry.CreatedAt(), entry.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run entry: %w", err)
	}

	return nil
}

// Get retrieves an entry snapshot by ID
func (r *EntryRepository) Get(id string) (*models.CachedEntry, error) {
	query := `
		SELECT id, run_id, title, external_id, status, state, created_at, updated_at
		FROM run_entries
		WHERE id = ?
	`

	entry, err := scanEntry(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run entry not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run entry: %w", err)
	}

	return entry, nil
}

// Update modifies an existing entry snapshot
func (r *EntryRepository) Update(entry *models.CachedEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	entry.SetUpdatedAt(now)

	query := `
		UPDATE run_entries
		SET state = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, entry.State(), now, entry.ID())
	if err != nil {
		return fmt.Errorf("failed to update run entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run entry not found: %s", entry.ID())
	}

	return nil
}

// Delete removes an entry snapshot by ID
func (r *EntryRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM run_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run entry not found: %s", id)
	}

	return nil
}

// Purge removes all entry snapshots recorded for a run
func (r *EntryRepository) Purge(runID string) (int64, error) {
	result, err := r.db.Exec("DELETE FROM run_entries WHERE run_id = ?", runID)
	if err != nil {
		return 0, fmt.Errorf("failed to purge run entries: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

// List retrieves all entry snapshots matching the given criteria, in insertion order
func (r *EntryRepository) List(criteria map[string]any) ([]*models.CachedEntry, error) {
	query := `
		SELECT id, run_id, title, external_id, status, state, created_at, updated_at
		FROM run_entries
		WHERE 1 = 1
	`

	args := []any{}

	if runID, ok := criteria["run_id"].(string); ok && runID != "" {
		query += " AND run_id = ?"
		args = append(args, runID)
	}
	if state, ok := criteria["state"].(string); ok && state != "" {
		query += " AND state = ?"
		args = append(args, state)
	}

	query += " ORDER BY created_at ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query run entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.CachedEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

func scanEntry(row scannable) (*models.CachedEntry, error) {
	var (
		id         string
		runID      string
		title      string
		externalID sql.NullString
		status     sql.NullString
		state      string
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := row.Scan(&id, &runID, &title, &externalID, &status, &state, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	entry := models.NewCachedEntry(runID, models.SourceEntry{
		Title:      title,
		ExternalID: externalID.String,
		Status:     status.String,
	}, state)
	entry.SetID(id)
	entry.SetCreatedAt(createdAt)
	entry.SetUpdatedAt(updatedAt)

	return entry, nil
}
