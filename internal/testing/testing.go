// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"

	"mylar2kapowarr/internal/models"
)

// MockSource is a configurable test double for [services.SourceGateway]
type MockSource struct {
	Entries    []map[string]any
	ListErr    error
	Wanted     map[string]struct{}
	WantedErr  error
	IssuesByID map[string][]map[string]any
	FetchPath  string
	FetchErr   error
}

func (m *MockSource) Name() string { return "mock-source" }

func (m *MockSource) ListEntries(ctx context.Context, cmd string) ([]map[string]any, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Entries, nil
}

func (m *MockSource) EntryDetail(ctx context.Context, id string) (map[string]any, error) {
	issues := m.IssuesByID[id]
	raw := make([]any, len(issues))
	for i, issue := range issues {
		raw[i] = issue
	}
	return map[string]any{"issues": raw}, nil
}

func (m *MockSource) Issues(ctx context.Context, id string) ([]map[string]any, error) {
	return m.IssuesByID[id], nil
}

func (m *MockSource) WantedIssueIDs(ctx context.Context) (map[string]struct{}, error) {
	if m.WantedErr != nil {
		return nil, m.WantedErr
	}
	return m.Wanted, nil
}

func (m *MockSource) FetchIssueFile(ctx context.Context, issueID, destDir string) (string, error) {
	if m.FetchErr != nil {
		return "", m.FetchErr
	}
	return m.FetchPath, nil
}

// MockTarget is a configurable test double for [services.TargetGateway]
type MockTarget struct {
	AuthErr   error
	Folders   []models.RootFolder
	Volumes   []models.TargetVolume
	Details   map[int]models.TargetVolume
	CreateErr error
	NextID    int
	Proposals []models.ImportEntry
	Imported  [][]models.ImportEntry
	Rescans   []int
	Renames   [][2]int
}

func (m *MockTarget) Name() string { return "mock-target" }

func (m *MockTarget) CheckAuth(ctx context.Context) error { return m.AuthErr }

func (m *MockTarget) RootFolders(ctx context.Context) ([]models.RootFolder, error) {
	return m.Folders, nil
}

func (m *MockTarget) ListVolumes(ctx context.Context) ([]models.TargetVolume, error) {
	return m.Volumes, nil
}

func (m *MockTarget) VolumeExists(ctx context.Context, externalID string) (bool, error) {
	for _, volume := range m.Volumes {
		if volume.ExternalID == externalID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockTarget) CreateVolume(ctx context.Context, spec models.VolumeSpec) (models.TargetVolume, error) {
	if m.CreateErr != nil {
		return models.TargetVolume{}, m.CreateErr
	}
	m.NextID++
	volume := models.TargetVolume{ID: m.NextID, ExternalID: spec.ExternalID}
	m.Volumes = append(m.Volumes, volume)
	return volume, nil
}

func (m *MockTarget) VolumeDetail(ctx context.Context, id int) (models.TargetVolume, error) {
	if detail, ok := m.Details[id]; ok {
		detail.ID = id
		return detail, nil
	}
	return models.TargetVolume{ID: id}, nil
}

func (m *MockTarget) TriggerRescan(ctx context.Context, volumeID int) error {
	m.Rescans = append(m.Rescans, volumeID)
	return nil
}

func (m *MockTarget) TriggerRename(ctx context.Context, volumeID, issueID int) error {
	m.Renames = append(m.Renames, [2]int{volumeID, issueID})
	return nil
}

func (m *MockTarget) ProposeImport(ctx context.Context, folderFilter string) ([]models.ImportEntry, error) {
	return m.Proposals, nil
}

func (m *MockTarget) ImportLibrary(ctx context.Context, entries []models.ImportEntry, renameFiles bool) error {
	m.Imported = append(m.Imported, entries)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}
