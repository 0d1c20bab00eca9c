// package services defines gateway interfaces for the two comic servers
//
// Mylar (source library) and Kapowarr (target library)
package services

import (
	"context"

	"mylar2kapowarr/internal/models"
)

// SourceGateway is the read side of a migration: the server the comic
// library is moving away from. Implemented by MylarService.
type SourceGateway interface {
	// ListEntries fetches the raw series list using the given API command
	// (getIndex, getComics or getSeries). Entries are returned as raw maps
	// because field names vary across Mylar versions; the matcher package
	// normalizes them.
	ListEntries(ctx context.Context, cmd string) ([]map[string]any, error)

	// EntryDetail fetches a single series by id, including its issue list
	// under the "issues" key.
	EntryDetail(ctx context.Context, id string) (map[string]any, error)

	// Issues fetches the raw issue list for a series.
	Issues(ctx context.Context, id string) ([]map[string]any, error)

	// WantedIssueIDs returns the set of issue ids Mylar is still hunting,
	// issues and annuals combined.
	WantedIssueIDs(ctx context.Context) (map[string]struct{}, error)

	// FetchIssueFile downloads an issue file into destDir and returns the
	// path it was written to. Returns shared.ErrNoFileAvailable when the
	// server has no file for the issue.
	FetchIssueFile(ctx context.Context, issueID, destDir string) (string, error)

	// Name returns the service name for logging.
	Name() string
}

// TargetGateway is the write side of a migration: the server the comic
// library is moving into. Implemented by KapowarrService.
type TargetGateway interface {
	// CheckAuth verifies the API key. A failure here aborts the run.
	CheckAuth(ctx context.Context) error

	// RootFolders lists the storage roots configured on the server.
	RootFolders(ctx context.Context) ([]models.RootFolder, error)

	// ListVolumes fetches every volume the server tracks.
	ListVolumes(ctx context.Context) ([]models.TargetVolume, error)

	// VolumeExists reports whether a volume with the given comicvine id is
	// already tracked.
	VolumeExists(ctx context.Context, externalID string) (bool, error)

	// CreateVolume adds a volume. When the server reports the volume as
	// already added, the returned error wraps shared.ErrVolumeExists.
	CreateVolume(ctx context.Context, spec models.VolumeSpec) (models.TargetVolume, error)

	// VolumeDetail fetches one volume with its issue list.
	VolumeDetail(ctx context.Context, id int) (models.TargetVolume, error)

	// TriggerRescan queues a refresh-and-scan task for a volume so newly
	// copied files get picked up.
	TriggerRescan(ctx context.Context, volumeID int) error

	// TriggerRename queues a mass rename task. With issueID > 0 only that
	// issue's files are renamed.
	TriggerRename(ctx context.Context, volumeID, issueID int) error

	// ProposeImport asks the server to scan for unmatched comic files,
	// optionally filtered to folders matching folderFilter.
	ProposeImport(ctx context.Context, folderFilter string) ([]models.ImportEntry, error)

	// ImportLibrary imports previously proposed files into their volumes.
	ImportLibrary(ctx context.Context, entries []models.ImportEntry, renameFiles bool) error

	// Name returns the service name for logging.
	Name() string
}
