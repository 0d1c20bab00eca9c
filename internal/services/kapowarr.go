// Kapowarr API [TargetGateway] implementation
//
// Every endpoint lives under /api/ with the api key as an api_key query
// parameter, and every JSON response is a {result, error} envelope.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"mylar2kapowarr/internal/models"
	"mylar2kapowarr/internal/shared"
)

const defaultKapowarrBaseURL string = "http://localhost:5656"

// Kapowarr task commands for POST /api/system/tasks.
const (
	taskRefreshAndScan  = "refresh_and_scan"
	taskMassRename      = "mass_rename"
	taskMassRenameIssue = "mass_rename_issue"
)

// volumeAlreadyAddedMarker appears in Kapowarr's error field when a volume
// with the same comicvine id is already tracked.
const volumeAlreadyAddedMarker = "VolumeAlreadyAdded"

// volumeNotFoundMarker appears in Kapowarr's error field when a volume id
// does not exist.
const volumeNotFoundMarker = "VolumeNotFound"

type kapowarrEnvelope struct {
	Error  string          `json:"error"`
	Result json.RawMessage `json:"result"`
}

// KapowarrService implements TargetGateway against a Kapowarr server.
type KapowarrService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewKapowarrService creates a Kapowarr gateway for the given server.
func NewKapowarrService(baseURL, apiKey string) *KapowarrService {
	if baseURL == "" {
		baseURL = defaultKapowarrBaseURL
	}

	return &KapowarrService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

// Name returns the service name.
func (k *KapowarrService) Name() string {
	return "Kapowarr"
}

func (k *KapowarrService) endpointURL(endpoint string, params url.Values) string {
	query := url.Values{}
	query.Set("api_key", k.apiKey)
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	return fmt.Sprintf("%s/api/%s?%s", k.baseURL, endpoint, query.Encode())
}

func (k *KapowarrService) doRequest(ctx context.Context, method, endpoint string, params url.Values, body any) (*kapowarrEnvelope, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, k.endpointURL(endpoint, params), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: kapowarr %s: %v", shared.ErrServiceUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: kapowarr %s: %v", shared.ErrAPIRequest, endpoint, err)
	}

	var envelope kapowarrEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: kapowarr %s: status %d", shared.ErrAPIRequest, endpoint, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: kapowarr %s: %v", shared.ErrMalformedResponse, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if strings.Contains(envelope.Error, volumeAlreadyAddedMarker) {
			return &envelope, fmt.Errorf("%w: %s", shared.ErrVolumeExists, envelope.Error)
		}
		if strings.Contains(envelope.Error, volumeNotFoundMarker) {
			return &envelope, fmt.Errorf("%w: %s", shared.ErrVolumeNotFound, envelope.Error)
		}
		if envelope.Error != "" {
			return &envelope, fmt.Errorf("%w: kapowarr %s: %s", shared.ErrAPIRequest, endpoint, envelope.Error)
		}
		return &envelope, fmt.Errorf("%w: kapowarr %s: status %d", shared.ErrAPIRequest, endpoint, resp.StatusCode)
	}

	return &envelope, nil
}

// CheckAuth verifies the API key against POST /api/auth/check.
func (k *KapowarrService) CheckAuth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.endpointURL("auth/check", nil), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: kapowarr: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: kapowarr auth check returned status %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	return nil
}

// RootFolders lists the storage roots configured in Kapowarr.
func (k *KapowarrService) RootFolders(ctx context.Context) ([]models.RootFolder, error) {
	envelope, err := k.doRequest(ctx, http.MethodGet, "rootfolder", nil, nil)
	if err != nil {
		return nil, err
	}

	var folders []models.RootFolder
	if err := json.Unmarshal(envelope.Result, &folders); err != nil {
		return nil, fmt.Errorf("%w: kapowarr rootfolder: %v", shared.ErrMalformedResponse, err)
	}

	return folders, nil
}

// ListVolumes fetches every volume Kapowarr tracks, sorted by title.
func (k *KapowarrService) ListVolumes(ctx context.Context) ([]models.TargetVolume, error) {
	params := url.Values{}
	params.Set("sort", "TITLE")

	envelope, err := k.doRequest(ctx, http.MethodGet, "volumes", params, nil)
	if err != nil {
		return nil, err
	}

	var volumes []models.TargetVolume
	if err := json.Unmarshal(envelope.Result, &volumes); err != nil {
		return nil, fmt.Errorf("%w: kapowarr volumes: %v", shared.ErrMalformedResponse, err)
	}

	return volumes, nil
}

// VolumeExists reports whether a volume with the given comicvine id is
// already tracked, by scanning the volume list.
func (k *KapowarrService) VolumeExists(ctx context.Context, externalID string) (bool, error) {
	volumes, err := k.ListVolumes(ctx)
	if err != nil {
		return false, err
	}

	for _, volume := range volumes {
		if volume.ExternalID == externalID {
			return true, nil
		}
	}

	return false, nil
}

// CreateVolume adds a volume via POST /api/volumes.
//
// A VolumeAlreadyAdded error from the server comes back wrapping
// shared.ErrVolumeExists so callers can fold it into the already-present
// outcome instead of failing the entry.
func (k *KapowarrService) CreateVolume(ctx context.Context, spec models.VolumeSpec) (models.TargetVolume, error) {
	if spec.ExternalID == "" {
		return models.TargetVolume{}, shared.ErrMissingExternalID
	}

	envelope, err := k.doRequest(ctx, http.MethodPost, "volumes", nil, spec)
	if err != nil {
		return models.TargetVolume{}, err
	}

	var volume models.TargetVolume
	if err := json.Unmarshal(envelope.Result, &volume); err != nil {
		return models.TargetVolume{}, fmt.Errorf("%w: kapowarr add volume: %v", shared.ErrMalformedResponse, err)
	}

	return volume, nil
}

// VolumeDetail fetches one volume with its issue list.
func (k *KapowarrService) VolumeDetail(ctx context.Context, id int) (models.TargetVolume, error) {
	envelope, err := k.doRequest(ctx, http.MethodGet, fmt.Sprintf("volumes/%d", id), nil, nil)
	if err != nil {
		return models.TargetVolume{}, err
	}

	var volume models.TargetVolume
	if err := json.Unmarshal(envelope.Result, &volume); err != nil {
		return models.TargetVolume{}, fmt.Errorf("%w: kapowarr volume %d: %v", shared.ErrMalformedResponse, id, err)
	}

	return volume, nil
}

type taskRequest struct {
	Cmd      string `json:"cmd"`
	VolumeID int    `json:"volume_id"`
	IssueID  int    `json:"issue_id,omitempty"`
}

func (k *KapowarrService) queueTask(ctx context.Context, task taskRequest) error {
	_, err := k.doRequest(ctx, http.MethodPost, "system/tasks", nil, task)
	return err
}

// TriggerRescan queues a refresh-and-scan task so newly copied files get
// picked up.
func (k *KapowarrService) TriggerRescan(ctx context.Context, volumeID int) error {
	return k.queueTask(ctx, taskRequest{Cmd: taskRefreshAndScan, VolumeID: volumeID})
}

// TriggerRename queues a mass rename task for a volume, or for a single
// issue when issueID is positive.
func (k *KapowarrService) TriggerRename(ctx context.Context, volumeID, issueID int) error {
	task := taskRequest{Cmd: taskMassRename, VolumeID: volumeID}
	if issueID > 0 {
		task.Cmd = taskMassRenameIssue
		task.IssueID = issueID
	}

	return k.queueTask(ctx, task)
}

// ProposeImport asks Kapowarr to scan for unmatched comic files.
func (k *KapowarrService) ProposeImport(ctx context.Context, folderFilter string) ([]models.ImportEntry, error) {
	params := url.Values{}
	if folderFilter != "" {
		params.Set("folder_filter", folderFilter)
	}

	envelope, err := k.doRequest(ctx, http.MethodGet, "libraryimport", params, nil)
	if err != nil {
		return nil, err
	}

	var entries []models.ImportEntry
	if err := json.Unmarshal(envelope.Result, &entries); err != nil {
		return nil, fmt.Errorf("%w: kapowarr libraryimport: %v", shared.ErrMalformedResponse, err)
	}

	return entries, nil
}

// ImportLibrary imports previously proposed files into their volumes via
// POST /api/libraryimport.
func (k *KapowarrService) ImportLibrary(ctx context.Context, entries []models.ImportEntry, renameFiles bool) error {
	params := url.Values{}
	params.Set("rename_files", "false")
	if renameFiles {
		params.Set("rename_files", "true")
	}

	_, err := k.doRequest(ctx, http.MethodPost, "libraryimport", params, entries)
	return err
}
