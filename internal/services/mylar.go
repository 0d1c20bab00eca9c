// Mylar3 API [SourceGateway] implementation
//
// Mylar exposes a single command-style endpoint at /api; the command name and
// the api key travel as query parameters and every JSON response is a
// {success, data} envelope. The issue download command is the exception: it
// streams the file itself and only falls back to JSON for errors.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"mylar2kapowarr/internal/shared"
)

const defaultMylarBaseURL string = "http://localhost:8090"

// Series listing commands understood by the different Mylar generations.
const (
	CmdGetIndex  = "getIndex"  // current Mylar3
	CmdGetComics = "getComics" // older Mylar versions
	CmdGetSeries = "getSeries" // newer Mylar3 builds
)

type mylarEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// MylarService implements SourceGateway against a Mylar3 server.
type MylarService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewMylarService creates a Mylar gateway for the given server.
func NewMylarService(baseURL, apiKey string) *MylarService {
	if baseURL == "" {
		baseURL = defaultMylarBaseURL
	}

	return &MylarService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

// Name returns the service name.
func (m *MylarService) Name() string {
	return "Mylar"
}

func (m *MylarService) commandURL(cmd string, params url.Values) string {
	query := url.Values{}
	query.Set("apikey", m.apiKey)
	query.Set("cmd", cmd)
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	return fmt.Sprintf("%s/api?%s", m.baseURL, query.Encode())
}

func (m *MylarService) doCommand(ctx context.Context, cmd string, params url.Values) (*mylarEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.commandURL(cmd, params), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: mylar %s: %v", shared.ErrServiceUnavailable, cmd, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: mylar %s: status %d", shared.ErrAPIRequest, cmd, resp.StatusCode)
	}

	var envelope mylarEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: mylar %s: %v", shared.ErrMalformedResponse, cmd, err)
	}

	return &envelope, nil
}

// ListEntries fetches the raw series list using the given API command.
//
// getComics and getSeries put the list directly in data; getIndex does too on
// current builds but returns {comics: [...]} on some older ones. Entries stay
// raw maps because field names vary across versions.
func (m *MylarService) ListEntries(ctx context.Context, cmd string) ([]map[string]any, error) {
	if cmd == "" {
		cmd = CmdGetIndex
	}

	envelope, err := m.doCommand(ctx, cmd, nil)
	if err != nil {
		return nil, err
	}

	var entries []map[string]any
	if err := json.Unmarshal(envelope.Data, &entries); err == nil {
		return entries, nil
	}

	var wrapped struct {
		Comics []map[string]any `json:"comics"`
	}
	if err := json.Unmarshal(envelope.Data, &wrapped); err == nil && wrapped.Comics != nil {
		return wrapped.Comics, nil
	}

	return nil, fmt.Errorf("%w: mylar %s: unexpected data shape", shared.ErrMalformedResponse, cmd)
}

// EntryDetail fetches a single series by id, issue list included under the
// "issues" key.
func (m *MylarService) EntryDetail(ctx context.Context, id string) (map[string]any, error) {
	params := url.Values{}
	params.Set("id", id)

	envelope, err := m.doCommand(ctx, "getComic", params)
	if err != nil {
		return nil, err
	}

	var detail map[string]any
	if err := json.Unmarshal(envelope.Data, &detail); err != nil {
		return nil, fmt.Errorf("%w: mylar getComic: %v", shared.ErrMalformedResponse, err)
	}

	return detail, nil
}

// Issues fetches the raw issue list for a series.
func (m *MylarService) Issues(ctx context.Context, id string) ([]map[string]any, error) {
	detail, err := m.EntryDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	rawIssues, ok := detail["issues"].([]any)
	if !ok {
		return nil, nil
	}

	issues := make([]map[string]any, 0, len(rawIssues))
	for _, raw := range rawIssues {
		if issue, ok := raw.(map[string]any); ok {
			issues = append(issues, issue)
		}
	}

	return issues, nil
}

// WantedIssueIDs returns the set of issue ids Mylar is still hunting,
// issues and annuals combined.
func (m *MylarService) WantedIssueIDs(ctx context.Context) (map[string]struct{}, error) {
	params := url.Values{}
	params.Set("issues", "True")
	params.Set("annuals", "True")

	envelope, err := m.doCommand(ctx, "getWanted", params)
	if err != nil {
		return nil, err
	}

	var wanted struct {
		Issues  []map[string]any `json:"issues"`
		Annuals []map[string]any `json:"annuals"`
	}
	if err := json.Unmarshal(envelope.Data, &wanted); err != nil {
		return nil, fmt.Errorf("%w: mylar getWanted: %v", shared.ErrMalformedResponse, err)
	}

	ids := make(map[string]struct{})
	collect := func(issues []map[string]any) {
		for _, issue := range issues {
			for _, key := range []string{"IssueID", "id"} {
				if id, ok := issue[key]; ok {
					ids[fmt.Sprintf("%v", id)] = struct{}{}
					break
				}
			}
		}
	}
	collect(wanted.Issues)
	collect(wanted.Annuals)

	return ids, nil
}

// FetchIssueFile downloads an issue file into destDir and returns the path it
// was written to.
//
// Mylar misreports download failures as a 200 with a JSON body, so the content
// type is checked before treating the stream as a file. A response without a
// Content-Disposition filename is a placeholder for an unreleased issue and
// counts as no file.
func (m *MylarService) FetchIssueFile(ctx context.Context, issueID, destDir string) (string, error) {
	params := url.Values{}
	params.Set("id", issueID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.commandURL("downloadIssue", params), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: mylar downloadIssue: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: mylar downloadIssue: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "application/json" {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: issue %s: %s", shared.ErrNoFileAvailable, issueID, string(body))
	}

	filename := downloadFilename(resp.Header.Get("Content-Disposition"))
	if filename == "" {
		return "", fmt.Errorf("%w: issue %s has no release file", shared.ErrNoFileAvailable, issueID)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create destination %s: %w", destDir, err)
	}

	destPath := filepath.Join(destDir, filepath.Base(filename))
	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", destPath, err)
	}

	written, err := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	if written == 0 {
		os.Remove(destPath)
		return "", fmt.Errorf("%w: issue %s downloaded empty", shared.ErrNoFileAvailable, issueID)
	}

	if err := os.Chmod(destPath, 0o644); err != nil {
		return "", fmt.Errorf("failed to set permissions on %s: %w", destPath, err)
	}

	return destPath, nil
}

// downloadFilename extracts the filename from a Content-Disposition header.
// Returns "" when the header is absent or carries no usable name.
func downloadFilename(disposition string) string {
	if disposition == "" {
		return ""
	}

	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}

	return params["filename"]
}
