package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mylar2kapowarr/internal/models"
	"mylar2kapowarr/internal/shared"
)

func TestKapowarrService(t *testing.T) {
	t.Run("NewKapowarrService", func(t *testing.T) {
		if svc := NewKapowarrService("", "key"); svc.baseURL != defaultKapowarrBaseURL {
			t.Errorf("expected baseURL to be %s, got %s", defaultKapowarrBaseURL, svc.baseURL)
		}
	})

	t.Run("Name", func(t *testing.T) {
		if svc := NewKapowarrService("", "key"); svc.Name() != "Kapowarr" {
			t.Errorf("expected name to be 'Kapowarr', got %s", svc.Name())
		}
	})

	t.Run("CheckAuth", func(t *testing.T) {
		t.Run("passes on a 2xx response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/auth/check" {
					t.Errorf("expected path /api/auth/check, got %s", r.URL.Path)
				}
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}
				if got := r.URL.Query().Get("api_key"); got != "secret" {
					t.Errorf("expected api_key secret, got %s", got)
				}
			}))
			defer server.Close()

			svc := NewKapowarrService(server.URL, "secret")
			if err := svc.CheckAuth(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("fails with ErrAuthFailed on a 401", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer server.Close()

			svc := NewKapowarrService(server.URL, "wrong")
			if err := svc.CheckAuth(context.Background()); !errors.Is(err, shared.ErrAuthFailed) {
				t.Fatalf("expected ErrAuthFailed, got %v", err)
			}
		})
	})

	t.Run("RootFolders", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/rootfolder" {
				t.Errorf("expected path /api/rootfolder, got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"error": nil,
				"result": []map[string]any{
					{"id": 1, "folder": "/comics-1/"},
					{"id": 2, "folder": "/comics-2/"},
				},
			})
		}))
		defer server.Close()

		svc := NewKapowarrService(server.URL, "secret")
		folders, err := svc.RootFolders(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(folders) != 2 {
			t.Fatalf("expected 2 folders, got %d", len(folders))
		}
		if folders[0].ID != 1 || folders[0].Folder != "/comics-1/" {
			t.Errorf("unexpected first folder: %+v", folders[0])
		}
	})

	t.Run("ListVolumes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/volumes" {
				t.Errorf("expected path /api/volumes, got %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("sort"); got != "TITLE" {
				t.Errorf("expected sort TITLE, got %s", got)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"error": nil,
				"result": []map[string]any{
					{"id": 10, "comicvine_id": 56001, "title": "Saga"},
					{"id": 11, "comicvine_id": "77412", "title": "Monstress"},
				},
			})
		}))
		defer server.Close()

		svc := NewKapowarrService(server.URL, "secret")
		volumes, err := svc.ListVolumes(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(volumes) != 2 {
			t.Fatalf("expected 2 volumes, got %d", len(volumes))
		}
		// Kapowarr reports comicvine_id numerically; both forms land as strings.
		if volumes[0].ExternalID != "56001" {
			t.Errorf("expected external id 56001, got %q", volumes[0].ExternalID)
		}
		if volumes[1].ExternalID != "77412" {
			t.Errorf("expected external id 77412, got %q", volumes[1].ExternalID)
		}

		t.Run("VolumeExists scans the list", func(t *testing.T) {
			exists, err := svc.VolumeExists(context.Background(), "56001")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !exists {
				t.Error("expected volume 56001 to exist")
			}

			exists, err = svc.VolumeExists(context.Background(), "99999")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if exists {
				t.Error("expected volume 99999 to be absent")
			}
		})
	})

	t.Run("CreateVolume", func(t *testing.T) {
		t.Run("posts the volume spec and decodes the volume", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}

				var spec map[string]any
				if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if spec["comicvine_id"] != "56001" {
					t.Errorf("expected comicvine_id 56001, got %v", spec["comicvine_id"])
				}
				if spec["root_folder_id"] != float64(2) {
					t.Errorf("expected root_folder_id 2, got %v", spec["root_folder_id"])
				}
				if _, ok := spec["monitor"]; ok {
					t.Error("expected monitor flag to be omitted")
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"error":  nil,
					"result": map[string]any{"id": 10, "comicvine_id": 56001, "folder": "/comics-1/Image/Saga/v2012"},
				})
			}))
			defer server.Close()

			svc := NewKapowarrService(server.URL, "secret")
			volume, err := svc.CreateVolume(context.Background(), models.VolumeSpec{
				ExternalID:   "56001",
				RootFolderID: 2,
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if volume.ID != 10 {
				t.Errorf("expected volume id 10, got %d", volume.ID)
			}
			if volume.ExternalID != "56001" {
				t.Errorf("expected external id 56001, got %q", volume.ExternalID)
			}
		})

		t.Run("maps VolumeAlreadyAdded to ErrVolumeExists", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]any{"error": "VolumeAlreadyAdded", "result": map[string]any{}})
			}))
			defer server.Close()

			svc := NewKapowarrService(server.URL, "secret")
			_, err := svc.CreateVolume(context.Background(), models.VolumeSpec{ExternalID: "56001", RootFolderID: 2})
			if !errors.Is(err, shared.ErrVolumeExists) {
				t.Fatalf("expected ErrVolumeExists, got %v", err)
			}
		})

		t.Run("rejects a missing comicvine id", func(t *testing.T) {
			svc := NewKapowarrService("http://localhost:1", "secret")
			if _, err := svc.CreateVolume(context.Background(), models.VolumeSpec{RootFolderID: 2}); !errors.Is(err, shared.ErrMissingExternalID) {
				t.Fatalf("expected ErrMissingExternalID, got %v", err)
			}
		})
	})

	t.Run("VolumeDetail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/volumes/10" {
				t.Errorf("expected path /api/volumes/10, got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"error": nil,
				"result": map[string]any{
					"id":     10,
					"folder": "/comics-1/Image/Saga/v2012",
					"issues": []map[string]any{{"id": 100, "issue_number": "1"}},
				},
			})
		}))
		defer server.Close()

		svc := NewKapowarrService(server.URL, "secret")
		volume, err := svc.VolumeDetail(context.Background(), 10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(volume.Issues) != 1 || volume.Issues[0].Number != "1" {
			t.Errorf("unexpected issues: %+v", volume.Issues)
		}

		t.Run("maps VolumeNotFound to ErrVolumeNotFound", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]any{"error": "VolumeNotFound", "result": nil})
			}))
			defer server.Close()

			svc := NewKapowarrService(server.URL, "secret")
			if _, err := svc.VolumeDetail(context.Background(), 999); !errors.Is(err, shared.ErrVolumeNotFound) {
				t.Fatalf("expected ErrVolumeNotFound, got %v", err)
			}
		})
	})

	t.Run("tasks", func(t *testing.T) {
		var lastTask map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/system/tasks" {
				t.Errorf("expected path /api/system/tasks, got %s", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&lastTask); err != nil {
				t.Fatalf("failed to decode task: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"error": nil, "result": map[string]any{"id": 77}})
		}))
		defer server.Close()

		svc := NewKapowarrService(server.URL, "secret")

		t.Run("TriggerRescan queues refresh_and_scan", func(t *testing.T) {
			if err := svc.TriggerRescan(context.Background(), 10); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if lastTask["cmd"] != taskRefreshAndScan {
				t.Errorf("expected cmd %s, got %v", taskRefreshAndScan, lastTask["cmd"])
			}
			if lastTask["volume_id"] != float64(10) {
				t.Errorf("expected volume_id 10, got %v", lastTask["volume_id"])
			}
		})

		t.Run("TriggerRename queues mass_rename for a volume", func(t *testing.T) {
			if err := svc.TriggerRename(context.Background(), 10, 0); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if lastTask["cmd"] != taskMassRename {
				t.Errorf("expected cmd %s, got %v", taskMassRename, lastTask["cmd"])
			}
			if _, ok := lastTask["issue_id"]; ok {
				t.Error("expected issue_id to be omitted for volume rename")
			}
		})

		t.Run("TriggerRename queues mass_rename_issue for an issue", func(t *testing.T) {
			if err := svc.TriggerRename(context.Background(), 10, 100); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if lastTask["cmd"] != taskMassRenameIssue {
				t.Errorf("expected cmd %s, got %v", taskMassRenameIssue, lastTask["cmd"])
			}
			if lastTask["issue_id"] != float64(100) {
				t.Errorf("expected issue_id 100, got %v", lastTask["issue_id"])
			}
		})
	})

	t.Run("library import", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/libraryimport" {
				t.Errorf("expected path /api/libraryimport, got %s", r.URL.Path)
			}

			w.Header().Set("Content-Type", "application/json")
			switch r.Method {
			case http.MethodGet:
				if got := r.URL.Query().Get("folder_filter"); got != "/comics-1/Image" {
					t.Errorf("expected folder_filter /comics-1/Image, got %s", got)
				}
				json.NewEncoder(w).Encode(map[string]any{
					"error": nil,
					"result": []map[string]any{
						{"filepath": "/comics-1/Image/Saga/v2012/Saga #001.cbz", "id": 100},
					},
				})
			case http.MethodPost:
				if got := r.URL.Query().Get("rename_files"); got != "true" {
					t.Errorf("expected rename_files true, got %s", got)
				}
				var entries []map[string]any
				if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
					t.Fatalf("failed to decode entries: %v", err)
				}
				if len(entries) != 1 {
					t.Fatalf("expected 1 entry, got %d", len(entries))
				}
				json.NewEncoder(w).Encode(map[string]any{"error": nil, "result": map[string]any{}})
			default:
				t.Errorf("unexpected method %s", r.Method)
			}
		}))
		defer server.Close()

		svc := NewKapowarrService(server.URL, "secret")

		entries, err := svc.ProposeImport(context.Background(), "/comics-1/Image")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 1 || entries[0].ID != 100 {
			t.Fatalf("unexpected proposals: %+v", entries)
		}

		if err := svc.ImportLibrary(context.Background(), entries, true); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("non-JSON body yields ErrMalformedResponse", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		svc := NewKapowarrService(server.URL, "secret")
		if _, err := svc.ListVolumes(context.Background()); !errors.Is(err, shared.ErrMalformedResponse) {
			t.Fatalf("expected ErrMalformedResponse, got %v", err)
		}
	})
}
