package repositories

import (
	"database/sql"
	"testing"
	"time"

	"mylar2kapowarr/internal/models"
	"mylar2kapowarr/internal/shared"
	"mylar2kapowarr/internal/tasks"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestRunRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		run := models.NewMigrationRun(0, false, "")

		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		if run.ID() == "" {
			t.Error("run ID should be set after creation")
		}
		if run.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", run.Sequence())
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		run := models.NewMigrationRun(0, true, "Saga")

		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		retrieved, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}

		if retrieved.ID() != run.ID() {
			t.Errorf("expected ID %s, got %s", run.ID(), retrieved.ID())
		}
		if !retrieved.DryRun() {
			t.Error("expected dry run flag to persist")
		}
		if retrieved.ResumeFrom() != "Saga" {
			t.Errorf("expected resume_from Saga, got %s", retrieved.ResumeFrom())
		}
		if retrieved.Status() != models.RunStatusRunning {
			t.Errorf("expected running status, got %s", retrieved.Status())
		}
	})

	t.Run("Get returns an error for a missing run", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		if _, err := repo.Get("nope"); err == nil {
			t.Fatal("expected an error for a missing run")
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		run := models.NewMigrationRun(0, false, "")

		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		run.SetStatus(models.RunStatusCompleted)
		run.SetEntriesTotal(10)
		run.SetCreated(7)
		run.SetAlreadyPresent(2)
		run.SetSkipped(1)
		run.SetFilesCopied(42)
		now := time.Now()
		run.SetCompletedAt(&now)

		if err := repo.Update(run); err != nil {
			t.Fatalf("failed to update run: %v", err)
		}

		retrieved, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if retrieved.Status() != models.RunStatusCompleted {
			t.Errorf("expected completed status, got %s", retrieved.Status())
		}
		if retrieved.Created() != 7 || retrieved.FilesCopied() != 42 {
			t.Errorf("unexpected counters: %d created, %d files", retrieved.Created(), retrieved.FilesCopied())
		}
		if retrieved.CompletedAt() == nil {
			t.Error("expected completed_at to persist")
		}
	})

	t.Run("Update rejects an invalid status", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		run := models.NewMigrationRun(0, false, "")
		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		run.SetStatus("exploded")
		if err := repo.Update(run); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("Delete hides the run from Get and List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		run := models.NewMigrationRun(0, false, "")
		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		if err := repo.Delete(run.ID()); err != nil {
			t.Fatalf("failed to delete run: %v", err)
		}
		if _, err := repo.Get(run.ID()); err == nil {
			t.Error("expected deleted run to be hidden")
		}
		if err := repo.Delete(run.ID()); err == nil {
			t.Error("expected second delete to fail")
		}
	})

	t.Run("List orders newest first and honors limit", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		for range 3 {
			run := models.NewMigrationRun(0, false, "")
			if err := repo.Create(run); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
		}

		runs, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		if runs[0].Sequence() != 3 {
			t.Errorf("expected newest run first, got sequence %d", runs[0].Sequence())
		}

		limited, err := repo.List(map[string]any{"limit": 2})
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 runs with limit, got %d", len(limited))
		}

		completed, err := repo.List(map[string]any{"status": models.RunStatusCompleted})
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(completed) != 0 {
			t.Errorf("expected no completed runs, got %d", len(completed))
		}
	})
}

func TestEntryRepository(t *testing.T) {
	entry := models.SourceEntry{Title: "Saga", ExternalID: "56001", Status: "active"}

	t.Run("Create and Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		runs := NewRunRepository(db)
		run := models.NewMigrationRun(0, false, "")
		if err := runs.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		repo := NewEntryRepository(db)
		snapshot := models.NewCachedEntry(run.ID(), entry, "created")
		if err := repo.Create(snapshot); err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		retrieved, err := repo.Get(snapshot.ID())
		if err != nil {
			t.Fatalf("failed to get entry: %v", err)
		}
		if retrieved.Title() != "Saga" || retrieved.ExternalID() != "56001" {
			t.Errorf("unexpected entry: %s/%s", retrieved.Title(), retrieved.ExternalID())
		}
		if retrieved.State() != "created" {
			t.Errorf("expected state created, got %s", retrieved.State())
		}
	})

	t.Run("Create rejects a missing run id", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewEntryRepository(db)
		if err := repo.Create(models.NewCachedEntry("", entry, "created")); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("List filters by run and state", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		runs := NewRunRepository(db)
		run := models.NewMigrationRun(0, false, "")
		if err := runs.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		repo := NewEntryRepository(db)
		states := []string{"created", "skipped", "created"}
		for i, state := range states {
			e := entry
			e.Title = entry.Title + string(rune('A'+i))
			if err := repo.Create(models.NewCachedEntry(run.ID(), e, state)); err != nil {
				t.Fatalf("failed to create entry: %v", err)
			}
		}

		all, err := repo.List(map[string]any{"run_id": run.ID()})
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 entries, got %d", len(all))
		}

		created, err := repo.List(map[string]any{"run_id": run.ID(), "state": "created"})
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(created) != 2 {
			t.Errorf("expected 2 created entries, got %d", len(created))
		}
	})

	t.Run("Purge removes all snapshots for a run", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		runs := NewRunRepository(db)
		run := models.NewMigrationRun(0, false, "")
		if err := runs.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		repo := NewEntryRepository(db)
		for i := 0; i < 3; i++ {
			e := entry
			e.Title = entry.Title + string(rune('A'+i))
			if err := repo.Create(models.NewCachedEntry(run.ID(), e, "created")); err != nil {
				t.Fatalf("failed to create entry: %v", err)
			}
		}

		purged, err := repo.Purge(run.ID())
		if err != nil {
			t.Fatalf("failed to purge entries: %v", err)
		}
		if purged != 3 {
			t.Errorf("expected 3 purged entries, got %d", purged)
		}

		remaining, err := repo.List(map[string]any{"run_id": run.ID()})
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(remaining) != 0 {
			t.Errorf("expected no entries after purge, got %d", len(remaining))
		}
	})
}

func TestHistoryRecorder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	recorder := NewHistoryRecorder(db)

	run, err := recorder.StartRun(false, "")
	if err != nil {
		t.Fatalf("failed to start run: %v", err)
	}
	if run.ID() == "" {
		t.Fatal("expected run ID to be set")
	}

	entry := models.SourceEntry{Title: "Saga", ExternalID: "56001", Status: "active"}
	if err := recorder.RecordEntry(run.ID(), entry, tasks.StateDone); err != nil {
		t.Fatalf("failed to record entry: %v", err)
	}

	result := &tasks.RunResult{EntriesTotal: 1, Created: 1, FilesCopied: 3}
	if err := recorder.FinishRun(run, result); err != nil {
		t.Fatalf("failed to finish run: %v", err)
	}

	retrieved, err := NewRunRepository(db).Get(run.ID())
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if retrieved.Status() != models.RunStatusCompleted {
		t.Errorf("expected completed status, got %s", retrieved.Status())
	}
	if retrieved.FilesCopied() != 3 {
		t.Errorf("expected 3 files copied, got %d", retrieved.FilesCopied())
	}

	snapshots, err := NewEntryRepository(db).List(map[string]any{"run_id": run.ID()})
	if err != nil {
		t.Fatalf("failed to list snapshots: %v", err)
	}
	if len(snapshots) != 1 || snapshots[0].State() != "done" {
		t.Errorf("unexpected snapshots: %+v", snapshots)
	}

	t.Run("all-failed run is marked failed", func(t *testing.T) {
		run, err := recorder.StartRun(false, "")
		if err != nil {
			t.Fatalf("failed to start run: %v", err)
		}

		result := &tasks.RunResult{EntriesTotal: 2, Failed: 2}
		if err := recorder.FinishRun(run, result); err != nil {
			t.Fatalf("failed to finish run: %v", err)
		}

		retrieved, err := NewRunRepository(db).Get(run.ID())
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if retrieved.Status() != models.RunStatusFailed {
			t.Errorf("expected failed status, got %s", retrieved.Status())
		}
	})
}
