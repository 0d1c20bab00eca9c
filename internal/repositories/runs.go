package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"mylar2kapowarr/internal/models"
	"mylar2kapowarr/internal/shared"
)

// RunRepository implements [models.Repository] for [models.MigrationRun] persistence.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new [RunRepository] with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id, sequence, status, dry_run, entries_total, created_count, already_present,
	skipped, failed, files_copied, resume_from, started_at, completed_at, created_at, updated_at, deleted_at`

// Create inserts a new run into the database with generated ID and sequence
func (r *RunRepository) Create(run *models.MigrationRun) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID(), run.Sequence(), run.Status(), run.DryRun(), run.EntriesTotal(),
		run.Created(), run.AlreadyPresent(), run.Skipped(), run.Failed(), run.FilesCopied(),
		run.ResumeFrom(), run.StartedAt(), nullableTime(run.CompletedAt()),
		run.CreatedAt(), run.UpdatedAt(), nullableTime(run.DeletedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.MigrationRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM runs
		WHERE id = ? AND deleted_at IS NULL
	`

	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	return run, nil
}

// Update modifies an existing run in the database
func (r *RunRepository) Update(run *models.MigrationRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE runs
		SET status = ?, entries_total = ?, created_count = ?, already_present = ?,
			skipped = ?, failed = ?, files_copied = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.Status(), run.EntriesTotal(), run.Created(), run.AlreadyPresent(),
		run.Skipped(), run.Failed(), run.FilesCopied(), nullableTime(run.CompletedAt()), now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found or already deleted: %s", run.ID())
	}

	return nil
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	query := `
		UPDATE runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all runs matching the given criteria, excluding soft-deleted
// runs, newest first
func (r *RunRepository) List(criteria map[string]any) ([]*models.MigrationRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM runs
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.MigrationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*models.MigrationRun, error) {
	var (
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
		resumeFrom     sql.NullString
		startedAt      time.Time
		completedAt    sql.NullTime
		createdAt      time.Time
		updatedAt      time.Time
		deletedAt      sql.NullTime
	)

	err := row.Scan(&id, &sequence, &status, &dryRun, &entriesTotal, &created, &alreadyPresent,
		&skipped, &failed, &filesCopied, &resumeFrom, &startedAt, &completedAt,
		&createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	run := models.NewMigrationRun(sequence, dryRun, resumeFrom.String)
	run.SetID(id)
	run.SetStatus(status)
	run.SetEntriesTotal(entriesTotal)
	run.SetCreated(created)
	run.SetAlreadyPresent(alreadyPresent)
	run.SetSkipped(skipped)
	run.SetFailed(failed)
	run.SetFilesCopied(filesCopied)
	run.SetStartedAt(startedAt)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if completedAt.Valid {
		run.SetCompletedAt(&completedAt.Time)
	}
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
