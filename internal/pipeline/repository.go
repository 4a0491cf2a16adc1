package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/salesmap/internal/domain"
	"github.com/andresuchdata/salesmap/internal/repository"
)

// Repository handles database operations for report run tracking. It works
// with any database/sql Postgres driver (lib/pq or pgx stdlib).
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new run repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var _ repository.ReportRunRepository = (*Repository)(nil)

// CreateRun inserts a new report run record
func (r *Repository) CreateRun(ctx context.Context, run *domain.ReportRun) error {
	query := `
		INSERT INTO report_runs (
			id, variant, month, start_date, end_date,
			status, total_rows, started_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx, query,
		run.ID, string(run.Variant), run.Month, run.StartDate, run.EndDate,
		string(run.Status), run.TotalRows, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report run: %w", err)
	}
	return nil
}

// UpdateRun stores the outcome of a run
func (r *Repository) UpdateRun(ctx context.Context, run *domain.ReportRun) error {
	query := `
		UPDATE report_runs
		SET status = $1, total_rows = $2, object_key = $3,
		    completed_at = $4, error_message = $5
		WHERE id = $6
	`

	res, err := r.db.ExecContext(
		ctx, query,
		string(run.Status), run.TotalRows, nullString(run.ObjectKey),
		run.CompletedAt, nullString(run.ErrorMessage), run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update report run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrRunNotFound
	}
	return nil
}

const runColumns = `
	id, variant, month, start_date, end_date, status, total_rows,
	object_key, started_at, completed_at, error_message
`

// GetRun retrieves a report run by ID
func (r *Repository) GetRun(ctx context.Context, id string) (*domain.ReportRun, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM report_runs WHERE id = $1`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]*domain.ReportRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+runColumns+`
		FROM report_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list report runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.ReportRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*domain.ReportRun, error) {
	var (
		run       domain.ReportRun
		variant   string
		status    string
		objectKey sql.NullString
		errMsg    sql.NullString
		completed sql.NullTime
	)
	err := s.Scan(
		&run.ID, &variant, &run.Month, &run.StartDate, &run.EndDate, &status,
		&run.TotalRows, &objectKey, &run.StartedAt, &completed, &errMsg,
	)
	if err != nil {
		return nil, err
	}
	run.Variant = domain.Variant(variant)
	run.Status = domain.RunStatus(status)
	run.ObjectKey = objectKey.String
	run.ErrorMessage = errMsg.String
	if completed.Valid {
		t := completed.Time
		run.CompletedAt = &t
	}
	return &run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
