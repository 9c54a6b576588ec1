package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/ports"
)

// ErrDuplicateRecord is returned when a record ID is saved twice.
var ErrDuplicateRecord = errors.New("completion record already exists")

// historyRepository implements ports.HistoryRepository using SQLite.
type historyRepository struct {
	db *sql.DB
}

func newHistoryRepository(db *sql.DB) ports.HistoryRepository {
	return &historyRepository{db: db}
}

const selectCompletions = `
	SELECT id, phase, seconds, cycle, completed_at, git_branch, git_commit
	FROM completions
`

// Save persists a completion record.
func (r *historyRepository) Save(ctx context.Context, record *domain.CompletionRecord) error {
	query := `
		INSERT INTO completions (id, phase, seconds, cycle, completed_at, git_branch, git_commit)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		string(record.Phase),
		record.Seconds,
		record.Cycle,
		record.CompletedAt.UTC(),
		record.GitBranch,
		record.GitCommit,
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateRecord, record.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to save completion: %w", err)
	}
	return nil
}

// FindByID retrieves a record by its identifier.
func (r *historyRepository) FindByID(ctx context.Context, id string) (*domain.CompletionRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectCompletions+`WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query completion: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrRecordNotFound
	}
	return records[0], nil
}

// FindRecent retrieves records completed at or after since, newest first.
func (r *historyRepository) FindRecent(ctx context.Context, since time.Time) ([]*domain.CompletionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		selectCompletions+`WHERE completed_at >= ? ORDER BY completed_at DESC`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query recent completions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// FindLatest retrieves at most limit records, newest first.
func (r *historyRepository) FindLatest(ctx context.Context, limit int) ([]*domain.CompletionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		selectCompletions+`ORDER BY completed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest completions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// GetDailyStats returns aggregated statistics for the calendar day of date.
func (r *historyRepository) GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	query := `
		SELECT
			COUNT(CASE WHEN phase = 'work' THEN 1 END),
			COUNT(CASE WHEN phase IN ('short_break', 'long_break') THEN 1 END),
			COUNT(CASE WHEN phase = 'none' THEN 1 END),
			COALESCE(SUM(CASE WHEN phase = 'work' THEN seconds END), 0),
			COALESCE(SUM(seconds), 0)
		FROM completions
		WHERE completed_at >= ? AND completed_at < ?
	`

	stats := &domain.DailyStats{Date: startOfDay}
	var workSeconds, totalSeconds int64
	err := r.db.QueryRowContext(ctx, query, startOfDay.UTC(), endOfDay.UTC()).Scan(
		&stats.WorkCycles,
		&stats.BreaksTaken,
		&stats.PlainCountdowns,
		&workSeconds,
		&totalSeconds,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	stats.TotalWorkTime = time.Duration(workSeconds) * time.Second
	stats.TotalTime = time.Duration(totalSeconds) * time.Second
	return stats, nil
}

func scanRecords(rows *sql.Rows) ([]*domain.CompletionRecord, error) {
	var records []*domain.CompletionRecord

	for rows.Next() {
		var rec domain.CompletionRecord
		var phase string
		var branch, commit sql.NullString

		if err := rows.Scan(
			&rec.ID,
			&phase,
			&rec.Seconds,
			&rec.Cycle,
			&rec.CompletedAt,
			&branch,
			&commit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}

		rec.Phase = domain.Phase(phase)
		rec.CompletedAt = rec.CompletedAt.Local()
		rec.GitBranch = branch.String
		rec.GitCommit = commit.String
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completions: %w", err)
	}
	return records, nil
}
