package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/ports"
)

// HistoryService handles completion history use cases.
type HistoryService struct {
	storage     ports.Storage
	gitDetector ports.GitDetector
	workingDir  string
}

// NewHistoryService creates a new history service. gitDetector may be nil.
func NewHistoryService(storage ports.Storage, gitDetector ports.GitDetector) *HistoryService {
	wd, _ := os.Getwd()
	return &HistoryService{storage: storage, gitDetector: gitDetector, workingDir: wd}
}

// SetWorkingDir sets the directory scanned for git context.
func (s *HistoryService) SetWorkingDir(dir string) {
	s.workingDir = dir
}

// RecordCompletion stores a finished countdown. It implements
// CompletionRecorder.
func (s *HistoryService) RecordCompletion(ctx context.Context, c Completion) (*domain.CompletionRecord, error) {
	finished := c.Finished
	record := domain.NewCompletionRecord(
		finished.Progress.Phase,
		finished.Session.SelectedSeconds,
		finished.Progress.CompletedWorkCycles,
	)
	if !c.At.IsZero() {
		record.CompletedAt = c.At
	}

	// Detect git context if available
	if s.gitDetector != nil && s.gitDetector.IsAvailable() {
		gitInfo, err := s.gitDetector.Detect(ctx, s.workingDir)
		if err == nil && gitInfo != nil {
			record.SetGitContext(gitInfo.Branch, gitInfo.Commit)
		}
	}

	if err := s.storage.History().Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save completion: %w", err)
	}
	return record, nil
}

// ListRecent returns records completed since the given time, newest first.
func (s *HistoryService) ListRecent(ctx context.Context, since time.Time) ([]*domain.CompletionRecord, error) {
	return s.storage.History().FindRecent(ctx, since)
}

// Latest returns at most limit records, newest first.
func (s *HistoryService) Latest(ctx context.Context, limit int) ([]*domain.CompletionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.storage.History().FindLatest(ctx, limit)
}

// Today returns today's aggregated statistics.
func (s *HistoryService) Today(ctx context.Context) (*domain.DailyStats, error) {
	return s.storage.History().GetDailyStats(ctx, time.Now())
}

// SincePeriod maps "day", "week", "month" or "all" to a start time.
func SincePeriod(period string, now time.Time) (time.Time, error) {
	switch period {
	case "day", "today":
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	case "week", "":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, -1, 0), nil
	case "all":
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unknown period %q: use day, week, month or all", period)
	}
}

// Ensure HistoryService implements CompletionRecorder.
var _ CompletionRecorder = (*HistoryService)(nil)
