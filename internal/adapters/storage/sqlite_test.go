package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xvierd/chronozen/internal/domain"
)

func TestNewMemory(t *testing.T) {
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = storage.Close() }()

	if storage == nil {
		t.Error("NewMemory() returned nil storage")
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	storage, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	rec := domain.NewCompletionRecord(domain.PhaseWork, 1500, 1)
	if err := storage.History().Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	_ = storage.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	found, err := reopened.History().FindByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("FindByID() after reopen error = %v", err)
	}
	if found.Seconds != 1500 {
		t.Errorf("Seconds = %v, want 1500", found.Seconds)
	}
}

func TestHistoryRepository_SaveAndFind(t *testing.T) {
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = storage.Close() }()

	ctx := context.Background()
	repo := storage.History()

	t.Run("round trip", func(t *testing.T) {
		rec := domain.NewCompletionRecord(domain.PhaseShortBreak, 300, 2)
		rec.SetGitContext("main", "abc1234")
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		found, err := repo.FindByID(ctx, rec.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.Phase != domain.PhaseShortBreak || found.Cycle != 2 || found.Seconds != 300 {
			t.Errorf("found = %+v, want short_break/2/300", found)
		}
		if found.GitBranch != "main" || found.GitCommit != "abc1234" {
			t.Errorf("git = %s/%s, want main/abc1234", found.GitBranch, found.GitCommit)
		}
		if !found.CompletedAt.Equal(rec.CompletedAt) {
			t.Errorf("CompletedAt = %v, want %v", found.CompletedAt, rec.CompletedAt)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		rec := domain.NewCompletionRecord(domain.PhaseNone, 60, 0)
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := repo.Save(ctx, rec); !errors.Is(err, ErrDuplicateRecord) {
			t.Errorf("second Save() error = %v, want ErrDuplicateRecord", err)
		}
	})

	t.Run("find non-existent", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "non-existent-id")
		if !errors.Is(err, domain.ErrRecordNotFound) {
			t.Errorf("FindByID() error = %v, want ErrRecordNotFound", err)
		}
	})
}

func seed(t *testing.T, ctx context.Context, storage interface {
	Save(context.Context, *domain.CompletionRecord) error
}, phase domain.Phase, seconds int, at time.Time) *domain.CompletionRecord {
	t.Helper()
	rec := domain.NewCompletionRecord(phase, seconds, 1)
	rec.CompletedAt = at
	if err := storage.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return rec
}

func TestHistoryRepository_FindRecentAndLatest(t *testing.T) {
	storage, _ := NewMemory()
	defer func() { _ = storage.Close() }()

	ctx := context.Background()
	repo := storage.History()
	now := time.Now()

	old := seed(t, ctx, repo, domain.PhaseWork, 1500, now.Add(-72*time.Hour))
	mid := seed(t, ctx, repo, domain.PhaseShortBreak, 300, now.Add(-2*time.Hour))
	recent := seed(t, ctx, repo, domain.PhaseNone, 600, now.Add(-time.Minute))

	got, err := repo.FindRecent(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("FindRecent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("FindRecent() len = %v, want 2", len(got))
	}
	if got[0].ID != recent.ID || got[1].ID != mid.ID {
		t.Errorf("FindRecent() order = %v, %v, want newest first", got[0].ID, got[1].ID)
	}

	latest, err := repo.FindLatest(ctx, 5)
	if err != nil {
		t.Fatalf("FindLatest() error = %v", err)
	}
	if len(latest) != 3 || latest[2].ID != old.ID {
		t.Errorf("FindLatest() = %d records, want 3 ending with the oldest", len(latest))
	}

	latest, _ = repo.FindLatest(ctx, 1)
	if len(latest) != 1 || latest[0].ID != recent.ID {
		t.Errorf("FindLatest(1) did not return the newest record")
	}
}

func TestHistoryRepository_GetDailyStats(t *testing.T) {
	storage, _ := NewMemory()
	defer func() { _ = storage.Close() }()

	ctx := context.Background()
	repo := storage.History()
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)

	seed(t, ctx, repo, domain.PhaseWork, 1500, day.Add(9*time.Hour))
	seed(t, ctx, repo, domain.PhaseWork, 1500, day.Add(10*time.Hour))
	seed(t, ctx, repo, domain.PhaseShortBreak, 300, day.Add(9*time.Hour+30*time.Minute))
	seed(t, ctx, repo, domain.PhaseLongBreak, 900, day.Add(11*time.Hour))
	seed(t, ctx, repo, domain.PhaseNone, 210, day.Add(15*time.Hour))
	seed(t, ctx, repo, domain.PhaseWork, 1500, day.AddDate(0, 0, 1).Add(time.Hour))

	stats, err := repo.GetDailyStats(ctx, day.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("GetDailyStats() error = %v", err)
	}

	if stats.WorkCycles != 2 {
		t.Errorf("WorkCycles = %v, want 2", stats.WorkCycles)
	}
	if stats.BreaksTaken != 2 {
		t.Errorf("BreaksTaken = %v, want 2", stats.BreaksTaken)
	}
	if stats.PlainCountdowns != 1 {
		t.Errorf("PlainCountdowns = %v, want 1", stats.PlainCountdowns)
	}
	if stats.TotalWorkTime != 50*time.Minute {
		t.Errorf("TotalWorkTime = %v, want 50m", stats.TotalWorkTime)
	}
	if want := (1500*2 + 300 + 900 + 210) * time.Second; stats.TotalTime != want {
		t.Errorf("TotalTime = %v, want %v", stats.TotalTime, want)
	}
	if !stats.Date.Equal(day) {
		t.Errorf("Date = %v, want %v", stats.Date, day)
	}
}

func TestHistoryRepository_EmptyDay(t *testing.T) {
	storage, _ := NewMemory()
	defer func() { _ = storage.Close() }()

	stats, err := storage.History().GetDailyStats(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("GetDailyStats() error = %v", err)
	}
	if stats.WorkCycles != 0 || stats.TotalTime != 0 {
		t.Errorf("stats = %+v, want zero", stats)
	}
}
