package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xvierd/chronozen/internal/domain"
)

// Mock implementations for testing interfaces.

var errRecordNotFound = errors.New("record not found")

type mockHistoryRepository struct {
	records []*domain.CompletionRecord
}

func (m *mockHistoryRepository) Save(ctx context.Context, record *domain.CompletionRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *mockHistoryRepository) FindByID(ctx context.Context, id string) (*domain.CompletionRecord, error) {
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, errRecordNotFound
}

func (m *mockHistoryRepository) FindRecent(ctx context.Context, since time.Time) ([]*domain.CompletionRecord, error) {
	var result []*domain.CompletionRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		if !m.records[i].CompletedAt.Before(since) {
			result = append(result, m.records[i])
		}
	}
	return result, nil
}

func (m *mockHistoryRepository) FindLatest(ctx context.Context, limit int) ([]*domain.CompletionRecord, error) {
	all, _ := m.FindRecent(ctx, time.Time{})
	if len(all) > limit {
		return all[:limit], nil
	}
	return all, nil
}

func (m *mockHistoryRepository) GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	stats := &domain.DailyStats{Date: date}
	for _, r := range m.records {
		stats.TotalTime += r.Duration()
		switch {
		case r.IsWork():
			stats.WorkCycles++
			stats.TotalWorkTime += r.Duration()
		case r.IsBreak():
			stats.BreaksTaken++
		default:
			stats.PlainCountdowns++
		}
	}
	return stats, nil
}

var _ HistoryRepository = (*mockHistoryRepository)(nil)

func TestMockHistoryRepository(t *testing.T) {
	repo := &mockHistoryRepository{}
	ctx := context.Background()

	t.Run("save and find record", func(t *testing.T) {
		record := domain.NewCompletionRecord(domain.PhaseWork, 1500, 1)
		if err := repo.Save(ctx, record); err != nil {
			t.Errorf("Save() error = %v", err)
		}

		found, err := repo.FindByID(ctx, record.ID)
		if err != nil {
			t.Errorf("FindByID() error = %v", err)
		}
		if found.Phase != record.Phase {
			t.Errorf("Found record phase = %v, want %v", found.Phase, record.Phase)
		}
	})

	t.Run("find non-existent record", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "non-existent")
		if !errors.Is(err, errRecordNotFound) {
			t.Errorf("FindByID() error = %v, want errRecordNotFound", err)
		}
	})

	t.Run("daily stats", func(t *testing.T) {
		_ = repo.Save(ctx, domain.NewCompletionRecord(domain.PhaseShortBreak, 300, 1))
		_ = repo.Save(ctx, domain.NewCompletionRecord(domain.PhaseNone, 60, 0))

		stats, err := repo.GetDailyStats(ctx, time.Now())
		if err != nil {
			t.Fatalf("GetDailyStats() error = %v", err)
		}
		if stats.WorkCycles != 1 || stats.BreaksTaken != 1 || stats.PlainCountdowns != 1 {
			t.Errorf("stats = %+v, want 1 work, 1 break, 1 plain", stats)
		}
	})
}
