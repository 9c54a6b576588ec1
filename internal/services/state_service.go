package services

import (
	"context"

	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/ports"
)

// StateService implements the MCPStateProvider interface.
type StateService struct {
	*PomodoroService
	presets *PresetService
	history *HistoryService
}

// NewStateService creates a new state service. history may be nil when no
// storage is configured.
func NewStateService(pomodoro *PomodoroService, presets *PresetService, history *HistoryService) *StateService {
	return &StateService{PomodoroService: pomodoro, presets: presets, history: history}
}

// ListPresets implements ports.MCPStateProvider.
func (s *StateService) ListPresets() []domain.Preset {
	return s.presets.List()
}

// SearchPresets implements ports.MCPStateProvider.
func (s *StateService) SearchPresets(query string) []domain.Preset {
	return s.presets.Search(query)
}

// ResolveDuration implements ports.MCPStateProvider.
func (s *StateService) ResolveDuration(input string) (int, error) {
	return s.presets.Resolve(input)
}

// GetTodayStats implements ports.MCPStateProvider.
func (s *StateService) GetTodayStats(ctx context.Context) (*domain.DailyStats, error) {
	if s.history == nil {
		return &domain.DailyStats{}, nil
	}
	return s.history.Today(ctx)
}

// GetRecentHistory implements ports.MCPStateProvider.
func (s *StateService) GetRecentHistory(ctx context.Context, limit int) ([]*domain.CompletionRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Latest(ctx, limit)
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)
