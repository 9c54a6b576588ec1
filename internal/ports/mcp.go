package ports

import (
	"context"

	"github.com/xvierd/chronozen/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides timer state and controls to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	TimerControl

	// ListPresets returns the configured countdown presets.
	ListPresets() []domain.Preset

	// SearchPresets returns presets fuzzily matching query, best first.
	SearchPresets(query string) []domain.Preset

	// ResolveDuration turns a preset label or duration text into seconds.
	ResolveDuration(input string) (int, error)

	// GetTodayStats returns today's completion statistics.
	GetTodayStats(ctx context.Context) (*domain.DailyStats, error)

	// GetRecentHistory returns the latest completion records.
	GetRecentHistory(ctx context.Context, limit int) ([]*domain.CompletionRecord, error)
}
