// Package ports defines the interfaces (driven and driving ports)
// for the ChronoZen application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/chronozen/internal/domain"
)

// HistoryRepository defines the interface for completion history persistence.
// This is a driven port (implemented by adapters).
type HistoryRepository interface {
	// Save persists a completion record.
	Save(ctx context.Context, record *domain.CompletionRecord) error

	// FindByID retrieves a record by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.CompletionRecord, error)

	// FindRecent retrieves records completed at or after since, newest first.
	FindRecent(ctx context.Context, since time.Time) ([]*domain.CompletionRecord, error)

	// FindLatest returns at most limit records, newest first.
	FindLatest(ctx context.Context, limit int) ([]*domain.CompletionRecord, error)

	// GetDailyStats returns aggregated statistics for a specific date.
	GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// History provides access to completion records.
	History() HistoryRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
