package ports

import (
	"context"

	"github.com/xvierd/chronozen/internal/domain"
)

// PaceRequest is what the advisor is told about the countdown.
type PaceRequest struct {
	SelectedSeconds  int
	RemainingSeconds int
	Phase            domain.Phase
}

// PaceAdvisor suggests a cosmetic animation pace.
// This is a driven port (implemented by adapters). Implementations may be
// slow or fail; callers treat the result as best-effort.
type PaceAdvisor interface {
	// Advise returns a pace in [0,1] and a short rationale.
	Advise(ctx context.Context, req PaceRequest) (domain.PaceAdvice, error)

	// Name identifies the advisor in logs and metrics.
	Name() string
}
