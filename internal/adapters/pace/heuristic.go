package pace

import (
	"context"
	"fmt"
	"math"

	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/ports"
)

// HeuristicAdvisor computes the pace locally from the remaining fraction.
// It needs no network and is the default provider.
type HeuristicAdvisor struct{}

// Ensure HeuristicAdvisor implements ports.PaceAdvisor.
var _ ports.PaceAdvisor = HeuristicAdvisor{}

// Name returns the advisor name used in logs and metrics.
func (HeuristicAdvisor) Name() string {
	return "heuristic"
}

// Advise ramps from a calm pace at the start of a countdown to full speed
// over the final tenth. Breaks start calmer than work intervals.
func (HeuristicAdvisor) Advise(ctx context.Context, req ports.PaceRequest) (domain.PaceAdvice, error) {
	if err := ctx.Err(); err != nil {
		return domain.PaceAdvice{}, err
	}
	if req.SelectedSeconds <= 0 {
		return domain.PaceAdvice{}, fmt.Errorf("%w: selected %d", domain.ErrInvalidDuration, req.SelectedSeconds)
	}

	remaining := math.Max(0, math.Min(1, float64(req.RemainingSeconds)/float64(req.SelectedSeconds)))

	calm := 0.8
	if req.Phase == domain.PhaseShortBreak || req.Phase == domain.PhaseLongBreak {
		calm = 0.6
	}

	switch {
	case remaining <= 0.1:
		return domain.PaceAdvice{Pace: 1, Reasoning: "Almost done: full speed so the end is noticeable."}, nil
	case remaining >= 0.5:
		return domain.PaceAdvice{Pace: calm, Reasoning: "Plenty of time left: a slightly slower, calm pace."}, nil
	default:
		// linear from calm at half time to 1 at the final tenth
		t := (0.5 - remaining) / 0.4
		pace := math.Round((calm+(1-calm)*t)*100) / 100
		return domain.PaceAdvice{Pace: pace, Reasoning: "Past halfway: speeding up toward the finish."}, nil
	}
}
