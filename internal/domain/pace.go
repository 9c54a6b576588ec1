package domain

import (
	"fmt"
	"math"
	"time"
)

// DefaultPace is the normal animation speed, used whenever advice is missing.
const DefaultPace = 1.0

// BaseTransition is the progress animation length at normal pace.
const BaseTransition = 400 * time.Millisecond

// PaceAdvice is the advisor's cosmetic verdict on how fast the progress
// indicator should animate.
type PaceAdvice struct {
	Pace      float64
	Reasoning string
}

// DefaultPaceAdvice returns normal speed with no reasoning.
func DefaultPaceAdvice() PaceAdvice {
	return PaceAdvice{Pace: DefaultPace}
}

// Validate rejects paces outside [0,1].
func (a PaceAdvice) Validate() error {
	if math.IsNaN(a.Pace) || a.Pace < 0 || a.Pace > 1 {
		return fmt.Errorf("%w: pace %v outside [0,1]", ErrMalformedAdvice, a.Pace)
	}
	return nil
}

// TransitionDuration maps a pace to an animation length. The pace is
// clamped to [0.1, 2] so the animation never stalls or flickers.
func TransitionDuration(pace float64) time.Duration {
	if math.IsNaN(pace) {
		pace = DefaultPace
	}
	pace = math.Max(0.1, math.Min(2, pace))
	return time.Duration(math.Round(float64(BaseTransition) / pace))
}
