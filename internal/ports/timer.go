package ports

import (
	"context"

	"github.com/xvierd/chronozen/internal/domain"
)

// TimerControl is the command and query surface of the countdown.
// This is a driving port (called by the TUI, CLI and MCP adapters).
// Illegal transitions return false instead of an error.
type TimerControl interface {
	// Snapshot returns the current timer state.
	Snapshot() domain.Snapshot

	// Subscribe returns a channel of timer events and a function that
	// cancels the subscription.
	Subscribe(buffer int) (<-chan domain.Event, func())

	// SelectDuration arms a plain countdown and leaves Pomodoro mode.
	SelectDuration(seconds int) error

	Start() bool
	Pause() bool
	Resume() bool
	Reset() bool
	Toggle() bool

	// StartSession begins a Pomodoro session with the given plan.
	StartSession(plan domain.PomodoroPlan) error

	// ResetSession abandons the Pomodoro session while not running.
	ResetSession() bool

	// SetPlan replaces the plan used by the next session.
	SetPlan(plan domain.PomodoroPlan) error
}

// Timer is the interactive timer interface.
// This is a driving port (called by the application layer).
type Timer interface {
	// Run starts the timer interface and blocks until the user quits.
	Run(ctx context.Context) error

	// Stop gracefully stops the timer interface.
	Stop()
}
