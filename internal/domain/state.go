package domain

import (
	"time"
)

// Snapshot captures everything the presentation needs at a point in time.
type Snapshot struct {
	Session  TimerSession
	Progress PomodoroProgress
	// Plan is the configured plan. Edits land here and apply from the
	// next session.
	Plan PomodoroPlan
	// SessionPlan is frozen when a session begins and drives every phase
	// until it ends. It is the zero plan outside a session.
	SessionPlan PomodoroPlan
	Pace        PaceAdvice
	// Epoch changes every time the countdown is re-armed.
	Epoch uint64
}

// CanEditPlan returns true when no session is actively running.
func (s Snapshot) CanEditPlan() bool {
	return !(s.Progress.Active() && s.Session.IsRunning())
}

// ActivePlan returns the plan in force: the frozen session plan during a
// session, the configured plan otherwise.
func (s Snapshot) ActivePlan() PomodoroPlan {
	if s.Progress.Active() {
		return s.SessionPlan
	}
	return s.Plan
}

// EventType defines the kind of engine event.
type EventType string

const (
	EventTick        EventType = "tick"
	EventStateChange EventType = "state_change"
	EventCompleted   EventType = "completed"
	EventPhaseChange EventType = "phase_change"
	EventPace        EventType = "pace"
)

// Event is a timer update delivered to observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	// Phase is the phase that just finished, set on EventCompleted.
	Phase   Phase
	Message string
	At      time.Time
}

// DailyStats aggregates completed countdowns for a day.
type DailyStats struct {
	Date            time.Time
	WorkCycles      int
	BreaksTaken     int
	PlainCountdowns int
	TotalWorkTime   time.Duration
	TotalTime       time.Duration
}

// GetPhaseLabel returns a human-readable label for the phase.
func GetPhaseLabel(p Phase) string {
	switch p {
	case PhaseWork:
		return "Work"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	case PhaseNone, "":
		return "Countdown"
	default:
		return "Unknown"
	}
}

// GetModeLabel returns a human-readable label for the run mode.
func GetModeLabel(m RunMode) string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModeRunning:
		return "Running"
	case ModePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}
