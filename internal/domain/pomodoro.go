package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase is the current segment of a Pomodoro session.
type Phase string

const (
	PhaseNone       Phase = "none"
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// PomodoroPlan holds the durations of a Pomodoro session, in seconds.
type PomodoroPlan struct {
	WorkSeconds           int
	ShortBreakSeconds     int
	LongBreakSeconds      int
	CyclesBeforeLongBreak int
}

// DefaultPomodoroPlan returns the standard 25/5/15 plan with a long break
// after four work cycles.
func DefaultPomodoroPlan() PomodoroPlan {
	return PomodoroPlan{
		WorkSeconds:           25 * 60,
		ShortBreakSeconds:     5 * 60,
		LongBreakSeconds:      15 * 60,
		CyclesBeforeLongBreak: 4,
	}
}

// Validate checks that every duration and the cycle count are positive.
func (p PomodoroPlan) Validate() error {
	switch {
	case p.WorkSeconds <= 0:
		return fmt.Errorf("%w: work duration must be positive", ErrInvalidPlan)
	case p.ShortBreakSeconds <= 0:
		return fmt.Errorf("%w: short break must be positive", ErrInvalidPlan)
	case p.LongBreakSeconds <= 0:
		return fmt.Errorf("%w: long break must be positive", ErrInvalidPlan)
	case p.CyclesBeforeLongBreak <= 0:
		return fmt.Errorf("%w: cycles before long break must be positive", ErrInvalidPlan)
	}
	return nil
}

// SecondsFor returns the countdown length of a phase, or 0 for PhaseNone.
func (p PomodoroPlan) SecondsFor(phase Phase) int {
	switch phase {
	case PhaseWork:
		return p.WorkSeconds
	case PhaseShortBreak:
		return p.ShortBreakSeconds
	case PhaseLongBreak:
		return p.LongBreakSeconds
	default:
		return 0
	}
}

// PlanFromMinutes builds a plan from user-typed minute values. Blank or
// non-positive entries fall back to the default plan's value.
func PlanFromMinutes(work, shortBreak, longBreak string) PomodoroPlan {
	def := DefaultPomodoroPlan()
	return PomodoroPlan{
		WorkSeconds:           minutesOr(work, def.WorkSeconds),
		ShortBreakSeconds:     minutesOr(shortBreak, def.ShortBreakSeconds),
		LongBreakSeconds:      minutesOr(longBreak, def.LongBreakSeconds),
		CyclesBeforeLongBreak: def.CyclesBeforeLongBreak,
	}
}

func minutesOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fallback
	}
	return n * 60
}

// PomodoroProgress tracks where a Pomodoro session is.
type PomodoroProgress struct {
	Phase               Phase
	CompletedWorkCycles int
}

// NoSession is the progress of plain countdown mode.
func NoSession() PomodoroProgress {
	return PomodoroProgress{Phase: PhaseNone}
}

// FirstCycle is the progress right after a session starts.
func FirstCycle() PomodoroProgress {
	return PomodoroProgress{Phase: PhaseWork, CompletedWorkCycles: 1}
}

// Active returns true while a Pomodoro session is in progress.
func (p PomodoroProgress) Active() bool {
	return p.Phase != PhaseNone && p.Phase != ""
}

// Advance computes the progress after the current phase's countdown reaches
// zero. terminal is true when the long break ends the session; the returned
// progress is then NoSession.
func (p PomodoroProgress) Advance(plan PomodoroPlan) (next PomodoroProgress, terminal bool) {
	switch p.Phase {
	case PhaseWork:
		if p.CompletedWorkCycles < plan.CyclesBeforeLongBreak {
			return PomodoroProgress{Phase: PhaseShortBreak, CompletedWorkCycles: p.CompletedWorkCycles}, false
		}
		return PomodoroProgress{Phase: PhaseLongBreak, CompletedWorkCycles: p.CompletedWorkCycles}, false
	case PhaseShortBreak:
		return PomodoroProgress{Phase: PhaseWork, CompletedWorkCycles: p.CompletedWorkCycles + 1}, false
	case PhaseLongBreak:
		return NoSession(), true
	default:
		return p, false
	}
}

// IsBreak returns true during either break phase.
func (p PomodoroProgress) IsBreak() bool {
	return p.Phase == PhaseShortBreak || p.Phase == PhaseLongBreak
}
