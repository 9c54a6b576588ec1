// Package domain contains the core timer entities for ChronoZen.
// These types model the countdown session, the Pomodoro cycle and the
// cosmetic pace advice, and are independent of any framework or I/O.
package domain

import (
	"errors"
	"time"
)

// Common domain errors.
var (
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidPlan     = errors.New("invalid pomodoro plan")
	ErrSessionRunning  = errors.New("pomodoro session is running")
	ErrUnknownPreset   = errors.New("unknown preset")
	ErrMalformedAdvice = errors.New("malformed pace advice")
	ErrEngineClosed    = errors.New("timer engine closed")
	ErrRecordNotFound  = errors.New("completion record not found")
)

// RunMode is the run state of a countdown.
type RunMode string

const (
	ModeIdle    RunMode = "idle"
	ModeRunning RunMode = "running"
	ModePaused  RunMode = "paused"
)

// TimerSession is the countdown state: what was selected, what is left,
// and whether it is ticking.
type TimerSession struct {
	SelectedSeconds  int
	RemainingSeconds int
	Mode             RunMode
}

// NewTimerSession creates an idle session armed with the given duration.
func NewTimerSession(seconds int) (TimerSession, error) {
	var s TimerSession
	if err := s.Select(seconds); err != nil {
		return TimerSession{}, err
	}
	return s, nil
}

// Select arms the session with a new duration and returns it to idle.
func (s *TimerSession) Select(seconds int) error {
	if seconds <= 0 {
		return ErrInvalidDuration
	}
	s.SelectedSeconds = seconds
	s.RemainingSeconds = seconds
	s.Mode = ModeIdle
	return nil
}

// NeedsRestart reports whether an idle session was finished or stopped
// early, so that starting it must rewind to the selected duration.
func (s TimerSession) NeedsRestart() bool {
	if s.Mode != ModeIdle && s.Mode != "" {
		return false
	}
	return s.RemainingSeconds == 0 || s.RemainingSeconds < s.SelectedSeconds
}

// Start moves an idle or paused session to running. An idle session that
// needs a restart is rewound first. Returns false if nothing changed.
func (s *TimerSession) Start() bool {
	switch s.Mode {
	case ModeIdle, "":
		if s.SelectedSeconds <= 0 {
			return false
		}
		if s.NeedsRestart() {
			s.RemainingSeconds = s.SelectedSeconds
		}
		s.Mode = ModeRunning
		return true
	case ModePaused:
		s.Mode = ModeRunning
		return true
	default:
		return false
	}
}

// Pause marks a running session as paused.
func (s *TimerSession) Pause() bool {
	if s.Mode != ModeRunning {
		return false
	}
	s.Mode = ModePaused
	return true
}

// Resume continues a paused session without rewinding it.
func (s *TimerSession) Resume() bool {
	if s.Mode != ModePaused {
		return false
	}
	s.Mode = ModeRunning
	return true
}

// Reset rewinds to the selected duration and goes idle.
func (s *TimerSession) Reset() {
	s.RemainingSeconds = s.SelectedSeconds
	s.Mode = ModeIdle
}

// Tick advances a running session by one second. completed is true only on
// the tick that reaches zero; the session is idle afterwards.
func (s *TimerSession) Tick() (changed, completed bool) {
	if s.Mode != ModeRunning {
		return false, false
	}
	if s.RemainingSeconds > 0 {
		s.RemainingSeconds--
	}
	if s.RemainingSeconds == 0 {
		s.Mode = ModeIdle
		return true, true
	}
	return true, false
}

// Progress returns the elapsed fraction (0.0 to 1.0).
func (s TimerSession) Progress() float64 {
	if s.SelectedSeconds <= 0 {
		return 0
	}
	return float64(s.SelectedSeconds-s.RemainingSeconds) / float64(s.SelectedSeconds)
}

// Remaining returns the time left as a duration.
func (s TimerSession) Remaining() time.Duration {
	return time.Duration(s.RemainingSeconds) * time.Second
}

// IsRunning returns true if the session is ticking.
func (s TimerSession) IsRunning() bool {
	return s.Mode == ModeRunning
}
