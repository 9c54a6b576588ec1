package domain

import (
	"time"

	"github.com/google/uuid"
)

// CompletionRecord is a countdown that ran to zero, kept for history.
type CompletionRecord struct {
	ID          string
	Phase       Phase
	Seconds     int
	Cycle       int
	CompletedAt time.Time
	GitBranch   string
	GitCommit   string
}

// NewCompletionRecord creates a record for a countdown that just finished.
func NewCompletionRecord(phase Phase, seconds, cycle int) *CompletionRecord {
	if phase == "" {
		phase = PhaseNone
	}
	return &CompletionRecord{
		ID:          newRecordID(),
		Phase:       phase,
		Seconds:     seconds,
		Cycle:       cycle,
		CompletedAt: time.Now(),
	}
}

// newRecordID returns a time-ordered UUID, so IDs sort like completion
// times.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Duration returns the countdown length.
func (r *CompletionRecord) Duration() time.Duration {
	return time.Duration(r.Seconds) * time.Second
}

// IsWork returns true for Pomodoro work cycles.
func (r *CompletionRecord) IsWork() bool {
	return r.Phase == PhaseWork
}

// IsBreak returns true for either break.
func (r *CompletionRecord) IsBreak() bool {
	return r.Phase == PhaseShortBreak || r.Phase == PhaseLongBreak
}

// SetGitContext stores git information for the record.
func (r *CompletionRecord) SetGitContext(branch, commit string) {
	r.GitBranch = branch
	r.GitCommit = commit
}
