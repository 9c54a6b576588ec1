package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/logging"
	"github.com/xvierd/chronozen/internal/metrics"
	"github.com/xvierd/chronozen/internal/ports"
)

// CompletionRecorder stores finished countdowns.
type CompletionRecorder interface {
	RecordCompletion(ctx context.Context, c Completion) (*domain.CompletionRecord, error)
}

// PomodoroService sequences work and break phases on top of the
// countdown engine. It is also the single command surface used by the
// TUI, CLI and MCP adapters.
type PomodoroService struct {
	engine   *CountdownEngine
	notifier ports.Notifier
	recorder CompletionRecorder
	log      *zap.Logger
	timeout  time.Duration
}

// PomodoroOption configures a PomodoroService.
type PomodoroOption func(*PomodoroService)

// WithNotifier sends completion alerts through n.
func WithNotifier(n ports.Notifier) PomodoroOption {
	return func(s *PomodoroService) { s.notifier = n }
}

// WithRecorder stores each completion through r.
func WithRecorder(r CompletionRecorder) PomodoroOption {
	return func(s *PomodoroService) { s.recorder = r }
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(l *zap.Logger) PomodoroOption {
	return func(s *PomodoroService) { s.log = logging.OrNop(l) }
}

// NewPomodoroService layers Pomodoro sequencing on engine.
func NewPomodoroService(engine *CountdownEngine, opts ...PomodoroOption) *PomodoroService {
	s := &PomodoroService{
		engine:  engine,
		log:     zap.NewNop(),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	engine.SetCompletionPolicy(s.next)
	engine.OnCompleted(s.handleCompletion)
	return s
}

// next maps a finished phase to the following one. It runs under the
// engine lock. Phases follow the session plan frozen at StartSession; the
// configured plan only arms the countdown left behind when a session ends.
func (s *PomodoroService) next(finished domain.Snapshot) (Rearm, bool) {
	if !finished.Progress.Active() {
		return Rearm{}, false
	}

	plan := finished.SessionPlan
	progress, terminal := finished.Progress.Advance(plan)
	if terminal {
		return Rearm{
			Seconds:  finished.Plan.WorkSeconds,
			Progress: progress,
			Run:      false,
			Message:  "Pomodoro session complete",
		}, true
	}

	return Rearm{
		Seconds:  plan.SecondsFor(progress.Phase),
		Progress: progress,
		Run:      true,
		Message:  TransitionMessage(progress, plan),
		Plan:     plan,
	}, true
}

// TransitionMessage describes the phase that is about to start.
func TransitionMessage(p domain.PomodoroProgress, plan domain.PomodoroPlan) string {
	switch p.Phase {
	case domain.PhaseWork:
		return fmt.Sprintf("Cycle %d/%d: back to work", p.CompletedWorkCycles, plan.CyclesBeforeLongBreak)
	case domain.PhaseShortBreak:
		return fmt.Sprintf("Cycle %d/%d done: take a short break", p.CompletedWorkCycles, plan.CyclesBeforeLongBreak)
	case domain.PhaseLongBreak:
		return "Long break earned"
	default:
		return "Pomodoro session complete"
	}
}

func (s *PomodoroService) handleCompletion(c Completion) {
	title := domain.GetPhaseLabel(c.Finished.Progress.Phase) + " finished"
	msg := c.Message
	if msg == "" {
		msg = "Time's up: " + domain.FormatClock(c.Finished.Session.SelectedSeconds) + " elapsed"
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(title, msg); err != nil {
			metrics.NotificationErrors.Inc()
			s.log.Debug("notification failed", zap.Error(err))
		}
	}

	if s.recorder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.recorder.RecordCompletion(ctx, c); err != nil {
			s.log.Warn("failed to record completion", zap.Error(err))
		}
	}
}

// Snapshot implements ports.TimerControl.
func (s *PomodoroService) Snapshot() domain.Snapshot {
	return s.engine.Snapshot()
}

// Subscribe implements ports.TimerControl.
func (s *PomodoroService) Subscribe(buffer int) (<-chan domain.Event, func()) {
	return s.engine.Subscribe(buffer)
}

// SelectDuration implements ports.TimerControl. Selecting a duration
// abandons any Pomodoro session.
func (s *PomodoroService) SelectDuration(seconds int) error {
	return s.engine.SelectDuration(seconds)
}

// Start implements ports.TimerControl.
func (s *PomodoroService) Start() bool { return s.engine.Start() }

// Pause implements ports.TimerControl.
func (s *PomodoroService) Pause() bool { return s.engine.Pause() }

// Resume implements ports.TimerControl.
func (s *PomodoroService) Resume() bool { return s.engine.Resume() }

// Reset implements ports.TimerControl.
func (s *PomodoroService) Reset() bool { return s.engine.Reset() }

// Toggle implements ports.TimerControl.
func (s *PomodoroService) Toggle() bool { return s.engine.Toggle() }

// StartSession begins a Pomodoro session: first work cycle, running.
func (s *PomodoroService) StartSession(plan domain.PomodoroPlan) error {
	if err := s.engine.UpdatePlan(plan); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	first := domain.FirstCycle()
	if err := s.engine.Rearm(Rearm{
		Seconds:  plan.WorkSeconds,
		Progress: first,
		Run:      true,
		Message:  TransitionMessage(first, plan),
		Plan:     plan,
	}); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	s.log.Info("pomodoro session started",
		zap.Int("work", plan.WorkSeconds),
		zap.Int("cycles", plan.CyclesBeforeLongBreak))
	return nil
}

// StartDefaultSession begins a session with the current plan.
func (s *PomodoroService) StartDefaultSession() error {
	return s.StartSession(s.engine.Snapshot().Plan)
}

// ResetSession abandons the Pomodoro session and re-arms with the work
// duration. It is refused while the countdown is running.
func (s *PomodoroService) ResetSession() bool {
	err := s.engine.Rearm(Rearm{
		Seconds:       s.engine.Snapshot().Plan.WorkSeconds,
		Progress:      domain.NoSession(),
		UnlessRunning: true,
	})
	return err == nil
}

// SetPlan implements ports.TimerControl. The plan takes effect on the next
// StartSession; a paused session keeps the plan it started with.
func (s *PomodoroService) SetPlan(plan domain.PomodoroPlan) error {
	return s.engine.UpdatePlan(plan)
}

// Ensure PomodoroService implements TimerControl.
var _ ports.TimerControl = (*PomodoroService)(nil)
