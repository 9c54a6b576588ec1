package tui

import (
	"context"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/ports"
)

// Timer implements the ports.Timer interface using Bubbletea.
type Timer struct {
	control ports.TimerControl
	presets PresetSource
	opts    Options

	mu      sync.Mutex
	program *tea.Program
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewTimer creates a new TUI timer adapter.
func NewTimer(control ports.TimerControl, presets PresetSource, opts Options) *Timer {
	return &Timer{control: control, presets: presets, opts: opts}
}

// Run starts the timer interface and blocks until the user quits or ctx
// is cancelled. The countdown keeps its state after the screen closes.
func (t *Timer) Run(ctx context.Context) error {
	events, unsubscribe := t.control.Subscribe(64)
	defer unsubscribe()

	model := NewModel(t.control, t.presets, t.opts)
	model.events = events

	var programOpts []tea.ProgramOption
	if !t.opts.Inline {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.mu.Lock()
	t.program = tea.NewProgram(model, programOpts...)
	t.cancel = cancel
	program := t.program
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		<-ctx.Done()
		program.Quit()
	}()

	_, err := program.Run()

	cancel()
	t.wg.Wait()

	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// Stop gracefully stops the timer interface.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	if t.program != nil {
		t.program.Quit()
	}
}

// Ensure Timer implements ports.Timer.
var _ ports.Timer = (*Timer)(nil)

// ShowStatus prints the countdown without starting interactive mode.
// stats may be nil when no history is stored.
func ShowStatus(w io.Writer, snap domain.Snapshot, stats *domain.DailyStats) {
	session := snap.Session
	fmt.Fprintf(w, "⏳ %s: %s\n", domain.GetPhaseLabel(snap.Progress.Phase), domain.GetModeLabel(session.Mode))
	fmt.Fprintf(w, "   Remaining: %s of %s\n", domain.FormatClock(session.RemainingSeconds), domain.FormatClock(session.SelectedSeconds))
	fmt.Fprintf(w, "   Progress: %.0f%%\n", session.Progress()*100)
	if snap.Progress.Active() {
		fmt.Fprintf(w, "   Cycle: %d/%d\n", snap.Progress.CompletedWorkCycles, snap.ActivePlan().CyclesBeforeLongBreak)
	}
	if snap.Pace.Reasoning != "" {
		fmt.Fprintf(w, "   Pace: %.2f (%s)\n", snap.Pace.Pace, snap.Pace.Reasoning)
	}

	if stats == nil {
		return
	}
	fmt.Fprintf(w, "\n📊 Today's Stats:\n")
	fmt.Fprintf(w, "   Work Cycles: %d\n", stats.WorkCycles)
	fmt.Fprintf(w, "   Breaks Taken: %d\n", stats.BreaksTaken)
	fmt.Fprintf(w, "   Countdowns: %d\n", stats.PlainCountdowns)
	fmt.Fprintf(w, "   Total Work Time: %s\n", stats.TotalWorkTime)
}
