// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/logging"
	"github.com/xvierd/chronozen/internal/metrics"
)

// DefaultTickInterval is the countdown resolution.
const DefaultTickInterval = time.Second

// Ticker is a repeating tick source.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a tick source firing every d.
type TickerFactory func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewRealTicker wraps time.NewTicker.
func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Rearm tells the engine how to continue after a countdown reaches zero.
type Rearm struct {
	Seconds  int
	Progress domain.PomodoroProgress
	Run      bool
	Message  string
	// Plan becomes the session plan while Progress is active.
	Plan domain.PomodoroPlan

	// UnlessRunning refuses the re-arm while the countdown is running.
	UnlessRunning bool
}

// CompletionPolicy decides what follows a finished countdown. It runs while
// the engine lock is held and must not call back into the engine. Returning
// false leaves the finished countdown idle at zero.
type CompletionPolicy func(finished domain.Snapshot) (Rearm, bool)

// Completion describes a countdown that reached zero and what replaced it.
type Completion struct {
	Finished domain.Snapshot
	Next     domain.Snapshot
	Message  string
	At       time.Time
}

// CompletionHandler observes completions. It runs outside the engine lock.
type CompletionHandler func(c Completion)

// EngineOption configures a CountdownEngine.
type EngineOption func(*CountdownEngine)

// WithTickInterval overrides the one second tick.
func WithTickInterval(d time.Duration) EngineOption {
	return func(e *CountdownEngine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithTickerFactory replaces the tick source, mainly for tests.
func WithTickerFactory(f TickerFactory) EngineOption {
	return func(e *CountdownEngine) {
		if f != nil {
			e.newTicker = f
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *CountdownEngine) {
		e.log = logging.OrNop(l)
	}
}

// WithClock overrides time.Now for event timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *CountdownEngine) {
		if now != nil {
			e.now = now
		}
	}
}

type tickHandle struct {
	stop chan struct{}
}

// CountdownEngine owns the timer state and the single tick source that
// drives it. All mutation is serialised behind mu; subscribers and handlers
// are called after it is released.
type CountdownEngine struct {
	mu       sync.Mutex
	state    domain.Snapshot
	handle   *tickHandle
	policy   CompletionPolicy
	handlers []CompletionHandler
	closed   bool

	interval  time.Duration
	newTicker TickerFactory
	now       func() time.Time
	log       *zap.Logger
	wg        sync.WaitGroup

	subMu   sync.RWMutex
	subs    map[int]chan domain.Event
	nextSub int
}

// NewCountdownEngine creates an idle engine armed with seconds.
func NewCountdownEngine(seconds int, opts ...EngineOption) (*CountdownEngine, error) {
	session, err := domain.NewTimerSession(seconds)
	if err != nil {
		return nil, err
	}

	e := &CountdownEngine{
		state: domain.Snapshot{
			Session:  session,
			Progress: domain.NoSession(),
			Plan:     domain.DefaultPomodoroPlan(),
			Pace:     domain.DefaultPaceAdvice(),
		},
		interval:  DefaultTickInterval,
		newTicker: NewRealTicker,
		now:       time.Now,
		log:       zap.NewNop(),
		subs:      make(map[int]chan domain.Event),
	}
	for _, opt := range opts {
		opt(e)
	}
	metrics.RemainingSeconds.Set(float64(seconds))
	return e, nil
}

// SetCompletionPolicy installs the rule that re-arms after completion.
func (e *CountdownEngine) SetCompletionPolicy(p CompletionPolicy) {
	e.mu.Lock()
	e.policy = p
	e.mu.Unlock()
}

// OnCompleted registers a completion handler.
func (e *CountdownEngine) OnCompleted(h CompletionHandler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, h)
	e.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (e *CountdownEngine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe returns a channel of engine events. Slow subscribers miss
// events rather than stalling the tick loop. The returned function
// unsubscribes and closes the channel.
func (e *CountdownEngine) Subscribe(buffer int) (<-chan domain.Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan domain.Event, buffer)

	e.subMu.Lock()
	if e.subs == nil {
		e.subMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	e.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.subMu.Lock()
			defer e.subMu.Unlock()
			if c, ok := e.subs[id]; ok {
				delete(e.subs, id)
				close(c)
			}
		})
	}
}

func (e *CountdownEngine) publish(events ...domain.Event) {
	e.subMu.RLock()
	defer e.subMu.RUnlock()
	for _, ev := range events {
		for _, ch := range e.subs {
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

func (e *CountdownEngine) event(t domain.EventType, msg string) domain.Event {
	return domain.Event{Type: t, Snapshot: e.state, Message: msg, At: e.now()}
}

// SelectDuration arms a plain countdown and leaves any Pomodoro session.
func (e *CountdownEngine) SelectDuration(seconds int) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return domain.ErrEngineClosed
	}
	if err := e.state.Session.Select(seconds); err != nil {
		e.mu.Unlock()
		return err
	}
	e.stopTickerLocked()
	e.state.Progress = domain.NoSession()
	e.state.SessionPlan = domain.PomodoroPlan{}
	e.newEpochLocked()
	ev := e.event(domain.EventStateChange, "")
	e.mu.Unlock()

	metrics.RemainingSeconds.Set(float64(seconds))
	e.log.Debug("duration selected", zap.Int("seconds", seconds))
	e.publish(ev)
	return nil
}

// Start runs the countdown from Idle or Paused. An idle countdown that
// finished or was stopped early starts again from the selected duration.
func (e *CountdownEngine) Start() bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	rewind := e.state.Session.NeedsRestart()
	if !e.state.Session.Start() {
		e.mu.Unlock()
		return false
	}
	if rewind {
		e.newEpochLocked()
	}
	e.armTickerLocked()
	ev := e.event(domain.EventStateChange, "")
	e.mu.Unlock()

	e.log.Debug("countdown started", zap.Int("remaining", ev.Snapshot.Session.RemainingSeconds))
	e.publish(ev)
	return true
}

// Pause stops a running countdown, keeping the remaining time.
func (e *CountdownEngine) Pause() bool {
	e.mu.Lock()
	if !e.state.Session.Pause() {
		e.mu.Unlock()
		return false
	}
	e.stopTickerLocked()
	ev := e.event(domain.EventStateChange, "")
	e.mu.Unlock()

	e.publish(ev)
	return true
}

// Resume continues a paused countdown.
func (e *CountdownEngine) Resume() bool {
	e.mu.Lock()
	if e.closed || !e.state.Session.Resume() {
		e.mu.Unlock()
		return false
	}
	e.armTickerLocked()
	ev := e.event(domain.EventStateChange, "")
	e.mu.Unlock()

	e.publish(ev)
	return true
}

// Toggle is the single control button: Running pauses, Paused resumes and
// Idle starts.
func (e *CountdownEngine) Toggle() bool {
	switch e.Snapshot().Session.Mode {
	case domain.ModeRunning:
		return e.Pause()
	case domain.ModePaused:
		return e.Resume()
	default:
		return e.Start()
	}
}

// Reset rewinds to the selected duration and goes idle. The Pomodoro phase
// is kept so a reset work cycle restarts as the same cycle.
func (e *CountdownEngine) Reset() bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	e.stopTickerLocked()
	e.state.Session.Reset()
	e.newEpochLocked()
	ev := e.event(domain.EventStateChange, "")
	e.mu.Unlock()

	metrics.RemainingSeconds.Set(float64(ev.Snapshot.Session.RemainingSeconds))
	e.publish(ev)
	return true
}

// Rearm replaces the countdown and Pomodoro progress in one step. It is the
// entry point the Pomodoro controller uses to begin and end sessions.
func (e *CountdownEngine) Rearm(r Rearm) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return domain.ErrEngineClosed
	}
	if r.UnlessRunning && e.state.Session.IsRunning() {
		e.mu.Unlock()
		return domain.ErrSessionRunning
	}
	if err := e.applyRearmLocked(r); err != nil {
		e.mu.Unlock()
		return err
	}
	ev := e.event(domain.EventPhaseChange, r.Message)
	e.mu.Unlock()

	e.publish(ev)
	return nil
}

func (e *CountdownEngine) applyRearmLocked(r Rearm) error {
	if err := e.state.Session.Select(r.Seconds); err != nil {
		return err
	}
	e.stopTickerLocked()
	e.state.Progress = r.Progress
	e.state.SessionPlan = domain.PomodoroPlan{}
	if r.Progress.Active() {
		e.state.SessionPlan = r.Plan
	}
	e.newEpochLocked()
	if r.Run {
		e.state.Session.Start()
		e.armTickerLocked()
	}
	metrics.RemainingSeconds.Set(float64(r.Seconds))
	return nil
}

// UpdatePlan replaces the configured Pomodoro plan. It fails while a
// session is running. A paused session keeps its frozen plan.
func (e *CountdownEngine) UpdatePlan(plan domain.PomodoroPlan) error {
	if err := plan.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	if !e.state.CanEditPlan() {
		e.mu.Unlock()
		return domain.ErrSessionRunning
	}
	e.state.Plan = plan
	ev := e.event(domain.EventStateChange, "")
	e.mu.Unlock()

	e.publish(ev)
	return nil
}

// SetPace applies advice issued for epoch. Advice for an older epoch is
// dropped and false is returned.
func (e *CountdownEngine) SetPace(epoch uint64, advice domain.PaceAdvice) bool {
	e.mu.Lock()
	if e.closed || epoch != e.state.Epoch {
		e.mu.Unlock()
		return false
	}
	e.state.Pace = advice
	ev := e.event(domain.EventPace, advice.Reasoning)
	e.mu.Unlock()

	metrics.CurrentPace.Set(advice.Pace)
	e.publish(ev)
	return true
}

// Close cancels the tick source, closes every subscription and waits for
// the tick goroutine to exit. It must not be called from a completion
// handler.
func (e *CountdownEngine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.stopTickerLocked()
	e.state.Epoch++
	e.mu.Unlock()

	e.wg.Wait()

	e.subMu.Lock()
	for id, ch := range e.subs {
		close(ch)
		delete(e.subs, id)
	}
	e.subs = nil
	e.subMu.Unlock()
	return nil
}

// newEpochLocked marks a re-armed countdown and drops the advice issued
// for the previous one.
func (e *CountdownEngine) newEpochLocked() {
	e.state.Epoch++
	e.state.Pace = domain.DefaultPaceAdvice()
	metrics.CurrentPace.Set(e.state.Pace.Pace)
}

// armTickerLocked replaces any live tick source with a fresh one.
func (e *CountdownEngine) armTickerLocked() {
	e.stopTickerLocked()
	h := &tickHandle{stop: make(chan struct{})}
	e.handle = h
	t := e.newTicker(e.interval)
	metrics.ActiveTickers.Set(1)

	e.wg.Add(1)
	go e.run(h, t)
}

func (e *CountdownEngine) stopTickerLocked() {
	if e.handle == nil {
		return
	}
	close(e.handle.stop)
	e.handle = nil
	metrics.ActiveTickers.Set(0)
}

func (e *CountdownEngine) run(h *tickHandle, t Ticker) {
	defer e.wg.Done()
	defer t.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-t.C():
			e.tick(h)
		}
	}
}

func (e *CountdownEngine) tick(h *tickHandle) {
	e.mu.Lock()
	if e.handle != h {
		// Stale tick from a source that was cancelled while we waited.
		e.mu.Unlock()
		return
	}

	changed, completed := e.state.Session.Tick()
	if !changed {
		e.mu.Unlock()
		return
	}
	metrics.TicksTotal.Inc()
	metrics.RemainingSeconds.Set(float64(e.state.Session.RemainingSeconds))

	events := []domain.Event{e.event(domain.EventTick, "")}
	if !completed {
		e.mu.Unlock()
		e.publish(events...)
		return
	}

	e.stopTickerLocked()
	finished := e.state
	done := e.event(domain.EventCompleted, "")
	done.Phase = finished.Progress.Phase
	events = append(events, done)

	var msg string
	if e.policy != nil {
		if r, ok := e.policy(finished); ok {
			if err := e.applyRearmLocked(r); err != nil {
				e.log.Error("failed to re-arm after completion", zap.Error(err))
			} else {
				msg = r.Message
				events = append(events, e.event(domain.EventPhaseChange, msg))
			}
		}
	}

	c := Completion{Finished: finished, Next: e.state, Message: msg, At: e.now()}
	handlers := append([]CompletionHandler(nil), e.handlers...)
	e.mu.Unlock()

	metrics.CompletionsTotal.WithLabelValues(string(finished.Progress.Phase)).Inc()
	e.log.Info("countdown completed",
		zap.String("phase", string(finished.Progress.Phase)),
		zap.Int("seconds", finished.Session.SelectedSeconds),
		zap.String("next_phase", string(c.Next.Progress.Phase)))

	e.publish(events...)
	for _, fn := range handlers {
		fn(c)
	}
}
