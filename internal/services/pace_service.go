package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/logging"
	"github.com/xvierd/chronozen/internal/metrics"
	"github.com/xvierd/chronozen/internal/ports"
)

// Default advisor tuning.
const (
	DefaultPaceMinInterval = 5 * time.Second
	DefaultPaceTimeout     = 10 * time.Second
)

// PaceTarget receives advice. CountdownEngine implements it.
type PaceTarget interface {
	Snapshot() domain.Snapshot
	Subscribe(buffer int) (<-chan domain.Event, func())
	SetPace(epoch uint64, advice domain.PaceAdvice) bool
}

// PaceService asks the advisor for a new pace as the countdown moves and
// applies the answer to the engine. Advice never gates the countdown.
type PaceService struct {
	advisor     ports.PaceAdvisor
	target      PaceTarget
	minInterval time.Duration
	timeout     time.Duration
	now         func() time.Time
	log         *zap.Logger

	mu       sync.Mutex
	last     time.Time
	inflight bool
	// epoch is the countdown the in-flight call advises on. rearmed is set
	// when a newer countdown arrives during that call.
	epoch   uint64
	rearmed bool
	wg      sync.WaitGroup
}

// PaceOption configures a PaceService.
type PaceOption func(*PaceService)

// WithMinInterval limits advisor calls while running.
func WithMinInterval(d time.Duration) PaceOption {
	return func(s *PaceService) { s.minInterval = d }
}

// WithAdviceTimeout bounds a single advisor call.
func WithAdviceTimeout(d time.Duration) PaceOption {
	return func(s *PaceService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithPaceLogger sets the service logger.
func WithPaceLogger(l *zap.Logger) PaceOption {
	return func(s *PaceService) { s.log = logging.OrNop(l) }
}

// WithPaceClock overrides time.Now for rate limiting.
func WithPaceClock(now func() time.Time) PaceOption {
	return func(s *PaceService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPaceService creates a pace service. A nil advisor disables advice and
// the pace stays at its default.
func NewPaceService(advisor ports.PaceAdvisor, target PaceTarget, opts ...PaceOption) *PaceService {
	s := &PaceService{
		advisor:     advisor,
		target:      target,
		minInterval: DefaultPaceMinInterval,
		timeout:     DefaultPaceTimeout,
		now:         time.Now,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run follows engine events until ctx is done or the engine closes, then
// waits for in-flight advisor calls to finish.
func (s *PaceService) Run(ctx context.Context) error {
	defer s.wg.Wait()
	if s.advisor == nil {
		<-ctx.Done()
		return nil
	}

	events, unsubscribe := s.target.Subscribe(16)
	defer unsubscribe()

	s.Observe(ctx, domain.Event{Type: domain.EventStateChange, Snapshot: s.target.Snapshot()})
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.Observe(ctx, ev)
		}
	}
}

// Observe starts an asynchronous advisor call if ev warrants one.
func (s *PaceService) Observe(ctx context.Context, ev domain.Event) {
	if s.advisor == nil || !s.claim(ev) {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		snap := ev.Snapshot
		for {
			s.Update(ctx, snap)
			next, ok := s.release(ctx)
			if !ok {
				return
			}
			snap = next
		}
	}()
}

// claim applies the rate limit. While running at most one call per
// minInterval is made; other state changes are always advised.
func (s *PaceService) claim(ev domain.Event) bool {
	if ev.Type == domain.EventPace || ev.Snapshot.Session.SelectedSeconds <= 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight {
		if ev.Snapshot.Epoch != s.epoch {
			s.rearmed = true
		}
		return false
	}
	now := s.now()
	if ev.Snapshot.Session.IsRunning() && !s.last.IsZero() && now.Sub(s.last) < s.minInterval {
		return false
	}
	s.last = now
	s.inflight = true
	s.epoch = ev.Snapshot.Epoch
	return true
}

// release ends an advisor call. If the countdown was re-armed during the
// call, the call slot is kept and the current snapshot is returned for a
// follow-up call.
func (s *PaceService) release(ctx context.Context) (domain.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rearmed := s.rearmed
	s.rearmed = false
	if rearmed && ctx.Err() == nil {
		snap := s.target.Snapshot()
		if snap.Epoch != s.epoch && snap.Session.SelectedSeconds > 0 {
			s.epoch = snap.Epoch
			s.last = s.now()
			return snap, true
		}
	}
	s.inflight = false
	return domain.Snapshot{}, false
}

// Update asks the advisor about snap synchronously and applies the result.
// Any failure yields the default pace. The applied advice is returned; it
// is dropped by the engine if the countdown was re-armed meanwhile.
func (s *PaceService) Update(ctx context.Context, snap domain.Snapshot) domain.PaceAdvice {
	advice := s.advise(ctx, snap)
	if !s.target.SetPace(snap.Epoch, advice) {
		s.log.Debug("discarding stale pace advice", zap.Uint64("epoch", snap.Epoch))
	}
	return advice
}

func (s *PaceService) advise(ctx context.Context, snap domain.Snapshot) domain.PaceAdvice {
	if s.advisor == nil {
		return domain.DefaultPaceAdvice()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	name := s.advisor.Name()
	start := time.Now()
	advice, err := s.advisor.Advise(ctx, ports.PaceRequest{
		SelectedSeconds:  snap.Session.SelectedSeconds,
		RemainingSeconds: snap.Session.RemainingSeconds,
		Phase:            snap.Progress.Phase,
	})
	metrics.AdvisorDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err == nil {
		err = advice.Validate()
	}
	if err != nil {
		metrics.AdvisorCallsTotal.WithLabelValues(name, "error").Inc()
		s.log.Warn("pace advisor failed, using default pace",
			zap.String("advisor", name),
			zap.Error(err))
		return domain.DefaultPaceAdvice()
	}

	metrics.AdvisorCallsTotal.WithLabelValues(name, "ok").Inc()
	return advice
}
