// Package metrics exposes Prometheus collectors for the timer.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// Countdown metrics
	TicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chronozen_ticks_total",
			Help: "Total countdown ticks applied",
		},
	)

	CompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronozen_completions_total",
			Help: "Countdowns that reached zero, by phase",
		},
		[]string{"phase"},
	)

	RemainingSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chronozen_remaining_seconds",
			Help: "Seconds left on the current countdown",
		},
	)

	ActiveTickers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chronozen_active_tickers",
			Help: "Tick sources currently armed (0 or 1)",
		},
	)

	// Pace metrics
	AdvisorCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronozen_advisor_calls_total",
			Help: "Pace advisor calls, by advisor and outcome",
		},
		[]string{"advisor", "outcome"},
	)

	AdvisorDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chronozen_advisor_duration_seconds",
			Help:    "Pace advisor latency in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"advisor"},
	)

	CurrentPace = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chronozen_pace",
			Help: "Pace applied to the progress animation",
		},
	)

	// Notification metrics
	NotificationErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chronozen_notification_errors_total",
			Help: "Completion notifications that failed to deliver",
		},
	)
)

func init() {
	prometheus.MustRegister(
		TicksTotal,
		CompletionsTotal,
		RemainingSeconds,
		ActiveTickers,
		AdvisorCallsTotal,
		AdvisorDuration,
		CurrentPace,
		NotificationErrors,
	)
}

// Server is the metrics HTTP server.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewServer creates a metrics server listening on addr.
func NewServer(addr string, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With(zap.String("component", "metrics")),
	}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("Starting metrics server", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Stopping metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.logger.Error("Metrics server error", zap.Error(err))
		return err
	}
}
