package pace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xvierd/chronozen/internal/config"
	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/ports"
)

func TestHeuristicAdvisor(t *testing.T) {
	tests := []struct {
		name string
		req  ports.PaceRequest
		want float64
	}{
		{"fresh countdown", ports.PaceRequest{SelectedSeconds: 300, RemainingSeconds: 300}, 0.8},
		{"half way", ports.PaceRequest{SelectedSeconds: 300, RemainingSeconds: 150}, 0.8},
		{"thirty percent", ports.PaceRequest{SelectedSeconds: 100, RemainingSeconds: 30}, 0.9},
		{"final tenth", ports.PaceRequest{SelectedSeconds: 300, RemainingSeconds: 20}, 1},
		{"finished", ports.PaceRequest{SelectedSeconds: 300, RemainingSeconds: 0}, 1},
		{"break starts calmer", ports.PaceRequest{SelectedSeconds: 300, RemainingSeconds: 280, Phase: domain.PhaseShortBreak}, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HeuristicAdvisor{}.Advise(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Advise() error = %v", err)
			}
			if got.Pace != tt.want {
				t.Errorf("Advise() pace = %v, want %v", got.Pace, tt.want)
			}
			if got.Reasoning == "" {
				t.Error("Advise() reasoning is empty")
			}
			require.NoError(t, got.Validate())
		})
	}
}

func TestHeuristicAdvisor_Errors(t *testing.T) {
	_, err := HeuristicAdvisor{}.Advise(context.Background(), ports.PaceRequest{})
	require.ErrorIs(t, err, domain.ErrInvalidDuration)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = HeuristicAdvisor{}.Advise(ctx, ports.PaceRequest{SelectedSeconds: 10, RemainingSeconds: 5})
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseAdvice(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    float64
		wantErr bool
	}{
		{"plain json", `{"pace": 0.7, "reasoning": "steady"}`, 0.7, false},
		{"fenced json", "```json\n{\"pace\": 1, \"reasoning\": \"final stretch\"}\n```", 1, false},
		{"zero pace", `{"pace": 0, "reasoning": "paused"}`, 0, false},
		{"out of range", `{"pace": 1.5, "reasoning": "fast"}`, 0, true},
		{"missing pace", `{"reasoning": "?"}`, 0, true},
		{"not json", `speed up a bit`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAdvice(tt.text)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrMalformedAdvice) {
					t.Errorf("parseAdvice() error = %v, want ErrMalformedAdvice", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAdvice() error = %v", err)
			}
			if got.Pace != tt.want {
				t.Errorf("parseAdvice() pace = %v, want %v", got.Pace, tt.want)
			}
		})
	}
}

func TestGeminiAdvisor_Advise(t *testing.T) {
	var prompt string
	a := &GeminiAdvisor{
		model: DefaultGeminiModel,
		generate: func(ctx context.Context, p string) (string, error) {
			prompt = p
			return `{"pace": 0.9, "reasoning": "closing in"}`, nil
		},
	}

	got, err := a.Advise(context.Background(), ports.PaceRequest{SelectedSeconds: 1500, RemainingSeconds: 120, Phase: domain.PhaseWork})
	require.NoError(t, err)
	require.Equal(t, 0.9, got.Pace)
	require.Equal(t, "closing in", got.Reasoning)
	require.Contains(t, prompt, "Selected time: 1500 seconds")
	require.Contains(t, prompt, "Remaining time: 120 seconds")
	require.Contains(t, prompt, "work interval")
	require.Equal(t, "gemini", a.Name())
}

func TestGeminiAdvisor_GenerateError(t *testing.T) {
	a := &GeminiAdvisor{generate: func(context.Context, string) (string, error) {
		return "", errors.New("quota exceeded")
	}}

	_, err := a.Advise(context.Background(), ports.PaceRequest{SelectedSeconds: 60, RemainingSeconds: 30})
	require.Error(t, err)
}

func TestNewGeminiAdvisor_MissingKey(t *testing.T) {
	_, err := NewGeminiAdvisor(context.Background(), "", "")
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

type countingAdvisor struct {
	calls int
	err   error
}

func (c *countingAdvisor) Name() string { return "counting" }

func (c *countingAdvisor) Advise(ctx context.Context, req ports.PaceRequest) (domain.PaceAdvice, error) {
	c.calls++
	return domain.PaceAdvice{Pace: 0.5}, c.err
}

func TestCachedAdvisor(t *testing.T) {
	inner := &countingAdvisor{}
	cached, err := NewCachedAdvisor(inner, 8)
	require.NoError(t, err)
	ctx := context.Background()

	// 299 and 296 fall in the same 5% bucket of a 300s countdown
	_, _ = cached.Advise(ctx, ports.PaceRequest{SelectedSeconds: 300, RemainingSeconds: 299})
	_, _ = cached.Advise(ctx, ports.PaceRequest{SelectedSeconds: 300, RemainingSeconds: 296})
	require.Equal(t, 1, inner.calls)

	_, _ = cached.Advise(ctx, ports.PaceRequest{SelectedSeconds: 300, RemainingSeconds: 100})
	_, _ = cached.Advise(ctx, ports.PaceRequest{SelectedSeconds: 300, RemainingSeconds: 299, Phase: domain.PhaseWork})
	require.Equal(t, 3, inner.calls)
	require.Equal(t, 3, cached.Len())
	require.Equal(t, "counting", cached.Name())
}

func TestCachedAdvisor_ErrorsAreNotCached(t *testing.T) {
	inner := &countingAdvisor{err: errors.New("timeout")}
	cached, _ := NewCachedAdvisor(inner, 8)
	req := ports.PaceRequest{SelectedSeconds: 60, RemainingSeconds: 30}

	_, err := cached.Advise(context.Background(), req)
	require.Error(t, err)
	_, err = cached.Advise(context.Background(), req)
	require.Error(t, err)
	require.Equal(t, 2, inner.calls)
	require.Zero(t, cached.Len())
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	advisor, err := New(ctx, config.PaceConfig{Provider: config.ProviderOff}, nil)
	require.NoError(t, err)
	require.Nil(t, advisor)

	advisor, err = New(ctx, config.PaceConfig{Provider: config.ProviderHeuristic}, nil)
	require.NoError(t, err)
	require.IsType(t, HeuristicAdvisor{}, advisor)

	advisor, err = New(ctx, config.PaceConfig{Provider: config.ProviderGemini, CacheSize: 4}, nil)
	require.NoError(t, err)
	require.IsType(t, &CachedAdvisor{}, advisor)
	require.Equal(t, "heuristic", advisor.Name(), "gemini without a key falls back")
}
