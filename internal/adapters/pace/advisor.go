package pace

import (
	"context"

	"go.uber.org/zap"

	"github.com/xvierd/chronozen/internal/config"
	"github.com/xvierd/chronozen/internal/logging"
	"github.com/xvierd/chronozen/internal/ports"
)

// New builds the advisor selected by cfg.Provider. The "off" provider
// yields nil, which leaves the pace at its default. A Gemini provider
// without credentials falls back to the heuristic advisor.
func New(ctx context.Context, cfg config.PaceConfig, log *zap.Logger) (ports.PaceAdvisor, error) {
	log = logging.OrNop(log)

	var advisor ports.PaceAdvisor
	switch cfg.Provider {
	case config.ProviderOff:
		return nil, nil
	case config.ProviderGemini:
		gemini, err := NewGeminiAdvisor(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			log.Warn("gemini pace advisor unavailable, using heuristic", zap.Error(err))
			advisor = HeuristicAdvisor{}
		} else {
			advisor = gemini
		}
	default:
		advisor = HeuristicAdvisor{}
	}

	if cfg.CacheSize <= 0 {
		return advisor, nil
	}
	cached, err := NewCachedAdvisor(advisor, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}
