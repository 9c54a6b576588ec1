package pace

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/ports"
)

// cacheBuckets is how finely the remaining fraction is quantised into keys.
const cacheBuckets = 20

type cacheKey struct {
	selected int
	bucket   int
	phase    domain.Phase
}

// CachedAdvisor memoises advice per selected duration, phase and remaining
// fraction bucket. Failures are not cached.
type CachedAdvisor struct {
	next  ports.PaceAdvisor
	cache *lru.Cache[cacheKey, domain.PaceAdvice]
}

// Ensure CachedAdvisor implements ports.PaceAdvisor.
var _ ports.PaceAdvisor = (*CachedAdvisor)(nil)

// NewCachedAdvisor wraps next with an LRU cache of the given size.
func NewCachedAdvisor(next ports.PaceAdvisor, size int) (*CachedAdvisor, error) {
	cache, err := lru.New[cacheKey, domain.PaceAdvice](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create advice cache: %w", err)
	}
	return &CachedAdvisor{next: next, cache: cache}, nil
}

// Name returns the wrapped advisor's name.
func (c *CachedAdvisor) Name() string {
	return c.next.Name()
}

// Advise implements ports.PaceAdvisor.
func (c *CachedAdvisor) Advise(ctx context.Context, req ports.PaceRequest) (domain.PaceAdvice, error) {
	key := keyFor(req)
	if advice, ok := c.cache.Get(key); ok {
		return advice, nil
	}

	advice, err := c.next.Advise(ctx, req)
	if err != nil {
		return advice, err
	}
	c.cache.Add(key, advice)
	return advice, nil
}

// Len returns the number of cached answers.
func (c *CachedAdvisor) Len() int {
	return c.cache.Len()
}

func keyFor(req ports.PaceRequest) cacheKey {
	bucket := 0
	if req.SelectedSeconds > 0 {
		bucket = req.RemainingSeconds * cacheBuckets / req.SelectedSeconds
	}
	return cacheKey{selected: req.SelectedSeconds, bucket: bucket, phase: req.Phase}
}
