// Package pacing spaces out calls to rate-limited endpoints.
package pacing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"HeadlineScorer/internal/ports"
)

// Pacer keeps at least delay between the end of one call and the start of
// the next. The first call goes through immediately.
type Pacer struct {
	mu      sync.Mutex
	limit   rate.Limit
	limiter *rate.Limiter
}

var _ ports.Pacer = (*Pacer)(nil)

// New builds a pacer; a non-positive delay disables throttling.
func New(delay time.Duration) *Pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Pacer{limit: limit, limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next call may start or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	limiter := p.limiter
	p.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("pacing: %w", err)
	}
	return nil
}

// Done marks the end of a call. The next Wait blocks for the full delay
// counted from now, however long the call itself took.
func (p *Pacer) Done() {
	limiter := rate.NewLimiter(p.limit, 1)
	limiter.Allow()

	p.mu.Lock()
	p.limiter = limiter
	p.mu.Unlock()
}
