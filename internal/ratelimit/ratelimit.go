package ratelimit

import (
	"context"
	"sync"
	"time"
)

type RateLimiter interface {
	Wait(ctx context.Context) error
	SetDelay(delay time.Duration)
}

// PolitenessLimiter enforces a fixed minimum interval between consecutive
// actions. The first call never waits.
type PolitenessLimiter struct {
	delay      time.Duration
	lastAction time.Time
	mu         sync.Mutex
}

func NewPolitenessLimiter(delay time.Duration) *PolitenessLimiter {
	return &PolitenessLimiter{delay: delay}
}

func (r *PolitenessLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.lastAction.IsZero() {
		elapsed := time.Since(r.lastAction)
		if elapsed < r.delay {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.delay - elapsed):
			}
		}
	}

	r.lastAction = time.Now()
	return nil
}

func (r *PolitenessLimiter) SetDelay(delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.delay = delay
}
