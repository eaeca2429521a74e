// Package politeness provides the randomized delay applied after a successful
// extraction so a source site is not hit back-to-back.
package politeness

import (
	"context"
	"math/rand/v2"
	"time"
)

// RandomPauser sleeps for a duration drawn uniformly from [Min, Max].
type RandomPauser struct {
	Min time.Duration
	Max time.Duration

	// draw returns a value in [0, n]; overridable in tests.
	draw func(n int64) int64
}

// NewRandomPauser builds a RandomPauser. Inverted bounds are swapped.
func NewRandomPauser(minDelay, maxDelay time.Duration) *RandomPauser {
	if maxDelay < minDelay {
		minDelay, maxDelay = maxDelay, minDelay
	}
	return &RandomPauser{
		Min:  minDelay,
		Max:  maxDelay,
		draw: func(n int64) int64 { return rand.Int64N(n + 1) },
	}
}

// Next returns the next delay without sleeping.
func (p *RandomPauser) Next() time.Duration {
	if p.Max <= 0 {
		return 0
	}
	span := int64(p.Max - p.Min)
	if span <= 0 {
		return p.Min
	}
	return p.Min + time.Duration(p.draw(span))
}

// Pause sleeps for Next() or until ctx is done, and returns the time actually
// spent waiting.
func (p *RandomPauser) Pause(ctx context.Context) time.Duration {
	delay := p.Next()
	if delay <= 0 {
		return 0
	}
	start := time.Now()
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return time.Since(start)
	case <-timer.C:
		return delay
	}
}
