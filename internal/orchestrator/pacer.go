package orchestrator

import (
	"context"
	"math/rand"
	"time"
)

// Default pause bounds between two site searches.
const (
	DefaultPaceMin = 2 * time.Second
	DefaultPaceMax = 4 * time.Second
)

// Pacer blocks between outbound searches.
type Pacer interface {
	Wait(ctx context.Context) error
}

// RandomPacer sleeps for a uniformly random duration in [Min, Max).
type RandomPacer struct {
	Min, Max time.Duration
	// Int64N defaults to math/rand.Int63n.
	Int64N func(n int64) int64
}

// NewRandomPacer returns a pacer over [lo, hi).
func NewRandomPacer(lo, hi time.Duration) *RandomPacer {
	return &RandomPacer{Min: lo, Max: hi}
}

// Next returns the next pause length.
func (p *RandomPacer) Next() time.Duration {
	span := int64(p.Max - p.Min)
	if span <= 0 {
		return max(p.Min, 0)
	}
	n := p.Int64N
	if n == nil {
		n = rand.Int63n
	}
	return p.Min + time.Duration(n(span))
}

// Wait sleeps for Next() or until ctx is done.
func (p *RandomPacer) Wait(ctx context.Context) error {
	d := p.Next()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
