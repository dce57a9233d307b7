// Package ratelimit paces document throughput for stream reflection.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles how many documents per second are reflected, so a
// mapping applied to an NDJSON stream does not flood whatever consumes the
// output.
type Limiter struct {
	limiter *rate.Limiter
}

// New uses 0 or a negative limit for no pacing.
func New(documentsPerSecond float64) *Limiter {
	if documentsPerSecond <= 0 {
		return &Limiter{
			limiter: rate.NewLimiter(rate.Inf, 1),
		}
	}

	// Burst of 1: the first document goes through immediately, the rest
	// wait their turn.
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(documentsPerSecond), 1),
	}
}

// Wait blocks until the next document may be processed or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow is non-blocking and useful for checking throttling.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Limit returns the configured documents per second, 0 meaning unlimited.
func (l *Limiter) Limit() float64 {
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}
	return float64(limit)
}
