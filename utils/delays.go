package utils

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryDelay blocks between retry attempts of the named task. Wait returns
// early with ctx.Err() once the context is done.
type RetryDelay interface {
	Wait(ctx context.Context, taskName string, attempt int) error
}

// ConstantDelay waits Period seconds between attempts.
type ConstantDelay struct {
	Period int
}

func (d ConstantDelay) Wait(ctx context.Context, taskName string, attempt int) error {
	return sleepCtx(ctx, time.Duration(d.Period)*time.Second)
}

// ExponentialBackoff waits min(Base*2^attempt, Max) plus up to one second of jitter.
// Zero values fall back to a 2s base and a 10s cap.
type ExponentialBackoff struct {
	Base time.Duration
	Max  time.Duration
}

func (b ExponentialBackoff) Duration(attempt int) time.Duration {
	base := b.Base
	if base <= 0 {
		base = 2 * time.Second
	}
	maxDelay := b.Max
	if maxDelay <= 0 {
		maxDelay = 10 * time.Second
	}
	if attempt < 0 {
		attempt = 0
	}
	d := base
	for i := 0; i < attempt && d < maxDelay; i++ {
		d *= 2
	}
	if d > maxDelay {
		d = maxDelay
	}
	return d
}

func (b ExponentialBackoff) Wait(ctx context.Context, taskName string, attempt int) error {
	jitter := time.Duration(rand.Int64N(int64(time.Second)))
	return sleepCtx(ctx, b.Duration(attempt)+jitter)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
