package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/nodepulse/nodepulse/internal/telemetry"
)

// Sender sends one batch attempt.
type Sender interface {
	SendBatch(ctx context.Context, points []telemetry.Point) error
}

// SendWithRetry attempts delivery up to maxAttempts times, sleeping
// 2^(attempt-1) seconds after the first, second, ... failed attempt. It
// returns the last error when every attempt fails; the caller drops the
// batch at that point.
func SendWithRetry(ctx context.Context, s Sender, points []telemetry.Point, maxAttempts int, log *slog.Logger) error {
	return sendWithRetry(ctx, s, points, maxAttempts, log, sleepCtx)
}

func sendWithRetry(ctx context.Context, s Sender, points []telemetry.Point, maxAttempts int, log *slog.Logger, sleep func(context.Context, time.Duration) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = s.SendBatch(ctx, points)
		if lastErr == nil {
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		backoff := time.Duration(1<<(attempt-1)) * time.Second
		log.Warn("send failed, retrying",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"backoff", backoff,
			"error", lastErr)
		if err := sleep(ctx, backoff); err != nil {
			return err
		}
	}
	return lastErr
}

// sleepCtx sleeps for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
