package connector

import (
	"context"
	"log/slog"
	"time"
)

func retryConnect(ctx context.Context, cfg *RetryConfig, logger *slog.Logger, connectFn func(context.Context) error) error {
	if cfg == nil || cfg.MaxRetries <= 0 {
		return connectFn(ctx)
	}

	delay := cfg.BaseDelay
	if delay == 0 {
		delay = time.Second
	}
	backoff := cfg.Backoff
	if backoff < 1 {
		backoff = 2
	}

	var err error
	for attempt := 1; ; attempt++ {
		if err = connectFn(ctx); err == nil {
			return nil
		}
		if attempt > cfg.MaxRetries {
			return err
		}
		logger.LogAttrs(ctx, slog.LevelWarn, "connect failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * backoff)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
}
