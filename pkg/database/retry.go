package database

import (
	"context"
	"fmt"
	"time"

	"talent_realtime_service/pkg/logger"

	"go.uber.org/zap"
)

// Retry connect attempts, Interval counts seconds like the yaml retry_interval
type Retry struct {
	Count    int
	Interval time.Duration
}

func (r Retry) attempts() int {
	if r.Count < 1 {
		return 1
	}
	return r.Count
}

// withRetry 重試 connect 直到成功、次數用完或 ctx 結束
func withRetry(ctx context.Context, target string, r Retry, connect func(ctx context.Context) error) error {
	var err error
	limit := r.attempts()
	for attempt := 1; attempt <= limit; attempt++ {
		if err = connect(ctx); err == nil {
			logger.Log.Info(target+" connected", zap.Int("attempt", attempt))
			return nil
		}

		logger.Log.Warn(target+" connect failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("max", limit),
			zap.Error(err),
		)
		if attempt == limit {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", target, ctx.Err())
		case <-time.After(r.Interval * time.Second):
		}
	}
	return fmt.Errorf("%s unreachable after %d attempts: %w", target, limit, err)
}
