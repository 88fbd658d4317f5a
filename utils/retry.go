package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      zerolog.Logger
}

// Do executes fn with exponential back-off retry logic. Once ctx is
// cancelled no further attempts are made; the last error (or the context
// error, if no attempt ran yet) is returned.
func (r *RetryConfig) Do(ctx context.Context, operationName string, fn func() error) error {
	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			return fmt.Errorf("%s aborted: %w", operationName, lastErr)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < r.MaxAttempts {
			r.Logger.Warn().
				Str("operation", operationName).
				Int("attempt", attempt).
				Int("max_attempts", r.MaxAttempts).
				Dur("delay", delay).
				Err(lastErr).
				Msg("retrying")

			select {
			case <-ctx.Done():
				return fmt.Errorf("%s aborted: %w", operationName, lastErr)
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, r.MaxAttempts, lastErr)
}
