package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/phrazzld/ankigen/internal/config"
	"github.com/phrazzld/ankigen/internal/redact"
)

// RetryPolicy retries failed model requests with exponential backoff and
// full jitter: after failed attempt n the wait is drawn uniformly from
// [0, min(MaxWait, Multiplier*2^(n-1))].
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	Multiplier  time.Duration
	MaxWait     time.Duration

	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// Jitter returns a value in [0, 1). Nil uses math/rand/v2.
	Jitter func() float64
}

// DefaultRetryPolicy allows 5 attempts with waits capped at 20 seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		Multiplier:  time.Second,
		MaxWait:     20 * time.Second,
	}
}

// NewRetryPolicy builds the policy from the LLM configuration.
func NewRetryPolicy(cfg config.LLMConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: cfg.MaxAttempts,
		Multiplier:  cfg.RetryMultiplier,
		MaxWait:     cfg.RetryMaxWait,
	}
}

// MaxBackoff returns the upper bound of the wait that follows failed attempt
// number attempt (1-based).
func (p RetryPolicy) MaxBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	wait := float64(p.Multiplier) * math.Pow(2, float64(attempt-1))
	if p.MaxWait > 0 && wait > float64(p.MaxWait) {
		return p.MaxWait
	}
	return time.Duration(wait)
}

// Do runs op until it succeeds, the attempts are used up, or ctx is done.
//
// Every error is treated as transient except ErrContentBlocked, which is
// returned immediately. When all attempts fail the returned error wraps both
// ErrRetriesExhausted and the last failure.
func (p RetryPolicy) Do(ctx context.Context, logger *slog.Logger, op func(ctx context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}

	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		logger.WarnContext(ctx, "Invalid max attempts value, using 1", "max_attempts", p.MaxAttempts)
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			if attempt > 1 {
				logger.InfoContext(ctx, "Request succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("request aborted: %w", ctxErr)
		}

		if errors.Is(err, ErrContentBlocked) {
			logger.WarnContext(ctx, "Permanent error occurred, not retrying",
				"attempt", attempt,
				"error", redact.Error(err))
			return err
		}

		if attempt == maxAttempts {
			break
		}

		delay := time.Duration(p.jitter() * float64(p.MaxBackoff(attempt)))
		logger.WarnContext(ctx, "Request failed, retrying after delay",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"delay", delay.String(),
			"error", redact.Error(err))

		if err := p.sleep(ctx, delay); err != nil {
			return fmt.Errorf("request aborted during retry delay: %w", err)
		}
	}

	logger.WarnContext(ctx, "Maximum retry attempts reached", "max_attempts", maxAttempts)
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, maxAttempts, lastErr)
}

func (p RetryPolicy) jitter() float64 {
	if p.Jitter != nil {
		return p.Jitter()
	}
	return rand.Float64()
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	return SleepContext(ctx, d)
}

// SleepContext waits for d or until ctx is done, returning ctx.Err() in the
// latter case.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
