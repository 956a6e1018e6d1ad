package retrieval

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/profrag/internal/domain"
	"github.com/kailas-cloud/profrag/internal/metrics"
)

// RetryConfig configures linear backoff for external calls.
type RetryConfig struct {
	MaxRetries  int           // additional attempts after the first
	BaseDelay   time.Duration // wait before retry n is BaseDelay * n
	CallTimeout time.Duration // per-attempt deadline, 0 disables it
}

// DefaultRetryConfig allows two retries after 200ms and 400ms with a 10s per-call timeout.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  2,
		BaseDelay:   200 * time.Millisecond,
		CallTimeout: 10 * time.Second,
	}
}

// withRetry runs fn until it succeeds, retries are exhausted, ctx is done or an error is
// not retryable. Each attempt gets its own timeout derived from ctx.
func withRetry[T any](
	ctx context.Context, cfg RetryConfig, op string, logger *zap.Logger,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.RetrievalRetriesTotal.WithLabelValues(op).Inc()
			logger.Warn("Retrying external call",
				zap.String("operation", op),
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(cfg.BaseDelay * time.Duration(attempt)):
			}
		}

		result, err := callWithTimeout(ctx, cfg.CallTimeout, fn)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Parent cancellation is final; a per-attempt timeout is not.
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if !retryable(err) {
			return zero, err
		}
	}

	return zero, lastErr
}

// retryable reports whether another attempt could succeed. Rejected requests fail the same way
// every time.
func retryable(err error) bool {
	switch {
	case errors.Is(err, domain.ErrEmbeddingRejected),
		errors.Is(err, domain.ErrInvalidSearch),
		errors.Is(err, domain.ErrInvalidQuery):
		return false
	}
	return true
}

func callWithTimeout[T any](
	ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error),
) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}
