package recommendation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/RezenkovD/TravelAiApi/internal/types"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryWait   = 2 * time.Second
)

// RetryPolicy retries an operation that fails with *types.ProviderError a
// bounded number of times with a fixed wait. Any other error is returned on
// first occurrence. The wait honours ctx cancellation.
type RetryPolicy struct {
	MaxAttempts int
	Wait        time.Duration
	logger      *slog.Logger
}

func NewRetryPolicy(maxAttempts int, wait time.Duration, logger *slog.Logger) RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if wait < 0 {
		wait = 0
	}
	return RetryPolicy{MaxAttempts: maxAttempts, Wait: wait, logger: logger}
}

// Do runs op until it succeeds, returns a non provider error, or the attempts
// are used up. In the last case the final provider error is returned as is.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) (string, error)) (string, error) {
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Wait), uint64(p.MaxAttempts-1)),
		ctx,
	)

	attempt := 0
	return backoff.RetryNotifyWithData(func() (string, error) {
		attempt++
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		var providerErr *types.ProviderError
		if !errors.As(err, &providerErr) {
			return "", backoff.Permanent(err)
		}
		return "", err
	}, b, func(err error, next time.Duration) {
		if p.logger != nil {
			p.logger.WarnContext(ctx, "Provider call failed, retrying",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", p.MaxAttempts),
				slog.Duration("wait", next),
				slog.Any("error", err))
		}
	})
}
