package remote

import (
	"context"
	"time"

	"github.com/skillvault/skillvault/internal/logging"
)

// Do invokes fn up to attempts times, doubling the delay between tries
// starting from baseDelay. Only retryable errors (see IsRetryable) are
// retried; validation-class failures return immediately. Context
// cancellation aborts the wait.
func Do(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := baseDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		logging.Debug("retrying remote call",
			logging.Err(err),
			logging.Count(attempt),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return err
}
