package wallet

import (
	"context"
	"strings"
	"time"
)

const (
	retryAttempts = 3
	retryBackoff  = 200 * time.Millisecond
)

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "Too Many Requests") || strings.Contains(s, "-32005") || strings.Contains(s, "429")
}

// withRetry runs fn up to retryAttempts times with exponential backoff.
// Only provider rate limits are retried.
func withRetry[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	backoff := retryBackoff
	var (
		out T
		err error
	)
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		out, err = fn(ctx)
		if err == nil || !isRateLimitError(err) {
			return out, err
		}
		if attempt == retryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return out, err
}
