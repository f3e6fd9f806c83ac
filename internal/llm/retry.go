package llm

import (
	"context"
	"errors"
	"time"
)

// WithRetry wraps g so that failed calls are retried up to maxAttempts
// times with exponential backoff starting at baseDelay. Empty input and
// context cancellation are never retried.
func WithRetry(g Generator, maxAttempts int, baseDelay time.Duration) Generator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return &retrying{next: g, max: maxAttempts, base: baseDelay}
}

type retrying struct {
	next Generator
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }

func (r *retrying) Generate(ctx context.Context, input string) (string, error) {
	var last error
	for i := 0; i < r.max; i++ {
		out, err := r.next.Generate(ctx, input)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, ErrEmptyInput) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		last = err
		if i == r.max-1 {
			break
		}

		timer := time.NewTimer(r.base * time.Duration(1<<i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", last
}
