package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/the-spice-must-learn/internal/service"
)

var (
	// ErrRateLimit is returned by a provider that asked us to slow down.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries wraps the last failure once every attempt is spent.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError tags a remote failure with whether another attempt can help.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// Permanent marks err as final, e.g. a rejected API key or a bad request.
func Permanent(err error) error {
	return &RetryableError{Err: err, Retryable: false}
}

func retryDefaults(opts service.RetryOptions) service.RetryOptions {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2
	}
	return opts
}

// backoff yields exponentially growing waits capped at MaxDelay. A rate
// limit response jumps straight to the cap.
type backoff struct {
	opts service.RetryOptions
	wait time.Duration
}

func (b *backoff) next(err error) time.Duration {
	switch {
	case errors.Is(err, ErrRateLimit):
		b.wait = b.opts.MaxDelay
	case b.wait == 0:
		b.wait = b.opts.InitialDelay
	default:
		b.wait = min(time.Duration(float64(b.wait)*b.opts.Multiplier), b.opts.MaxDelay)
	}
	return b.wait
}

func isPermanent(err error) bool {
	var re *RetryableError
	return errors.As(err, &re) && !re.Retryable
}

// WithRetry runs call until it succeeds, fails permanently, ctx ends or
// opts.MaxAttempts calls have been made. Zero options take defaults of
// 3 attempts starting at 100ms and doubling up to 30s.
func WithRetry(ctx context.Context, call func() error, opts service.RetryOptions) error {
	opts = retryDefaults(opts)
	b := &backoff{opts: opts}

	var err error
	for attempt := 1; ; attempt++ {
		if err = call(); err == nil {
			return nil
		}
		if isPermanent(err) || ctx.Err() != nil {
			return err
		}
		if attempt >= opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, attempt, err)
		}

		wait := b.next(err)
		slog.WarnContext(ctx, "remote call failed, backing off",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"wait", wait,
			"error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
