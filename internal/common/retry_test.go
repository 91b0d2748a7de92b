package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/the-spice-must-learn/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, fastRetry(3))

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := WithRetry(context.Background(), func() error {
			calls++
			return boom
		}, fastRetry(2))

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 2, calls)
	})

	t.Run("permanent errors stop immediately", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return Permanent(ErrMalformedResponse)
		}, fastRetry(5))

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedResponse)
		assert.Equal(t, 1, calls)
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			cancel()
			return errors.New("transient")
		}, fastRetry(5))

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestBackoff(t *testing.T) {
	b := &backoff{opts: retryDefaults(service.RetryOptions{
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     35 * time.Millisecond,
	})}
	transient := errors.New("transient")

	assert.Equal(t, 10*time.Millisecond, b.next(transient))
	assert.Equal(t, 20*time.Millisecond, b.next(transient))
	assert.Equal(t, 35*time.Millisecond, b.next(transient), "capped at MaxDelay")

	rl := &backoff{opts: retryDefaults(service.RetryOptions{MaxDelay: time.Second})}
	assert.Equal(t, time.Second, rl.next(ErrRateLimit), "rate limits wait the longest")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: true}))
	assert.False(t, IsRetryable(Permanent(errors.New("x"))))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not open database", ErrNotFound)
	assert.Equal(t, "could not open database: not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
}
