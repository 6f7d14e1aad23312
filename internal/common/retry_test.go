package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eakarsu/parapilot/internal/service"
)

func fastRetryOpts() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("transient failure %d", attempts)
		}
		return nil
	}, fastRetryOpts())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return errors.New("always failing")
	}, fastRetryOpts())

	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryStopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	permanent := &RetryableError{Err: errors.New("bad input"), Retryable: false}

	err := WithRetry(context.Background(), func() error {
		attempts++
		return permanent
	}, fastRetryOpts())

	require.Error(t, err)
	assert.Equal(t, 1, attempts, "non-retryable errors fail immediately")
	assert.ErrorIs(t, err, permanent.Err)
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := WithRetry(ctx, func() error {
		attempts++
		cancel()
		return errors.New("failing")
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Hour})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(ErrSyncConflict))
	assert.True(t, IsRetryable(fmt.Errorf("wrapped: %w", ErrSyncConflict)))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: true}))

	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: false}))
	assert.False(t, IsRetryable(errors.New("plain error")))
	assert.False(t, IsRetryable(ErrNotFound))
}

func TestUserError(t *testing.T) {
	inner := errors.New("db exploded")
	err := NewUserError("could not load your data", inner)

	assert.Contains(t, err.Error(), "could not load your data")
	assert.ErrorIs(t, err, inner)

	bare := NewUserError("just a message", nil)
	assert.Equal(t, "just a message", bare.Error())
}
