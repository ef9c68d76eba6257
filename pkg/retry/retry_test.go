package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts uint) Config {
	return Config{
		MaxAttempts:     attempts,
		InitialDelay:    time.Millisecond,
		MaxDelay:        2 * time.Millisecond,
		BackoffFactor:   2,
		MaxTotalTimeout: time.Second,
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	var notified []int

	err := Do(context.Background(), fastConfig(5), "postgres", func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, func(attempt int, err error, next time.Duration) {
		notified = append(notified, attempt)
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, notified)
}

func TestDo_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	cause := errors.New("still down")

	err := Do(context.Background(), fastConfig(3), "redis", func() error {
		calls++
		return cause
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "redis")
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	cause := errors.New("bad credentials")

	err := Do(context.Background(), fastConfig(5), "postgres", func() error {
		calls++
		return Permanent(cause)
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, calls)
}
