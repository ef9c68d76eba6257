package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     uint
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	MaxTotalTimeout time.Duration
}

// DefaultConfig returns a default retry configuration with 1 minute max timeout
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     10,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 60 * time.Second,
	}
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do executes fn with exponential backoff. notify, when non-nil, is called
// after every failed attempt with the delay before the next one.
func Do(ctx context.Context, cfg Config, name string, fn func() error, notify func(attempt int, err error, nextDelay time.Duration)) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialDelay
	b.MaxInterval = cfg.MaxDelay
	if cfg.BackoffFactor > 0 {
		b.Multiplier = cfg.BackoffFactor
	}

	attempt := 0
	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithNotify(func(err error, next time.Duration) {
			if notify != nil {
				notify(attempt, err, next)
			}
		}),
	}
	if cfg.MaxAttempts > 0 {
		opts = append(opts, backoff.WithMaxTries(cfg.MaxAttempts))
	}
	if cfg.MaxTotalTimeout > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(cfg.MaxTotalTimeout))
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		return struct{}{}, fn()
	}, opts...)
	if err != nil {
		return fmt.Errorf("%s: giving up after %d attempts: %w", name, attempt, err)
	}
	return nil
}
