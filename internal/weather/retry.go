// In file: internal/weather/retry.go
package weather

import (
	"context"
	"errors"
	"log"
	"time"
)

// RetryingClient decorates a DataClient with exponential-backoff retries.
//
// Only ErrUpstreamUnavailable is retried. ErrLocationNotFound is a definitive
// answer from the provider and is returned immediately, as is any failure
// after the caller's context is done.
type RetryingClient struct {
	inner        DataClient
	maxRetries   int
	initialDelay time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
}

var _ DataClient = (*RetryingClient)(nil)

// NewRetryingClient wraps inner. maxRetries counts the extra attempts after the first one.
func NewRetryingClient(inner DataClient, maxRetries int, initialDelay time.Duration) *RetryingClient {
	if initialDelay <= 0 {
		initialDelay = 500 * time.Millisecond
	}
	return &RetryingClient{
		inner:        inner,
		maxRetries:   maxRetries,
		initialDelay: initialDelay,
		sleep:        sleepContext,
	}
}

func (r *RetryingClient) ResolveCoordinates(ctx context.Context, place string) (Coordinates, error) {
	var out Coordinates
	err := r.do(ctx, "geocode", func() error {
		var err error
		out, err = r.inner.ResolveCoordinates(ctx, place)
		return err
	})
	return out, err
}

func (r *RetryingClient) CurrentConditions(ctx context.Context, lat, lon float64) (*Conditions, error) {
	var out *Conditions
	err := r.do(ctx, "conditions", func() error {
		var err error
		out, err = r.inner.CurrentConditions(ctx, lat, lon)
		return err
	})
	return out, err
}

func (r *RetryingClient) do(ctx context.Context, op string, fn func() error) error {
	delay := r.initialDelay
	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, ErrUpstreamUnavailable) || attempt == r.maxRetries {
			return err
		}
		log.Printf("⚠️ %s attempt %d/%d failed, retrying in %s: %v", op, attempt+1, r.maxRetries+1, delay, err)
		if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
			return err
		}
		delay *= 2
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
