package weather

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	geoErrs  []error
	condErrs []error
	geoCalls int
	conCalls int
}

func (s *scriptedClient) ResolveCoordinates(_ context.Context, _ string) (Coordinates, error) {
	i := s.geoCalls
	s.geoCalls++
	if i < len(s.geoErrs) && s.geoErrs[i] != nil {
		return Coordinates{}, s.geoErrs[i]
	}
	return Coordinates{Latitude: 1, Longitude: 2}, nil
}

func (s *scriptedClient) CurrentConditions(_ context.Context, _, _ float64) (*Conditions, error) {
	i := s.conCalls
	s.conCalls++
	if i < len(s.condErrs) && s.condErrs[i] != nil {
		return nil, s.condErrs[i]
	}
	return &Conditions{WeatherCode: 0}, nil
}

func newTestRetrying(inner DataClient, maxRetries int) (*RetryingClient, *[]time.Duration) {
	var waits []time.Duration
	r := NewRetryingClient(inner, maxRetries, 10*time.Millisecond)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

var errFlaky = fmt.Errorf("%w: status 502", ErrUpstreamUnavailable)

func TestRetryingClient_RecoversFromUpstreamFailure(t *testing.T) {
	inner := &scriptedClient{geoErrs: []error{errFlaky, errFlaky}}
	r, waits := newTestRetrying(inner, 3)

	coords, err := r.ResolveCoordinates(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Latitude: 1, Longitude: 2}, coords)
	assert.Equal(t, 3, inner.geoCalls)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, *waits)
}

func TestRetryingClient_GivesUpAfterMaxRetries(t *testing.T) {
	inner := &scriptedClient{condErrs: []error{errFlaky, errFlaky, errFlaky, errFlaky}}
	r, _ := newTestRetrying(inner, 2)

	_, err := r.CurrentConditions(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, 3, inner.conCalls)
}

func TestRetryingClient_DoesNotRetryNotFound(t *testing.T) {
	inner := &scriptedClient{geoErrs: []error{fmt.Errorf("%w: 'Atlantis'", ErrLocationNotFound)}}
	r, waits := newTestRetrying(inner, 5)

	_, err := r.ResolveCoordinates(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrLocationNotFound)
	assert.Equal(t, 1, inner.geoCalls)
	assert.Empty(t, *waits)
}

func TestRetryingClient_ZeroRetriesIsSingleAttempt(t *testing.T) {
	inner := &scriptedClient{geoErrs: []error{errFlaky}}
	r, _ := newTestRetrying(inner, 0)

	_, err := r.ResolveCoordinates(context.Background(), "Paris")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, 1, inner.geoCalls)
}

func TestRetryingClient_StopsWhenContextDone(t *testing.T) {
	inner := &scriptedClient{geoErrs: []error{errFlaky, errFlaky, errFlaky}}
	r, _ := newTestRetrying(inner, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ResolveCoordinates(ctx, "Paris")
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
	assert.Equal(t, 1, inner.geoCalls)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
