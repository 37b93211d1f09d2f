package ratelimit

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClient struct {
	calls atomic.Int32

	mu    sync.Mutex
	times []time.Time
}

func (c *countingClient) Do(*http.Request) (*http.Response, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.times = append(c.times, time.Now())
	c.mu.Unlock()
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
}

func newRequest(t *testing.T, ctx context.Context) *http.Request {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.test", http.NoBody)
	require.NoError(t, err)
	return req
}

func TestClient_AllowsBurstThenBlocks(t *testing.T) {
	t.Parallel()

	// Arrange
	next := &countingClient{}
	c := New(next, 1000*time.Second, 2)
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	// Act
	_, err1 := c.Do(newRequest(t, ctx))
	_, err2 := c.Do(newRequest(t, ctx))
	_, err3 := c.Do(newRequest(t, ctx))

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	// The third slot is ~1000s away, past the deadline.
	require.Error(t, err3)
	require.EqualValues(t, 2, next.calls.Load())
}

func TestClient_CanceledContextSkipsCall(t *testing.T) {
	t.Parallel()

	next := &countingClient{}
	c := New(next, 1000*time.Second, 1)

	_, err := c.Do(newRequest(t, t.Context()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = c.Do(newRequest(t, ctx))
	require.ErrorIs(t, err, context.Canceled)
	require.EqualValues(t, 1, next.calls.Load())
}

func TestWrap_MinIntervalSpacesCalls(t *testing.T) {
	t.Parallel()

	next := &countingClient{}
	c := Wrap(next, 0, 0, 30*time.Millisecond)

	start := time.Now()
	_, err := c.Do(newRequest(t, t.Context()))
	require.NoError(t, err)
	_, err = c.Do(newRequest(t, t.Context()))
	require.NoError(t, err)

	require.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
	require.EqualValues(t, 2, next.calls.Load())
}

func TestWrap_MinIntervalSpacesConcurrentCalls(t *testing.T) {
	t.Parallel()

	// Arrange
	const interval = 30 * time.Millisecond
	next := &countingClient{}
	c := Wrap(next, 0, 0, interval)
	_, err := c.Do(newRequest(t, t.Context()))
	require.NoError(t, err)

	// Act
	var wg sync.WaitGroup
	for range 3 {
		req := newRequest(t, t.Context())
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Do(req)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Assert: four calls need three full intervals between first and last.
	next.mu.Lock()
	times := slices.Clone(next.times)
	next.mu.Unlock()
	require.Len(t, times, 4)
	slices.SortFunc(times, func(a, b time.Time) int { return a.Compare(b) })
	require.GreaterOrEqual(t, times[3].Sub(times[0]), 3*interval-10*time.Millisecond)
}

func TestWrap_SelectsGate(t *testing.T) {
	t.Parallel()

	next := &countingClient{}

	perMinute, ok := Wrap(next, 60, 0, time.Second).(*Client)
	require.True(t, ok)
	require.Equal(t, float64(1), float64(perMinute.Limiter.Limit()))
	require.Equal(t, 1, perMinute.Limiter.Burst())

	spaced, ok := Wrap(next, 0, 5, 2*time.Second).(*Client)
	require.True(t, ok)
	require.InDelta(t, 0.5, float64(spaced.Limiter.Limit()), 1e-9)
	require.Equal(t, 1, spaced.Limiter.Burst())

	require.Same(t, next, Wrap(next, 0, 0, 0))
}
