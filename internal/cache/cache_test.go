package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(t *testing.T, size int) (*Cache, *clock) {
	t.Helper()
	clk := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c, err := New(size, WithClock(clk.Now))
	require.NoError(t, err)
	return c, clk
}

func counter(calls *atomic.Int32, v any) func(context.Context) (any, error) {
	return func(context.Context) (any, error) {
		calls.Add(1)
		return v, nil
	}
}

func TestGetOrCompute_SecondCallIsCached(t *testing.T) {
	t.Parallel()

	// Arrange
	c, _ := newTestCache(t, 0)
	var calls atomic.Int32
	key := NewKey("commodities.history", "GC=F", "3mo", "1d")

	// Act
	v1, cached1, err1 := c.GetOrCompute(t.Context(), key, Session, counter(&calls, "gold"))
	v2, cached2, err2 := c.GetOrCompute(t.Context(), key, Session, counter(&calls, "other"))

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, "gold", v1)
	assert.Equal(t, "gold", v2)
	assert.False(t, cached1)
	assert.True(t, cached2)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, Stats{Hits: 1, Misses: 1, Entries: 1}, c.Stats())
}

func TestGetOrCompute_ParamsAreOrderSensitive(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 0)
	var calls atomic.Int32

	_, _, err := c.GetOrCompute(t.Context(), NewKey("op", "a", "b"), Session, counter(&calls, 1))
	require.NoError(t, err)
	_, cached, err := c.GetOrCompute(t.Context(), NewKey("op", "b", "a"), Session, counter(&calls, 2))
	require.NoError(t, err)

	assert.False(t, cached)
	assert.EqualValues(t, 2, calls.Load())
}

func TestGetOrCompute_KeysDoNotCollide(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 0)
	var calls atomic.Int32

	_, _, _ = c.GetOrCompute(t.Context(), NewKey("op", "a,b"), Session, counter(&calls, 1))
	_, _, _ = c.GetOrCompute(t.Context(), NewKey("op", "a", "b"), Session, counter(&calls, 2))
	_, _, _ = c.GetOrCompute(t.Context(), NewKey("op"), Session, counter(&calls, 3))

	assert.EqualValues(t, 3, calls.Load())
}

func TestGetOrCompute_TTLExpires(t *testing.T) {
	t.Parallel()

	// Arrange
	c, clk := newTestCache(t, 0)
	var calls atomic.Int32
	key := NewKey("etfs.options", "SPY")
	policy := TTL(300 * time.Second)

	// Act + Assert
	_, _, err := c.GetOrCompute(t.Context(), key, policy, counter(&calls, 1))
	require.NoError(t, err)

	clk.Advance(299 * time.Second)
	_, cached, err := c.GetOrCompute(t.Context(), key, policy, counter(&calls, 2))
	require.NoError(t, err)
	assert.True(t, cached)

	clk.Advance(time.Second)
	v, cached, err := c.GetOrCompute(t.Context(), key, policy, counter(&calls, 3))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 3, v)
	assert.EqualValues(t, 2, calls.Load())
}

func TestGetOrCompute_SessionNeverExpires(t *testing.T) {
	t.Parallel()

	c, clk := newTestCache(t, 0)
	var calls atomic.Int32
	key := NewKey("equities.constituents")

	_, _, _ = c.GetOrCompute(t.Context(), key, Session, counter(&calls, 1))
	clk.Advance(365 * 24 * time.Hour)
	_, cached, _ := c.GetOrCompute(t.Context(), key, Session, counter(&calls, 2))

	assert.True(t, cached)
	assert.EqualValues(t, 1, calls.Load())
}

func TestGetOrCompute_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	// Arrange
	c, _ := newTestCache(t, 0)
	key := NewKey("cryptos.markets", "500")
	boom := errors.New("boom")
	var calls atomic.Int32

	// Act
	_, _, err := c.GetOrCompute(t.Context(), key, Session, func(context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	})
	v, cached, err2 := c.GetOrCompute(t.Context(), key, Session, counter(&calls, "ok"))

	// Assert
	require.ErrorIs(t, err, boom)
	require.NoError(t, err2)
	assert.False(t, cached)
	assert.Equal(t, "ok", v)
	assert.EqualValues(t, 2, calls.Load())
}

func TestGetOrCompute_ConcurrentCallersShareOneCompute(t *testing.T) {
	t.Parallel()

	// Arrange
	c, _ := newTestCache(t, 0)
	key := NewKey("equities.info", "AAPL")
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	compute := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return "apple", nil
	}

	// Act
	const n = 8
	var wg sync.WaitGroup
	results := make([]any, n)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _, _ = c.GetOrCompute(t.Context(), key, Session, compute)
	}()
	<-started
	for i := 1; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _, _ = c.GetOrCompute(t.Context(), key, Session, compute)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	// Assert
	assert.EqualValues(t, 1, calls.Load())
	for _, r := range results {
		assert.Equal(t, "apple", r)
	}
}

func TestGetOrCompute_CanceledCallerDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	// Arrange
	c, _ := newTestCache(t, 0)
	key := NewKey("cryptos.markets", "500")
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	var computeErr error
	compute := func(ctx context.Context) (any, error) {
		calls.Add(1)
		close(started)
		<-release
		computeErr = ctx.Err()
		return "markets", nil
	}
	ctxA, cancelA := context.WithCancel(t.Context())

	// Act
	errA := make(chan error, 1)
	go func() {
		_, _, err := c.GetOrCompute(ctxA, key, Session, compute)
		errA <- err
	}()
	<-started
	type result struct {
		v   any
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, _, err := c.GetOrCompute(context.Background(), key, Session, compute)
		resB <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)
	cancelA()
	gotA := <-errA
	close(release)
	gotB := <-resB

	// Assert
	assert.ErrorIs(t, gotA, context.Canceled)
	require.NoError(t, gotB.err)
	assert.Equal(t, "markets", gotB.v)
	assert.NoError(t, computeErr)
	assert.EqualValues(t, 1, calls.Load())
	_, cached, err := c.GetOrCompute(t.Context(), key, Session, counter(&calls, "again"))
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestGetOrCompute_CanceledContextSkipsCompute(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 0)
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, _, err := c.GetOrCompute(ctx, NewKey("etfs.info", "SPY"), Session, counter(&calls, 1))

	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 0, calls.Load())
}

func TestGetOrCompute_PanicBecomesError(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 0)

	_, _, err := c.GetOrCompute(t.Context(), NewKey("etfs.options", "SPY"), Session, func(context.Context) (any, error) {
		panic("boom")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestInvalidate_OnlyDropsThatOp(t *testing.T) {
	t.Parallel()

	// Arrange
	c, _ := newTestCache(t, 0)
	var calls atomic.Int32
	_, _, _ = c.GetOrCompute(t.Context(), NewKey("etfs.info", "SPY"), Session, counter(&calls, 1))
	_, _, _ = c.GetOrCompute(t.Context(), NewKey("etfs.info", "QQQ"), Session, counter(&calls, 2))
	_, _, _ = c.GetOrCompute(t.Context(), NewKey("equities.info", "SPY"), Session, counter(&calls, 3))

	// Act
	n := c.Invalidate("etfs.info")

	// Assert
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, c.Stats().Entries)
	_, cached, _ := c.GetOrCompute(t.Context(), NewKey("equities.info", "SPY"), Session, counter(&calls, 4))
	assert.True(t, cached)
	_, cached, _ = c.GetOrCompute(t.Context(), NewKey("etfs.info", "SPY"), Session, counter(&calls, 5))
	assert.False(t, cached)
}

func TestInvalidate_DiscardsInFlightResult(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 0)
	key := NewKey("cryptos.markets", "10")

	_, _, err := c.GetOrCompute(t.Context(), key, Session, func(context.Context) (any, error) {
		c.Invalidate("cryptos.markets")
		return "stale", nil
	})
	require.NoError(t, err)

	assert.Equal(t, 0, c.Stats().Entries)
}

func TestInvalidate_KeepsInFlightResultOfOtherOps(t *testing.T) {
	t.Parallel()

	// Arrange
	c, _ := newTestCache(t, 0)
	key := NewKey("commodities.history", "GC=F", "3mo", "1d")
	var calls atomic.Int32

	// Act
	_, _, err := c.GetOrCompute(t.Context(), key, Session, func(context.Context) (any, error) {
		calls.Add(1)
		c.Invalidate("cryptos.markets")
		return "gold", nil
	})
	require.NoError(t, err)
	_, cached, _ := c.GetOrCompute(t.Context(), key, Session, counter(&calls, "other"))

	// Assert
	assert.True(t, cached)
	assert.EqualValues(t, 1, calls.Load())
}

func TestPurge_DiscardsInFlightResult(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 0)

	_, _, err := c.GetOrCompute(t.Context(), NewKey("etfs.info", "SPY"), Session, func(context.Context) (any, error) {
		c.Purge()
		return "stale", nil
	})
	require.NoError(t, err)

	assert.Equal(t, 0, c.Stats().Entries)
}

func TestPurge(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 0)
	var calls atomic.Int32
	_, _, _ = c.GetOrCompute(t.Context(), NewKey("a"), Session, counter(&calls, 1))
	_, _, _ = c.GetOrCompute(t.Context(), NewKey("b"), TTL(time.Minute), counter(&calls, 2))

	c.Purge()

	assert.Equal(t, 0, c.Stats().Entries)
}

func TestNew_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 2)
	var calls atomic.Int32
	_, _, _ = c.GetOrCompute(t.Context(), NewKey("op", "1"), Session, counter(&calls, 1))
	_, _, _ = c.GetOrCompute(t.Context(), NewKey("op", "2"), Session, counter(&calls, 2))
	_, _, _ = c.GetOrCompute(t.Context(), NewKey("op", "1"), Session, counter(&calls, 0))
	_, _, _ = c.GetOrCompute(t.Context(), NewKey("op", "3"), Session, counter(&calls, 3))

	_, cached1, _ := c.GetOrCompute(t.Context(), NewKey("op", "1"), Session, counter(&calls, 0))
	_, cached2, _ := c.GetOrCompute(t.Context(), NewKey("op", "2"), Session, counter(&calls, 0))

	assert.True(t, cached1)
	assert.False(t, cached2)
}

func TestGet_Typed(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 0)
	key := NewKey("equities.info", "MSFT")

	v, cached, err := Get(t.Context(), c, key, Session, func(context.Context) ([]string, error) {
		return []string{"MSFT"}, nil
	})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, []string{"MSFT"}, v)

	_, _, err = Get(t.Context(), c, key, Session, func(context.Context) (int, error) {
		return 0, nil
	})
	require.ErrorIs(t, err, ErrType)
}

func TestPolicy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Session, TTL(0))
	assert.Equal(t, Session, TTL(-time.Second))
	assert.Equal(t, "ttl 5m0s", TTL(5*time.Minute).String())
	assert.Equal(t, "session", Session.String())
}
