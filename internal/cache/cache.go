// Package cache memoizes fetch results keyed by operation and parameters.
//
// Entries live either until an absolute deadline (TTL) or until they are
// invalidated (Session). Concurrent lookups of the same key share a single
// compute call, detached from any one caller's cancellation. Failed computes
// are never stored.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxEntries is used when New is given a non-positive size.
const DefaultMaxEntries = 1024

// DefaultComputeTimeout bounds a shared compute unless WithComputeTimeout
// says otherwise.
const DefaultComputeTimeout = 10 * time.Minute

const sep = "\x1f"

// Key identifies one cached call. Params are order sensitive.
type Key struct {
	Op     string
	Params []string
}

// NewKey builds a key for op called with params.
func NewKey(op string, params ...string) Key {
	return Key{Op: op, Params: params}
}

func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Op + sep
	}
	return k.Op + sep + strings.Join(k.Params, sep)
}

// Policy decides how long an entry stays live.
type Policy struct {
	ttl time.Duration
}

// Session keeps entries until Invalidate or Purge.
var Session = Policy{}

// TTL expires entries d after they were stored. A non-positive d means Session.
func TTL(d time.Duration) Policy {
	if d < 0 {
		d = 0
	}
	return Policy{ttl: d}
}

func (p Policy) String() string {
	if p.ttl == 0 {
		return "session"
	}
	return "ttl " + p.ttl.String()
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

type entry struct {
	op        string
	value     any
	expiresAt time.Time
}

func (e entry) live(now time.Time) bool {
	return e.expiresAt.IsZero() || now.Before(e.expiresAt)
}

// Cache is safe for concurrent use.
type Cache struct {
	items   *lru.Cache[string, entry]
	group   singleflight.Group
	now     func() time.Time
	timeout time.Duration

	// gens[op] is bumped by Invalidate(op) and epoch by Purge, so that a
	// compute started before the invalidation does not store its result.
	mu    sync.Mutex
	gens  map[string]uint64
	epoch uint64

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithComputeTimeout bounds each shared compute. Non-positive values are ignored.
func WithComputeTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a cache holding at most maxEntries, evicting the least recently used.
func New(maxEntries int, options ...Option) (*Cache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	items, err := lru.New[string, entry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("creating lru: %w", err)
	}
	c := &Cache{
		items:   items,
		now:     time.Now,
		timeout: DefaultComputeTimeout,
		gens:    map[string]uint64{},
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// GetOrCompute returns the live value for key, or calls compute and stores its
// result under policy. The bool reports whether the value came from the cache.
//
// Callers of the same key share one compute. It runs on a context that keeps
// ctx's values but not its cancellation, bounded by the compute timeout, so one
// caller giving up does not fail the others. A caller whose ctx ends returns
// ctx.Err() at once while the compute carries on for the rest.
func (c *Cache) GetOrCompute(ctx context.Context, key Key, policy Policy, compute func(context.Context) (any, error)) (any, bool, error) {
	k := key.String()
	if v, ok := c.lookup(k); ok {
		c.hits.Add(1)
		return v, true, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	ch := c.group.DoChan(k, func() (v any, err error) {
		defer func() {
			if r := recover(); r != nil {
				v, err = nil, fmt.Errorf("%s: compute panicked: %v", key.Op, r)
			}
		}()
		if v, ok := c.lookup(k); ok {
			return v, nil
		}
		c.mu.Lock()
		gen, epoch := c.gens[key.Op], c.epoch
		c.mu.Unlock()

		c.misses.Add(1)
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		v, err = compute(cctx)
		if err != nil {
			return nil, err
		}

		e := entry{op: key.Op, value: v}
		if policy.ttl > 0 {
			e.expiresAt = c.now().Add(policy.ttl)
		}
		c.mu.Lock()
		if gen == c.gens[key.Op] && epoch == c.epoch {
			c.items.Add(k, e)
		}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val, false, nil
	}
}

func (c *Cache) lookup(k string) (any, bool) {
	e, ok := c.items.Get(k)
	if !ok {
		return nil, false
	}
	if !e.live(c.now()) {
		c.items.Remove(k)
		return nil, false
	}
	return e.value, true
}

// Invalidate drops every entry stored under op and returns how many were removed.
func (c *Cache) Invalidate(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[op]++

	n := 0
	for _, k := range c.items.Keys() {
		if e, ok := c.items.Peek(k); ok && e.op == op {
			c.items.Remove(k)
			n++
		}
	}
	return n
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.items.Purge()
}

// Stats returns the hit and miss counters and the number of stored entries,
// expired ones included until they are next looked up.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.items.Len(),
	}
}

// ErrType is returned by Get when a stored value has an unexpected type.
var ErrType = errors.New("cached value has unexpected type")

// Get is the typed form of GetOrCompute.
func Get[T any](ctx context.Context, c *Cache, key Key, policy Policy, compute func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	v, cached, err := c.GetOrCompute(ctx, key, policy, func(ctx context.Context) (any, error) {
		return compute(ctx)
	})
	if err != nil {
		return zero, false, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, false, fmt.Errorf("%s: %w: %T", key.Op, ErrType, v)
	}
	return t, cached, nil
}
