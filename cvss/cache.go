package cvss

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	otelmetric "go.opentelemetry.io/otel/metric"
)

// DefaultCacheCapacity is the capacity of the process-wide cache.
const DefaultCacheCapacity = 5000

var (
	defaultCache     *Cache
	defaultCacheOnce sync.Once
)

// Default returns the process-wide score cache.
func Default() *Cache {
	defaultCacheOnce.Do(func() {
		defaultCache = NewCache(DefaultCacheCapacity)
	})
	return defaultCache
}

// CacheStats reports cache activity since creation or the last Purge.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
	Capacity  int
}

// Cache is a bounded LRU map from canonical vector strings to Baked
// snapshots. It is safe for concurrent use; all index and recency updates
// happen under one mutex, including lookups, since a hit reorders the list.
type Cache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front is most recently used

	hits      uint64
	misses    uint64
	evictions uint64

	instruments *cacheInstruments
}

type cacheEntry struct {
	key   string
	baked *Baked
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithMeter records hits, misses and evictions as OpenTelemetry counters.
// Instrument creation errors leave the cache uninstrumented.
func WithMeter(meter otelmetric.Meter) CacheOption {
	return func(c *Cache) {
		if meter == nil {
			return
		}
		inst, err := newCacheInstruments(meter)
		if err != nil {
			logger().Warn("cache metrics disabled", "error", err)
			return
		}
		c.instruments = inst
	}
}

// NewCache creates an LRU cache holding at most capacity snapshots. A
// non-positive capacity selects DefaultCacheCapacity.
func NewCache(capacity int, opts ...CacheOption) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c := &Cache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bake returns the snapshot for v's canonical string, computing and inserting
// it on a miss. A hit promotes the entry to most recently used. The snapshot
// is also memoized on v until its next mutation.
func (c *Cache) Bake(v *Vector) Baked {
	key := v.String()

	if b, ok := c.lookup(key); ok {
		v.baked = b
		return *b
	}

	// Compute outside the lock; scoring 4.0 vectors is not free.
	b := c.insert(key, newBaked(v))
	v.baked = b
	return *b
}

// Get returns the snapshot cached under a canonical vector string and
// promotes it.
func (c *Cache) Get(key string) (Baked, bool) {
	b, ok := c.lookup(key)
	if !ok {
		return Baked{}, false
	}
	return *b, true
}

func (c *Cache) lookup(key string) (*Baked, bool) {
	var b *Baked
	c.mu.Lock()
	el, ok := c.items[key]
	if ok {
		c.order.MoveToFront(el)
		b = el.Value.(*cacheEntry).baked
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	c.instruments.record(ok)
	return b, ok
}

// insert stores b under key unless a concurrent caller got there first, in
// which case the existing snapshot wins and is returned.
func (c *Cache) insert(key string, b *Baked) *Baked {
	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		existing := el.Value.(*cacheEntry).baked
		c.mu.Unlock()
		return existing
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, baked: b})
	evicted := 0
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
		evicted++
	}
	c.evictions += uint64(evicted)
	c.mu.Unlock()

	c.instruments.evicted(evicted)
	return b
}

// Contains reports whether key is cached without promoting it.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Keys returns the cached keys from most to least recently used.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*cacheEntry).key)
	}
	return keys
}

// Len returns the number of cached snapshots.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Capacity returns the maximum number of cached snapshots.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns a point-in-time view of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Len:       c.order.Len(),
		Capacity:  c.capacity,
	}
}

// Purge removes every entry and resets the counters.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order = list.New()
	c.hits, c.misses, c.evictions = 0, 0, 0
}

// cacheInstruments holds the OpenTelemetry counters of an instrumented cache.
type cacheInstruments struct {
	hits      otelmetric.Int64Counter
	misses    otelmetric.Int64Counter
	evictions otelmetric.Int64Counter
}

func newCacheInstruments(meter otelmetric.Meter) (*cacheInstruments, error) {
	inst := &cacheInstruments{}
	var err error

	inst.hits, err = meter.Int64Counter("cvss.cache.hits",
		otelmetric.WithDescription("Score cache lookups served from the cache"),
		otelmetric.WithUnit("1"))
	if err != nil {
		return nil, fmt.Errorf("create hits counter: %w", err)
	}

	inst.misses, err = meter.Int64Counter("cvss.cache.misses",
		otelmetric.WithDescription("Score cache lookups that computed a new snapshot"),
		otelmetric.WithUnit("1"))
	if err != nil {
		return nil, fmt.Errorf("create misses counter: %w", err)
	}

	inst.evictions, err = meter.Int64Counter("cvss.cache.evictions",
		otelmetric.WithDescription("Snapshots evicted as least recently used"),
		otelmetric.WithUnit("1"))
	if err != nil {
		return nil, fmt.Errorf("create evictions counter: %w", err)
	}

	return inst, nil
}

func (i *cacheInstruments) record(hit bool) {
	if i == nil {
		return
	}
	if hit {
		i.hits.Add(context.Background(), 1)
	} else {
		i.misses.Add(context.Background(), 1)
	}
}

func (i *cacheInstruments) evicted(n int) {
	if i == nil || n == 0 {
		return
	}
	i.evictions.Add(context.Background(), int64(n))
}
