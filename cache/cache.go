package cache

import (
	"time"

	"github.com/benbjohnson/clock"
	csmap "github.com/mhmtszr/concurrent-swiss-map"
)

type Option[K any, V any] func(c *Cache[K, V])

// Observer receives the cache's lifecycle events. Implementations must be
// safe for concurrent use and must not block.
type Observer interface {
	// Hit is called when a live entry answered a Get without loading.
	Hit()

	// Miss is called when a Get has to invoke the loader.
	Miss()

	// Loaded is called after the loader returned; present reports whether it
	// produced a value and err carries its failure, if any.
	Loaded(present bool, err error)

	// Swept is called after a sweep with the number of removed entries.
	Swept(removed int)
}

type noopObserver struct{}

func (noopObserver) Hit()               {}
func (noopObserver) Miss()              {}
func (noopObserver) Loaded(bool, error) {}
func (noopObserver) Swept(int)          {}

// Cache is a read-through cache whose entries expire after a fixed period
// without access. Expired entries are removed lazily: on the Get that finds
// them and by a full sweep every few Get calls.
type Cache[K any, V any] struct {
	data        *csmap.CsMap[string, *entry[V]]
	expireAfter time.Duration
	clock       clock.Clock
	fingerprint FingerprintFunc[K]
	cleaner     *cleaner
	loadMutex   *keyedMutex[string]
	observer    Observer
}

// New creates a cache whose entries live for expireAfter after their last
// successful access.
func New[K any, V any](expireAfter time.Duration, options ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		data:        csmap.Create[string, *entry[V]](),
		expireAfter: expireAfter,
		clock:       clock.New(),
		fingerprint: DefaultFingerprint[K],
		cleaner:     newCleaner(DefaultCleanInterval),
		observer:    noopObserver{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Count returns the number of stored entries, including expired entries that
// have not been swept yet.
func (c *Cache[K, V]) Count() int {
	return c.data.Count()
}

// Close drops every entry.
func (c *Cache[K, V]) Close() {
	keys := make([]string, 0, c.data.Count())
	c.data.Range(func(key string, _ *entry[V]) (stop bool) {
		keys = append(keys, key)
		return false
	})
	for _, key := range keys {
		c.data.Delete(key)
	}
}

// Replaces the wall clock, mostly useful for tests.
func WithClock[K any, V any](clk clock.Clock) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.clock = clk
	}
}

// Replaces DefaultFingerprint.
func WithFingerprint[K any, V any](fn FingerprintFunc[K]) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.fingerprint = fn
	}
}

// Sets how many Get calls happen between two sweeps.
func WithCleanInterval[K any, V any](interval int) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.cleaner = newCleaner(interval)
	}
}

func WithObserver[K any, V any](observer Observer) Option[K, V] {
	return func(c *Cache[K, V]) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// Lets at most one loader run per key. Callers arriving while a load is in
// flight wait for it and are answered from the freshly stored entry.
func WithSerializedLoads[K any, V any]() Option[K, V] {
	return func(c *Cache[K, V]) {
		c.loadMutex = newKeyedMutex[string]()
	}
}

func (c *Cache[K, V]) clean() {
	now := c.clock.Now()

	keys := make([]string, 0)
	c.data.Range(func(key string, e *entry[V]) (stop bool) {
		if !e.isLive(now, c.expireAfter) {
			keys = append(keys, key)
		}
		return false
	})
	for _, key := range keys {
		c.data.Delete(key)
	}

	c.observer.Swept(len(keys))
}
