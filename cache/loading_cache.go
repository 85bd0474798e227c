package cache

import (
	"context"
	"fmt"

	"github.com/samber/mo"
)

// LoaderFunc produces the value for a key that is missing or expired.
//
// Returning mo.None means there is no value right now; nothing is cached and
// the next Get for the key calls the loader again. Errors are returned from
// Get unchanged and are not cached either.
type LoaderFunc[K any, V any] func(ctx context.Context, key K) (mo.Option[V], error)

// Get returns the live cached value for key, or loads it with loader.
//
// A hit moves the entry's expiry forward. A miss removes whatever was stored
// for key before the loader runs, so a failed or absent reload leaves the key
// uncached.
//
// Without WithSerializedLoads concurrent misses on the same key each run the
// loader and the last one to finish wins.
func (c *Cache[K, V]) Get(ctx context.Context, key K, loader LoaderFunc[K, V]) (mo.Option[V], error) {
	if c.cleaner.tick() {
		c.clean()
	}

	fingerprint, err := c.fingerprint(key)
	if err != nil {
		return mo.None[V](), fmt.Errorf("%w: %w", ErrFingerprint, err)
	}

	if value, ok := c.hit(fingerprint); ok {
		return mo.Some(value), nil
	}

	if c.loadMutex != nil {
		unlock := c.loadMutex.lock(fingerprint)
		defer unlock()

		if value, ok := c.hit(fingerprint); ok {
			return mo.Some(value), nil
		}
	}

	c.observer.Miss()
	c.data.Delete(fingerprint)

	result, err := loader(ctx, key)
	if err != nil {
		c.observer.Loaded(false, err)
		return mo.None[V](), err
	}

	value, present := result.Get()
	c.observer.Loaded(present, nil)
	if !present {
		return mo.None[V](), nil
	}

	c.data.Store(fingerprint, newEntry(value, c.clock.Now()))
	return mo.Some(value), nil
}

func (c *Cache[K, V]) hit(fingerprint string) (V, bool) {
	e, found := c.data.Load(fingerprint)
	if !found || !e.touch(c.clock.Now(), c.expireAfter) {
		var empty V
		return empty, false
	}
	c.observer.Hit()
	return e.value, true
}

// Function that can be used inside a testing environment
func NoopLoaderFunc[K any, V any](context.Context, K) (mo.Option[V], error) {
	return mo.None[V](), nil
}
