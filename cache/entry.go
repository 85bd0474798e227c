package cache

import (
	"sync/atomic"
	"time"
)

type entry[V any] struct {
	value      V
	lastAccess atomic.Int64
}

func newEntry[V any](value V, now time.Time) *entry[V] {
	e := &entry[V]{value: value}
	e.lastAccess.Store(now.UnixNano())
	return e
}

// isLive reports whether the entry is still within its expiry window at now.
// It never extends the entry's life.
func (e *entry[V]) isLive(now time.Time, expireAfter time.Duration) bool {
	expiry := time.Unix(0, e.lastAccess.Load()).Add(expireAfter)
	return now.Before(expiry)
}

// touch checks liveness and, if the entry is live, moves lastAccess to now.
func (e *entry[V]) touch(now time.Time, expireAfter time.Duration) bool {
	if !e.isLive(now, expireAfter) {
		return false
	}
	e.lastAccess.Store(now.UnixNano())
	return true
}
