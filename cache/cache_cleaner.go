package cache

import "sync/atomic"

// DefaultCleanInterval is the number of Get calls between two sweeps.
const DefaultCleanInterval = 30

// cleaner amortizes the removal of expired entries over Get calls instead of
// running a background goroutine.
type cleaner struct {
	interval  int32
	remaining atomic.Int32
}

func newCleaner(interval int) *cleaner {
	if interval <= 0 {
		interval = DefaultCleanInterval
	}
	c := &cleaner{interval: int32(interval)}
	c.remaining.Store(c.interval)
	return c
}

// tick counts one operation down and reports whether a sweep is due.
func (c *cleaner) tick() bool {
	if c.remaining.Add(-1) > 0 {
		return false
	}
	c.remaining.Store(c.interval)
	return true
}
