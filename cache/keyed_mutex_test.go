package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex(t *testing.T) {
	t.Run("ExclusivePerKey", func(t *testing.T) {
		m := newKeyedMutex[string]()

		var running, maxRunning atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := m.lock("a")
				defer unlock()

				n := running.Add(1)
				for {
					current := maxRunning.Load()
					if n <= current || maxRunning.CompareAndSwap(current, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				running.Add(-1)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), maxRunning.Load())
		assert.Zero(t, m.size())
	})

	t.Run("IndependentKeys", func(t *testing.T) {
		m := newKeyedMutex[string]()

		unlockA := m.lock("a")
		defer unlockA()

		locked := make(chan struct{})
		go func() {
			unlockB := m.lock("b")
			unlockB()
			close(locked)
		}()

		select {
		case <-locked:
		case <-time.After(time.Second):
			t.Fatal("lock on b blocked behind a")
		}
		assert.Equal(t, 1, m.size())
	})
}
