package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryLive(t *testing.T) {
	now := time.Now()
	entry := newEntry(0, now)

	assert.True(t, entry.isLive(now.Add(time.Millisecond*9), time.Millisecond*10))
}

func TestEntryExpired(t *testing.T) {
	now := time.Now()
	entry := newEntry(0, now)

	assert.False(t, entry.isLive(now.Add(time.Millisecond*10), time.Millisecond*10))
	assert.False(t, entry.isLive(now.Add(time.Millisecond*11), time.Millisecond*10))
}

func TestEntryIsLiveDoesNotExtend(t *testing.T) {
	now := time.Now()
	entry := newEntry(0, now)

	assert.True(t, entry.isLive(now.Add(time.Millisecond*8), time.Millisecond*10))
	assert.False(t, entry.isLive(now.Add(time.Millisecond*12), time.Millisecond*10))
}

func TestEntryTouchExtends(t *testing.T) {
	now := time.Now()
	entry := newEntry(0, now)

	assert.True(t, entry.touch(now.Add(time.Millisecond*8), time.Millisecond*10))
	assert.True(t, entry.isLive(now.Add(time.Millisecond*12), time.Millisecond*10))
}

func TestEntryTouchExpired(t *testing.T) {
	now := time.Now()
	entry := newEntry(0, now)

	assert.False(t, entry.touch(now.Add(time.Millisecond*20), time.Millisecond*10))
	assert.Equal(t, now.UnixNano(), entry.lastAccess.Load())
}
