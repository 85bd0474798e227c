package server

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// janitor runs a housekeeping callback on a fixed interval in the background.
type janitor struct {
	cancel  context.CancelFunc
	stopped chan struct{}
}

// startJanitor calls run every interval until stop is called or ctx ends.
// interval must be positive.
func startJanitor(ctx context.Context, clk clock.Clock, interval time.Duration, run func()) *janitor {
	ctx, cancel := context.WithCancel(ctx)
	j := &janitor{
		cancel:  cancel,
		stopped: make(chan struct{}),
	}

	ticker := clk.Ticker(interval)
	go func() {
		defer close(j.stopped)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				run()
			case <-ctx.Done():
				return
			}
		}
	}()
	return j
}

// stop ends the loop and waits for a running callback to return. Calling it
// more than once is fine.
func (j *janitor) stop() {
	j.cancel()
	<-j.stopped
}
