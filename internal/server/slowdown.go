package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/booky10/modrinth-downloader/internal/config"
)

// slowDown delays clients that send many requests within a fixed window.
// The first DelayAfter requests of a window pass untouched; request n after
// that waits n * DelayStep, capped at MaxDelay when one is set.
type slowDown struct {
	cfg     config.SlowDownConfig
	clock   clock.Clock
	mu      sync.Mutex
	windows map[string]*window
	janitor *janitor
}

type window struct {
	hits    int
	resetAt time.Time
}

func newSlowDown(ctx context.Context, cfg config.SlowDownConfig, clk clock.Clock) *slowDown {
	s := &slowDown{
		cfg:     cfg,
		clock:   clk,
		windows: make(map[string]*window),
	}
	s.janitor = startJanitor(ctx, clk, cfg.Window, s.prune)
	return s
}

// hit counts a request from client and returns how long it has to wait.
func (s *slowDown) hit(client string) time.Duration {
	now := s.clock.Now()

	s.mu.Lock()
	w, found := s.windows[client]
	if !found || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(s.cfg.Window)}
		s.windows[client] = w
	}
	w.hits++
	hits := w.hits
	s.mu.Unlock()

	if hits <= s.cfg.DelayAfter {
		return 0
	}
	delay := time.Duration(hits) * s.cfg.DelayStep
	if s.cfg.MaxDelay > 0 && delay > s.cfg.MaxDelay {
		delay = s.cfg.MaxDelay
	}
	return delay
}

func (s *slowDown) prune() {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for client, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, client)
		}
	}
}

func (s *slowDown) tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

func (s *slowDown) stop() {
	s.janitor.stop()
}

func (s *slowDown) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay := s.hit(clientIP(r)); delay > 0 {
			timer := s.clock.Timer(delay)
			select {
			case <-timer.C:
			case <-r.Context().Done():
				timer.Stop()
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
