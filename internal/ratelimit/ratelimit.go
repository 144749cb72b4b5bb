// Package ratelimit throttles API requests per client address.
//
// Each client gets a token bucket holding Max requests that refills at
// Max per Window, so a client may spend its whole budget at once and then has
// to wait for the window to drain back.
package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter keeps one rate.Limiter per client key.
type Limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	clients map[string]*client
	now     func() time.Time
}

// New returns a limiter allowing max requests per window per client.
// max <= 0 disables limiting.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

// Allow reports whether key may make a request now. When it may not, the
// returned duration says how long until it can.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	if l.max <= 0 {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	c, ok := l.clients[key]
	if !ok {
		c = &client{lim: rate.NewLimiter(rate.Every(l.window/time.Duration(l.max)), l.max)}
		l.clients[key] = c
	}
	c.seen = now
	l.mu.Unlock()

	r := c.lim.ReserveN(now, 1)
	if !r.OK() {
		return false, l.window
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}

// Sweep forgets clients idle for longer than idle.
func (l *Limiter) Sweep(idle time.Duration) int {
	cutoff := l.now().Add(-idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, c := range l.clients {
		if c.seen.Before(cutoff) {
			delete(l.clients, k)
			n++
		}
	}
	return n
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
// The key is the request's remote host; install chi's RealIP first when
// running behind a proxy.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := l.Allow(clientKey(r))
		if !ok {
			secs := int(wait.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limited"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
