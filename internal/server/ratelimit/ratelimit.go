// Package ratelimit provides per-client request rate limiting for the HTTP API.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info reports the rate limit status of a request for response headers.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter tracks a token bucket per client and endpoint. Buckets for idle
// clients are dropped by a background cleanup goroutine.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	config  *Config
	stop    chan struct{}
}

// NewLimiter creates a rate limiter from config. A nil config means limiting
// is disabled.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{Enabled: false}
	}

	l := &Limiter{
		clients: make(map[string]*client),
		config:  config,
		stop:    make(chan struct{}),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow reports whether the client may make this request, consuming one token
// if so.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	perMinute := l.config.DefaultPerMinute
	burst := l.config.DefaultBurst
	key := clientID + " " + method + " " + path
	if ep, ok := l.config.match(path, method); ok {
		if ep.PerMinute <= 0 {
			return true, Info{Allowed: true}
		}
		perMinute = ep.PerMinute
		burst = ep.Burst
		key = clientID + " " + ep.Method + " " + ep.Path
	}
	if burst <= 0 {
		burst = perMinute
	}

	bucket := l.bucket(key, perMinute, burst)
	allowed := bucket.Allow()

	info := Info{
		Allowed:   allowed,
		Limit:     perMinute,
		Remaining: int(bucket.Tokens()),
	}
	if !allowed {
		info.Remaining = 0
		info.RetryAfter = time.Minute / time.Duration(perMinute)
	}
	return allowed, info
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	close(l.stop)
}

func (l *Limiter) bucket(key string, perMinute, burst int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)}
		l.clients[key] = c
	}
	c.lastSeen = time.Now()
	return c.limiter
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.removeIdle(3 * interval)
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) removeIdle(maxIdle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for key, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}
