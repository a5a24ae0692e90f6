package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterItem is one client's token bucket and when it was last used
type limiterItem struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Store keeps a token bucket per client key. Buckets idle for longer than one window are evicted.
type Store struct {
	data   map[string]*limiterItem
	mutex  sync.Mutex
	limit  rate.Limit
	burst  int
	window time.Duration
	now    func() time.Time
	stop   chan struct{}
	once   sync.Once
}

// NewStore allows each client `requests` requests per `window`, all of which may be spent at once.
func NewStore(requests int, window time.Duration) *Store {
	s := newStore(requests, window, time.Now)

	// Start cleanup goroutine to evict idle clients every window
	go s.cleanupIdle()

	return s
}

func newStore(requests int, window time.Duration, now func() time.Time) *Store {
	return &Store{
		data:   make(map[string]*limiterItem),
		limit:  rate.Limit(float64(requests) / window.Seconds()),
		burst:  requests,
		window: window,
		now:    now,
		stop:   make(chan struct{}),
	}
}

// Allow consumes one token for key and reports whether the request may proceed.
func (s *Store) Allow(key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	item, exists := s.data[key]
	if !exists {
		item = &limiterItem{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.data[key] = item
	}
	item.lastSeen = now

	return item.limiter.AllowN(now, 1)
}

// RetryAfter estimates how long key must wait for its next token.
func (s *Store) RetryAfter(key string) time.Duration {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	item, exists := s.data[key]
	if !exists {
		return 0
	}
	now := s.now()
	tokens := item.limiter.TokensAt(now)
	if tokens >= 1 || s.limit <= 0 {
		return 0
	}
	return time.Duration((1 - tokens) / float64(s.limit) * float64(time.Second))
}

// Limit reports the per-window request budget.
func (s *Store) Limit() int {
	return s.burst
}

// Size returns the number of tracked clients
func (s *Store) Size() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.data)
}

// Close stops the cleanup goroutine.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

// evictIdle drops clients not seen for a full window; their bucket would be full again anyway.
func (s *Store) evictIdle() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := s.now().Add(-s.window)
	for key, item := range s.data {
		if item.lastSeen.Before(cutoff) {
			delete(s.data, key)
		}
	}
}

// cleanupIdle removes idle clients from the store periodically
func (s *Store) cleanupIdle() {
	ticker := time.NewTicker(s.window)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictIdle()
		}
	}
}
