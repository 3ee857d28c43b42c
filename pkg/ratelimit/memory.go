package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter is a per-process token bucket limiter used when Redis is not
// configured. Each client and route class refills at limit/window with a burst
// of limit.
type MemoryLimiter struct {
	config *Config
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter(config *Config) *MemoryLimiter {
	return &MemoryLimiter{
		config:  config,
		now:     time.Now,
		clients: make(map[string]*clientLimiter),
	}
}

func (m *MemoryLimiter) IsAllowed(_ context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	now := m.now()
	if result, ok := m.config.bypass(clientIP, limitType, now); ok {
		return result, nil
	}

	limit := m.config.getLimit(limitType)
	key := clientIP + ":" + string(limitType)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep(now)

	cl, ok := m.clients[key]
	if !ok {
		every := m.config.WindowDuration / time.Duration(max(limit, 1))
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Every(every), limit)}
		m.clients[key] = cl
	}
	cl.lastSeen = now

	allowed := cl.limiter.AllowN(now, 1)
	remaining := int(cl.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetTime: now.Add(m.config.WindowDuration).Unix(),
	}, nil
}

// sweep drops clients idle for a full window; a fresh bucket is equivalent.
func (m *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.config.WindowDuration {
		return
	}
	for key, cl := range m.clients {
		if now.Sub(cl.lastSeen) >= m.config.WindowDuration {
			delete(m.clients, key)
		}
	}
	m.lastSweep = now
}
