// pkg/memcache/inflight.go
package mem

import (
	"sync"
	"time"
)

type InflightStore interface {
	// Acquire marks key as busy for at most ttl. It returns false if the key
	// is already held and not expired.
	Acquire(key string, ttl time.Duration) bool

	Release(key string)

	Held(key string) bool
}

type InflightGuard struct {
	mu   sync.Mutex
	data map[string]time.Time
	now  func() time.Time
}

func NewInflightGuard() *InflightGuard {
	return &InflightGuard{
		data: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (g *InflightGuard) Acquire(key string, ttl time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if expiresAt, ok := g.data[key]; ok && now.Before(expiresAt) {
		return false
	}
	g.data[key] = now.Add(ttl)
	return true
}

func (g *InflightGuard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.data, key)
}

func (g *InflightGuard) Held(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	expiresAt, ok := g.data[key]
	if !ok {
		return false
	}
	if !g.now().Before(expiresAt) {
		delete(g.data, key) // cleanup expired
		return false
	}
	return true
}
