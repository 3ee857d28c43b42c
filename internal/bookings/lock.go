package bookings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/HemangKanojiya20/event-ticket-booking/pkg/logger"
)

// LockKey identifies a single row of a single event.
type LockKey struct {
	EventID   string
	SectionID string
	RowID     string
}

func (k LockKey) String() string {
	return k.EventID + ":" + k.SectionID + ":" + k.RowID
}

// LockRegistry hands out exclusive, non-blocking locks per row. A caller that
// cannot acquire a key is refused immediately; there is no queue.
//
// A non-zero lease bounds how long a lock may be held. Once a lease has
// expired the key counts as free for the next TryAcquire, so a lock that was
// never released cannot make its row permanently unbookable. The lease gives
// up strict exclusivity for liveness: a holder that outlives its lease may
// overlap with the next one. Writes made through Commit stay exclusive, since
// a holder that has been taken over is refused there.
type LockRegistry struct {
	mu    sync.Mutex
	held  map[LockKey]lease
	next  uint64
	lease time.Duration
	now   func() time.Time
}

type lease struct {
	token      uint64
	acquiredAt time.Time
}

// Lock is the handle returned by a successful TryAcquire.
type Lock struct {
	registry *LockRegistry
	key      LockKey
	token    uint64
	once     sync.Once
}

// NewLockRegistry creates a registry; leaseTTL <= 0 disables lease expiry.
func NewLockRegistry(leaseTTL time.Duration) *LockRegistry {
	return &LockRegistry{
		held:  make(map[LockKey]lease),
		lease: leaseTTL,
		now:   time.Now,
	}
}

// TryAcquire marks key busy and returns its lock iff the key was free.
func (r *LockRegistry) TryAcquire(key LockKey) (*Lock, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if current, busy := r.held[key]; busy {
		if !r.expired(current, now) {
			return nil, false
		}
		logger.GetDefault().LogLockLeaseExpired(context.Background(), key.String(), now.Sub(current.acquiredAt))
	}

	r.next++
	r.held[key] = lease{token: r.next, acquiredAt: now}
	return &Lock{registry: r, key: key, token: r.next}, true
}

// Held reports whether key is currently locked by a live lease.
func (r *LockRegistry) Held(key LockKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, busy := r.held[key]
	return busy && !r.expired(current, r.now())
}

func (r *LockRegistry) expired(l lease, now time.Time) bool {
	return r.lease > 0 && now.Sub(l.acquiredAt) >= r.lease
}

// release frees key only if it is still held under token.
func (r *LockRegistry) release(key LockKey, token uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, busy := r.held[key]; busy && current.token == token {
		delete(r.held, key)
	}
}

// ErrLockLost is returned by Commit when the handle no longer owns its key,
// either because it was released or because its lease was taken over.
var ErrLockLost = errors.New("row lock lost")

// Commit runs fn while the registry confirms this handle still owns its key.
// fn must be short; it runs under the registry mutex.
func (l *Lock) Commit(fn func() error) error {
	r := l.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, busy := r.held[l.key]; !busy || current.token != l.token {
		return ErrLockLost
	}
	return fn()
}

// Key returns the row this lock guards.
func (l *Lock) Key() LockKey {
	return l.key
}

// Release frees the lock. It is safe to call more than once and never frees
// a key that has since been acquired by another holder.
func (l *Lock) Release() {
	if l == nil {
		return
	}
	l.once.Do(func() {
		l.registry.release(l.key, l.token)
	})
}
