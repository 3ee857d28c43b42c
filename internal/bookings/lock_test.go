package bookings

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLockRegistryExclusive(t *testing.T) {
	r := NewLockRegistry(0)
	key := LockKey{EventID: "e", SectionID: "s", RowID: "r"}

	lock, ok := r.TryAcquire(key)
	if !ok || lock == nil {
		t.Fatal("first acquire should succeed")
	}
	if lock.Key() != key {
		t.Errorf("Key() = %v, want %v", lock.Key(), key)
	}
	if _, ok := r.TryAcquire(key); ok {
		t.Fatal("second acquire should be refused")
	}
	if !r.Held(key) {
		t.Error("key should be held")
	}

	other := LockKey{EventID: "e", SectionID: "s", RowID: "r2"}
	if _, ok := r.TryAcquire(other); !ok {
		t.Error("a different row must not be blocked")
	}

	lock.Release()
	if r.Held(key) {
		t.Error("key should be free after release")
	}
	if _, ok := r.TryAcquire(key); !ok {
		t.Error("acquire after release should succeed")
	}
}

func TestLockReleaseIdempotent(t *testing.T) {
	r := NewLockRegistry(0)
	key := LockKey{EventID: "e", SectionID: "s", RowID: "r"}

	first, _ := r.TryAcquire(key)
	first.Release()
	first.Release()

	second, ok := r.TryAcquire(key)
	if !ok {
		t.Fatal("acquire after release should succeed")
	}
	// A late release of the old handle must not free the new holder.
	first.Release()
	if !r.Held(key) {
		t.Fatal("stale release freed the current holder")
	}
	second.Release()

	var nilLock *Lock
	nilLock.Release()
}

func TestLockLeaseExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewLockRegistry(30 * time.Second)
	r.now = func() time.Time { return now }
	key := LockKey{EventID: "e", SectionID: "s", RowID: "r"}

	leaked, ok := r.TryAcquire(key)
	if !ok {
		t.Fatal("acquire should succeed")
	}

	now = now.Add(29 * time.Second)
	if _, ok := r.TryAcquire(key); ok {
		t.Fatal("lease has not expired yet")
	}

	now = now.Add(time.Second)
	if r.Held(key) {
		t.Error("expired lease should not count as held")
	}
	fresh, ok := r.TryAcquire(key)
	if !ok {
		t.Fatal("expired lease should be taken over")
	}

	leaked.Release()
	if !r.Held(key) {
		t.Error("releasing the expired handle must not free the new lease")
	}
	fresh.Release()
	if r.Held(key) {
		t.Error("key should be free")
	}
}

func TestLockRegistryConcurrentAcquire(t *testing.T) {
	r := NewLockRegistry(0)
	key := LockKey{EventID: "e", SectionID: "s", RowID: "r"}

	start := make(chan struct{})
	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok := r.TryAcquire(key); ok {
				winners.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if winners.Load() != 1 {
		t.Fatalf("winners = %d, want 1", winners.Load())
	}
}

func TestLockCommitRefusesTakenOverLease(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewLockRegistry(30 * time.Second)
	r.now = func() time.Time { return now }
	key := LockKey{EventID: "e", SectionID: "s", RowID: "r"}

	stale, _ := r.TryAcquire(key)
	ran := 0
	if err := stale.Commit(func() error { ran++; return nil }); err != nil || ran != 1 {
		t.Fatalf("commit while owned: err = %v, ran = %d", err, ran)
	}

	// Expired but not yet taken over: the holder still owns the key.
	now = now.Add(time.Minute)
	if err := stale.Commit(func() error { ran++; return nil }); err != nil || ran != 2 {
		t.Fatalf("commit on unclaimed expired lease: err = %v, ran = %d", err, ran)
	}

	fresh, ok := r.TryAcquire(key)
	if !ok {
		t.Fatal("expired lease should be taken over")
	}
	if err := stale.Commit(func() error { ran++; return nil }); !errors.Is(err, ErrLockLost) {
		t.Fatalf("err = %v, want ErrLockLost", err)
	}
	if ran != 2 {
		t.Error("commit body ran for a taken-over lease")
	}
	if err := fresh.Commit(func() error { return nil }); err != nil {
		t.Errorf("current holder commit: %v", err)
	}

	fresh.Release()
	if err := fresh.Commit(func() error { return nil }); !errors.Is(err, ErrLockLost) {
		t.Errorf("commit after release: err = %v, want ErrLockLost", err)
	}
}
