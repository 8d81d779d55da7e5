package httpserver

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestLimiterSequential(t *testing.T) {
	l := newLimiter(2)

	if !l.TryAcquire() || !l.TryAcquire() {
		t.Fatal("expected two acquisitions to succeed")
	}
	if l.TryAcquire() {
		t.Fatal("third acquisition should fail at capacity 2")
	}

	l.Release()
	if !l.TryAcquire() {
		t.Fatal("acquisition after release should succeed")
	}

	l.Release()
	l.Release()
	if l.Active() != 0 {
		t.Errorf("expected 0 active, got %d", l.Active())
	}
}

func TestLimiterNeverOvershoots(t *testing.T) {
	const capacity = 8
	l := newLimiter(capacity)

	var wg sync.WaitGroup
	var overshoot atomic.Bool
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if !l.TryAcquire() {
					continue
				}
				if l.Active() > capacity {
					overshoot.Store(true)
				}
				l.Release()
			}
		}()
	}
	wg.Wait()

	if overshoot.Load() {
		t.Error("active count exceeded capacity under contention")
	}
	if l.Active() != 0 {
		t.Errorf("expected 0 active after release, got %d", l.Active())
	}
}
