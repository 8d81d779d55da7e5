package httpserver

import "sync/atomic"

// limiter bounds the number of live connection handlers. TryAcquire never
// blocks: a saturated server must keep accepting sockets so it can answer
// 503 instead of leaving clients hanging in the TCP backlog.
type limiter struct {
	capacity int64
	active   atomic.Int64
}

func newLimiter(capacity int64) *limiter {
	return &limiter{capacity: capacity}
}

func (l *limiter) TryAcquire() bool {
	for {
		n := l.active.Load()
		if n >= l.capacity {
			return false
		}
		if l.active.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (l *limiter) Release() {
	l.active.Add(-1)
}

func (l *limiter) Active() int64 {
	return l.active.Load()
}
