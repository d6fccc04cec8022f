package fixtures

import "sync/atomic"

// Latest hands out monotonically increasing request tokens and remembers the
// newest token whose result was applied. A response is stale only when a
// later request has already been applied, so a failed newer request never
// blocks an older good one.
type Latest struct {
	seq     atomic.Uint64
	applied atomic.Uint64
}

// Begin issues a new token.
func (l *Latest) Begin() uint64 {
	return l.seq.Add(1)
}

// Commit marks token as applied. It reports false when a newer token was
// applied first.
func (l *Latest) Commit(token uint64) bool {
	for {
		cur := l.applied.Load()
		if token < cur {
			return false
		}
		if l.applied.CompareAndSwap(cur, token) {
			return true
		}
	}
}
