// Package stopwatch implements a pausable elapsed-time counter.
package stopwatch

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Stopwatch accumulates elapsed time across start/stop cycles. It is
// either idle or running, never both. The zero duration is returned
// until it is first started.
//
// Stopwatch is not safe for concurrent use; callers that share one
// (see pkg/lanes) must provide their own locking.
type Stopwatch struct {
	clock clockwork.Clock

	// since is the instant the watch was last started. Its zero value
	// means the watch is idle. time.Time carries a monotonic reading,
	// so wall-clock adjustments do not affect elapsed time.
	since       time.Time
	accumulated time.Duration
}

// New returns an idle, zeroed Stopwatch. A nil clock defaults to the
// real clock.
func New(clock clockwork.Clock) *Stopwatch {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Stopwatch{clock: clock}
}

// IsRunning reports whether the watch is currently counting.
func (s *Stopwatch) IsRunning() bool {
	return !s.since.IsZero()
}

// Start begins counting. Starting an already-running watch is a no-op:
// the original start instant is kept.
func (s *Stopwatch) Start() {
	if s.IsRunning() {
		return
	}
	s.since = s.clock.Now()
}

// Stop folds the time since Start into the accumulated total and goes
// idle. Stopping an idle watch is a no-op.
func (s *Stopwatch) Stop() {
	if !s.IsRunning() {
		return
	}
	s.accumulated += s.clock.Since(s.since)
	s.since = time.Time{}
}

// Clear zeroes the watch unconditionally. If the watch is running, the
// in-flight elapsed time is discarded.
func (s *Stopwatch) Clear() {
	s.since = time.Time{}
	s.accumulated = 0
}

// Elapsed returns the total counted time. It has no side effects.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.IsRunning() {
		return s.accumulated + s.clock.Since(s.since)
	}
	return s.accumulated
}
