// Package debounce turns noisy raw button levels into clean lane
// commands: tap left, tap right, or hold both to reset, with contact
// bounce absorbed.
package debounce

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/archerhq/shotclock/pkg/input"
	"github.com/archerhq/shotclock/pkg/lanes"
)

// Commander receives the tracker's decisions. Implemented by
// lanes.Controller.
type Commander interface {
	StartLane(side lanes.Side)
	ResetAll()
}

const (
	// DefaultDebounceWindow is how long levels must be stable before a
	// decision is made. Every raw change restarts it.
	DefaultDebounceWindow = 25 * time.Millisecond
	// DefaultHoldWindow is how long both buttons must stay held before
	// the reset gesture commits.
	DefaultHoldWindow = 3 * time.Second
)

// Options configures a Tracker.
type Options struct {
	Clock          clockwork.Clock
	DebounceWindow time.Duration
	HoldWindow     time.Duration
}

// Tracker is the button state machine. All state is owned by the
// single goroutine running Run, so there is no locking here: raw
// events and timer firings are dispatched strictly one at a time.
//
// The two timer slots work as deadlines, not resources: re-arming a
// slot replaces the timer wholesale, so a superseded deadline's firing
// is simply never selected on.
type Tracker struct {
	cmds  Commander
	clock clockwork.Clock

	debounceWindow time.Duration
	holdWindow     time.Duration

	levels [2]bool

	// tick fires once the levels have been stable for the debounce
	// window. nil when idle.
	tick clockwork.Timer
	// reset fires once both buttons have been held for the hold
	// window. nil when idle.
	reset clockwork.Timer
	// latch suppresses decisions between a fired reset and the moment
	// both buttons read released again. Without it, releasing the two
	// held buttons one at a time would look like a single-lane press.
	latch bool
}

func NewTracker(cmds Commander, opts Options) *Tracker {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = DefaultDebounceWindow
	}
	if opts.HoldWindow <= 0 {
		opts.HoldWindow = DefaultHoldWindow
	}
	return &Tracker{
		cmds:           cmds,
		clock:          opts.Clock,
		debounceWindow: opts.DebounceWindow,
		holdWindow:     opts.HoldWindow,
	}
}

// Run consumes raw events until the context is canceled or the event
// channel closes. Exactly one input (raw level, tick deadline, or
// reset deadline) is processed per wake-up.
func (t *Tracker) Run(ctx context.Context, events <-chan input.Event) {
	defer t.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			t.update(ev.Side, ev.Pressed)
		case <-t.tickChan():
			t.tick = nil
			t.onTick()
		case <-t.resetChan():
			t.reset = nil
			t.onReset()
		}
	}
}

// tickChan returns nil when no tick deadline is armed, which makes
// that select arm block forever.
func (t *Tracker) tickChan() <-chan time.Time {
	if t.tick == nil {
		return nil
	}
	return t.tick.Chan()
}

func (t *Tracker) resetChan() <-chan time.Time {
	if t.reset == nil {
		return nil
	}
	return t.reset.Chan()
}

// update records a raw level. Duplicate levels are ignored, which also
// makes redundant sources harmless. Any real change restarts the
// debounce window; the reset deadline, if armed, keeps running.
func (t *Tracker) update(side lanes.Side, pressed bool) {
	if t.levels[side] == pressed {
		return
	}
	t.levels[side] = pressed
	logrus.Debugf("%s button set to %t", side, pressed)

	if t.tick != nil {
		t.tick.Stop()
	}
	t.tick = t.clock.NewTimer(t.debounceWindow)
}

// onTick runs when the levels have been stable for the full debounce
// window and commits a decision for the combined state.
func (t *Tracker) onTick() {
	left, right := t.levels[lanes.Left], t.levels[lanes.Right]
	logrus.Debugf("ticking on (%t, %t)", left, right)

	switch {
	case left && right && !t.latch:
		// Both held: (re)start the hold countdown, touch nothing yet.
		if t.reset != nil {
			t.reset.Stop()
		}
		t.reset = t.clock.NewTimer(t.holdWindow)
	case left && !right && !t.latch:
		t.clearReset()
		t.cmds.StartLane(lanes.Left)
	case right && !left && !t.latch:
		t.clearReset()
		t.cmds.StartLane(lanes.Right)
	case !left && !right:
		// Both released: eligible for decisions again.
		t.latch = false
	}
}

// onReset runs when both buttons stayed held for the full hold window.
// The buttons are usually still physically depressed at this point, so
// the latch blocks everything until both read released.
func (t *Tracker) onReset() {
	t.latch = true
	t.cmds.ResetAll()
}

func (t *Tracker) clearReset() {
	if t.reset == nil {
		return
	}
	t.reset.Stop()
	t.reset = nil
}

func (t *Tracker) stopTimers() {
	if t.tick != nil {
		t.tick.Stop()
		t.tick = nil
	}
	t.clearReset()
}
