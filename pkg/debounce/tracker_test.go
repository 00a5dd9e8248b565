package debounce

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/archerhq/shotclock/pkg/input"
	"github.com/archerhq/shotclock/pkg/lanes"
)

// recorder captures the commands the tracker issues. The channel is
// big enough that the tracker never blocks on it.
type recorder struct {
	ch chan string
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan string, 16)}
}

func (r *recorder) StartLane(side lanes.Side) { r.ch <- "start " + side.String() }
func (r *recorder) ResetAll()                 { r.ch <- "reset" }

func (r *recorder) expect(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-r.ch:
		if got != want {
			t.Fatalf("expected command %q, got %q", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for command %q", want)
	}
}

func (r *recorder) expectNone(t *testing.T) {
	t.Helper()
	select {
	case got := <-r.ch:
		t.Fatalf("expected no command, got %q", got)
	default:
	}
}

// harness runs a tracker on a fake clock. Sends on events are
// unbuffered, so a completed send means the previous dispatch has
// fully finished; settle exploits that to synchronize with the loop by
// sending a duplicate (ignored) level.
type harness struct {
	t      *testing.T
	clk    *clockwork.FakeClock
	rec    *recorder
	events chan input.Event
	levels map[lanes.Side]bool
	cancel context.CancelFunc
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clk := clockwork.NewFakeClock()
	rec := newRecorder()
	tr := NewTracker(rec, Options{Clock: clk})

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan input.Event)
	go tr.Run(ctx, events)
	t.Cleanup(cancel)

	return &harness{
		t:      t,
		clk:    clk,
		rec:    rec,
		events: events,
		levels: map[lanes.Side]bool{},
		cancel: cancel,
	}
}

func (h *harness) send(side lanes.Side, pressed bool) {
	h.t.Helper()
	h.events <- input.Event{Side: side, Pressed: pressed}
	h.levels[side] = pressed
}

// settle waits until the tracker has finished its previous dispatch by
// feeding it an event it is guaranteed to ignore.
func (h *harness) settle() {
	h.t.Helper()
	h.events <- input.Event{Side: lanes.Left, Pressed: h.levels[lanes.Left]}
}

// advance waits for the expected number of armed timers, then moves
// the fake clock.
func (h *harness) advance(d time.Duration, timers int) {
	h.t.Helper()
	h.clk.BlockUntil(timers)
	h.clk.Advance(d)
}

// waitTimers blocks until the tracker has the given number of timers
// armed. Used as a barrier after a tick fires: the fired timer is gone
// from the clock, so the count is reached only once the tick has been
// dispatched and the follow-up timer armed.
func (h *harness) waitTimers(n int) {
	h.t.Helper()
	h.clk.BlockUntil(n)
}

func TestSingleTapStartsLane(t *testing.T) {
	h := newHarness(t)

	h.send(lanes.Left, true)
	h.advance(DefaultDebounceWindow, 1)
	h.rec.expect(t, "start left")

	// Releasing the button produces no further command.
	h.send(lanes.Left, false)
	h.advance(DefaultDebounceWindow, 1)
	h.settle()
	h.rec.expectNone(t)
}

func TestRightTap(t *testing.T) {
	h := newHarness(t)

	h.send(lanes.Right, true)
	h.advance(DefaultDebounceWindow, 1)
	h.rec.expect(t, "start right")
	h.rec.expectNone(t)
}

func TestBounceCoalescesToOneCommand(t *testing.T) {
	h := newHarness(t)

	// Contact chatter: alternating levels faster than the debounce
	// window. Every change restarts the window.
	for i := 0; i < 4; i++ {
		h.send(lanes.Left, true)
		h.advance(5*time.Millisecond, 1)
		h.send(lanes.Left, false)
		h.advance(5*time.Millisecond, 1)
	}
	h.send(lanes.Left, true)
	h.advance(DefaultDebounceWindow, 1)

	h.rec.expect(t, "start left")
	h.settle()
	h.rec.expectNone(t)
}

func TestDuplicateLevelsDoNotRestartWindow(t *testing.T) {
	h := newHarness(t)

	h.send(lanes.Left, true)
	h.advance(20*time.Millisecond, 1)
	// Same level again, e.g. from a redundant source: ignored, so the
	// original deadline stands.
	h.send(lanes.Left, true)
	h.advance(5*time.Millisecond, 1)

	h.rec.expect(t, "start left")
}

func TestHoldBothResets(t *testing.T) {
	h := newHarness(t)

	h.send(lanes.Left, true)
	h.send(lanes.Right, true)
	h.advance(DefaultDebounceWindow, 1)

	// Tick resolved to (true, true): the hold countdown is armed but
	// nothing has been commanded yet.
	h.settle()
	h.rec.expectNone(t)

	h.advance(DefaultHoldWindow, 1)
	h.rec.expect(t, "reset")
	h.settle()
	h.rec.expectNone(t)
}

func TestReleaseAfterResetDoesNotStartLane(t *testing.T) {
	h := newHarness(t)

	h.send(lanes.Left, true)
	h.send(lanes.Right, true)
	h.advance(DefaultDebounceWindow, 1)
	h.advance(DefaultHoldWindow, 1)
	h.rec.expect(t, "reset")

	// Buttons released one at a time. The (false, true) tick must be
	// suppressed by the latch.
	h.send(lanes.Left, false)
	h.advance(DefaultDebounceWindow, 1)
	h.settle()
	h.rec.expectNone(t)

	h.send(lanes.Right, false)
	h.advance(DefaultDebounceWindow, 1)
	h.settle()
	h.rec.expectNone(t)

	// Both read released; decisions are possible again.
	h.send(lanes.Right, true)
	h.advance(DefaultDebounceWindow, 1)
	h.rec.expect(t, "start right")
}

func TestSingleLaneReleaseCancelsHold(t *testing.T) {
	h := newHarness(t)

	h.send(lanes.Left, true)
	h.send(lanes.Right, true)
	h.advance(DefaultDebounceWindow, 1)
	h.waitTimers(1) // hold countdown armed

	// Right released before the hold window: the tick resolves to
	// (true, false), cancels the countdown, and starts the left lane.
	h.send(lanes.Right, false)
	h.advance(DefaultDebounceWindow, 2)
	h.rec.expect(t, "start left")

	// Long after the original hold deadline: no reset ever fires. No
	// timers are armed anymore, so advance directly.
	h.clk.Advance(2 * DefaultHoldWindow)
	h.settle()
	h.rec.expectNone(t)
}

func TestBounceDuringHoldRestartsCountdown(t *testing.T) {
	h := newHarness(t)

	h.send(lanes.Left, true)
	h.send(lanes.Right, true)
	h.advance(DefaultDebounceWindow, 1)
	h.waitTimers(1) // hold countdown armed

	h.advance(2*time.Second, 1)

	// Left bounces but settles held again; the tick re-resolves to
	// (true, true) and re-arms a fresh hold countdown.
	h.send(lanes.Left, false)
	h.send(lanes.Left, true)
	h.advance(DefaultDebounceWindow, 2)
	h.settle()
	h.rec.expectNone(t)

	// The old deadline (1s away at this point) must not fire.
	h.advance(DefaultHoldWindow-time.Second, 1)
	h.settle()
	h.rec.expectNone(t)

	h.advance(time.Second, 1)
	h.rec.expect(t, "reset")
}

func TestTapAfterResetCycle(t *testing.T) {
	h := newHarness(t)

	// Full gesture cycle: reset, release both, then a normal tap.
	h.send(lanes.Left, true)
	h.send(lanes.Right, true)
	h.advance(DefaultDebounceWindow, 1)
	h.advance(DefaultHoldWindow, 1)
	h.rec.expect(t, "reset")

	h.send(lanes.Left, false)
	h.send(lanes.Right, false)
	h.advance(DefaultDebounceWindow, 1)
	h.settle()
	h.rec.expectNone(t)

	h.send(lanes.Left, true)
	h.advance(DefaultDebounceWindow, 1)
	h.rec.expect(t, "start left")
}
