package daemon

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/archerhq/shotclock/pkg/events"
	"github.com/archerhq/shotclock/pkg/lanes"
)

// fakeSnapshotter scripts TrySnapshot results.
type fakeSnapshotter struct {
	snap lanes.Snapshot
	ok   atomic.Bool
}

func (f *fakeSnapshotter) TrySnapshot() (lanes.Snapshot, bool) {
	return f.snap, f.ok.Load()
}

func TestRefresherPublishesSnapshots(t *testing.T) {
	clk := clockwork.NewFakeClock()
	h := events.NewHub()
	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	src := &fakeSnapshotter{
		snap: lanes.Snapshot{Left: 125 * time.Second, LeftRunning: true},
	}
	src.ok.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runRefresher(ctx, clk, src, h)

	clk.BlockUntil(1)
	clk.Advance(refreshInterval)

	select {
	case ev := <-sub:
		if ev.Name != events.LanesSnapshot {
			t.Fatalf("unexpected event name %q", ev.Name)
		}
		payload, err := events.DecodeAs[events.SnapshotEvent](ev)
		if err != nil {
			t.Fatalf("failed to decode snapshot: %v", err)
		}
		if payload.LeftText != "02:05" || !payload.LeftRunning {
			t.Fatalf("unexpected payload: %+v", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for snapshot event")
	}
}

func TestRefresherSkipsContendedTicks(t *testing.T) {
	clk := clockwork.NewFakeClock()
	h := events.NewHub()
	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	src := &fakeSnapshotter{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runRefresher(ctx, clk, src, h)

	clk.BlockUntil(1)
	clk.Advance(refreshInterval)

	// Contended tick: nothing published.
	select {
	case ev := <-sub:
		t.Fatalf("contended tick should publish nothing, got %q", ev.Name)
	case <-time.After(50 * time.Millisecond):
	}

	// Flip to uncontended and make sure the loop is still alive.
	src.ok.Store(true)
	clk.BlockUntil(1)
	clk.Advance(refreshInterval)

	select {
	case ev := <-sub:
		if ev.Name != events.LanesSnapshot {
			t.Fatalf("unexpected event name %q", ev.Name)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for post-skip snapshot")
	}
}
