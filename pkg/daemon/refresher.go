package daemon

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/archerhq/shotclock/pkg/events"
	"github.com/archerhq/shotclock/pkg/lanes"
)

// refreshInterval is the display update cadence.
const refreshInterval = 100 * time.Millisecond

// snapshotter is what the refresher needs from the lane controller.
type snapshotter interface {
	TrySnapshot() (lanes.Snapshot, bool)
}

// runRefresher publishes a lane snapshot to the hub at a fixed
// cadence. The read is best-effort: if the lane lock is held right
// now, this tick is skipped rather than blocking the presentation
// path; the next tick comes soon enough.
func runRefresher(ctx context.Context, clock clockwork.Clock, src snapshotter, hub *events.Hub) {
	ticker := clock.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}

		snap, ok := src.TrySnapshot()
		if !ok {
			continue
		}
		hub.Publish(events.LanesSnapshot, snapshotEvent(snap))
	}
}

func snapshotEvent(snap lanes.Snapshot) events.SnapshotEvent {
	return events.SnapshotEvent{
		LeftMs:       snap.Left.Milliseconds(),
		RightMs:      snap.Right.Milliseconds(),
		LeftRunning:  snap.LeftRunning,
		RightRunning: snap.RightRunning,
		LeftText:     lanes.FormatTimestamp(snap.Left),
		RightText:    lanes.FormatTimestamp(snap.Right),
		Ts:           time.Now().UnixMilli(),
	}
}
