package lanes

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/archerhq/shotclock/pkg/audio"
	"github.com/archerhq/shotclock/pkg/stopwatch"
)

// Options configures a Controller.
type Options struct {
	// Clock drives both stopwatches. Nil means the real clock.
	Clock clockwork.Clock
	// Player receives the audio cue commands. Nil means no audio.
	Player audio.Player
	// ButtonToggle makes a start on an already-running lane stop it
	// instead of being a no-op.
	ButtonToggle bool
	// LeftCue / RightCue are the music files looped while the
	// corresponding lane runs. Empty means no cue for that lane.
	LeftCue  string
	RightCue string
}

// Controller owns the two lane stopwatches and the audio handle. It is
// shared by the debounce loop, the HTTP handlers, and the display
// refresher, so every read and write goes through one mutex: a reader
// can never observe both lanes running, or a lane running without its
// cue having been triggered.
type Controller struct {
	mu sync.Mutex

	left  *stopwatch.Stopwatch
	right *stopwatch.Stopwatch

	player       audio.Player
	buttonToggle bool
	cues         [2]string
}

// Snapshot is a consistent read of both lanes.
type Snapshot struct {
	Left         time.Duration
	Right        time.Duration
	LeftRunning  bool
	RightRunning bool
}

func NewController(opts Options) *Controller {
	player := opts.Player
	if player == nil {
		player = audio.Noop{}
	}
	return &Controller{
		left:         stopwatch.New(opts.Clock),
		right:        stopwatch.New(opts.Clock),
		player:       player,
		buttonToggle: opts.ButtonToggle,
		cues:         [2]string{Left: opts.LeftCue, Right: opts.RightCue},
	}
}

// StartLane starts the chosen lane and stops the other. With
// ButtonToggle set, starting an already-running lane stops it instead
// (and leaves any playing cue alone). Without it, the call is
// idempotent: the lane keeps running from its original start instant,
// though the cue is re-triggered as on any other start.
func (c *Controller) StartLane(side Side) {
	c.mu.Lock()
	defer c.mu.Unlock()

	chosen, other := c.watch(side), c.watch(side.Other())

	if chosen.IsRunning() && c.buttonToggle {
		chosen.Stop()
		logrus.Debugf("%s lane toggled off", side)
		return
	}

	other.Stop()
	chosen.Start()
	logrus.Debugf("%s lane started", side)

	if cue := c.cues[side]; cue != "" {
		if err := c.player.PlayLooping(cue); err != nil {
			// Audio trouble stays here; timer state is already updated.
			logrus.Errorf("failed to play cue for %s lane: %v", side, err)
		}
	}
}

// ResetAll clears both lanes and silences any playing cue.
func (c *Controller) ResetAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.left.Clear()
	c.right.Clear()
	c.player.Stop()
	logrus.Debug("lanes reset")
}

// SetButtonToggle changes the toggle policy at runtime.
func (c *Controller) SetButtonToggle(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buttonToggle = enabled
}

// Elapsed returns the given lane's counted time.
func (c *Controller) Elapsed(side Side) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.watch(side).Elapsed()
}

// IsRunning reports whether the given lane is counting.
func (c *Controller) IsRunning(side Side) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.watch(side).IsRunning()
}

// Snapshot returns a consistent view of both lanes, blocking until the
// lock is available.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// TrySnapshot is the best-effort variant used by the display
// refresher: if the lock is contended it reports false instead of
// blocking the presentation loop.
func (c *Controller) TrySnapshot() (Snapshot, bool) {
	if !c.mu.TryLock() {
		return Snapshot{}, false
	}
	defer c.mu.Unlock()
	return c.snapshotLocked(), true
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Left:         c.left.Elapsed(),
		Right:        c.right.Elapsed(),
		LeftRunning:  c.left.IsRunning(),
		RightRunning: c.right.IsRunning(),
	}
}

func (c *Controller) watch(side Side) *stopwatch.Stopwatch {
	if side == Left {
		return c.left
	}
	return c.right
}
