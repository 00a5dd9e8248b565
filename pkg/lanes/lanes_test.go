package lanes

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// fakePlayer records the cue commands the controller issues.
type fakePlayer struct {
	played  []string
	stopped int
}

func (p *fakePlayer) PlayLooping(path string) error {
	p.played = append(p.played, path)
	return nil
}
func (p *fakePlayer) Stop()        { p.stopped++ }
func (p *fakePlayer) Close() error { return nil }

func TestStartLaneStopsOther(t *testing.T) {
	clk := clockwork.NewFakeClock()
	c := NewController(Options{Clock: clk})

	c.StartLane(Left)
	clk.Advance(time.Second)
	c.StartLane(Right)

	snap := c.Snapshot()
	if snap.LeftRunning {
		t.Fatalf("left lane should be stopped after starting right")
	}
	if !snap.RightRunning {
		t.Fatalf("right lane should be running")
	}
	if snap.Left != time.Second {
		t.Fatalf("left lane should keep its 1s, got %v", snap.Left)
	}

	// And back the other way, from any prior state.
	c.StartLane(Left)
	snap = c.Snapshot()
	if snap.RightRunning {
		t.Fatalf("right lane should be stopped after starting left")
	}
	if !snap.LeftRunning {
		t.Fatalf("left lane should be running again")
	}
}

func TestButtonToggleStopsRunningLane(t *testing.T) {
	clk := clockwork.NewFakeClock()
	player := &fakePlayer{}
	c := NewController(Options{Clock: clk, Player: player, ButtonToggle: true, LeftCue: "left.mp3"})

	c.StartLane(Left)
	clk.Advance(2 * time.Second)
	c.StartLane(Left)

	if c.IsRunning(Left) {
		t.Fatalf("second press should toggle the lane off")
	}
	if got := c.Elapsed(Left); got != 2*time.Second {
		t.Fatalf("toggled-off lane should keep elapsed time, got %v", got)
	}
	// Toggle-off leaves audio alone: only the first start played.
	if len(player.played) != 1 {
		t.Fatalf("expected exactly 1 cue trigger, got %d", len(player.played))
	}
}

func TestRepeatedStartWithoutToggleIsIdempotent(t *testing.T) {
	clk := clockwork.NewFakeClock()
	c := NewController(Options{Clock: clk, ButtonToggle: false})

	c.StartLane(Left)
	clk.Advance(3 * time.Second)
	c.StartLane(Left)
	clk.Advance(time.Second)

	if !c.IsRunning(Left) {
		t.Fatalf("lane should still be running")
	}
	// Elapsed time continues uninterrupted, no restart.
	if got := c.Elapsed(Left); got != 4*time.Second {
		t.Fatalf("expected 4s, got %v", got)
	}
}

func TestStartLaneTriggersCue(t *testing.T) {
	player := &fakePlayer{}
	c := NewController(Options{
		Clock:    clockwork.NewFakeClock(),
		Player:   player,
		LeftCue:  "left.mp3",
		RightCue: "right.mp3",
	})

	c.StartLane(Left)
	c.StartLane(Right)

	if len(player.played) != 2 || player.played[0] != "left.mp3" || player.played[1] != "right.mp3" {
		t.Fatalf("unexpected cue sequence: %v", player.played)
	}
}

func TestResetAllClearsLanesAndAudio(t *testing.T) {
	clk := clockwork.NewFakeClock()
	player := &fakePlayer{}
	c := NewController(Options{Clock: clk, Player: player, LeftCue: "left.mp3"})

	c.StartLane(Left)
	clk.Advance(5 * time.Second)
	c.ResetAll()

	snap := c.Snapshot()
	if snap.LeftRunning || snap.RightRunning {
		t.Fatalf("no lane should be running after reset")
	}
	if snap.Left != 0 || snap.Right != 0 {
		t.Fatalf("lanes should read zero after reset, got %v / %v", snap.Left, snap.Right)
	}
	if player.stopped != 1 {
		t.Fatalf("reset should stop audio once, got %d", player.stopped)
	}
}

func TestTrySnapshot(t *testing.T) {
	c := NewController(Options{Clock: clockwork.NewFakeClock()})

	if _, ok := c.TrySnapshot(); !ok {
		t.Fatalf("TrySnapshot should succeed on an uncontended controller")
	}

	c.mu.Lock()
	if _, ok := c.TrySnapshot(); ok {
		t.Fatalf("TrySnapshot should fail while the lock is held")
	}
	c.mu.Unlock()
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59999 * time.Millisecond, "00:59"},
		{60 * time.Second, "01:00"},
		{125000 * time.Millisecond, "02:05"},
		{99 * time.Minute, "99:00"},
		{100*time.Minute + 3*time.Second, "100:03"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.d); got != tc.want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
