package config

import (
	"time"

	"github.com/archerhq/shotclock/pkg/lanes"
)

// LaneSettings is the resolved per-lane configuration.
type LaneSettings struct {
	// Color is the lane background/label color, any CSS-style value.
	Color string
	// MusicFile is the cue looped while this lane runs. Empty disables
	// the cue.
	MusicFile string
	// Flipped renders this lane upside down (clock mounted overhead).
	Flipped bool
	// Pin is the periph pin name of this lane's button, e.g. "GPIO23".
	Pin string
}

// GPIOSettings is the resolved input back-end configuration.
type GPIOSettings struct {
	// Enabled turns the hardware buttons on. Off, the daemon is driven
	// by the HTTP API only.
	Enabled bool
	// Mode selects the back end: "edge" (interrupt-driven) or "poll".
	Mode string
	// ActiveLow marks buttons wired to ground with a pull-up.
	ActiveLow bool
	// PollInterval is the sampling cadence in poll mode.
	PollInterval time.Duration
}

const (
	GPIOModeEdge = "edge"
	GPIOModePoll = "poll"
)

type Config interface {
	ButtonToggle() bool
	Lane(side lanes.Side) LaneSettings
	GPIO() GPIOSettings
	DebounceWindow() time.Duration
	HoldWindow() time.Duration

	SetButtonToggle(bool)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
