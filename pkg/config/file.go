package config

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/archerhq/shotclock/pkg/lanes"
	"github.com/archerhq/shotclock/pkg/utils/ptr"
)

var defaultFileConfig = &RawFileConfig{
	ButtonToggle:   ptr.To(true),
	DebounceWindow: ptr.To("25ms"),
	HoldWindow:     ptr.To("3s"),
	GPIO: &RawGPIOConfig{
		Enabled:      ptr.To(false),
		Mode:         ptr.To(GPIOModeEdge),
		ActiveLow:    ptr.To(true),
		PollInterval: ptr.To("10ms"),
	},
	LeftLane: &RawLaneConfig{
		Color: ptr.To("#aa3333"),
		Pin:   ptr.To("GPIO23"),
	},
	RightLane: &RawLaneConfig{
		Color: ptr.To("#3333aa"),
		Pin:   ptr.To("GPIO24"),
	},
}

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = defaultFileConfig
	}

	return &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}
}

// RawLaneConfig mirrors the original config.yml lane blocks.
type RawLaneConfig struct {
	Color     *string `yaml:"color,omitempty" json:"color,omitempty"`
	MusicFile *string `yaml:"musicFile,omitempty" json:"musicFile,omitempty"`
	Flipped   *bool   `yaml:"flipped,omitempty" json:"flipped,omitempty"`
	Pin       *string `yaml:"pin,omitempty" json:"pin,omitempty"`
}

type RawGPIOConfig struct {
	Enabled   *bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Mode      *string `yaml:"mode,omitempty" json:"mode,omitempty"`
	ActiveLow *bool   `yaml:"activeLow,omitempty" json:"activeLow,omitempty"`
	// PollInterval is a time.ParseDuration string, e.g. "10ms".
	PollInterval *string `yaml:"pollInterval,omitempty" json:"pollInterval,omitempty"`
}

type RawFileConfig struct {
	ButtonToggle *bool `yaml:"buttonToggle,omitempty" json:"buttonToggle,omitempty"`
	// DebounceWindow / HoldWindow are time.ParseDuration strings.
	DebounceWindow *string        `yaml:"debounceWindow,omitempty" json:"debounceWindow,omitempty"`
	HoldWindow     *string        `yaml:"holdWindow,omitempty" json:"holdWindow,omitempty"`
	GPIO           *RawGPIOConfig `yaml:"gpio,omitempty" json:"gpio,omitempty"`
	LeftLane       *RawLaneConfig `yaml:"leftLane,omitempty" json:"leftLane,omitempty"`
	RightLane      *RawLaneConfig `yaml:"rightLane,omitempty" json:"rightLane,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	left, right := c.Lane(lanes.Left), c.Lane(lanes.Right)
	gpio := c.GPIO()

	return &RawFileConfig{
		ButtonToggle:   ptr.To(c.ButtonToggle()),
		DebounceWindow: ptr.To(c.DebounceWindow().String()),
		HoldWindow:     ptr.To(c.HoldWindow().String()),
		GPIO: &RawGPIOConfig{
			Enabled:      ptr.To(gpio.Enabled),
			Mode:         ptr.To(gpio.Mode),
			ActiveLow:    ptr.To(gpio.ActiveLow),
			PollInterval: ptr.To(gpio.PollInterval.String()),
		},
		LeftLane:  rawLane(left),
		RightLane: rawLane(right),
	}, nil
}

func rawLane(l LaneSettings) *RawLaneConfig {
	return &RawLaneConfig{
		Color:     ptr.To(l.Color),
		MusicFile: ptr.To(l.MusicFile),
		Flipped:   ptr.To(l.Flipped),
		Pin:       ptr.To(l.Pin),
	}
}

func (f *File) ButtonToggle() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.ButtonToggle != nil {
		return *f.c.ButtonToggle
	}
	return *defaultFileConfig.ButtonToggle
}

func (f *File) SetButtonToggle(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.ButtonToggle = &b
}

func (f *File) Lane(side lanes.Side) LaneSettings {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	raw, def := f.c.LeftLane, defaultFileConfig.LeftLane
	if side == lanes.Right {
		raw, def = f.c.RightLane, defaultFileConfig.RightLane
	}
	if raw == nil {
		raw = &RawLaneConfig{}
	}

	out := LaneSettings{
		Color: *def.Color,
		Pin:   *def.Pin,
	}
	if raw.Color != nil {
		out.Color = *raw.Color
	}
	if raw.MusicFile != nil {
		out.MusicFile = *raw.MusicFile
	}
	if raw.Flipped != nil {
		out.Flipped = *raw.Flipped
	}
	if raw.Pin != nil {
		out.Pin = *raw.Pin
	}
	return out
}

func (f *File) GPIO() GPIOSettings {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	raw := f.c.GPIO
	if raw == nil {
		raw = &RawGPIOConfig{}
	}
	def := defaultFileConfig.GPIO

	out := GPIOSettings{
		Enabled:   *def.Enabled,
		Mode:      *def.Mode,
		ActiveLow: *def.ActiveLow,
	}
	if raw.Enabled != nil {
		out.Enabled = *raw.Enabled
	}
	if raw.Mode != nil {
		out.Mode = *raw.Mode
	}
	if raw.ActiveLow != nil {
		out.ActiveLow = *raw.ActiveLow
	}
	out.PollInterval = parseDuration(raw.PollInterval, def.PollInterval, 10*time.Millisecond)
	return out
}

func (f *File) DebounceWindow() time.Duration {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return parseDuration(f.c.DebounceWindow, defaultFileConfig.DebounceWindow, 25*time.Millisecond)
}

func (f *File) HoldWindow() time.Duration {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return parseDuration(f.c.HoldWindow, defaultFileConfig.HoldWindow, 3*time.Second)
}

// parseDuration resolves a user value, then a default string, then a
// hard fallback. Unparseable user values are logged and ignored.
func parseDuration(raw, def *string, fallback time.Duration) time.Duration {
	if raw != nil {
		d, err := time.ParseDuration(*raw)
		if err == nil {
			return d
		}
		logrus.Warnf("invalid duration %q in config, using default", *raw)
	}
	if def != nil {
		if d, err := time.ParseDuration(*def); err == nil {
			return d
		}
	}
	return fallback
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Read everything up front so an all-whitespace file can be told
	// apart from a populated one.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		// If the file is empty, return the empty config.
		// Do not make f.c a nil.
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = yaml.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := yaml.NewEncoder(fp)
	enc.SetIndent(2)
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return enc.Close()
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	gpio := f.GPIO()
	return logrus.Fields{
		"buttonToggle":   f.ButtonToggle(),
		"debounceWindow": f.DebounceWindow(),
		"holdWindow":     f.HoldWindow(),
		"gpioEnabled":    gpio.Enabled,
		"gpioMode":       gpio.Mode,
		"leftPin":        f.Lane(lanes.Left).Pin,
		"rightPin":       f.Lane(lanes.Right).Pin,
	}
}
