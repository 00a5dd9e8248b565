package client

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/archerhq/shotclock/pkg/config"
	"github.com/archerhq/shotclock/pkg/events"
	"github.com/archerhq/shotclock/pkg/lanes"
)

// StartLane starts the given lane (stopping the other), exactly as a
// physical button press would after debouncing.
func (c *Client) StartLane(side lanes.Side) (string, error) {
	return c.Put("/start", fmt.Sprintf("%q", side.String()))
}

// Reset clears both lanes and stops any playing cue.
func (c *Client) Reset() (string, error) {
	return c.Put("/reset", "")
}

// GetStatus fetches a consistent snapshot of both lanes.
func (c *Client) GetStatus() (events.SnapshotEvent, error) {
	var snap events.SnapshotEvent
	ret, err := c.Get("/status")
	if err != nil {
		return snap, pkgerrors.Wrap(err, "failed to get status")
	}
	if err := json.Unmarshal([]byte(ret), &snap); err != nil {
		return snap, pkgerrors.Wrap(err, "failed to unmarshal status")
	}
	return snap, nil
}

// GetConfig fetches the daemon's resolved configuration.
func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get config")
	}
	var raw config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &raw); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to unmarshal config")
	}
	return &raw, nil
}

// SetButtonToggle switches the toggle policy on or off.
func (c *Client) SetButtonToggle(enabled bool) (string, error) {
	return c.Put("/button-toggle", strconv.FormatBool(enabled))
}

// GetVersion returns the daemon's version string.
func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to get version")
	}
	var v struct {
		Version   string `json:"version"`
		GitCommit string `json:"gitCommit"`
	}
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrap(err, "failed to unmarshal version")
	}
	return v.Version, nil
}

// Events opens the SSE snapshot stream.
func (c *Client) Events() (io.ReadCloser, error) {
	return c.Stream("/events")
}
