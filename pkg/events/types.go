package events

import "encoding/json"

// Event name constants
const (
	LanesSnapshot = "lanes.snapshot"
)

// Event is a generic SSE event from the daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// SnapshotEvent is the typed payload for lanes.snapshot. Durations are
// flattened to milliseconds so any SSE consumer can read them.
type SnapshotEvent struct {
	LeftMs       int64  `json:"leftMs"`
	RightMs      int64  `json:"rightMs"`
	LeftRunning  bool   `json:"leftRunning"`
	RightRunning bool   `json:"rightRunning"`
	LeftText     string `json:"leftText"`
	RightText    string `json:"rightText"`
	Ts           int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic
// type T. If Data is empty, it returns the zero value of T with a nil
// error.
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
