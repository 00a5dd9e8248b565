// Package input produces raw button press/release samples from GPIO
// lines. Both back ends (edge-interrupt and polled) feed the same
// channel of Events; the debounce tracker downstream does not care
// which one is active.
package input

import (
	"context"

	"github.com/archerhq/shotclock/pkg/lanes"
)

// Event is one raw level sample for one lane. Pressed is the logical
// button state, already corrected for active-low wiring. Duplicate
// events (same level as last time) are legal; the tracker ignores
// them, so redundant sources are safe.
type Event struct {
	Side    lanes.Side
	Pressed bool
}

// Source delivers raw level changes until the context is canceled.
type Source interface {
	Run(ctx context.Context, events chan<- Event) error
}
