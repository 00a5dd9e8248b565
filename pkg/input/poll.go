package input

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

var _ Source = &PollSource{}

// PollSource samples instantaneous levels at a fixed cadence, for
// boards or drivers without edge interrupts. It emits an event only
// when a level differs from the previous sample and leaves all
// debounce and hold classification to the tracker, so both back ends
// share one state machine.
type PollSource struct {
	Pins     [2]Pin
	Interval time.Duration
	Clock    clockwork.Clock
}

const defaultPollInterval = 10 * time.Millisecond

func NewPollSource(pins [2]Pin, interval time.Duration, clock clockwork.Clock) *PollSource {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &PollSource{Pins: pins, Interval: interval, Clock: clock}
}

func (s *PollSource) Run(ctx context.Context, events chan<- Event) error {
	var last [2]bool
	for i, pin := range s.Pins {
		last[i] = pin.pressed(pin.IO.Read())
	}

	ticker := s.Clock.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
		}

		for i, pin := range s.Pins {
			pressed := pin.pressed(pin.IO.Read())
			if pressed == last[i] {
				continue
			}
			last[i] = pressed
			select {
			case events <- Event{Side: pin.Side, Pressed: pressed}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
