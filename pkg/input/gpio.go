package input

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/archerhq/shotclock/pkg/lanes"
)

// Pin is one configured button line.
type Pin struct {
	Side lanes.Side
	// ActiveLow inverts the reading: a Low level means pressed. Matches
	// buttons wired to ground with a pull-up.
	ActiveLow bool
	IO        gpio.PinIO
}

func (p Pin) pressed(level gpio.Level) bool {
	if p.ActiveLow {
		return level == gpio.Low
	}
	return level == gpio.High
}

// OpenPins initializes the host GPIO drivers and claims the two button
// lines, pull-up and both-edges. Pin names are periph names, e.g.
// "GPIO23". Failure here is a startup failure; it is never surfaced
// through the timer core.
func OpenPins(leftName, rightName string, activeLow bool) ([2]Pin, error) {
	var pins [2]Pin

	if _, err := host.Init(); err != nil {
		return pins, pkgerrors.Wrap(err, "failed to initialize gpio host")
	}

	names := [2]string{lanes.Left: leftName, lanes.Right: rightName}
	for side, name := range names {
		io := gpioreg.ByName(name)
		if io == nil {
			return pins, pkgerrors.Errorf("no such gpio pin %q", name)
		}
		if err := io.In(gpio.PullUp, gpio.BothEdges); err != nil {
			return pins, pkgerrors.Wrapf(err, "failed to claim gpio pin %q", name)
		}
		pins[side] = Pin{Side: lanes.Side(side), ActiveLow: activeLow, IO: io}
		logrus.WithFields(logrus.Fields{
			"pin":  name,
			"side": lanes.Side(side),
		}).Info("gpio pin claimed")
	}

	return pins, nil
}

// edgeWait bounds WaitForEdge so the goroutines notice ctx
// cancellation.
const edgeWait = 500 * time.Millisecond

var _ Source = &EdgeSource{}

// EdgeSource delivers a sample after every hardware edge, one
// goroutine per lane. This is the preferred back end: the tracker sees
// every bounce and can debounce properly.
type EdgeSource struct {
	Pins [2]Pin
}

func NewEdgeSource(pins [2]Pin) *EdgeSource {
	return &EdgeSource{Pins: pins}
}

func (s *EdgeSource) Run(ctx context.Context, events chan<- Event) error {
	done := make(chan struct{})
	for _, pin := range s.Pins {
		go func(p Pin) {
			defer func() { done <- struct{}{} }()
			for {
				if ctx.Err() != nil {
					return
				}
				if !p.IO.WaitForEdge(edgeWait) {
					continue
				}
				ev := Event{Side: p.Side, Pressed: p.pressed(p.IO.Read())}
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}(pin)
	}

	<-done
	<-done
	return ctx.Err()
}
