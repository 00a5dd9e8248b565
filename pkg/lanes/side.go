// Package lanes holds the dual-lane timer state: two stopwatches that
// are never running at the same time, plus the audio cue that follows
// the active lane.
package lanes

import "fmt"

// Side identifies one of the two lanes. Physical identifiers (GPIO pin
// names, key bindings) are mapped to a Side at configuration time;
// nothing below that mapping knows about hardware.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// ParseSide converts the wire form ("left"/"right") back to a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

// Other returns the opposite lane.
func (s Side) Other() Side {
	if s == Left {
		return Right
	}
	return Left
}
