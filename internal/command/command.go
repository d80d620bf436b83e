// Package command turns the raw control-law outputs into commands inside the
// legal envelope and writes them to the physics collaborator.
package command

import (
	"fmt"
	"io"
	"math"
)

// Legal command envelope.
const (
	MinRotation = -90
	MaxRotation = 90
	MinPower    = 0
	MaxPower    = 4
)

// Command is the rounded, clamped (rotation, power) pair handed to the
// physics source each tick.
type Command struct {
	Rotation int // degrees, [-90, 90]
	Power    int // thrust level, [0, 4]
}

// Encode rounds each desired value half away from zero and clamps it into the
// legal envelope. This is the only place out-of-range values are sanitized;
// control laws are free to produce out-of-range desired values and rely on
// the clamp.
func Encode(desiredRotation, desiredPower float64) Command {
	return Command{
		Rotation: clamp(int(math.Round(desiredRotation)), MinRotation, MaxRotation),
		Power:    clamp(int(math.Round(desiredPower)), MinPower, MaxPower),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sink writes one command per tick in the wire format "rotation power".
type Sink struct {
	w io.Writer
}

// NewSink creates a sink writing to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Emit writes a single command line.
func (s *Sink) Emit(c Command) error {
	if _, err := fmt.Fprintf(s.w, "%d %d\n", c.Rotation, c.Power); err != nil {
		return fmt.Errorf("writing command: %w", err)
	}
	return nil
}
