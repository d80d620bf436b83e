// Package guidance implements the finite-state guidance controller. Each tick
// the active phase computes a desired rotation and thrust power from vehicle
// state; phase transitions resolve within the tick they fire so the emitted
// command always reflects the phase that ends the tick.
package guidance

import (
	"errors"
	"fmt"

	"github.com/DwoaC/lander/internal/command"
	"github.com/DwoaC/lander/internal/vehicle"
)

// Phase identifies one control behavior of the guidance machine.
type Phase int

const (
	// Hover holds position: rotation cancels horizontal speed, power holds
	// the vertical axis. It never transitions on its own; the other phases
	// borrow its vertical law.
	Hover Phase = iota

	// ApproachZone translates toward the landing zone and hands off to
	// Descend once the vehicle is over it at a safe horizontal speed.
	ApproachZone

	// Descend controls the vertical descent rate while killing residual
	// drift. Terminal: it carries through to touchdown.
	Descend

	// BleedSpeed sheds horizontal speed as fast as the tilt limit allows,
	// then returns control to the phase that delegated to it.
	BleedSpeed
)

func (p Phase) String() string {
	switch p {
	case Hover:
		return "hover"
	case ApproachZone:
		return "approach"
	case Descend:
		return "descend"
	case BleedSpeed:
		return "bleed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Control constants. These are properties of the vehicle and the descent
// envelope, not tunables; they match the limits the physics source enforces.
const (
	maxApproachSpeed = 20   // horizontal speed bound while approaching
	maxApproachAngle = 45   // full corrective tilt during approach
	hoverAngle       = 0    // level flight
	approachGain     = 0.04 // degrees of tilt per unit of zone distance

	safeDescentSpeed = -18  // fastest tolerable descent rate
	landingAltitude  = 100  // altitude below which the vehicle stays level
	descendGain      = 0.01 // reserved for a distance-proportional descent law

	bleedGain   = 0.5 // degrees of tilt per unit of horizontal speed
	bleedCutoff = 20  // horizontal speed at which bleeding is done
)

// maxTransitionHops bounds the delegation chain within a single tick. The
// longest legitimate chain is BleedSpeed -> ApproachZone -> Descend; anything
// longer indicates a broken transition guard.
const maxTransitionHops = 2

// ErrTransitionOverrun reports a transition chain that exceeded the hop
// limit. It is a logic error, never a recoverable condition.
var ErrTransitionOverrun = errors.New("guidance: transition chain exceeded hop limit")

// Variant is the active state of the machine: a phase plus, where relevant,
// the phase to hand control to once the current goal is met. Exactly one
// variant is active at a time; transitions replace it wholesale.
type Variant struct {
	Phase Phase
	Next  Phase
}

// variantFor builds the canonical variant for a phase. ApproachZone always
// hands off to Descend once its goal is met; BleedSpeed hands control back to
// the approach, its only legitimate caller.
func variantFor(p Phase) Variant {
	switch p {
	case ApproachZone:
		return Variant{Phase: ApproachZone, Next: Descend}
	case BleedSpeed:
		return Variant{Phase: BleedSpeed, Next: ApproachZone}
	}
	return Variant{Phase: p}
}

// Machine owns the single active variant and steps it against vehicle state.
type Machine struct {
	vs     *vehicle.State
	active Variant
}

// NewMachine creates a guidance machine in the ApproachZone phase, bound to
// the session's vehicle state.
func NewMachine(vs *vehicle.State) *Machine {
	return &Machine{
		vs:     vs,
		active: variantFor(ApproachZone),
	}
}

// Active returns the currently active variant.
func (m *Machine) Active() Variant {
	return m.active
}

// SetActive replaces the active variant. Intended for manual entry points
// such as forcing Hover; normal operation never needs it.
func (m *Machine) SetActive(p Phase) {
	m.active = variantFor(p)
}

// Step computes the command for the current tick. Transition guards are
// evaluated first; when one fires, the command is recomputed under the new
// variant in the same tick. The delegation chain is capped at
// maxTransitionHops and overrunning it is fatal.
//
// Rotation is evaluated before power, so power always reflects the phase the
// tick settles on.
func (m *Machine) Step() (command.Command, error) {
	v := m.active
	var rotation float64
	for hops := 0; ; hops++ {
		next, r, transitioned := stepRotation(v, m.vs)
		if !transitioned {
			rotation = r
			break
		}
		if hops >= maxTransitionHops {
			return command.Command{}, fmt.Errorf("%w: %s after %d hops", ErrTransitionOverrun, next.Phase, hops+1)
		}
		v = next
	}
	m.active = v

	return command.Encode(rotation, desiredPower(v, m.vs)), nil
}

// stepRotation evaluates v's transition guard and rotation law. When the
// guard fires it returns the replacement variant with transitioned=true and
// the caller re-evaluates against it (the one-tick lookahead).
func stepRotation(v Variant, vs *vehicle.State) (next Variant, rotation float64, transitioned bool) {
	switch v.Phase {
	case Hover:
		return v, hoverRotation(vs), false
	case ApproachZone:
		return approachRotation(v, vs)
	case Descend:
		return v, descendRotation(vs), false
	case BleedSpeed:
		return bleedRotation(v, vs)
	}
	panic(fmt.Sprintf("guidance: unknown phase %d", int(v.Phase)))
}

// hoverRotation is direct proportional feedback driving horizontal speed to
// zero at gain 1: one degree of corrective tilt per unit of drift.
func hoverRotation(vs *vehicle.State) float64 {
	return float64(vs.Current().HSpeed)
}

func approachRotation(v Variant, vs *vehicle.State) (Variant, float64, bool) {
	h := vs.Current().HSpeed
	tooFast := h < -maxApproachSpeed || h > maxApproachSpeed

	switch {
	case tooFast:
		// Shed speed first, then come back to the approach.
		return Variant{Phase: BleedSpeed, Next: ApproachZone}, 0, true
	case vs.IsOverZone():
		// Speed is inside the bound here, so the goal is met.
		return variantFor(v.Next), 0, true
	}
	return v, steerTowardZone(vs), false
}

// steerTowardZone tilts proportionally to the distance from the zone, capped
// per side: once the vehicle moves toward the zone at the speed bound it
// holds level, and if it is somehow moving away beyond the bound it uses full
// corrective tilt.
func steerTowardZone(vs *vehicle.State) float64 {
	h := vs.Current().HSpeed

	if vs.IsLeftOfZone() {
		switch {
		case h < maxApproachSpeed:
			return float64(vs.DistanceToZone()) * approachGain
		case h > maxApproachSpeed:
			return maxApproachAngle
		default:
			return hoverAngle
		}
	}

	// Right of the zone, mirrored.
	switch {
	case h > -maxApproachSpeed:
		return float64(vs.DistanceToZone()) * approachGain
	case h < -maxApproachSpeed:
		return -maxApproachAngle
	default:
		return hoverAngle
	}
}

// descendRotation keeps cancelling drift until final approach altitude, then
// commands level flight regardless of residual horizontal speed.
func descendRotation(vs *vehicle.State) float64 {
	if vs.Altitude() > landingAltitude {
		return float64(vs.Current().HSpeed)
	}
	return 0
}

func bleedRotation(v Variant, vs *vehicle.State) (Variant, float64, bool) {
	h := vs.Current().HSpeed
	if -bleedCutoff <= h && h <= bleedCutoff {
		return variantFor(v.Next), 0, true
	}
	return v, float64(h) * bleedGain, false
}

// desiredPower computes the vertical law for the phase that settled the tick.
func desiredPower(v Variant, vs *vehicle.State) float64 {
	switch v.Phase {
	case ApproachZone:
		if vs.Altitude() < landingAltitude && !vs.IsOverZone() {
			// Low and still off target: survival over softness.
			return command.MaxPower
		}
		if vs.Current().VSpeed > safeDescentSpeed {
			return 3
		}
		return command.MaxPower
	case Descend:
		if vs.Altitude() < landingAltitude && !vs.IsOverZone() {
			return command.MaxPower
		}
		if vs.Current().VSpeed < safeDescentSpeed {
			return command.MaxPower
		}
		return 3
	default:
		// Hover's law, shared by BleedSpeed: ease off while rising, full
		// thrust otherwise.
		if vs.Current().VSpeed > 0 {
			return 3
		}
		return command.MaxPower
	}
}
