// Package sim is a small 2D powered-descent physics world. It stands in for
// the external physics collaborator in demos and end-to-end tests: it feeds
// telemetry records to the guidance loop and applies the commands that come
// back, one exchange per tick.
package sim

import (
	"math"

	"github.com/DwoaC/lander/internal/command"
	"github.com/DwoaC/lander/internal/telemetry"
	"github.com/DwoaC/lander/internal/terrain"
)

const (
	// DefaultGravity is Mars surface gravity in m/s^2.
	DefaultGravity = 3.711

	// Actuator slew limits per tick.
	maxRotationStep = 15
	maxPowerStep    = 1

	// Touchdown survival envelope.
	maxLandingVSpeed = 40
	maxLandingHSpeed = 20
)

// Status reports whether the craft is still flying.
type Status int

const (
	Flying Status = iota
	Landed
	Crashed
)

func (s Status) String() string {
	switch s {
	case Flying:
		return "flying"
	case Landed:
		return "landed"
	case Crashed:
		return "crashed"
	}
	return "unknown"
}

// Config sets up the initial world state. Gravity defaults to Mars gravity
// when zero.
type Config struct {
	Profile terrain.Profile
	Zone    terrain.LandingZone
	Gravity float64

	X    float64
	Y    float64
	Fuel int
}

// World integrates craft motion tick by tick. Positions and velocities are
// kept in float64; telemetry is rounded the way the wire format reports it.
type World struct {
	profile terrain.Profile
	zone    terrain.LandingZone
	gravity float64

	x, y   float64
	vx, vy float64

	rotation int
	power    int
	fuel     int

	status Status
	ticks  int
}

func New(cfg Config) *World {
	g := cfg.Gravity
	if g == 0 {
		g = DefaultGravity
	}
	return &World{
		profile: cfg.Profile,
		zone:    cfg.Zone,
		gravity: g,
		x:       cfg.X,
		y:       cfg.Y,
		fuel:    cfg.Fuel,
		status:  Flying,
	}
}

// Telemetry reports the craft state in wire form.
func (w *World) Telemetry() telemetry.Record {
	return telemetry.Record{
		X:        int(math.Round(w.x)),
		Y:        int(math.Round(w.y)),
		HSpeed:   int(math.Round(w.vx)),
		VSpeed:   int(math.Round(w.vy)),
		Fuel:     w.fuel,
		Rotation: w.rotation,
		Power:    w.power,
	}
}

func (w *World) Status() Status { return w.status }
func (w *World) Ticks() int     { return w.ticks }

// slewToward moves cur toward target by at most step per tick.
func slewToward(cur, target, step int) int {
	switch {
	case target > cur+step:
		return cur + step
	case target < cur-step:
		return cur - step
	default:
		return target
	}
}

// Apply advances the world by one tick under the given command. Actuators
// slew toward the commanded values within their per-tick limits before the
// motion integrates. Returns the status after the tick.
func (w *World) Apply(cmd command.Command) Status {
	if w.status != Flying {
		return w.status
	}
	w.ticks++

	w.rotation = slewToward(w.rotation, cmd.Rotation, maxRotationStep)
	w.power = slewToward(w.power, cmd.Power, maxPowerStep)

	// Dry tanks produce no thrust.
	if w.fuel <= 0 {
		w.power = 0
		w.fuel = 0
	}

	rad := float64(w.rotation) * math.Pi / 180
	thrust := float64(w.power)
	ax := -thrust * math.Sin(rad)
	ay := thrust*math.Cos(rad) - w.gravity

	w.x += w.vx + ax/2
	w.y += w.vy + ay/2
	w.vx += ax
	w.vy += ay

	w.fuel -= w.power
	if w.fuel < 0 {
		w.fuel = 0
	}

	if w.y <= w.profile.HeightAt(w.x) {
		w.y = w.profile.HeightAt(w.x)
		w.status = w.touchdownStatus()
	}
	return w.status
}

// touchdownStatus decides whether ground contact was a landing or a crash.
func (w *World) touchdownStatus() Status {
	overZone := w.x >= float64(w.zone.Left) && w.x <= float64(w.zone.Right)
	upright := w.rotation == 0
	gentle := math.Abs(w.vy) <= maxLandingVSpeed && math.Abs(w.vx) <= maxLandingHSpeed

	if overZone && upright && gentle {
		return Landed
	}
	return Crashed
}
