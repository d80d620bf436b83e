package sim

import (
	"io"

	"github.com/DwoaC/lander/internal/command"
	"github.com/DwoaC/lander/internal/telemetry"
)

// Endpoint adapts a World to the session loop's telemetry source and command
// sink. Next reports the current craft state; Emit applies the command and
// advances one tick. The source is exhausted once the craft touches down or
// maxTicks exchanges have run.
type Endpoint struct {
	world    *World
	maxTicks int
}

func NewEndpoint(w *World, maxTicks int) *Endpoint {
	return &Endpoint{world: w, maxTicks: maxTicks}
}

func (e *Endpoint) Next() (telemetry.Record, error) {
	if e.world.Status() != Flying || (e.maxTicks > 0 && e.world.Ticks() >= e.maxTicks) {
		return telemetry.Record{}, io.EOF
	}
	return e.world.Telemetry(), nil
}

func (e *Endpoint) Emit(cmd command.Command) error {
	e.world.Apply(cmd)
	return nil
}
