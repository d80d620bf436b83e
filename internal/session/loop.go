// Package session runs the closed guidance loop: read a telemetry record,
// advance the guidance machine, emit the command, and fan the completed tick
// out to the recorder and metrics sinks.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/DwoaC/lander/internal/command"
	"github.com/DwoaC/lander/internal/flightlog"
	"github.com/DwoaC/lander/internal/guidance"
	"github.com/DwoaC/lander/internal/influx"
	"github.com/DwoaC/lander/internal/metrics"
	"github.com/DwoaC/lander/internal/telemetry"
	"github.com/DwoaC/lander/internal/terrain"
	"github.com/DwoaC/lander/internal/vehicle"
	"github.com/DwoaC/lander/pkg/core"
)

// Source supplies one telemetry record per tick. io.EOF ends the session.
type Source interface {
	Next() (telemetry.Record, error)
}

// Sink receives the command for each tick.
type Sink interface {
	Emit(command.Command) error
}

// Dependencies wires the loop. Source, Sink, Profile and Zone are required;
// Recorder, Influx and Metrics are optional sinks for completed ticks.
type Dependencies struct {
	Source  Source
	Sink    Sink
	Profile terrain.Profile
	Zone    terrain.LandingZone

	Recorder *flightlog.Writer
	Influx   *influx.Manager
	Metrics  bool

	Logger *slog.Logger
}

// Loop drives one flight session from first telemetry record to touchdown
// or source exhaustion.
type Loop struct {
	src  Source
	sink Sink

	profile terrain.Profile
	vs      *vehicle.State
	machine *guidance.Machine

	recorder  *flightlog.Writer
	influx    *influx.Manager
	metricsOn bool

	log *slog.Logger

	mu        sync.Mutex
	tick      int
	lastPhase guidance.Phase

	ticksMetric       metric.Int64Counter
	transitionsMetric metric.Int64Counter
	overrunsMetric    metric.Int64Counter
}

// New builds a Loop and registers its OTel counters against the global
// meter (no-op when OTel is not configured).
func New(deps Dependencies) (*Loop, error) {
	if deps.Source == nil || deps.Sink == nil {
		return nil, errors.New("session: source and sink are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	vs := vehicle.NewState(deps.Zone)
	l := &Loop{
		src:       deps.Source,
		sink:      deps.Sink,
		profile:   deps.Profile,
		vs:        vs,
		machine:   guidance.NewMachine(vs),
		recorder:  deps.Recorder,
		influx:    deps.Influx,
		metricsOn: deps.Metrics,
		log:       deps.Logger,
	}
	l.lastPhase = l.machine.Active().Phase

	m := meter()
	var err error

	l.ticksMetric, err = m.Int64Counter(
		"guidance.ticks",
		metric.WithDescription("Telemetry/command exchanges completed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}

	l.transitionsMetric, err = m.Int64Counter(
		"guidance.transitions",
		metric.WithDescription("Guidance phase transitions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transition counter: %w", err)
	}

	l.overrunsMetric, err = m.Int64Counter(
		"guidance.overruns",
		metric.WithDescription("Transition chains that exceeded the hop limit"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating overrun counter: %w", err)
	}

	return l, nil
}

// Attrs reports the current tick and phase, for the logging context handler.
func (l *Loop) Attrs() []slog.Attr {
	l.mu.Lock()
	defer l.mu.Unlock()
	return []slog.Attr{
		slog.Int("tick", l.tick),
		slog.String("phase", l.lastPhase.String()),
	}
}

// coreZone and coreTerrain translate flight geometry into record form.
func coreZone(z terrain.LandingZone) core.Zone {
	return core.Zone{Left: z.Left, Right: z.Right, Height: z.Height}
}

func coreTerrain(p terrain.Profile) []core.TerrainPoint {
	out := make([]core.TerrainPoint, len(p))
	for i, pt := range p {
		out[i] = core.TerrainPoint{X: pt.X, Y: pt.Y}
	}
	return out
}

// Run consumes the source until io.EOF or context cancellation, then closes
// the recording session. The summary covers whatever ticks completed.
func (l *Loop) Run(ctx context.Context) (core.SessionSummary, error) {
	if l.recorder != nil {
		err := l.recorder.StartSession(&core.Session{
			StartedAt: time.Now().UTC(),
			Terrain:   coreTerrain(l.profile),
			Zone:      coreZone(l.vs.Zone()),
		})
		if err != nil {
			return core.SessionSummary{}, fmt.Errorf("starting session: %w", err)
		}
	}

	l.log.Info("session started",
		"zoneLeft", l.vs.Zone().Left,
		"zoneRight", l.vs.Zone().Right,
		"zoneHeight", l.vs.Zone().Height,
	)

	var (
		finalFuel int
		runErr    error
	)
	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		rec, err := l.src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			runErr = fmt.Errorf("reading telemetry: %w", err)
			break
		}
		finalFuel = rec.Fuel

		if _, err := l.Tick(ctx, rec); err != nil {
			runErr = fmt.Errorf("tick %d: %w", l.Ticks(), err)
			break
		}
	}

	summary := core.SessionSummary{
		EndedAt:   time.Now().UTC(),
		Ticks:     l.Ticks(),
		FinalFuel: finalFuel,
	}

	if l.recorder != nil {
		if err := l.recorder.EndSession(summary); err != nil && runErr == nil {
			runErr = fmt.Errorf("ending session: %w", err)
		}
	}

	l.log.Info("session ended", "ticks", summary.Ticks, "finalFuel", summary.FinalFuel, "error", runErr)
	return summary, runErr
}

// Ticks reports how many exchanges have completed.
func (l *Loop) Ticks() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tick
}

// Tick runs one full exchange: fold the record into vehicle state, step the
// guidance machine, fan the completed tick out, and emit the command.
func (l *Loop) Tick(ctx context.Context, rec telemetry.Record) (command.Command, error) {
	l.vs.Update(rec)

	before := l.machine.Active().Phase
	cmd, err := l.machine.Step()
	if err != nil {
		if errors.Is(err, guidance.ErrTransitionOverrun) {
			l.overrunsMetric.Add(ctx, 1)
		}
		return command.Command{}, err
	}
	after := l.machine.Active().Phase

	l.mu.Lock()
	l.tick++
	tick := l.tick
	l.lastPhase = after
	l.mu.Unlock()

	l.ticksMetric.Add(ctx, 1)
	if after != before {
		l.transitionsMetric.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from", before.String()),
			attribute.String("to", after.String()),
		))
		l.log.Debug("phase transition", "from", before.String(), "to", after.String(), "tick", tick)
	}

	record := core.TickRecord{
		Tick:            tick,
		Time:            time.Now().UTC(),
		X:               rec.X,
		Y:               rec.Y,
		HSpeed:          rec.HSpeed,
		VSpeed:          rec.VSpeed,
		Fuel:            rec.Fuel,
		Rotation:        rec.Rotation,
		Power:           rec.Power,
		Phase:           after.String(),
		CommandRotation: cmd.Rotation,
		CommandPower:    cmd.Power,
	}
	zone := coreZone(l.vs.Zone())

	if l.recorder != nil {
		if err := l.recorder.Record(record); err != nil {
			l.log.Error("recording tick failed", "tick", tick, "error", err)
		}
	}
	if l.influx != nil {
		if err := l.influx.WriteTick(record, zone); err != nil {
			l.log.Error("influx write failed", "tick", tick, "error", err)
		}
	}
	if l.metricsOn {
		metrics.RecordTick(record, zone)
	}

	if err := l.sink.Emit(cmd); err != nil {
		return cmd, fmt.Errorf("emitting command: %w", err)
	}
	return cmd, nil
}
