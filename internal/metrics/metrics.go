// Package metrics exposes live flight state as Prometheus gauges, scraped
// from the endpoint the main binary serves when metrics are enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/DwoaC/lander/pkg/core"
)

var (
	altitudeGauge = prometheus.NewGauge(prometheus.GaugeOpts{Name: "lander_altitude_meters"})
	hSpeedGauge   = prometheus.NewGauge(prometheus.GaugeOpts{Name: "lander_horizontal_speed_mps"})
	vSpeedGauge   = prometheus.NewGauge(prometheus.GaugeOpts{Name: "lander_vertical_speed_mps"})
	fuelGauge     = prometheus.NewGauge(prometheus.GaugeOpts{Name: "lander_fuel_units"})
	rotationGauge = prometheus.NewGauge(prometheus.GaugeOpts{Name: "lander_rotation_degrees"})
	powerGauge    = prometheus.NewGauge(prometheus.GaugeOpts{Name: "lander_power_level"})

	commandRotationGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lander_command_rotation_degrees",
		Help: "Rotation commanded by guidance for the next tick (degrees from vertical)",
	})
	commandPowerGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lander_command_power_level",
		Help: "Thrust power commanded by guidance for the next tick (0-4)",
	})
	phaseGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lander_guidance_phase",
			Help: "1 for the active guidance phase, 0 for the rest",
		},
		[]string{"phase"},
	)
	tickCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lander_ticks_total",
		Help: "Telemetry/command exchanges completed",
	})
)

// phaseNames must cover every phase the guidance machine reports.
var phaseNames = []string{"hover", "approach", "descend", "bleed"}

func init() {
	prometheus.MustRegister(
		altitudeGauge, hSpeedGauge, vSpeedGauge, fuelGauge,
		rotationGauge, powerGauge,
		commandRotationGauge, commandPowerGauge,
		phaseGauge, tickCounter,
	)
}

// RecordTick publishes one completed guidance tick.
func RecordTick(rec core.TickRecord, zone core.Zone) {
	altitudeGauge.Set(float64(rec.Y - zone.Height))
	hSpeedGauge.Set(float64(rec.HSpeed))
	vSpeedGauge.Set(float64(rec.VSpeed))
	fuelGauge.Set(float64(rec.Fuel))
	rotationGauge.Set(float64(rec.Rotation))
	powerGauge.Set(float64(rec.Power))
	commandRotationGauge.Set(float64(rec.CommandRotation))
	commandPowerGauge.Set(float64(rec.CommandPower))

	for _, name := range phaseNames {
		v := 0.0
		if name == rec.Phase {
			v = 1.0
		}
		phaseGauge.WithLabelValues(name).Set(v)
	}

	tickCounter.Inc()
}
