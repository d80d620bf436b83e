package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/DwoaC/lander/pkg/core"
)

func TestRecordTick(t *testing.T) {
	rec := core.TickRecord{
		Tick:            4,
		Y:               2600,
		HSpeed:          -6,
		VSpeed:          -15,
		Fuel:            540,
		Phase:           "descend",
		CommandRotation: 0,
		CommandPower:    3,
	}
	RecordTick(rec, core.Zone{Left: 2000, Right: 3500, Height: 100})

	assert.Equal(t, 2500.0, testutil.ToFloat64(altitudeGauge))
	assert.Equal(t, -6.0, testutil.ToFloat64(hSpeedGauge))
	assert.Equal(t, -15.0, testutil.ToFloat64(vSpeedGauge))
	assert.Equal(t, 540.0, testutil.ToFloat64(fuelGauge))
	assert.Equal(t, 3.0, testutil.ToFloat64(commandPowerGauge))

	assert.Equal(t, 1.0, testutil.ToFloat64(phaseGauge.WithLabelValues("descend")))
	assert.Equal(t, 0.0, testutil.ToFloat64(phaseGauge.WithLabelValues("approach")))
}

func TestPhaseSwitchClearsPreviousPhase(t *testing.T) {
	RecordTick(core.TickRecord{Phase: "bleed"}, core.Zone{})
	assert.Equal(t, 1.0, testutil.ToFloat64(phaseGauge.WithLabelValues("bleed")))

	RecordTick(core.TickRecord{Phase: "approach"}, core.Zone{})
	assert.Equal(t, 0.0, testutil.ToFloat64(phaseGauge.WithLabelValues("bleed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(phaseGauge.WithLabelValues("approach")))
}
