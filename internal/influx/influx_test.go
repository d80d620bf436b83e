package influx

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DwoaC/lander/pkg/core"
)

func TestTickPoint(t *testing.T) {
	rec := core.TickRecord{
		Tick:            7,
		Time:            time.Date(2026, 3, 14, 9, 0, 7, 0, time.UTC),
		X:               2500,
		Y:               2600,
		HSpeed:          -4,
		VSpeed:          -17,
		Fuel:            530,
		Phase:           "descend",
		CommandRotation: 0,
		CommandPower:    3,
	}
	zone := core.Zone{Left: 2000, Right: 3500, Height: 100}

	line := influxdb2_write.PointToLineProtocol(TickPoint(rec, zone), time.Nanosecond)
	assert.Contains(t, line, "flight_tick")
	assert.Contains(t, line, "phase=descend")
	assert.Contains(t, line, "altitude=2500i")
	assert.Contains(t, line, "vSpeed=-17i")
	assert.Contains(t, line, "commandPower=3i")
}

func TestWriteTickFallsBackToSpool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "influx_backup.log.gz")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)

	m := &Manager{
		IsValid:      false,
		BackupWriter: gzip.NewWriter(file),
		Logger:       zerolog.Nop(),
	}

	rec := core.TickRecord{Tick: 1, Time: time.Now(), VSpeed: -10, Phase: "approach"}
	require.NoError(t, m.WriteTick(rec, core.Zone{Height: 100}))
	m.Close()
	require.NoError(t, file.Close())

	spool, err := os.Open(path)
	require.NoError(t, err)
	defer spool.Close()

	zr, err := gzip.NewReader(spool)
	require.NoError(t, err)
	buf := make([]byte, 4096)
	n, _ := zr.Read(buf)
	assert.Contains(t, string(buf[:n]), "phase=approach")
}

func TestWritePointWithoutSink(t *testing.T) {
	m := &Manager{IsValid: false, Logger: zerolog.Nop()}
	err := m.WriteTick(core.TickRecord{}, core.Zone{})
	assert.Error(t, err)
}
