package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/DwoaC/lander/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() *core.Session {
	return &core.Session{
		StartedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Terrain:   []core.TerrainPoint{{X: 0, Y: 100}, {X: 1000, Y: 100}, {X: 2000, Y: 150}},
		Zone:      core.Zone{Left: 0, Right: 1000, Height: 100},
	}
}

func TestRecordLifecycle(t *testing.T) {
	b := New(Config{OutputDir: t.TempDir()})
	require.NoError(t, b.Init())

	require.Error(t, b.RecordTicks([]core.TickRecord{{Tick: 1}}), "no session yet")

	require.NoError(t, b.StartSession(testSession()))
	require.Error(t, b.StartSession(testSession()), "double start rejected")

	require.NoError(t, b.RecordTicks([]core.TickRecord{{Tick: 1}, {Tick: 2}}))
	require.NoError(t, b.RecordTicks([]core.TickRecord{{Tick: 3}}))
	assert.Equal(t, 3, b.TickCount())

	require.NoError(t, b.EndSession(core.SessionSummary{Ticks: 3, FinalFuel: 120}))
	require.NoError(t, b.Close())
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(Config{OutputDir: dir})
	require.NoError(t, b.StartSession(testSession()))
	require.NoError(t, b.RecordTicks([]core.TickRecord{
		{Tick: 1, X: 2500, Y: 2700, Phase: "approach", CommandRotation: 20, CommandPower: 3},
	}))
	require.NoError(t, b.EndSession(core.SessionSummary{Ticks: 1, FinalFuel: 530}))

	path := b.ExportedFilePath()
	require.NotEmpty(t, path)
	assert.Contains(t, path, "flight_20260501_120000.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var export FlightExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, core.Zone{Left: 0, Right: 1000, Height: 100}, export.Session.Zone)
	require.Len(t, export.Ticks, 1)
	assert.Equal(t, "approach", export.Ticks[0].Phase)
	assert.Equal(t, 1, export.Summary.Ticks)
}

func TestExportGzip(t *testing.T) {
	dir := t.TempDir()
	b := New(Config{OutputDir: dir, CompressOutput: true})
	require.NoError(t, b.StartSession(testSession()))
	require.NoError(t, b.EndSession(core.SessionSummary{}))

	path := b.ExportedFilePath()
	assert.Contains(t, path, ".json.gz")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	var export FlightExport
	require.NoError(t, json.NewDecoder(gz).Decode(&export))
	assert.Len(t, export.Session.Terrain, 3)
}
