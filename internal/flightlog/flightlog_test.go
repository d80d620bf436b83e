package flightlog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DwoaC/lander/internal/config"
	"github.com/DwoaC/lander/internal/flightlog/memory"
	"github.com/DwoaC/lander/pkg/core"
)

var (
	_ Backend = (*memory.Backend)(nil)
	_ Backend = Nop{}
)

// fakeBackend records the batch sizes it receives.
type fakeBackend struct {
	Nop
	batches [][]core.TickRecord
	err     error
}

func (f *fakeBackend) RecordTicks(recs []core.TickRecord) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, recs)
	return nil
}

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.FlightlogConfig
		check   func(t *testing.T, b Backend)
		wantErr bool
	}{
		{
			name: "memory",
			cfg:  config.FlightlogConfig{Type: "memory", OutputDir: t.TempDir()},
			check: func(t *testing.T, b Backend) {
				assert.IsType(t, &memory.Backend{}, b)
			},
		},
		{
			name: "none",
			cfg:  config.FlightlogConfig{Type: "none"},
			check: func(t *testing.T, b Backend) {
				assert.IsType(t, Nop{}, b)
			},
		},
		{
			name:    "unknown",
			cfg:     config.FlightlogConfig{Type: "carrier-pigeon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBackend(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, b)
		})
	}
}

func TestWriterBatching(t *testing.T) {
	fb := &fakeBackend{}
	w := NewWriter(fb, 3)

	for i := 1; i <= 7; i++ {
		require.NoError(t, w.Record(core.TickRecord{Tick: i}))
	}

	require.Len(t, fb.batches, 2, "two full batches flushed")
	assert.Len(t, fb.batches[0], 3)
	assert.Len(t, fb.batches[1], 3)
	assert.Equal(t, 1, w.Pending())
	assert.Equal(t, 7, w.Ticks())

	require.NoError(t, w.EndSession(core.SessionSummary{EndedAt: time.Now(), Ticks: 7}))
	require.Len(t, fb.batches, 3, "EndSession flushes the remainder")
	assert.Len(t, fb.batches[2], 1)
	assert.Zero(t, w.Pending())
}

func TestWriterFlushEveryFloor(t *testing.T) {
	fb := &fakeBackend{}
	w := NewWriter(fb, 0)

	require.NoError(t, w.Record(core.TickRecord{Tick: 1}))
	assert.Len(t, fb.batches, 1, "flushEvery below 1 flushes per record")
}

func TestWriterFlushErrorPropagates(t *testing.T) {
	fb := &fakeBackend{err: errors.New("disk gone")}
	w := NewWriter(fb, 1)

	err := w.Record(core.TickRecord{Tick: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestFlushWithEmptyBufferIsNoop(t *testing.T) {
	fb := &fakeBackend{}
	w := NewWriter(fb, 5)

	require.NoError(t, w.Flush())
	assert.Empty(t, fb.batches)
}
