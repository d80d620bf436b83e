package telemetry

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DwoaC/lander/internal/terrain"
)

func TestSourceNext(t *testing.T) {
	src := NewSource(strings.NewReader("2500 2700 0 0 550 0 0\n2545 2694 -10 -5 540 15 2\n"))

	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, Record{X: 2500, Y: 2700, HSpeed: 0, VSpeed: 0, Fuel: 550, Rotation: 0, Power: 0}, rec)

	rec, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, Record{X: 2545, Y: 2694, HSpeed: -10, VSpeed: -5, Fuel: 540, Rotation: 15, Power: 2}, rec)

	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSourceNextMalformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "too few fields",
			input:   "2500 2700 0 0 550 0\n",
			wantErr: "expected 7 fields, got 6",
		},
		{
			name:    "too many fields",
			input:   "2500 2700 0 0 550 0 0 9\n",
			wantErr: "expected 7 fields, got 8",
		},
		{
			name:    "non numeric field",
			input:   "2500 2700 0 zero 550 0 0\n",
			wantErr: "parsing field 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSource(strings.NewReader(tt.input))
			_, err := src.Next()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSourceEmptyInput(t *testing.T) {
	src := NewSource(strings.NewReader(""))
	_, err := src.Next()
	assert.ErrorIs(t, err, io.EOF)
}

// The terrain profile and telemetry arrive on the same stream; building a
// source from the profile's scanner must not lose any lines.
func TestSourceContinuesAfterProfileScan(t *testing.T) {
	input := "2\n0 100\n6999 100\n2500 2700 0 0 550 0 0\n"
	scanner := bufio.NewScanner(strings.NewReader(input))

	profile, err := terrain.ScanProfile(scanner)
	require.NoError(t, err)
	require.Len(t, profile, 2)

	src := NewSourceFromScanner(scanner)
	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, Record{X: 2500, Y: 2700, Fuel: 550}, rec)

	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
}
