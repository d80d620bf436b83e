package command

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		rotation float64
		power    float64
		want     Command
	}{
		{
			name:     "in range passes through",
			rotation: 20, power: 3,
			want: Command{Rotation: 20, Power: 3},
		},
		{
			name:     "rounds half away from zero",
			rotation: 22.5, power: 3.5,
			want: Command{Rotation: 23, Power: 4},
		},
		{
			name:     "rounds negative half away from zero",
			rotation: -22.5, power: 0.4,
			want: Command{Rotation: -23, Power: 0},
		},
		{
			name:     "clamps rotation high",
			rotation: 120, power: 3,
			want: Command{Rotation: 90, Power: 3},
		},
		{
			name:     "clamps rotation low",
			rotation: -200, power: 3,
			want: Command{Rotation: -90, Power: 3},
		},
		{
			name:     "clamps power high",
			rotation: 0, power: 9.7,
			want: Command{Rotation: 0, Power: 4},
		},
		{
			name:     "clamps power low",
			rotation: 0, power: -2,
			want: Command{Rotation: 0, Power: 0},
		},
		{
			name:     "rounding may push value to the clamp boundary",
			rotation: 89.6, power: 3.6,
			want: Command{Rotation: 90, Power: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.rotation, tt.power)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Rotation, MinRotation)
			assert.LessOrEqual(t, got.Rotation, MaxRotation)
			assert.GreaterOrEqual(t, got.Power, MinPower)
			assert.LessOrEqual(t, got.Power, MaxPower)
		})
	}
}

func TestSinkEmit(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	require.NoError(t, sink.Emit(Command{Rotation: -25, Power: 4}))
	require.NoError(t, sink.Emit(Command{Rotation: 0, Power: 3}))

	assert.Equal(t, "-25 4\n0 3\n", buf.String())
}
