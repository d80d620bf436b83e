package terrain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLandingZone(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    LandingZone
		wantErr bool
	}{
		{
			name:    "flat segment at profile start",
			profile: Profile{{0, 100}, {1000, 100}, {1500, 200}},
			want:    LandingZone{Left: 0, Right: 1000, Height: 100},
		},
		{
			name:    "flat segment mid profile",
			profile: Profile{{0, 500}, {300, 150}, {1400, 150}, {2000, 400}},
			want:    LandingZone{Left: 300, Right: 1400, Height: 150},
		},
		{
			name:    "first qualifying pair wins over a wider one",
			profile: Profile{{0, 100}, {1000, 100}, {1200, 50}, {4000, 50}},
			want:    LandingZone{Left: 0, Right: 1000, Height: 100},
		},
		{
			name:    "flat segment too narrow",
			profile: Profile{{0, 100}, {999, 100}, {1500, 200}},
			wantErr: true,
		},
		{
			name:    "exactly minimum width qualifies",
			profile: Profile{{0, 300}, {200, 100}, {1200, 100}},
			want:    LandingZone{Left: 200, Right: 1200, Height: 100},
		},
		{
			name:    "no two adjacent points share a height",
			profile: Profile{{0, 100}, {1500, 200}, {3000, 50}},
			wantErr: true,
		},
		{
			name:    "single point",
			profile: Profile{{0, 100}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone, err := FindLandingZone(tt.profile)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNoLandingZone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, zone)
			assert.Less(t, zone.Left, zone.Right)
		})
	}
}

func TestParseProfile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Profile
		wantErr string
	}{
		{
			name:  "valid profile",
			input: "3\n0 100\n1000 100\n1500 200\n",
			want:  Profile{{0, 100}, {1000, 100}, {1500, 200}},
		},
		{
			name:  "negative heights allowed",
			input: "2\n0 -20\n2500 -20\n",
			want:  Profile{{0, -20}, {2500, -20}},
		},
		{
			name:    "count below minimum",
			input:   "1\n0 100\n",
			wantErr: "need at least 2",
		},
		{
			name:    "non numeric count",
			input:   "abc\n0 100\n",
			wantErr: "parsing vertex count",
		},
		{
			name:    "missing vertex line",
			input:   "3\n0 100\n1000 100\n",
			wantErr: "reading vertex 2",
		},
		{
			name:    "wrong field count",
			input:   "2\n0 100\n1000\n",
			wantErr: "expected 2 fields",
		},
		{
			name:    "non numeric coordinate",
			input:   "2\n0 100\nbogus 100\n",
			wantErr: "parsing x",
		},
		{
			name:    "x not ascending",
			input:   "3\n0 100\n500 100\n500 200\n",
			wantErr: "does not ascend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := ParseProfile(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, profile)
		})
	}
}

func TestProfileLineString(t *testing.T) {
	p := Profile{{0, 100}, {1000, 100}, {1500, 200}}
	ls, err := p.LineString()
	require.NoError(t, err)
	seq := ls.Coordinates()
	require.Equal(t, 3, seq.Length())
	assert.Equal(t, 0.0, seq.GetXY(0).X)
	assert.Equal(t, 100.0, seq.GetXY(0).Y)
	assert.Equal(t, 1500.0, seq.GetXY(2).X)

	empty, err := Profile{}.LineString()
	require.NoError(t, err)
	assert.Zero(t, empty.Coordinates().Length())
}

func TestHeightAt(t *testing.T) {
	p := Profile{{0, 100}, {1000, 100}, {1500, 200}}

	assert.Equal(t, 100.0, p.HeightAt(500))
	assert.Equal(t, 150.0, p.HeightAt(1250))
	assert.Equal(t, 100.0, p.HeightAt(-50), "clamps before first vertex")
	assert.Equal(t, 200.0, p.HeightAt(9000), "clamps past last vertex")
	assert.Equal(t, 0.0, Profile{}.HeightAt(100))
}

func TestZoneWidth(t *testing.T) {
	z := LandingZone{Left: 300, Right: 1400, Height: 150}
	assert.Equal(t, 1100, z.Width())
}
