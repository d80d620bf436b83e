// Package terrain holds the surface profile of the descent corridor and
// locates the flat segment the vehicle is expected to land on.
package terrain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
)

// MinZoneWidth is the minimum width of a flat segment that qualifies as a
// landing zone.
const MinZoneWidth = 1000

// ErrNoLandingZone is returned when the profile contains no flat segment wide
// enough to land on. Guidance cannot proceed without a target zone.
var ErrNoLandingZone = errors.New("no landing zone in terrain profile")

// Point is a single terrain vertex.
type Point struct {
	X int
	Y int
}

// Profile is the ordered terrain surface, ascending by X. It is loaded once at
// session start and never mutated afterwards.
type Profile []Point

// LandingZone is the flat terrain segment selected as the landing target.
// Left < Right always holds.
type LandingZone struct {
	Left   int
	Right  int
	Height int
}

// Width returns the horizontal extent of the zone.
func (z LandingZone) Width() int {
	return z.Right - z.Left
}

func (z LandingZone) String() string {
	return fmt.Sprintf("landing zone [%d, %d] at height %d", z.Left, z.Right, z.Height)
}

// FindLandingZone scans adjacent vertex pairs in profile order and returns the
// first pair with equal height and width of at least MinZoneWidth. The scan is
// deterministic: the first qualifying pair wins, not the widest or flattest.
func FindLandingZone(p Profile) (LandingZone, error) {
	if len(p) < 2 {
		return LandingZone{}, fmt.Errorf("profile has %d points, need at least 2: %w", len(p), ErrNoLandingZone)
	}
	for i := 1; i < len(p); i++ {
		a, b := p[i-1], p[i]
		if a.Y == b.Y && b.X-a.X >= MinZoneWidth {
			return LandingZone{Left: a.X, Right: b.X, Height: a.Y}, nil
		}
	}
	return LandingZone{}, ErrNoLandingZone
}

// ParseProfile reads the terrain wire format: a vertex count on the first
// line, then one "x y" pair per line. The profile must hold at least two
// vertices with strictly ascending x.
func ParseProfile(r io.Reader) (Profile, error) {
	return ScanProfile(bufio.NewScanner(r))
}

// ScanProfile reads the terrain wire format from an existing scanner.
// Telemetry follows the profile on the same stream, so the caller must keep
// using this scanner for it; a fresh one would drop buffered lines.
func ScanProfile(scanner *bufio.Scanner) (Profile, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading vertex count: %w", err)
		}
		return nil, fmt.Errorf("reading vertex count: %w", io.ErrUnexpectedEOF)
	}
	n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, fmt.Errorf("parsing vertex count %q: %w", scanner.Text(), err)
	}
	if n < 2 {
		return nil, fmt.Errorf("profile declares %d vertices, need at least 2", n)
	}

	profile := make(Profile, 0, n)
	for i := 0; i < n; i++ {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading vertex %d: %w", i, err)
			}
			return nil, fmt.Errorf("reading vertex %d: %w", i, io.ErrUnexpectedEOF)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			return nil, fmt.Errorf("vertex %d: expected 2 fields, got %d", i, len(fields))
		}
		x, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("vertex %d: parsing x %q: %w", i, fields[0], err)
		}
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("vertex %d: parsing y %q: %w", i, fields[1], err)
		}
		if i > 0 && x <= profile[i-1].X {
			return nil, fmt.Errorf("vertex %d: x %d does not ascend past %d", i, x, profile[i-1].X)
		}
		profile = append(profile, Point{X: x, Y: y})
	}

	return profile, nil
}

// HeightAt returns the ground elevation under x, interpolated linearly
// between profile vertices. Positions beyond either end clamp to the
// nearest vertex height.
func (p Profile) HeightAt(x float64) float64 {
	if len(p) == 0 {
		return 0
	}
	if x <= float64(p[0].X) {
		return float64(p[0].Y)
	}
	last := p[len(p)-1]
	if x >= float64(last.X) {
		return float64(last.Y)
	}
	for i := 1; i < len(p); i++ {
		a, b := p[i-1], p[i]
		if x <= float64(b.X) {
			t := (x - float64(a.X)) / float64(b.X-a.X)
			return float64(a.Y) + t*float64(b.Y-a.Y)
		}
	}
	return float64(last.Y)
}

// LineString returns the profile as a simplefeatures linestring, used by the
// flight recorder to persist terrain geometry in WKB form.
func (p Profile) LineString() (geom.LineString, error) {
	if len(p) == 0 {
		return geom.LineString{}, nil
	}
	coords := make([]float64, 0, len(p)*2)
	for _, pt := range p {
		coords = append(coords, float64(pt.X), float64(pt.Y))
	}
	seq := geom.NewSequence(coords, geom.DimXY)
	return geom.NewLineString(seq)
}
