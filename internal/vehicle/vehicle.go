// Package vehicle tracks the latest telemetry record and answers geometric
// queries about the vehicle's position relative to the landing zone.
package vehicle

import (
	"github.com/DwoaC/lander/internal/telemetry"
	"github.com/DwoaC/lander/internal/terrain"
)

// State wraps the current telemetry record and the fixed landing zone for the
// session. Derived quantities are recomputed on each query; telemetry changes
// at most once per tick so no caching is needed.
//
// The immediately previous record is retained for reference but no control
// law depends on it.
type State struct {
	zone terrain.LandingZone

	cur     telemetry.Record
	prev    telemetry.Record
	hasCur  bool
	hasPrev bool
}

// NewState creates a vehicle state bound to the session's landing zone.
func NewState(zone terrain.LandingZone) *State {
	return &State{zone: zone}
}

// Zone returns the landing zone the session is targeting.
func (s *State) Zone() terrain.LandingZone {
	return s.zone
}

// Update overwrites the current record wholesale, keeping the old one as the
// previous record.
func (s *State) Update(rec telemetry.Record) {
	if s.hasCur {
		s.prev = s.cur
		s.hasPrev = true
	}
	s.cur = rec
	s.hasCur = true
}

// Current returns the latest telemetry record.
func (s *State) Current() telemetry.Record {
	return s.cur
}

// Previous returns the record before the current one, if any.
func (s *State) Previous() (telemetry.Record, bool) {
	return s.prev, s.hasPrev
}

// Altitude is the vehicle's height above the landing zone.
func (s *State) Altitude() int {
	return s.cur.Y - s.zone.Height
}

// IsOverZone reports whether the vehicle is horizontally within the zone,
// edges inclusive.
func (s *State) IsOverZone() bool {
	return s.zone.Left <= s.cur.X && s.cur.X <= s.zone.Right
}

// IsLeftOfZone reports whether the vehicle is left of the zone's left edge.
func (s *State) IsLeftOfZone() bool {
	return s.cur.X < s.zone.Left
}

// IsRightOfZone reports whether the vehicle is right of the zone's right edge.
func (s *State) IsRightOfZone() bool {
	return s.cur.X > s.zone.Right
}

// DistanceToZone is the signed horizontal offset to the nearer zone edge:
// negative when left of the zone, positive when right of it. It is only
// defined while the vehicle is off to one side; callers must check IsOverZone
// first. Querying it over the zone is a sequencing bug and panics.
func (s *State) DistanceToZone() int {
	switch {
	case s.IsLeftOfZone():
		return s.cur.X - s.zone.Left
	case s.IsRightOfZone():
		return s.cur.X - s.zone.Right
	}
	panic("vehicle: DistanceToZone queried while over the landing zone")
}
