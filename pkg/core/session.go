// Package core defines the flight-session record types shared by the flight
// recorder backends and the streaming protocol.
package core

import "time"

// TerrainPoint is one vertex of the surface profile.
type TerrainPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Zone is the landing target selected for the session.
type Zone struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Height int `json:"height"`
}

// Session describes one guidance run: the terrain it flew over and the zone
// it targeted.
type Session struct {
	StartedAt time.Time      `json:"startedAt"`
	Terrain   []TerrainPoint `json:"terrain"`
	Zone      Zone           `json:"zone"`
}

// TickRecord captures one full tick: the telemetry that arrived, the phase
// that settled the tick, and the command that was emitted.
type TickRecord struct {
	Tick int       `json:"tick"`
	Time time.Time `json:"time"`

	// Telemetry as reported by the physics source.
	X        int `json:"x"`
	Y        int `json:"y"`
	HSpeed   int `json:"hSpeed"`
	VSpeed   int `json:"vSpeed"`
	Fuel     int `json:"fuel"`
	Rotation int `json:"rotation"`
	Power    int `json:"power"`

	// Guidance output.
	Phase           string `json:"phase"`
	CommandRotation int    `json:"commandRotation"`
	CommandPower    int    `json:"commandPower"`
}

// SessionSummary is recorded when a session ends.
type SessionSummary struct {
	EndedAt   time.Time `json:"endedAt"`
	Ticks     int       `json:"ticks"`
	FinalFuel int       `json:"finalFuel"`
}
