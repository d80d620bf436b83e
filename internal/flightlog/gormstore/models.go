package gormstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/DwoaC/lander/internal/terrain"
	"github.com/DwoaC/lander/pkg/core"
)

// SessionRow is one guidance session. Terrain geometry is stored as WKB so
// viewers with spatial support can read it directly; the raw vertex list is
// kept alongside as JSON for everything else.
type SessionRow struct {
	ID        uint `gorm:"primarykey"`
	StartedAt time.Time
	EndedAt   sql.NullTime

	ZoneLeft   int
	ZoneRight  int
	ZoneHeight int

	TerrainGeom []byte
	TerrainJSON datatypes.JSON

	TickCount int
	FinalFuel int
}

// TickRow is one telemetry/command exchange within a session.
type TickRow struct {
	ID        uint `gorm:"primarykey"`
	SessionID uint `gorm:"index"`
	Tick      int
	Time      time.Time

	X        int
	Y        int
	HSpeed   int
	VSpeed   int
	Fuel     int
	Rotation int
	Power    int

	Phase           string
	CommandRotation int
	CommandPower    int
}

// databaseModels lists every table the backend migrates.
var databaseModels = []any{
	&SessionRow{},
	&TickRow{},
}

// terrainProfile rebuilds the terrain profile from the session's vertex list
// so geometry conversions stay in one place.
func terrainProfile(points []core.TerrainPoint) terrain.Profile {
	profile := make(terrain.Profile, 0, len(points))
	for _, pt := range points {
		profile = append(profile, terrain.Point{X: pt.X, Y: pt.Y})
	}
	return profile
}

// newSessionRow flattens a core.Session into its table form.
func newSessionRow(s *core.Session) (SessionRow, error) {
	rawTerrain, err := json.Marshal(s.Terrain)
	if err != nil {
		return SessionRow{}, err
	}
	ls, err := terrainProfile(s.Terrain).LineString()
	if err != nil {
		return SessionRow{}, fmt.Errorf("building terrain linestring: %w", err)
	}
	return SessionRow{
		StartedAt:   s.StartedAt,
		ZoneLeft:    s.Zone.Left,
		ZoneRight:   s.Zone.Right,
		ZoneHeight:  s.Zone.Height,
		TerrainGeom: ls.AsBinary(),
		TerrainJSON: datatypes.JSON(rawTerrain),
	}, nil
}

// newTickRow flattens a core.TickRecord into its table form.
func newTickRow(sessionID uint, rec core.TickRecord) TickRow {
	return TickRow{
		SessionID:       sessionID,
		Tick:            rec.Tick,
		Time:            rec.Time,
		X:               rec.X,
		Y:               rec.Y,
		HSpeed:          rec.HSpeed,
		VSpeed:          rec.VSpeed,
		Fuel:            rec.Fuel,
		Rotation:        rec.Rotation,
		Power:           rec.Power,
		Phase:           rec.Phase,
		CommandRotation: rec.CommandRotation,
		CommandPower:    rec.CommandPower,
	}
}
