// Package gormstore persists flight sessions to a relational database
// through gorm. It works against whichever dialect the database manager
// connected, Postgres when reachable and embedded SQLite otherwise.
package gormstore

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/DwoaC/lander/internal/flightlog"
	"github.com/DwoaC/lander/internal/logging"
	"github.com/DwoaC/lander/pkg/core"
)

var _ flightlog.Backend = (*Backend)(nil)

// tickBatchSize bounds a single INSERT so SQLite's variable limit is never hit.
const tickBatchSize = 500

type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
}

// Backend writes sessions and tick batches through a shared gorm handle.
// The handle's lifecycle belongs to the database manager, not the backend.
type Backend struct {
	db  *gorm.DB
	log *slog.Logger

	mu        sync.Mutex
	sessionID uint
	ticks     int
}

func New(deps Dependencies) *Backend {
	return &Backend{
		db:  deps.DB,
		log: deps.LogManager.Logger().With("backend", "gorm"),
	}
}

func (b *Backend) Init() error {
	if b.db == nil {
		return fmt.Errorf("gormstore: no database handle")
	}
	if err := b.db.AutoMigrate(databaseModels...); err != nil {
		return fmt.Errorf("gormstore: migrate: %w", err)
	}
	return nil
}

// Close is a no-op, the database manager owns the connection.
func (b *Backend) Close() error { return nil }

func (b *Backend) StartSession(s *core.Session) error {
	row, err := newSessionRow(s)
	if err != nil {
		return fmt.Errorf("gormstore: encode session: %w", err)
	}
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("gormstore: create session: %w", err)
	}

	b.mu.Lock()
	b.sessionID = row.ID
	b.ticks = 0
	b.mu.Unlock()

	b.log.Info("session started",
		"sessionId", row.ID,
		"zoneLeft", s.Zone.Left,
		"zoneRight", s.Zone.Right,
	)
	return nil
}

func (b *Backend) RecordTicks(recs []core.TickRecord) error {
	if len(recs) == 0 {
		return nil
	}

	b.mu.Lock()
	sessionID := b.sessionID
	b.mu.Unlock()
	if sessionID == 0 {
		return fmt.Errorf("gormstore: ticks recorded before session start")
	}

	rows := make([]TickRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, newTickRow(sessionID, rec))
	}
	if err := b.db.CreateInBatches(rows, tickBatchSize).Error; err != nil {
		return fmt.Errorf("gormstore: insert ticks: %w", err)
	}

	b.mu.Lock()
	b.ticks += len(rows)
	b.mu.Unlock()
	return nil
}

func (b *Backend) EndSession(summary core.SessionSummary) error {
	b.mu.Lock()
	sessionID := b.sessionID
	b.mu.Unlock()
	if sessionID == 0 {
		return fmt.Errorf("gormstore: session ended before start")
	}

	updates := map[string]any{
		"ended_at":   sql.NullTime{Time: summary.EndedAt, Valid: true},
		"tick_count": summary.Ticks,
		"final_fuel": summary.FinalFuel,
	}
	err := b.db.Model(&SessionRow{}).Where("id = ?", sessionID).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("gormstore: close session: %w", err)
	}

	b.log.Info("session ended",
		"sessionId", sessionID,
		"ticks", summary.Ticks,
		"finalFuel", summary.FinalFuel,
	)

	b.mu.Lock()
	b.sessionID = 0
	b.mu.Unlock()
	return nil
}

// SessionID reports the active session row, zero outside a session.
func (b *Backend) SessionID() uint {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessionID
}
