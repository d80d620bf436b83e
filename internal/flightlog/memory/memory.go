// Package memory records a session in memory and exports it to a JSON file
// when the session ends.
package memory

import (
	"fmt"
	"sync"

	"github.com/DwoaC/lander/pkg/core"
)

// Config holds memory backend settings.
type Config struct {
	OutputDir      string
	CompressOutput bool
}

// Backend accumulates the session in memory. Export happens in EndSession.
type Backend struct {
	cfg Config

	mu       sync.Mutex
	session  *core.Session
	ticks    []core.TickRecord
	summary  core.SessionSummary
	exported string // path of the exported file, set by EndSession
}

// New creates a new memory backend.
func New(cfg Config) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session.
func (b *Backend) StartSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session != nil {
		return fmt.Errorf("session already started")
	}
	b.session = s
	return nil
}

// RecordTicks appends a batch of tick records.
func (b *Backend) RecordTicks(recs []core.TickRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return fmt.Errorf("no session in progress")
	}
	b.ticks = append(b.ticks, recs...)
	return nil
}

// EndSession stores the summary and writes the export file.
func (b *Backend) EndSession(summary core.SessionSummary) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return fmt.Errorf("no session in progress")
	}
	b.summary = summary
	return b.exportJSON()
}

// TickCount returns the number of recorded ticks.
func (b *Backend) TickCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ticks)
}

// ExportedFilePath returns the path written by EndSession, empty before then.
func (b *Backend) ExportedFilePath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exported
}
