// Package flightlog records guidance sessions for later review: the terrain,
// the landing zone, and every telemetry/command exchange.
package flightlog

import (
	"fmt"

	"github.com/DwoaC/lander/internal/config"
	"github.com/DwoaC/lander/internal/flightlog/memory"
	"github.com/DwoaC/lander/pkg/core"
)

// Backend is the interface all recorder implementations must satisfy.
// RecordTicks receives batches assembled by the Writer, never single records.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session recording
	StartSession(s *core.Session) error
	RecordTicks(recs []core.TickRecord) error
	EndSession(summary core.SessionSummary) error
}

// NewBackend creates a recorder backend based on configuration. The gorm and
// websocket backends need live dependencies and are wired by the caller; this
// factory covers the self-contained ones.
func NewBackend(cfg config.FlightlogConfig) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(memory.Config{
			OutputDir:      cfg.OutputDir,
			CompressOutput: cfg.CompressOutput,
		}), nil
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown flightlog type: %s", cfg.Type)
	}
}

// Nop is a recorder that discards everything.
type Nop struct{}

func (Nop) Init() error                              { return nil }
func (Nop) Close() error                             { return nil }
func (Nop) StartSession(*core.Session) error         { return nil }
func (Nop) RecordTicks([]core.TickRecord) error      { return nil }
func (Nop) EndSession(core.SessionSummary) error     { return nil }
