package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DwoaC/lander/pkg/core"
)

// FlightExport is the root JSON structure of an exported session.
type FlightExport struct {
	Session *core.Session       `json:"session"`
	Ticks   []core.TickRecord   `json:"ticks"`
	Summary core.SessionSummary `json:"summary"`
}

// exportJSON writes the session to a JSON file, gzipped when configured.
// Caller holds b.mu.
func (b *Backend) exportJSON() error {
	export := FlightExport{
		Session: b.session,
		Ticks:   b.ticks,
		Summary: b.summary,
	}

	timestamp := b.session.StartedAt.Format("20060102_150405")
	filename := fmt.Sprintf("flight_%s.json", timestamp)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}

	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(b.cfg.OutputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		if err := json.NewEncoder(gz).Encode(export); err != nil {
			gz.Close()
			return fmt.Errorf("encoding export: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("closing gzip stream: %w", err)
		}
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(export); err != nil {
			return fmt.Errorf("encoding export: %w", err)
		}
	}

	b.exported = path
	return nil
}
