package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewZerolog builds a console zerolog logger at the given level. Libraries in
// the storage and metrics paths (gorm, influx) take zerolog rather than slog.
func NewZerolog(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger().Level(lvl)
}
