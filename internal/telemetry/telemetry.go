// Package telemetry defines the per-tick vehicle state record and the source
// that reads records from the physics collaborator's wire format.
package telemetry

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// recordFields is the number of integers in one telemetry line.
const recordFields = 7

// Record is one vehicle state report, delivered once per tick. Rotation and
// Power are the vehicle's actual applied values fed back by the physics
// source, not a new command.
type Record struct {
	X        int
	Y        int
	HSpeed   int
	VSpeed   int
	Fuel     int
	Rotation int
	Power    int
}

// Source reads telemetry records line by line. One line carries the seven
// integers "x y hSpeed vSpeed fuel rotation power".
type Source struct {
	scanner *bufio.Scanner
	line    int
}

// NewSource wraps a reader supplying one telemetry line per tick.
func NewSource(r io.Reader) *Source {
	return NewSourceFromScanner(bufio.NewScanner(r))
}

// NewSourceFromScanner builds a source over an existing scanner, so telemetry
// can continue on the stream the terrain profile was read from.
func NewSourceFromScanner(scanner *bufio.Scanner) *Source {
	return &Source{scanner: scanner}
}

// Next returns the next telemetry record. It returns io.EOF once the source
// is exhausted, which ends the session. A malformed line is rejected with an
// error; there is no partial recovery within a tick.
func (s *Source) Next() (Record, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return Record{}, fmt.Errorf("reading telemetry line %d: %w", s.line+1, err)
		}
		return Record{}, io.EOF
	}
	s.line++

	fields := strings.Fields(s.scanner.Text())
	if len(fields) != recordFields {
		return Record{}, fmt.Errorf("telemetry line %d: expected %d fields, got %d", s.line, recordFields, len(fields))
	}

	values := make([]int, recordFields)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Record{}, fmt.Errorf("telemetry line %d: parsing field %d %q: %w", s.line, i, f, err)
		}
		values[i] = v
	}

	return Record{
		X:        values[0],
		Y:        values[1],
		HSpeed:   values[2],
		VSpeed:   values[3],
		Fuel:     values[4],
		Rotation: values[5],
		Power:    values[6],
	}, nil
}
