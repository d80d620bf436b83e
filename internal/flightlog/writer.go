package flightlog

import (
	"fmt"

	"github.com/DwoaC/lander/internal/queue"
	"github.com/DwoaC/lander/pkg/core"
)

// Writer buffers tick records and hands them to a backend in batches so the
// tick loop never pays per-record backend cost.
type Writer struct {
	backend    Backend
	pending    *queue.Queue[core.TickRecord]
	flushEvery int
	ticks      int
}

// NewWriter wraps a backend with batching. flushEvery is the number of
// buffered records that triggers a flush; values below 1 flush every record.
func NewWriter(backend Backend, flushEvery int) *Writer {
	if flushEvery < 1 {
		flushEvery = 1
	}
	return &Writer{
		backend:    backend,
		pending:    queue.New[core.TickRecord](),
		flushEvery: flushEvery,
	}
}

// StartSession forwards the session description to the backend.
func (w *Writer) StartSession(s *core.Session) error {
	return w.backend.StartSession(s)
}

// Record buffers one tick, flushing when the batch is full.
func (w *Writer) Record(rec core.TickRecord) error {
	w.pending.Push(rec)
	w.ticks++
	if w.pending.Len() >= w.flushEvery {
		return w.Flush()
	}
	return nil
}

// Flush drains the buffer into the backend.
func (w *Writer) Flush() error {
	recs := w.pending.GetAndEmpty()
	if len(recs) == 0 {
		return nil
	}
	if err := w.backend.RecordTicks(recs); err != nil {
		return fmt.Errorf("flushing %d tick records: %w", len(recs), err)
	}
	return nil
}

// Ticks returns the number of records seen so far.
func (w *Writer) Ticks() int {
	return w.ticks
}

// Pending returns the number of buffered, unflushed records.
func (w *Writer) Pending() int {
	return w.pending.Len()
}

// EndSession flushes the remaining buffer and closes out the session.
func (w *Writer) EndSession(summary core.SessionSummary) error {
	if err := w.Flush(); err != nil {
		return err
	}
	return w.backend.EndSession(summary)
}
