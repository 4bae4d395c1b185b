// Package telemetry provides error reporters for the ingestion pipeline.
// Reports are fire-and-forget: Report never blocks the caller.
package telemetry

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pemre/couchspinner/internal/core/ports/driven"
	"github.com/pemre/couchspinner/internal/logger"
)

// Ensure reporters implement the interface.
var (
	_ driven.ErrorReporter = (*LogReporter)(nil)
	_ driven.ErrorReporter = NopReporter{}
)

// DefaultBuffer is the number of reports queued before new ones are dropped.
const DefaultBuffer = 64

// Report is one queued error report.
type Report struct {
	Err    error
	Fields map[string]any
}

// Sink receives reports on the reporter's goroutine.
type Sink func(Report)

// LogSink writes reports to the application log.
func LogSink(r Report) {
	logger.Event(r.Err, "error reported", r.Fields)
}

// LogReporter delivers reports to a sink from a background goroutine.
// When the queue is full reports are dropped and counted.
type LogReporter struct {
	mu      sync.RWMutex
	closed  bool
	reports chan Report
	done    chan struct{}
	dropped atomic.Int64
}

// NewLogReporter starts a reporter with the given queue size. A nil sink
// writes to the application log.
func NewLogReporter(buffer int, sink Sink) *LogReporter {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if sink == nil {
		sink = LogSink
	}

	r := &LogReporter{
		reports: make(chan Report, buffer),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(r.done)
		for report := range r.reports {
			sink(report)
		}
	}()

	return r
}

// Report queues err for delivery. Fields are copied.
func (r *LogReporter) Report(_ context.Context, err error, fields map[string]any) {
	if err == nil {
		return
	}

	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.dropped.Add(1)
		return
	}

	select {
	case r.reports <- Report{Err: err, Fields: copied}:
	default:
		r.dropped.Add(1)
	}
}

// Dropped returns how many reports were discarded.
func (r *LogReporter) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops accepting reports and waits for queued ones to be delivered.
func (r *LogReporter) Close() error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.reports)
	}
	r.mu.Unlock()

	<-r.done
	return nil
}

// NopReporter discards every report.
type NopReporter struct{}

// Report does nothing.
func (NopReporter) Report(context.Context, error, map[string]any) {}
