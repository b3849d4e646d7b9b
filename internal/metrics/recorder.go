// Package metrics defines the recorder interface the generator jobs report
// into, with a Prometheus implementation and a no-op fallback.
package metrics

import "time"

// Recorder receives generation progress events. Implementations must be safe
// for use from the single job runner goroutine.
type Recorder interface {
	// RecordJobDuration records one finished job run with its outcome status
	// ("completed" or "failed").
	RecordJobDuration(jobName, status string, d time.Duration)
	// RecordRowsGenerated adds to the per-table generated row counter.
	RecordRowsGenerated(jobName, table string, n int64)
	// RecordBatchFlush counts one flushed chunk for the given table.
	RecordBatchFlush(jobName, table string)
	// RecordSkippedAttempt counts a simulated attempt dropped for the given
	// reason (e.g. a method code missing from the lookup table).
	RecordSkippedAttempt(reason string)
}

// noopRecorder discards every event.
type noopRecorder struct{}

// NewNoopRecorder returns a Recorder that records nothing.
func NewNoopRecorder() Recorder {
	return noopRecorder{}
}

func (noopRecorder) RecordJobDuration(string, string, time.Duration) {}
func (noopRecorder) RecordRowsGenerated(string, string, int64)       {}
func (noopRecorder) RecordBatchFlush(string, string)                 {}
func (noopRecorder) RecordSkippedAttempt(string)                     {}
