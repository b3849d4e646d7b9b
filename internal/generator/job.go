// Package generator contains the data-generation jobs: one per target table
// plus schema migration, reset and export. Jobs run sequentially in the
// order configured under shopseed.jobs.
package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/shopseed/shopseed/internal/metrics"
	"github.com/shopseed/shopseed/pkg/support/logger"
)

// Job is one runnable generation step.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry resolves configured job names to Job instances.
type Registry struct {
	jobs map[string]Job
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]Job)}
}

// Register adds a job. Registering the same name twice is a programming
// error and panics during startup wiring.
func (r *Registry) Register(job Job) {
	if _, dup := r.jobs[job.Name()]; dup {
		panic(fmt.Sprintf("generator job '%s' registered twice", job.Name()))
	}
	r.jobs[job.Name()] = job
}

// Get resolves a job by name.
func (r *Registry) Get(name string) (Job, error) {
	job, ok := r.jobs[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator job: '%s'", name)
	}
	return job, nil
}

// RunSequence executes the named jobs in order, recording per-job durations.
// The first failure aborts the sequence.
func (r *Registry) RunSequence(ctx context.Context, names []string, rec metrics.Recorder) error {
	for _, name := range names {
		job, err := r.Get(name)
		if err != nil {
			return err
		}
		logger.Infof("Starting job '%s'.", name)
		start := time.Now()
		if err := job.Run(ctx); err != nil {
			rec.RecordJobDuration(name, "failed", time.Since(start))
			return fmt.Errorf("job '%s' failed: %w", name, err)
		}
		rec.RecordJobDuration(name, "completed", time.Since(start))
		logger.Infof("Job '%s' completed in %s.", name, time.Since(start).Round(time.Millisecond))
	}
	return nil
}
