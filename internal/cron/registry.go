package cron

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Job is one maintenance task run each cycle. Name keys logs and metrics.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds jobs in run order. Names must be unique so metric series
// never merge two jobs.
type Registry struct {
	jobs []Job
}

// NewRegistry registers jobs in order, skipping nils. A duplicate or blank
// name is a wiring bug and panics.
func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{}
	for _, job := range jobs {
		if job == nil {
			continue
		}
		if err := r.Register(job); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Register(job Job) error {
	if job == nil {
		return fmt.Errorf("cron: nil job")
	}
	name := strings.TrimSpace(job.Name())
	if name == "" {
		return fmt.Errorf("cron: job %T has no name", job)
	}
	if slices.Contains(r.Names(), name) {
		return fmt.Errorf("cron: job %q already registered", name)
	}
	r.jobs = append(r.jobs, job)
	return nil
}

// Jobs returns a copy in registration order.
func (r *Registry) Jobs() []Job {
	return slices.Clone(r.jobs)
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.jobs))
	for i, job := range r.jobs {
		names[i] = job.Name()
	}
	return names
}
