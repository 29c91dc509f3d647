package cron

import "context"

// Job represents a scheduled task that runs inside the cron worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the worker's job set. Job names double as metric
// labels, so each name registers at most once; later duplicates are
// dropped.
type Registry struct {
	order []Job
	seen  map[string]bool
}

// NewRegistry builds a registry preloaded with the provided jobs.
func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{seen: map[string]bool{}}
	for _, job := range jobs {
		registry.Register(job)
	}
	return registry
}

// Register adds a job unless its name is already taken.
func (r *Registry) Register(job Job) {
	if job == nil || r.seen[job.Name()] {
		return
	}
	r.seen[job.Name()] = true
	r.order = append(r.order, job)
}

// Jobs returns the registered jobs in registration order.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.order))
	copy(jobs, r.order)
	return jobs
}

// Names lists registered job names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, job := range r.order {
		names = append(names, job.Name())
	}
	return names
}
