// Package refresh schedules periodic cache reloads. Datasets that change
// without emitting invalidation events stay fresh by reloading on a cron
// spec instead.
package refresh

import (
	"context"

	"github.com/JoshSmithXRM/tablekit/logger"
	"github.com/JoshSmithXRM/tablekit/paging"
	"github.com/JoshSmithXRM/tablekit/vtcache"
)

// Job is one scheduled unit of work
type Job interface {
	// Name returns the unique identifier for this job
	Name() string
	// Run executes the job with the given context
	Run(ctx context.Context) error
}

// Scheduler runs jobs on cron specs
type Scheduler interface {
	// Start begins the scheduler
	Start()
	// Close stops the scheduler and waits for running jobs to complete
	Close()
	// Add schedules a job. The spec follows the standard cron format with
	// support for seconds (6 fields), e.g. "0 */5 * * * *" for every five
	// minutes.
	Add(spec string, job Job) error
	// AddFunc schedules a plain function under the given name
	AddFunc(name, spec string, fn func(ctx context.Context) error) error
}

// NewScheduler creates a scheduler with the given logger and middlewares.
// Middlewares are applied to all jobs in the order they are provided, after
// the built-in recovery and logging middlewares.
func NewScheduler(log logger.Logger, mws ...Middleware) Scheduler {
	if log == nil {
		log = logger.NewNop()
	}
	defaultMws := []Middleware{
		recoveryMiddleware(log),
		loggingMiddleware(log),
	}
	return newScheduler(log, append(defaultMws, mws...)...)
}

// CacheRefreshJob builds a job that reloads a record cache from its
// provider with the given query options.
func CacheRefreshJob[T any](name string, cache vtcache.Cache[T], opts *paging.QueryOptions) Job {
	return &funcJob{
		name: name,
		exec: func(ctx context.Context) error {
			_, err := cache.LoadInitialPage(ctx, opts)
			return err
		},
	}
}

// funcJob adapts a function to the Job interface
type funcJob struct {
	name string
	exec func(ctx context.Context) error
}

func (j *funcJob) Name() string {
	return j.name
}

func (j *funcJob) Run(ctx context.Context) error {
	return j.exec(ctx)
}
