package refresh

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/JoshSmithXRM/tablekit/logger"
)

// scheduler is the default implementation of the Scheduler interface
type scheduler struct {
	cron        *cron.Cron
	middlewares []Middleware
	logger      logger.Logger

	mu    sync.Mutex
	names map[string]struct{}
}

func newScheduler(log logger.Logger, mws ...Middleware) *scheduler {
	return &scheduler{
		cron:        cron.New(cron.WithSeconds()),
		middlewares: mws,
		logger:      log,
		names:       make(map[string]struct{}),
	}
}

// Start begins the scheduler
func (s *scheduler) Start() {
	s.cron.Start()
}

// Close stops the scheduler and waits for running jobs to complete
func (s *scheduler) Close() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Add schedules a job on the given cron spec
func (s *scheduler) Add(spec string, job Job) error {
	if job == nil {
		return ErrNilJob
	}
	if job.Name() == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.names[job.Name()]; exists {
		return ErrDuplicateJob(job.Name())
	}

	wrapped := applyMiddlewares(job, s.middlewares...)
	if _, err := s.cron.AddFunc(spec, func() {
		_ = wrapped.Run(context.Background())
	}); err != nil {
		return ErrInvalidSpec(job.Name(), spec, err)
	}

	s.names[job.Name()] = struct{}{}
	s.logger.Info("refresh job scheduled",
		zap.String("job", job.Name()),
		zap.String("spec", spec),
	)
	return nil
}

// AddFunc schedules a plain function under the given name
func (s *scheduler) AddFunc(name, spec string, fn func(ctx context.Context) error) error {
	if fn == nil {
		return ErrNilJob
	}
	return s.Add(spec, &funcJob{name: name, exec: fn})
}
