package refresh

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/JoshSmithXRM/tablekit/logger"
)

// Middleware is a function that wraps a Job with additional behavior
type Middleware func(Job) Job

// applyMiddlewares applies multiple middlewares to a job
// Middlewares are applied from last to first, ensuring execution order is intuitive
// Example: applyMiddlewares(job, mw1, mw2, mw3) results in: mw1(mw2(mw3(job)))
func applyMiddlewares(j Job, mws ...Middleware) Job {
	for i := len(mws) - 1; i >= 0; i-- {
		j = mws[i](j)
	}
	return j
}

// recoveryMiddleware wraps a job with panic recovery
// If a job panics, the panic is recovered and logged, preventing the entire process from crashing
// The panic is converted to an error and returned to the caller
func recoveryMiddleware(log logger.Logger) Middleware {
	return func(next Job) Job {
		return &funcJob{
			name: next.Name(),
			exec: func(ctx context.Context) (err error) {
				defer func() {
					if r := recover(); r != nil {
						log.Error("refresh job panicked",
							zap.String("job", next.Name()),
							zap.Any("panic", r),
							zap.String("stack", string(debug.Stack())),
						)
						err = fmt.Errorf("refresh: job %s panicked: %v", next.Name(), r)
					}
				}()
				return next.Run(ctx)
			},
		}
	}
}

// loggingMiddleware wraps a job with start and completion logs
func loggingMiddleware(log logger.Logger) Middleware {
	return func(next Job) Job {
		return &funcJob{
			name: next.Name(),
			exec: func(ctx context.Context) error {
				start := time.Now()
				log.Info("refresh job started", zap.String("job", next.Name()))

				err := next.Run(ctx)

				duration := time.Since(start)
				if err != nil {
					log.Error("refresh job failed",
						zap.String("job", next.Name()),
						zap.Duration("duration", duration),
						zap.Error(err),
					)
				} else {
					log.Info("refresh job completed",
						zap.String("job", next.Name()),
						zap.Duration("duration", duration),
					)
				}
				return err
			},
		}
	}
}
