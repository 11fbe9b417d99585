package routine

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/JoshSmithXRM/tablekit/logger"
)

func TestRunner_Go(t *testing.T) {
	runner := New(logger.NewNop())

	var executed atomic.Bool
	runner.Go(func() {
		executed.Store(true)
	})

	runner.Wait()

	if !executed.Load() {
		t.Error("expected function to be executed")
	}
}

func TestRunner_Go_WithPanic(t *testing.T) {
	runner := New(logger.NewNop())

	var beforePanic, afterPanic atomic.Bool
	runner.Go(func() {
		beforePanic.Store(true)
		panic("test panic")
	})

	// start another goroutine to verify runner still works after a panic
	runner.Go(func() {
		afterPanic.Store(true)
	})

	runner.Wait()

	if !beforePanic.Load() {
		t.Error("expected code before panic to execute")
	}
	if !afterPanic.Load() {
		t.Error("expected goroutine after panic to execute")
	}
}

func TestRunner_GoNamed_WithPanic(t *testing.T) {
	runner := New(logger.NewNop())

	runner.GoNamed("panic-routine", func() {
		panic("named panic")
	})

	// must not panic; the runner recovers
	runner.Wait()
}

func TestRunner_GoNamedWithContext(t *testing.T) {
	runner := New(logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sawCancelled atomic.Bool
	runner.GoNamedWithContext(ctx, "ctx-routine", func(ctx context.Context) {
		sawCancelled.Store(ctx.Err() != nil)
	})

	runner.Wait()

	if !sawCancelled.Load() {
		t.Error("expected goroutine to observe cancelled context")
	}
}

func TestGoNamedWithContext_Standalone(t *testing.T) {
	done := make(chan struct{})

	GoNamedWithContext(context.Background(), logger.NewNop(), "standalone", func(ctx context.Context) {
		defer close(done)
		panic("standalone panic")
	})

	<-done
}
