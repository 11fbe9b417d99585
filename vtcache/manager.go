package vtcache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/JoshSmithXRM/tablekit/logger"
	"github.com/JoshSmithXRM/tablekit/paging"
	"github.com/JoshSmithXRM/tablekit/routine"
	"github.com/smallnest/chanx"
	"go.uber.org/zap"
)

// manager is the single authoritative owner of one record buffer and its
// progress state. It implements the Cache interface.
type manager[T any] struct {
	logger   logger.Logger
	provider paging.Provider[T]
	config   Config

	// mu guards records, state, observer, and watchers
	mu       sync.RWMutex
	records  []T
	state    State
	observer StateObserver[T]
	watchers map[uint64]*chanx.UnboundedChan[StateChange[T]]
	watchSeq uint64

	// notifyMu serializes whole publications, from the generation check
	// through observer and watcher delivery, so changes are always
	// delivered in publication order. Observers run while it is held and
	// must not call mutating cache operations.
	notifyMu sync.Mutex

	// cancelRequested is the cooperative cancellation flag. It is set by
	// Clear and CancelBackgroundLoading, checked by the background loop
	// before every fetch, and reset by the next LoadInitialPage.
	cancelRequested atomic.Bool

	// generation increases on every LoadInitialPage and Clear. A background
	// loop carries the generation it was started under and stops publishing
	// the moment it is superseded, so the newest loop's results always win.
	generation atomic.Uint64

	// bgMu guards the background task handle
	bgMu     sync.Mutex
	bgDone   chan struct{}
	bgCancel context.CancelFunc
}

// NewCache creates a record cache over the given provider.
// The configuration is validated so a zero or hand-built Config cannot
// smuggle in out-of-range parameters. A nil logger is replaced with a
// no-op logger for headless use.
func NewCache[T any](log logger.Logger, cfg Config, provider paging.Provider[T]) (Cache[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, ErrNilProvider
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &manager[T]{
		logger:   log,
		provider: provider,
		config:   cfg,
		state:    EmptyState(),
		watchers: make(map[uint64]*chanx.UnboundedChan[StateChange[T]]),
	}, nil
}

// LoadInitialPage fetches page 1, replaces the buffer, and starts the
// background loop when more pages exist and background loading is enabled.
func (m *manager[T]) LoadInitialPage(ctx context.Context, opts *paging.QueryOptions) (*paging.Result[T], error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Supersede any loop still in flight. Its next generation check will
	// fail and it stops without publishing again.
	gen := m.generation.Add(1)
	m.bgMu.Lock()
	if m.bgCancel != nil {
		m.bgCancel()
	}
	m.bgMu.Unlock()
	m.cancelRequested.Store(false)

	filter := ""
	if opts != nil {
		filter = opts.Filter
	}

	prior := m.State()
	m.publish(gen, func(st State, records []T) (State, []T) {
		st.loading = true
		st.currentPage = 1
		st.searchFilter = filter
		return st, records
	})

	res, err := m.provider.FindPaginated(ctx, 1, m.config.InitialPageSize(), opts)
	if err != nil {
		// leave the cache in the state that existed before the call
		m.publish(gen, func(_ State, records []T) (State, []T) {
			return prior, records
		})
		return nil, err
	}

	m.publish(gen, func(State, []T) (State, []T) {
		st := State{
			cachedRecordCount: len(res.Items),
			totalRecordCount:  res.TotalCount,
			loading:           false,
			currentPage:       1,
			searchFilter:      filter,
		}
		return st, append([]T(nil), res.Items...)
	})

	m.logger.Debug("initial page loaded",
		zap.Int("records", len(res.Items)),
		zap.Int("total", res.TotalCount),
	)

	if m.config.BackgroundLoadingEnabled() && res.HasNextPage() {
		m.startBackgroundLoop(ctx, gen, opts)
	}

	return res, nil
}

// startBackgroundLoop registers the task handle and spawns the loop.
// The handle is registered before the goroutine starts so the task is
// trackable the moment LoadInitialPage returns.
func (m *manager[T]) startBackgroundLoop(ctx context.Context, gen uint64, opts *paging.QueryOptions) {
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	m.bgMu.Lock()
	m.bgCancel = cancel
	m.bgDone = done
	m.bgMu.Unlock()

	routine.GoNamedWithContext(loopCtx, m.logger, "vtcache-background-load", func(ctx context.Context) {
		defer func() {
			m.bgMu.Lock()
			if m.bgDone == done {
				m.bgDone = nil
				m.bgCancel = nil
			}
			m.bgMu.Unlock()
			cancel()
			close(done)
		}()
		m.backgroundLoop(ctx, gen, opts)
	})
}

// backgroundLoop fetches successive pages starting at page 2 until the
// record ceiling or the end of the data is reached, a cancellation signal
// fires, or a fetch fails. A fetch failure is non-critical degradation:
// whatever was cached stays usable.
func (m *manager[T]) backgroundLoop(ctx context.Context, gen uint64, opts *paging.QueryOptions) {
	// however the loop ends, leave a final loading=false state behind
	defer m.publish(gen, func(st State, records []T) (State, []T) {
		st.loading = false
		return st, records
	})

	for page := 2; ; page++ {
		// cancellation checks happen before each fetch, never mid-fetch
		if m.cancelRequested.Load() {
			m.logger.Debug("background loading cancelled", zap.Int("next_page", page))
			return
		}
		if ctx.Err() != nil {
			m.logger.Debug("background loading context cancelled", zap.Int("next_page", page))
			return
		}
		if m.generation.Load() != gen {
			return
		}

		m.publish(gen, func(st State, records []T) (State, []T) {
			st.loading = true
			st.currentPage = page
			return st, records
		})

		res, err := m.provider.FindPaginated(ctx, page, m.config.BackgroundPageSize(), opts)
		if err != nil {
			m.logger.Warn("background page load failed, serving partially cached records",
				zap.Int("page", page),
				zap.Error(err),
			)
			return
		}

		var buffered int
		published := m.publish(gen, func(st State, records []T) (State, []T) {
			// never exceed the ceiling, even when the fetched page is
			// larger than the remaining capacity
			items := res.Items
			remaining := m.config.MaxCachedRecords() - len(records)
			if remaining <= 0 {
				items = nil
			} else if len(items) > remaining {
				items = items[:remaining]
			}
			records = append(records, items...)
			buffered = len(records)

			st.cachedRecordCount = buffered
			st.loading = false
			st.currentPage = page
			return st, records
		})
		if !published {
			// superseded while the page was in flight
			return
		}

		if buffered >= m.config.MaxCachedRecords() {
			m.logger.Info("record ceiling reached, stopping background loading",
				zap.Int("cached", buffered),
				zap.Int("max_cached_records", m.config.MaxCachedRecords()),
			)
			return
		}
		if !res.HasNextPage() {
			m.logger.Debug("end of data reached",
				zap.Int("cached", buffered),
				zap.Int("pages", page),
			)
			return
		}
	}
}

// publish applies mutate to the state and buffer under the lock, then
// notifies the observer and watchers with the new snapshot. It refuses to
// publish when gen is no longer the current generation and reports whether
// the publication happened.
//
// notifyMu is taken before the generation check and held until delivery
// completes. Without it a stale publication that passed its check could be
// delivered after the newer publication that superseded it, and an observer
// would see a populated snapshot land after Clear's empty one.
func (m *manager[T]) publish(gen uint64, mutate func(st State, records []T) (State, []T)) bool {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	if m.generation.Load() != gen {
		m.mu.Unlock()
		return false
	}
	st, records := mutate(m.state, m.records)
	m.state = st
	m.records = records

	snapshot := append([]T(nil), records...)
	observer := m.observer
	watchers := make([]*chanx.UnboundedChan[StateChange[T]], 0, len(m.watchers))
	for _, w := range m.watchers {
		watchers = append(watchers, w)
	}
	m.mu.Unlock()

	if observer != nil {
		observer(st, snapshot)
	}
	change := StateChange[T]{State: st, Records: snapshot}
	for _, w := range watchers {
		select {
		case w.In <- change:
		default:
			// watcher already unsubscribed; drop rather than block the loader
		}
	}
	return true
}

// SearchCached synchronously filters the current buffer. No provider access.
func (m *manager[T]) SearchCached(match func(record T) bool) []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]T, 0)
	for _, record := range m.records {
		if match(record) {
			results = append(results, record)
		}
	}
	return results
}

// CachedRecords returns a defensive copy of the buffer.
func (m *manager[T]) CachedRecords() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]T(nil), m.records...)
}

// State returns the current immutable state snapshot.
func (m *manager[T]) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Clear cancels any in-flight background loop cooperatively, empties the
// buffer, and resets the state to empty. The generation bump guarantees a
// stale loop cannot append its in-flight page afterwards.
func (m *manager[T]) Clear() {
	m.cancelRequested.Store(true)
	gen := m.generation.Add(1)
	m.publish(gen, func(State, []T) (State, []T) {
		return EmptyState(), nil
	})
	m.logger.Debug("cache cleared")
}

// CancelBackgroundLoading sets the cooperative cancellation flag without
// touching cached data.
func (m *manager[T]) CancelBackgroundLoading() {
	m.cancelRequested.Store(true)
}

// IsBackgroundLoading reports whether a background task handle is tracked.
func (m *manager[T]) IsBackgroundLoading() bool {
	m.bgMu.Lock()
	defer m.bgMu.Unlock()
	return m.bgDone != nil
}

// WaitForBackgroundLoading blocks until the tracked background task
// completes, if one is tracked.
func (m *manager[T]) WaitForBackgroundLoading() {
	m.bgMu.Lock()
	done := m.bgDone
	m.bgMu.Unlock()

	if done != nil {
		<-done
	}
}

// OnStateChange registers the single synchronous observer.
func (m *manager[T]) OnStateChange(fn StateObserver[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = fn
}

// Watch subscribes to state publications through an unbounded channel so a
// slow consumer never blocks the loading loop. The watcher registration and
// its cleanup goroutine live until ctx is cancelled, so callers must pass a
// cancellable context and cancel it when done with the subscription.
func (m *manager[T]) Watch(ctx context.Context) <-chan StateChange[T] {
	if ctx == nil {
		ctx = context.Background()
	}

	ch := chanx.NewUnboundedChan[StateChange[T]](ctx, 16)

	m.mu.Lock()
	m.watchSeq++
	id := m.watchSeq
	m.watchers[id] = ch
	m.mu.Unlock()

	routine.GoNamedWithContext(ctx, m.logger, "vtcache-watch", func(ctx context.Context) {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
	})

	return ch.Out
}
