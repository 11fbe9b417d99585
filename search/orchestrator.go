package search

import (
	"context"
	"strings"

	"github.com/JoshSmithXRM/tablekit/logger"
	"github.com/JoshSmithXRM/tablekit/paging"
	"github.com/JoshSmithXRM/tablekit/vtcache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// orchestrator composes a cache, a provider, a match predicate, and a
// remote filter builder into one search path. It implements Orchestrator.
type orchestrator[T any] struct {
	logger      logger.Logger
	cache       vtcache.Cache[T]
	provider    paging.Provider[T]
	match       MatchFunc[T]
	buildFilter FilterBuilder

	serverSearchLimit int

	// concurrent escalations for the same normalized query collapse into
	// a single provider call
	group singleflight.Group
}

// NewOrchestrator creates a search orchestrator over the given cache and
// provider. match decides cache hits against the normalized query;
// buildFilter produces the provider-dialect filter expression for escalated
// searches, including any escaping the dialect needs.
func NewOrchestrator[T any](
	log logger.Logger,
	cfg *Config,
	cache vtcache.Cache[T],
	provider paging.Provider[T],
	match MatchFunc[T],
	buildFilter FilterBuilder,
) (Orchestrator[T], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		// merge default values for zero fields
		cfg = cfg.MergeDefaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cache == nil {
		return nil, ErrNilCache
	}
	if provider == nil {
		return nil, ErrNilProvider
	}
	if match == nil {
		return nil, ErrNilMatchFunc
	}
	if buildFilter == nil {
		return nil, ErrNilFilterBuilder
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &orchestrator[T]{
		logger:            log,
		cache:             cache,
		provider:          provider,
		match:             match,
		buildFilter:       buildFilter,
		serverSearchLimit: cfg.ServerSearchLimit,
	}, nil
}

// Execute answers one search query.
func (o *orchestrator[T]) Execute(ctx context.Context, query string) (*Result[T], error) {
	if ctx == nil {
		ctx = context.Background()
	}

	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		// an empty query means "show everything cached"
		return &Result[T]{Records: o.cache.CachedRecords(), Source: SourceCache}, nil
	}

	matches := o.cache.SearchCached(func(record T) bool {
		return o.match(record, normalized)
	})
	if len(matches) > 0 {
		return &Result[T]{Records: matches, Source: SourceCache}, nil
	}

	if o.cache.State().IsFullyCached() {
		// a genuine "no matches anywhere" answer, not an incomplete one
		o.logger.Debug("no matches in fully cached record set",
			zap.String("query", normalized),
		)
		return &Result[T]{Records: matches, Source: SourceCache}, nil
	}

	// The cache cannot answer definitively. Issue a single filtered fetch
	// against the server; the result is a transient view, never merged back.
	o.logger.Debug("escalating search to server",
		zap.String("query", normalized),
		zap.Int("limit", o.serverSearchLimit),
	)

	// the call may be shared by deduplicated concurrent callers, so it is
	// detached from the first caller's cancellation; one caller backing out
	// must not fail everyone else waiting on the same query
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := o.group.Do(normalized, func() (any, error) {
		return o.provider.FindPaginated(fetchCtx, 1, o.serverSearchLimit, &paging.QueryOptions{
			Filter: o.buildFilter(normalized),
			Top:    o.serverSearchLimit,
		})
	})
	if err != nil {
		return nil, ErrServerSearch(normalized, err)
	}

	res := v.(*paging.Result[T])
	o.logger.Debug("server search completed",
		zap.String("query", normalized),
		zap.Int("results", len(res.Items)),
	)

	// hand each caller its own copy; escalations may be shared
	return &Result[T]{
		Records: append([]T(nil), res.Items...),
		Source:  SourceServer,
	}, nil
}
