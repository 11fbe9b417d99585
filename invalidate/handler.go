package invalidate

import (
	"context"

	"github.com/JoshSmithXRM/tablekit/paging"
	"github.com/JoshSmithXRM/tablekit/vtcache"
)

// CacheHandler adapts a record cache to the Handler contract. A refresh
// event reloads the cache from its provider with the given query options,
// a clear event empties it.
func CacheHandler[T any](cache vtcache.Cache[T], opts *paging.QueryOptions) Handler {
	return func(ctx context.Context, event Event) error {
		switch event.Action {
		case ActionRefresh:
			_, err := cache.LoadInitialPage(ctx, opts)
			return err
		case ActionClear:
			cache.Clear()
			return nil
		default:
			return ErrUnknownAction(event.Action)
		}
	}
}
