// Package invalidate listens for cache invalidation events on a Kafka
// topic and dispatches them to registered dataset handlers. Upstream
// writers publish an event whenever a dataset changes, so long-lived
// caches can refresh or drop stale records instead of serving them until
// the next manual reload.
package invalidate

import (
	"context"
	"encoding/json"
)

// Actions carried by invalidation events.
const (
	// ActionRefresh asks handlers to reload the dataset from its source
	ActionRefresh = "refresh"
	// ActionClear asks handlers to drop the cached dataset
	ActionClear = "clear"
)

// Event is one invalidation notice for a dataset
type Event struct {
	// Dataset names the affected dataset, e.g. a table name
	Dataset string `json:"dataset"`
	// Action is one of the Action constants
	Action string `json:"action"`
}

// ParseEvent decodes and validates an event payload
func ParseEvent(payload []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, ErrMalformedEvent(err)
	}
	if event.Dataset == "" {
		return Event{}, ErrMissingDataset
	}
	if event.Action != ActionRefresh && event.Action != ActionClear {
		return Event{}, ErrUnknownAction(event.Action)
	}
	return event, nil
}

// Handler processes invalidation events for one dataset
type Handler func(ctx context.Context, event Event) error

// Listener consumes invalidation events and routes them to handlers
type Listener interface {
	// Register binds a handler to a dataset name. Registration must
	// happen before Start.
	Register(dataset string, handler Handler) error
	// Start begins the consume loop. The loop runs until ctx is
	// cancelled or the broker connection is lost.
	Start(ctx context.Context) error
	// Close shuts the consumer down
	Close() error
}
