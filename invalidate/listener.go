package invalidate

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"

	"github.com/JoshSmithXRM/tablekit/logger"
	"github.com/JoshSmithXRM/tablekit/routine"
)

// defaultListener is the default implementation of the Listener interface
type defaultListener struct {
	logger logger.Logger
	config *Config
	c      *kafka.Consumer

	mu       sync.RWMutex
	handlers map[string]Handler

	started atomic.Bool
	closed  atomic.Bool
}

// NewListener creates a listener bound to the configured topics
func NewListener(log logger.Logger, config *Config) (Listener, error) {
	if config == nil {
		return nil, ErrInvalidConfig("config is required")
	}
	config.MergeDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}

	consumer, err := kafka.NewConsumer(config.BuildConfigMap())
	if err != nil {
		return nil, ErrConnection(err)
	}

	if err := consumer.SubscribeTopics(config.Topics, nil); err != nil {
		consumer.Close()
		return nil, ErrSubscribe(config.Topics, err)
	}

	return &defaultListener{
		logger:   log,
		config:   config,
		c:        consumer,
		handlers: make(map[string]Handler),
	}, nil
}

// Register binds a handler to a dataset name
func (l *defaultListener) Register(dataset string, handler Handler) error {
	if l.started.Load() {
		return ErrAlreadyStarted
	}
	if dataset == "" {
		return ErrMissingDataset
	}
	if handler == nil {
		return ErrNilHandler
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.handlers[dataset]; exists {
		return ErrDuplicateDataset(dataset)
	}
	l.handlers[dataset] = handler
	return nil
}

// Start starts the consume loop in a background goroutine
func (l *defaultListener) Start(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	routine.GoNamedWithContext(ctx, l.logger, "invalidate-listener", func(ctx context.Context) {
		if err := l.consumeLoop(ctx); err != nil && ctx.Err() == nil {
			l.logger.Error("invalidation consume loop exited with error", zap.Error(err))
		}
	})

	l.logger.Info("invalidation listener started",
		zap.Strings("topics", l.config.Topics),
		zap.String("group_id", l.config.GroupID),
	)
	return nil
}

// Close closes the underlying consumer
func (l *defaultListener) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}

	l.c.Close()
	l.logger.Info("invalidation listener closed")
	return nil
}

func (l *defaultListener) consumeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		default:
			ev := l.c.Poll(pollTimeoutMs)
			if ev == nil {
				continue
			}

			switch e := ev.(type) {
			case *kafka.Message:
				l.dispatch(ctx, e)
			case kafka.Error:
				l.logger.Error("kafka consumer error", zap.Int("code", int(e.Code())), zap.String("error", e.String()))

				if e.Code() == kafka.ErrAllBrokersDown {
					return ErrConsume(e)
				}
			default:
				l.logger.Debug("received unknown event", zap.String("type", fmt.Sprintf("%T", e)))
			}
		}
	}
}

// pollTimeoutMs bounds each Poll call so ctx cancellation is noticed
const pollTimeoutMs = 500

// dispatch routes one message to its dataset handler. Failures are logged
// and swallowed so one bad event cannot stall the loop.
func (l *defaultListener) dispatch(ctx context.Context, msg *kafka.Message) {
	event, err := ParseEvent(msg.Value)
	if err != nil {
		l.logger.Warn("dropping invalidation event",
			zap.String("topic", *msg.TopicPartition.Topic),
			zap.Int64("offset", int64(msg.TopicPartition.Offset)),
			zap.Error(err),
		)
		return
	}

	l.mu.RLock()
	handler, ok := l.handlers[event.Dataset]
	l.mu.RUnlock()

	if !ok {
		l.logger.Debug("no handler for dataset", zap.String("dataset", event.Dataset))
		return
	}

	if err := handler(ctx, event); err != nil {
		l.logger.Error("invalidation handler failed",
			zap.String("dataset", event.Dataset),
			zap.String("action", event.Action),
			zap.Error(err),
		)
		return
	}

	l.logger.Info("invalidation event handled",
		zap.String("dataset", event.Dataset),
		zap.String("action", event.Action),
	)
}
