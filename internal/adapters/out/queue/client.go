// Package queue hands committed load events to background workers through
// asynq.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"freight/internal/adapters/out/rediscache"
	"freight/internal/core/domain/model/load"
)

const (
	DefaultQueue       = "default"
	defaultConcurrency = 10
	defaultMaxRetry    = 10
	// Keeps the task id reserved so a retried Publish of the same event is
	// dropped by asynq.
	defaultRetention = 24 * time.Hour
)

// Options configures the task queue. The Redis connection comes from the
// shared redis section.
type Options struct {
	Enabled     bool           `mapstructure:"enabled"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
	MaxRetry    int            `mapstructure:"max_retry"`
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client publishes load events as history tasks. A disabled client drops them.
type Client struct {
	client   enqueuer
	enabled  bool
	queue    string
	maxRetry int
	log      *zap.Logger
}

func NewClient(redis rediscache.Options, o Options, log *zap.Logger) *Client {
	if !o.Enabled {
		return &Client{queue: DefaultQueue, log: log}
	}
	return newClient(asynq.NewClient(redisOpt(redis)), o, log)
}

func newClient(e enqueuer, o Options, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	retry := o.MaxRetry
	if retry <= 0 {
		retry = defaultMaxRetry
	}
	return &Client{client: e, enabled: true, queue: DefaultQueue, maxRetry: retry, log: log}
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Publish implements ports.LoadEventPublisher. Each event is enqueued under
// its own id, so an event that is already queued is skipped.
func (c *Client) Publish(ctx context.Context, events ...load.Event) error {
	if !c.Enabled() {
		return nil
	}
	var errs []error
	for _, e := range events {
		task, err := NewRecordLoadEventTask(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_, err = c.client.EnqueueContext(ctx, task,
			asynq.Queue(c.queue),
			asynq.TaskID(e.ID.String()),
			asynq.MaxRetry(c.maxRetry),
			asynq.Retention(defaultRetention),
		)
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			c.log.Debug("load event already queued", zap.String("event_id", e.ID.String()))
			continue
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildServerConfig returns the worker connection and server settings.
func BuildServerConfig(redis rediscache.Options, o Options) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := defaultConcurrency
	if o.Concurrency > 0 {
		concurrency = o.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if len(o.Queues) > 0 {
		queues = o.Queues
	}
	return redisOpt(redis), asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func redisOpt(o rediscache.Options) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     o.Addr(),
		Password: o.Password,
		DB:       o.DB,
	}
}
