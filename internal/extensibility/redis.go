package extensibility

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comalice/tablefsm/internal/logger"
)

var (
	ErrInvalidRedisURL = errors.New("failed to parse redis connection string")
	ErrRedisNotReady   = errors.New("redis did not become ready within the given time period")
	ErrEmptyRedisKey   = errors.New("empty redis list key")
)

// RedisConfig configures the Redis connection and the list events are popped from.
type RedisConfig struct {
	URL            string        `env:"URL" envDefault:"redis://localhost:6379/0"`
	Key            string        `env:"KEY" envDefault:"fsm:events"`
	PollTimeout    time.Duration `env:"POLL_TIMEOUT" envDefault:"1s"`
	RetryAttempts  int           `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"RETRY_INTERVAL" envDefault:"1s"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

// ConnectRedis parses cfg.URL and pings the server, retrying up to
// cfg.RetryAttempts times.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrInvalidRedisURL, err)
	}

	attempts := max(cfg.RetryAttempts, 1)
	for range attempts {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, ErrRedisNotReady
}

// RedisEventSource pops events from a Redis list with BLPOP, so any process
// can feed the machine with RPUSH. The poll timeout bounds how long a stopped
// engine waits before Next observes the cancelled context.
type RedisEventSource struct {
	client        redis.UniversalClient
	key           string
	pollTimeout   time.Duration
	retryInterval time.Duration
	logger        *slog.Logger
}

// NewRedisEventSource creates a source popping from key.
func NewRedisEventSource(client redis.UniversalClient, key string, pollTimeout time.Duration, log *slog.Logger) (*RedisEventSource, error) {
	if key == "" {
		return nil, ErrEmptyRedisKey
	}
	if pollTimeout <= 0 {
		pollTimeout = time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &RedisEventSource{
		client:        client,
		key:           key,
		pollTimeout:   pollTimeout,
		retryInterval: pollTimeout,
		logger:        log.With(logger.Component("redis-source"), slog.String("key", key)),
	}, nil
}

// Push appends events to the list. Producer side of the source.
func (s *RedisEventSource) Push(ctx context.Context, events ...string) error {
	if len(events) == 0 {
		return nil
	}
	values := make([]any, len(events))
	for i, ev := range events {
		values[i] = ev
	}
	if err := s.client.RPush(ctx, s.key, values...).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", s.key, err)
	}
	return nil
}

// Next blocks until an event is available, ctx ends, or the client is closed.
// Transient errors are logged and retried.
func (s *RedisEventSource) Next(ctx context.Context) (string, bool) {
	for {
		if ctx.Err() != nil {
			return "", false
		}
		res, err := s.client.BLPop(ctx, s.pollTimeout, s.key).Result()
		switch {
		case err == nil:
			// BLPOP replies with [key, value]
			if len(res) == 2 {
				return res[1], true
			}
		case errors.Is(err, redis.Nil):
			// poll timeout, check ctx and wait again
		case errors.Is(err, redis.ErrClosed):
			return "", false
		case ctx.Err() != nil:
			return "", false
		default:
			s.logger.Warn("blpop failed, retrying", logger.Error(err))
			select {
			case <-ctx.Done():
				return "", false
			case <-time.After(s.retryInterval):
			}
		}
	}
}

// Len returns the number of pending events.
func (s *RedisEventSource) Len(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.key).Result()
}
