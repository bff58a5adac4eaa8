package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DefaultKeyPrefix namespaces review-prompt state away from anything else the
// application keeps in the same Redis database.
const DefaultKeyPrefix = "happyreview:"

// RedisOptions configures the Redis connection established by InitRedisClient.
type RedisOptions struct {
	Host         string
	Port         string
	Password     string
	DB           int
	MaxRetries   int           // connection attempts before giving up
	RetryBackoff time.Duration // initial delay between attempts
}

// InitRedisClient connects to Redis, retrying with exponential backoff until
// the server answers a PING or the retry budget is exhausted.
func InitRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	if opts.Host == "" {
		opts.Host = "localhost"
	}
	if opts.Port == "" {
		opts.Port = "6379"
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = time.Second
	}

	addr := opts.Host + ":" + opts.Port
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     opts.Password,
		DB:           opts.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = opts.RetryBackoff

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		if _, err := client.Ping(ctx).Result(); err != nil {
			logrus.Warnf("redis connection failed (attempt %d/%d): %v", attempt, opts.MaxRetries, err)
			return err
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(opts.MaxRetries-1)), ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s after %d attempts: %w", addr, attempt, err)
	}

	logrus.Infof("connected to redis at %s", addr)
	return client, nil
}

// RedisStore is a Store backed by a Redis database. All keys are written
// under a configurable prefix so ClearAll only touches review-prompt state.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing Redis client. An empty prefix falls back to
// DefaultKeyPrefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

func (s *RedisStore) getRaw(ctx context.Context, key string) (string, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return raw, true, nil
}

func (s *RedisStore) setRaw(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// GetInt returns the integer stored under key, or def if absent.
func (s *RedisStore) GetInt(ctx context.Context, key string, def int64) (int64, error) {
	raw, ok, err := s.getRaw(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt integer at %s: %w", key, err)
	}
	return v, nil
}

// SetInt stores an integer under key.
func (s *RedisStore) SetInt(ctx context.Context, key string, value int64) error {
	return s.setRaw(ctx, key, strconv.FormatInt(value, 10))
}

// GetBool returns the boolean stored under key, or def if absent.
func (s *RedisStore) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	raw, ok, err := s.getRaw(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("corrupt boolean at %s: %w", key, err)
	}
	return v, nil
}

// SetBool stores a boolean under key.
func (s *RedisStore) SetBool(ctx context.Context, key string, value bool) error {
	return s.setRaw(ctx, key, strconv.FormatBool(value))
}

// GetTime returns the timestamp stored under key as epoch milliseconds.
func (s *RedisStore) GetTime(ctx context.Context, key string) (time.Time, bool, error) {
	raw, ok, err := s.getRaw(ctx, key)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("corrupt timestamp at %s: %w", key, err)
	}
	return time.UnixMilli(millis), true, nil
}

// SetTime stores a timestamp under key as epoch milliseconds.
func (s *RedisStore) SetTime(ctx context.Context, key string, value time.Time) error {
	return s.setRaw(ctx, key, strconv.FormatInt(value.UnixMilli(), 10))
}

// GetString returns the string stored under key.
func (s *RedisStore) GetString(ctx context.Context, key string) (string, bool, error) {
	return s.getRaw(ctx, key)
}

// SetString stores a string under key.
func (s *RedisStore) SetString(ctx context.Context, key, value string) error {
	return s.setRaw(ctx, key, value)
}

// ClearAll deletes every key under the store's prefix.
func (s *RedisStore) ClearAll(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys for clear: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	logrus.Debugf("cleared %d keys under prefix %s", len(keys), s.prefix)
	return nil
}
