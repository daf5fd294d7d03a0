package prefs

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisTimeout = 2 * time.Second

// RedisStore keeps each key as a plain redis string under a namespace prefix
type RedisStore struct {
	client    *redis.Client
	namespace string
	timeout   time.Duration
}

// NewRedisStore creates a store on an existing client
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{
		client:    client,
		namespace: namespace,
		timeout:   defaultRedisTimeout,
	}
}

// NewRedisStoreFromURL creates a store from a redis:// URL
func NewRedisStoreFromURL(url, namespace string) (*RedisStore, error) {
	if url == "" {
		return nil, errors.New("redis url is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisStore(redis.NewClient(opts), namespace), nil
}

// Close closes the redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

func (s *RedisStore) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *RedisStore) Put(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.client.Set(ctx, s.key(key), value, 0).Err()
}
