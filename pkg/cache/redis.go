package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a thin Redis wrapper backing the idempotency middleware and any
// other short-lived key/value needs.
type Store struct {
	client *redis.Client
}

func NewStore(url, password string, db int) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if password != "" {
		opts.Password = password
	}
	opts.DB = db

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &Store{client: client}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
