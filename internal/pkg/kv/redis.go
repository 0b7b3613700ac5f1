package kv

import (
	"context"
	"time"

	"github.com/lk2023060901/myai/internal/pkg/redis"
)

// Redis is a Store over the shared redis client. Values expire after ttl
// when ttl is positive.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.GetBytes(ctx, key)
	if redis.IsNil(err) {
		return nil, ErrNotFound
	}
	return v, err
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, r.ttl)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	_, err := r.client.Del(ctx, key)
	return err
}

// Take uses GETDEL.
func (r *Redis) Take(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.GetDel(ctx, key)
	if redis.IsNil(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}
