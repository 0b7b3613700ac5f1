package redis

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Keys passed to these methods are unprefixed; the client applies
// Config.KeyPrefix.

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, c.Key(key)).Result()
	if err != nil && !IsNil(err) {
		c.logger.Error("redis get failed", zap.String("key", key), zap.Error(err))
	}
	return val, err
}

func (c *Client) GetBytes(ctx context.Context, key string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, c.Key(key)).Bytes()
	if err != nil && !IsNil(err) {
		c.logger.Error("redis get failed", zap.String("key", key), zap.Error(err))
	}
	return val, err
}

func (c *Client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	err := c.rdb.Set(ctx, c.Key(key), value, expiration).Err()
	if err != nil {
		c.logger.Error("redis set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// SetNX sets key only when it does not exist.
func (c *Client) SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, c.Key(key), value, expiration).Result()
	if err != nil {
		c.logger.Error("redis setnx failed", zap.String("key", key), zap.Error(err))
	}
	return ok, err
}

// GetDel reads and removes key atomically.
func (c *Client) GetDel(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.GetDel(ctx, c.Key(key)).Result()
	if err != nil && !IsNil(err) {
		c.logger.Error("redis getdel failed", zap.String("key", key), zap.Error(err))
	}
	return val, err
}

func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.Key(k)
	}
	n, err := c.rdb.Del(ctx, prefixed...).Result()
	if err != nil {
		c.logger.Error("redis del failed", zap.Strings("keys", keys), zap.Error(err))
	}
	return n, err
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.Key(key)).Result()
	return n > 0, err
}

// Eval runs a Lua script. keys are prefixed.
func (c *Client) Eval(ctx context.Context, script string, keys []string, args ...any) (any, error) {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.Key(k)
	}
	res, err := c.rdb.Eval(ctx, script, prefixed, args...).Result()
	if err != nil && !IsNil(err) {
		c.logger.Error("redis eval failed", zap.Strings("keys", keys), zap.Error(err))
	}
	return res, err
}
