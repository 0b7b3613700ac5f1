package redis

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("redis: client is closed")

// IsNil reports whether err means the key does not exist.
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
