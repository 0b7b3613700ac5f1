// Package kv is a minimal byte key-value abstraction shared by the local
// CLI state (bbolt), the server-side per-user state (redis) and tests
// (memory).
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("kv: key not found")

// Store persists opaque values under string keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Taker is implemented by stores that can read and delete a key in one
// atomic step.
type Taker interface {
	Take(ctx context.Context, key string) ([]byte, error)
}

// Take reads key and removes it. Stores without Taker fall back to Get
// followed by Delete, which is not atomic.
func Take(ctx context.Context, s Store, key string) ([]byte, error) {
	if t, ok := s.(Taker); ok {
		return t.Take(ctx, key)
	}
	v, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.Delete(ctx, key); err != nil {
		return nil, err
	}
	return v, nil
}

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type prefixed struct {
	prefix string
	inner  Store
}

// WithPrefix scopes every key of inner under prefix.
func WithPrefix(inner Store, prefix string) Store {
	return &prefixed{prefix: prefix, inner: inner}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

func (p *prefixed) Take(ctx context.Context, key string) ([]byte, error) {
	return Take(ctx, p.inner, p.prefix+key)
}
