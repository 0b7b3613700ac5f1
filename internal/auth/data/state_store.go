package data

import (
	"context"
	"fmt"

	"github.com/lk2023060901/myai/internal/auth/biz"
	"github.com/lk2023060901/myai/internal/pkg/kv"
)

const statePrefix = "oauth:state:"

// StateStore keeps OAuth state values in a kv store. Expiry comes from the
// store (the redis store is built with the state TTL).
type StateStore struct {
	store kv.Store
}

// NewStateStore creates a state store over store
func NewStateStore(store kv.Store) *StateStore {
	return &StateStore{store: kv.WithPrefix(store, statePrefix)}
}

var _ biz.StateStore = (*StateStore)(nil)

func (s *StateStore) Save(ctx context.Context, state string) error {
	return s.store.Set(ctx, state, []byte("1"))
}

// Consume takes state out of the store so that it can be used only once.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if _, err := kv.Take(ctx, s.store, state); err != nil {
		if kv.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return true, nil
}
