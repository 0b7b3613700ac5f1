// Package prefs holds the user's persisted preferences: recent prompts,
// favorite tools and the display language. Each store is loaded once and
// then owns its in-memory state; writes go through to a kv.Store and
// persistence failures are logged at debug level and otherwise ignored.
package prefs

import (
	"context"
	"encoding/json"

	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"go.uber.org/zap"
)

// Storage keys.
const (
	KeyFavorites       = "myai:favs_v2"
	KeyLegacyFavorites = "myai:favs"
	KeyRecents         = "myai:recent_prompts"
	KeyLanguage        = "myai:language"
)

type persister struct {
	store kv.Store
	log   *logger.Logger
}

func newPersister(store kv.Store, log *logger.Logger) persister {
	if log == nil {
		log = logger.Nop()
	}
	return persister{store: store, log: log.Named("prefs")}
}

// readJSON decodes key into v. Absent keys, read errors and malformed data
// all report false.
func (p persister) readJSON(ctx context.Context, key string, v any) bool {
	raw, err := p.store.Get(ctx, key)
	if err != nil {
		if !kv.IsNotFound(err) {
			p.log.Debug("read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		p.log.Debug("malformed value ignored", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (p persister) writeJSON(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		p.log.Debug("encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := p.store.Set(ctx, key, raw); err != nil {
		p.log.Debug("write failed", zap.String("key", key), zap.Error(err))
	}
}

func (p persister) delete(ctx context.Context, key string) {
	if err := p.store.Delete(ctx, key); err != nil {
		p.log.Debug("delete failed", zap.String("key", key), zap.Error(err))
	}
}
