package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"go.uber.org/zap"
)

// MigrateFavorites converts the legacy name-only favorites list into the
// current schema. It runs once at startup and is idempotent: when the
// current key already exists, or no legacy data is found, it returns
// (nil, nil) without touching storage. On success it returns the migrated
// records, written under KeyFavorites, and the legacy key is gone.
func MigrateFavorites(ctx context.Context, store kv.Store, log *logger.Logger) ([]FavTool, error) {
	p := newPersister(store, log)

	if _, err := store.Get(ctx, KeyFavorites); err == nil {
		return nil, nil
	} else if !kv.IsNotFound(err) {
		return nil, fmt.Errorf("read favorites: %w", err)
	}

	var legacy []any
	if !p.readJSON(ctx, KeyLegacyFavorites, &legacy) {
		return nil, nil
	}

	migrated := make([]FavTool, 0, len(legacy))
	seen := make(map[string]struct{}, len(legacy))
	for _, v := range legacy {
		name, ok := v.(string)
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		migrated = append(migrated, FavTool{Name: name})
	}

	raw, err := json.Marshal(migrated)
	if err != nil {
		return nil, fmt.Errorf("encode migrated favorites: %w", err)
	}
	if err := store.Set(ctx, KeyFavorites, raw); err != nil {
		return nil, fmt.Errorf("write migrated favorites: %w", err)
	}
	if err := store.Delete(ctx, KeyLegacyFavorites); err != nil {
		// The current key now exists, so a later run will not migrate again.
		p.log.Debug("delete legacy favorites failed", zap.Error(err))
	}

	p.log.Info("favorites migrated", zap.Int("count", len(migrated)))
	return migrated, nil
}

// OpenFavorites runs MigrateFavorites and returns a loaded store. Migration
// errors are logged and the store falls back to whatever Load finds.
func OpenFavorites(ctx context.Context, store kv.Store, log *logger.Logger) *Favorites {
	favs := NewFavorites(store, log)
	migrated, err := MigrateFavorites(ctx, store, log)
	switch {
	case err != nil:
		favs.p.log.Debug("favorites migration skipped", zap.Error(err))
		favs.Load(ctx)
	case migrated != nil:
		favs.Replace(migrated)
	default:
		favs.Load(ctx)
	}
	return favs
}
