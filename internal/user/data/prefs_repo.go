package data

import (
	"context"
	"strconv"

	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/prefs"
)

// PrefsRepo opens the preference stores of one user. Every user gets its
// own key space "user:<id>:" inside the shared store, so the keys below it
// are the same ones the CLI uses locally.
type PrefsRepo struct {
	store kv.Store
	log   *logger.Logger
}

// NewPrefsRepo creates a new preference repository
func NewPrefsRepo(store kv.Store, log *logger.Logger) *PrefsRepo {
	if log == nil {
		log = logger.Nop()
	}
	return &PrefsRepo{store: store, log: log}
}

func (r *PrefsRepo) scoped(userID int64) kv.Store {
	return kv.WithPrefix(r.store, "user:"+strconv.FormatInt(userID, 10)+":")
}

// Favorites loads the user's favorites, migrating legacy data first.
func (r *PrefsRepo) Favorites(ctx context.Context, userID int64) *prefs.Favorites {
	return prefs.OpenFavorites(ctx, r.scoped(userID), r.log)
}

// Recents loads the user's recent prompts.
func (r *PrefsRepo) Recents(ctx context.Context, userID int64) *prefs.Recents {
	rec := prefs.NewRecents(r.scoped(userID), r.log)
	rec.Load(ctx)
	return rec
}
