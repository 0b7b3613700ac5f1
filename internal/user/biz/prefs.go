package biz

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/prefs"
)

var (
	ErrInvalidTool   = errors.New("tool name is required")
	ErrInvalidPrompt = errors.New("prompt is required")
)

// PrefsRepo opens per-user preference stores
type PrefsRepo interface {
	Favorites(ctx context.Context, userID int64) *prefs.Favorites
	Recents(ctx context.Context, userID int64) *prefs.Recents
}

const lockStripes = 64

// PrefsUseCase serves the signed-in user's favorites and recent prompts.
// Stores are opened per request; a striped lock serializes the
// read-modify-write cycles of one user.
type PrefsUseCase struct {
	repo   PrefsRepo
	locks  [lockStripes]sync.Mutex
	logger *logger.Logger
}

// NewPrefsUseCase creates a new preference use case
func NewPrefsUseCase(repo PrefsRepo, log *logger.Logger) *PrefsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PrefsUseCase{repo: repo, logger: log.Named("user-prefs")}
}

func (uc *PrefsUseCase) lock(userID int64) func() {
	m := &uc.locks[uint64(userID)%lockStripes]
	m.Lock()
	return m.Unlock
}

func (uc *PrefsUseCase) Favorites(ctx context.Context, userID int64) []prefs.FavTool {
	defer uc.lock(userID)()
	return uc.repo.Favorites(ctx, userID).List()
}

// AddFavorite inserts or updates t and returns the new list.
func (uc *PrefsUseCase) AddFavorite(ctx context.Context, userID int64, t prefs.FavTool) ([]prefs.FavTool, error) {
	if strings.TrimSpace(t.Name) == "" {
		return nil, ErrInvalidTool
	}
	defer uc.lock(userID)()
	favs := uc.repo.Favorites(ctx, userID)
	favs.Add(ctx, t)
	return favs.List(), nil
}

// RemoveFavorite deletes name and returns the new list.
func (uc *PrefsUseCase) RemoveFavorite(ctx context.Context, userID int64, name string) ([]prefs.FavTool, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidTool
	}
	defer uc.lock(userID)()
	favs := uc.repo.Favorites(ctx, userID)
	favs.Remove(ctx, name)
	return favs.List(), nil
}

func (uc *PrefsUseCase) Recents(ctx context.Context, userID int64) []string {
	defer uc.lock(userID)()
	return uc.repo.Recents(ctx, userID).List()
}

// PushRecent moves prompt to the front of the recent list.
func (uc *PrefsUseCase) PushRecent(ctx context.Context, userID int64, prompt string) ([]string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrInvalidPrompt
	}
	defer uc.lock(userID)()
	return uc.repo.Recents(ctx, userID).Push(ctx, prompt), nil
}

// RemoveRecent drops prompt; an empty prompt clears the whole list.
func (uc *PrefsUseCase) RemoveRecent(ctx context.Context, userID int64, prompt string) []string {
	defer uc.lock(userID)()
	rec := uc.repo.Recents(ctx, userID)
	if prompt == "" {
		rec.Clear(ctx)
		return rec.List()
	}
	return rec.Remove(ctx, prompt)
}
