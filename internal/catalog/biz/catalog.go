package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/lk2023060901/myai/internal/locale"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit = 24
	MaxLimit     = 100
)

// ErrInvalidQuery is returned for out-of-range list parameters.
var ErrInvalidQuery = errors.New("invalid catalog query")

// ToolRepo defines the repository interface for catalog reads
type ToolRepo interface {
	List(ctx context.Context, q *types.ListQuery) ([]*types.Tool, error)
	Count(ctx context.Context, q *types.ListQuery) (int64, error)
	CountByTag(ctx context.Context, tag string) (int64, error)
	All(ctx context.Context) ([]*types.Tool, error)
	FindByName(ctx context.Context, name string) (*types.Tool, error)
	Translations(ctx context.Context, ids []int64, field string, languages []string) (map[int64]map[string]string, error)
	Upsert(ctx context.Context, entries []types.SeedEntry) (inserted, updated int, err error)
}

// CatalogUseCase serves the catalog browsing endpoints and seeding.
type CatalogUseCase struct {
	repo   ToolRepo
	logger *logger.Logger
}

// NewCatalogUseCase creates a new catalog use case
func NewCatalogUseCase(repo ToolRepo, log *logger.Logger) *CatalogUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogUseCase{repo: repo, logger: log.Named("catalog")}
}

// Categories counts tools per official capability, concurrently.
func (uc *CatalogUseCase) Categories(ctx context.Context, lang locale.Locale) ([]types.Category, error) {
	out := make([]types.Category, len(types.Capabilities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, c := range types.Capabilities {
		g.Go(func() error {
			n, err := uc.repo.CountByTag(gctx, string(c))
			if err != nil {
				return fmt.Errorf("count %s: %w", c, err)
			}
			out[i] = types.Category{ID: c, Label: c.Label(lang), Count: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateQuery fills defaults and rejects out-of-range values.
func ValidateQuery(q *types.ListQuery) error {
	q.Q = strings.TrimSpace(q.Q)
	q.Tag = strings.TrimSpace(q.Tag)
	q.Cap = strings.TrimSpace(q.Cap)

	if q.Language == "" {
		q.Language = locale.BG
	}
	if !q.Language.Valid() {
		return fmt.Errorf("%w: language must be en or bg", ErrInvalidQuery)
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidQuery, MaxLimit)
	}
	if q.Offset < 0 {
		return fmt.Errorf("%w: offset must be >= 0", ErrInvalidQuery)
	}
	switch q.Sort {
	case "":
		q.Sort = types.SortRating
	case types.SortRating, types.SortName:
	default:
		return fmt.Errorf("%w: sort must be rating or name", ErrInvalidQuery)
	}
	return nil
}

// ListTools returns one page of tools with localized descriptions.
func (uc *CatalogUseCase) ListTools(ctx context.Context, q types.ListQuery) (*types.ListResult, error) {
	if err := ValidateQuery(&q); err != nil {
		return nil, err
	}

	var (
		total int64
		tools []*types.Tool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.repo.Count(gctx, &q)
		total = n
		return err
	})
	g.Go(func() error {
		list, err := uc.repo.List(gctx, &q)
		tools = list
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	descriptions := uc.descriptions(ctx, tools, q.Language)
	items := make([]types.ToolOut, 0, len(tools))
	for _, t := range tools {
		items = append(items, toOut(t, descriptions[t.ID]))
	}

	return &types.ListResult{Total: total, Items: items, Limit: q.Limit, Offset: q.Offset}, nil
}

// descriptions resolves the description of each tool: translation in
// lang, then description_en for en, then the bg translation, then the
// base column. Translation lookup failures degrade to the base column.
func (uc *CatalogUseCase) descriptions(ctx context.Context, tools []*types.Tool, lang locale.Locale) map[int64]string {
	out := make(map[int64]string, len(tools))
	if len(tools) == 0 {
		return out
	}

	ids := make([]int64, 0, len(tools))
	for _, t := range tools {
		ids = append(ids, t.ID)
	}
	languages := []string{lang.String()}
	if lang != locale.BG {
		languages = append(languages, locale.BG.String())
	}

	trans, err := uc.repo.Translations(ctx, ids, types.FieldDescription, languages)
	if err != nil {
		uc.logger.Warn("translation lookup failed", zap.Error(err))
		trans = nil
	}

	for _, t := range tools {
		byLang := trans[t.ID]
		switch {
		case byLang[lang.String()] != "":
			out[t.ID] = byLang[lang.String()]
		case lang == locale.EN && t.DescriptionEN != "":
			out[t.ID] = t.DescriptionEN
		case byLang[locale.BG.String()] != "":
			out[t.ID] = byLang[locale.BG.String()]
		default:
			out[t.ID] = t.Description
		}
	}
	return out
}

func toOut(t *types.Tool, description string) types.ToolOut {
	out := types.ToolOut{
		Name:        t.Name,
		Rating:      t.Rating,
		Tags:        t.Tags,
		Description: description,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if w := t.Website(); w != "" {
		out.Link = &w
	}
	if icon := t.Icon(); icon != "" {
		out.Icon = &icon
	}
	return out
}

// Inventory loads every tool for the planner indexes.
func (uc *CatalogUseCase) Inventory(ctx context.Context) ([]*types.Tool, error) {
	return uc.repo.All(ctx)
}

// FindByName looks a tool up by its exact name.
func (uc *CatalogUseCase) FindByName(ctx context.Context, name string) (*types.Tool, error) {
	return uc.repo.FindByName(ctx, name)
}

// Seed upserts entries into the catalog.
func (uc *CatalogUseCase) Seed(ctx context.Context, entries []types.SeedEntry) error {
	inserted, updated, err := uc.repo.Upsert(ctx, entries)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	uc.logger.Info("catalog seeded", zap.Int("inserted", inserted), zap.Int("updated", updated))
	return nil
}
