package data

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lk2023060901/myai/internal/catalog/models"
	"github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/lk2023060901/myai/internal/pkg/database"
	"gorm.io/gorm"
)

// ToolRepo reads the ai_tools catalog through gorm.
type ToolRepo struct {
	db *database.DB
}

// NewToolRepo creates a new tool repository
func NewToolRepo(db *database.DB) *ToolRepo {
	return &ToolRepo{db: db}
}

// tagFilter matches rows whose jsonb tags contain tag.
func tagFilter(tag string) (string, string) {
	b, _ := json.Marshal([]string{tag})
	return "tags @> ?::jsonb", string(b)
}

func (r *ToolRepo) filtered(ctx context.Context, q *types.ListQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.AITool{})
	tx = tx.Scopes(database.WhereIf(q.Q != "", "name ILIKE ?", "%"+q.Q+"%"))
	if q.Tag != "" {
		clause, arg := tagFilter(q.Tag)
		tx = tx.Where(clause, arg)
	}
	if q.Cap != "" {
		clause, arg := tagFilter(q.Cap)
		tx = tx.Where(clause, arg)
	}
	return tx
}

// List returns one page of tools matching q.
func (r *ToolRepo) List(ctx context.Context, q *types.ListQuery) ([]*types.Tool, error) {
	tx := r.filtered(ctx, q)
	switch q.Sort {
	case types.SortName:
		tx = tx.Order("name ASC")
	default:
		tx = tx.Order("rating DESC NULLS LAST").Order("name ASC")
	}

	var rows []models.AITool
	if err := tx.Scopes(database.Paginate(q.Limit, q.Offset, q.Limit)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return toDomainList(rows), nil
}

// Count returns the number of tools matching q.
func (r *ToolRepo) Count(ctx context.Context, q *types.ListQuery) (int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count tools: %w", err)
	}
	return total, nil
}

// CountByTag counts tools carrying tag.
func (r *ToolRepo) CountByTag(ctx context.Context, tag string) (int64, error) {
	return r.Count(ctx, &types.ListQuery{Tag: tag})
}

// All loads the full inventory ordered by id.
func (r *ToolRepo) All(ctx context.Context) ([]*types.Tool, error) {
	var rows []models.AITool
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load tools: %w", err)
	}
	return toDomainList(rows), nil
}

// FindByName returns the first tool named name.
func (r *ToolRepo) FindByName(ctx context.Context, name string) (*types.Tool, error) {
	var row models.AITool
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("id ASC").First(&row).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, types.ErrToolNotFound
		}
		return nil, fmt.Errorf("failed to get tool %q: %w", name, err)
	}
	return toDomain(&row), nil
}

// Translations returns field values for ids keyed by tool id then language.
func (r *ToolRepo) Translations(ctx context.Context, ids []int64, field string, languages []string) (map[int64]map[string]string, error) {
	out := make(map[int64]map[string]string, len(ids))
	if len(ids) == 0 || len(languages) == 0 {
		return out, nil
	}

	var rows []models.ToolTranslation
	err := r.db.WithContext(ctx).
		Where("tool_id IN ? AND field = ? AND language IN ?", ids, field, languages).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	for _, row := range rows {
		byLang, ok := out[row.ToolID]
		if !ok {
			byLang = make(map[string]string, len(languages))
			out[row.ToolID] = byLang
		}
		byLang[row.Language] = row.Value
	}
	return out, nil
}

func toDomainList(rows []models.AITool) []*types.Tool {
	tools := make([]*types.Tool, 0, len(rows))
	for i := range rows {
		tools = append(tools, toDomain(&rows[i]))
	}
	return tools
}

func toDomain(m *models.AITool) *types.Tool {
	t := &types.Tool{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Type:        m.Type,
		Pricing:     m.Pricing,
		Tags:        []string(m.Tags),
		Links:       map[string]string(m.Links),
		Rating:      m.Rating,
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if m.DescriptionEN != nil {
		t.DescriptionEN = *m.DescriptionEN
	}
	if m.IconURL != nil {
		t.IconURL = *m.IconURL
	}
	return t
}
