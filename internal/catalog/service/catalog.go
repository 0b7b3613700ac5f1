package service

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/myai/internal/catalog/biz"
	"github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/lk2023060901/myai/internal/locale"
	apperrors "github.com/lk2023060901/myai/internal/pkg/errors"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/response"
	"go.uber.org/zap"
)

// CatalogService handles the /catalog endpoints
type CatalogService struct {
	useCase *biz.CatalogUseCase
	logger  *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(useCase *biz.CatalogUseCase, log *logger.Logger) *CatalogService {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogService{useCase: useCase, logger: log}
}

// RegisterRoutes registers catalog routes
func (s *CatalogService) RegisterRoutes(r gin.IRouter) {
	catalog := r.Group("/catalog")
	{
		catalog.GET("/categories", s.ListCategories)
		catalog.GET("/tools", s.ListTools)
	}
}

type listToolsQuery struct {
	Q        string `form:"q"`
	Tag      string `form:"tag"`
	Cap      string `form:"cap"`
	Language string `form:"language"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
	Sort     string `form:"sort"`
}

// ListCategories returns the capability categories with tool counts.
// Labels are Bulgarian unless ?language=en.
func (s *CatalogService) ListCategories(c *gin.Context) {
	lang := locale.BG
	if raw := c.Query("language"); raw != "" {
		parsed, ok := locale.Parse(raw)
		if !ok {
			response.ErrorWithCode(c, apperrors.ErrCatalogInvalidQuery, "language must be en or bg")
			return
		}
		lang = parsed
	}

	cats, err := s.useCase.Categories(c.Request.Context(), lang)
	if err != nil {
		s.logger.WithContext(c.Request.Context()).Error("list categories failed", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrCatalogUnavailable)
		return
	}
	response.JSON(c, gin.H{"categories": cats})
}

// ListTools returns a filtered, paginated tool listing.
func (s *CatalogService) ListTools(c *gin.Context) {
	var q listToolsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCatalogInvalidQuery, err.Error())
		return
	}

	query := types.ListQuery{
		Q:      q.Q,
		Tag:    q.Tag,
		Cap:    q.Cap,
		Limit:  q.Limit,
		Offset: q.Offset,
		Sort:   types.SortField(strings.ToLower(strings.TrimSpace(q.Sort))),
	}
	// limit=0 is out of range; only an absent limit takes the default.
	if _, set := c.GetQuery("limit"); set && q.Limit == 0 {
		query.Limit = -1
	}
	if q.Language != "" {
		query.Language = locale.Locale(strings.ToLower(strings.TrimSpace(q.Language)))
	}

	result, err := s.useCase.ListTools(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, biz.ErrInvalidQuery) {
			response.ErrorWithCode(c, apperrors.ErrCatalogInvalidQuery, strings.TrimPrefix(err.Error(), biz.ErrInvalidQuery.Error()+": "))
			return
		}
		s.logger.WithContext(c.Request.Context()).Error("list tools failed", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrCatalogUnavailable)
		return
	}
	response.JSON(c, result)
}
