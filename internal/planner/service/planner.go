package service

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/myai/internal/locale"
	apperrors "github.com/lk2023060901/myai/internal/pkg/errors"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/response"
	"github.com/lk2023060901/myai/internal/planner/biz"
	"go.uber.org/zap"
)

// PlannerService handles /plan and the /ratings endpoints
type PlannerService struct {
	useCase *biz.PlannerUseCase
	logger  *logger.Logger
}

// NewPlannerService creates a new planner service
func NewPlannerService(useCase *biz.PlannerUseCase, log *logger.Logger) *PlannerService {
	if log == nil {
		log = logger.Nop()
	}
	return &PlannerService{useCase: useCase, logger: log}
}

// RegisterRoutes registers planner routes
func (s *PlannerService) RegisterRoutes(r gin.IRouter) {
	r.POST("/plan", s.Plan)

	ratings := r.Group("/ratings")
	{
		ratings.POST("/refresh", s.RefreshRatings)
		ratings.GET("/health", s.RatingsHealth)
	}
}

// planRequest accepts the goal under user_goal and the older goal/prompt
// names.
type planRequest struct {
	UserGoal string `json:"user_goal"`
	Goal     string `json:"goal"`
	Prompt   string `json:"prompt"`
	Language string `json:"language"`
}

func (r *planRequest) goal() string {
	for _, g := range []string{r.UserGoal, r.Goal, r.Prompt} {
		if g = strings.TrimSpace(g); g != "" {
			return g
		}
	}
	return ""
}

// Plan generates steps and tool recommendations for a goal.
// The language falls back to the script of the goal when absent.
func (s *PlannerService) Plan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrPlanEmptyGoal, "invalid JSON body")
		return
	}

	goal := req.goal()
	lang, ok := locale.Parse(req.Language)
	if !ok {
		lang = locale.Detect(goal)
	}

	resp, err := s.useCase.Plan(c.Request.Context(), biz.PlanInput{
		Goal:     goal,
		Language: lang,
		Model:    c.Query("model"),
	})
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.JSON(c, resp)
}

func (s *PlannerService) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrEmptyGoal):
		response.ErrorWithCode(c, apperrors.ErrPlanEmptyGoal)
	case errors.Is(err, biz.ErrUnsupportedModel):
		response.ErrorWithCode(c, apperrors.ErrPlanInvalidModel, "model must be one of: "+strings.Join(biz.SupportedModels, ", "))
	case errors.Is(err, biz.ErrNoInventory):
		s.logger.WithContext(c.Request.Context()).Error("plan: inventory unavailable", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrPlanNoInventory)
	default:
		s.logger.WithContext(c.Request.Context()).Error("plan failed", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrPlanFailed)
	}
}

// RefreshRatings forces a live ratings fetch. Failures are reported in the
// body, not as an HTTP error.
func (s *PlannerService) RefreshRatings(c *gin.Context) {
	n, err := s.useCase.RefreshRatings(c.Request.Context())
	if err != nil {
		s.logger.WithContext(c.Request.Context()).Warn("ratings refresh failed", zap.Error(err))
	}
	response.JSON(c, gin.H{"ok": err == nil && n > 0, "count": n})
}

// RatingsHealth reports the ratings cache state.
func (s *PlannerService) RatingsHealth(c *gin.Context) {
	response.JSON(c, s.useCase.RatingsHealth(c.Request.Context()))
}
