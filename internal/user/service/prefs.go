package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/myai/internal/auth"
	"github.com/lk2023060901/myai/internal/auth/middleware"
	apperrors "github.com/lk2023060901/myai/internal/pkg/errors"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/response"
	"github.com/lk2023060901/myai/internal/prefs"
	"github.com/lk2023060901/myai/internal/user/biz"
	"go.uber.org/zap"
)

// PrefsService exposes the signed-in user's favorites and recent prompts.
type PrefsService struct {
	useCase *biz.PrefsUseCase
	jwt     *auth.JWTManager
	logger  *logger.Logger
}

// NewPrefsService creates a new preference service
func NewPrefsService(useCase *biz.PrefsUseCase, jwt *auth.JWTManager, log *logger.Logger) *PrefsService {
	if log == nil {
		log = logger.Nop()
	}
	return &PrefsService{useCase: useCase, jwt: jwt, logger: log}
}

// RegisterRoutes registers preference routes
func (s *PrefsService) RegisterRoutes(r gin.IRouter) {
	me := r.Group("/me", middleware.CSRF(), middleware.JWTAuth(s.jwt, s.logger))
	{
		me.GET("/favorites", s.ListFavorites)
		me.POST("/favorites", s.AddFavorite)
		me.DELETE("/favorites/:name", s.RemoveFavorite)

		me.GET("/recents", s.ListRecents)
		me.POST("/recents", s.PushRecent)
		me.DELETE("/recents", s.RemoveRecent)
	}
}

type favoritesOut struct {
	Favorites []prefs.FavTool `json:"favorites"`
}

type recentsOut struct {
	Recents []string `json:"recents"`
}

type recentRequest struct {
	Prompt string `json:"prompt"`
}

func favorites(list []prefs.FavTool) favoritesOut {
	if list == nil {
		list = []prefs.FavTool{}
	}
	return favoritesOut{Favorites: list}
}

func recents(list []string) recentsOut {
	if list == nil {
		list = []string{}
	}
	return recentsOut{Recents: list}
}

func (s *PrefsService) ListFavorites(c *gin.Context) {
	id, _ := middleware.GetUserID(c)
	response.Success(c, favorites(s.useCase.Favorites(c.Request.Context(), id)))
}

// AddFavorite stores {name, icon, link}; re-adding a name updates it.
func (s *PrefsService) AddFavorite(c *gin.Context) {
	var req prefs.FavTool
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
		return
	}
	id, _ := middleware.GetUserID(c)
	list, err := s.useCase.AddFavorite(c.Request.Context(), id, req)
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, favorites(list))
}

func (s *PrefsService) RemoveFavorite(c *gin.Context) {
	id, _ := middleware.GetUserID(c)
	list, err := s.useCase.RemoveFavorite(c.Request.Context(), id, c.Param("name"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, favorites(list))
}

func (s *PrefsService) ListRecents(c *gin.Context) {
	id, _ := middleware.GetUserID(c)
	response.Success(c, recents(s.useCase.Recents(c.Request.Context(), id)))
}

func (s *PrefsService) PushRecent(c *gin.Context) {
	var req recentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
		return
	}
	id, _ := middleware.GetUserID(c)
	list, err := s.useCase.PushRecent(c.Request.Context(), id, req.Prompt)
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, recents(list))
}

// RemoveRecent drops ?prompt=..., or clears the list without it.
func (s *PrefsService) RemoveRecent(c *gin.Context) {
	id, _ := middleware.GetUserID(c)
	response.Success(c, recents(s.useCase.RemoveRecent(c.Request.Context(), id, c.Query("prompt"))))
}

func (s *PrefsService) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrInvalidTool):
		response.ErrorWithCode(c, apperrors.ErrPrefsInvalidTool)
	case errors.Is(err, biz.ErrInvalidPrompt):
		response.ErrorWithCode(c, apperrors.ErrPrefsInvalidPrompt)
	default:
		s.logger.WithContext(c.Request.Context()).Error("prefs request failed", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrInternalServer)
	}
}
