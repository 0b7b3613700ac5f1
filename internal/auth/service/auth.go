package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/myai/internal/auth"
	"github.com/lk2023060901/myai/internal/auth/biz"
	"github.com/lk2023060901/myai/internal/auth/middleware"
	"github.com/lk2023060901/myai/internal/conf"
	apperrors "github.com/lk2023060901/myai/internal/pkg/errors"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/redis"
	"github.com/lk2023060901/myai/internal/pkg/response"
	"go.uber.org/zap"
)

// AuthService handles the /auth endpoints
type AuthService struct {
	useCase *biz.AuthUseCase
	cookies auth.CookieConfig
	google  conf.GoogleConfig
	limiter *redis.Client
	logger  *logger.Logger
}

// NewAuthService creates a new auth service. limiter may be nil, which
// disables the login and register rate limits.
func NewAuthService(useCase *biz.AuthUseCase, cookies auth.CookieConfig, google conf.GoogleConfig, limiter *redis.Client, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthService{
		useCase: useCase,
		cookies: cookies,
		google:  google,
		limiter: limiter,
		logger:  log,
	}
}

// RegisterRoutes registers auth routes
func (s *AuthService) RegisterRoutes(r gin.IRouter) {
	jwtAuth := middleware.JWTAuth(s.useCase.JWT(), s.logger)
	csrf := middleware.CSRF()

	group := r.Group("/auth")
	{
		group.GET("/providers", s.Providers)
		group.GET("/health", s.Health)
		group.GET("/login/google", s.LoginGoogle)
		group.GET("/callback/google", s.CallbackGoogle)
		group.POST("/register", middleware.RegisterRateLimiter(s.limiter, s.logger), s.Register)
		group.POST("/login", middleware.LoginRateLimiter(s.limiter, s.logger), s.Login)
		group.POST("/refresh", csrf, s.Refresh)
		group.POST("/logout", csrf, s.Logout)
		group.GET("/me", jwtAuth, s.Me)
		group.PATCH("/me", csrf, jwtAuth, s.UpdateMe)
	}
}

type userOut struct {
	ID      int64   `json:"id"`
	Email   string  `json:"email"`
	Name    *string `json:"name"`
	Picture *string `json:"picture"`
}

func toUserOut(u *biz.User) userOut {
	out := userOut{ID: u.ID, Email: u.Email}
	if u.Name != "" {
		out.Name = &u.Name
	}
	if u.Picture != "" {
		out.Picture = &u.Picture
	}
	return out
}

type authResponse struct {
	User   userOut         `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type profileRequest struct {
	Name    *string `json:"name"`
	Picture *string `json:"picture"`
}

// Providers reports which sign-in providers are configured.
func (s *AuthService) Providers(c *gin.Context) {
	response.JSON(c, gin.H{
		"google":   s.useCase.GoogleEnabled(),
		"facebook": false,
		"apple":    false,
	})
}

// Health reports auth configuration without exposing secrets.
func (s *AuthService) Health(c *gin.Context) {
	response.JSON(c, gin.H{
		"google_client_id": s.google.ClientID != "",
		"google_secret":    s.google.ClientSecret != "",
		"google_redirect":  optional(s.google.RedirectURL),
		"jwt_loaded":       s.useCase.JWT() != nil,
		"cookie_secure":    s.cookies.Secure,
		"cookie_samesite":  s.cookies.SameSite,
		"cookie_domain":    optional(s.cookies.Domain),
	})
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// LoginGoogle returns the consent URL, or redirects to it with ?redirect=1.
func (s *AuthService) LoginGoogle(c *gin.Context) {
	authURL, state, err := s.useCase.BeginGoogle(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return
	}
	if redirect, _ := strconv.ParseBool(c.Query("redirect")); redirect {
		c.Redirect(http.StatusFound, authURL)
		return
	}
	response.JSON(c, gin.H{"auth_url": authURL, "state": state})
}

// callbackPage hands the session to the opener window and closes the popup.
const callbackPage = `<!doctype html>
<html><body><script>
  var payload = %s;
  try {
    if (window.opener) {
      window.opener.postMessage(payload, "*");
    }
  } catch (e) {}
  window.close();
  document.body.textContent = JSON.stringify(payload);
</script></body></html>
`

// CallbackGoogle completes the Google code flow, sets the session cookies
// and renders the popup page.
func (s *AuthService) CallbackGoogle(c *gin.Context) {
	session, err := s.useCase.CompleteGoogle(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	if !s.setSession(c, session) {
		return
	}

	// json.Marshal escapes <, > and &, so the payload is safe inside <script>.
	payload, err := json.Marshal(authResponse{User: toUserOut(session.User), Tokens: session.Tokens})
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", fmt.Appendf(nil, callbackPage, payload))
}

// Register creates a password account and signs it in.
func (s *AuthService) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
		return
	}
	session, err := s.useCase.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.handleError(c, err)
		return
	}
	s.respondSession(c, session)
}

// Login signs in with email and password.
func (s *AuthService) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
		return
	}
	session, err := s.useCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.handleError(c, err)
		return
	}
	s.respondSession(c, session)
}

// Refresh issues a new access cookie from the refresh cookie.
func (s *AuthService) Refresh(c *gin.Context) {
	token, err := c.Cookie(auth.RefreshCookieName)
	if err != nil || token == "" {
		response.ErrorWithCode(c, apperrors.ErrAuthInvalidToken, "missing refresh token")
		return
	}
	access, err := s.useCase.Refresh(token)
	if err != nil {
		s.handleError(c, err)
		return
	}
	s.cookies.SetAccessCookie(c.Writer, access, s.useCase.JWT().AccessTTL())
	response.JSON(c, gin.H{"ok": true})
}

// Logout clears the session cookies.
func (s *AuthService) Logout(c *gin.Context) {
	s.cookies.ClearSessionCookies(c.Writer)
	response.JSON(c, gin.H{"ok": true})
}

// Me returns the signed-in user.
func (s *AuthService) Me(c *gin.Context) {
	id, _ := middleware.GetUserID(c)
	user, err := s.useCase.CurrentUser(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.JSON(c, toUserOut(user))
}

// UpdateMe changes name and picture. Empty strings clear a field.
func (s *AuthService) UpdateMe(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
		return
	}
	id, _ := middleware.GetUserID(c)
	user, err := s.useCase.UpdateProfile(c.Request.Context(), id, biz.ProfileUpdate{Name: req.Name, Picture: req.Picture})
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.JSON(c, toUserOut(user))
}

func (s *AuthService) setSession(c *gin.Context, session *biz.Session) bool {
	jm := s.useCase.JWT()
	if _, err := s.cookies.SetSessionCookies(c.Writer, session.Tokens, jm.AccessTTL(), jm.RefreshTTL()); err != nil {
		s.handleError(c, err)
		return false
	}
	return true
}

func (s *AuthService) respondSession(c *gin.Context, session *biz.Session) {
	if !s.setSession(c, session) {
		return
	}
	response.JSON(c, authResponse{User: toUserOut(session.User), Tokens: session.Tokens})
}

func (s *AuthService) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrMissingCredentials):
		response.ErrorWithCode(c, apperrors.ErrAuthMissingCredentials)
	case errors.Is(err, biz.ErrInvalidEmail), errors.Is(err, biz.ErrPasswordTooLong):
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
	case errors.Is(err, biz.ErrEmailAlreadyExists):
		response.ErrorWithCode(c, apperrors.ErrAuthEmailExists)
	case errors.Is(err, biz.ErrUserInactive):
		response.ErrorWithCode(c, apperrors.ErrAuthUserInactive)
	case errors.Is(err, biz.ErrInvalidCredentials):
		response.ErrorWithCode(c, apperrors.ErrAuthInvalidCredentials)
	case errors.Is(err, biz.ErrInvalidToken):
		response.ErrorWithCode(c, apperrors.ErrAuthInvalidToken)
	case errors.Is(err, biz.ErrUserNotFound):
		response.ErrorWithCode(c, apperrors.ErrUnauthorized, "user not found")
	case errors.Is(err, biz.ErrProviderDisabled):
		response.ErrorWithCode(c, apperrors.ErrAuthProviderDisabled)
	case errors.Is(err, biz.ErrInvalidState):
		response.ErrorWithCode(c, apperrors.ErrAuthOAuthState)
	case errors.Is(err, biz.ErrOAuthExchange):
		response.ErrorWithCode(c, apperrors.ErrAuthOAuthExchange)
	default:
		s.logger.WithContext(c.Request.Context()).Error("auth request failed", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrInternalServer)
	}
}
