package middleware

import (
	"crypto/subtle"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/myai/internal/auth"
	apperrors "github.com/lk2023060901/myai/internal/pkg/errors"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/response"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

// tokenFromRequest prefers the Authorization header and falls back to the
// access token cookie.
func tokenFromRequest(c *gin.Context) (string, bool) {
	if h := c.GetHeader("Authorization"); h != "" {
		token, err := auth.ExtractTokenFromHeader(h)
		return token, err == nil
	}
	token, err := c.Cookie(auth.AccessCookieName)
	return token, err == nil && token != ""
}

func authenticate(c *gin.Context, jm *auth.JWTManager) (int64, error) {
	token, ok := tokenFromRequest(c)
	if !ok {
		return 0, apperrors.New(apperrors.ErrUnauthorized, "missing token")
	}
	claims, err := jm.VerifyToken(token, auth.ScopeAccess)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrAuthInvalidToken)
	}
	id, err := claims.UserID()
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrAuthInvalidToken)
	}
	return id, nil
}

func setUser(c *gin.Context, id int64) {
	c.Set(userIDKey, id)
	ctx := logger.WithUserID(c.Request.Context(), strconv.FormatInt(id, 10))
	c.Request = c.Request.WithContext(ctx)
}

// JWTAuth requires a valid access token from the header or the cookie.
func JWTAuth(jm *auth.JWTManager, log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *gin.Context) {
		id, err := authenticate(c, jm)
		if err != nil {
			log.Debug("rejected access token", zap.Error(err), zap.String("ip", c.ClientIP()))
			response.HandleError(c, err)
			return
		}
		setUser(c, id)
		c.Next()
	}
}

// OptionalJWTAuth sets the user when a valid token is present and never
// rejects the request.
func OptionalJWTAuth(jm *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := authenticate(c, jm); err == nil {
			setUser(c, id)
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id.
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// CSRF enforces the double-submit check on state-changing methods: the
// X-XSRF-TOKEN header must equal the XSRF-TOKEN cookie.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}
		header := c.GetHeader(auth.XSRFHeaderName)
		cookie, err := c.Cookie(auth.XSRFCookieName)
		if header == "" || err != nil || cookie == "" ||
			subtle.ConstantTimeCompare([]byte(header), []byte(cookie)) != 1 {
			response.ErrorWithCode(c, apperrors.ErrAuthCSRF)
			return
		}
		c.Next()
	}
}

// CORS allows credentialed requests from the configured origins. "*"
// reflects any origin.
func CORS(origins []string) gin.HandlerFunc {
	allowAll := slices.Contains(origins, "*")
	allowHeaders := strings.Join([]string{
		"Origin", "Content-Type", "Accept", "Authorization", auth.XSRFHeaderName,
	}, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (allowAll || slices.Contains(origins, origin)) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", allowHeaders)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
