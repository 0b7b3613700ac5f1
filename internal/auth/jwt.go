package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token lifetimes used when the manager is built with zero durations.
const (
	AccessTokenDuration  = 60 * time.Minute
	RefreshTokenDuration = 30 * 24 * time.Hour
)

// Scope separates access tokens from refresh tokens signed with the same key.
type Scope string

const (
	ScopeAccess  Scope = "access"
	ScopeRefresh Scope = "refresh"
)

var (
	ErrInvalidScope   = errors.New("invalid token scope")
	ErrInvalidSubject = errors.New("invalid token subject")
)

// JWTClaims are the session token claims. sub carries the numeric user id.
type JWTClaims struct {
	Scope Scope `json:"scope"`
	jwt.RegisteredClaims
}

// UserID parses the subject as a user id.
func (c *JWTClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidSubject
	}
	return id, nil
}

// TokenPair is the token body returned by login, register and the OAuth
// callback.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// JWTManager signs and verifies HS256 session tokens.
type JWTManager struct {
	secretKey  []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTManager creates a JWT manager
func NewJWTManager(secretKey, issuer string, accessTTL, refreshTTL time.Duration) *JWTManager {
	if accessTTL <= 0 {
		accessTTL = AccessTokenDuration
	}
	if refreshTTL <= 0 {
		refreshTTL = RefreshTokenDuration
	}
	return &JWTManager{
		secretKey:  []byte(secretKey),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *JWTManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *JWTManager) RefreshTTL() time.Duration { return m.refreshTTL }

// GenerateToken signs a token of scope for userID.
func (m *JWTManager) GenerateToken(userID int64, scope Scope) (string, error) {
	ttl := m.accessTTL
	if scope == ScopeRefresh {
		ttl = m.refreshTTL
	}
	now := m.now()
	claims := &JWTClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", scope, err)
	}
	return signed, nil
}

// GeneratePair signs an access and a refresh token for userID.
func (m *JWTManager) GeneratePair(userID int64) (*TokenPair, error) {
	access, err := m.GenerateToken(userID, ScopeAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := m.GenerateToken(userID, ScopeRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// VerifyToken checks signature, issuer, expiry and scope.
func (m *JWTManager) VerifyToken(tokenString string, scope Scope) (*JWTClaims, error) {
	claims := &JWTClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.Scope != scope {
		return nil, ErrInvalidScope
	}
	return claims, nil
}

// ExtractTokenFromHeader returns the token of an "Authorization: Bearer
// <token>" header. The scheme is matched case-insensitively.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", fmt.Errorf("invalid authorization header format")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return token, nil
}
