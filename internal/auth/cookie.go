package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Cookie and header names shared by the server and the HTTP client.
const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
	XSRFCookieName    = "XSRF-TOKEN"
	XSRFHeaderName    = "X-XSRF-TOKEN"
)

// CookieConfig controls the attributes of the session cookies.
type CookieConfig struct {
	Secure   bool
	SameSite string // lax, strict, none
	Domain   string
}

func (c CookieConfig) sameSite() http.SameSite {
	switch strings.ToLower(c.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (c CookieConfig) cookie(name, value string, maxAge time.Duration, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: httpOnly,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
	}
}

// NewXSRFToken returns 24 random bytes, URL-safe base64 encoded.
func NewXSRFToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate xsrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SetAccessCookie writes the HttpOnly access token cookie.
func (c CookieConfig) SetAccessCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, c.cookie(AccessCookieName, token, ttl, true))
}

// SetSessionCookies writes both token cookies plus a fresh double-submit
// XSRF cookie, which stays readable by scripts. It returns the XSRF value.
func (c CookieConfig) SetSessionCookies(w http.ResponseWriter, pair *TokenPair, accessTTL, refreshTTL time.Duration) (string, error) {
	xsrf, err := NewXSRFToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, c.cookie(AccessCookieName, pair.AccessToken, accessTTL, true))
	http.SetCookie(w, c.cookie(RefreshCookieName, pair.RefreshToken, refreshTTL, true))
	http.SetCookie(w, c.cookie(XSRFCookieName, xsrf, refreshTTL, false))
	return xsrf, nil
}

// ClearSessionCookies expires all three session cookies.
func (c CookieConfig) ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessCookieName, RefreshCookieName, XSRFCookieName} {
		ck := c.cookie(name, "", 0, name != XSRFCookieName)
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
		http.SetCookie(w, ck)
	}
}
