package oauth2

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

	defaultTimeout = 20 * time.Second
	jwksMaxAge     = time.Hour
)

var (
	ErrMissingIDToken = errors.New("token response carries no id_token")
	ErrUnknownKey     = errors.New("no matching JWK for id_token")
	ErrInvalidIssuer  = errors.New("invalid id_token issuer")
)

// googleIssuers are the iss values Google puts in id_tokens.
var googleIssuers = map[string]bool{
	"https://accounts.google.com": true,
	"accounts.google.com":         true,
}

// GoogleClaims are the id_token claims read from Google.
type GoogleClaims struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
	jwt.RegisteredClaims
}

// DisplayName returns name, or given and family name joined.
func (c *GoogleClaims) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return strings.TrimSpace(c.GivenName + " " + c.FamilyName)
}

// GoogleProvider implements the Google sign-in code flow: consent URL,
// code exchange and id_token verification against Google's JWKS.
type GoogleProvider struct {
	oauth2Config *oauth2.Config
	jwksURL      string
	http         *http.Client

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewGoogleProvider creates a Google provider. Scopes default to
// openid, email and profile.
func NewGoogleProvider(cfg *Config) (*GoogleProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("oauth2 config is required")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, fmt.Errorf("client_id, client_secret and redirect_url are required")
	}

	endpoint := google.Endpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}
	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		jwksURL = GoogleJWKSURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       scopes,
			RedirectURL:  cfg.RedirectURL,
		},
		jwksURL: jwksURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (p *GoogleProvider) Name() string { return "google" }

// AuthURL builds the consent URL. Online access with account selection,
// matching a popup sign-in.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange trades code for tokens and verifies the returned id_token.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.http)
	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return nil, ErrMissingIDToken
	}
	claims, err := p.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	var expiresAt int64
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry.Unix()
	}
	raw := map[string]any{
		"access_token": token.AccessToken,
		"token_type":   token.TokenType,
		"id_token":     idToken,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		raw["scope"] = scope
	}
	if expiresAt > 0 {
		raw["expires_at"] = expiresAt
	}

	return &Identity{
		Provider:     p.Name(),
		Subject:      claims.Subject,
		Email:        strings.ToLower(claims.Email),
		Name:         claims.DisplayName(),
		Picture:      claims.Picture,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expiresAt,
		Raw:          raw,
	}, nil
}

// VerifyIDToken checks an RS256 id_token signature against the JWKS, the
// audience against the client id and the issuer against Google's.
func (p *GoogleProvider) VerifyIDToken(ctx context.Context, raw string) (*GoogleClaims, error) {
	claims := &GoogleClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid in id_token header")
		}
		return p.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(p.oauth2Config.ClientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}
	if !googleIssuers[claims.Issuer] {
		return nil, ErrInvalidIssuer
	}
	if claims.Subject == "" {
		return nil, errors.New("id_token has no subject")
	}
	return claims, nil
}

// key returns the public key for kid, refetching the JWKS when the kid is
// unknown or the cached set is stale.
func (p *GoogleProvider) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if k, ok := p.keys[kid]; ok && time.Since(p.fetchedAt) < jwksMaxAge {
		return k, nil
	}
	keys, err := p.fetchKeys(ctx)
	if err != nil {
		return nil, err
	}
	p.keys = keys
	p.fetchedAt = time.Now()

	k, ok := keys[kid]
	if !ok {
		return nil, ErrUnknownKey
	}
	return k, nil
}

type jsonWebKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (p *GoogleProvider) fetchKeys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create jwks request: %w", err)
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch jwks: status %d", resp.StatusCode)
	}

	var set struct {
		Keys []jsonWebKey `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("decode jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pub, err := rsaKey(k.N, k.E)
		if err != nil {
			return nil, fmt.Errorf("jwk %s: %w", k.Kid, err)
		}
		keys[k.Kid] = pub
	}
	return keys, nil
}

func rsaKey(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}
	exp := 0
	for _, b := range eb {
		exp = exp<<8 | int(b)
	}
	if exp == 0 {
		return nil, errors.New("empty exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: exp}, nil
}
