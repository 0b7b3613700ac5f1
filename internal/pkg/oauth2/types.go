package oauth2

import (
	"context"
	"time"
)

// Provider is an OAuth2 / OpenID Connect login provider.
type Provider interface {
	// Name is the provider key stored with linked accounts, e.g. "google".
	Name() string

	// AuthURL builds the consent URL carrying state.
	AuthURL(state string) string

	// Exchange trades an authorization code for a verified identity.
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// Config OAuth2 client configuration
type Config struct {
	ClientID     string   `yaml:"client_id" json:"client_id"`
	ClientSecret string   `yaml:"client_secret" json:"client_secret"`
	RedirectURL  string   `yaml:"redirect_url" json:"redirect_url"`
	Scopes       []string `yaml:"scopes" json:"scopes"`

	// Optional endpoint overrides, mostly for tests.
	AuthURL  string `yaml:"auth_url" json:"auth_url,omitempty"`
	TokenURL string `yaml:"token_url" json:"token_url,omitempty"`
	JWKSURL  string `yaml:"jwks_url" json:"jwks_url,omitempty"`

	// Timeout bounds the code exchange and the JWKS download.
	Timeout time.Duration `yaml:"timeout" json:"timeout,omitempty"`
}

// Identity is the verified profile returned by a provider, plus the
// provider tokens that are stored on the linked account.
type Identity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
	Picture  string

	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
	Raw          map[string]any
}
