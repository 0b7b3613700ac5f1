package client

import (
	"context"
	"net/http"

	"github.com/lk2023060901/myai/internal/auth"
)

// User is the signed-in account as the backend reports it.
type User struct {
	ID      int64   `json:"id"`
	Email   string  `json:"email"`
	Name    *string `json:"name"`
	Picture *string `json:"picture"`
}

// DisplayName returns the name, or the email when the name is unset.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

type session struct {
	User User `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// ProfileUpdate changes the profile. Nil fields are kept, empty strings
// clear the field.
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty"`
	Picture *string `json:"picture,omitempty"`
}

// Providers reports which sign-in providers the backend has configured.
type Providers struct {
	Google   bool `json:"google"`
	Facebook bool `json:"facebook"`
	Apple    bool `json:"apple"`
}

// Register creates a password account and stores the session cookies.
func (c *Client) Register(ctx context.Context, email, password, name string) (*User, error) {
	var out session
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/register",
		body:      credentials{Email: email, Password: password, Name: name},
		noRefresh: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login signs in with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out session
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/login",
		body:      credentials{Email: email, Password: password},
		noRefresh: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Logout asks the backend to clear the session and forgets the local
// cookies even when the call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/logout", noRefresh: true}, nil)
	c.jar.Clear(c.base)
	return err
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe changes the profile of the signed-in user.
func (c *Client) UpdateMe(ctx context.Context, upd ProfileUpdate) (*User, error) {
	var out User
	if err := c.do(ctx, request{method: http.MethodPatch, path: "/auth/me", body: upd}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Providers(ctx context.Context) (*Providers, error) {
	var out Providers
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/providers"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GoogleLoginURL returns the consent page URL. The browser finishes the
// flow; its cookies belong to the browser, not to this client.
func (c *Client) GoogleLoginURL(ctx context.Context) (string, error) {
	var out struct {
		AuthURL string `json:"auth_url"`
	}
	err := c.do(ctx, request{method: http.MethodGet, path: "/auth/login/google", noRefresh: true}, &out)
	if err != nil {
		return "", err
	}
	return out.AuthURL, nil
}

// SignedIn reports whether the jar holds any session cookie.
func (c *Client) SignedIn() bool {
	for _, name := range []string{auth.AccessCookieName, auth.RefreshCookieName} {
		if _, ok := c.jar.Value(c.base, name); ok {
			return true
		}
	}
	return false
}

