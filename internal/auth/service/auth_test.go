package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/myai/internal/auth"
	"github.com/lk2023060901/myai/internal/auth/biz"
	"github.com/lk2023060901/myai/internal/auth/data"
	"github.com/lk2023060901/myai/internal/conf"
	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/pkg/oauth2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	mu    sync.Mutex
	users []*biz.User
}

func (r *stubRepo) find(match func(*biz.User) bool) (*biz.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, biz.ErrUserNotFound
}

func (r *stubRepo) GetByID(_ context.Context, id int64) (*biz.User, error) {
	return r.find(func(u *biz.User) bool { return u.ID == id })
}

func (r *stubRepo) GetByEmail(_ context.Context, email string) (*biz.User, error) {
	return r.find(func(u *biz.User) bool { return u.Email == email })
}

func (r *stubRepo) Create(_ context.Context, user *biz.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = int64(len(r.users) + 1)
	cp := *user
	r.users = append(r.users, &cp)
	return nil
}

func (r *stubRepo) Update(_ context.Context, user *biz.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID-1] = &cp
	return nil
}

func (r *stubRepo) UpsertOAuthUser(ctx context.Context, id *oauth2.Identity) (*biz.User, error) {
	if u, err := r.GetByEmail(ctx, id.Email); err == nil {
		return u, nil
	}
	u := &biz.User{Email: id.Email, Name: id.Name, IsActive: true}
	return u, r.Create(ctx, u)
}

type stubProvider struct{}

func (stubProvider) Name() string                { return "google" }
func (stubProvider) AuthURL(state string) string { return "https://accounts.example/auth?state=" + state }
func (stubProvider) Exchange(context.Context, string) (*oauth2.Identity, error) {
	return &oauth2.Identity{Provider: "google", Subject: "s1", Email: "g@example.com", Name: "Gina"}, nil
}

func newRouter(t *testing.T, provider oauth2.Provider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jm := auth.NewJWTManager("secret", "my-ai", time.Hour, 24*time.Hour)
	uc := biz.NewAuthUseCase(&stubRepo{}, data.NewStateStore(kv.NewMemory()), jm, provider, nil)
	google := conf.GoogleConfig{}
	if provider != nil {
		google = conf.GoogleConfig{ClientID: "cid", ClientSecret: "sec", RedirectURL: "http://localhost/cb"}
	}
	svc := NewAuthService(uc, auth.CookieConfig{SameSite: "lax"}, google, nil, nil)

	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

type call struct {
	method  string
	target  string
	body    string
	cookies []*http.Cookie
	header  map[string]string
}

func do(r http.Handler, c call) *httptest.ResponseRecorder {
	req := httptest.NewRequest(c.method, c.target, strings.NewReader(c.body))
	if c.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cookieMap(w *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func code(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestRegisterLoginSession(t *testing.T) {
	r := newRouter(t, nil)

	w := do(r, call{method: http.MethodPost, target: "/auth/register", body: `{"email":"Ana@Example.com","password":"pw","name":"Ana"}`})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		User struct {
			ID      int64   `json:"id"`
			Email   string  `json:"email"`
			Name    *string `json:"name"`
			Picture *string `json:"picture"`
		} `json:"user"`
		Tokens auth.TokenPair `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.User.ID)
	assert.Equal(t, "ana@example.com", got.User.Email)
	require.NotNil(t, got.User.Name)
	assert.Equal(t, "Ana", *got.User.Name)
	assert.Nil(t, got.User.Picture)
	assert.Equal(t, "bearer", got.Tokens.TokenType)

	cookies := cookieMap(w)
	require.Contains(t, cookies, auth.AccessCookieName)
	require.Contains(t, cookies, auth.RefreshCookieName)
	require.Contains(t, cookies, auth.XSRFCookieName)

	t.Run("duplicate", func(t *testing.T) {
		w := do(r, call{method: http.MethodPost, target: "/auth/register", body: `{"email":"ana@example.com","password":"x"}`})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 2002, code(t, w))
	})

	t.Run("missing fields", func(t *testing.T) {
		w := do(r, call{method: http.MethodPost, target: "/auth/register", body: `{"email":"b@example.com"}`})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 2001, code(t, w))
	})

	t.Run("wrong password", func(t *testing.T) {
		w := do(r, call{method: http.MethodPost, target: "/auth/login", body: `{"email":"ana@example.com","password":"nope"}`})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 2000, code(t, w))
	})

	t.Run("login", func(t *testing.T) {
		w := do(r, call{method: http.MethodPost, target: "/auth/login", body: `{"email":"ana@example.com","password":"pw"}`})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, cookieMap(w), 3)
	})

	t.Run("me with cookie", func(t *testing.T) {
		w := do(r, call{method: http.MethodGet, target: "/auth/me", cookies: []*http.Cookie{cookies[auth.AccessCookieName]}})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":1,"email":"ana@example.com","name":"Ana","picture":null}`, w.Body.String())
	})

	t.Run("me with bearer", func(t *testing.T) {
		w := do(r, call{method: http.MethodGet, target: "/auth/me", header: map[string]string{"Authorization": "Bearer " + got.Tokens.AccessToken}})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("me without token", func(t *testing.T) {
		w := do(r, call{method: http.MethodGet, target: "/auth/me"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	xsrf := cookies[auth.XSRFCookieName]
	withCSRF := map[string]string{auth.XSRFHeaderName: xsrf.Value}

	t.Run("patch me", func(t *testing.T) {
		w := do(r, call{
			method:  http.MethodPatch,
			target:  "/auth/me",
			body:    `{"name":"  Ana P. ","picture":"https://pics.example/a.png"}`,
			cookies: []*http.Cookie{cookies[auth.AccessCookieName], xsrf},
			header:  withCSRF,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"id":1,"email":"ana@example.com","name":"Ana P.","picture":"https://pics.example/a.png"}`, w.Body.String())
	})

	t.Run("patch me without csrf", func(t *testing.T) {
		w := do(r, call{method: http.MethodPatch, target: "/auth/me", body: `{"name":"x"}`,
			cookies: []*http.Cookie{cookies[auth.AccessCookieName]}})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("refresh", func(t *testing.T) {
		w := do(r, call{method: http.MethodPost, target: "/auth/refresh", cookies: []*http.Cookie{cookies[auth.RefreshCookieName], xsrf}, header: withCSRF})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
		assert.NotEmpty(t, cookieMap(w)[auth.AccessCookieName].Value)
	})

	t.Run("refresh without cookie", func(t *testing.T) {
		w := do(r, call{method: http.MethodPost, target: "/auth/refresh", cookies: []*http.Cookie{xsrf}, header: withCSRF})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 2004, code(t, w))
	})

	t.Run("refresh with access token", func(t *testing.T) {
		bad := &http.Cookie{Name: auth.RefreshCookieName, Value: got.Tokens.AccessToken}
		w := do(r, call{method: http.MethodPost, target: "/auth/refresh", cookies: []*http.Cookie{bad, xsrf}, header: withCSRF})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("logout", func(t *testing.T) {
		w := do(r, call{method: http.MethodPost, target: "/auth/logout", cookies: []*http.Cookie{xsrf}, header: withCSRF})
		require.Equal(t, http.StatusOK, w.Code)
		for name, c := range cookieMap(w) {
			assert.Empty(t, c.Value, name)
			assert.Negative(t, c.MaxAge, name)
		}
	})
}

func TestProvidersAndHealth(t *testing.T) {
	r := newRouter(t, nil)

	w := do(r, call{method: http.MethodGet, target: "/auth/providers"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"google":false,"facebook":false,"apple":false}`, w.Body.String())

	w = do(r, call{method: http.MethodGet, target: "/auth/health"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"google_client_id": false,
		"google_secret": false,
		"google_redirect": null,
		"jwt_loaded": true,
		"cookie_secure": false,
		"cookie_samesite": "lax",
		"cookie_domain": null
	}`, w.Body.String())

	w = do(newRouter(t, stubProvider{}), call{method: http.MethodGet, target: "/auth/providers"})
	assert.JSONEq(t, `{"google":true,"facebook":false,"apple":false}`, w.Body.String())
}

func TestGoogleEndpoints(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		w := do(newRouter(t, nil), call{method: http.MethodGet, target: "/auth/login/google"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, 2006, code(t, w))
	})

	r := newRouter(t, stubProvider{})

	t.Run("redirect", func(t *testing.T) {
		w := do(r, call{method: http.MethodGet, target: "/auth/login/google?redirect=1"})
		assert.Equal(t, http.StatusFound, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "https://accounts.example/auth?state="))
	})

	t.Run("json then callback", func(t *testing.T) {
		w := do(r, call{method: http.MethodGet, target: "/auth/login/google"})
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			AuthURL string `json:"auth_url"`
			State   string `json:"state"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotEmpty(t, body.State)
		assert.Contains(t, body.AuthURL, body.State)

		w = do(r, call{method: http.MethodGet, target: "/auth/callback/google?code=c1&state=" + url.QueryEscape(body.State)})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "window.opener.postMessage(payload")
		assert.Contains(t, w.Body.String(), `"email":"g@example.com"`)
		assert.Len(t, cookieMap(w), 3)

		w = do(r, call{method: http.MethodGet, target: "/auth/callback/google?code=c1&state=" + url.QueryEscape(body.State)})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 2007, code(t, w))
	})
}
