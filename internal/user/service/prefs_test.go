package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/myai/internal/auth"
	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/user/biz"
	"github.com/lk2023060901/myai/internal/user/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type client struct {
	t      *testing.T
	router *gin.Engine
	access string
}

func newClient(t *testing.T) *client {
	jm := auth.NewJWTManager("secret", "my-ai", time.Hour, 24*time.Hour)
	pair, err := jm.GeneratePair(42)
	require.NoError(t, err)

	uc := biz.NewPrefsUseCase(data.NewPrefsRepo(kv.NewMemory(), nil), nil)
	r := gin.New()
	NewPrefsService(uc, jm, nil).RegisterRoutes(r)
	return &client{t: t, router: r, access: pair.AccessToken}
}

func (c *client) do(method, path, body string, xsrf bool) (*httptest.ResponseRecorder, map[string]any) {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: auth.AccessCookieName, Value: c.access})
	if xsrf {
		req.AddCookie(&http.Cookie{Name: auth.XSRFCookieName, Value: "tok"})
		req.Header.Set(auth.XSRFHeaderName, "tok")
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

func TestFavoritesEndpoints(t *testing.T) {
	c := newClient(t)

	w, body := c.do(http.MethodGet, "/me/favorites", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"data":{"favorites":[]}}`, w.Body.String())

	w, _ = c.do(http.MethodPost, "/me/favorites", `{"name":"Suno","link":"https://suno.ai"}`, false)
	require.Equal(t, http.StatusForbidden, w.Code, "mutations need the xsrf pair")

	w, _ = c.do(http.MethodPost, "/me/favorites", `{"name":"Suno","link":"https://suno.ai"}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = c.do(http.MethodPost, "/me/favorites", `{"name":"Runway ML"}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"data":{"favorites":[{"name":"Suno","link":"https://suno.ai"},{"name":"Runway ML"}]}}`, w.Body.String())

	w, _ = c.do(http.MethodDelete, "/me/favorites/"+url.PathEscape("Runway ML"), "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"data":{"favorites":[{"name":"Suno","link":"https://suno.ai"}]}}`, w.Body.String())

	w, body = c.do(http.MethodPost, "/me/favorites", `{"name":""}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, 5000, body["code"])
}

func TestRecentsEndpoints(t *testing.T) {
	c := newClient(t)

	w, _ := c.do(http.MethodPost, "/me/recents", `{"prompt":"make a logo"}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = c.do(http.MethodPost, "/me/recents", `{"prompt":"write a song"}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"data":{"recents":["write a song","make a logo"]}}`, w.Body.String())

	w, _ = c.do(http.MethodDelete, "/me/recents?prompt="+url.QueryEscape("make a logo"), "", true)
	assert.JSONEq(t, `{"code":0,"data":{"recents":["write a song"]}}`, w.Body.String())

	w, _ = c.do(http.MethodDelete, "/me/recents", "", true)
	assert.JSONEq(t, `{"code":0,"data":{"recents":[]}}`, w.Body.String())

	w, body := c.do(http.MethodPost, "/me/recents", `{"prompt":" "}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, 5001, body["code"])
}

func TestPrefsRequireSession(t *testing.T) {
	c := newClient(t)
	c.access = ""
	w, body := c.do(http.MethodGet, "/me/recents", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.EqualValues(t, 1003, body["code"])
}
