package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	ctypes "github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/lk2023060901/myai/internal/plan"
	"github.com/lk2023060901/myai/internal/planner/biz"
	"github.com/lk2023060901/myai/internal/planner/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInventory struct {
	tools []*ctypes.Tool
	err   error
}

func (s *stubInventory) Inventory(context.Context) ([]*ctypes.Tool, error) { return s.tools, s.err }

type stubRatings struct {
	count int
	err   error
}

func (s *stubRatings) Snapshot(context.Context) map[string]float64 { return nil }
func (s *stubRatings) Refresh(context.Context) (int, error)        { return s.count, s.err }
func (s *stubRatings) Health(context.Context) biz.RatingsHealth {
	return biz.RatingsHealth{OK: s.err == nil, Count: s.count, Source: "live", Enabled: true}
}

func newRouter(inv *stubInventory, ratings biz.RatingsSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	uc := biz.NewPlannerUseCase(nil, ratings, data.NewToolIndex(nil, nil), inv, nil, nil)
	r := gin.New()
	NewPlannerService(uc, nil).RegisterRoutes(r)
	return r
}

func inventory() *stubInventory {
	return &stubInventory{tools: []*ctypes.Tool{
		{Name: "ChatGPT", Tags: []string{"cap:text-explain"}, Links: map[string]string{"website": "https://chat.openai.com"}},
		{Name: "Midjourney", Tags: []string{"cap:image-generate"}, Links: map[string]string{"website": "https://midjourney.com"}},
		{Name: "Canva AI", Tags: []string{"cap:image-edit", "cap:slide-generate"}},
	}}
}

func post(r http.Handler, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestPlan(t *testing.T) {
	r := newRouter(inventory(), nil)

	w := post(r, "/plan", `{"user_goal":"Design a logo","language":"en"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp plan.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Design a logo", resp.Goal)
	require.Len(t, resp.Plan, 3)
	assert.Equal(t, "Generate concepts and visuals", resp.Plan[1].Task)
	assert.Equal(t, "Midjourney", resp.Plan[1].Tools[0].Name)
	assert.Equal(t, "https://midjourney.com", resp.Plan[1].Tools[0].Link)
	assert.Len(t, resp.Groups, 3)
}

func TestPlan_AliasesAndDetectedLanguage(t *testing.T) {
	r := newRouter(inventory(), nil)

	for _, body := range []string{
		`{"goal":"Направи лого за пекарна"}`,
		`{"prompt":"Направи лого за пекарна"}`,
	} {
		w := post(r, "/plan", body)
		require.Equal(t, http.StatusOK, w.Code, body)

		var resp plan.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Plan)
		assert.Equal(t, "Изясни нуждите и стиловете", resp.Plan[0].Task)
	}
}

func TestPlan_Errors(t *testing.T) {
	tests := []struct {
		name   string
		inv    *stubInventory
		target string
		body   string
		status int
		code   int
	}{
		{"empty goal", inventory(), "/plan", `{"user_goal":"  "}`, http.StatusBadRequest, 3000},
		{"bad json", inventory(), "/plan", `{`, http.StatusBadRequest, 3000},
		{"bad model", inventory(), "/plan?model=gpt-x", `{"user_goal":"logo"}`, http.StatusBadRequest, 3006},
		{"inventory down", &stubInventory{err: errors.New("db")}, "/plan", `{"user_goal":"logo"}`, http.StatusServiceUnavailable, 3005},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(newRouter(tt.inv, nil), tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestRatingsEndpoints(t *testing.T) {
	r := newRouter(inventory(), &stubRatings{count: 12})

	w := post(r, "/ratings/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"count":12}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ratings/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"count":12,"last_refresh":null,"age_seconds":null,"source":"live","enabled":true}`, w.Body.String())

	failing := newRouter(inventory(), &stubRatings{err: errors.New("timeout")})
	w = post(failing, "/ratings/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":false,"count":0}`, w.Body.String())
}
