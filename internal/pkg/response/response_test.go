package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/lk2023060901/myai/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var r Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return r
}

func TestSuccess(t *testing.T) {
	w := run(func(c *gin.Context) { Success(c, gin.H{"n": 1}) })
	assert.Equal(t, http.StatusOK, w.Code)
	r := decode(t, w)
	assert.Equal(t, 0, r.Code)
	assert.Equal(t, map[string]any{"n": float64(1)}, r.Data)
}

func TestJSON_NoEnvelope(t *testing.T) {
	w := run(func(c *gin.Context) { JSON(c, gin.H{"ok": true}) })
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
		wantMsg    string
	}{
		{
			name:       "app error",
			err:        apperrors.New(apperrors.ErrAuthEmailExists),
			wantStatus: http.StatusConflict,
			wantCode:   apperrors.ErrAuthEmailExists,
			wantMsg:    "Email already registered",
		},
		{
			name:       "plain error hides details",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   apperrors.ErrInternalServer,
			wantMsg:    "Internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := run(func(c *gin.Context) { HandleError(c, tt.err) })
			assert.Equal(t, tt.wantStatus, w.Code)
			r := decode(t, w)
			assert.Equal(t, tt.wantCode, r.Code)
			assert.Equal(t, tt.wantMsg, r.Message)
		})
	}
}

func TestErrorWithCode(t *testing.T) {
	w := run(func(c *gin.Context) { ErrorWithCode(c, apperrors.ErrAuthCSRF) })
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "CSRF token missing or invalid", decode(t, w).Message)
}
