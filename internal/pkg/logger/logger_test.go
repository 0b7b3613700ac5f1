package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "default config", config: DefaultConfig()},
		{name: "nil config", config: nil},
		{name: "cli config", config: CLIConfig(true)},
		{
			name:   "console format",
			config: &Config{Level: "info", Format: "console", Output: OutputConsole},
		},
		{
			name: "file output",
			config: &Config{
				Level:  "debug",
				Format: "json",
				Output: OutputFile,
				File:   FileConfig{Filename: filepath.Join(dir, "a.log"), MaxSize: 10, MaxAge: 7, MaxBackups: 3},
			},
		},
		{
			name: "both output",
			config: &Config{
				Level:  "warn",
				Format: "json",
				Output: OutputBoth,
				File:   FileConfig{Filename: filepath.Join(dir, "b.log"), MaxSize: 10, MaxAge: 7},
			},
		},
		{
			name:    "invalid level",
			config:  &Config{Level: "loud", Format: "json", Output: OutputConsole},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  &Config{Level: "info", Format: "xml", Output: OutputConsole},
			wantErr: true,
		},
		{
			name:    "invalid output",
			config:  &Config{Level: "info", Format: "json", Output: "syslog"},
			wantErr: true,
		},
		{
			name:    "file output without filename",
			config:  &Config{Level: "info", Format: "json", Output: OutputFile},
			wantErr: true,
		},
		{
			name: "file output with zero size",
			config: &Config{
				Level: "info", Format: "json", Output: OutputFile,
				File: FileConfig{Filename: filepath.Join(dir, "c.log"), MaxAge: 1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.NotNil(t, l.Config())
		})
	}
}

func TestCLIConfig(t *testing.T) {
	assert.Equal(t, "warn", CLIConfig(false).Level)
	assert.Equal(t, "debug", CLIConfig(true).Level)
	assert.Equal(t, OutputStderr, CLIConfig(false).Output)
}

func TestContextHelpers(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "42")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "42", GetUserID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))

	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{Logger: zap.New(core), config: DefaultConfig()}
	FromContext(ToContext(ctx, l)).Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "42", fields["user_id"])
}

func TestGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{Logger: zap.New(core), config: DefaultConfig()}

	r := gin.New()
	r.Use(GinLoggerWithConfig(l, MiddlewareOptions{SkipPaths: []string{"/health"}}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/health", "/missing", "/boom"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader), path)
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestGinLogger_KeepsIncomingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinLogger(Nop()))
	var seen string
	r.GET("/", func(c *gin.Context) { seen = GetRequestID(c.Request.Context()) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestGinRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinRecovery(Nop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGlobal(t *testing.T) {
	prev := L()
	t.Cleanup(func() { SetGlobal(prev) })

	require.NoError(t, InitGlobal(&Config{Level: "error", Format: "json", Output: OutputStderr}))
	assert.Equal(t, "error", L().Config().Level)
	Info("dropped")
}
