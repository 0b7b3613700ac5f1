package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "dev-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "my-ai", cfg.Auth.JWTIssuer)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, "llama3-70b-8192", cfg.Planner.Groq.Model)
	assert.InDelta(t, 0.3, cfg.Planner.Groq.Temperature, 1e-6)
	assert.Equal(t, 500, cfg.Planner.Groq.MaxTokens)
	assert.Equal(t, 15*time.Second, cfg.Planner.Groq.Timeout)
	assert.Equal(t, 6*time.Hour, cfg.Planner.Ratings.TTL)
	assert.Equal(t, 10*time.Minute, cfg.Planner.Ratings.RetryAfter)
	assert.Equal(t, "myai:", cfg.Redis.KeyPrefix)
	assert.False(t, cfg.Google.Enabled())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9001
google:
  client_id: cid
  client_secret: secret
  redirect_url: http://localhost:9001/auth/callback/google
planner:
  ratings:
    ttl: 1h
`), 0o600))

	t.Setenv("MYAI_AUTH_JWT_SECRET", "from-env")
	t.Setenv("MYAI_SERVER_PORT", "9100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Planner.Ratings.TTL)
	assert.True(t, cfg.Google.Enabled())
	assert.Equal(t, "0.0.0.0:9100", cfg.Server.Addr())
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("MYAI_AUTH_COOKIE_SAMESITE", "sideways")
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
