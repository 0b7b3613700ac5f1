package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lk2023060901/myai/internal/pkg/database"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/redis"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MYAI_AUTH_JWT_SECRET.
const EnvPrefix = "MYAI"

type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database database.Config `mapstructure:"database"`
	Redis    redis.Config    `mapstructure:"redis"`
	Log      logger.Config   `mapstructure:"log"`
	Auth     AuthConfig      `mapstructure:"auth"`
	Google   GoogleConfig    `mapstructure:"google"`
	Planner  PlannerConfig   `mapstructure:"planner"`
	Catalog  CatalogConfig   `mapstructure:"catalog"`
	Metrics  MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTIssuer      string        `mapstructure:"jwt_issuer"`
	AccessTTL      time.Duration `mapstructure:"access_ttl"`
	RefreshTTL     time.Duration `mapstructure:"refresh_ttl"`
	CookieSecure   bool          `mapstructure:"cookie_secure"`
	CookieSameSite string        `mapstructure:"cookie_samesite"` // lax, strict, none
	CookieDomain   string        `mapstructure:"cookie_domain"`
	FrontendOrigin string        `mapstructure:"frontend_origin"`
	StateTTL       time.Duration `mapstructure:"state_ttl"`
}

type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// Enabled reports whether Google login is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURL != ""
}

type PlannerConfig struct {
	Groq      LLMConfig       `mapstructure:"groq"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Ratings   RatingsConfig   `mapstructure:"ratings"`
}

type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type EmbeddingConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type RatingsConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	URL        string        `mapstructure:"url"`
	TTL        time.Duration `mapstructure:"ttl"`
	RetryAfter time.Duration `mapstructure:"retry_after"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type CatalogConfig struct {
	// SeedOnStart upserts the embedded starter catalog at boot.
	SeedOnStart bool `mapstructure:"seed_on_start"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoadConfig reads path (optional) and applies MYAI_* environment overrides
// on top of the built-in defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// Validate checks cross-section invariants.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("server port must be between 1 and 65535")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		return errors.New("auth token ttl must be positive")
	}
	switch strings.ToLower(c.Auth.CookieSameSite) {
	case "lax", "strict", "none":
	default:
		return fmt.Errorf("invalid cookie_samesite: %s", c.Auth.CookieSameSite)
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.Redis.Enabled {
		if err := c.Redis.Validate(); err != nil {
			return err
		}
	}
	return c.Log.Validate()
}

// setDefaults registers every key so that AutomaticEnv can override keys
// that are absent from the file.
func setDefaults(v *viper.Viper) {
	db := database.DefaultConfig()
	rd := redis.DefaultConfig()
	lg := logger.DefaultConfig()

	defaults := map[string]any{
		"server.host":             "0.0.0.0",
		"server.port":             8000,
		"server.mode":             "release",
		"server.cors_origins":     []string{"http://localhost:5173"},
		"server.shutdown_timeout": 5 * time.Second,

		"database.host":               db.Host,
		"database.port":               db.Port,
		"database.user":               db.User,
		"database.password":           db.Password,
		"database.dbname":             db.DBName,
		"database.sslmode":            db.SSLMode,
		"database.max_idle_conns":     db.MaxIdleConns,
		"database.max_open_conns":     db.MaxOpenConns,
		"database.conn_max_lifetime":  db.ConnMaxLifetime,
		"database.conn_max_idle_time": db.ConnMaxIdleTime,
		"database.log_level":          db.LogLevel,
		"database.slow_threshold":     db.SlowThreshold,
		"database.prepare_stmt":       db.PrepareStmt,
		"database.timezone":           db.Timezone,
		"database.auto_migrate":       db.AutoMigrate,

		"redis.enabled":        rd.Enabled,
		"redis.mode":           string(rd.Mode),
		"redis.addr":           rd.Addr,
		"redis.username":       "",
		"redis.password":       "",
		"redis.db":             0,
		"redis.key_prefix":     rd.KeyPrefix,
		"redis.pool_size":      rd.PoolSize,
		"redis.min_idle_conns": rd.MinIdleConns,
		"redis.dial_timeout":   rd.DialTimeout,
		"redis.read_timeout":   rd.ReadTimeout,
		"redis.write_timeout":  rd.WriteTimeout,
		"redis.max_retries":    rd.MaxRetries,

		"log.level":             lg.Level,
		"log.format":            lg.Format,
		"log.output":            lg.Output,
		"log.enable_caller":     lg.EnableCaller,
		"log.enable_stacktrace": lg.EnableStacktrace,
		"log.file.filename":     lg.File.Filename,
		"log.file.max_size":     lg.File.MaxSize,
		"log.file.max_age":      lg.File.MaxAge,
		"log.file.max_backups":  lg.File.MaxBackups,
		"log.file.compress":     lg.File.Compress,

		"auth.jwt_secret":      "dev-secret",
		"auth.jwt_issuer":      "my-ai",
		"auth.access_ttl":      60 * time.Minute,
		"auth.refresh_ttl":     30 * 24 * time.Hour,
		"auth.cookie_secure":   false,
		"auth.cookie_samesite": "lax",
		"auth.cookie_domain":   "",
		"auth.frontend_origin": "http://localhost:5173",
		"auth.state_ttl":       10 * time.Minute,

		"google.client_id":     "",
		"google.client_secret": "",
		"google.redirect_url":  "",

		"planner.groq.api_key":     "",
		"planner.groq.base_url":    "https://api.groq.com/openai/v1",
		"planner.groq.model":       "llama3-70b-8192",
		"planner.groq.temperature": 0.3,
		"planner.groq.max_tokens":  500,
		"planner.groq.timeout":     15 * time.Second,

		"planner.embedding.api_key":   "",
		"planner.embedding.base_url":  "https://api.openai.com/v1",
		"planner.embedding.model":     "text-embedding-3-small",
		"planner.embedding.cache_ttl": 7 * 24 * time.Hour,

		"planner.ratings.enabled":     true,
		"planner.ratings.url":         "https://artificialanalysis.ai/leaderboards/models",
		"planner.ratings.ttl":         6 * time.Hour,
		"planner.ratings.retry_after": 600 * time.Second,
		"planner.ratings.timeout":     5 * time.Second,

		"catalog.seed_on_start": true,

		"metrics.enabled": true,
		"metrics.path":    "/metrics",
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}
