package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return DefaultConfig() }

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "default config", mutate: func(*Config) {}},
		{name: "missing host", mutate: func(c *Config) { c.Host = "" }, wantErr: true},
		{name: "invalid port", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "missing user", mutate: func(c *Config) { c.User = "" }, wantErr: true},
		{name: "missing dbname", mutate: func(c *Config) { c.DBName = "" }, wantErr: true},
		{name: "invalid ssl mode", mutate: func(c *Config) { c.SSLMode = "maybe" }, wantErr: true},
		{name: "invalid log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "idle exceeds open", mutate: func(c *Config) { c.MaxIdleConns = 99; c.MaxOpenConns = 10 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = ""
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=myai sslmode=disable TimeZone=UTC",
		cfg.DSN())
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		limit, offset          int
		wantLimit, wantOffset int
	}{
		{0, 0, 24, 0},
		{-5, -1, 24, 0},
		{500, 10, 100, 10},
		{1, 3, 1, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d", tt.limit, tt.offset), func(t *testing.T) {
			l, o := ClampPage(tt.limit, tt.offset, 24)
			assert.Equal(t, tt.wantLimit, l)
			assert.Equal(t, tt.wantOffset, o)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, parseLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, parseLogLevel("error"))
	assert.Equal(t, gormlogger.Info, parseLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, parseLogLevel("bogus"))
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsRecordNotFoundError(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsRecordNotFoundError(errors.New("other")))
	assert.True(t, IsDuplicateKeyError(gorm.ErrDuplicatedKey))
	assert.False(t, IsDuplicateKeyError(nil))
}
