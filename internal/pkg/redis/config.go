package redis

import (
	"errors"
	"time"
)

// DeployMode selects how the client reaches redis.
type DeployMode string

const (
	ModeSingle   DeployMode = "single"
	ModeSentinel DeployMode = "sentinel"
)

// Config holds the redis connection settings.
type Config struct {
	Enabled bool       `mapstructure:"enabled" yaml:"enabled"`
	Mode    DeployMode `mapstructure:"mode" yaml:"mode"`

	Addr          string   `mapstructure:"addr" yaml:"addr"`
	SentinelAddrs []string `mapstructure:"sentinel_addrs" yaml:"sentinel_addrs"`
	MasterName    string   `mapstructure:"master_name" yaml:"master_name"`

	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`

	// KeyPrefix namespaces every key written through the client.
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`

	PoolSize     int           `mapstructure:"pool_size" yaml:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	MaxRetries   int           `mapstructure:"max_retries" yaml:"max_retries"`
}

// DefaultConfig returns a single-node config pointing at localhost.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		Mode:         ModeSingle,
		Addr:         "localhost:6379",
		KeyPrefix:    "myai:",
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MaxRetries:   3,
	}
}

// Validate checks the settings for the selected mode.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeSingle:
		if c.Addr == "" {
			return errors.New("redis: addr is required in single mode")
		}
	case ModeSentinel:
		if len(c.SentinelAddrs) == 0 {
			return errors.New("redis: sentinel_addrs is required in sentinel mode")
		}
		if c.MasterName == "" {
			return errors.New("redis: master_name is required in sentinel mode")
		}
	default:
		return errors.New("redis: invalid mode, must be 'single' or 'sentinel'")
	}

	if c.DB < 0 || c.DB > 15 {
		return errors.New("redis: db must be between 0 and 15")
	}
	if c.PoolSize <= 0 {
		return errors.New("redis: pool_size must be > 0")
	}
	if c.MinIdleConns < 0 || c.MinIdleConns > c.PoolSize {
		return errors.New("redis: min_idle_conns must be between 0 and pool_size")
	}
	if c.DialTimeout <= 0 {
		return errors.New("redis: dial_timeout must be > 0")
	}
	return nil
}
