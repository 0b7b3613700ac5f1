package logger

import (
	"errors"
	"fmt"
	"strings"
)

// Output targets.
const (
	OutputConsole = "console" // stdout
	OutputStderr  = "stderr"
	OutputFile    = "file"
	OutputBoth    = "both" // stdout + file
)

// Config defines the logger configuration
type Config struct {
	Level            string     `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format           string     `mapstructure:"format" yaml:"format"` // json, console
	Output           string     `mapstructure:"output" yaml:"output"` // console, stderr, file, both
	File             FileConfig `mapstructure:"file" yaml:"file"`
	EnableCaller     bool       `mapstructure:"enable_caller" yaml:"enable_caller"`
	EnableStacktrace bool       `mapstructure:"enable_stacktrace" yaml:"enable_stacktrace"`
}

// FileConfig configures the rotating file writer.
type FileConfig struct {
	Filename   string `mapstructure:"filename" yaml:"filename"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"` // MB
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`   // days
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// DefaultConfig returns the server defaults: json to stdout at info.
func DefaultConfig() *Config {
	return &Config{
		Level:            "info",
		Format:           "json",
		Output:           OutputConsole,
		EnableCaller:     true,
		EnableStacktrace: true,
		File: FileConfig{
			Filename:   "logs/myai.log",
			MaxSize:    100,
			MaxAge:     30,
			MaxBackups: 10,
			Compress:   true,
		},
	}
}

// CLIConfig returns the defaults used by the terminal client: console
// format on stderr so that stdout stays clean for command output.
func CLIConfig(verbose bool) *Config {
	cfg := DefaultConfig()
	cfg.Format = "console"
	cfg.Output = OutputStderr
	cfg.Level = "warn"
	cfg.EnableStacktrace = false
	if verbose {
		cfg.Level = "debug"
	}
	return cfg
}

var validLevels = []string{"debug", "info", "warn", "error", "dpanic", "panic", "fatal"}

// Validate validates the logger configuration
func (c *Config) Validate() error {
	level := strings.ToLower(c.Level)
	ok := false
	for _, l := range validLevels {
		if level == l {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Level, strings.Join(validLevels, ", "))
	}

	if c.Format != "json" && c.Format != "console" {
		return errors.New("invalid log format, must be 'json' or 'console'")
	}

	switch c.Output {
	case OutputConsole, OutputStderr:
		return nil
	case OutputFile, OutputBoth:
	default:
		return errors.New("invalid log output, must be 'console', 'stderr', 'file' or 'both'")
	}

	if c.File.Filename == "" {
		return errors.New("log file filename is required when output is 'file' or 'both'")
	}
	if c.File.MaxSize <= 0 {
		return errors.New("log file max_size must be greater than 0")
	}
	if c.File.MaxAge <= 0 {
		return errors.New("log file max_age must be greater than 0")
	}
	if c.File.MaxBackups < 0 {
		return errors.New("log file max_backups must be greater than or equal to 0")
	}
	return nil
}
