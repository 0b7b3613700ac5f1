package logger

// Option modifies a Config before the logger is built.
type Option func(*Config)

func WithLevel(level string) Option {
	return func(c *Config) { c.Level = level }
}

func WithFormat(format string) Option {
	return func(c *Config) { c.Format = format }
}

func WithOutput(output string) Option {
	return func(c *Config) { c.Output = output }
}

// WithFile enables file output with rotation at maxSizeMB.
func WithFile(filename string, maxSizeMB int) Option {
	return func(c *Config) {
		c.File.Filename = filename
		if maxSizeMB > 0 {
			c.File.MaxSize = maxSizeMB
		}
	}
}

func WithCaller(enabled bool) Option {
	return func(c *Config) { c.EnableCaller = enabled }
}

func WithStacktrace(enabled bool) Option {
	return func(c *Config) { c.EnableStacktrace = enabled }
}

// NewWithOptions applies opts over DefaultConfig.
func NewWithOptions(opts ...Option) (*Logger, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return New(cfg)
}

// Development returns a debug-level colored console logger.
func Development() (*Logger, error) {
	return NewWithOptions(
		WithLevel("debug"),
		WithFormat("console"),
		WithOutput(OutputConsole),
		WithCaller(true),
		WithStacktrace(true),
	)
}
