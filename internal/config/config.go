// Package config handles application configuration and command-line argument parsing.
package config

import (
	"fmt"
	"time"

	"github.com/alexflint/go-arg"
)

// Defaults for flags whose zero value is not a usable setting.
const (
	DefaultMaxIdleSessions = 10
	DefaultPollInterval    = 5 * time.Second
	DefaultMaxSyncRate     = 1.0
)

// Config holds the application configuration
type Config struct {
	RemoteURL       string        `arg:"-r,--remote,env:FETCH_FILES_REMOTE" help:"Remote directory as an SFTP URL (sftp://user@host:port/path)"`
	LocalDir        string        `arg:"-l,--local,env:FETCH_FILES_LOCAL" help:"Local mirror directory"`
	Pattern         string        `arg:"-p,--pattern" help:"Filename glob filter for remote files (e.g. '*.csv')"`
	MaxIdleSessions int           `arg:"--max-idle" default:"10" help:"Maximum number of idle SFTP sessions kept in the pool"`
	AutoCreate      bool          `arg:"--auto-create" default:"true" help:"Create the local directory if it does not exist"`
	AutoStart       bool          `arg:"--auto-start" default:"true" help:"Start the session pool on startup"`
	DeleteRemote    bool          `arg:"--delete-remote" help:"Delete remote files once they are mirrored locally"`
	PollInterval    time.Duration `arg:"--poll-interval" default:"5s" help:"How often to poll the local directory"`
	MaxSyncRate     float64       `arg:"--max-sync-rate" default:"1" help:"Maximum remote synchronization passes per second"`
	LogLevel        string        `arg:"--log-level" default:"info" help:"Log level: debug|info|warn|error"`
	LogFormat       string        `arg:"--log-format" default:"auto" help:"Log format: auto|text|json"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Polls a remote SFTP directory into a local mirror using a bounded pool of reusable sessions"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "fetch-files 1.0.0"
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg := &Config{
		MaxIdleSessions: DefaultMaxIdleSessions,
		AutoCreate:      true,
		AutoStart:       true,
		PollInterval:    DefaultPollInterval,
		MaxSyncRate:     DefaultMaxSyncRate,
	}

	arg.MustParse(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the parsed configuration is usable.
func (cfg *Config) Validate() error {
	if cfg.RemoteURL == "" {
		return fmt.Errorf("remote SFTP URL is required") //nolint:err113,perfsprint // Validation error
	}

	if cfg.LocalDir == "" {
		return fmt.Errorf("local directory is required") //nolint:err113,perfsprint // Validation error
	}

	if cfg.MaxIdleSessions <= 0 {
		return fmt.Errorf("max idle sessions must be greater than 0, got %d", cfg.MaxIdleSessions) //nolint:err113 // Validation error with actual value
	}

	if cfg.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", cfg.PollInterval) //nolint:err113 // Validation error with actual value
	}

	if cfg.MaxSyncRate <= 0 {
		return fmt.Errorf("max sync rate must be positive, got %g", cfg.MaxSyncRate) //nolint:err113 // Validation error with actual value
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", cfg.LogLevel) //nolint:err113 // Validation error with actual value
	}

	switch cfg.LogFormat {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (valid: auto, text, json)", cfg.LogFormat) //nolint:err113 // Validation error with actual value
	}

	return nil
}
