// Package config loads interpose settings from YAML files and the environment.
package config

import (
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/odvcencio/interpose/pkg/errors"
	"github.com/odvcencio/interpose/pkg/logging"
	"github.com/odvcencio/interpose/pkg/paths"
	"github.com/odvcencio/interpose/pkg/ui/theme"
)

// Default configuration values exported for documentation and validation
const (
	DefaultSessionName = "interpose"
	DefaultUpstream    = "127.0.0.1:8080"
	DefaultStatus      = "connected"
	DefaultLogLevel    = string(logging.LevelInfo)
	DefaultTheme       = theme.NameAuto
)

// Config represents the complete interpose configuration
type Config struct {
	Session SessionConfig `yaml:"session"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// SessionConfig describes the proxy session the UI fronts.
type SessionConfig struct {
	Name     string `yaml:"name"`
	Upstream string `yaml:"upstream"` // host:port
	Status   string `yaml:"status"`
}

// UIConfig controls terminal behavior.
type UIConfig struct {
	Theme       string `yaml:"theme"` // auto, dark, mono
	Mouse       bool   `yaml:"mouse"`
	Paste       bool   `yaml:"paste"`
	FocusEvents bool   `yaml:"focus_events"`
}

// LoggingConfig controls the structured session log.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"` // empty means INTERPOSE_LOG_DIR or .interpose/logs
}

// MetricsConfig controls the metrics snapshot written on exit.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // empty disables the snapshot
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			Name:     DefaultSessionName,
			Upstream: DefaultUpstream,
			Status:   DefaultStatus,
		},
		UI: UIConfig{
			Theme:       DefaultTheme,
			Mouse:       true,
			Paste:       true,
			FocusEvents: true,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load loads configuration from default locations with proper precedence:
// defaults, ~/.interpose/config.yaml, ./.interpose/config.yaml, environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if userConfigPath := paths.UserConfigPath(); userConfigPath != "" {
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, wrapLoadError(err, userConfigPath, "loading user config")
		}
	}

	projectConfigPath := paths.ProjectConfigPath("")
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !os.IsNotExist(err) {
		return nil, wrapLoadError(err, projectConfigPath, "loading project config")
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, wrapLoadError(err, path, "loading config")
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func wrapLoadError(err error, path, message string) error {
	if errors.IsCode(err, errors.ErrCodeConfigParse) {
		return err
	}
	return errors.Wrap(err, errors.ErrCodeConfigLoad, message).WithContext("path", path)
}

// ApplyEnvOverridesForTest exposes env override logic for tests without file I/O.
func ApplyEnvOverridesForTest(cfg *Config) {
	applyEnvOverrides(cfg)
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INTERPOSE_SESSION_NAME"); v != "" {
		cfg.Session.Name = v
	}
	if v := os.Getenv("INTERPOSE_UPSTREAM"); v != "" {
		cfg.Session.Upstream = v
	}
	if v := os.Getenv("INTERPOSE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(paths.EnvLogDir)); v != "" {
		cfg.Logging.Dir = v
	}
	if v := os.Getenv("INTERPOSE_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("INTERPOSE_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}

	if val, ok := envBool("INTERPOSE_MOUSE"); ok {
		cfg.UI.Mouse = val
	}
	if val, ok := envBool("INTERPOSE_PASTE"); ok {
		cfg.UI.Paste = val
	}
	if val, ok := envBool("INTERPOSE_FOCUS_EVENTS"); ok {
		cfg.UI.FocusEvents = val
	}
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Session.Name) == "" {
		return invalid("session.name", c.Session.Name, "session name must not be empty")
	}

	if err := validateUpstream(c.Session.Upstream); err != nil {
		return invalid("session.upstream", c.Session.Upstream, err.Error())
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level", c.Logging.Level, "must be debug, info, warn, or error")
	}

	if !theme.Valid(c.UI.Theme) {
		return invalid("ui.theme", c.UI.Theme, "must be auto, dark, or mono")
	}

	return nil
}

func invalid(field, value, reason string) error {
	return errors.New(errors.ErrCodeConfigInvalid, "invalid "+field+": "+reason).
		WithContext("field", field).
		WithContext("value", value)
}

func validateUpstream(addr string) error {
	host, port, err := net.SplitHostPort(strings.TrimSpace(addr))
	if err != nil {
		return err
	}
	if host == "" {
		return errors.New(errors.ErrCodeInvalidInput, "missing host")
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return errors.New(errors.ErrCodeInvalidInput, "port must be 1-65535")
	}
	return nil
}

// LogLevel returns the parsed logging level, falling back to info.
func (c *Config) LogLevel() logging.Level {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return logging.LevelInfo
	}
	return level
}

// LogDir returns the resolved log directory anchored at workdir.
func (c *Config) LogDir(workdir string) string {
	return paths.ResolveLogDir(c.Logging.Dir, workdir)
}
