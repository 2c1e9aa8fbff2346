package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file, e.g. from a .env file next
// to the binary.
const (
	EnvEndpoint = "EACCAL_ENDPOINT"
	EnvListen   = "EACCAL_LISTEN"
	EnvLogLevel = "EACCAL_LOG_LEVEL"
)

const (
	DefaultListen         = "127.0.0.1:8080"
	DefaultTimezone       = "America/Sao_Paulo"
	DefaultRefresh        = "@every 30m"
	DefaultRequestTimeout = 15 * time.Second
	DefaultLogLevel       = "info"
)

// LogConfig controls where log lines go.
type LogConfig struct {
	// Level is one of debug, info, error.
	Level string `yaml:"level" json:"level"`
	// File, if set, receives a rotated copy of the log.
	File string `yaml:"file,omitempty" json:"file,omitempty"`
	// MaxSizeMB and MaxBackups tune rotation of File.
	MaxSizeMB  int `yaml:"max_size_mb,omitempty" json:"max_size_mb,omitempty"`
	MaxBackups int `yaml:"max_backups,omitempty" json:"max_backups,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Endpoint is the script web app URL answering the GET_EVENTS action.
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Demo serves generated sample events instead of calling Endpoint.
	Demo bool `yaml:"demo" json:"demo"`

	// Refresh is a cron spec for the background refresh ("@every 30m",
	// "*/30 * * * *", ...).
	Refresh string `yaml:"refresh" json:"refresh"`

	// RequestTimeout bounds a single call to Endpoint.
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`

	// Timezone is the IANA zone used to decide which day is "today".
	Timezone string `yaml:"timezone" json:"timezone"`

	Log LogConfig `yaml:"log" json:"log"`
}

// DefaultConfig returns an in-memory default configuration. It has no
// endpoint, so it starts in demo mode.
func DefaultConfig() *Config {
	return &Config{
		Listen:         DefaultListen,
		Demo:           true,
		Refresh:        DefaultRefresh,
		RequestTimeout: DefaultRequestTimeout,
		Timezone:       DefaultTimezone,
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Refresh == "" {
		c.Refresh = DefaultRefresh
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups < 0 {
		c.Log.MaxBackups = 0
	}
}

// Validate checks the normalized configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Listen, validation.Required),
		validation.Field(&c.Endpoint,
			validation.When(!c.Demo, validation.Required.Error("is required unless demo is enabled")),
			validation.By(httpURL),
		),
		validation.Field(&c.Refresh, validation.Required, validation.By(cronSpec)),
		validation.Field(&c.Timezone, validation.Required, validation.By(timezone)),
		validation.Field(&c.Log),
	)
}

// Validate checks the log settings.
func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("debug", "info", "error", "DEBUG", "INFO", "ERROR")),
	)
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil || c.Timezone == "" {
		return time.Local
	}
	return loc
}

// ApplyEnv overrides fields from the environment. An optional .env file in
// the working directory is read first; variables already set win.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Endpoint = v
		c.Demo = false
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Listen = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

func httpURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http(s) URL")
	}
	return nil
}

func cronSpec(value any) error {
	s, _ := value.(string)
	if _, err := cron.ParseStandard(s); err != nil {
		return fmt.Errorf("invalid schedule: %v", err)
	}
	return nil
}

func timezone(value any) error {
	s, _ := value.(string)
	if _, err := time.LoadLocation(s); err != nil {
		return fmt.Errorf("unknown timezone %q", s)
	}
	return nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is read, normalized and validated.
//
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				cfg.ApplyEnv()
				return cfg, err
			}
			cfg.ApplyEnv()
			return cfg, cfg.Validate()
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".eaccal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
