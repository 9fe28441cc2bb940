package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is shared by the dashboard server and the CLI.
type Config struct {
	APIBaseURL     string        `yaml:"api_base_url"`
	Addr           string        `yaml:"addr"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // 0 = transport default
	DatabaseURL    string        `yaml:"database_url"`    // empty = in-memory journal
	JournalSize    int           `yaml:"journal_size"`
	PrefsApp       string        `yaml:"prefs_app"` // empty = preferences not persisted
	SessionIdle    time.Duration `yaml:"session_idle"` // 0 = sessions live until shutdown
}

// Environment variable names.
const (
	EnvAPIBaseURL     = "SIM_API_URL"
	EnvAddr           = "DASH_ADDR"
	EnvLogLevel       = "DASH_LOG_LEVEL"
	EnvLogFormat      = "DASH_LOG_FORMAT"
	EnvPollInterval   = "DASH_POLL_INTERVAL"
	EnvRequestTimeout = "DASH_REQUEST_TIMEOUT"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvJournalSize    = "DASH_JOURNAL_SIZE"
	EnvPrefsApp       = "DASH_PREFS_APP"
	EnvSessionIdle    = "DASH_SESSION_IDLE"
)

func Defaults() Config {
	return Config{
		APIBaseURL:   "http://localhost:5000/api",
		Addr:         ":8080",
		LogLevel:     "info",
		LogFormat:    "json",
		PollInterval: time.Second,
		JournalSize:  200,
		PrefsApp:     "zombie_dashboard",
		SessionIdle:  2 * time.Minute,
	}
}

// Load is Read followed by Validate.
func Load(path string, envFiles ...string) (Config, error) {
	cfg, err := Read(path, envFiles...)
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Read layers defaults, the optional YAML file at path, the .env files and the
// process environment, in that order. Missing .env files are not an error; the
// environment always wins over .env values. The result is not validated, so
// callers can apply flag overrides first.
func Read(path string, envFiles ...string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Typos in the file must fail loudly.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	setString(&c.APIBaseURL, EnvAPIBaseURL)
	setString(&c.Addr, EnvAddr)
	setString(&c.LogLevel, EnvLogLevel)
	setString(&c.LogFormat, EnvLogFormat)
	setString(&c.DatabaseURL, EnvDatabaseURL)
	setString(&c.PrefsApp, EnvPrefsApp)

	if err := setDuration(&c.PollInterval, EnvPollInterval); err != nil {
		return err
	}
	if err := setDuration(&c.RequestTimeout, EnvRequestTimeout); err != nil {
		return err
	}
	if err := setDuration(&c.SessionIdle, EnvSessionIdle); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvJournalSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvJournalSize, v, err)
		}
		c.JournalSize = n
	}
	return nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("%w: api base url is empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api base url %q is not absolute", ErrInvalidConfig, c.APIBaseURL)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive, got %v", ErrInvalidConfig, c.PollInterval)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: request timeout must not be negative", ErrInvalidConfig)
	}
	if c.SessionIdle < 0 {
		return fmt.Errorf("%w: session idle timeout must not be negative", ErrInvalidConfig)
	}
	if c.JournalSize < 1 {
		return fmt.Errorf("%w: journal size must be at least 1", ErrInvalidConfig)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
	}
	*dst = d
	return nil
}
