package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the collector.
type Config struct {
	// AppName is shown on the index page.
	AppName string `yaml:"app_name" json:"app_name"`

	// Twitter holds timeline source credentials and target selection.
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Database is the SQLite store location.
	Database DatabaseConfig `yaml:"database" json:"database"`

	// Images is the on-disk content store for downloaded media.
	Images ImagesConfig `yaml:"images" json:"images"`

	// Server configures the HTTP serving surface.
	Server ServerConfig `yaml:"server" json:"server"`

	// Poller configures the ingestion cycle cadence.
	Poller PollerConfig `yaml:"poller" json:"poller"`

	// Logging configuration.
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds Twitter API configuration.
type TwitterConfig struct {
	APIBaseURL   string         `yaml:"api_base_url" json:"api_base_url"`
	BearerToken  string         `yaml:"bearer_token" json:"bearer_token"`
	FetchTimeout time.Duration  `yaml:"fetch_timeout" json:"fetch_timeout"`
	Timeline     TimelineConfig `yaml:"timeline" json:"timeline"`
}

// TimelineConfig selects which timeline endpoint is polled and with which
// query parameters (screen_name, list_id, count, ...).
type TimelineConfig struct {
	Type   string            `yaml:"type" json:"type"`
	Params map[string]string `yaml:"params" json:"params"`
}

// DatabaseConfig holds the store location.
type DatabaseConfig struct {
	Path string `yaml:"path" json:"path"`
}

// ImagesConfig holds the content store location.
type ImagesConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr      string     `yaml:"addr" json:"addr"`
	ContPath  string     `yaml:"cont_path" json:"cont_path"`
	StaticDir string     `yaml:"static_dir" json:"static_dir"`
	Auth      AuthConfig `yaml:"auth" json:"auth"`
}

// AuthConfig holds the basic auth credentials gating every route.
type AuthConfig struct {
	User string `yaml:"user" json:"user"`
	Pass string `yaml:"pass" json:"pass"`
}

// PollerConfig holds the ingestion intervals.
type PollerConfig struct {
	SuccessInterval time.Duration `yaml:"success_interval" json:"success_interval"`
	FailureInterval time.Duration `yaml:"failure_interval" json:"failure_interval"`
	MediaRetryDelay time.Duration `yaml:"media_retry_delay" json:"media_retry_delay"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		AppName: "twitter-images-collector",
		Twitter: TwitterConfig{
			APIBaseURL:   "https://api.twitter.com",
			FetchTimeout: 30 * time.Second,
			Timeline: TimelineConfig{
				Type:   "home_timeline",
				Params: map[string]string{},
			},
		},
		Database: DatabaseConfig{
			Path: "./collector.db",
		},
		Images: ImagesConfig{
			Dir: "./images",
		},
		Server: ServerConfig{
			Addr:      ":8080",
			ContPath:  "/cont",
			StaticDir: "./static",
		},
		Poller: PollerConfig{
			SuccessInterval: 90 * time.Second,
			FailureInterval: 10 * time.Second,
			MediaRetryDelay: time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv overrides configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("TWICOL_BEARER_TOKEN"); token != "" {
		c.Twitter.BearerToken = token
	}
	if base := os.Getenv("TWICOL_API_BASE_URL"); base != "" {
		c.Twitter.APIBaseURL = base
	}
	if target := os.Getenv("TWICOL_TIMELINE_TYPE"); target != "" {
		c.Twitter.Timeline.Type = target
	}
	if path := os.Getenv("TWICOL_DATABASE_PATH"); path != "" {
		c.Database.Path = path
	}
	if dir := os.Getenv("TWICOL_IMAGES_DIR"); dir != "" {
		c.Images.Dir = dir
	}
	if addr := os.Getenv("TWICOL_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if user := os.Getenv("TWICOL_AUTH_USER"); user != "" {
		c.Server.Auth.User = user
	}
	if pass := os.Getenv("TWICOL_AUTH_PASS"); pass != "" {
		c.Server.Auth.Pass = pass
	}
	if level := os.Getenv("TWICOL_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. An empty path falls back
// to the default locations; a missing default file is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func (c *Config) findConfigFile() string {
	locations := []string{
		".twicol.yaml",
		".twicol.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "twicol", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "twicol", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Twitter.BearerToken == "" {
		errs = append(errs, errors.New("Twitter bearer token is required"))
	}
	if c.Twitter.APIBaseURL == "" {
		errs = append(errs, errors.New("Twitter API base URL is required"))
	}
	if c.Twitter.Timeline.Type == "" {
		errs = append(errs, errors.New("timeline type is required"))
	}
	if c.Twitter.FetchTimeout <= 0 {
		errs = append(errs, errors.New("fetch timeout must be positive"))
	}

	if c.Database.Path == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if c.Images.Dir == "" {
		errs = append(errs, errors.New("images directory is required"))
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server address is required"))
	}
	if !strings.HasPrefix(c.Server.ContPath, "/") {
		errs = append(errs, errors.New("content path must start with /"))
	}

	if c.Poller.SuccessInterval <= 0 {
		errs = append(errs, errors.New("success interval must be positive"))
	}
	if c.Poller.FailureInterval <= 0 {
		errs = append(errs, errors.New("failure interval must be positive"))
	}
	if c.Poller.FailureInterval >= c.Poller.SuccessInterval {
		errs = append(errs, errors.New("failure interval should be shorter than success interval"))
	}
	if c.Poller.MediaRetryDelay <= 0 {
		errs = append(errs, errors.New("media retry delay must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Load loads configuration from all sources with proper precedence:
// environment variables > .env file > config file > defaults.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load(".env")

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
