package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the public C2DB site.
	DefaultBaseURL = "https://c2db.fysik.dtu.dk"
	// DefaultSearchID selects the main C2DB dataset.
	DefaultSearchID = 1542
	// DefaultUserAgent identifies the downloader to the remote server.
	DefaultUserAgent = "c2dbscraper/1.0 (+https://github.com/)"
	// ManifestFileName is used when no manifest path is configured.
	ManifestFileName = "manifest.json"

	envPrefix = "C2DB_"
)

// Config holds all configuration options for the downloader
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog" json:"catalog"`
	Output    OutputConfig    `yaml:"output" json:"output"`
	Download  DownloadConfig  `yaml:"download" json:"download"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// CatalogConfig describes the remote catalog
type CatalogConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	SearchID  int           `yaml:"sid" json:"sid"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// OutputConfig holds output locations
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
	// Manifest overrides <base_directory>/manifest.json when set.
	Manifest string `yaml:"manifest" json:"manifest"`
}

// DownloadConfig holds download behaviour
type DownloadConfig struct {
	// Delay is the politeness pause between requests.
	Delay time.Duration `yaml:"delay" json:"delay"`
	// MaxMaterials caps the number of materials downloaded; negative means no cap.
	MaxMaterials int `yaml:"max_materials" json:"max_materials"`
}

// RateLimitConfig holds an optional hard ceiling on request rate
type RateLimitConfig struct {
	// RequestsPerMinute of 0 disables the ceiling; the delay still applies.
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with the downloader defaults
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:   DefaultBaseURL,
			SearchID:  DefaultSearchID,
			UserAgent: DefaultUserAgent,
			Timeout:   60 * time.Second,
		},
		Output: OutputConfig{
			BaseDirectory: filepath.Join("downloads", "c2db"),
		},
		Download: DownloadConfig{
			Delay:        time.Second,
			MaxMaterials: -1,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ManifestPath returns where the manifest is written.
func (c *Config) ManifestPath() string {
	if c.Output.Manifest != "" {
		return c.Output.Manifest
	}
	return filepath.Join(c.Output.BaseDirectory, ManifestFileName)
}

// LoadFromEnv loads configuration from C2DB_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(envPrefix + "BASE_URL"); v != "" {
		c.Catalog.BaseURL = v
	}
	if v := os.Getenv(envPrefix + "SID"); v != "" {
		sid, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSID: %w", envPrefix, err))
		} else {
			c.Catalog.SearchID = sid
		}
	}
	if v := os.Getenv(envPrefix + "USER_AGENT"); v != "" {
		c.Catalog.UserAgent = v
	}
	if v := os.Getenv(envPrefix + "OUTPUT_DIR"); v != "" {
		c.Output.BaseDirectory = v
	}
	if v := os.Getenv(envPrefix + "MANIFEST"); v != "" {
		c.Output.Manifest = v
	}
	if v := os.Getenv(envPrefix + "DELAY"); v != "" {
		d, err := ParseSeconds(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sDELAY: %w", envPrefix, err))
		} else {
			c.Download.Delay = d
		}
	}
	if v := os.Getenv(envPrefix + "MAX_MATERIALS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_MATERIALS: %w", envPrefix, err))
		} else {
			c.Download.MaxMaterials = n
		}
	}
	if v := os.Getenv(envPrefix + "REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREQUESTS_PER_MINUTE: %w", envPrefix, err))
		} else {
			c.RateLimit.RequestsPerMinute = n
		}
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(envPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// ParseSeconds accepts either a plain number of seconds ("1.5") or a Go
// duration string ("1500ms").
func ParseSeconds(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return d, nil
}

// normalizeDurations rewrites the named keys of a YAML mapping so that plain
// numbers are read as seconds, matching the flags and environment.
func normalizeDurations(node *yaml.Node, keys ...string) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		for _, name := range keys {
			if key.Value != name || value.Kind != yaml.ScalarNode {
				continue
			}
			d, err := ParseSeconds(value.Value)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			value.Tag = "!!str"
			value.Value = d.String()
		}
	}
	return nil
}

// UnmarshalYAML accepts the timeout as seconds or as a duration string
func (c *CatalogConfig) UnmarshalYAML(node *yaml.Node) error {
	if err := normalizeDurations(node, "timeout"); err != nil {
		return err
	}
	type plain CatalogConfig
	return node.Decode((*plain)(c))
}

// UnmarshalYAML accepts the delay as seconds or as a duration string
func (d *DownloadConfig) UnmarshalYAML(node *yaml.Node) error {
	if err := normalizeDurations(node, "delay"); err != nil {
		return err
	}
	type plain DownloadConfig
	return node.Decode((*plain)(d))
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
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

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		"c2dbscraper.yaml",
		".c2dbscraper.yaml",
		".c2dbscraper.yml",
		filepath.Join(home, ".config", "c2dbscraper", "config.yaml"),
		filepath.Join(home, ".c2dbscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("catalog base URL is required"))
	} else if u, err := url.Parse(c.Catalog.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("catalog base URL %q is not an absolute URL", c.Catalog.BaseURL))
	}
	if c.Catalog.SearchID < 0 {
		errs = append(errs, errors.New("search identifier cannot be negative"))
	}
	if c.Catalog.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	if c.Download.Delay < 0 {
		errs = append(errs, errors.New("delay cannot be negative"))
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "warning": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges explicitly set command line flags into the
// configuration. Keys match the CLI flag names.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["base-url"].(string); ok && v != "" {
		c.Catalog.BaseURL = v
	}
	if v, ok := flags["sid"].(int); ok {
		c.Catalog.SearchID = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok {
		c.Catalog.Timeout = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.BaseDirectory = v
	}
	if v, ok := flags["manifest"].(string); ok && v != "" {
		c.Output.Manifest = v
	}
	if v, ok := flags["delay"].(time.Duration); ok {
		c.Download.Delay = v
	}
	if v, ok := flags["max-materials"].(int); ok {
		c.Download.MaxMaterials = v
	}
	if v, ok := flags["rate-limit"].(int); ok {
		c.RateLimit.RequestsPerMinute = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".c2dbscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
