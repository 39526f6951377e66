package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the murmur configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Profile ProfileConfig `yaml:"profile"`
	Content ContentConfig `yaml:"content"`
	Uploads UploadsConfig `yaml:"uploads"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. Without keys every write
// route is rejected.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ProfileConfig is the public owner profile.
type ProfileConfig struct {
	Nickname string `yaml:"nickname"`
	Avatar   string `yaml:"avatar"`
}

// ContentConfig locates the Markdown directories.
type ContentConfig struct {
	PostsDir          string `yaml:"posts_dir"`
	StatusesDir       string `yaml:"statuses_dir"`
	ViewTimeLimitDays int    `yaml:"view_time_limit_days"` // 0 = show everything
	RenderCacheSize   int    `yaml:"render_cache_size"`
}

// UploadsConfig selects the media backend.
type UploadsConfig struct {
	Driver     string   `yaml:"driver"` // local, s3 (default: local)
	Dir        string   `yaml:"dir"`
	MaxSizeMB  int      `yaml:"max_size_mb"`
	PublicPath string   `yaml:"public_path"`
	S3         S3Config `yaml:"s3"`
}

// S3Config holds S3-compatible bucket settings. Empty credentials fall back
// to the default AWS credential chain.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// SearchConfig tunes the search pipeline.
type SearchConfig struct {
	Segmenter      string `yaml:"segmenter"` // gse, runs (default: gse)
	RegexTimeoutMs int    `yaml:"regex_timeout_ms"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(Path(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates raw YAML.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	// Unset ${VAR} keys expand to blanks; drop them.
	keys := c.Auth.APIKeys[:0]
	for _, key := range c.Auth.APIKeys {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	c.Auth.APIKeys = keys
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Content.PostsDir == "" {
		c.Content.PostsDir = "posts"
	}
	if c.Content.StatusesDir == "" {
		c.Content.StatusesDir = "statuses"
	}
	if c.Content.RenderCacheSize <= 0 {
		c.Content.RenderCacheSize = 512
	}
	if c.Uploads.Driver == "" {
		c.Uploads.Driver = "local"
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "uploads"
	}
	if c.Uploads.MaxSizeMB <= 0 {
		c.Uploads.MaxSizeMB = 20
	}
	if c.Uploads.PublicPath == "" {
		c.Uploads.PublicPath = "/uploads"
	}
	if c.Search.Segmenter == "" {
		c.Search.Segmenter = "gse"
	}
	if c.Search.RegexTimeoutMs <= 0 {
		c.Search.RegexTimeoutMs = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Content.PostsDir == c.Content.StatusesDir {
		return fmt.Errorf("content.posts_dir and content.statuses_dir must differ")
	}
	switch c.Uploads.Driver {
	case "local":
	case "s3":
		if c.Uploads.S3.Bucket == "" {
			return fmt.Errorf("uploads.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("uploads.driver must be \"local\" or \"s3\", got %q", c.Uploads.Driver)
	}
	if !strings.HasPrefix(c.Uploads.PublicPath, "/") {
		return fmt.Errorf("uploads.public_path must start with /, got %q", c.Uploads.PublicPath)
	}
	switch c.Search.Segmenter {
	case "gse", "runs":
	default:
		return fmt.Errorf("search.segmenter must be \"gse\" or \"runs\", got %q", c.Search.Segmenter)
	}
	return nil
}

// Path locates the config file for env.
func Path(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
