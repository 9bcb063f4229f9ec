package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const appName = "holocron"

// Config holds all application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Search  SearchConfig  `mapstructure:"search"`
	UI      UIConfig      `mapstructure:"ui"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig configures the upstream film API
type SourceConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Retries     int           `mapstructure:"retries"`
	RateLimit   float64       `mapstructure:"rate_limit"` // requests per second
	Burst       int           `mapstructure:"burst"`
	Concurrency int           `mapstructure:"concurrency"` // parallel related-entity fetches
}

// CacheConfig configures the local film cache
type CacheConfig struct {
	Dir string        `mapstructure:"dir"` // empty disables persistence
	TTL time.Duration `mapstructure:"ttl"`
}

// SearchConfig configures search input handling
type SearchConfig struct {
	Debounce  time.Duration `mapstructure:"debounce"`
	MinLength int           `mapstructure:"min_length"`
	MaxLength int           `mapstructure:"max_length"`
}

// UIConfig holds display configuration
type UIConfig struct {
	ItemHeight int `mapstructure:"item_height"`
	Overscan   int `mapstructure:"overscan"`
	PageSize   int `mapstructure:"page_size"`
}

// ServerConfig holds the JSON API listener configuration
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// Address returns the listen address
func (c ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:     "https://swapi.info/api/",
			Timeout:     10 * time.Second,
			Retries:     3,
			RateLimit:   10,
			Burst:       5,
			Concurrency: 8,
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
			TTL: 24 * time.Hour,
		},
		Search: SearchConfig{
			Debounce:  300 * time.Millisecond,
			MinLength: 2,
			MaxLength: 100,
		},
		UI: UIConfig{
			ItemHeight: 1,
			Overscan:   5,
			PageSize:   20,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Source,
		validation.Field(&c.Source.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Source.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.Source.Retries, validation.Min(1), validation.Max(10)),
		validation.Field(&c.Source.RateLimit, validation.Min(0.0)),
		validation.Field(&c.Source.Burst, validation.Min(1)),
		validation.Field(&c.Source.Concurrency, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := validation.ValidateStruct(&c.Cache,
		validation.Field(&c.Cache.TTL, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := validation.ValidateStruct(&c.Search,
		validation.Field(&c.Search.Debounce, validation.Min(time.Duration(0))),
		validation.Field(&c.Search.MinLength, validation.Min(0)),
		validation.Field(&c.Search.MaxLength, validation.Required, validation.Min(c.Search.MinLength)),
	); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := validation.ValidateStruct(&c.UI,
		validation.Field(&c.UI.ItemHeight, validation.Required, validation.Min(1)),
		validation.Field(&c.UI.Overscan, validation.Min(0)),
		validation.Field(&c.UI.PageSize, validation.Required, validation.Min(1), validation.Max(100)),
	); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return validation.ValidateStruct(&c.Logging,
		validation.Field(&c.Logging.Level, validation.In("DEBUG", "INFO", "WARN", "WARNING", "ERROR",
			"debug", "info", "warn", "warning", "error")),
	)
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName, appName+".log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, appName+".log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName, "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, "cache")
	}
}

// newViper returns a viper instance primed with every default so that
// environment overrides reach keys absent from the config file.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("source.base_url", d.Source.BaseURL)
	v.SetDefault("source.timeout", d.Source.Timeout)
	v.SetDefault("source.retries", d.Source.Retries)
	v.SetDefault("source.rate_limit", d.Source.RateLimit)
	v.SetDefault("source.burst", d.Source.Burst)
	v.SetDefault("source.concurrency", d.Source.Concurrency)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("search.debounce", d.Search.Debounce)
	v.SetDefault("search.min_length", d.Search.MinLength)
	v.SetDefault("search.max_length", d.Search.MaxLength)
	v.SetDefault("ui.item_height", d.UI.ItemHeight)
	v.SetDefault("ui.overscan", d.UI.Overscan)
	v.SetDefault("ui.page_size", d.UI.PageSize)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)
	return v
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(defaultConfigPath(), ".")
}

// LoadConfigFrom loads config.yaml from the first of dirs that has one,
// then applies HOLOCRON_* environment overrides.
func LoadConfigFrom(dirs ...string) (*Config, error) {
	v := newViper()
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to the default config location
func SaveConfig(cfg *Config) error {
	return SaveConfigTo(defaultConfigPath(), cfg)
}

// SaveConfigTo writes cfg as dir/config.yaml
func SaveConfigTo(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	// Set fields individually to keep snake_case key names
	v.Set("source.base_url", cfg.Source.BaseURL)
	v.Set("source.timeout", cfg.Source.Timeout.String())
	v.Set("source.retries", cfg.Source.Retries)
	v.Set("source.rate_limit", cfg.Source.RateLimit)
	v.Set("source.burst", cfg.Source.Burst)
	v.Set("source.concurrency", cfg.Source.Concurrency)
	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.ttl", cfg.Cache.TTL.String())
	v.Set("search.debounce", cfg.Search.Debounce.String())
	v.Set("search.min_length", cfg.Search.MinLength)
	v.Set("search.max_length", cfg.Search.MaxLength)
	v.Set("ui.item_height", cfg.UI.ItemHeight)
	v.Set("ui.overscan", cfg.UI.Overscan)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("server.port", cfg.Server.Port)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ClearCache removes all cached data under dir
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// GetCachePath returns the default cache directory path
func GetCachePath() string {
	return defaultCachePath()
}
