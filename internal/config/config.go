package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const appName = "mizunime"

// DefaultUserAgent mimics a desktop browser; the upstream catalog rejects
// obvious bot agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config is the root configuration
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog" yaml:"catalog"`
	Web      WebConfig      `mapstructure:"web" yaml:"web"`
	Schedule ScheduleConfig `mapstructure:"schedule" yaml:"schedule"`
	TUI      TUIConfig      `mapstructure:"tui" yaml:"tui"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Advanced AdvancedConfig `mapstructure:"advanced" yaml:"advanced"`
}

// CatalogConfig configures the upstream catalog API client
type CatalogConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// WebConfig configures the HTTP frontend
type WebConfig struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	PublicURL    string        `mapstructure:"public_url" yaml:"public_url"`
	SiteName     string        `mapstructure:"site_name" yaml:"site_name"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	APIRate      float64       `mapstructure:"api_rate" yaml:"api_rate"`
	APIBurst     int           `mapstructure:"api_burst" yaml:"api_burst"`
	Metrics      bool          `mapstructure:"metrics" yaml:"metrics"`
}

// ScheduleConfig controls how "today" is determined for the weekly schedule
type ScheduleConfig struct {
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// TUIConfig configures the terminal browser
type TUIConfig struct {
	OpenInBrowser bool `mapstructure:"open_in_browser" yaml:"open_in_browser"`
	// ClipboardCommand is used when the system clipboard is unreachable,
	// e.g. "wl-copy" or "clip.exe"
	ClipboardCommand string `mapstructure:"clipboard_command" yaml:"clipboard_command"`
}

// LoggingConfig configures the slog logger and file rotation
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	Color      bool   `mapstructure:"color" yaml:"color"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// AdvancedConfig holds debugging switches
type AdvancedConfig struct {
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:   "https://rgsordertracking.com/animekompi/endpoints",
			Timeout:   15 * time.Second,
			UserAgent: DefaultUserAgent,
			CacheTTL:  60 * time.Second,
		},
		Web: WebConfig{
			Addr:         ":3000",
			PublicURL:    "http://localhost:3000",
			SiteName:     "Mizunime",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			APIRate:      20,
			APIBurst:     40,
			Metrics:      true,
		},
		Schedule: ScheduleConfig{
			Timezone: "Asia/Jakarta",
		},
		TUI: TUIConfig{
			OpenInBrowser: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Color:      true,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		},
	}
}

// Load reads configuration from the given file (or the default location),
// environment variables prefixed with MIZUNIME_, and built-in defaults.
// The returned viper instance can be used to watch the file for changes.
func Load(configPath string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(GetConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MIZUNIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, v, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("catalog.base_url", cfg.Catalog.BaseURL)
	v.SetDefault("catalog.timeout", cfg.Catalog.Timeout)
	v.SetDefault("catalog.user_agent", cfg.Catalog.UserAgent)
	v.SetDefault("catalog.cache_ttl", cfg.Catalog.CacheTTL)

	v.SetDefault("web.addr", cfg.Web.Addr)
	v.SetDefault("web.public_url", cfg.Web.PublicURL)
	v.SetDefault("web.site_name", cfg.Web.SiteName)
	v.SetDefault("web.read_timeout", cfg.Web.ReadTimeout)
	v.SetDefault("web.write_timeout", cfg.Web.WriteTimeout)
	v.SetDefault("web.api_rate", cfg.Web.APIRate)
	v.SetDefault("web.api_burst", cfg.Web.APIBurst)
	v.SetDefault("web.metrics", cfg.Web.Metrics)

	v.SetDefault("schedule.timezone", cfg.Schedule.Timezone)

	v.SetDefault("tui.open_in_browser", cfg.TUI.OpenInBrowser)
	v.SetDefault("tui.clipboard_command", cfg.TUI.ClipboardCommand)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.color", cfg.Logging.Color)
	v.SetDefault("logging.max_size", cfg.Logging.MaxSize)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age", cfg.Logging.MaxAge)
	v.SetDefault("logging.compress", cfg.Logging.Compress)

	v.SetDefault("advanced.debug", cfg.Advanced.Debug)
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url must not be empty")
	}
	if c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("catalog.cache_ttl must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid schedule.timezone %q: %w", c.Schedule.Timezone, err)
	}
	return nil
}

// Location returns the time zone used to decide which schedule day is today
func (c *Config) Location() (*time.Location, error) {
	if c.Schedule.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Schedule.Timezone)
}

// SaveDefaultConfig writes the default configuration as YAML
func SaveDefaultConfig(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// InitializeDirs creates the config and state directories
func InitializeDirs() error {
	for _, dir := range []string{GetConfigDir(), filepath.Join(getStateDir(), appName)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// GetConfigDir returns $XDG_CONFIG_HOME/mizunime (or the OS equivalent)
func GetConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(dir, appName)
}

func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(home, ".local", "state")
}
