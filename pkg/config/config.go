package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// setPrefixPattern matches a plausible set code: uppercase ASCII letters,
// at most ten of them
var setPrefixPattern = regexp.MustCompile(`^[A-Z]{1,10}$`)

// Config holds all configuration options for the card scraper
type Config struct {
	// Gallery page settings
	Scraper ScraperConfig `yaml:"scraper" json:"scraper"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// CDN fallback probe settings
	Fallback FallbackConfig `yaml:"fallback" json:"fallback"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ScraperConfig holds gallery page settings
type ScraperConfig struct {
	PageURL     string        `yaml:"page_url" json:"page_url"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent"`
	PageTimeout time.Duration `yaml:"page_timeout" json:"page_timeout"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
	WriteManifest bool   `yaml:"write_manifest" json:"write_manifest"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// FallbackConfig holds the CDN probe settings used when the gallery
// page yields no image URLs
type FallbackConfig struct {
	CDNBaseURL   string        `yaml:"cdn_base_url" json:"cdn_base_url"`
	Prefixes     []string      `yaml:"prefixes" json:"prefixes"`
	StartIndex   int           `yaml:"start_index" json:"start_index"`
	MissLimit    int           `yaml:"miss_limit" json:"miss_limit"`
	Asset        string        `yaml:"asset" json:"asset"`
	MaxCode      int           `yaml:"max_code" json:"max_code"`
	ProbeTimeout time.Duration `yaml:"probe_timeout" json:"probe_timeout"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled          bool   `yaml:"enabled" json:"enabled"`
	OnComplete       bool   `yaml:"on_complete" json:"on_complete"`
	OnError          bool   `yaml:"on_error" json:"on_error"`
	NotificationType string `yaml:"notification_type" json:"notification_type"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" json:"level"`
	File       string `yaml:"file" json:"file"`
	MaxSize    int    `yaml:"max_size" json:"max_size"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAge     int    `yaml:"max_age" json:"max_age"`
	Compress   bool   `yaml:"compress" json:"compress"`
	NoColor    bool   `yaml:"no_color" json:"no_color"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scraper: ScraperConfig{
			PageURL:     "https://riftbound.leagueoflegends.com/en-us/tcg-cards/",
			UserAgent:   "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			PageTimeout: 30 * time.Second,
		},
		Output: OutputConfig{
			BaseDirectory: "images",
			WriteManifest: true,
		},
		Download: DownloadConfig{
			Timeout: 30 * time.Second,
		},
		Fallback: FallbackConfig{
			CDNBaseURL:   "https://cdn.rgpub.io/public/live/map/riftbound/latest",
			Prefixes:     []string{"OGS", "OGN"},
			StartIndex:   1,
			MissLimit:    3,
			Asset:        "full-desktop.jpg",
			MaxCode:      2000,
			ProbeTimeout: 15 * time.Second,
		},
		Notifications: NotificationConfig{
			Enabled:          true,
			OnComplete:       true,
			OnError:          true,
			NotificationType: "terminal",
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   false,
			NoColor:    false,
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if pageURL := os.Getenv("RIFTSCRAPER_PAGE_URL"); pageURL != "" {
		c.Scraper.PageURL = pageURL
	}
	if userAgent := os.Getenv("RIFTSCRAPER_USER_AGENT"); userAgent != "" {
		c.Scraper.UserAgent = userAgent
	}

	// Output directory
	if outputDir := os.Getenv("RIFTSCRAPER_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}

	// Fallback probe settings
	if cdnBase := os.Getenv("RIFTSCRAPER_CDN_BASE_URL"); cdnBase != "" {
		c.Fallback.CDNBaseURL = cdnBase
	}
	if prefixes := os.Getenv("RIFTSCRAPER_PREFIXES"); prefixes != "" {
		var parsed []string
		for _, p := range strings.Split(prefixes, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parsed = append(parsed, p)
			}
		}
		if len(parsed) > 0 {
			c.Fallback.Prefixes = parsed
		}
	}
	if start := os.Getenv("RIFTSCRAPER_START_INDEX"); start != "" {
		var val int
		fmt.Sscanf(start, "%d", &val)
		if val > 0 {
			c.Fallback.StartIndex = val
		}
	}
	if missLimit := os.Getenv("RIFTSCRAPER_MISS_LIMIT"); missLimit != "" {
		var val int
		fmt.Sscanf(missLimit, "%d", &val)
		if val > 0 {
			c.Fallback.MissLimit = val
		}
	}
	if asset := os.Getenv("RIFTSCRAPER_ASSET"); asset != "" {
		c.Fallback.Asset = asset
	}

	// Notifications
	if notifEnabled := os.Getenv("RIFTSCRAPER_NOTIFICATIONS_ENABLED"); notifEnabled != "" {
		c.Notifications.Enabled = strings.ToLower(notifEnabled) == "true"
	}

	// Logging level
	if logLevel := os.Getenv("RIFTSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
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
	// Check in order of precedence
	locations := []string{
		".riftscraper.yaml",
		".riftscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "riftscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "riftscraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".riftscraper.yaml"),
		filepath.Join(os.Getenv("HOME"), ".riftscraper.yml"),
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

	// Validate gallery page settings
	if c.Scraper.PageURL == "" {
		errs = append(errs, errors.New("gallery page URL is required"))
	} else if u, err := url.Parse(c.Scraper.PageURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, errors.New("gallery page URL must be a valid http(s) URL"))
	}
	if c.Scraper.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if c.Scraper.PageTimeout <= 0 {
		errs = append(errs, errors.New("page timeout must be positive"))
	}

	// Validate download settings
	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	// Validate output settings
	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	// Validate fallback probe settings
	if c.Fallback.CDNBaseURL == "" {
		errs = append(errs, errors.New("CDN base URL is required"))
	} else if u, err := url.Parse(c.Fallback.CDNBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, errors.New("CDN base URL must be a valid http(s) URL"))
	}
	if len(c.Fallback.Prefixes) == 0 {
		errs = append(errs, errors.New("at least one set prefix is required"))
	}
	for _, prefix := range c.Fallback.Prefixes {
		if !setPrefixPattern.MatchString(prefix) {
			errs = append(errs, fmt.Errorf("invalid set prefix: %q", prefix))
		}
	}
	if c.Fallback.StartIndex < 1 {
		errs = append(errs, errors.New("start index must be at least 1"))
	}
	if c.Fallback.MissLimit < 1 {
		errs = append(errs, errors.New("miss limit must be at least 1"))
	}
	if c.Fallback.Asset == "" {
		errs = append(errs, errors.New("fallback asset name is required"))
	}
	if c.Fallback.MaxCode <= c.Fallback.StartIndex {
		errs = append(errs, errors.New("max code must be greater than start index"))
	}
	if c.Fallback.ProbeTimeout <= 0 {
		errs = append(errs, errors.New("probe timeout must be positive"))
	}

	// Validate logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	// Validate notification type
	validNotifTypes := map[string]bool{
		"terminal": true, "desktop": true, "none": true,
	}
	if !validNotifTypes[strings.ToLower(c.Notifications.NotificationType)] {
		errs = append(errs, errors.New("invalid notification type"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map are applied, so callers should insert a key
// only when its flag was actually set.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if pageURL, ok := flags["url"].(string); ok && pageURL != "" {
		c.Scraper.PageURL = pageURL
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if cdnBase, ok := flags["cdn"].(string); ok && cdnBase != "" {
		c.Fallback.CDNBaseURL = cdnBase
	}
	if prefixes, ok := flags["prefixes"].([]string); ok && len(prefixes) > 0 {
		c.Fallback.Prefixes = prefixes
	}
	if start, ok := flags["start"].(int); ok && start > 0 {
		c.Fallback.StartIndex = start
	}
	if missLimit, ok := flags["miss-limit"].(int); ok && missLimit > 0 {
		c.Fallback.MissLimit = missLimit
	}
	if asset, ok := flags["asset"].(string); ok && asset != "" {
		c.Fallback.Asset = asset
	}
	if maxCode, ok := flags["max-code"].(int); ok && maxCode > 0 {
		c.Fallback.MaxCode = maxCode
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Download.Timeout = timeout
	}
	if manifest, ok := flags["manifest"].(bool); ok {
		c.Output.WriteManifest = manifest
	}
	if notifications, ok := flags["notifications"].(bool); ok {
		c.Notifications.Enabled = notifications
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if noColor, ok := flags["no-color"].(bool); ok {
		c.Logging.NoColor = noColor
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".riftscraper.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
