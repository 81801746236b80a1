package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)

	// Test Scraper defaults
	assert.Equal(t, "https://riftbound.leagueoflegends.com/en-us/tcg-cards/", cfg.Scraper.PageURL)
	assert.NotEmpty(t, cfg.Scraper.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.Scraper.PageTimeout)

	// Test Output defaults
	assert.Equal(t, "images", cfg.Output.BaseDirectory)
	assert.True(t, cfg.Output.WriteManifest)

	// Test Download defaults
	assert.Equal(t, 30*time.Second, cfg.Download.Timeout)

	// Test Fallback defaults
	assert.Equal(t, "https://cdn.rgpub.io/public/live/map/riftbound/latest", cfg.Fallback.CDNBaseURL)
	assert.Equal(t, []string{"OGS", "OGN"}, cfg.Fallback.Prefixes)
	assert.Equal(t, 1, cfg.Fallback.StartIndex)
	assert.Equal(t, 3, cfg.Fallback.MissLimit)
	assert.Equal(t, "full-desktop.jpg", cfg.Fallback.Asset)
	assert.Equal(t, 2000, cfg.Fallback.MaxCode)
	assert.Equal(t, 15*time.Second, cfg.Fallback.ProbeTimeout)

	// Test Notifications defaults
	assert.True(t, cfg.Notifications.Enabled)
	assert.True(t, cfg.Notifications.OnComplete)
	assert.True(t, cfg.Notifications.OnError)
	assert.Equal(t, "terminal", cfg.Notifications.NotificationType)

	// Test Logging defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)
	assert.Equal(t, 100, cfg.Logging.MaxSize)
	assert.Equal(t, 3, cfg.Logging.MaxBackups)
	assert.Equal(t, 7, cfg.Logging.MaxAge)
	assert.False(t, cfg.Logging.Compress)
	assert.False(t, cfg.Logging.NoColor)
}

func TestLoadFromEnv(t *testing.T) {
	// Save current env vars
	oldEnv := make(map[string]string)
	envVars := []string{
		"RIFTSCRAPER_PAGE_URL",
		"RIFTSCRAPER_USER_AGENT",
		"RIFTSCRAPER_OUTPUT_DIR",
		"RIFTSCRAPER_CDN_BASE_URL",
		"RIFTSCRAPER_PREFIXES",
		"RIFTSCRAPER_START_INDEX",
		"RIFTSCRAPER_MISS_LIMIT",
		"RIFTSCRAPER_ASSET",
		"RIFTSCRAPER_NOTIFICATIONS_ENABLED",
		"RIFTSCRAPER_LOG_LEVEL",
	}

	for _, key := range envVars {
		oldEnv[key] = os.Getenv(key)
	}

	// Restore env vars after test
	defer func() {
		for key, value := range oldEnv {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}()

	// Set test env vars
	os.Setenv("RIFTSCRAPER_PAGE_URL", "https://env.example.com/cards/")
	os.Setenv("RIFTSCRAPER_USER_AGENT", "env-agent")
	os.Setenv("RIFTSCRAPER_OUTPUT_DIR", "/env/output")
	os.Setenv("RIFTSCRAPER_CDN_BASE_URL", "https://env-cdn.example.com/assets")
	os.Setenv("RIFTSCRAPER_PREFIXES", "OGN, OGS ,SFD")
	os.Setenv("RIFTSCRAPER_START_INDEX", "42")
	os.Setenv("RIFTSCRAPER_MISS_LIMIT", "7")
	os.Setenv("RIFTSCRAPER_ASSET", "thumbnail.png")
	os.Setenv("RIFTSCRAPER_NOTIFICATIONS_ENABLED", "false")
	os.Setenv("RIFTSCRAPER_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/cards/", cfg.Scraper.PageURL)
	assert.Equal(t, "env-agent", cfg.Scraper.UserAgent)
	assert.Equal(t, "/env/output", cfg.Output.BaseDirectory)
	assert.Equal(t, "https://env-cdn.example.com/assets", cfg.Fallback.CDNBaseURL)
	assert.Equal(t, []string{"OGN", "OGS", "SFD"}, cfg.Fallback.Prefixes)
	assert.Equal(t, 42, cfg.Fallback.StartIndex)
	assert.Equal(t, 7, cfg.Fallback.MissLimit)
	assert.Equal(t, "thumbnail.png", cfg.Fallback.Asset)
	assert.False(t, cfg.Notifications.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{
			name:      "valid defaults",
			modify:    func(c *Config) {},
			wantError: false,
		},
		{
			name: "page URL without scheme",
			modify: func(c *Config) {
				c.Scraper.PageURL = "riftbound.leagueoflegends.com/en-us/tcg-cards/"
			},
			wantError: true,
		},
		{
			name: "empty user agent",
			modify: func(c *Config) {
				c.Scraper.UserAgent = ""
			},
			wantError: true,
		},
		{
			name: "zero page timeout",
			modify: func(c *Config) {
				c.Scraper.PageTimeout = 0
			},
			wantError: true,
		},
		{
			name: "empty output directory",
			modify: func(c *Config) {
				c.Output.BaseDirectory = ""
			},
			wantError: true,
		},
		{
			name: "empty CDN base URL",
			modify: func(c *Config) {
				c.Fallback.CDNBaseURL = ""
			},
			wantError: true,
		},
		{
			name: "CDN base URL without scheme",
			modify: func(c *Config) {
				c.Fallback.CDNBaseURL = "cdn.rgpub.io/assets"
			},
			wantError: true,
		},
		{
			name: "no fallback prefixes",
			modify: func(c *Config) {
				c.Fallback.Prefixes = nil
			},
			wantError: true,
		},
		{
			name: "lowercase fallback prefix",
			modify: func(c *Config) {
				c.Fallback.Prefixes = []string{"ogn"}
			},
			wantError: true,
		},
		{
			name: "zero start index",
			modify: func(c *Config) {
				c.Fallback.StartIndex = 0
			},
			wantError: true,
		},
		{
			name: "zero miss limit",
			modify: func(c *Config) {
				c.Fallback.MissLimit = 0
			},
			wantError: true,
		},
		{
			name: "empty asset name",
			modify: func(c *Config) {
				c.Fallback.Asset = ""
			},
			wantError: true,
		},
		{
			name: "max code below start index",
			modify: func(c *Config) {
				c.Fallback.StartIndex = 500
				c.Fallback.MaxCode = 100
			},
			wantError: true,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Logging.Level = "verbose"
			},
			wantError: true,
		},
		{
			name: "invalid notification type",
			modify: func(c *Config) {
				c.Notifications.NotificationType = "carrier-pigeon"
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()

	flags := map[string]interface{}{
		"url":        "https://flag.example.com/cards/",
		"output":     "/flag/output",
		"cdn":        "https://flag-cdn.example.com/assets",
		"prefixes":   []string{"SFD"},
		"start":      100,
		"miss-limit": 10,
		"asset":      "full-mobile.jpg",
		"max-code":   500,
		"timeout":    45 * time.Second,
		"manifest":   false,
		"log-level":  "error",
		"no-color":   true,
	}

	cfg.MergeCommandLineFlags(flags)

	assert.Equal(t, "https://flag.example.com/cards/", cfg.Scraper.PageURL)
	assert.Equal(t, "/flag/output", cfg.Output.BaseDirectory)
	assert.Equal(t, "https://flag-cdn.example.com/assets", cfg.Fallback.CDNBaseURL)
	assert.Equal(t, []string{"SFD"}, cfg.Fallback.Prefixes)
	assert.Equal(t, 100, cfg.Fallback.StartIndex)
	assert.Equal(t, 10, cfg.Fallback.MissLimit)
	assert.Equal(t, "full-mobile.jpg", cfg.Fallback.Asset)
	assert.Equal(t, 500, cfg.Fallback.MaxCode)
	assert.Equal(t, 45*time.Second, cfg.Download.Timeout)
	assert.False(t, cfg.Output.WriteManifest)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.True(t, cfg.Logging.NoColor)
}

func TestMergeCommandLineFlagsPartial(t *testing.T) {
	cfg := DefaultConfig()

	// Only keys present in the map are applied
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"output": "/only/output",
	})

	assert.Equal(t, "/only/output", cfg.Output.BaseDirectory)
	assert.Equal(t, []string{"OGS", "OGN"}, cfg.Fallback.Prefixes)
	assert.True(t, cfg.Output.WriteManifest)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	cfg := DefaultConfig()
	cfg.Output.BaseDirectory = "/save/test"
	cfg.Fallback.Prefixes = []string{"OGN"}
	cfg.Fallback.MissLimit = 9
	cfg.Logging.Level = "warn"

	err := cfg.Save(configPath)
	require.NoError(t, err)

	loaded := DefaultConfig()
	err = loaded.LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/save/test", loaded.Output.BaseDirectory)
	assert.Equal(t, []string{"OGN"}, loaded.Fallback.Prefixes)
	assert.Equal(t, 9, loaded.Fallback.MissLimit)
	assert.Equal(t, "warn", loaded.Logging.Level)
	assert.Equal(t, cfg.Scraper.PageURL, loaded.Scraper.PageURL)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	fileCfg := DefaultConfig()
	fileCfg.Output.BaseDirectory = "/from/file"
	fileCfg.Fallback.MissLimit = 5
	require.NoError(t, fileCfg.Save(configPath))

	// Flags beat file values
	cfg, err := Load(configPath, map[string]interface{}{
		"output": "/from/flag",
	})
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.Output.BaseDirectory)
	assert.Equal(t, 5, cfg.Fallback.MissLimit)
}
