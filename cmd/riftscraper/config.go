package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"riftscraper/pkg/config"
	"riftscraper/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage Riftbound Scraper configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'riftscraper.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Required fields
  - Value types and ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	// Determine config file path
	configPath := configFile
	if configPath == "" {
		configPath = "riftscraper.yaml"
	}

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	// Create example configuration
	exampleConfig := `# Riftbound Scraper Configuration File
#
# This file contains all available configuration options.
# You can also use environment variables prefixed with RIFTSCRAPER_
# For example: RIFTSCRAPER_OUTPUT_DIR, RIFTSCRAPER_PREFIXES

# Gallery page settings
scraper:
  # Card gallery page to scrape
  page_url: "https://riftbound.leagueoflegends.com/en-us/tcg-cards/"

  # User agent sent with every request (optional)
  # Uncomment to override the default browser user agent
  # user_agent: "Mozilla/5.0 ..."

  # Gallery page fetch timeout
  page_timeout: 30s

# Output configuration
output:
  # Base directory for card images, one subdirectory per set
  base_directory: "./images"

  # Write a manifest.json describing every saved card
  write_manifest: true

# Download configuration
download:
  # Per image download timeout
  timeout: 30s

# CDN fallback probe configuration
# Used when the gallery page carries no image URLs, and by 'riftscraper probe'
fallback:
  # Base URL card assets are probed under
  cdn_base_url: "https://cdn.rgpub.io/public/live/map/riftbound/latest"

  # Set prefixes to probe, in order
  prefixes:
    - "OGS"
    - "OGN"

  # Card number the probe starts from
  start_index: 1

  # Consecutive misses before a prefix is abandoned
  miss_limit: 3

  # Asset variant requested from the CDN
  asset: "full-desktop.jpg"

  # Highest card number the probe will try
  max_code: 2000

  # Per probe request timeout
  probe_timeout: 15s

# Notification configuration
notifications:
  # Enable notifications
  enabled: true

  # Notify when a run completes
  on_complete: true

  # Notify when a run fails
  on_error: true

  # Notification type: terminal, desktop, none
  notification_type: "terminal"

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional)
  # Leave empty to log to stdout only
  file: ""

  # Maximum log file size in MB
  max_size: 100

  # Maximum number of old log files to keep
  max_backups: 3

  # Maximum age of log files in days
  max_age: 7

  # Compress rotated log files
  compress: false

  # Disable colored console output
  no_color: false
`

	// Write configuration file
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the configuration file to adjust the output directory and set prefixes")
	fmt.Println("2. Run 'riftscraper config validate' to check the configuration")
	fmt.Println("3. Start downloading with 'riftscraper scrape'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Convert to YAML for display
	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	// Show configuration sources
	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (RIFTSCRAPER_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	// Check if config file is specified
	if configFile == "" {
		// Try to find config file in common locations
		possiblePaths := []string{
			"riftscraper.yaml",
			"riftscraper.yml",
			".riftscraper.yaml",
			".riftscraper.yml",
			filepath.Join(os.Getenv("HOME"), ".riftscraper.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "riftscraper", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	// Try to load and validate configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	// Perform additional validation checks
	warnings := []string{}
	errors := []string{}

	// Check paths
	if cfg.Output.BaseDirectory != "" {
		if err := os.MkdirAll(cfg.Output.BaseDirectory, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create output directory: %v", err))
		}
	}

	// Check logging file path
	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}

	// Check value ranges
	if cfg.Fallback.MissLimit > 50 {
		warnings = append(warnings, "miss_limit above 50 keeps probing long after a set ends")
	}
	if cfg.Fallback.MaxCode > 10000 {
		warnings = append(warnings, "max_code above 10000 makes exhaustive scans very slow")
	}
	if !strings.HasSuffix(cfg.Fallback.Asset, ".jpg") {
		warnings = append(warnings, "probed cards always save with a .jpg extension regardless of the asset variant")
	}
	if cfg.Download.Timeout < 5*time.Second {
		warnings = append(warnings, "download timeout below 5s may abort large card images")
	}

	// Display results
	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	// Show summary
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Gallery page: %s\n", cfg.Scraper.PageURL)
	fmt.Printf("  Output directory: %s\n", cfg.Output.BaseDirectory)
	fmt.Printf("  Set prefixes: %s\n", strings.Join(cfg.Fallback.Prefixes, ", "))
	fmt.Printf("  Miss limit: %d\n", cfg.Fallback.MissLimit)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
