package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"riftscraper/pkg/config"
	"riftscraper/pkg/logger"
	"riftscraper/pkg/riftbound"
	"riftscraper/pkg/scraper"
	"riftscraper/pkg/ui"
	"riftscraper/pkg/ui/tui"
)

var (
	// Scrape command flags
	pageURL         string
	outputDir       string
	cdnBase         string
	prefixes        []string
	startIndex      int
	missLimit       int
	assetName       string
	maxCode         int
	downloadTimeout int
	writeManifest   bool
	useTUI          bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Download all card images from the gallery page",
	Long: `Download every card image referenced by the Riftbound card gallery.

The scraper fetches the public gallery page, extracts every card image
URL it references, and saves the images into one folder per card set.
Images whose URL carries no recognizable set prefix land in misc/.

When the gallery page renders its cards client side and carries no
image URLs, the scraper falls back to probing the CDN card by card
(see 'riftscraper probe').`,
	Example: `  # Download cards using default settings
  riftscraper scrape

  # Download to a specific directory
  riftscraper scrape --output ./cards

  # Scrape a different gallery page
  riftscraper scrape --url https://riftbound.leagueoflegends.com/en-us/tcg-cards/

  # Skip the manifest file and disable notifications
  riftscraper scrape --manifest=false --notifications=false

  # Watch the run in the interactive terminal UI
  riftscraper scrape --tui`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runScrape(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	// Local flags for scrape command
	scrapeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for card images (default: ./images)")
	scrapeCmd.Flags().StringVar(&pageURL, "url", "", "gallery page URL to scrape")
	scrapeCmd.Flags().StringVar(&cdnBase, "cdn", "", "CDN base URL for the fallback probe")
	scrapeCmd.Flags().StringSliceVar(&prefixes, "prefixes", nil, "set prefixes for the CDN fallback probe")
	scrapeCmd.Flags().IntVar(&startIndex, "start", 1, "card number the fallback probe starts from")
	scrapeCmd.Flags().IntVar(&missLimit, "miss-limit", 3, "consecutive misses before the probe gives up on a prefix")
	scrapeCmd.Flags().StringVar(&assetName, "asset", "", "asset variant the fallback probe requests (default: full-desktop.jpg)")
	scrapeCmd.Flags().IntVar(&maxCode, "max-code", 2000, "highest card number the fallback probe will try")
	scrapeCmd.Flags().IntVar(&downloadTimeout, "download-timeout", 30, "download timeout in seconds")
	scrapeCmd.Flags().BoolVar(&writeManifest, "manifest", true, "write a manifest.json next to the images")
	scrapeCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")

	// The same flags also live on the root command so running bare
	// 'riftscraper' works without the scrape subcommand
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for card images (default: ./images)")
	rootCmd.Flags().StringVar(&pageURL, "url", "", "gallery page URL to scrape")
	rootCmd.Flags().StringVar(&cdnBase, "cdn", "", "CDN base URL for the fallback probe")
	rootCmd.Flags().StringSliceVar(&prefixes, "prefixes", nil, "set prefixes for the CDN fallback probe")
	rootCmd.Flags().IntVar(&startIndex, "start", 1, "card number the fallback probe starts from")
	rootCmd.Flags().IntVar(&missLimit, "miss-limit", 3, "consecutive misses before the probe gives up on a prefix")
	rootCmd.Flags().StringVar(&assetName, "asset", "", "asset variant the fallback probe requests (default: full-desktop.jpg)")
	rootCmd.Flags().IntVar(&maxCode, "max-code", 2000, "highest card number the fallback probe will try")
	rootCmd.Flags().IntVar(&downloadTimeout, "download-timeout", 30, "download timeout in seconds")
	rootCmd.Flags().BoolVar(&writeManifest, "manifest", true, "write a manifest.json next to the images")
	rootCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")
}

// flagChanged reports whether a flag was set on the invoked command or
// on the root command (for the bare invocation path)
func flagChanged(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Changed(name) || rootCmd.Flags().Changed(name)
}

// buildFlagOverrides collects only the flags the user actually set so
// config precedence stays intact
func buildFlagOverrides(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})

	if flagChanged(cmd, "url") {
		flags["url"] = pageURL
	}
	if flagChanged(cmd, "output") {
		flags["output"] = outputDir
	}
	if flagChanged(cmd, "cdn") {
		flags["cdn"] = cdnBase
	}
	if flagChanged(cmd, "prefixes") {
		flags["prefixes"] = normalizePrefixes(prefixes)
	}
	if flagChanged(cmd, "start") {
		flags["start"] = startIndex
	}
	if flagChanged(cmd, "miss-limit") {
		flags["miss-limit"] = missLimit
	}
	if flagChanged(cmd, "asset") {
		flags["asset"] = assetName
	}
	if flagChanged(cmd, "max-code") {
		flags["max-code"] = maxCode
	}
	if flagChanged(cmd, "download-timeout") {
		flags["timeout"] = time.Duration(downloadTimeout) * time.Second
	}
	if flagChanged(cmd, "manifest") {
		flags["manifest"] = writeManifest
	}
	if !notifications {
		flags["notifications"] = false
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	if noColor {
		flags["no-color"] = true
	}

	return flags
}

// normalizePrefixes uppercases and trims user supplied set prefixes,
// dropping anything that cannot be a set code
func normalizePrefixes(raw []string) []string {
	var out []string
	for _, p := range raw {
		normalized := riftbound.NormalizeSetPrefix(p)
		if !riftbound.IsValidSetPrefix(normalized) {
			ui.PrintWarning("Ignoring invalid set prefix", p)
			continue
		}
		out = append(out, normalized)
	}
	return out
}

func runScrape(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(configFile, buildFlagOverrides(cmd))
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	logger.WithField("version", version).Info("Riftbound Scraper starting")

	// The alt-screen TUI needs a real terminal
	if useTUI && !ui.IsInteractive() {
		ui.PrintWarning("Standard output is not a terminal, TUI disabled")
		useTUI = false
	}

	if !useTUI {
		ui.PrintInfo("Gallery", cfg.Scraper.PageURL)
		ui.PrintInfo("Output", cfg.Output.BaseDirectory)
	}

	// Stop cleanly on Ctrl-C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if useTUI {
		terminal := tui.NewTUI()

		// Run scraper in a goroutine
		scraperDone := make(chan error)
		go func() {
			s, err := scraper.New(cfg)
			if err != nil {
				scraperDone <- err
				return
			}

			// Set the TUI on the scraper
			s.SetTUI(terminal)

			scraperDone <- s.Run(ctx)
		}()

		// Run TUI in main thread
		tuiDone := make(chan error)
		go func() {
			tuiDone <- terminal.Start()
		}()

		// Wait for either to finish
		select {
		case err := <-scraperDone:
			terminal.Stop()
			<-tuiDone // Wait for TUI to finish
			if err != nil {
				logger.WithError(err).Error("Extraction failed")
				os.Exit(1)
			}
		case err := <-tuiDone:
			if err != nil {
				logger.WithError(err).Error("TUI failed")
				os.Exit(1)
			}
		}

		logger.Info("Extraction completed successfully")
	} else {
		s, err := scraper.New(cfg)
		if err != nil {
			ui.PrintError("Failed to initialize scraper", err.Error())
			os.Exit(1)
		}

		if err := s.Run(ctx); err != nil {
			logger.WithError(err).Error("Extraction failed")
			ui.PrintError("EXTRACTION FAILED", err.Error())
			os.Exit(1)
		}

		logger.Info("Extraction completed successfully")
	}
}

// Make scrape the default command when no subcommand is specified
func init() {
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			runScrape(cmd, args)
			return nil
		}
		// Unknown arguments fall through to help
		return cmd.Help()
	}

	rootCmd.Args = cobra.ArbitraryArgs
}
