package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"riftscraper/pkg/config"
	"riftscraper/pkg/logger"
	"riftscraper/pkg/scraper"
	"riftscraper/pkg/ui"
	"riftscraper/pkg/ui/tui"
)

// probeCmd represents the probe command
var probeCmd = &cobra.Command{
	Use:   "probe [prefixes...]",
	Short: "Probe the CDN for card images without touching the gallery page",
	Long: `Walk the CDN card by card instead of scraping the gallery page.

For each set prefix the prober requests OGN-001, OGN-002 and so on,
downloading every card that exists. After a run of consecutive misses
the set is considered exhausted and the prober moves to the next
prefix. This is the same scan the scraper falls back to when the
gallery page carries no image URLs, exposed as its own command.

Set prefixes given as arguments override both the configuration file
and the --prefixes flag. Lowercase prefixes are accepted and
uppercased.`,
	Example: `  # Probe the configured set prefixes
  riftscraper probe

  # Probe specific sets
  riftscraper probe OGN OGS

  # Resume a set from card 100, tolerating five misses
  riftscraper probe OGN --start 100 --miss-limit 5

  # Request a different asset variant from the CDN
  riftscraper probe OGN --asset full-mobile.jpg`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runProbe(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)

	// The probe command shares its flag variables with scrape, so a flag
	// set on either command lands in the same override
	probeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for card images (default: ./images)")
	probeCmd.Flags().StringVar(&cdnBase, "cdn", "", "CDN base URL to probe")
	probeCmd.Flags().StringSliceVar(&prefixes, "prefixes", nil, "set prefixes to probe")
	probeCmd.Flags().IntVar(&startIndex, "start", 1, "card number to start probing from")
	probeCmd.Flags().IntVar(&missLimit, "miss-limit", 3, "consecutive misses before a prefix is abandoned")
	probeCmd.Flags().StringVar(&assetName, "asset", "", "asset variant to request (default: full-desktop.jpg)")
	probeCmd.Flags().IntVar(&maxCode, "max-code", 2000, "highest card number to try")
	probeCmd.Flags().IntVar(&downloadTimeout, "download-timeout", 30, "download timeout in seconds")
	probeCmd.Flags().BoolVar(&writeManifest, "manifest", true, "write a manifest.json next to the images")
	probeCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")
}

func runProbe(cmd *cobra.Command, args []string) {
	flags := buildFlagOverrides(cmd)

	// Positional prefixes win over the flag and the config file
	if len(args) > 0 {
		if parsed := normalizePrefixes(args); len(parsed) > 0 {
			flags["prefixes"] = parsed
		}
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
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
		ui.PrintInfo("Sets", strings.Join(cfg.Fallback.Prefixes, ", "))
		ui.PrintInfo("Output", cfg.Output.BaseDirectory)
	}

	// Stop cleanly on Ctrl-C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if useTUI {
		terminal := tui.NewTUI()

		// Run prober in a goroutine
		proberDone := make(chan error)
		go func() {
			s, err := scraper.New(cfg)
			if err != nil {
				proberDone <- err
				return
			}

			// Set the TUI on the scraper
			s.SetTUI(terminal)

			proberDone <- s.RunProbe(ctx)
		}()

		// Run TUI in main thread
		tuiDone := make(chan error)
		go func() {
			tuiDone <- terminal.Start()
		}()

		// Wait for either to finish
		select {
		case err := <-proberDone:
			terminal.Stop()
			<-tuiDone // Wait for TUI to finish
			if err != nil {
				logger.WithError(err).Error("Probe scan failed")
				os.Exit(1)
			}
		case err := <-tuiDone:
			if err != nil {
				logger.WithError(err).Error("TUI failed")
				os.Exit(1)
			}
		}

		logger.Info("Probe scan completed successfully")
	} else {
		s, err := scraper.New(cfg)
		if err != nil {
			ui.PrintError("Failed to initialize scraper", err.Error())
			os.Exit(1)
		}

		if err := s.RunProbe(ctx); err != nil {
			logger.WithError(err).Error("Probe scan failed")
			ui.PrintError("PROBE SCAN FAILED", err.Error())
			os.Exit(1)
		}

		logger.Info("Probe scan completed successfully")
	}
}
