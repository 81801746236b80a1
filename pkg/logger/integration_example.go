package logger

// This file shows how to integrate the logger into the main application

/*
Example integration in the scrape command:

package cmd

import (
	"os"

	"riftscraper/pkg/config"
	"riftscraper/pkg/logger"
	"riftscraper/pkg/scraper"
	"riftscraper/pkg/ui"
)

func runScrape() {
	// Show ASCII logo
	ui.PrintLogo()

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize the logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}

	// Now you can use the logger throughout the application
	logger.Info("Card scraper starting")
	logger.WithField("page_url", cfg.Scraper.PageURL).Info("Fetching gallery page")

	// Log configuration
	logger.WithFields(map[string]interface{}{
		"output_dir": cfg.Output.BaseDirectory,
		"prefixes":   cfg.Fallback.Prefixes,
		"log_level":  cfg.Logging.Level,
	}).Debug("Configuration loaded")

	// Create and run scraper with logging
	logger.Info("Initializing scraper")

	s, err := scraper.New(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize scraper")
	}

	// Log component start
	logger.LogComponentStart("scraper", map[string]interface{}{
		"page_url": cfg.Scraper.PageURL,
		"mode":     "page",
	})

	err = s.Run(context.Background())
	if err != nil {
		logger.WithError(err).Error("Scrape failed")
		logger.LogComponentStop("scraper", "error")
		os.Exit(1)
	}

	logger.LogComponentStop("scraper", "completed")
	logger.Info("All downloads completed successfully")
}
*/

// Example integration in the downloader:
/*
func (d *Downloader) download(imageURL string) error {
	start := time.Now()
	log := logger.GetLogger().
		WithField("component", "downloader").
		WithField("url", imageURL)

	log.Debug("Starting download")

	// ... download logic ...

	duration := time.Since(start)
	log.WithField("duration", duration).Info("Download completed")

	// Use helper function for standardized logging
	logger.LogDownload(set, filename, imageURL, true, nil)

	return nil
}
*/

// Example integration in the CDN prober:
/*
func (p *Prober) probePrefix(prefix string) {
	for i := start; i < maxCode; i++ {
		code := riftbound.CardCode(prefix, i)
		hit, err := p.client.ProbeAsset(riftbound.ProbeURL(p.cdnBase, prefix, i, p.asset))
		if err != nil || !hit {
			missStreak++
			logger.LogProbe(code, false, missStreak)
			continue
		}

		missStreak = 0
		logger.LogProbe(code, true, missStreak)
		// ... fetch and save the asset ...
	}
}
*/
