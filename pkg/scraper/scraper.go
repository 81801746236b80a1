package scraper

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"riftscraper/internal/downloader"
	"riftscraper/pkg/config"
	"riftscraper/pkg/extract"
	"riftscraper/pkg/logger"
	"riftscraper/pkg/manifest"
	"riftscraper/pkg/riftbound"
	"riftscraper/pkg/storage"
	"riftscraper/pkg/ui"
)

// Scraper orchestrates the card image download process
type Scraper struct {
	client         GalleryClient
	storageManager *storage.Manager
	tracker        *ui.StatusTracker
	progress       *ui.ProgressDisplay
	notifier       *ui.Notifier
	config         *config.Config
	logger         logger.Logger
	manifest       *manifest.Manifest
	tui            ui.TUI
}

// New creates a new Scraper instance
func New(cfg *config.Config) (*Scraper, error) {
	// Get logger
	log := logger.GetLogger()

	// Create gallery client with timeouts from config
	client := riftbound.NewClient(riftbound.ClientOptions{
		UserAgent:       cfg.Scraper.UserAgent,
		PageTimeout:     cfg.Scraper.PageTimeout,
		DownloadTimeout: cfg.Download.Timeout,
		ProbeTimeout:    cfg.Fallback.ProbeTimeout,
	}, log)

	return &Scraper{
		client:   client,
		tracker:  ui.NewStatusTracker(),
		notifier: ui.NewNotifier(),
		config:   cfg,
		logger:   log,
	}, nil
}

// SetTUI sets the terminal UI for the scraper
func (s *Scraper) SetTUI(tui ui.TUI) {
	s.tui = tui
}

// Run downloads every card image the gallery page references. When the
// page yields no usable image URLs, the CDN probe fallback takes over.
func (s *Scraper) Run(ctx context.Context) error {
	if s.tui == nil {
		ui.PrintHighlight("\n[INITIATING CARD EXTRACTION]\n")
	} else {
		s.tui.LogInfo("Initiating card extraction from %s", s.config.Scraper.PageURL)
	}

	s.logger.InfoWithFields("Starting card scrape", map[string]interface{}{
		"page_url":   s.config.Scraper.PageURL,
		"output_dir": s.config.Output.BaseDirectory,
		"action":     "scrape_start",
	})

	storageManager, err := storage.NewManager(s.config.Output.BaseDirectory)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create storage manager")
		return fmt.Errorf("failed to create storage manager: %w", err)
	}
	s.storageManager = storageManager

	if s.tui == nil {
		ui.PrintInfo("Fetching", s.config.Scraper.PageURL)
	} else {
		s.tui.LogInfo("Fetching %s", s.config.Scraper.PageURL)
	}

	page, err := s.client.FetchPage(s.config.Scraper.PageURL)
	if err != nil {
		s.logger.WithError(err).WithField("page_url", s.config.Scraper.PageURL).Error("Failed to fetch gallery page")
		s.notifyError(fmt.Sprintf("Could not fetch gallery page: %v", err))
		return fmt.Errorf("failed to fetch gallery page: %w", err)
	}

	urls, err := extract.ImageURLs(page, s.config.Scraper.PageURL)
	if err != nil {
		s.logger.WithError(err).Error("Failed to parse gallery page")
		s.notifyError(fmt.Sprintf("Could not parse gallery page: %v", err))
		return fmt.Errorf("failed to parse gallery page: %w", err)
	}

	s.logger.InfoWithFields("Gallery page scanned", map[string]interface{}{
		"page_url":  s.config.Scraper.PageURL,
		"url_count": len(urls),
	})

	// An empty gallery page usually means the cards are rendered
	// client side, so the page itself carries nothing to download.
	if len(urls) == 0 {
		s.logger.Warn("No card image URLs found on gallery page, switching to CDN probe")
		if s.tui == nil {
			ui.PrintWarning("\n[NO IMAGES ON PAGE - SWITCHING TO CDN PROBE]\n")
		} else {
			s.tui.LogWarning("No images found on page, probing the CDN directly")
		}
		return s.RunProbe(ctx)
	}

	// Downloads run in URL order so sequence numbers are reproducible
	// across runs against the same page.
	sort.Strings(urls)

	if s.tui == nil {
		ui.PrintInfo("Found", fmt.Sprintf("%d card images", len(urls)))
		debugMode := strings.ToLower(s.config.Logging.Level) == "debug"
		s.progress = ui.NewProgressDisplay(s.config.Output.BaseDirectory, len(urls), debugMode)
	} else {
		s.tui.LogInfo("Found %d card images", len(urls))
	}

	s.manifest = manifest.New(s.config.Scraper.PageURL, manifest.ModePage)

	dl := downloader.New(s.client, s.storageManager, s.logger)
	if s.tui != nil {
		dl.SetPauseCheck(s.tui.IsPaused)
	}
	summary := dl.Run(ctx, urls, s.handleDownloadResult)

	s.writeManifest()

	s.logger.InfoWithFields("Card scrape completed", map[string]interface{}{
		"saved":  summary.Saved,
		"failed": summary.Failed,
		"bytes":  summary.Bytes,
		"action": "scrape_complete",
	})

	s.finish(summary.Saved, summary.Failed)
	return nil
}

// handleDownloadResult feeds one download outcome into the progress
// surfaces and the manifest
func (s *Scraper) handleDownloadResult(result downloader.DownloadResult) {
	if result.Success {
		name := filepath.Base(result.Filename)
		logger.LogDownload(result.Job.Set, name, result.Job.URL, true, nil)
		s.tracker.IncrementSaved()

		if s.manifest != nil {
			s.manifest.Add(manifest.Entry{
				Set:       result.Job.Set,
				Sequence:  result.Index,
				Filename:  name,
				SourceURL: result.Job.URL,
				Bytes:     int64(result.Size),
				SavedAt:   time.Now().UTC(),
			})
		}

		if s.tui != nil {
			s.tui.StartDownload(result.Job.URL, result.Job.Set, name, int64(result.Size))
			s.tui.CompleteDownload(result.Job.URL)
		} else if s.progress != nil {
			s.progress.StartDownload(name)
			s.progress.CompleteDownload(name, int64(result.Size))
		} else {
			s.tracker.PrintProgress()
		}
		return
	}

	logger.LogDownload(result.Job.Set, "", result.Job.URL, false, result.Error)
	s.tracker.IncrementFailed()

	if s.tui != nil {
		s.tui.StartDownload(result.Job.URL, result.Job.Set, filepath.Base(result.Job.URL), 0)
		s.tui.FailDownload(result.Job.URL, result.Error)
	} else if s.progress != nil {
		s.progress.FailDownload(filepath.Base(result.Job.URL), result.Error)
	} else {
		ui.PrintError("Failed to download "+result.Job.URL, result.Error.Error())
	}
}

// writeManifest persists the manifest next to the downloaded images.
// A failed manifest write never aborts a finished scrape.
func (s *Scraper) writeManifest() {
	if !s.config.Output.WriteManifest || s.manifest == nil {
		return
	}

	if err := s.manifest.Save(s.storageManager.GetOutputDir()); err != nil {
		s.logger.WithError(err).Error("Failed to write manifest")
		return
	}

	s.logger.InfoWithFields("Manifest written", map[string]interface{}{
		"path":    filepath.Join(s.storageManager.GetOutputDir(), manifest.Filename),
		"entries": len(s.manifest.Entries),
	})
}

// finish prints the closing summary and fires the completion notification
func (s *Scraper) finish(saved, failed int) {
	if s.tui == nil {
		if s.progress != nil {
			s.progress.Complete()
		} else {
			ui.PrintSuccess("\n[EXTRACTION COMPLETED]\n")
		}
		s.printSetSummary()
	} else {
		s.tui.LogSuccess("Extraction completed: %d saved, %d failed", saved, failed)
	}

	if s.config.Notifications.Enabled && s.config.Notifications.OnComplete {
		s.notifier.SendSuccess("EXTRACTION COMPLETE",
			fmt.Sprintf("Saved %d card images to %s", saved, s.config.Output.BaseDirectory))
	}
}

// printSetSummary lists how many images each set directory received
func (s *Scraper) printSetSummary() {
	counts := s.storageManager.GetSavedCounts()
	if len(counts) == 0 {
		return
	}

	sets := make([]string, 0, len(counts))
	for set := range counts {
		sets = append(sets, set)
	}
	sort.Strings(sets)

	for _, set := range sets {
		ui.PrintInfo(set, fmt.Sprintf("%d images", counts[set]))
	}
	ui.PrintInfo("Output", s.storageManager.GetOutputDir())
}

// notifyError fires the failure notification when configured
func (s *Scraper) notifyError(message string) {
	if s.config.Notifications.Enabled && s.config.Notifications.OnError {
		s.notifier.SendError("EXTRACTION FAILED", message)
	}
}
