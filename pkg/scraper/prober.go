package scraper

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"riftscraper/pkg/logger"
	"riftscraper/pkg/manifest"
	"riftscraper/pkg/riftbound"
	"riftscraper/pkg/storage"
	"riftscraper/pkg/ui"
)

// RunProbe scans the CDN for card assets by walking card codes per set
// prefix. Each prefix is probed from the configured start index until
// the miss limit is reached or the code ceiling is hit. Probed assets
// are saved under their prefix directory with sequential filenames.
func (s *Scraper) RunProbe(ctx context.Context) error {
	if s.tui == nil {
		ui.PrintHighlight("\n[INITIATING CDN PROBE SCAN]\n")
	} else {
		s.tui.LogInfo("Initiating CDN probe scan")
	}

	s.logger.InfoWithFields("Starting CDN probe scan", map[string]interface{}{
		"prefixes":   s.config.Fallback.Prefixes,
		"start":      s.config.Fallback.StartIndex,
		"miss_limit": s.config.Fallback.MissLimit,
		"asset":      s.config.Fallback.Asset,
		"max_code":   s.config.Fallback.MaxCode,
		"action":     "probe_start",
	})

	if s.storageManager == nil {
		storageManager, err := storage.NewManager(s.config.Output.BaseDirectory)
		if err != nil {
			s.logger.WithError(err).Error("Failed to create storage manager")
			return fmt.Errorf("failed to create storage manager: %w", err)
		}
		s.storageManager = storageManager
	}

	if s.manifest == nil {
		s.manifest = manifest.New(s.config.Scraper.PageURL, manifest.ModeFallback)
	}

	totalSaved := 0
	for _, prefix := range s.config.Fallback.Prefixes {
		if ctx.Err() != nil {
			s.logger.Warn("Probe scan cancelled")
			break
		}
		totalSaved += s.probePrefix(ctx, prefix)
	}

	s.writeManifest()

	s.logger.InfoWithFields("CDN probe scan completed", map[string]interface{}{
		"saved":          totalSaved,
		"probes":         s.tracker.Probes,
		"elapsed":        s.tracker.GetElapsedTime().Round(time.Second).String(),
		"images_per_min": s.tracker.GetDownloadRate(),
		"action":         "probe_complete",
	})

	if s.tui == nil {
		ui.PrintSuccess("\n[PROBE SCAN COMPLETED]\n")
		s.printSetSummary()
	} else {
		s.tui.LogSuccess("Probe scan completed: %d card images saved", totalSaved)
	}

	if s.config.Notifications.Enabled && s.config.Notifications.OnComplete {
		s.notifier.SendSuccess("PROBE SCAN COMPLETE",
			fmt.Sprintf("Saved %d card images to %s", totalSaved, s.config.Output.BaseDirectory))
	}

	return nil
}

// probePrefix walks card codes for one set prefix and downloads every
// asset that answers. Returns the number of images saved.
func (s *Scraper) probePrefix(ctx context.Context, prefix string) int {
	if s.tui == nil {
		ui.PrintInfo("Scanning prefix", prefix)
	} else {
		s.tui.LogInfo("Scanning prefix %s", prefix)
	}

	s.logger.InfoWithFields("Scanning set prefix", map[string]interface{}{
		"prefix": prefix,
	})

	// The set directory exists even when every probe misses
	if _, err := s.storageManager.EnsureCategory(prefix); err != nil {
		s.logger.WithError(err).WithField("prefix", prefix).Error("Failed to create set directory")
		if s.tui == nil {
			ui.PrintError("Failed to create directory for "+prefix, err.Error())
		} else {
			s.tui.LogError("Failed to create directory for %s: %v", prefix, err)
		}
		return 0
	}

	saved := 0
	missStreak := 0
	missLimit := s.config.Fallback.MissLimit

	for i := s.config.Fallback.StartIndex; i < s.config.Fallback.MaxCode; i++ {
		s.waitWhilePaused(ctx)
		if ctx.Err() != nil {
			return saved
		}

		code := riftbound.CardCode(prefix, i)
		probeURL := riftbound.ProbeURL(s.config.Fallback.CDNBaseURL, prefix, i, s.config.Fallback.Asset)
		s.tracker.IncrementProbes()

		// A probe error counts as a miss the same as a clean 404
		hit, err := s.client.ProbeAsset(probeURL)
		if err != nil || !hit {
			missStreak++
			logger.LogProbe(code, false, missStreak)

			if s.tui != nil {
				s.tui.UpdateProbeStatus(prefix, code, false, missStreak, missLimit)
			} else {
				s.tracker.PrintScanStatus(prefix, missStreak, missLimit)
			}

			if missStreak >= missLimit {
				s.logger.InfoWithFields("Miss limit reached, moving on", map[string]interface{}{
					"prefix":    prefix,
					"last_code": code,
					"saved":     saved,
				})
				break
			}
			continue
		}

		// The hit resets the streak even if the download below fails,
		// since the asset does exist on the CDN.
		missStreak = 0
		logger.LogProbe(code, true, 0)

		if s.tui != nil {
			s.tui.UpdateProbeStatus(prefix, code, true, 0, missLimit)
		}

		data, err := s.client.DownloadImage(probeURL)
		if err != nil {
			// Sequence numbering is untouched so the next save still
			// lands on a gapless filename.
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"prefix": prefix,
				"code":   code,
			}).Warn("Failed to download probed asset")
			s.tracker.IncrementFailed()
			logger.LogDownload(prefix, "", probeURL, false, err)
			if s.tui != nil {
				s.tui.LogWarning("Download failed for %s", code)
			}
			continue
		}

		// Probed assets always save as .jpg, matching the asset variant
		// requested from the CDN.
		sequence := s.storageManager.NextIndex(prefix)
		filename, err := s.storageManager.SaveSequential(prefix, ".jpg", bytes.NewReader(data))
		if err != nil {
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"prefix": prefix,
				"code":   code,
			}).Error("Failed to save probed asset")
			s.tracker.IncrementFailed()
			logger.LogDownload(prefix, "", probeURL, false, err)
			continue
		}

		saved++
		s.tracker.IncrementSaved()
		name := filepath.Base(filename)
		logger.LogDownload(prefix, name, probeURL, true, nil)

		s.manifest.Add(manifest.Entry{
			Set:       prefix,
			Sequence:  sequence,
			Filename:  name,
			SourceURL: probeURL,
			CardCode:  code,
			Bytes:     int64(len(data)),
			SavedAt:   time.Now().UTC(),
		})

		if s.tui != nil {
			s.tui.StartDownload(code, prefix, name, int64(len(data)))
			s.tui.CompleteDownload(code)
		} else {
			s.tracker.PrintProgress()
		}
	}

	s.logger.InfoWithFields("Prefix scan finished", map[string]interface{}{
		"prefix": prefix,
		"saved":  saved,
	})

	return saved
}

// waitWhilePaused idles while the TUI has downloads paused, waking on
// cancellation
func (s *Scraper) waitWhilePaused(ctx context.Context) {
	if s.tui == nil {
		return
	}
	for s.tui.IsPaused() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(200 * time.Millisecond):
		}
	}
}
