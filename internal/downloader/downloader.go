package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"riftscraper/pkg/extract"
	"riftscraper/pkg/logger"
	"riftscraper/pkg/riftbound"
)

// DownloadJob represents a single card image download task
type DownloadJob struct {
	URL string
	Set string
}

// DownloadResult represents the result of a download job
type DownloadResult struct {
	Job      DownloadJob
	Index    int
	Filename string
	Success  bool
	Error    error
	Duration time.Duration
	Size     int
}

// ImageFetcher interface for downloading card images
type ImageFetcher interface {
	DownloadImage(url string) ([]byte, error)
}

// ImageStore interface for storing card images
type ImageStore interface {
	EnsureCategory(category string) (string, error)
	NextIndex(category string) int
	SaveSequential(category, ext string, r io.Reader) (string, error)
}

// Summary aggregates the outcome of a download run
type Summary struct {
	Saved  int
	Failed int
	Bytes  int64
	BySet  map[string]int
}

// Downloader downloads an ordered list of card image URLs one at a time.
// Filenames are assigned per set in submission order, so downloads stay
// sequential to keep the numbering stable.
type Downloader struct {
	client ImageFetcher
	store  ImageStore
	logger logger.Logger
	paused func() bool
}

// New creates a new sequential downloader
func New(client ImageFetcher, store ImageStore, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Downloader{
		client: client,
		store:  store,
		logger: log,
	}
}

// SetPauseCheck installs a callback consulted between downloads. While
// it returns true the run idles without starting the next download.
func (d *Downloader) SetPauseCheck(paused func() bool) {
	d.paused = paused
}

// Classify returns the set prefix for a card image URL
func Classify(url string) string {
	if prefix := riftbound.DetectSetPrefix(url); prefix != "" {
		return prefix
	}
	return riftbound.MiscCategory
}

// Run downloads every URL in order. Failed downloads are logged and skipped;
// the sequence counter for a set advances only on successful saves. The
// handler, if non-nil, is invoked after each job.
func (d *Downloader) Run(ctx context.Context, urls []string, handler func(DownloadResult)) Summary {
	summary := Summary{BySet: make(map[string]int)}

	d.logger.InfoWithFields("Starting downloads", map[string]interface{}{
		"total": len(urls),
	})

	for _, url := range urls {
		d.waitWhilePaused(ctx)

		select {
		case <-ctx.Done():
			d.logger.Warn("Download run cancelled")
			return summary
		default:
		}

		job := DownloadJob{URL: url, Set: Classify(url)}
		result := d.processJob(job)

		if result.Success {
			summary.Saved++
			summary.Bytes += int64(result.Size)
			summary.BySet[job.Set]++
		} else {
			summary.Failed++
		}

		if handler != nil {
			handler(result)
		}
	}

	d.logger.InfoWithFields("Download run finished", map[string]interface{}{
		"saved":  summary.Saved,
		"failed": summary.Failed,
	})

	return summary
}

// waitWhilePaused idles between jobs while the pause check holds,
// waking on cancellation
func (d *Downloader) waitWhilePaused(ctx context.Context) {
	if d.paused == nil {
		return
	}
	for d.paused() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// processJob handles a single download job
func (d *Downloader) processJob(job DownloadJob) DownloadResult {
	start := time.Now()
	result := DownloadResult{
		Job:     job,
		Success: false,
	}

	// The set directory exists even if the download fails
	if _, err := d.store.EnsureCategory(job.Set); err != nil {
		result.Error = fmt.Errorf("prepare directory failed: %w", err)
		result.Duration = time.Since(start)

		d.logger.ErrorWithFields("Failed to prepare set directory", map[string]interface{}{
			"set":   job.Set,
			"error": err.Error(),
		})

		return result
	}

	result.Index = d.store.NextIndex(job.Set)

	data, err := d.client.DownloadImage(job.URL)
	if err != nil {
		result.Error = fmt.Errorf("download failed: %w", err)
		result.Duration = time.Since(start)

		d.logger.ErrorWithFields("Failed to download image", map[string]interface{}{
			"set":      job.Set,
			"url":      job.URL,
			"error":    err.Error(),
			"duration": result.Duration,
		})

		return result
	}

	result.Size = len(data)

	filename, err := d.store.SaveSequential(job.Set, extract.ExtensionFor(job.URL), bytes.NewReader(data))
	if err != nil {
		result.Error = fmt.Errorf("save failed: %w", err)
		result.Duration = time.Since(start)

		d.logger.ErrorWithFields("Failed to save image", map[string]interface{}{
			"set":   job.Set,
			"url":   job.URL,
			"error": err.Error(),
			"size":  result.Size,
		})

		return result
	}

	result.Filename = filename
	result.Success = true
	result.Duration = time.Since(start)

	d.logger.DebugWithFields("Saved card image", map[string]interface{}{
		"set":      job.Set,
		"file":     filename,
		"size":     result.Size,
		"duration": result.Duration,
	})

	return result
}
