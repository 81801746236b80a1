package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressDisplay renders a download batch as a single progress bar.
// Debug mode drops the bar and prints one line per file instead, so the
// output interleaves cleanly with debug logs.
type ProgressDisplay struct {
	mu          sync.Mutex
	label       string
	totalImages int
	savedCount  int
	bytesSaved  int64
	errors      int
	startTime   time.Time
	bar         *progressbar.ProgressBar
	isDebug     bool
}

// NewProgressDisplay creates a new progress display
func NewProgressDisplay(label string, totalImages int, debug bool) *ProgressDisplay {
	p := &ProgressDisplay{
		label:       label,
		totalImages: totalImages,
		startTime:   time.Now(),
		isDebug:     debug,
	}

	// A bar needs a real terminal to redraw; piped runs get the
	// completion summary only
	if !debug && ShowProgress() && IsInteractive() {
		p.bar = NewDownloadBar(totalImages)
	}

	return p
}

// StartDownload marks the start of a new download
func (p *ProgressDisplay) StartDownload(filename string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Describe(fmt.Sprintf("Downloading %s", filename))
	}
}

// CompleteDownload marks a download as complete
func (p *ProgressDisplay) CompleteDownload(filename string, size int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.savedCount++
	p.bytesSaved += size

	if p.bar != nil {
		_ = p.bar.Add(1)
	} else if p.isDebug {
		fmt.Printf("%s %s • %s\n",
			Green("✓"),
			filename,
			p.formatBytes(size),
		)
	}
}

// FailDownload marks a download as failed. The bar still advances one
// step so it reaches its total even when some downloads fail.
func (p *ProgressDisplay) FailDownload(filename string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.errors++

	if p.bar != nil {
		_ = p.bar.Add(1)
	} else if p.isDebug {
		fmt.Printf("%s Failed: %s - %v\n", Red("✗"), filename, err)
	}
}

// Complete marks the entire operation as complete
func (p *ProgressDisplay) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if IsQuiet() {
		return
	}

	if p.bar != nil {
		_ = p.bar.Finish()
		fmt.Println()
	}

	elapsed := time.Since(p.startTime)

	fmt.Printf("\n%s Saved %d card images to %s\n",
		Green("✓"),
		p.savedCount,
		p.label,
	)

	fmt.Printf("  %s %s in %s (%.1f images/min)\n",
		Dim("•"),
		p.formatBytes(p.bytesSaved),
		p.formatDuration(elapsed),
		float64(p.savedCount)/elapsed.Minutes(),
	)

	if p.errors > 0 {
		fmt.Printf("  %s %d downloads failed\n",
			Dim("•"),
			p.errors,
		)
	}
}

// formatDuration formats a duration in a human-readable way
func (p *ProgressDisplay) formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	} else {
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// formatBytes formats bytes in a human-readable way
func (p *ProgressDisplay) formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
