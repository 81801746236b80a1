package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// StatusTracker keeps track of scrape progress
type StatusTracker struct {
	TotalSaved int
	Failed     int
	Probes     int
	StartTime  time.Time
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		StartTime: time.Now(),
	}
}

// IncrementSaved increments the saved image counter
func (st *StatusTracker) IncrementSaved() {
	st.TotalSaved++
}

// IncrementFailed increments the failed download counter
func (st *StatusTracker) IncrementFailed() {
	st.Failed++
}

// IncrementProbes increments the probe request counter
func (st *StatusTracker) IncrementProbes() {
	st.Probes++
}

// GetStreakBar returns a formatted bar for the current miss streak
func (st *StatusTracker) GetStreakBar(streak, limit int) string {
	const width = 20
	if limit <= 0 {
		limit = 1
	}
	progress := float64(streak) / float64(limit)
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(width))

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, width-filled)

	return fmt.Sprintf("[%s] %d/%d misses", bar, streak, limit)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetDownloadRate returns the average download rate (images per minute)
func (st *StatusTracker) GetDownloadRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.TotalSaved) / elapsed
}

// PrintProgress prints the current progress status
func (st *StatusTracker) PrintProgress() {
	if !ShowProgress() {
		return
	}
	fmt.Printf("\r%s Saved: %d | Failed: %d",
		Green("[SAVED]"),
		st.TotalSaved,
		st.Failed)
}

// PrintScanStatus prints the current probe scanning status for a set
func (st *StatusTracker) PrintScanStatus(prefix string, streak, limit int) {
	if !ShowProgress() {
		return
	}
	fmt.Printf("\n%s %s %s\n",
		Magenta("[SCANNING]"),
		Cyan(prefix),
		Yellow(st.GetStreakBar(streak, limit)))
}
