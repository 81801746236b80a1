package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Filename is the manifest file written at the root of the output directory
const Filename = "manifest.json"

// Run modes recorded in the manifest
const (
	ModePage     = "page"
	ModeFallback = "fallback"
)

// Entry represents one saved card image
type Entry struct {
	// Core identifiers
	Set      string `json:"set"`
	Sequence int    `json:"sequence"`
	Filename string `json:"filename"`

	// Source
	SourceURL string `json:"source_url"`
	CardCode  string `json:"card_code,omitempty"`

	// File properties
	Bytes int64 `json:"bytes"`

	// Timestamps
	SavedAt time.Time `json:"saved_at"`
}

// Manifest records everything a scrape run saved
type Manifest struct {
	PageURL     string    `json:"page_url"`
	Mode        string    `json:"mode"`
	GeneratedAt time.Time `json:"generated_at"`
	Entries     []Entry   `json:"entries"`
}

// New creates an empty manifest for a run
func New(pageURL, mode string) *Manifest {
	return &Manifest{
		PageURL: pageURL,
		Mode:    mode,
		Entries: make([]Entry, 0),
	}
}

// Add appends an entry to the manifest
func (m *Manifest) Add(entry Entry) {
	m.Entries = append(m.Entries, entry)
}

// Save writes the manifest to outputDir, stamping GeneratedAt.
// The data lands in a temporary file first so a crash mid-write never
// leaves a truncated manifest behind.
func (m *Manifest) Save(outputDir string) error {
	m.GeneratedAt = time.Now()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(outputDir, Filename)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to finalize manifest file: %w", err)
	}

	return nil
}

// Load reads a manifest from outputDir
func Load(outputDir string) (*Manifest, error) {
	path := filepath.Join(outputDir, Filename)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Exists checks whether outputDir already carries a manifest
func Exists(outputDir string) bool {
	_, err := os.Stat(filepath.Join(outputDir, Filename))
	return err == nil
}

// CountBySet returns the number of entries per set
func (m *Manifest) CountBySet() map[string]int {
	counts := make(map[string]int)
	for _, entry := range m.Entries {
		counts[entry.Set]++
	}
	return counts
}

// TotalBytes returns the combined size of all saved images
func (m *Manifest) TotalBytes() int64 {
	var total int64
	for _, entry := range m.Entries {
		total += entry.Bytes
	}
	return total
}
