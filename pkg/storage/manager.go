package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"riftscraper/pkg/errors"
)

// Manager handles file storage with per-category sequential numbering.
// Counters are scoped to the Manager, so a fresh run numbers from 001
// again and overwrites earlier output.
type Manager struct {
	baseDir  string
	counters map[string]int
	mu       sync.RWMutex
}

// NewManager creates a new storage manager rooted at baseDir
func NewManager(baseDir string) (*Manager, error) {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("failed to create output directory: %v", err), 0)
	}

	return &Manager{
		baseDir:  baseDir,
		counters: make(map[string]int),
	}, nil
}

// EnsureCategory creates the subdirectory for a category and returns
// its path. Safe to call repeatedly.
func (m *Manager) EnsureCategory(category string) (string, error) {
	dir := filepath.Join(m.baseDir, category)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("failed to create category directory: %v", err), 0)
	}
	return dir, nil
}

// NextIndex returns the index the next save in a category will use.
// Untouched categories start at 1.
func (m *Manager) NextIndex(category string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if idx, ok := m.counters[category]; ok {
		return idx
	}
	return 1
}

// SaveSequential writes data into the category directory under the next
// zero-padded sequence number, e.g. 001.jpg, 002.png. The counter
// advances only when the write fully succeeds, so a failed download
// never leaves a numbering gap.
func (m *Manager) SaveSequential(category, ext string, r io.Reader) (string, error) {
	idx := m.NextIndex(category)
	filename := filepath.Join(m.baseDir, category, fmt.Sprintf("%03d%s", idx, ext))

	// Create temporary file first
	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return "", errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("failed to create temporary file: %v", err), 0)
	}

	// Copy data
	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile) // Clean up temp file
		return "", errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("failed to save image data: %v", err), 0)
	}

	if closeErr != nil {
		os.Remove(tempFile) // Clean up temp file
		return "", errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("failed to close file: %v", closeErr), 0)
	}

	// Atomic rename
	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile) // Clean up temp file
		return "", errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("failed to rename temporary file: %v", err), 0)
	}

	m.mu.Lock()
	m.counters[category] = idx + 1
	m.mu.Unlock()

	return filename, nil
}

// GetOutputDir returns the base output directory path
func (m *Manager) GetOutputDir() string {
	return m.baseDir
}

// GetSavedCounts returns the number of files saved per category
func (m *Manager) GetSavedCounts() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int, len(m.counters))
	for category, next := range m.counters {
		counts[category] = next - 1
	}
	return counts
}

// GetTotalSaved returns the number of files saved across all categories
func (m *Manager) GetTotalSaved() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, next := range m.counters {
		total += next - 1
	}
	return total
}
