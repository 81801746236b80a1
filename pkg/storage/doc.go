// Package storage provides file management functionality for the card scraper.
//
// The storage package handles:
//   - Creating the output directory and per-set category subdirectories
//   - Saving images with atomic write operations
//   - Sequential zero-padded numbering per category
//   - Thread-safe counter operations
//
// The Manager type is the primary interface for storage operations. Each
// category (a set prefix like OGN, or the misc bucket) carries its own
// counter starting at 001. The counter only advances on a successful
// save, so failed downloads never leave numbering gaps.
//
// Features:
//   - Atomic file writes using temporary files and rename
//   - Thread-safe operations with read-write mutex
//   - Run-scoped counters: a fresh run renumbers from 001
//
// Usage:
//
//	manager, err := storage.NewManager("images")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create the category directory, then save sequentially
//	if _, err := manager.EnsureCategory("OGN"); err != nil {
//	    log.Fatal(err)
//	}
//	path, err := manager.SaveSequential("OGN", ".jpg", imageReader)
//	if err != nil {
//	    log.Printf("Failed to save image: %v", err)
//	}
package storage
