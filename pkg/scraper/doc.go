// Package scraper provides the core functionality for downloading Riftbound card images.
//
// The scraper package orchestrates the entire download process, coordinating
// between the gallery client, URL extraction, storage management, and the
// CDN probe fallback.
//
// Architecture:
//
// The Scraper struct is the main component that:
//   - Fetches the public card gallery page
//   - Extracts card image URLs from markup, styles, and script payloads
//   - Downloads images sequentially with per-set numbering
//   - Falls back to probing the CDN by card code when the page is empty
//   - Writes a manifest describing every saved image
//   - Provides progress tracking and notifications
//
// Usage:
//
//	cfg, err := config.Load("", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := scraper.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := s.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// Fallback probing:
//
// When the gallery page renders its cards client side, the page HTML
// carries no image URLs. The scraper then walks card codes per set
// prefix (OGN-001, OGN-002, ...) and asks the CDN directly, stopping a
// prefix after a configurable run of consecutive misses.
//
// Storage:
//
// Downloaded images are grouped into one directory per set prefix and
// named with zero-padded sequence numbers: OGN/001.jpg, OGN/002.jpg.
// Images whose URL carries no recognizable set prefix land in misc/.
package scraper
