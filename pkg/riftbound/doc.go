// Package riftbound provides a client for the Riftbound card gallery and
// its asset CDN.
//
// This package includes:
//   - A configurable HTTP client with proper headers and error handling
//   - Constants for the public gallery page and the CDN layout
//   - Helper functions for set prefixes, card codes, and probe URLs
//
// Example usage:
//
//	client := riftbound.NewClient(riftbound.ClientOptions{}, nil)
//
//	// Fetch the gallery page
//	html, err := client.FetchPage(riftbound.GalleryURL)
//	if err != nil {
//	    if scrapeErr, ok := err.(*errors.Error); ok {
//	        switch scrapeErr.Type {
//	        case errors.ErrorTypeNetwork:
//	            // Handle network failure
//	        case errors.ErrorTypeNotFound:
//	            // Handle missing page
//	        }
//	    }
//	}
//
//	// Probe the CDN for a card that never appeared on the page
//	probeURL := riftbound.ProbeURL("", "OGN", 42, "full-desktop.jpg")
//	found, err := client.ProbeAsset(probeURL)
//	if found {
//	    data, err := client.DownloadImage(probeURL)
//	    // Handle image data
//	}
package riftbound
