// Package ui provides terminal UI components for the card scraper
// This file demonstrates example usage of the UI components
package ui

/*
Example usage of the UI components:

// Terminal colors and output
ui.PrintLogo()                                   // Print ASCII logo
ui.PrintInfo("Gallery", pageURL)                 // Cyan label with yellow value
ui.PrintSuccess("Done.")                         // Green success message
ui.PrintError("Failed to fetch page", err)       // Red error message
ui.PrintWarning("No image URLs found on page")   // Yellow warning message
ui.PrintHighlight("[FALLBACK]")                  // Magenta highlight message

// Progress tracking
tracker := ui.NewStatusTracker()
tracker.IncrementSaved()                         // Count a saved image
tracker.PrintProgress()                          // Print progress line
tracker.PrintScanStatus("OGN", streak, limit)    // Print probe scan status

// Batch download display backed by a progress bar
progress := ui.NewProgressDisplay("cards", len(urls), false)
progress.StartDownload("001.jpg")
progress.CompleteDownload("001.jpg", size)
progress.Complete()

// Notifications (cross-platform)
notifier := ui.NewNotifier()
notifier.SendNotification("Scrape Complete", "All card images downloaded")
notifier.SendError("Error", "Failed to fetch gallery page")
notifier.SendSuccess("Success", "Saved 204 images")

// Direct color usage
fmt.Printf("%s: %s\n", ui.Cyan("Set"), ui.Yellow("OGN"))
fmt.Println(ui.Green("✓ Saved"))
fmt.Println(ui.Red("✗ Failed"))
*/
