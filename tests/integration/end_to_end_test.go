package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"riftscraper/pkg/logger"
	"riftscraper/pkg/manifest"
	"riftscraper/pkg/riftbound"
	"riftscraper/pkg/scraper"
)

// TestEndToEndGalleryScrape runs the full scrape flow against the mock
// gallery page and checks the files and manifest it produces
func TestEndToEndGalleryScrape(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	mockServer.AddSet("OGN", 5)
	mockServer.AddSet("OGS", 3)

	cfg := helper.CreateTestConfig()
	s, err := scraper.New(cfg)
	helper.AssertNoError(err)

	helper.AssertNoError(s.Run(context.Background()))

	outputDir := cfg.Output.BaseDirectory

	// 8 cards split by set, plus the banner under misc
	helper.AssertDirContainsFiles(filepath.Join(outputDir, "OGN"), 5)
	helper.AssertDirContainsFiles(filepath.Join(outputDir, "OGS"), 3)
	helper.AssertDirContainsFiles(filepath.Join(outputDir, riftbound.MiscCategory), 1)

	// URL order drives the numbering, so 001.jpg is the first card
	helper.AssertCardImage(filepath.Join(outputDir, "OGN", "001.jpg"), "OGN-001")
	helper.AssertCardImage(filepath.Join(outputDir, "OGN", "005.jpg"), "OGN-005")
	helper.AssertCardImage(filepath.Join(outputDir, "OGS", "003.jpg"), "OGS-003")

	m, err := manifest.Load(outputDir)
	helper.AssertNoError(err)

	if m.Mode != manifest.ModePage {
		t.Errorf("Expected manifest mode %q, got %q", manifest.ModePage, m.Mode)
	}
	if len(m.Entries) != 9 {
		t.Errorf("Expected 9 manifest entries, got %d", len(m.Entries))
	}
	if m.TotalBytes() != int64(9*cardImageSize) {
		t.Errorf("Expected %d total bytes, got %d", 9*cardImageSize, m.TotalBytes())
	}

	counts := m.CountBySet()
	helper.AssertEqual(5, counts["OGN"])
	helper.AssertEqual(3, counts["OGS"])
	helper.AssertEqual(1, counts[riftbound.MiscCategory])

	if mockServer.GetPageRequests() != 1 {
		t.Errorf("Expected 1 gallery page fetch, got %d", mockServer.GetPageRequests())
	}
	if mockServer.GetProbeRequests() != 0 {
		t.Errorf("Expected no probes during a page scrape, got %d", mockServer.GetProbeRequests())
	}
}

// TestEndToEndEmptyGalleryFallback checks that a gallery page without
// images switches the run over to the CDN probe
func TestEndToEndEmptyGalleryFallback(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	mockServer.SetEmptyGallery(true)
	mockServer.AddCDNCard("OGN", 1)
	mockServer.AddCDNCard("OGN", 2)

	cfg := helper.CreateTestConfig()
	s, err := scraper.New(cfg)
	helper.AssertNoError(err)

	helper.AssertNoError(s.Run(context.Background()))

	outputDir := cfg.Output.BaseDirectory
	helper.AssertDirContainsFiles(filepath.Join(outputDir, "OGN"), 2)
	helper.AssertCardImage(filepath.Join(outputDir, "OGN", "002.jpg"), "OGN-002")

	m, err := manifest.Load(outputDir)
	helper.AssertNoError(err)

	if m.Mode != manifest.ModeFallback {
		t.Errorf("Expected manifest mode %q, got %q", manifest.ModeFallback, m.Mode)
	}
	if len(m.Entries) != 2 {
		t.Fatalf("Expected 2 manifest entries, got %d", len(m.Entries))
	}
	if m.Entries[0].CardCode != "OGN-001" {
		t.Errorf("Expected card code OGN-001, got %q", m.Entries[0].CardCode)
	}

	if mockServer.GetPageRequests() != 1 {
		t.Errorf("Expected 1 gallery page fetch, got %d", mockServer.GetPageRequests())
	}

	// Hits at 1 and 2, then three misses before the limit stops the walk
	if mockServer.GetProbeRequests() != 5 {
		t.Errorf("Expected 5 probes, got %d", mockServer.GetProbeRequests())
	}
}

// TestEndToEndProbeScan runs the probe scan directly against a CDN with
// a gap in the card numbering
func TestEndToEndProbeScan(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	for _, n := range []int{1, 2, 3, 5} {
		mockServer.AddCDNCard("OGN", n)
	}
	mockServer.AddCDNCard("OGS", 1)

	cfg := helper.CreateTestConfig()
	cfg.Fallback.Prefixes = []string{"OGN", "OGS"}

	s, err := scraper.New(cfg)
	helper.AssertNoError(err)

	helper.AssertNoError(s.RunProbe(context.Background()))

	outputDir := cfg.Output.BaseDirectory
	helper.AssertDirContainsFiles(filepath.Join(outputDir, "OGN"), 4)
	helper.AssertDirContainsFiles(filepath.Join(outputDir, "OGS"), 1)

	// The gap at OGN-004 does not break the numbering: the fourth saved
	// file carries the fifth card code
	helper.AssertCardImage(filepath.Join(outputDir, "OGN", "004.jpg"), "OGN-005")

	m, err := manifest.Load(outputDir)
	helper.AssertNoError(err)

	if m.Mode != manifest.ModeFallback {
		t.Errorf("Expected manifest mode %q, got %q", manifest.ModeFallback, m.Mode)
	}

	counts := m.CountBySet()
	helper.AssertEqual(4, counts["OGN"])
	helper.AssertEqual(1, counts["OGS"])

	// OGN probes 1-8 (miss limit reached at 8), OGS probes 1-4
	if mockServer.GetProbeRequests() != 12 {
		t.Errorf("Expected 12 probes, got %d", mockServer.GetProbeRequests())
	}
}

// TestEndToEndPartialFailure checks that one failing download does not
// abort the run or leave a gap in the numbering
func TestEndToEndPartialFailure(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	mockServer.AddSet("OGN", 3)
	mockServer.SetErrorResponse(cardPath("OGN", 2), http.StatusInternalServerError)

	cfg := helper.CreateTestConfig()
	s, err := scraper.New(cfg)
	helper.AssertNoError(err)

	helper.AssertNoError(s.Run(context.Background()))

	outputDir := cfg.Output.BaseDirectory
	helper.AssertDirContainsFiles(filepath.Join(outputDir, "OGN"), 2)
	helper.AssertFileNotExists(filepath.Join(outputDir, "OGN", "003.jpg"))

	// The failed second card leaves no hole: 002.jpg holds the third card
	helper.AssertCardImage(filepath.Join(outputDir, "OGN", "002.jpg"), "OGN-003")

	m, err := manifest.Load(outputDir)
	helper.AssertNoError(err)

	counts := m.CountBySet()
	helper.AssertEqual(2, counts["OGN"])
}

// TestEndToEndGalleryPageError checks that a failing gallery page fetch
// surfaces as a run error
func TestEndToEndGalleryPageError(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	mockServer.AddSet("OGN", 1)
	mockServer.SetErrorResponse("/en-us/tcg-cards/", http.StatusInternalServerError)

	cfg := helper.CreateTestConfig()
	cfg.Notifications.Enabled = false

	s, err := scraper.New(cfg)
	helper.AssertNoError(err)

	err = s.Run(context.Background())
	helper.AssertError(err)
	helper.AssertErrorContains(err, "failed to fetch gallery page")

	if mockServer.GetDownloadRequests() != 0 {
		t.Errorf("Expected no downloads after a page error, got %d", mockServer.GetDownloadRequests())
	}
}

// TestEndToEndCancelledRun checks that a cancelled context stops the
// run before any card is downloaded
func TestEndToEndCancelledRun(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	mockServer.AddSet("OGN", 3)

	cfg := helper.CreateTestConfig()
	s, err := scraper.New(cfg)
	helper.AssertNoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	helper.AssertNoError(s.Run(ctx))

	outputDir := cfg.Output.BaseDirectory
	helper.AssertFileNotExists(filepath.Join(outputDir, "OGN", "001.jpg"))

	m, err := manifest.Load(outputDir)
	helper.AssertNoError(err)
	if len(m.Entries) != 0 {
		t.Errorf("Expected empty manifest after cancelled run, got %d entries", len(m.Entries))
	}

	if mockServer.GetDownloadRequests() != 0 {
		t.Errorf("Expected no downloads after cancellation, got %d", mockServer.GetDownloadRequests())
	}
}

// TestLargeImageDownload tests downloading a large asset through the client
func TestLargeImageDownload(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	const largeSize = 10 * 1024 * 1024

	largeServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/large/full-desktop.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		largeData := make([]byte, largeSize)
		for i := range largeData {
			largeData[i] = byte(i % 256)
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(largeData)))
		w.Write(largeData)
	}))
	defer largeServer.Close()

	client := riftbound.NewClient(riftbound.ClientOptions{
		DownloadTimeout: 30 * time.Second,
	}, logger.NewTestLogger())

	start := time.Now()
	data, err := client.DownloadImage(largeServer.URL + "/large/full-desktop.jpg")
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Failed to download large file: %v", err)
	}
	if len(data) != largeSize {
		t.Errorf("Expected %d bytes, got %d", largeSize, len(data))
	}

	t.Logf("Downloaded %d bytes in %v", largeSize, elapsed)
}
