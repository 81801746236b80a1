package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"riftscraper/pkg/config"
	"riftscraper/pkg/manifest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGalleryServer creates a test server that mimics the card gallery
// page and the asset CDN behind it
type mockGalleryServer struct {
	server        *httptest.Server
	pageCalls     int32
	downloadCalls int32
	failPage      bool
	emptyPage     bool
	failDownload  bool
	mu            sync.Mutex
}

func newMockGalleryServer() *mockGalleryServer {
	m := &mockGalleryServer{}

	mux := http.NewServeMux()

	// Gallery page endpoint
	mux.HandleFunc("/en-us/tcg-cards/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&m.pageCalls, 1)

		m.mu.Lock()
		defer m.mu.Unlock()

		if m.failPage {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		if m.emptyPage {
			fmt.Fprint(w, `<html><body><div id="card-grid"></div></body></html>`)
			return
		}

		// Three card images across two sets plus one asset without a
		// set prefix
		fmt.Fprint(w, `<html><body>
<img src="/public/live/map/riftbound/latest/OGN/cards/OGN-001/full-desktop.jpg" alt="OGN-001">
<img src="/public/live/map/riftbound/latest/OGN/cards/OGN-002/full-desktop.jpg" alt="OGN-002">
<img src="/public/live/map/riftbound/latest/OGS/cards/OGS-001/full-desktop.jpg" alt="OGS-001">
<img src="/static/hero-banner.png" alt="banner">
</body></html>`)
	})

	// Card asset download endpoints
	assets := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&m.downloadCalls, 1)

		m.mu.Lock()
		defer m.mu.Unlock()

		if m.failDownload {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("fake image data"))
	}
	mux.HandleFunc("/public/", assets)
	mux.HandleFunc("/static/", assets)

	m.server = httptest.NewServer(mux)
	return m
}

func (m *mockGalleryServer) Close() {
	m.server.Close()
}

func (m *mockGalleryServer) URL() string {
	return m.server.URL
}

func (m *mockGalleryServer) GetCallCounts() (page, download int32) {
	return atomic.LoadInt32(&m.pageCalls), atomic.LoadInt32(&m.downloadCalls)
}

// mockGalleryClient is a mock implementation of the GalleryClient interface
type mockGalleryClient struct {
	fetchPage     func(pageURL string) ([]byte, error)
	downloadImage func(imageURL string) ([]byte, error)
	probeAsset    func(probeURL string) (bool, error)
}

func (m *mockGalleryClient) FetchPage(pageURL string) ([]byte, error) {
	if m.fetchPage != nil {
		return m.fetchPage(pageURL)
	}
	return nil, nil
}

func (m *mockGalleryClient) DownloadImage(imageURL string) ([]byte, error) {
	if m.downloadImage != nil {
		return m.downloadImage(imageURL)
	}
	return nil, nil
}

func (m *mockGalleryClient) ProbeAsset(probeURL string) (bool, error) {
	if m.probeAsset != nil {
		return m.probeAsset(probeURL)
	}
	return false, nil
}

func testConfig(t testing.TB) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Output.BaseDirectory = t.TempDir()
	cfg.Notifications.Enabled = false
	return cfg
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)

	s, err := New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, s)
	assert.NotNil(t, s.client)
	assert.NotNil(t, s.tracker)
	assert.NotNil(t, s.notifier)
	assert.NotNil(t, s.logger)
	assert.Equal(t, cfg, s.config)
}

func TestRunDownloadsGalleryImages(t *testing.T) {
	server := newMockGalleryServer()
	defer server.Close()

	cfg := testConfig(t)
	cfg.Scraper.PageURL = server.URL() + "/en-us/tcg-cards/"

	s, err := New(cfg)
	require.NoError(t, err)

	err = s.Run(context.Background())
	require.NoError(t, err)

	// Images land under their set prefix with sequential names, the
	// unclassified banner goes to misc
	expected := []string{
		filepath.Join("OGN", "001.jpg"),
		filepath.Join("OGN", "002.jpg"),
		filepath.Join("OGS", "001.jpg"),
		filepath.Join("misc", "001.png"),
	}
	for _, rel := range expected {
		data, err := os.ReadFile(filepath.Join(cfg.Output.BaseDirectory, rel))
		require.NoError(t, err, "expected %s to exist", rel)
		assert.Equal(t, "fake image data", string(data))
	}

	page, download := server.GetCallCounts()
	assert.Equal(t, int32(1), page)
	assert.Equal(t, int32(4), download)

	m, err := manifest.Load(cfg.Output.BaseDirectory)
	require.NoError(t, err)
	assert.Equal(t, manifest.ModePage, m.Mode)
	assert.Equal(t, cfg.Scraper.PageURL, m.PageURL)
	assert.Len(t, m.Entries, 4)
	assert.Equal(t, map[string]int{"OGN": 2, "OGS": 1, "misc": 1}, m.CountBySet())

	// Downloads run in sorted URL order, so the first entry is OGN-001
	assert.Equal(t, "OGN", m.Entries[0].Set)
	assert.Equal(t, 1, m.Entries[0].Sequence)
	assert.Equal(t, "001.jpg", m.Entries[0].Filename)
	assert.Contains(t, m.Entries[0].SourceURL, "OGN-001")
}

func TestRunSkipsManifestWhenDisabled(t *testing.T) {
	server := newMockGalleryServer()
	defer server.Close()

	cfg := testConfig(t)
	cfg.Scraper.PageURL = server.URL() + "/en-us/tcg-cards/"
	cfg.Output.WriteManifest = false

	s, err := New(cfg)
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background()))
	assert.False(t, manifest.Exists(cfg.Output.BaseDirectory))
}

func TestRunReportsDownloadFailures(t *testing.T) {
	server := newMockGalleryServer()
	defer server.Close()
	server.mu.Lock()
	server.failDownload = true
	server.mu.Unlock()

	cfg := testConfig(t)
	cfg.Scraper.PageURL = server.URL() + "/en-us/tcg-cards/"

	s, err := New(cfg)
	require.NoError(t, err)

	// Individual download failures do not abort the run
	err = s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, s.tracker.Failed)
	assert.Equal(t, 0, s.tracker.TotalSaved)

	// Set directories exist even though every download failed
	entries, err := os.ReadDir(filepath.Join(cfg.Output.BaseDirectory, "OGN"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	m, err := manifest.Load(cfg.Output.BaseDirectory)
	require.NoError(t, err)
	assert.Empty(t, m.Entries)
}

func TestRunPageFetchError(t *testing.T) {
	server := newMockGalleryServer()
	defer server.Close()
	server.mu.Lock()
	server.failPage = true
	server.mu.Unlock()

	cfg := testConfig(t)
	cfg.Scraper.PageURL = server.URL() + "/en-us/tcg-cards/"

	s, err := New(cfg)
	require.NoError(t, err)

	err = s.Run(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch gallery page")
}

func TestRunFallsBackToProbeOnEmptyPage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Fallback.Prefixes = []string{"OGN"}

	s, err := New(cfg)
	require.NoError(t, err)

	// The page comes back empty, so the run probes the CDN. The first
	// two codes answer, then three straight misses end the prefix.
	var probes int32
	s.client = &mockGalleryClient{
		fetchPage: func(pageURL string) ([]byte, error) {
			return []byte(`<html><body><div id="card-grid"></div></body></html>`), nil
		},
		probeAsset: func(probeURL string) (bool, error) {
			atomic.AddInt32(&probes, 1)
			hit := strings.Contains(probeURL, "/OGN-001/") || strings.Contains(probeURL, "/OGN-002/")
			return hit, nil
		},
		downloadImage: func(imageURL string) ([]byte, error) {
			return []byte("probed card"), nil
		},
	}

	err = s.Run(context.Background())
	require.NoError(t, err)

	for _, name := range []string{"001.jpg", "002.jpg"} {
		data, err := os.ReadFile(filepath.Join(cfg.Output.BaseDirectory, "OGN", name))
		require.NoError(t, err)
		assert.Equal(t, "probed card", string(data))
	}

	// Codes 001 and 002 hit, 003 through 005 missed
	assert.Equal(t, int32(5), atomic.LoadInt32(&probes))

	m, err := manifest.Load(cfg.Output.BaseDirectory)
	require.NoError(t, err)
	assert.Equal(t, manifest.ModeFallback, m.Mode)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, "OGN-001", m.Entries[0].CardCode)
	assert.Equal(t, "OGN-002", m.Entries[1].CardCode)
}
