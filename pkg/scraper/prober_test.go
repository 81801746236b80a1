package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"riftscraper/pkg/manifest"
	"riftscraper/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunProbeStopsAfterMissLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Fallback.Prefixes = []string{"OGS", "OGN"}

	s, err := New(cfg)
	require.NoError(t, err)

	var probes int32
	s.client = &mockGalleryClient{
		probeAsset: func(probeURL string) (bool, error) {
			atomic.AddInt32(&probes, 1)
			return false, nil
		},
	}

	err = s.RunProbe(context.Background())
	require.NoError(t, err)

	// Every prefix gives up after exactly missLimit consecutive misses
	assert.Equal(t, int32(2*cfg.Fallback.MissLimit), atomic.LoadInt32(&probes))
	assert.Equal(t, 0, s.tracker.TotalSaved)

	// The set directories were still created
	for _, prefix := range cfg.Fallback.Prefixes {
		info, err := os.Stat(filepath.Join(cfg.Output.BaseDirectory, prefix))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	m, err := manifest.Load(cfg.Output.BaseDirectory)
	require.NoError(t, err)
	assert.Equal(t, manifest.ModeFallback, m.Mode)
	assert.Empty(t, m.Entries)
}

func TestRunProbeTreatsErrorsAsMisses(t *testing.T) {
	cfg := testConfig(t)
	cfg.Fallback.Prefixes = []string{"OGN"}
	cfg.Fallback.MissLimit = 2

	s, err := New(cfg)
	require.NoError(t, err)

	var probes int32
	s.client = &mockGalleryClient{
		probeAsset: func(probeURL string) (bool, error) {
			atomic.AddInt32(&probes, 1)
			return false, fmt.Errorf("probe timeout")
		},
	}

	require.NoError(t, s.RunProbe(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&probes))
}

func TestRunProbeNumbersSavesWithoutGaps(t *testing.T) {
	cfg := testConfig(t)
	cfg.Fallback.Prefixes = []string{"OGN"}

	s, err := New(cfg)
	require.NoError(t, err)

	// 001 saves, 002 probes fine but fails to download, 003 saves,
	// 004 misses, 005 saves, then 006-008 miss out the prefix. The
	// failed download must not burn a sequence number.
	hits := map[string]bool{"OGN-001": true, "OGN-002": true, "OGN-003": true, "OGN-005": true}

	var probes, downloads int32
	s.client = &mockGalleryClient{
		probeAsset: func(probeURL string) (bool, error) {
			atomic.AddInt32(&probes, 1)
			for code := range hits {
				if strings.Contains(probeURL, "/"+code+"/") {
					return true, nil
				}
			}
			return false, nil
		},
		downloadImage: func(imageURL string) ([]byte, error) {
			atomic.AddInt32(&downloads, 1)
			if strings.Contains(imageURL, "/OGN-002/") {
				return nil, fmt.Errorf("connection reset")
			}
			return []byte("card " + imageURL), nil
		},
	}

	require.NoError(t, s.RunProbe(context.Background()))

	assert.Equal(t, int32(8), atomic.LoadInt32(&probes))
	assert.Equal(t, int32(4), atomic.LoadInt32(&downloads))
	assert.Equal(t, 3, s.tracker.TotalSaved)
	assert.Equal(t, 1, s.tracker.Failed)

	m, err := manifest.Load(cfg.Output.BaseDirectory)
	require.NoError(t, err)
	require.Len(t, m.Entries, 3)

	wantCodes := []string{"OGN-001", "OGN-003", "OGN-005"}
	wantFiles := []string{"001.jpg", "002.jpg", "003.jpg"}
	for i, entry := range m.Entries {
		assert.Equal(t, wantCodes[i], entry.CardCode)
		assert.Equal(t, wantFiles[i], entry.Filename)
		assert.Equal(t, i+1, entry.Sequence)
		assert.Equal(t, "OGN", entry.Set)

		_, err := os.Stat(filepath.Join(cfg.Output.BaseDirectory, "OGN", entry.Filename))
		assert.NoError(t, err)
	}

	// No fourth file got written
	_, err = os.Stat(filepath.Join(cfg.Output.BaseDirectory, "OGN", "004.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunProbeStopsAtCodeCeiling(t *testing.T) {
	cfg := testConfig(t)
	cfg.Fallback.Prefixes = []string{"OGN"}
	cfg.Fallback.MaxCode = 4

	s, err := New(cfg)
	require.NoError(t, err)

	var probes int32
	s.client = &mockGalleryClient{
		probeAsset: func(probeURL string) (bool, error) {
			atomic.AddInt32(&probes, 1)
			return true, nil
		},
		downloadImage: func(imageURL string) ([]byte, error) {
			return []byte("card"), nil
		},
	}

	require.NoError(t, s.RunProbe(context.Background()))

	// Codes 001 through 003 only, the ceiling is exclusive
	assert.Equal(t, int32(3), atomic.LoadInt32(&probes))
	assert.Equal(t, 3, s.tracker.TotalSaved)
}

func TestRunProbeHonorsStartIndex(t *testing.T) {
	cfg := testConfig(t)
	cfg.Fallback.Prefixes = []string{"OGN"}
	cfg.Fallback.StartIndex = 50

	s, err := New(cfg)
	require.NoError(t, err)

	var first atomic.Value
	s.client = &mockGalleryClient{
		probeAsset: func(probeURL string) (bool, error) {
			if first.Load() == nil {
				first.Store(probeURL)
			}
			hit := strings.Contains(probeURL, "/OGN-050/") || strings.Contains(probeURL, "/OGN-051/")
			return hit, nil
		},
		downloadImage: func(imageURL string) ([]byte, error) {
			return []byte("card"), nil
		},
	}

	require.NoError(t, s.RunProbe(context.Background()))

	// Scanning begins at the configured card code, filenames still
	// count from 001
	assert.Contains(t, first.Load().(string), "/OGN-050/")
	for _, name := range []string{"001.jpg", "002.jpg"} {
		_, err := os.Stat(filepath.Join(cfg.Output.BaseDirectory, "OGN", name))
		assert.NoError(t, err)
	}

	m, err := manifest.Load(cfg.Output.BaseDirectory)
	require.NoError(t, err)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, "OGN-050", m.Entries[0].CardCode)
	assert.Equal(t, "OGN-051", m.Entries[1].CardCode)
}

func TestRunProbeCancelledContext(t *testing.T) {
	cfg := testConfig(t)

	s, err := New(cfg)
	require.NoError(t, err)

	var probes int32
	s.client = &mockGalleryClient{
		probeAsset: func(probeURL string) (bool, error) {
			atomic.AddInt32(&probes, 1)
			return true, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.RunProbe(ctx))
	assert.Equal(t, int32(0), atomic.LoadInt32(&probes))
}

func BenchmarkProbePrefix(b *testing.B) {
	cfg := testConfig(b)
	cfg.Fallback.MaxCode = 100

	s, err := New(cfg)
	if err != nil {
		b.Fatal(err)
	}

	s.client = &mockGalleryClient{
		probeAsset: func(probeURL string) (bool, error) {
			return true, nil
		},
		downloadImage: func(imageURL string) ([]byte, error) {
			return []byte("benchmark card data"), nil
		},
	}

	s.storageManager, err = storage.NewManager(cfg.Output.BaseDirectory)
	if err != nil {
		b.Fatal(err)
	}
	s.manifest = manifest.New(cfg.Scraper.PageURL, manifest.ModeFallback)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.probePrefix(context.Background(), "OGN")
	}
}
