package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	galleryURL = "https://riftbound.leagueoflegends.com/en-us/tcg-cards/"
	cdnBase    = "https://cdn.rgpub.io/public/live/map/riftbound/latest"
	userAgent  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

var (
	imagePattern = regexp.MustCompile(`https?://[^\s"'<>]+\.(?:png|jpe?g|webp|gif)`)
	setPattern   = regexp.MustCompile(`/riftbound/latest/([A-Z]+)/cards/`)
)

func main() {
	outputDir := "images"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	fmt.Printf("Saving card images to: %s\n", outputDir)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		return
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	fmt.Printf("Fetching gallery page: %s\n", galleryURL)
	page, err := fetchPage(client, galleryURL)
	if err != nil {
		fmt.Printf("Error fetching page: %v\n", err)
		return
	}

	urls := extractImageURLs(page)
	fmt.Printf("Found %d image URLs on the page\n", len(urls))

	if len(urls) == 0 {
		fmt.Println("Page carries no image URLs, probing the CDN directly...")
		saved := probeCards(client, outputDir, []string{"OGS", "OGN"})
		fmt.Printf("Done. Saved %d card images to %s\n", saved, outputDir)
		return
	}

	saved := 0
	counters := map[string]int{}
	for i, url := range urls {
		fmt.Printf("Downloading image %d/%d: %s\n", i+1, len(urls), url)

		set := detectSet(url)
		dest := filepath.Join(outputDir, set, fmt.Sprintf("%03d%s", counters[set]+1, extensionOf(url)))
		if err := downloadImage(client, url, dest); err != nil {
			fmt.Printf("Error downloading %s: %v\n", url, err)
			continue
		}

		// Numbering only moves forward for images that actually saved
		counters[set]++
		saved++
	}

	fmt.Printf("Done. Saved %d card images to %s\n", saved, outputDir)
}

func fetchPage(client *http.Client, url string) (string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	fmt.Printf("Response status code: %d\n", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %v", err)
	}

	return string(body), nil
}

func extractImageURLs(page string) []string {
	matches := imagePattern.FindAllString(page, -1)

	seen := map[string]bool{}
	var urls []string
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		urls = append(urls, m)
	}

	sort.Strings(urls)
	return urls
}

func detectSet(url string) string {
	if m := setPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return "misc"
}

func extensionOf(url string) string {
	trimmed := url
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}

	ext := strings.ToLower(filepath.Ext(trimmed))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return ext
	}
	return ".jpg"
}

func probeCards(client *http.Client, outputDir string, prefixes []string) int {
	saved := 0

	for _, prefix := range prefixes {
		fmt.Printf("Scanning prefix %s...\n", prefix)

		setDir := filepath.Join(outputDir, prefix)
		if err := os.MkdirAll(setDir, 0o755); err != nil {
			fmt.Printf("Error creating directory %s: %v\n", setDir, err)
			continue
		}

		misses := 0
		index := 0
		for code := 1; code < 2000; code++ {
			cardCode := fmt.Sprintf("%s-%03d", prefix, code)
			probeURL := fmt.Sprintf("%s/%s/cards/%s/full-desktop.jpg", cdnBase, prefix, cardCode)

			if !assetExists(client, probeURL) {
				misses++
				fmt.Printf("  %s missing (%d/3)\n", cardCode, misses)
				if misses >= 3 {
					break
				}
				continue
			}
			misses = 0

			dest := filepath.Join(setDir, fmt.Sprintf("%03d.jpg", index+1))
			if err := downloadImage(client, probeURL, dest); err != nil {
				fmt.Printf("  error downloading %s: %v\n", cardCode, err)
				continue
			}

			index++
			saved++
			fmt.Printf("  saved %s -> %s\n", cardCode, dest)
		}
	}

	return saved
}

func assetExists(client *http.Client, url string) bool {
	req, err := http.NewRequest("HEAD", url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func downloadImage(client *http.Client, url, dest string) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/webp,*/*")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error downloading image: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("error creating directory: %v", err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("error creating file: %v", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("error saving image: %v", err)
	}

	return nil
}
