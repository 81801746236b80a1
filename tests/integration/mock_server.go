package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// cdnRoot mirrors the path layout of the Riot CDN so set prefix
// detection sees the shape it expects
const cdnRoot = "/public/live/map/riftbound/latest/"

// cardImageSize is the payload size of every mock card image
const cardImageSize = 1024

// MockCardServer simulates the card gallery page and the asset CDN
// behind it, with configurable errors and delays
type MockCardServer struct {
	server *httptest.Server

	mu             sync.RWMutex
	cards          map[string]map[int]bool // set prefix -> card numbers on the CDN
	galleryRefs    []string                // CDN paths referenced by the gallery page
	extraMarkup    string                  // raw HTML appended to the gallery body
	emptyGallery   bool
	errorResponses map[string]int // request path -> forced status code
	delays         map[string]time.Duration

	requestCount     int32
	pageRequests     int32
	probeRequests    int32
	downloadRequests int32
}

// NewMockCardServer creates a mock gallery and CDN server
func NewMockCardServer() *MockCardServer {
	m := &MockCardServer{
		cards:          make(map[string]map[int]bool),
		errorResponses: make(map[string]int),
		delays:         make(map[string]time.Duration),
	}

	mux := http.NewServeMux()

	// Gallery page
	mux.HandleFunc("/en-us/tcg-cards/", m.handleGallery)

	// CDN card assets
	mux.HandleFunc(cdnRoot, m.handleCard)

	// Non-card site assets referenced by the gallery page
	mux.HandleFunc("/static/", m.handleStatic)

	m.server = httptest.NewServer(mux)
	return m
}

// AddSet registers cards 1..count for a set on the CDN and lists them
// on the gallery page
func (m *MockCardServer) AddSet(prefix string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for n := 1; n <= count; n++ {
		m.addCardLocked(prefix, n)
		m.galleryRefs = append(m.galleryRefs, cardPath(prefix, n))
	}
}

// AddCDNCard registers a card on the CDN without listing it on the
// gallery page, so only a probe can find it
func (m *MockCardServer) AddCDNCard(prefix string, number int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addCardLocked(prefix, number)
}

func (m *MockCardServer) addCardLocked(prefix string, number int) {
	if m.cards[prefix] == nil {
		m.cards[prefix] = make(map[int]bool)
	}
	m.cards[prefix][number] = true
}

// SetEmptyGallery makes the gallery page render without card images,
// the way a client side rendered page arrives over plain HTTP
func (m *MockCardServer) SetEmptyGallery(empty bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emptyGallery = empty
}

// AddGalleryMarkup appends raw HTML to the gallery page body
func (m *MockCardServer) AddGalleryMarkup(html string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extraMarkup += html
}

// handleGallery renders the gallery page from the registered cards
func (m *MockCardServer) handleGallery(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	atomic.AddInt32(&m.pageRequests, 1)

	if delay := m.getDelay("/en-us/tcg-cards/"); delay > 0 {
		time.Sleep(delay)
	}
	if code := m.getErrorResponse("/en-us/tcg-cards/"); code > 0 {
		w.WriteHeader(code)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html><head><title>Riftbound Cards</title></head><body>\n")
	if !m.emptyGallery {
		page.WriteString(fmt.Sprintf("<img src=%q alt=\"banner\">\n", m.server.URL+"/static/hero-banner.png"))
		for _, ref := range m.galleryRefs {
			page.WriteString(fmt.Sprintf("<img class=\"card\" src=%q loading=\"lazy\">\n", m.server.URL+ref))
		}
	}
	page.WriteString(m.extraMarkup)
	page.WriteString("</body></html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page.String()))
}

// handleCard serves CDN card assets and answers probes
func (m *MockCardServer) handleCard(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	if r.Method == http.MethodHead {
		atomic.AddInt32(&m.probeRequests, 1)
	} else {
		atomic.AddInt32(&m.downloadRequests, 1)
	}

	if delay := m.getDelay(r.URL.Path); delay > 0 {
		time.Sleep(delay)
	}
	if code := m.getErrorResponse(r.URL.Path); code > 0 {
		w.WriteHeader(code)
		return
	}

	prefix, number, ok := parseCardPath(r.URL.Path)
	if !ok || !m.hasCard(prefix, number) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	payload := cardImage(fmt.Sprintf("%s-%03d", prefix, number))
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	if r.Method == http.MethodHead {
		return
	}
	w.Write(payload)
}

// handleStatic serves the non-card assets the gallery page references
func (m *MockCardServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	atomic.AddInt32(&m.downloadRequests, 1)

	if code := m.getErrorResponse(r.URL.Path); code > 0 {
		w.WriteHeader(code)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(cardImage(strings.TrimPrefix(r.URL.Path, "/static/")))
}

// cardPath builds the CDN path for a card, e.g.
// /public/live/map/riftbound/latest/OGN/cards/OGN-001/full-desktop.jpg
func cardPath(prefix string, number int) string {
	return fmt.Sprintf("%s%s/cards/%s-%03d/full-desktop.jpg", cdnRoot, prefix, prefix, number)
}

// parseCardPath extracts the set prefix and card number from a CDN path
func parseCardPath(path string) (string, int, bool) {
	rest := strings.TrimPrefix(path, cdnRoot)
	parts := strings.Split(rest, "/")
	if len(parts) != 4 || parts[1] != "cards" {
		return "", 0, false
	}

	prefix := parts[0]
	numStr := strings.TrimPrefix(parts[2], prefix+"-")
	if numStr == parts[2] {
		return "", 0, false
	}

	number, err := strconv.Atoi(numStr)
	if err != nil {
		return "", 0, false
	}
	return prefix, number, true
}

// cardImage builds a deterministic fake image payload with the card
// code at the front, so tests can tell which card a file came from
func cardImage(code string) []byte {
	data := make([]byte, cardImageSize)
	copy(data, code)
	for i := len(code); i < len(data); i++ {
		data[i] = byte(i % 256)
	}
	return data
}

func (m *MockCardServer) hasCard(prefix string, number int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cards[prefix][number]
}

// SetErrorResponse forces a request path to return a specific status code
func (m *MockCardServer) SetErrorResponse(path string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses[path] = code
}

// ClearErrorResponse removes the forced status code for a path
func (m *MockCardServer) ClearErrorResponse(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.errorResponses, path)
}

// SetDelay configures a response delay for a request path
func (m *MockCardServer) SetDelay(path string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[path] = delay
}

func (m *MockCardServer) getErrorResponse(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.errorResponses[path]
}

func (m *MockCardServer) getDelay(path string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.delays[path]
}

// URL returns the base URL of the mock server
func (m *MockCardServer) URL() string {
	return m.server.URL
}

// PageURL returns the gallery page URL on the mock server
func (m *MockCardServer) PageURL() string {
	return m.server.URL + "/en-us/tcg-cards/"
}

// CDNBaseURL returns the CDN base URL on the mock server, in the form
// the prober expects
func (m *MockCardServer) CDNBaseURL() string {
	return m.server.URL + strings.TrimSuffix(cdnRoot, "/")
}

// CardURL returns the full CDN URL for a card on the mock server
func (m *MockCardServer) CardURL(prefix string, number int) string {
	return m.server.URL + cardPath(prefix, number)
}

// GetRequestCount returns the total number of requests served
func (m *MockCardServer) GetRequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// GetPageRequests returns the number of gallery page fetches
func (m *MockCardServer) GetPageRequests() int {
	return int(atomic.LoadInt32(&m.pageRequests))
}

// GetProbeRequests returns the number of HEAD probes answered
func (m *MockCardServer) GetProbeRequests() int {
	return int(atomic.LoadInt32(&m.probeRequests))
}

// GetDownloadRequests returns the number of asset downloads served
func (m *MockCardServer) GetDownloadRequests() int {
	return int(atomic.LoadInt32(&m.downloadRequests))
}

// ResetCounters resets all request counters
func (m *MockCardServer) ResetCounters() {
	atomic.StoreInt32(&m.requestCount, 0)
	atomic.StoreInt32(&m.pageRequests, 0)
	atomic.StoreInt32(&m.probeRequests, 0)
	atomic.StoreInt32(&m.downloadRequests, 0)
}

// Close shuts down the mock server
func (m *MockCardServer) Close() {
	m.server.Close()
}
