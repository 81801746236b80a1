package riftbound

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// GalleryURL is the public card gallery page
	GalleryURL = "https://riftbound.leagueoflegends.com/en-us/tcg-cards/"

	// CDNBaseURL is the base URL for card assets on the Riot CDN
	CDNBaseURL = "https://cdn.rgpub.io/public/live/map/riftbound/latest"

	// DefaultUserAgent is the browser identity sent with every request
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// MiscCategory is the bucket for images whose URL carries no set prefix
	MiscCategory = "misc"

	// MaxSetPrefixLength is the maximum length of a set prefix
	MaxSetPrefixLength = 10
)

// setPrefixPattern matches the set segment of a CDN card path,
// e.g. /riftbound/latest/OGN/cards/OGN-042/full-desktop.jpg
var setPrefixPattern = regexp.MustCompile(`/riftbound/latest/([A-Z]+)/cards/`)

// DetectSetPrefix extracts the uppercase set prefix from a card image URL.
// Only the URL path is inspected, so query strings and fragments cannot
// fake a match. Returns "" when the URL does not parse or carries no
// recognizable prefix.
func DetectSetPrefix(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	matches := setPrefixPattern.FindStringSubmatch(u.Path)
	if matches == nil {
		return ""
	}

	return matches[1]
}

// CardCode formats a card identifier such as "OGN-042"
func CardCode(prefix string, index int) string {
	return fmt.Sprintf("%s-%03d", prefix, index)
}

// ProbeURL constructs the CDN URL for a specific card asset under the
// given base URL. An empty base falls back to the Riot CDN.
func ProbeURL(base, prefix string, index int, asset string) string {
	if base == "" {
		base = CDNBaseURL
	}
	return fmt.Sprintf("%s/%s/cards/%s/%s", strings.TrimRight(base, "/"), prefix, CardCode(prefix, index), strings.TrimLeft(asset, "/"))
}

// IsValidSetPrefix checks if a set prefix looks like a real set code
func IsValidSetPrefix(prefix string) bool {
	if prefix == "" || len(prefix) > MaxSetPrefixLength {
		return false
	}

	// Set prefixes are uppercase ASCII letters only
	for _, char := range prefix {
		if char < 'A' || char > 'Z' {
			return false
		}
	}

	return true
}

// NormalizeSetPrefix uppercases a prefix and strips surrounding noise
// so user input like " ogn " or "ogn/" becomes "OGN"
func NormalizeSetPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	prefix = strings.Trim(prefix, "/")
	return strings.ToUpper(prefix)
}
