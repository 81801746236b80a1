// Package extract pulls card image URLs out of gallery page HTML.
//
// Candidates are collected from img and source elements, inline style
// attributes, and a raw scan for CDN references that only appear inside
// lazy-load scripts. The merged list is deduplicated and filtered down
// to real image URLs.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"riftscraper/pkg/errors"
)

// imageExtensions are the file extensions accepted as card images
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif"}

// styleURLPattern matches url(...) references inside inline styles
var styleURLPattern = regexp.MustCompile(`url\((?:"|')?(.*?)(?:"|')?\)`)

// cdnImagePattern matches card image URLs on the asset CDN that are
// referenced from script payloads rather than markup
var cdnImagePattern = regexp.MustCompile(`(?i)https?://[\w.-]*/public/[\w/-]*/riftbound/[\w/-]*/[\w-]*/cards/[\w-]*/(?:full|thumbnail)[^\s'"]*\.(?:jpg|jpeg|png|webp)`)

// ImageURLs extracts every card image URL from a gallery page.
// Relative references are resolved against baseURL, duplicates that
// differ only by query string or fragment collapse to their first
// occurrence, and anything without an image extension is dropped.
func ImageURLs(html []byte, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, errors.New(errors.ErrorTypeParsing, fmt.Sprintf("failed to parse page HTML: %v", err), 0)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	candidates := FromDocument(doc, base)
	candidates = append(candidates, FromRawHTML(string(html))...)

	return mergeAndFilter(candidates), nil
}

// FromDocument collects image URL candidates from the parsed document,
// resolved against base
func FromDocument(doc *goquery.Document, base *url.URL) []string {
	var urls []string

	// <img> elements: src, data-src, srcset, data-srcset
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		for _, attr := range []string{"src", "data-src"} {
			if val, ok := img.Attr(attr); ok && val != "" {
				if resolved := resolveRef(base, val); resolved != "" {
					urls = append(urls, resolved)
				}
			}
		}
		for _, attr := range []string{"srcset", "data-srcset"} {
			if val, ok := img.Attr(attr); ok && val != "" {
				for _, u := range ParseSrcset(val) {
					if resolved := resolveRef(base, u); resolved != "" {
						urls = append(urls, resolved)
					}
				}
			}
		}
	})

	// <source> elements within <picture>
	doc.Find("source").Each(func(_ int, source *goquery.Selection) {
		if val, ok := source.Attr("srcset"); ok && val != "" {
			for _, u := range ParseSrcset(val) {
				if resolved := resolveRef(base, u); resolved != "" {
					urls = append(urls, resolved)
				}
			}
		}
	})

	// Inline styles with background-image: url(...)
	doc.Find("[style]").Each(func(_ int, el *goquery.Selection) {
		style, _ := el.Attr("style")
		for _, match := range styleURLPattern.FindAllStringSubmatch(style, -1) {
			u := match[1]
			if u == "" || strings.HasPrefix(u, "data:") {
				continue
			}
			if resolved := resolveRef(base, u); resolved != "" {
				urls = append(urls, resolved)
			}
		}
	})

	return urls
}

// FromRawHTML scans the raw page text for CDN card image URLs that are
// referenced by lazy-load scripts instead of markup
func FromRawHTML(html string) []string {
	return cdnImagePattern.FindAllString(html, -1)
}

// ParseSrcset splits a srcset value into bare URLs.
// Accepts entries like: url 1x, url 2x OR url 320w, url 640w
func ParseSrcset(srcset string) []string {
	var urls []string
	for _, part := range strings.Split(srcset, ",") {
		fields := strings.Fields(part)
		if len(fields) > 0 {
			urls = append(urls, fields[0])
		}
	}
	return urls
}

// ExtensionFor returns the image file extension of a URL path,
// defaulting to ".jpg" when none of the known extensions match
func ExtensionFor(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ".jpg"
	}

	path := strings.ToLower(parsed.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return ext
		}
	}
	return ".jpg"
}

// HasImageExtension reports whether a URL path ends in a known image
// extension. Query strings and fragments are ignored.
func HasImageExtension(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	path := strings.ToLower(parsed.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// resolveRef resolves a candidate reference against the page base URL.
// Protocol-relative references are pinned to https before resolution.
func resolveRef(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	if strings.HasPrefix(ref, "//") {
		ref = "https:" + ref
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		return parsed.String()
	}
	return base.ResolveReference(parsed).String()
}

// mergeAndFilter deduplicates candidates and keeps only image URLs.
// The dedupe key strips query strings and fragments; the first
// occurrence wins and keeps its query string.
func mergeAndFilter(candidates []string) []string {
	seen := make(map[string]bool)
	var merged []string

	for _, u := range candidates {
		if u == "" {
			continue
		}
		// Handle protocol-relative URLs
		if strings.HasPrefix(u, "//") {
			u = "https:" + u
		}
		key := normalizeKey(u)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, u)
	}

	var result []string
	for _, u := range merged {
		if HasImageExtension(u) {
			result = append(result, u)
		}
	}
	return result
}

// normalizeKey strips the query string and fragment so URL variants of
// the same asset collapse together
func normalizeKey(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}
