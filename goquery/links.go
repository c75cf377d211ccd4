// Package goquery provides CSS-selector based link and metadata extraction
// for the source site's HTML templates.
package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jiangzhuo/takaichirag"
)

// mediaExtensions are link targets that are never HTML pages.
var mediaExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".pdf", ".mp4", ".mp3"}

// Ensure Links implements takaichirag.LinkExtractor at compile time.
var _ takaichirag.LinkExtractor = (*Links)(nil)

// Links extracts same-host links from HTML documents.
type Links struct{}

// NewLinks creates a new Links extractor.
func NewLinks() *Links {
	return &Links{}
}

// ExtractLinks parses HTML and returns absolute same-host URLs in document
// order, deduplicated, with fragments stripped. Anchors, javascript: and
// mailto: links, and media files are skipped. If pattern is non-nil, only
// URLs matching it are returned.
func (l *Links) ExtractLinks(html string, baseURL string, pattern *regexp.Regexp) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, takaichirag.Errorf(takaichirag.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, takaichirag.Errorf(takaichirag.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		if strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || !isSameHost(base, resolved) || isMediaLink(resolved) {
			return
		}
		if pattern != nil && !pattern.MatchString(resolved) {
			return
		}

		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links, nil
}

// isNonHTTPLink reports whether href uses a scheme that can't be fetched.
func isNonHTTPLink(href string) bool {
	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// isMediaLink reports whether the URL path ends in a known media extension.
func isMediaLink(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range mediaExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// resolveURL resolves href against base and strips the fragment.
// Returns "" when href does not parse.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// isSameHost reports whether rawURL shares base's host exactly.
func isSameHost(base *url.URL, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}
