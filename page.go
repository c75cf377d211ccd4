package takaichirag

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Page represents one published statement collected from the site.
// It is created by the crawler from a single fetched document, is immutable
// once created, and is consumed by the snapshot store and later the indexer.
type Page struct {
	URL         string    `json:"url"`
	Category    Category  `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	PublishDate string    `json:"publishDate,omitempty"` // YYYY-MM-DD, empty when the page carries no date
	Content     string    `json:"content"`
	CharCount   int       `json:"charCount"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if !p.Category.Valid() {
		return Errorf(EINVALID, "unknown category %q", p.Category)
	}
	if p.Content == "" {
		return Errorf(EINVALID, "page content required")
	}
	return nil
}

// CountChars returns the number of non-whitespace runes in s. Word counts
// are meaningless for Japanese text, so content length is measured in
// characters instead.
func CountChars(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// PageMeta holds metadata extracted from a page's markup.
type PageMeta struct {
	Title       string
	Description string

	// PublishDate is the article's publication date in YYYY-MM-DD form,
	// or empty when the page carries none.
	PublishDate string
}

// Fetcher retrieves HTML from URLs.
// Implementations own request pacing, timeouts and retries.
type Fetcher interface {
	// Fetch issues a GET request and returns the response body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases client resources.
	Close() error
}

// LinkExtractor discovers same-host links in HTML.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns absolute same-host URLs,
	// deduplicated in document order. If pattern is non-nil, only URLs
	// matching it are returned.
	ExtractLinks(html string, baseURL string, pattern *regexp.Regexp) ([]string, error)
}

// MetaExtractor pulls title, description and publish date from page markup.
// A page without a date is not an error; PublishDate is simply empty.
type MetaExtractor interface {
	ExtractMeta(html string) (*PageMeta, error)
}

// NormalizeText collapses runs of spaces in extracted text while keeping
// line breaks, which carry sentence structure in the site's templates.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
