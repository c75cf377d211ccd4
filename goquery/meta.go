package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jiangzhuo/takaichirag"
)

// Ensure Meta implements takaichirag.MetaExtractor at compile time.
var _ takaichirag.MetaExtractor = (*Meta)(nil)

// Meta extracts title, description and publish date from the site's page
// templates.
type Meta struct{}

// NewMeta creates a new Meta extractor.
func NewMeta() *Meta {
	return &Meta{}
}

// japaneseDate matches dates written as 2014年06月05日.
var japaneseDate = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)

// isoDatePrefix matches the date part of an ISO datetime attribute.
var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// dateSelectors locate the article time tag. The first is the site's
// article header template; the rest are fallbacks seen on older pages.
var dateSelectors = []string{
	"#contents div.container div article div.articleTit p time",
	"article time",
	".articleTit time",
	"time[datetime]",
	".date time",
}

// ExtractMeta pulls page metadata from raw HTML. A missing date or
// description degrades to an empty field; only unparseable HTML is an
// error.
func (m *Meta) ExtractMeta(html string) (*takaichirag.PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, takaichirag.Errorf(takaichirag.EINVALID, "failed to parse HTML: %v", err)
	}

	return &takaichirag.PageMeta{
		Title:       extractTitle(doc),
		Description: extractDescription(doc),
		PublishDate: extractPublishDate(doc),
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return takaichirag.NormalizeText(title)
	}
	return takaichirag.NormalizeText(strings.TrimSpace(doc.Find("h1").First().Text()))
}

func extractDescription(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && content != "" {
		return takaichirag.NormalizeText(content)
	}
	if content, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok && content != "" {
		return takaichirag.NormalizeText(content)
	}
	return ""
}

// extractPublishDate returns the article date in YYYY-MM-DD form, trying
// the datetime attribute first, then the Japanese date in the tag's text.
func extractPublishDate(doc *goquery.Document) string {
	for _, selector := range dateSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if dt, ok := sel.Attr("datetime"); ok {
			if date := normalizeDateAttr(dt); date != "" {
				return date
			}
		}
		if date := parseJapaneseDate(sel.Text()); date != "" {
			return date
		}
	}
	return ""
}

// normalizeDateAttr reduces a datetime attribute to YYYY-MM-DD. Full ISO
// timestamps keep their date part; anything else is dropped so the tag
// text can be tried instead.
func normalizeDateAttr(dt string) string {
	return isoDatePrefix.FindString(strings.TrimSpace(dt))
}

// parseJapaneseDate converts 2014年06月05日 to 2014-06-05.
func parseJapaneseDate(text string) string {
	m := japaneseDate.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	year, month, day := m[1], m[2], m[3]
	if len(month) == 1 {
		month = "0" + month
	}
	if len(day) == 1 {
		day = "0" + day
	}
	return year + "-" + month + "-" + day
}
