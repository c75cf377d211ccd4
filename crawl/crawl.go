// Package crawl orchestrates collection of the site's category pages.
// It coordinates fetching, link discovery, content extraction and
// conversion, and produces the page records a crawl run snapshots.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/jiangzhuo/takaichirag"
)

// DefaultBaseURL is the root of the site the crawler targets.
const DefaultBaseURL = "https://www.sanae.gr.jp/"

// DefaultMinContentChars is the minimum number of non-whitespace
// characters a page must carry to be kept. Shorter pages are template
// shells or redirects and are recorded as parse failures.
const DefaultMinContentChars = 100

// Frontier sizing. The site publishes a few thousand pages at most.
const (
	frontierExpectedURLs      = 2000
	frontierFalsePositiveRate = 0.01
)

// Crawler walks the site's fixed categories and produces page records.
type Crawler struct {
	BaseURL         string
	Fetcher         takaichirag.Fetcher
	Links           takaichirag.LinkExtractor
	Meta            takaichirag.MetaExtractor
	Extractor       takaichirag.Extractor
	Converter       takaichirag.Converter
	MinContentChars int
	Logger          *slog.Logger
}

// Result summarizes a crawl run.
type Result struct {
	Pages   int
	Failed  int
	Visited int
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type     ProgressType
	Category takaichirag.Category
	URL      string
	Error    error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// CrawlAll crawls every category in order and returns the collected pages.
// Per-page failures are recorded in the session's failure report and do
// not abort the run; only context cancellation stops the crawl early.
func (c *Crawler) CrawlAll(ctx context.Context, session *takaichirag.Session, progress ProgressFunc) ([]*takaichirag.Page, *Result, error) {
	var pages []*takaichirag.Page

	for _, category := range takaichirag.Categories() {
		got, err := c.CrawlCategory(ctx, category, session, progress)
		if err != nil {
			return pages, c.result(session, pages), err
		}
		pages = append(pages, got...)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished})
	}

	return pages, c.result(session, pages), nil
}

// CrawlCategory crawls a single category. Flat categories yield at most
// one page from the category's start page. Two-level categories walk list
// pages first, then fetch every discovered detail article.
func (c *Crawler) CrawlCategory(ctx context.Context, category takaichirag.Category, session *takaichirag.Session, progress ProgressFunc) ([]*takaichirag.Page, error) {
	if !category.Valid() {
		return nil, takaichirag.Errorf(takaichirag.EINVALID, "unknown category %q", category)
	}

	spec := category.Spec()
	startURL, err := c.resolve(spec.StartPath)
	if err != nil {
		return nil, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Category: category, URL: startURL})
	}
	c.log(ctx, "crawling category", "category", string(category), "start", startURL)

	if !spec.TwoLevel {
		page := c.fetchPage(ctx, startURL, category, session, progress)
		if page == nil {
			return nil, ctx.Err()
		}
		return []*takaichirag.Page{page}, nil
	}

	return c.crawlTwoLevel(ctx, category, startURL, session, progress)
}

// crawlTwoLevel drains a frontier seeded with the category's start page.
// List pages contribute links only; detail pages become records.
func (c *Crawler) crawlTwoLevel(ctx context.Context, category takaichirag.Category, startURL string, session *takaichirag.Session, progress ProgressFunc) ([]*takaichirag.Page, error) {
	spec := category.Spec()

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(takaichirag.QueuedURL{URL: startURL, Priority: takaichirag.PriorityList})

	var pages []*takaichirag.Page

	for {
		if ctx.Err() != nil {
			return pages, ctx.Err()
		}

		link, ok := frontier.Pop()
		if !ok {
			break
		}

		if link.Priority != takaichirag.PriorityList {
			page := c.fetchPage(ctx, link.URL, category, session, progress)
			if page == nil {
				if ctx.Err() != nil {
					return pages, ctx.Err()
				}
				continue
			}
			pages = append(pages, page)
			continue
		}

		if !session.Visit(link.URL) {
			continue
		}

		html, err := c.Fetcher.Fetch(ctx, link.URL)
		if err != nil {
			if ctx.Err() != nil {
				return pages, ctx.Err()
			}
			c.fail(ctx, session, progress, link.URL, category, takaichirag.StageFetch, err)
			continue
		}

		listLinks, err := c.Links.ExtractLinks(html, link.URL, spec.ListPattern)
		if err != nil {
			c.fail(ctx, session, progress, link.URL, category, takaichirag.StageParse, err)
			continue
		}
		for _, u := range listLinks {
			frontier.Push(takaichirag.QueuedURL{URL: u, Priority: takaichirag.PriorityList})
		}

		detailLinks, err := c.Links.ExtractLinks(html, link.URL, spec.DetailPattern)
		if err != nil {
			c.fail(ctx, session, progress, link.URL, category, takaichirag.StageParse, err)
			continue
		}
		for _, u := range detailLinks {
			frontier.Push(takaichirag.QueuedURL{URL: u, Priority: takaichirag.PriorityDetail})
		}

		c.log(ctx, "list page processed", "url", link.URL,
			"lists", len(listLinks), "details", len(detailLinks))
	}

	return pages, nil
}

// fetchPage fetches and parses one article URL. Failures are recorded in
// the session and reported via progress; the return is nil for any skip.
func (c *Crawler) fetchPage(ctx context.Context, pageURL string, category takaichirag.Category, session *takaichirag.Session, progress ProgressFunc) *takaichirag.Page {
	if !session.Visit(pageURL) {
		return nil
	}

	html, err := c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		c.fail(ctx, session, progress, pageURL, category, takaichirag.StageFetch, err)
		return nil
	}

	page, err := c.buildPage(pageURL, category, html)
	if err != nil {
		c.fail(ctx, session, progress, pageURL, category, takaichirag.StageParse, err)
		return nil
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressCompleted, Category: category, URL: pageURL})
	}
	c.log(ctx, "page collected", "url", pageURL, "chars", page.CharCount)

	return page
}

// buildPage turns fetched HTML into a page record.
func (c *Crawler) buildPage(pageURL string, category takaichirag.Category, html string) (*takaichirag.Page, error) {
	meta, err := c.Meta.ExtractMeta(html)
	if err != nil {
		return nil, err
	}

	extracted, err := c.Extractor.Extract(html)
	if err != nil {
		return nil, err
	}
	if extracted.ContentHTML == "" {
		return nil, takaichirag.Errorf(takaichirag.EINVALID, "no main content in %s", pageURL)
	}

	markdown, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, err
	}

	content := takaichirag.NormalizeText(markdown)
	charCount := takaichirag.CountChars(content)

	minChars := c.MinContentChars
	if minChars <= 0 {
		minChars = DefaultMinContentChars
	}
	if charCount < minChars {
		return nil, takaichirag.Errorf(takaichirag.EINVALID,
			"content too short: %d chars in %s", charCount, pageURL)
	}

	title := meta.Title
	if title == "" {
		title = extracted.Title
	}

	page := &takaichirag.Page{
		URL:         pageURL,
		Category:    category,
		Title:       title,
		Description: meta.Description,
		PublishDate: meta.PublishDate,
		Content:     content,
		CharCount:   charCount,
		FetchedAt:   time.Now().UTC(),
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return page, nil
}

// resolve joins a category path onto the crawler's base URL.
func (c *Crawler) resolve(path string) (string, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", takaichirag.Errorf(takaichirag.ECONFIG, "invalid base URL %q: %s", base, err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", takaichirag.Errorf(takaichirag.EINVALID, "invalid path %q: %s", path, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

func (c *Crawler) fail(ctx context.Context, session *takaichirag.Session, progress ProgressFunc, pageURL string, category takaichirag.Category, stage takaichirag.FailureStage, err error) {
	session.Fail(pageURL, category, stage, err)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressFailed, Category: category, URL: pageURL, Error: err})
	}
	c.log(ctx, "page skipped", "url", pageURL, "stage", string(stage), "error", err)
}

func (c *Crawler) log(ctx context.Context, msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.InfoContext(ctx, msg, args...)
	}
}

func (c *Crawler) result(session *takaichirag.Session, pages []*takaichirag.Page) *Result {
	return &Result{
		Pages:   len(pages),
		Failed:  len(session.Failures()),
		Visited: session.VisitedCount(),
	}
}
