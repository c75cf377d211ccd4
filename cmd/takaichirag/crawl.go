package main

import (
	"fmt"
	"time"

	"github.com/jiangzhuo/takaichirag"
	"github.com/jiangzhuo/takaichirag/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	_, err := crawlAndSnapshot(deps)
	return err
}

// crawlAndSnapshot crawls every category, writes the snapshot and prints
// the run summary with its failure report. It returns the snapshot
// location.
func crawlAndSnapshot(deps *Dependencies) (string, error) {
	session := takaichirag.NewSession()

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "crawling %s...\n", event.Category)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skipped %s: %s\n", event.URL, event.Error)
		}
	}

	pages, result, err := deps.Crawler.CrawlAll(deps.Ctx, session, progress)
	if err != nil {
		return "", err
	}

	if len(pages) == 0 {
		return "", takaichirag.Errorf(takaichirag.EUNAVAILABLE, "crawl produced no pages")
	}

	location, err := deps.Snapshots.Write(deps.Ctx, pages, time.Now().UTC())
	if err != nil {
		return "", err
	}

	fmt.Fprintf(deps.Stdout, "\nCrawled %d pages (%d URLs visited, %d failed)\n",
		result.Pages, result.Visited, result.Failed)
	fmt.Fprintf(deps.Stdout, "Snapshot written to %s\n", location)

	if failures := session.Failures(); len(failures) > 0 {
		fmt.Fprintf(deps.Stdout, "\nFailures:\n")
		for _, f := range failures {
			fmt.Fprintf(deps.Stdout, "  [%s/%s] %s: %s\n", f.Category, f.Stage, f.URL, f.Err)
		}
	}

	return location, nil
}
