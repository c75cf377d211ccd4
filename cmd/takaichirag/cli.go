package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/jiangzhuo/takaichirag"
	"github.com/jiangzhuo/takaichirag/chi"
	"github.com/jiangzhuo/takaichirag/crawl"
	"github.com/jiangzhuo/takaichirag/fs"
	"github.com/jiangzhuo/takaichirag/index"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Snapshots *fs.SnapshotStore
	Chunks    takaichirag.ChunkService
	Crawler   *crawl.Crawler
	Indexer   *index.Indexer
	Asker     takaichirag.Asker
	WebServer *chi.Server
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Run   RunCmd   `cmd:"" help:"Crawl the site, snapshot the results and index them"`
	Crawl CrawlCmd `cmd:"" help:"Crawl the site and write a snapshot"`
	Index IndexCmd `cmd:"" help:"Index a snapshot into the search database"`
	Ask   AskCmd   `cmd:"" help:"Ask a single question about the indexed statements"`
	Chat  ChatCmd  `cmd:"" help:"Interactive question and answer session"`
	Serve ServeCmd `cmd:"" help:"Serve the web chat interface"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	BaseURL string `default:"https://www.sanae.gr.jp/" help:"Site root to crawl"`
	Delay   int    `default:"1" help:"Seconds between requests"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	BaseURL string `default:"https://www.sanae.gr.jp/" help:"Site root to crawl"`
	Delay   int    `default:"1" help:"Seconds between requests"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Snapshot string `arg:"" optional:"" help:"Snapshot location to index (defaults to the latest)"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask"`
	Chunks   int    `default:"5" help:"Number of retrieved chunks to ground the answer on"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct {
	Chunks int `default:"5" help:"Number of retrieved chunks to ground each answer on"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8000" help:"Listen address"`
}
