package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/jiangzhuo/takaichirag"
	"github.com/jiangzhuo/takaichirag/chi"
	"github.com/jiangzhuo/takaichirag/crawl"
	"github.com/jiangzhuo/takaichirag/fs"
	"github.com/jiangzhuo/takaichirag/gemini"
	"github.com/jiangzhuo/takaichirag/goquery"
	"github.com/jiangzhuo/takaichirag/htmltomarkdown"
	thttp "github.com/jiangzhuo/takaichirag/http"
	"github.com/jiangzhuo/takaichirag/index"
	tslog "github.com/jiangzhuo/takaichirag/slog"
	"github.com/jiangzhuo/takaichirag/sqlite"
	"github.com/jiangzhuo/takaichirag/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Data directory holding crawl snapshots. Set before calling Run().
	DataDir string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	// .env is optional and may set the environment the defaults read.
	_ = godotenv.Load()

	return &Main{
		DBPath:  defaultDBPath(),
		DataDir: defaultDataDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  os.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("takaichirag"),
		kong.Description("Crawl, index and ask questions about the statements published on sanae.gr.jp."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'takaichirag --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Global flags may precede the command name, so dispatch on what kong
	// parsed rather than on args[0].
	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	deps.Snapshots = fs.NewSnapshotStore(m.DataDir)

	// Every command except crawl works against the chunk database.
	if cmd != "crawl" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set TAKAICHIRAG_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()
		deps.Chunks = sqlite.NewChunkService(m.DB)
	}

	// Crawling commands share the fetch and parse stack.
	if cmd == "crawl" || cmd == "run" {
		baseURL, delay := cli.Crawl.BaseURL, cli.Crawl.Delay
		if cmd == "run" {
			baseURL, delay = cli.Run.BaseURL, cli.Run.Delay
		}

		fetcher := tslog.NewLoggingFetcher(
			thttp.NewFetcher(thttp.WithDelay(time.Duration(delay)*time.Second)), logger)
		defer fetcher.Close()

		deps.Crawler = &crawl.Crawler{
			BaseURL:   baseURL,
			Fetcher:   fetcher,
			Links:     goquery.NewLinks(),
			Meta:      goquery.NewMeta(),
			Extractor: trafilatura.NewExtractor(),
			Converter: htmltomarkdown.NewConverter(),
			Logger:    logger,
		}
	}

	// Commands that talk to Gemini need an API key before any network
	// call is made.
	if cmd == "run" || cmd == "index" || cmd == "ask" || cmd == "chat" || cmd == "serve" {
		client, err := newGeminiClient(ctx, stderr)
		if err != nil {
			return err
		}

		embedder := gemini.NewEmbedder(client)
		search := sqlite.NewSearchService(m.DB, embedder)

		deps.Indexer = &index.Indexer{
			Snapshots: deps.Snapshots,
			Chunks:    deps.Chunks,
			Embedder:  embedder,
			Logger:    logger,
		}
		deps.Asker = gemini.NewAsker(client, search)
		deps.WebServer = chi.NewServer(deps.Asker, logger)
	}

	return kongCtx.Run(deps)
}

// newGeminiClient builds the Gemini API client from the environment.
func newGeminiClient(ctx context.Context, stderr io.Writer) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, takaichirag.Errorf(takaichirag.ECONFIG, "GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

func defaultDBPath() string {
	if path := os.Getenv("TAKAICHIRAG_DB"); path != "" {
		return path
	}
	return filepath.Join(defaultHomeDir(), "takaichirag.db")
}

func defaultDataDir() string {
	if path := os.Getenv("TAKAICHIRAG_DATA"); path != "" {
		return path
	}
	return filepath.Join(defaultHomeDir(), "snapshots")
}

func defaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(home, ".takaichirag")
	_ = os.MkdirAll(dir, 0755)
	return dir
}
