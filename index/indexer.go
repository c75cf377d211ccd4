// Package index turns snapshotted pages into embedded, searchable chunks.
package index

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/jiangzhuo/takaichirag"
)

// DefaultMinContentChars mirrors the crawler's floor. Snapshots written
// by older runs may still contain shorter records; they are skipped here.
const DefaultMinContentChars = 100

// Indexer reads a snapshot and stores overlapping content chunks with
// their embeddings. Indexing is idempotent across runs: page content
// already present in the store, identified by content hash, is skipped.
type Indexer struct {
	Snapshots       takaichirag.SnapshotStore
	Chunks          takaichirag.ChunkService
	Embedder        takaichirag.Embedder // may be nil for lexical-only indexing
	ChunkSize       int
	ChunkOverlap    int
	MinContentChars int
	Logger          *slog.Logger
}

// Result summarizes an indexing run.
type Result struct {
	Indexed int // pages turned into chunks
	Chunks  int // chunks stored
	Skipped int // pages skipped (already indexed or too short)
	Failed  int // pages that errored
}

// IndexSnapshot indexes every page in the snapshot at location.
// Per-page failures are logged and counted; they do not abort the run.
func (ix *Indexer) IndexSnapshot(ctx context.Context, location string) (*Result, error) {
	pages, err := ix.Snapshots.Read(ctx, location)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		stored, err := ix.indexPage(ctx, page)
		if err != nil {
			result.Failed++
			ix.log(ctx, "page not indexed", "url", page.URL, "error", err)
			continue
		}
		if stored == 0 {
			result.Skipped++
			continue
		}
		result.Indexed++
		result.Chunks += stored
	}

	ix.log(ctx, "snapshot indexed", "location", location,
		"indexed", result.Indexed, "chunks", result.Chunks,
		"skipped", result.Skipped, "failed", result.Failed)

	return result, nil
}

// indexPage chunks, embeds and stores one page. It returns the number of
// chunks stored; zero means the page was skipped.
func (ix *Indexer) indexPage(ctx context.Context, page *takaichirag.Page) (int, error) {
	if err := page.Validate(); err != nil {
		return 0, err
	}

	minChars := ix.MinContentChars
	if minChars <= 0 {
		minChars = DefaultMinContentChars
	}
	if takaichirag.CountChars(page.Content) < minChars {
		ix.log(ctx, "page too short, skipping", "url", page.URL)
		return 0, nil
	}

	hash := HashContent(page.Content)
	indexed, err := ix.Chunks.HasContentHash(ctx, hash)
	if err != nil {
		return 0, err
	}
	if indexed {
		ix.log(ctx, "page already indexed, skipping", "url", page.URL)
		return 0, nil
	}

	size := ix.ChunkSize
	if size <= 0 {
		size = takaichirag.DefaultChunkSize
	}
	overlap := ix.ChunkOverlap
	if overlap <= 0 {
		overlap = takaichirag.DefaultChunkOverlap
	}

	// The category label leads the indexed text so retrieval sees the
	// section a statement came from.
	text := fmt.Sprintf("[%s]\n%s", page.Category.Label(), page.Content)
	spans := takaichirag.SplitText(text, size, overlap)

	var embeddings [][]float32
	if ix.Embedder != nil {
		embeddings, err = ix.Embedder.Embed(ctx, spans)
		if err != nil {
			return 0, err
		}
		if len(embeddings) != len(spans) {
			return 0, takaichirag.Errorf(takaichirag.EINTERNAL,
				"embedding count mismatch: got %d for %d chunks", len(embeddings), len(spans))
		}
	}

	chunks := make([]*takaichirag.Chunk, len(spans))
	for i, span := range spans {
		chunks[i] = &takaichirag.Chunk{
			PageURL:     page.URL,
			Category:    page.Category,
			Title:       page.Title,
			PublishDate: page.PublishDate,
			Position:    i,
			Content:     span,
			ContentHash: hash,
		}
		if embeddings != nil {
			chunks[i].Embedding = embeddings[i]
		}
	}

	if err := ix.Chunks.CreateChunks(ctx, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// HashContent computes the xxHash of content as a hex string. Pages with
// identical content share a hash across crawl runs.
func HashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

func (ix *Indexer) log(ctx context.Context, msg string, args ...any) {
	if ix.Logger != nil {
		ix.Logger.InfoContext(ctx, msg, args...)
	}
}
