package takaichirag

import "context"

// Default chunking parameters, sized for the embedding model's context
// limit. Measured in runes, not bytes: the corpus is Japanese.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunk represents a sub-span of a page's content optimized for embedding
// and retrieval. Every chunk traces back to exactly one stored page record
// via PageURL.
type Chunk struct {
	ID          string    `json:"id"`
	PageURL     string    `json:"pageUrl"`
	Category    Category  `json:"category"`
	Title       string    `json:"title"`
	PublishDate string    `json:"publishDate,omitempty"`
	Position    int       `json:"position"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"` // hash of the source page's content, shared by sibling chunks
	Embedding   []float32 `json:"embedding,omitempty"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.PageURL == "" {
		return Errorf(EINVALID, "chunk page URL required")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	return nil
}

// ChunkService represents a service for storing and managing chunks.
type ChunkService interface {
	// CreateChunks stores a batch of chunks atomically.
	CreateChunks(ctx context.Context, chunks []*Chunk) error

	// HasContentHash reports whether any stored chunk carries the hash.
	// Used by the indexer to skip already-indexed page content.
	HasContentHash(ctx context.Context, hash string) (bool, error)

	// CountChunks returns the total number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// DeleteChunksByPageURL removes all chunks for a page.
	DeleteChunksByPageURL(ctx context.Context, pageURL string) error
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// Maximum number of results to return. Implementations apply their
	// own default when zero.
	Limit int `json:"limit,omitempty"`

	// Restrict results to specific categories. Empty means all.
	Categories []Category `json:"categories,omitempty"`
}

// SearchResult represents a search match.
type SearchResult struct {
	Chunk *Chunk  `json:"chunk"`
	Score float64 `json:"score"`
}

// SearchService provides hybrid lexical/vector search over stored chunks.
type SearchService interface {
	// Search returns chunks ranked by relevance to the query.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// SplitText splits text into overlapping spans of at most size runes with
// the given rune overlap between consecutive spans. Overlap must be
// smaller than size; callers passing a degenerate overlap get it clamped
// to a quarter of the size.
func SplitText(text string, size, overlap int) []string {
	if text == "" || size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 4
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	spans := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		spans = append(spans, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return spans
}
