package sqlite

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/jiangzhuo/takaichirag"
)

// DefaultSearchLimit is the number of results returned when the caller
// does not set one.
const DefaultSearchLimit = 5

// Hybrid ranking parameters. Each branch contributes candidates which are
// fused with reciprocal rank fusion; k dampens the weight of top ranks.
const (
	rrfK           = 60
	candidateLimit = 50
)

// Compile-time interface verification.
var _ takaichirag.SearchService = (*SearchService)(nil)

// SearchService implements hybrid lexical/vector search over stored
// chunks. The lexical branch ranks with FTS5 bm25; the vector branch
// ranks by cosine similarity against the query embedding. A nil embedder
// degrades to lexical-only search.
type SearchService struct {
	db       *DB
	embedder takaichirag.Embedder
}

// NewSearchService creates a new SearchService. embedder may be nil.
func NewSearchService(db *DB, embedder takaichirag.Embedder) *SearchService {
	return &SearchService{db: db, embedder: embedder}
}

// Search returns chunks ranked by relevance to the query.
func (s *SearchService) Search(ctx context.Context, query string, opts takaichirag.SearchOptions) ([]takaichirag.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, takaichirag.Errorf(takaichirag.EINVALID, "search query required")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	lexical, err := s.lexicalSearch(ctx, query, opts.Categories)
	if err != nil {
		return nil, err
	}

	var vector []*takaichirag.Chunk
	if s.embedder != nil {
		vector, err = s.vectorSearch(ctx, query, opts.Categories)
		if err != nil {
			return nil, err
		}
	}

	fused := fuse(lexical, vector)
	if len(fused) > limit {
		fused = fused[:limit]
	}
	return fused, nil
}

// lexicalSearch returns chunks in bm25 rank order.
func (s *SearchService) lexicalSearch(ctx context.Context, query string, categories []takaichirag.Category) ([]*takaichirag.Chunk, error) {
	var sb strings.Builder
	args := []any{ftsQuery(query)}

	sb.WriteString(`
		SELECT c.id, c.page_url, c.category, c.title, c.publish_date, c.position, c.content, c.content_hash
		FROM chunks_fts f
		JOIN chunks c ON c.rowid = f.rowid
		WHERE chunks_fts MATCH ?`)
	appendCategoryFilter(&sb, &args, "c.category", categories)
	sb.WriteString(" ORDER BY bm25(chunks_fts) LIMIT ?")
	args = append(args, candidateLimit)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, takaichirag.Errorf(takaichirag.EINTERNAL, "lexical search: %s", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// vectorSearch embeds the query and ranks stored embeddings by cosine
// similarity. The corpus is small enough to scan in full.
func (s *SearchService) vectorSearch(ctx context.Context, query string, categories []takaichirag.Category) ([]*takaichirag.Chunk, error) {
	embeddings, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, takaichirag.Errorf(takaichirag.EINTERNAL, "empty query embedding")
	}
	queryVec := embeddings[0]

	var sb strings.Builder
	var args []any
	sb.WriteString(`
		SELECT c.id, c.page_url, c.category, c.title, c.publish_date, c.position, c.content, c.content_hash, c.embedding
		FROM chunks c
		WHERE c.embedding IS NOT NULL`)
	appendCategoryFilter(&sb, &args, "c.category", categories)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, takaichirag.Errorf(takaichirag.EINTERNAL, "vector search: %s", err)
	}
	defer rows.Close()

	type scored struct {
		chunk *takaichirag.Chunk
		score float64
	}
	var candidates []scored

	for rows.Next() {
		var chunk takaichirag.Chunk
		var category string
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.PageURL, &category, &chunk.Title,
			&chunk.PublishDate, &chunk.Position, &chunk.Content, &chunk.ContentHash, &blob); err != nil {
			return nil, takaichirag.Errorf(takaichirag.EINTERNAL, "scan chunk: %s", err)
		}
		chunk.Category = takaichirag.Category(category)
		chunk.Embedding = decodeEmbedding(blob)
		candidates = append(candidates, scored{
			chunk: &chunk,
			score: cosineSimilarity(queryVec, chunk.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, takaichirag.Errorf(takaichirag.EINTERNAL, "vector search: %s", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > candidateLimit {
		candidates = candidates[:candidateLimit]
	}

	out := make([]*takaichirag.Chunk, len(candidates))
	for i, c := range candidates {
		out[i] = c.chunk
	}
	return out, nil
}

// fuse merges ranked candidate lists with reciprocal rank fusion.
func fuse(lists ...[]*takaichirag.Chunk) []takaichirag.SearchResult {
	scores := make(map[string]float64)
	chunks := make(map[string]*takaichirag.Chunk)

	for _, list := range lists {
		for rank, chunk := range list {
			scores[chunk.ID] += 1.0 / float64(rrfK+rank+1)
			if _, ok := chunks[chunk.ID]; !ok {
				chunks[chunk.ID] = chunk
			}
		}
	}

	out := make([]takaichirag.SearchResult, 0, len(scores))
	for id, score := range scores {
		out = append(out, takaichirag.SearchResult{Chunk: chunks[id], Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Chunk.ID < out[j].Chunk.ID
	})
	return out
}

// appendCategoryFilter adds an IN clause for the category column.
func appendCategoryFilter(sb *strings.Builder, args *[]any, column string, categories []takaichirag.Category) {
	if len(categories) == 0 {
		return
	}
	sb.WriteString(" AND ")
	sb.WriteString(column)
	sb.WriteString(" IN (")
	for i, c := range categories {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("?")
		*args = append(*args, string(c))
	}
	sb.WriteString(")")
}

// scanChunks reads chunk rows without the embedding column.
func scanChunks(rows *sql.Rows) ([]*takaichirag.Chunk, error) {
	var out []*takaichirag.Chunk
	for rows.Next() {
		var chunk takaichirag.Chunk
		var category string
		if err := rows.Scan(&chunk.ID, &chunk.PageURL, &category, &chunk.Title,
			&chunk.PublishDate, &chunk.Position, &chunk.Content, &chunk.ContentHash); err != nil {
			return nil, takaichirag.Errorf(takaichirag.EINTERNAL, "scan chunk: %s", err)
		}
		chunk.Category = takaichirag.Category(category)
		out = append(out, &chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, takaichirag.Errorf(takaichirag.EINTERNAL, "read chunks: %s", err)
	}
	return out, nil
}
