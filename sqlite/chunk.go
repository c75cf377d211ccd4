package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jiangzhuo/takaichirag"
)

// Compile-time interface verification.
var _ takaichirag.ChunkService = (*ChunkService)(nil)

// ChunkService implements takaichirag.ChunkService using SQLite.
type ChunkService struct {
	db *DB
}

// NewChunkService creates a new ChunkService.
func NewChunkService(db *DB) *ChunkService {
	return &ChunkService{db: db}
}

// CreateChunks stores a batch of chunks in a single transaction, so a
// page is either fully indexed or not at all.
func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*takaichirag.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	for _, chunk := range chunks {
		if err := chunk.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return takaichirag.Errorf(takaichirag.EINTERNAL, "begin transaction: %s", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, chunk := range chunks {
		if chunk.ID == "" {
			chunk.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (id, page_url, category, title, publish_date, position, content, content_hash, embedding, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, chunk.ID, chunk.PageURL, string(chunk.Category), chunk.Title, chunk.PublishDate,
			chunk.Position, chunk.Content, chunk.ContentHash, encodeEmbedding(chunk.Embedding), now)
		if err != nil {
			return takaichirag.Errorf(takaichirag.EINTERNAL, "insert chunk: %s", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return takaichirag.Errorf(takaichirag.EINTERNAL, "commit chunks: %s", err)
	}
	return nil
}

// HasContentHash reports whether any stored chunk carries the hash.
func (s *ChunkService) HasContentHash(ctx context.Context, hash string) (bool, error) {
	if hash == "" {
		return false, nil
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE content_hash = ?", hash).Scan(&n)
	if err != nil {
		return false, takaichirag.Errorf(takaichirag.EINTERNAL, "query content hash: %s", err)
	}
	return n > 0, nil
}

// CountChunks returns the total number of stored chunks.
func (s *ChunkService) CountChunks(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n)
	if err != nil {
		return 0, takaichirag.Errorf(takaichirag.EINTERNAL, "count chunks: %s", err)
	}
	return n, nil
}

// DeleteChunksByPageURL removes all chunks for a page.
func (s *ChunkService) DeleteChunksByPageURL(ctx context.Context, pageURL string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE page_url = ?", pageURL)
	if err != nil {
		return takaichirag.Errorf(takaichirag.EINTERNAL, "delete chunks: %s", err)
	}
	return nil
}
