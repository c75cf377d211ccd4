package mock

import (
	"context"

	"github.com/jiangzhuo/takaichirag"
)

var _ takaichirag.ChunkService = (*ChunkService)(nil)

// ChunkService is a mock implementation of takaichirag.ChunkService.
type ChunkService struct {
	CreateChunksFn          func(ctx context.Context, chunks []*takaichirag.Chunk) error
	HasContentHashFn        func(ctx context.Context, hash string) (bool, error)
	CountChunksFn           func(ctx context.Context) (int, error)
	DeleteChunksByPageURLFn func(ctx context.Context, pageURL string) error
}

func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*takaichirag.Chunk) error {
	return s.CreateChunksFn(ctx, chunks)
}

func (s *ChunkService) HasContentHash(ctx context.Context, hash string) (bool, error) {
	return s.HasContentHashFn(ctx, hash)
}

func (s *ChunkService) CountChunks(ctx context.Context) (int, error) {
	return s.CountChunksFn(ctx)
}

func (s *ChunkService) DeleteChunksByPageURL(ctx context.Context, pageURL string) error {
	return s.DeleteChunksByPageURLFn(ctx, pageURL)
}

var _ takaichirag.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of takaichirag.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts takaichirag.SearchOptions) ([]takaichirag.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, opts takaichirag.SearchOptions) ([]takaichirag.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}
