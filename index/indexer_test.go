package index_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jiangzhuo/takaichirag"
	"github.com/jiangzhuo/takaichirag/index"
	"github.com/jiangzhuo/takaichirag/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longContent = strings.Repeat("経済政策について説明します。", 20)

func snapshotWith(pages ...*takaichirag.Page) *mock.SnapshotStore {
	return &mock.SnapshotStore{
		ReadFn: func(_ context.Context, location string) ([]*takaichirag.Page, error) {
			return pages, nil
		},
	}
}

func page(url string, category takaichirag.Category, content string) *takaichirag.Page {
	return &takaichirag.Page{
		URL:       url,
		Category:  category,
		Title:     "タイトル",
		Content:   content,
		CharCount: takaichirag.CountChars(content),
		FetchedAt: time.Now().UTC(),
	}
}

func TestIndexer_IndexSnapshot(t *testing.T) {
	t.Parallel()

	var created []*takaichirag.Chunk
	chunks := &mock.ChunkService{
		HasContentHashFn: func(context.Context, string) (bool, error) { return false, nil },
		CreateChunksFn: func(_ context.Context, batch []*takaichirag.Chunk) error {
			created = append(created, batch...)
			return nil
		},
	}
	embedder := &mock.Embedder{
		EmbedFn: func(_ context.Context, texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i := range out {
				out[i] = []float32{1, 2, 3}
			}
			return out, nil
		},
	}

	ix := &index.Indexer{
		Snapshots: snapshotWith(page("https://example.com/kaiken_detail01.html", takaichirag.CategoryKaiken, longContent)),
		Chunks:    chunks,
		Embedder:  embedder,
	}

	result, err := ix.IndexSnapshot(context.Background(), "snap")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Indexed)
	assert.Equal(t, len(created), result.Chunks)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Failed)

	require.NotEmpty(t, created)
	first := created[0]
	assert.True(t, strings.HasPrefix(first.Content, "[記者会見]\n"))
	assert.Equal(t, "https://example.com/kaiken_detail01.html", first.PageURL)
	assert.Equal(t, takaichirag.CategoryKaiken, first.Category)
	assert.Equal(t, []float32{1, 2, 3}, first.Embedding)
	assert.Equal(t, index.HashContent(longContent), first.ContentHash)
	for i, chunk := range created {
		assert.Equal(t, i, chunk.Position)
	}
}

func TestIndexer_SkipsAlreadyIndexedContent(t *testing.T) {
	t.Parallel()

	chunks := &mock.ChunkService{
		HasContentHashFn: func(context.Context, string) (bool, error) { return true, nil },
		CreateChunksFn: func(context.Context, []*takaichirag.Chunk) error {
			t.Fatal("CreateChunks should not be called")
			return nil
		},
	}

	ix := &index.Indexer{
		Snapshots: snapshotWith(page("https://example.com/idea.html", takaichirag.CategoryIdea, longContent)),
		Chunks:    chunks,
	}

	result, err := ix.IndexSnapshot(context.Background(), "snap")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Indexed)
	assert.Equal(t, 1, result.Skipped)
}

func TestIndexer_SkipsShortPages(t *testing.T) {
	t.Parallel()

	chunks := &mock.ChunkService{
		HasContentHashFn: func(context.Context, string) (bool, error) { return false, nil },
		CreateChunksFn: func(context.Context, []*takaichirag.Chunk) error {
			t.Fatal("CreateChunks should not be called")
			return nil
		},
	}

	ix := &index.Indexer{
		Snapshots: snapshotWith(page("https://example.com/idea.html", takaichirag.CategoryIdea, "短い内容")),
		Chunks:    chunks,
	}

	result, err := ix.IndexSnapshot(context.Background(), "snap")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Failed)
}

func TestIndexer_CountsPerPageFailures(t *testing.T) {
	t.Parallel()

	chunks := &mock.ChunkService{
		HasContentHashFn: func(context.Context, string) (bool, error) { return false, nil },
		CreateChunksFn: func(_ context.Context, batch []*takaichirag.Chunk) error {
			if batch[0].PageURL == "https://example.com/kaiken_detail02.html" {
				return takaichirag.Errorf(takaichirag.EINTERNAL, "disk full")
			}
			return nil
		},
	}

	ix := &index.Indexer{
		Snapshots: snapshotWith(
			page("https://example.com/kaiken_detail01.html", takaichirag.CategoryKaiken, longContent),
			page("https://example.com/kaiken_detail02.html", takaichirag.CategoryKaiken, longContent+"別の内容"),
		),
		Chunks: chunks,
	}

	result, err := ix.IndexSnapshot(context.Background(), "snap")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Indexed)
	assert.Equal(t, 1, result.Failed)
}

func TestIndexer_EmbeddingCountMismatch(t *testing.T) {
	t.Parallel()

	chunks := &mock.ChunkService{
		HasContentHashFn: func(context.Context, string) (bool, error) { return false, nil },
		CreateChunksFn: func(context.Context, []*takaichirag.Chunk) error {
			t.Fatal("CreateChunks should not be called")
			return nil
		},
	}
	embedder := &mock.Embedder{
		EmbedFn: func(context.Context, []string) ([][]float32, error) {
			return nil, nil
		},
	}

	ix := &index.Indexer{
		Snapshots: snapshotWith(page("https://example.com/idea.html", takaichirag.CategoryIdea, longContent)),
		Chunks:    chunks,
		Embedder:  embedder,
	}

	result, err := ix.IndexSnapshot(context.Background(), "snap")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
}

func TestIndexer_PropagatesSnapshotReadError(t *testing.T) {
	t.Parallel()

	ix := &index.Indexer{
		Snapshots: &mock.SnapshotStore{
			ReadFn: func(context.Context, string) ([]*takaichirag.Page, error) {
				return nil, takaichirag.Errorf(takaichirag.ENOTFOUND, "snapshot missing")
			},
		},
	}

	_, err := ix.IndexSnapshot(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, takaichirag.ENOTFOUND, takaichirag.ErrorCode(err))
}

func TestHashContent_StableAcrossCalls(t *testing.T) {
	t.Parallel()

	a := index.HashContent("同じ内容")
	b := index.HashContent("同じ内容")
	c := index.HashContent("違う内容")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}
