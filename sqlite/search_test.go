package sqlite_test

import (
	"context"
	"testing"

	"github.com/jiangzhuo/takaichirag"
	"github.com/jiangzhuo/takaichirag/mock"
	"github.com/jiangzhuo/takaichirag/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure SearchService implements takaichirag.SearchService at compile time.
var _ takaichirag.SearchService = (*sqlite.SearchService)(nil)

// seedChunks stores three chunks with distinct topics and embeddings
// pointing along different axes.
func seedChunks(t *testing.T, db *sqlite.DB) {
	t.Helper()
	svc := sqlite.NewChunkService(db)
	chunks := []*takaichirag.Chunk{
		{
			PageURL:   "https://example.com/kaiken_detail01.html",
			Category:  takaichirag.CategoryKaiken,
			Title:     "記者会見",
			Content:   "経済政策と財政健全化について説明しました。",
			Embedding: []float32{1, 0, 0},
		},
		{
			PageURL:   "https://example.com/column_detail01.html",
			Category:  takaichirag.CategoryColumn,
			Title:     "コラム",
			Content:   "地元で開催された産業振興フォーラムに参加しました。",
			Embedding: []float32{0, 1, 0},
		},
		{
			PageURL:   "https://example.com/idea.html",
			Category:  takaichirag.CategoryIdea,
			Title:     "基本理念",
			Content:   "国民の暮らしと安全を守ることが政治の原点です。",
			Embedding: []float32{0, 0, 1},
		},
	}
	require.NoError(t, svc.CreateChunks(context.Background(), chunks))
}

// axisEmbedder returns a fixed embedding for every query.
func axisEmbedder(vec []float32) *mock.Embedder {
	return &mock.Embedder{
		EmbedFn: func(_ context.Context, texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i := range out {
				out[i] = vec
			}
			return out, nil
		},
	}
}

func TestSearchService_LexicalOnly(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	seedChunks(t, db)
	svc := sqlite.NewSearchService(db, nil)

	results, err := svc.Search(context.Background(), "経済政策", takaichirag.SearchOptions{})

	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Chunk.Content, "経済政策")
	assert.Equal(t, takaichirag.CategoryKaiken, results[0].Chunk.Category)
}

func TestSearchService_VectorReranksResults(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	seedChunks(t, db)

	// Query text matches nothing lexically, but the query embedding
	// points at the column chunk's axis.
	svc := sqlite.NewSearchService(db, axisEmbedder([]float32{0, 1, 0}))

	results, err := svc.Search(context.Background(), "zzzzz", takaichirag.SearchOptions{})

	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, takaichirag.CategoryColumn, results[0].Chunk.Category)
}

func TestSearchService_HybridFusesBothBranches(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	seedChunks(t, db)

	// Lexical branch favors the kaiken chunk, vector branch the idea
	// chunk. Both should surface in the fused results.
	svc := sqlite.NewSearchService(db, axisEmbedder([]float32{0, 0, 1}))

	results, err := svc.Search(context.Background(), "経済政策", takaichirag.SearchOptions{Limit: 3})

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(results), 2)

	categories := make(map[takaichirag.Category]bool)
	for _, r := range results {
		categories[r.Chunk.Category] = true
		assert.Greater(t, r.Score, 0.0)
	}
	assert.True(t, categories[takaichirag.CategoryKaiken])
	assert.True(t, categories[takaichirag.CategoryIdea])
}

func TestSearchService_CategoryFilter(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	seedChunks(t, db)
	svc := sqlite.NewSearchService(db, axisEmbedder([]float32{1, 1, 1}))

	results, err := svc.Search(context.Background(), "しました", takaichirag.SearchOptions{
		Categories: []takaichirag.Category{takaichirag.CategoryColumn},
	})

	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, takaichirag.CategoryColumn, r.Chunk.Category)
	}
}

func TestSearchService_Limit(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	seedChunks(t, db)
	svc := sqlite.NewSearchService(db, axisEmbedder([]float32{1, 1, 1}))

	results, err := svc.Search(context.Background(), "した", takaichirag.SearchOptions{Limit: 1})

	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 1)
}

func TestSearchService_EmptyQuery(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	svc := sqlite.NewSearchService(db, nil)

	_, err := svc.Search(context.Background(), "   ", takaichirag.SearchOptions{})

	require.Error(t, err)
	assert.Equal(t, takaichirag.EINVALID, takaichirag.ErrorCode(err))
}

func TestSearchService_NoMatches(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	seedChunks(t, db)
	svc := sqlite.NewSearchService(db, nil)

	results, err := svc.Search(context.Background(), "存在しない話題ですよ", takaichirag.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, results)
}
