package main_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jiangzhuo/takaichirag"
	"github.com/jiangzhuo/takaichirag/crawl"
	"github.com/jiangzhuo/takaichirag/fs"
	"github.com/jiangzhuo/takaichirag/goquery"
	"github.com/jiangzhuo/takaichirag/htmltomarkdown"
	thttp "github.com/jiangzhuo/takaichirag/http"
	"github.com/jiangzhuo/takaichirag/index"
	"github.com/jiangzhuo/takaichirag/mock"
	"github.com/jiangzhuo/takaichirag/sqlite"
	"github.com/jiangzhuo/takaichirag/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detailHTML(title, sentence string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>" + title + "</title></head><body><main><article>")
	b.WriteString("<h1>" + title + "</h1>")
	for i := 0; i < 10; i++ {
		b.WriteString("<p>" + sentence + "この点について、引き続き丁寧に説明をしてまいります。</p>")
	}
	b.WriteString("</article></main></body></html>")
	return b.String()
}

// TestPipeline_CrawlSnapshotIndexSearch runs the crawl, snapshot, index
// and search stages against a fake press conference section where one
// detail page is dead.
func TestPipeline_CrawlSnapshotIndexSearch(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/kaiken.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><ul>
			<li><a href="kaiken_detail01.html">会見一</a></li>
			<li><a href="kaiken_detail02.html">会見二</a></li>
			<li><a href="kaiken_detail03.html">会見三</a></li>
			<li><a href="profile.html">プロフィール</a></li>
		</ul></body></html>`)
	})
	mux.HandleFunc("/kaiken_detail01.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, detailHTML("経済政策記者会見", "経済政策と物価対策について記者の質問に答えました。"))
	})
	mux.HandleFunc("/kaiken_detail03.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, detailHTML("外交記者会見", "外交と安全保障の基本方針について説明しました。"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fetcher := thttp.NewFetcher(thttp.WithDelay(time.Millisecond))
	defer fetcher.Close()

	crawler := &crawl.Crawler{
		BaseURL:   srv.URL + "/",
		Fetcher:   fetcher,
		Links:     goquery.NewLinks(),
		Meta:      goquery.NewMeta(),
		Extractor: trafilatura.NewExtractor(),
		Converter: htmltomarkdown.NewConverter(),
	}

	ctx := context.Background()
	session := takaichirag.NewSession()
	pages, err := crawler.CrawlCategory(ctx, takaichirag.CategoryKaiken, session, nil)
	require.NoError(t, err)

	// Two detail pages survive; the dead one is in the failure report.
	require.Len(t, pages, 2)
	failures := session.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, takaichirag.StageFetch, failures[0].Stage)
	assert.Contains(t, failures[0].URL, "kaiken_detail02.html")

	store := fs.NewSnapshotStore(t.TempDir())
	location, err := store.Write(ctx, pages, time.Now().UTC())
	require.NoError(t, err)

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	defer db.Close()

	embedder := &mock.Embedder{
		EmbedFn: func(_ context.Context, texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = []float32{1, 0, 0}
			}
			return out, nil
		},
	}

	indexer := &index.Indexer{
		Snapshots: store,
		Chunks:    sqlite.NewChunkService(db),
		Embedder:  embedder,
	}
	result, err := indexer.IndexSnapshot(ctx, location)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Indexed)
	assert.Equal(t, 0, result.Failed)
	assert.GreaterOrEqual(t, result.Chunks, 2)

	search := sqlite.NewSearchService(db, nil)
	results, err := search.Search(ctx, "経済政策", takaichirag.SearchOptions{Limit: 5})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Chunk.PageURL, "kaiken_detail01.html")
	assert.Equal(t, takaichirag.CategoryKaiken, results[0].Chunk.Category)
}
