package gemini

import (
	"context"

	"github.com/jiangzhuo/takaichirag"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

const embeddingModel = "gemini-embedding-001"

// Embedding request batching. The API caps batch size; batches are
// embedded concurrently up to embedConcurrency in-flight requests.
const (
	embedBatchSize   = 100
	embedConcurrency = 4
)

// Ensure Embedder implements takaichirag.Embedder at compile time.
var _ takaichirag.Embedder = (*Embedder)(nil)

// Embedder computes text embeddings using the Gemini embedding model.
type Embedder struct {
	client *genai.Client
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client}
}

// Embed returns one embedding per input text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for _, text := range texts {
		if text == "" {
			return nil, takaichirag.Errorf(takaichirag.EINVALID, "cannot embed empty text")
		}
	}

	out := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		start, end := start, end
		g.Go(func() error {
			return e.embedBatch(gctx, texts[start:end], out[start:end])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// embedBatch embeds one batch and writes results into out, which aliases
// the caller's result slice.
func (e *Embedder) embedBatch(ctx context.Context, texts []string, out [][]float32) error {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}

	resp, err := e.client.Models.EmbedContent(ctx, embeddingModel, contents, nil)
	if err != nil {
		return takaichirag.Errorf(takaichirag.EUNAVAILABLE, "embed content: %s", err)
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		return takaichirag.Errorf(takaichirag.EINTERNAL,
			"embedding count mismatch: want %d", len(texts))
	}

	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return takaichirag.Errorf(takaichirag.EINTERNAL, "empty embedding at index %d", i)
		}
		out[i] = emb.Values
	}
	return nil
}
