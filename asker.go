package takaichirag

import "context"

// Source is one cited origin of an answer.
type Source struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Category    Category `json:"category"`
	PublishDate string   `json:"publishDate,omitempty"`
	Excerpt     string   `json:"excerpt"`
	Score       float64  `json:"score"`
}

// Answer is a generated answer with the sources it was grounded on.
type Answer struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// AskOptions configures a single question.
type AskOptions struct {
	// NumChunks is the number of retrieved chunks to ground the answer
	// on. Implementations apply their own default when zero.
	NumChunks int `json:"numChunks,omitempty"`
}

// Asker provides natural language question answering over the indexed
// statements. Each call is independent and stateless.
type Asker interface {
	// Ask answers a natural language question, citing the retrieved
	// sources. Returns ENOTFOUND when nothing relevant is indexed.
	Ask(ctx context.Context, question string, opts AskOptions) (*Answer, error)
}

// Embedder computes vector embeddings for text.
// The embedding model is an opaque external service.
type Embedder interface {
	// Embed returns one embedding per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
