package mock

import (
	"context"

	"github.com/jiangzhuo/takaichirag"
)

var _ takaichirag.Asker = (*Asker)(nil)

// Asker is a mock implementation of takaichirag.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string, opts takaichirag.AskOptions) (*takaichirag.Answer, error)
}

func (a *Asker) Ask(ctx context.Context, question string, opts takaichirag.AskOptions) (*takaichirag.Answer, error) {
	return a.AskFn(ctx, question, opts)
}

var _ takaichirag.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of takaichirag.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts)
}
