package mock

import "github.com/jiangzhuo/takaichirag"

var _ takaichirag.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of takaichirag.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*takaichirag.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*takaichirag.ExtractResult, error) {
	return e.ExtractFn(html)
}
