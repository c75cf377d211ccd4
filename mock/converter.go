package mock

import "github.com/jiangzhuo/takaichirag"

var _ takaichirag.Converter = (*Converter)(nil)

// Converter is a mock implementation of takaichirag.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
