package mock

import (
	"regexp"

	"github.com/jiangzhuo/takaichirag"
)

var _ takaichirag.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of takaichirag.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string, pattern *regexp.Regexp) ([]string, error)
}

func (l *LinkExtractor) ExtractLinks(html string, baseURL string, pattern *regexp.Regexp) ([]string, error) {
	return l.ExtractLinksFn(html, baseURL, pattern)
}

var _ takaichirag.MetaExtractor = (*MetaExtractor)(nil)

// MetaExtractor is a mock implementation of takaichirag.MetaExtractor.
type MetaExtractor struct {
	ExtractMetaFn func(html string) (*takaichirag.PageMeta, error)
}

func (m *MetaExtractor) ExtractMeta(html string) (*takaichirag.PageMeta, error) {
	return m.ExtractMetaFn(html)
}
