package trafilatura

import (
	"bytes"
	"strings"

	"github.com/jiangzhuo/takaichirag"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements takaichirag.Extractor at compile time.
var _ takaichirag.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content with
// navigation and other boilerplate stripped.
func (e *Extractor) Extract(rawHTML string) (*takaichirag.ExtractResult, error) {
	if rawHTML == "" {
		return nil, takaichirag.Errorf(takaichirag.EINVALID, "empty HTML input")
	}

	// The corpus is Japanese; the language hint also rejects pages whose
	// extracted text is not Japanese.
	opts := trafilatura.Options{
		EnableFallback: true,
		TargetLanguage: "ja",
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, takaichirag.Errorf(takaichirag.EINVALID, "extract content: %s", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, takaichirag.Errorf(takaichirag.EINTERNAL, "render content: %s", err)
		}
	}

	return &takaichirag.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
