package takaichirag_test

import (
	"errors"
	"testing"

	"github.com/jiangzhuo/takaichirag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Visit(t *testing.T) {
	t.Parallel()

	s := takaichirag.NewSession()

	assert.True(t, s.Visit("https://www.sanae.gr.jp/idea.html"))
	assert.False(t, s.Visit("https://www.sanae.gr.jp/idea.html"), "second visit is a duplicate")
	assert.True(t, s.Visit("https://www.sanae.gr.jp/posture.html"))
	assert.Equal(t, 2, s.VisitedCount())
	assert.True(t, s.Visited("https://www.sanae.gr.jp/idea.html"))
	assert.False(t, s.Visited("https://www.sanae.gr.jp/column.html"))
}

func TestSession_Failures(t *testing.T) {
	t.Parallel()

	s := takaichirag.NewSession()
	s.Fail("https://www.sanae.gr.jp/kaiken_detail9.html", takaichirag.CategoryKaiken,
		takaichirag.StageFetch, errors.New("HTTP 404"))

	failures := s.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, takaichirag.CategoryKaiken, failures[0].Category)
	assert.Equal(t, takaichirag.StageFetch, failures[0].Stage)
	assert.Equal(t, "HTTP 404", failures[0].Err)

	// The returned slice is a copy.
	failures[0].Err = "mutated"
	assert.Equal(t, "HTTP 404", s.Failures()[0].Err)
}
