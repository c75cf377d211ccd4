package slog_test

import (
	"bytes"
	"context"
	stdslog "log/slog"
	"testing"

	"github.com/jiangzhuo/takaichirag"
	"github.com/jiangzhuo/takaichirag/mock"
	tslog "github.com/jiangzhuo/takaichirag/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := stdslog.New(stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug}))

	inner := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			return "<html>ok</html>", nil
		},
	}
	f := tslog.NewLoggingFetcher(inner, logger)

	html, err := f.Fetch(context.Background(), "https://example.com/idea.html")

	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", html)
	assert.Contains(t, buf.String(), "https://example.com/idea.html")
	assert.Contains(t, buf.String(), "bytes")
}

func TestLoggingFetcher_FetchError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := stdslog.New(stdslog.NewTextHandler(&buf, nil))

	inner := &mock.Fetcher{
		FetchFn: func(context.Context, string) (string, error) {
			return "", takaichirag.Errorf(takaichirag.EUNAVAILABLE, "fetch failed: status 503")
		},
	}
	f := tslog.NewLoggingFetcher(inner, logger)

	_, err := f.Fetch(context.Background(), "https://example.com/idea.html")

	require.Error(t, err)
	assert.Equal(t, takaichirag.EUNAVAILABLE, takaichirag.ErrorCode(err))
	assert.Contains(t, buf.String(), "fetch failed")
}
