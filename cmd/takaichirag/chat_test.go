package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jiangzhuo/takaichirag"
	main "github.com/jiangzhuo/takaichirag/cmd/takaichirag"
	"github.com/jiangzhuo/takaichirag/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("answers questions until exit", func(t *testing.T) {
		t.Parallel()

		var questions []string
		asker := &mock.Asker{
			AskFn: func(_ context.Context, question string, opts takaichirag.AskOptions) (*takaichirag.Answer, error) {
				questions = append(questions, question)
				assert.Equal(t, 5, opts.NumChunks)
				return &takaichirag.Answer{Text: "回答：" + question}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdin:  strings.NewReader("経済政策は？\n\n外交方針は？\nexit\n"),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Asker:  asker,
		}

		cmd := &main.ChatCmd{Chunks: 5}
		err := cmd.Run(deps)
		require.NoError(t, err)

		// Blank lines are skipped, exit ends the loop
		assert.Equal(t, []string{"経済政策は？", "外交方針は？"}, questions)
		out := stdout.String()
		assert.Contains(t, out, "ようこそ")
		assert.Contains(t, out, "回答：経済政策は？")
		assert.Contains(t, out, "回答：外交方針は？")
		assert.Contains(t, out, "ご利用ありがとうございました。")
	})

	t.Run("errors are reported and the loop continues", func(t *testing.T) {
		t.Parallel()

		calls := 0
		asker := &mock.Asker{
			AskFn: func(_ context.Context, question string, _ takaichirag.AskOptions) (*takaichirag.Answer, error) {
				calls++
				if calls == 1 {
					return nil, takaichirag.Errorf(takaichirag.EUNAVAILABLE, "gemini request failed")
				}
				return &takaichirag.Answer{Text: "回答"}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdin:  strings.NewReader("一つ目\n二つ目\nquit\n"),
			Stdout: stdout,
			Stderr: stderr,
			Asker:  asker,
		}

		cmd := &main.ChatCmd{Chunks: 5}
		err := cmd.Run(deps)
		require.NoError(t, err)

		assert.Equal(t, 2, calls)
		assert.Contains(t, stderr.String(), "gemini request failed")
		assert.Contains(t, stdout.String(), "回答")
	})

	t.Run("ends on end of input", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdin:  strings.NewReader(""),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Asker:  &mock.Asker{},
		}

		cmd := &main.ChatCmd{Chunks: 5}
		err := cmd.Run(deps)
		require.NoError(t, err)
	})
}
