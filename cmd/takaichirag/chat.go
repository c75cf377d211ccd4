package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/jiangzhuo/takaichirag"
)

// Run executes the chat command as a read-eval-print loop on stdin.
func (c *ChatCmd) Run(deps *Dependencies) error {
	fmt.Fprintln(deps.Stdout, "高市早苗RAGシステムへようこそ！")
	fmt.Fprintln(deps.Stdout, "質問を入力してください。終了するには exit または quit と入力します。")

	scanner := bufio.NewScanner(deps.Stdin)
	for {
		fmt.Fprint(deps.Stdout, "\n> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answer, err := deps.Asker.Ask(deps.Ctx, question, takaichirag.AskOptions{NumChunks: c.Chunks})
		if err != nil {
			if deps.Ctx.Err() != nil {
				break
			}
			fmt.Fprintf(deps.Stderr, "error: %s\n", takaichirag.ErrorMessage(err))
			continue
		}

		fmt.Fprintln(deps.Stdout, answer.Text)
		printSources(deps, answer.Sources)
	}
	if err := scanner.Err(); err != nil {
		return takaichirag.Errorf(takaichirag.EINTERNAL, "reading input: %v", err)
	}

	fmt.Fprintln(deps.Stdout, "ご利用ありがとうございました。")
	return nil
}
