package main

import (
	"fmt"

	"github.com/jiangzhuo/takaichirag"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Asker.Ask(deps.Ctx, c.Question, takaichirag.AskOptions{NumChunks: c.Chunks})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", takaichirag.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer.Text)
	printSources(deps, answer.Sources)
	return nil
}

// printSources lists the cited sources under an answer.
func printSources(deps *Dependencies, sources []takaichirag.Source) {
	if len(sources) == 0 {
		return
	}
	fmt.Fprintf(deps.Stdout, "\n出典:\n")
	for i, s := range sources {
		title := s.Title
		if title == "" {
			title = s.URL
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s", i+1, title)
		if s.PublishDate != "" {
			fmt.Fprintf(deps.Stdout, " (%s)", s.PublishDate)
		}
		fmt.Fprintf(deps.Stdout, "\n     %s\n", s.URL)
	}
}
