package main

import "fmt"

// Run executes the run command: a full crawl, snapshot and index cycle.
func (c *RunCmd) Run(deps *Dependencies) error {
	location, err := crawlAndSnapshot(deps)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "\nIndexing %s...\n", location)

	result, err := deps.Indexer.IndexSnapshot(deps.Ctx, location)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d pages into %d chunks (%d skipped, %d failed)\n",
		result.Indexed, result.Chunks, result.Skipped, result.Failed)

	return nil
}
