package main

import "fmt"

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	location := c.Snapshot
	if location == "" {
		var err error
		location, err = deps.Snapshots.Latest(deps.Ctx)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "No snapshots found. Run 'takaichirag crawl' first.")
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Indexing %s...\n", location)

	result, err := deps.Indexer.IndexSnapshot(deps.Ctx, location)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d pages into %d chunks (%d skipped, %d failed)\n",
		result.Indexed, result.Chunks, result.Skipped, result.Failed)

	total, err := deps.Chunks.CountChunks(deps.Ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Database now holds %d chunks\n", total)

	return nil
}
