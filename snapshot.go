package takaichirag

import (
	"context"
	"time"
)

// SnapshotStore persists one crawl run's page records as a single
// timestamped artifact. Snapshots are append-only across runs: a prior
// snapshot is never overwritten, and the same URL may appear in snapshots
// from different runs.
type SnapshotStore interface {
	// Write persists the records under a name derived from runTime and
	// returns the snapshot's location. Writing over an existing snapshot
	// is an error.
	Write(ctx context.Context, pages []*Page, runTime time.Time) (string, error)

	// Read loads the records from a snapshot location.
	// Returns ENOTFOUND if no snapshot exists there.
	Read(ctx context.Context, location string) ([]*Page, error)

	// List returns all snapshot locations, oldest first.
	List(ctx context.Context) ([]string, error)
}
