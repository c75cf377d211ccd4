// Package fs provides file-based snapshot storage for crawl runs.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jiangzhuo/takaichirag"
)

// Snapshot file naming. One file per crawl run, named by run time, so
// snapshots sort chronologically and never collide across runs.
const (
	snapshotPrefix     = "snapshot_"
	snapshotSuffix     = ".json"
	snapshotTimeLayout = "20060102T150405Z"
)

// Ensure SnapshotStore implements takaichirag.SnapshotStore at compile time.
var _ takaichirag.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore stores each crawl run's pages as one JSON file in a
// directory. Files are written to a temp name and renamed into place, and
// existing snapshots are never overwritten.
type SnapshotStore struct {
	baseDir string
}

// NewSnapshotStore creates a store rooted at baseDir. The directory is
// created on first write.
func NewSnapshotStore(baseDir string) *SnapshotStore {
	return &SnapshotStore{baseDir: baseDir}
}

// Write persists the pages as a new snapshot named after runTime and
// returns its location. Writing a snapshot that already exists is an
// error: prior runs are immutable.
func (s *SnapshotStore) Write(ctx context.Context, pages []*takaichirag.Page, runTime time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := snapshotPrefix + runTime.UTC().Format(snapshotTimeLayout) + snapshotSuffix
	finalPath := filepath.Join(s.baseDir, name)

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", takaichirag.Errorf(takaichirag.EINTERNAL, "create snapshot dir: %s", err)
	}

	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return "", takaichirag.Errorf(takaichirag.EINTERNAL, "encode snapshot: %s", err)
	}

	// Write to a temp file then rename so readers never see a partial
	// snapshot.
	tmp, err := os.CreateTemp(s.baseDir, name+".tmp")
	if err != nil {
		return "", takaichirag.Errorf(takaichirag.EINTERNAL, "create snapshot: %s", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", takaichirag.Errorf(takaichirag.EINTERNAL, "write snapshot: %s", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", takaichirag.Errorf(takaichirag.EINTERNAL, "write snapshot: %s", err)
	}

	// Link instead of rename: linking to an existing name fails, so a
	// concurrent writer can never replace a finished snapshot.
	if err := os.Link(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		if os.IsExist(err) {
			return "", takaichirag.Errorf(takaichirag.EINVALID, "snapshot %s already exists", name)
		}
		return "", takaichirag.Errorf(takaichirag.EINTERNAL, "finalize snapshot: %s", err)
	}
	os.Remove(tmpPath)

	return finalPath, nil
}

// Read loads the pages from a snapshot location.
func (s *SnapshotStore) Read(ctx context.Context, location string) ([]*takaichirag.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, takaichirag.Errorf(takaichirag.ENOTFOUND, "snapshot %s not found", location)
		}
		return nil, takaichirag.Errorf(takaichirag.EINTERNAL, "read snapshot: %s", err)
	}

	var pages []*takaichirag.Page
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, takaichirag.Errorf(takaichirag.EINVALID, "decode snapshot %s: %s", location, err)
	}
	return pages, nil
}

// List returns all snapshot locations in the store, oldest first. A
// missing base directory is an empty store, not an error.
func (s *SnapshotStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, takaichirag.Errorf(takaichirag.EINTERNAL, "list snapshots: %s", err)
	}

	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotSuffix) {
			continue
		}
		out = append(out, filepath.Join(s.baseDir, name))
	}

	// Names embed the run time, so lexical order is chronological.
	sort.Strings(out)
	return out, nil
}

// Latest returns the most recent snapshot location.
// Returns ENOTFOUND when the store is empty.
func (s *SnapshotStore) Latest(ctx context.Context) (string, error) {
	locations, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	if len(locations) == 0 {
		return "", takaichirag.Errorf(takaichirag.ENOTFOUND, "no snapshots found")
	}
	return locations[len(locations)-1], nil
}
