package mock

import (
	"context"
	"time"

	"github.com/jiangzhuo/takaichirag"
)

var _ takaichirag.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is a mock implementation of takaichirag.SnapshotStore.
type SnapshotStore struct {
	WriteFn func(ctx context.Context, pages []*takaichirag.Page, runTime time.Time) (string, error)
	ReadFn  func(ctx context.Context, location string) ([]*takaichirag.Page, error)
	ListFn  func(ctx context.Context) ([]string, error)
}

func (s *SnapshotStore) Write(ctx context.Context, pages []*takaichirag.Page, runTime time.Time) (string, error) {
	return s.WriteFn(ctx, pages, runTime)
}

func (s *SnapshotStore) Read(ctx context.Context, location string) ([]*takaichirag.Page, error) {
	return s.ReadFn(ctx, location)
}

func (s *SnapshotStore) List(ctx context.Context) ([]string, error) {
	return s.ListFn(ctx)
}
