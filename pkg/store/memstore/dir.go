package memstore

import (
	"context"

	"github.com/spf13/afero"

	"github.com/agentstation/flowcheck/pkg/logging"
	"github.com/agentstation/flowcheck/pkg/store"
)

// DirStore serves a snapshot directory, reading it again on every query so
// edits to the snapshot are visible to the next run.
type DirStore struct {
	fs  afero.Fs
	dir string
}

var _ store.Store = (*DirStore)(nil)

// NewDirStore returns a store backed by the snapshot directory dir.
func NewDirStore(fsys afero.Fs, dir string) *DirStore {
	return &DirStore{fs: fsys, dir: dir}
}

// Get implements store.Store.
func (d *DirStore) Get(ctx context.Context, collection string, q store.Query) ([]store.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := LoadDir(d.fs, d.dir)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug().
		Str("dir", d.dir).
		Int("collections", s.Collections()).
		Msg("Loaded reference store snapshot")

	return s.Get(ctx, collection, q)
}

// Close implements store.Store.
func (d *DirStore) Close() error {
	return nil
}
