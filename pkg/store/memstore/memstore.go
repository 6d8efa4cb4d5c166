// Package memstore is an in-memory store.Store. It backs tests and offline
// runs against a snapshot directory of exported collections.
package memstore

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"sync"

	"github.com/spf13/afero"

	"github.com/agentstation/flowcheck/pkg/files"
	"github.com/agentstation/flowcheck/pkg/store"
)

// KeyField is the field used as record key in snapshot files when present.
const KeyField = "__key__"

// Store holds collections in memory.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]store.Record
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{collections: make(map[string][]store.Record)}
}

// Put appends records to a collection.
func (s *Store) Put(collection string, records ...store.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], records...)
}

// PutFields appends records built from plain field maps, keyed by position.
func (s *Store) PutFields(collection string, docs ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := len(s.collections[collection])
	for i, doc := range docs {
		s.collections[collection] = append(s.collections[collection], toRecord(base+i, doc))
	}
}

// Collections returns the number of collections held.
func (s *Store) Collections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections)
}

// Get implements store.Store. An unknown collection has no records.
func (s *Store) Get(ctx context.Context, collection string, q store.Query) ([]store.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.Apply(s.collections[collection], q), nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return nil
}

// LoadDir loads a snapshot directory. Every <collection>.json (or .yaml) file
// holds an array of objects; an object's __key__ field becomes its record key.
func LoadDir(fsys afero.Fs, dir string) (*Store, error) {
	names, err := files.ListFileNames(fsys, dir, "*.{json,yaml,yml}")
	if err != nil {
		return nil, err
	}

	s := New()
	for _, name := range names {
		var docs []map[string]any
		if err := files.ReadJSONFile(fsys, path.Join(dir, name), &docs); err != nil {
			return nil, err
		}
		s.PutFields(files.BaseName(name), docs...)
	}
	return s, nil
}

func toRecord(index int, doc map[string]any) store.Record {
	key := strconv.Itoa(index)
	fields := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == KeyField {
			key = fmt.Sprint(v)
			continue
		}
		fields[k] = v
	}
	return store.Record{Key: key, Fields: fields}
}
