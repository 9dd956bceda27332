package tree_test

import (
	"context"
	"sync"

	"github.com/outofforest/logger"

	"github.com/oakvcs/oak/pkg/object"
	"github.com/oakvcs/oak/pkg/tree"
)

// testCtx returns a context carrying a logger, which the parallel
// library used by Tree.Persist requires.
func testCtx() context.Context {
	return logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig))
}

// memStore is an in-memory tree.Store recording interaction counts, so
// tests can assert that an operation touched the store exactly as often as
// promised.
type memStore struct {
	mu    sync.Mutex
	blobs map[object.Oid]*object.Blob
	trees map[object.Oid]*object.RawTree

	lookups int
	writes  int

	failCreate error
	failInsert error
	failWrite  error
}

func newMemStore() *memStore {
	return &memStore{
		blobs: map[object.Oid]*object.Blob{},
		trees: map[object.Oid]*object.RawTree{},
	}
}

func (s *memStore) counts() (lookups, writes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups, s.writes
}

func (s *memStore) LookupTree(_ context.Context, id object.Oid) (*object.RawTree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	return s.trees[id], nil
}

func (s *memStore) LookupBlob(_ context.Context, id object.Oid) (*object.Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	return s.blobs[id], nil
}

func (s *memStore) PersistBlob(_ context.Context, b *object.Blob) (object.Oid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	id := object.HashObject(object.TypeBlob, object.MarshalBlob(b))
	s.blobs[id] = b
	return id, nil
}

func (s *memStore) NewTreeBuilder(_ context.Context) (tree.TreeBuilder, error) {
	if s.failCreate != nil {
		return nil, s.failCreate
	}
	return &memBuilder{store: s, entries: map[string]object.RawTreeEntry{}}, nil
}

type memBuilder struct {
	store   *memStore
	entries map[string]object.RawTreeEntry
}

func (b *memBuilder) Insert(name string, id object.Oid, mode object.Mode) error {
	if b.store.failInsert != nil {
		return b.store.failInsert
	}
	b.entries[name] = object.RawTreeEntry{Name: name, Mode: mode, Oid: id}
	return nil
}

func (b *memBuilder) Write(_ context.Context) (object.Oid, error) {
	if b.store.failWrite != nil {
		return "", b.store.failWrite
	}
	tr := &object.RawTree{}
	for _, e := range b.entries {
		tr.Entries = append(tr.Entries, e)
	}
	data := object.MarshalRawTree(tr)
	canonical, err := object.UnmarshalRawTree(data)
	if err != nil {
		return "", err
	}
	id := object.HashObject(object.TypeTree, data)

	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	b.store.writes++
	b.store.trees[id] = canonical
	return id, nil
}

func blobEntry(data string, executable bool) tree.BlobEntry {
	return tree.BlobEntry{
		Blob:       tree.ByObject(&object.Blob{Data: []byte(data)}),
		Executable: executable,
	}
}
