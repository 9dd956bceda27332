package object

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// TreeBuilder accumulates (name, id, mode) triples and finalizes them into
// one new stored tree identity. Insertion order does not matter; the
// manifest is canonicalized by name when written. A builder stages entries
// in memory only, so abandoning one has no effect on the store.
type TreeBuilder struct {
	store   *Store
	entries map[string]RawTreeEntry
}

// NewTreeBuilder creates an empty builder backed by the store.
func (s *Store) NewTreeBuilder(ctx context.Context) (*TreeBuilder, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	if s == nil || s.root == "" {
		return nil, errors.New("tree builder: store is not initialized")
	}
	return &TreeBuilder{
		store:   s,
		entries: make(map[string]RawTreeEntry),
	}, nil
}

// Insert stages one child triple. The name must be a single non-empty path
// component and the oid must be full. Inserting a name twice replaces the
// earlier triple.
func (b *TreeBuilder) Insert(name string, id Oid, mode Mode) error {
	if name == "" || strings.ContainsRune(name, '/') {
		return errors.Errorf("tree builder: invalid entry name %q", name)
	}
	if !id.IsFull() {
		return errors.Errorf("tree builder: entry %q: %s is not a full oid", name, id)
	}
	switch mode {
	case ModeDir, ModeFile, ModeExecutable:
	default:
		return errors.Errorf("tree builder: entry %q: unknown mode %q", name, mode)
	}
	b.entries[name] = RawTreeEntry{Name: name, Mode: mode, Oid: id}
	return nil
}

// Write finalizes the staged triples into a stored tree and returns its
// oid. An empty builder cannot be written: empty trees have no
// representation in the store.
func (b *TreeBuilder) Write(ctx context.Context) (Oid, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.WithStack(err)
	}
	if len(b.entries) == 0 {
		return "", errors.New("tree builder: refusing to write an empty tree")
	}
	tr := &RawTree{Entries: make([]RawTreeEntry, 0, len(b.entries))}
	for _, e := range b.entries {
		tr.Entries = append(tr.Entries, e)
	}
	return b.store.WriteRawTree(tr)
}
