// Package tree implements a content-addressed, hierarchical directory tree
// with lazy materialization, path-based copy-on-write mutation, and
// concurrent bottom-up persistence.
//
// A Tree is a persistent value: every mutation returns a new, independently
// valid Tree sharing untouched subtrees with the original. A Tree whose
// identity is unknown is pending; persisting it assigns content identities
// bottom-up through the store's builder collaborator.
package tree

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/oakvcs/oak/pkg/object"
)

// Tree is an ordered-by-name mapping from path component to Entry, plus an
// identity: the zero oid means the tree is pending (dirty, not yet
// persisted), a full oid means it is stored and immutable in the store.
type Tree struct {
	id      object.Oid
	entries []namedEntry
}

type namedEntry struct {
	name  string
	entry Entry
}

// NamedEntry pairs a child name with its entry for iteration.
type NamedEntry struct {
	Name  string
	Entry Entry
}

// New returns an empty pending tree.
func New() *Tree {
	return &Tree{}
}

// Load reads a stored tree from the store. Children start as by-id
// references and are materialized on demand.
func Load(ctx context.Context, store Store, id object.Oid) (*Tree, error) {
	if !id.IsFull() {
		return nil, errors.Wrapf(ErrPartialOid, "%s", id)
	}
	raw, err := store.LookupTree(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(ErrObjectLookup, "tree %s: %s", id, err)
	}
	if raw == nil {
		return nil, errors.Wrapf(ErrObjectLookup, "tree %s", id)
	}

	t := &Tree{
		id:      id,
		entries: make([]namedEntry, 0, len(raw.Entries)),
	}
	for _, re := range raw.Entries {
		e, err := entryFromRaw(re)
		if err != nil {
			return nil, errors.Wrapf(err, "tree %s", id)
		}
		t.entries = append(t.entries, namedEntry{name: re.Name, entry: e})
	}
	sort.Slice(t.entries, func(i, j int) bool {
		return t.entries[i].name < t.entries[j].name
	})
	return t, nil
}

func entryFromRaw(re object.RawTreeEntry) (Entry, error) {
	switch re.Mode {
	case object.ModeDir:
		ref, err := ByID[Tree](re.Oid)
		if err != nil {
			return nil, err
		}
		return SubtreeEntry{Tree: ref}, nil
	case object.ModeFile, object.ModeExecutable:
		ref, err := ByID[object.Blob](re.Oid)
		if err != nil {
			return nil, err
		}
		return BlobEntry{Blob: ref, Executable: re.Mode == object.ModeExecutable}, nil
	default:
		return nil, errors.Wrapf(ErrObjectLookup, "entry %q: unknown mode %q", re.Name, re.Mode)
	}
}

// Oid returns the stored identity, if the tree has been persisted.
func (t *Tree) Oid() (object.Oid, bool) {
	return t.id, t.id != ""
}

// Len returns the number of direct children.
func (t *Tree) Len() int {
	return len(t.entries)
}

// Get returns the entry stored under name.
func (t *Tree) Get(name string) (Entry, bool) {
	i := t.search(name)
	if i < len(t.entries) && t.entries[i].name == name {
		return t.entries[i].entry, true
	}
	return nil, false
}

// Entries returns the children in name order.
func (t *Tree) Entries() []NamedEntry {
	out := make([]NamedEntry, len(t.entries))
	for i, ne := range t.entries {
		out[i] = NamedEntry{Name: ne.name, Entry: ne.entry}
	}
	return out
}

func (t *Tree) search(name string) int {
	return sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].name >= name
	})
}

// with returns a new pending tree binding name to e. The receiver is left
// untouched; unmodified siblings are shared.
func (t *Tree) with(name string, e Entry) *Tree {
	i := t.search(name)
	if i < len(t.entries) && t.entries[i].name == name {
		entries := make([]namedEntry, len(t.entries))
		copy(entries, t.entries)
		entries[i] = namedEntry{name: name, entry: e}
		return &Tree{entries: entries}
	}
	entries := make([]namedEntry, 0, len(t.entries)+1)
	entries = append(entries, t.entries[:i]...)
	entries = append(entries, namedEntry{name: name, entry: e})
	entries = append(entries, t.entries[i:]...)
	return &Tree{entries: entries}
}

// without returns a new pending tree with name absent. Deleting an absent
// name still yields a fresh pending value: no cheap deep-equality test is
// assumed, so a rebuilt tree never keeps a stored identity.
func (t *Tree) without(name string) *Tree {
	i := t.search(name)
	if i >= len(t.entries) || t.entries[i].name != name {
		return &Tree{entries: t.entries}
	}
	entries := make([]namedEntry, 0, len(t.entries)-1)
	entries = append(entries, t.entries[:i]...)
	entries = append(entries, t.entries[i+1:]...)
	return &Tree{entries: entries}
}
