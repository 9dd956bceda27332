package tree

import (
	"context"

	"github.com/outofforest/parallel"
	"github.com/pkg/errors"

	"github.com/oakvcs/oak/pkg/object"
)

type persisted struct {
	entry Entry
	id    object.Oid
	mode  object.Mode
	prune bool
}

// Persist writes t and every pending descendant to the store, children
// strictly before parents, and returns a new stored tree whose entries are
// materialized and stored. An already-stored tree is returned unchanged
// without touching the store, and an empty tree is never written. Sibling
// entries persist concurrently; the first failure cancels the remaining
// siblings and no tree value is returned.
func (t *Tree) Persist(ctx context.Context, store Store) (*Tree, error) {
	if t.id != "" {
		return t, nil
	}
	if len(t.entries) == 0 {
		return t, nil
	}

	results := make([]persisted, len(t.entries))
	err := parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		for i := range t.entries {
			i := i // per-iteration copy; required while building with pre-1.22 loop semantics
			ne := t.entries[i]
			spawn("entry-"+ne.name, parallel.Continue, func(ctx context.Context) error {
				p, err := persistEntry(ctx, store, ne.entry)
				if err != nil {
					return errors.Wrapf(err, "persist %q", ne.name)
				}
				results[i] = p
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	next := &Tree{entries: make([]namedEntry, 0, len(t.entries))}
	for i, ne := range t.entries {
		if results[i].prune {
			continue
		}
		next.entries = append(next.entries, namedEntry{name: ne.name, entry: results[i].entry})
	}
	if len(next.entries) == 0 {
		// Every child pruned to empty; the parent prunes this tree in turn.
		return next, nil
	}

	builder, err := store.NewTreeBuilder(ctx)
	if err != nil {
		return nil, errors.Wrapf(ErrBuilderCreate, "%s", err)
	}
	for i, ne := range t.entries {
		if results[i].prune {
			continue
		}
		if err := builder.Insert(ne.name, results[i].id, results[i].mode); err != nil {
			return nil, errors.Wrapf(ErrBuilderInsert, "%q: %s", ne.name, err)
		}
	}

	id, err := builder.Write(ctx)
	if err != nil {
		return nil, errors.Wrapf(ErrBuilderWrite, "%s", err)
	}
	next.id = id
	return next, nil
}

// persistEntry resolves one child and persists the referenced object,
// yielding its stored identity, file mode, and a rebuilt entry exposing the
// materialized object.
func persistEntry(ctx context.Context, store Store, e Entry) (persisted, error) {
	switch e := e.(type) {
	case BlobEntry:
		blob, err := e.Load(ctx, store)
		if err != nil {
			return persisted{}, err
		}
		id, err := store.PersistBlob(ctx, blob)
		if err != nil {
			return persisted{}, errors.Wrap(err, "persist blob")
		}
		return persisted{
			entry: BlobEntry{Blob: resolvedRef(blob, id), Executable: e.Executable},
			id:    id,
			mode:  e.Mode(),
		}, nil

	case SubtreeEntry:
		child, err := e.Load(ctx, store)
		if err != nil {
			return persisted{}, err
		}
		next, err := child.Persist(ctx, store)
		if err != nil {
			return persisted{}, err
		}
		id, ok := next.Oid()
		if !ok {
			// Only an empty subtree finishes persistence without an
			// identity; it must not be referenced by the parent.
			return persisted{prune: true}, nil
		}
		return persisted{
			entry: SubtreeEntry{Tree: resolvedRef(next, id)},
			id:    id,
			mode:  object.ModeDir,
		}, nil

	default:
		return persisted{}, errors.Errorf("unknown entry type %T", e)
	}
}
