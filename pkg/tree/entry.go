package tree

import (
	"context"

	"github.com/pkg/errors"

	"github.com/oakvcs/oak/pkg/object"
)

// Entry is one named child of a tree: a blob leaf or a subtree reference.
type Entry interface {
	// Mode returns the store mode the entry persists under.
	Mode() object.Mode

	sealedEntry()
}

// BlobEntry is a leaf reference with an executable flag. The flag is fixed
// at construction; changing the shape of a name means replacing its entry,
// never mutating it.
type BlobEntry struct {
	Blob       Ref[object.Blob]
	Executable bool
}

func (e BlobEntry) Mode() object.Mode {
	if e.Executable {
		return object.ModeExecutable
	}
	return object.ModeFile
}

func (BlobEntry) sealedEntry() {}

// Load materializes the referenced blob.
func (e BlobEntry) Load(ctx context.Context, store Store) (*object.Blob, error) {
	return e.Blob.resolve(ctx, func(ctx context.Context, id object.Oid) (*object.Blob, error) {
		b, err := store.LookupBlob(ctx, id)
		if err != nil {
			return nil, errors.Wrapf(ErrObjectLookup, "blob %s: %s", id, err)
		}
		return b, nil
	})
}

// SubtreeEntry references a child tree.
type SubtreeEntry struct {
	Tree Ref[Tree]
}

func (SubtreeEntry) Mode() object.Mode {
	return object.ModeDir
}

func (SubtreeEntry) sealedEntry() {}

// Load materializes the referenced tree.
func (e SubtreeEntry) Load(ctx context.Context, store Store) (*Tree, error) {
	return e.Tree.resolve(ctx, func(ctx context.Context, id object.Oid) (*Tree, error) {
		return Load(ctx, store, id)
	})
}
