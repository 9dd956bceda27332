package tree

import (
	"context"

	"github.com/oakvcs/oak/pkg/object"
)

// Store is the object-store surface the tree core depends on. Lookups
// report a missing object as (nil, nil). Implementations must tolerate
// concurrent independent calls: sibling entries persist in parallel.
type Store interface {
	// LookupTree returns the child (name, id, mode) triples of a stored
	// tree identity.
	LookupTree(ctx context.Context, id object.Oid) (*object.RawTree, error)

	// LookupBlob resolves a blob reference; the payload is opaque here.
	LookupBlob(ctx context.Context, id object.Oid) (*object.Blob, error)

	// PersistBlob stores a blob and returns its content oid. Assumed
	// content-addressed and idempotent.
	PersistBlob(ctx context.Context, b *object.Blob) (object.Oid, error)

	// NewTreeBuilder creates a builder staging one new tree manifest.
	NewTreeBuilder(ctx context.Context) (TreeBuilder, error)
}

// TreeBuilder stages (name, id, mode) triples and finalizes them into one
// new tree identity. Insertion order carries no meaning.
type TreeBuilder interface {
	Insert(name string, id object.Oid, mode object.Mode) error
	Write(ctx context.Context) (object.Oid, error)
}
