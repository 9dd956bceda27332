package tree

import (
	"github.com/pkg/errors"
)

// Error kinds surfaced by the tree core. All are unrecoverable at the point
// of detection: no operation retries, and no operation returns a partially
// updated or partially persisted tree alongside one of these.
var (
	// ErrPartialOid reports an attempt to build a direct by-id reference
	// from a prefix identity.
	ErrPartialOid = errors.New("object reference requires a full oid")

	// ErrObjectLookup reports a by-id reference that could not be
	// materialized from the store.
	ErrObjectLookup = errors.New("object lookup failed")

	// ErrBlobTraversal reports a path that tries to descend through a blob
	// entry as though it were a directory.
	ErrBlobTraversal = errors.New("cannot traverse a blob entry")

	// ErrTreeLookup reports a required intermediate tree that was absent
	// with creation disallowed, or a structural precondition violation such
	// as modifying with an empty path.
	ErrTreeLookup = errors.New("tree lookup failed")

	// ErrInvalidPath reports a path string that does not decode into
	// non-empty slash-free components.
	ErrInvalidPath = errors.New("invalid path")

	// Builder failures during persistence, kept distinct because a failed
	// write leaves no guarantee about the store's staging state.
	ErrBuilderCreate = errors.New("tree builder create failed")
	ErrBuilderInsert = errors.New("tree builder insert failed")
	ErrBuilderWrite  = errors.New("tree builder write failed")
)
