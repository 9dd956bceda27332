package tree

import (
	"context"

	"github.com/pkg/errors"

	"github.com/oakvcs/oak/pkg/object"
)

// Ref is a lazy reference: either an already-resident object or a deferred
// full-oid pointer that a store lookup materializes. A Ref is a value;
// resolution never mutates it, so callers retain the resolved object
// themselves if they want sharing.
type Ref[T any] struct {
	obj *T
	id  object.Oid
}

// ByObject returns a reference holding an in-memory object.
func ByObject[T any](obj *T) Ref[T] {
	return Ref[T]{obj: obj}
}

// ByID returns a deferred reference to a stored object. The oid must be
// full; a prefix fails with ErrPartialOid before any store access.
func ByID[T any](id object.Oid) (Ref[T], error) {
	if !id.IsFull() {
		return Ref[T]{}, errors.Wrapf(ErrPartialOid, "%s", id)
	}
	return Ref[T]{id: id}, nil
}

// resolvedRef pairs a materialized object with its stored identity. Used by
// the serializer so freshly persisted entries expose both.
func resolvedRef[T any](obj *T, id object.Oid) Ref[T] {
	return Ref[T]{obj: obj, id: id}
}

// Object returns the resident object, if the reference holds one.
func (r Ref[T]) Object() (*T, bool) {
	return r.obj, r.obj != nil
}

// ID returns the referenced oid, if known.
func (r Ref[T]) ID() (object.Oid, bool) {
	return r.id, r.id != ""
}

// resolve materializes the reference: zero store lookups for by-object
// refs, exactly one for by-id refs.
func (r Ref[T]) resolve(ctx context.Context, load func(context.Context, object.Oid) (*T, error)) (*T, error) {
	if r.obj != nil {
		return r.obj, nil
	}
	obj, err := load(ctx, r.id)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(ErrObjectLookup, "%s", r.id)
	}
	return obj, nil
}
