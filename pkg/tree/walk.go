package tree

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// SplitPath splits a conventional slash-separated path into components.
// The empty string denotes the tree itself. Empty components ("a//b", a
// leading or trailing slash) fail with ErrInvalidPath.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	parts := strings.Split(path, "/")
	for _, p := range parts {
		if p == "" {
			return nil, errors.Wrapf(ErrInvalidPath, "%q", path)
		}
	}
	return parts, nil
}

// Lookup descends path through t, materializing subtree references as
// needed. An absent name yields (nil, false, nil). The empty path denotes
// the tree itself and yields a synthetic subtree entry wrapping t.
// Descending through a blob fails with ErrBlobTraversal.
func (t *Tree) Lookup(ctx context.Context, store Store, path string) (Entry, bool, error) {
	parts, err := SplitPath(path)
	if err != nil {
		return nil, false, err
	}
	return t.lookup(ctx, store, parts)
}

func (t *Tree) lookup(ctx context.Context, store Store, parts []string) (Entry, bool, error) {
	if len(parts) == 0 {
		return SubtreeEntry{Tree: ByObject(t)}, true, nil
	}

	e, ok := t.Get(parts[0])
	if !ok {
		return nil, false, nil
	}
	if len(parts) == 1 {
		return e, true, nil
	}

	sub, isSub := e.(SubtreeEntry)
	if !isSub {
		return nil, false, errors.Wrapf(ErrBlobTraversal, "%q", parts[0])
	}
	child, err := sub.Load(ctx, store)
	if err != nil {
		return nil, false, err
	}
	return child.lookup(ctx, store, parts[1:])
}

// Transform inspects the entry currently at the target name — nil when
// absent — and returns its replacement, or nil to delete the name. An error
// aborts the whole modification; it reaches the caller verbatim and no tree
// along the path is touched.
type Transform func(Entry) (Entry, error)

// Modify rewrites the entry at path and returns a new pending tree sharing
// every untouched subtree with t. Every tree rebuilt along the path loses
// its stored identity, and a subtree emptied by the change is deleted from
// its parent outright. When createMissing is set, absent intermediate
// directories are synthesized on the way down; otherwise their absence
// fails with ErrTreeLookup. The empty path is not a valid target.
func (t *Tree) Modify(ctx context.Context, store Store, path string, createMissing bool, fn Transform) (*Tree, error) {
	parts, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, errors.Wrap(ErrTreeLookup, "empty path")
	}
	return t.modify(ctx, store, parts, createMissing, fn)
}

func (t *Tree) modify(ctx context.Context, store Store, parts []string, createMissing bool, fn Transform) (*Tree, error) {
	name := parts[0]

	if len(parts) == 1 {
		cur, _ := t.Get(name)
		next, err := fn(cur)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return t.without(name), nil
		}
		return t.with(name, next), nil
	}

	var child *Tree
	e, ok := t.Get(name)
	switch {
	case !ok && createMissing:
		child = New()
	case !ok:
		return nil, errors.Wrapf(ErrTreeLookup, "%q not found", name)
	default:
		sub, isSub := e.(SubtreeEntry)
		if !isSub {
			return nil, errors.Wrapf(ErrBlobTraversal, "%q", name)
		}
		var err error
		child, err = sub.Load(ctx, store)
		if err != nil {
			return nil, err
		}
	}

	next, err := child.modify(ctx, store, parts[1:], createMissing, fn)
	if err != nil {
		return nil, err
	}
	if next.Len() == 0 {
		return t.without(name), nil
	}
	return t.with(name, SubtreeEntry{Tree: ByObject(next)}), nil
}

// Update binds entry at path, synthesizing any missing intermediate
// directories. Its transform never fails, so an error from Update is a
// traversal failure, not a user error.
func (t *Tree) Update(ctx context.Context, store Store, path string, entry Entry) (*Tree, error) {
	return t.Modify(ctx, store, path, true, func(Entry) (Entry, error) {
		return entry, nil
	})
}

// Remove deletes the entry at path, pruning any directory the deletion
// empties. Like Update, it never produces a user error.
func (t *Tree) Remove(ctx context.Context, store Store, path string) (*Tree, error) {
	return t.Modify(ctx, store, path, false, func(Entry) (Entry, error) {
		return nil, nil
	})
}
