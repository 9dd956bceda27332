package tree_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakvcs/oak/pkg/tree"
)

func TestSplitPath(t *testing.T) {
	parts, err := tree.SplitPath("a/b/c.txt")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c.txt"}, parts)

	parts, err = tree.SplitPath("")
	require.NoError(t, err)
	require.Empty(t, parts)

	for _, bad := range []string{"/a", "a/", "a//b", "/"} {
		_, err := tree.SplitPath(bad)
		assert.ErrorIs(t, err, tree.ErrInvalidPath, "path %q", bad)
	}
}

func TestUpdateThenLookup(t *testing.T) {
	ctx := testCtx()
	store := newMemStore()

	t0 := tree.New()
	t1, err := t0.Update(ctx, store, "a/b.txt", blobEntry("hello", false))
	require.NoError(t, err)

	// The original stays empty and valid.
	require.Equal(t, 0, t0.Len())

	e, ok, err := t1.Lookup(ctx, store, "a/b.txt")
	require.NoError(t, err)
	require.True(t, ok)
	be, isBlob := e.(tree.BlobEntry)
	require.True(t, isBlob)
	assert.False(t, be.Executable)

	e, ok, err = t1.Lookup(ctx, store, "a")
	require.NoError(t, err)
	require.True(t, ok)
	_, isSub := e.(tree.SubtreeEntry)
	assert.True(t, isSub)

	_, ok, err = t1.Lookup(ctx, store, "a/c.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupEmptyPathIsTheTreeItself(t *testing.T) {
	ctx := testCtx()
	store := newMemStore()

	t1, err := tree.New().Update(ctx, store, "x.txt", blobEntry("x", false))
	require.NoError(t, err)

	e, ok, err := t1.Lookup(ctx, store, "")
	require.NoError(t, err)
	require.True(t, ok)
	sub, isSub := e.(tree.SubtreeEntry)
	require.True(t, isSub)
	obj, resident := sub.Tree.Object()
	require.True(t, resident)
	assert.Same(t, t1, obj)
}

func TestUpdateCreatesIntermediates(t *testing.T) {
	ctx := testCtx()
	store := newMemStore()

	t1, err := tree.New().Update(ctx, store, "a/b/c/d.txt", blobEntry("deep", true))
	require.NoError(t, err)

	for _, p := range []string{"a", "a/b", "a/b/c"} {
		e, ok, err := t1.Lookup(ctx, store, p)
		require.NoError(t, err)
		require.True(t, ok, "path %q", p)
		_, isSub := e.(tree.SubtreeEntry)
		require.True(t, isSub, "path %q", p)
	}

	e, ok, err := t1.Lookup(ctx, store, "a/b/c/d.txt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, e.(tree.BlobEntry).Executable)
}

func TestMissingIntermediateWithoutCreate(t *testing.T) {
	ctx := testCtx()
	store := newMemStore()

	_, err := tree.New().Modify(ctx, store, "x/y", false, func(tree.Entry) (tree.Entry, error) {
		return blobEntry("y", false), nil
	})
	require.ErrorIs(t, err, tree.ErrTreeLookup)
}

func TestRemovePrunesEmptyDirectories(t *testing.T) {
	ctx := testCtx()
	store := newMemStore()

	t1, err := tree.New().Update(ctx, store, "a/b.txt", blobEntry("hello", false))
	require.NoError(t, err)

	t2, err := t1.Remove(ctx, store, "a/b.txt")
	require.NoError(t, err)

	// The emptied directory disappears entirely, it is not replaced with an
	// empty-subtree reference.
	_, ok, err := t2.Lookup(ctx, store, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, t2.Len())

	// The original version still has the file.
	_, ok, err = t1.Lookup(ctx, store, "a/b.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRemoveKeepsNonEmptyDirectories(t *testing.T) {
	ctx := testCtx()
	store := newMemStore()

	t1, err := tree.New().Update(ctx, store, "a/b.txt", blobEntry("b", false))
	require.NoError(t, err)
	t1, err = t1.Update(ctx, store, "a/c.txt", blobEntry("c", false))
	require.NoError(t, err)

	t2, err := t1.Remove(ctx, store, "a/b.txt")
	require.NoError(t, err)

	_, ok, err := t2.Lookup(ctx, store, "a/c.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = t2.Lookup(ctx, store, "a/b.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlobTraversalGuard(t *testing.T) {
	ctx := testCtx()
	store := newMemStore()

	t1, err := tree.New().Update(ctx, store, "a/b.txt", blobEntry("hello", false))
	require.NoError(t, err)

	_, _, err = t1.Lookup(ctx, store, "a/b.txt/nested")
	require.ErrorIs(t, err, tree.ErrBlobTraversal)

	_, err = t1.Update(ctx, store, "a/b.txt/nested", blobEntry("x", false))
	require.ErrorIs(t, err, tree.ErrBlobTraversal)

	_, err = t1.Remove(ctx, store, "a/b.txt/nested")
	require.ErrorIs(t, err, tree.ErrBlobTraversal)
}

func TestModifyUserErrorPropagatesVerbatim(t *testing.T) {
	ctx := testCtx()
	store := newMemStore()
	rejected := errors.New("rejected")

	t0 := tree.New()
	_, err := t0.Modify(ctx, store, "x", false, func(tree.Entry) (tree.Entry, error) {
		return nil, rejected
	})
	require.ErrorIs(t, err, rejected)

	// The tree was not touched and remains usable.
	require.Equal(t, 0, t0.Len())
	t1, err := t0.Update(ctx, store, "x", blobEntry("ok", false))
	require.NoError(t, err)
	require.Equal(t, 1, t1.Len())
}

func TestModifyUserErrorDeepInPath(t *testing.T) {
	ctx := testCtx()
	store := newMemStore()
	rejected := errors.New("no thanks")

	t1, err := tree.New().Update(ctx, store, "a/b/c.txt", blobEntry("c", false))
	require.NoError(t, err)

	_, err = t1.Modify(ctx, store, "a/b/c.txt", false, func(tree.Entry) (tree.Entry, error) {
		return nil, rejected
	})
	require.ErrorIs(t, err, rejected)

	// No level along the path was modified.
	_, ok, err := t1.Lookup(ctx, store, "a/b/c.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestModifyEmptyPathFails(t *testing.T) {
	ctx := testCtx()
	store := newMemStore()

	_, err := tree.New().Modify(ctx, store, "", true, func(tree.Entry) (tree.Entry, error) {
		return nil, nil
	})
	require.ErrorIs(t, err, tree.ErrTreeLookup)
}

func TestModifySeesCurrentEntry(t *testing.T) {
	ctx := testCtx()
	store := newMemStore()

	t1, err := tree.New().Update(ctx, store, "f.txt", blobEntry("old", false))
	require.NoError(t, err)

	var saw tree.Entry
	t2, err := t1.Modify(ctx, store, "f.txt", false, func(cur tree.Entry) (tree.Entry, error) {
		saw = cur
		return blobEntry("new", true), nil
	})
	require.NoError(t, err)
	require.NotNil(t, saw)
	_, wasBlob := saw.(tree.BlobEntry)
	assert.True(t, wasBlob)

	e, ok, err := t2.Lookup(ctx, store, "f.txt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, e.(tree.BlobEntry).Executable)
}

func TestAncestorInvalidation(t *testing.T) {
	ctx := testCtx()
	store := newMemStore()

	t1, err := tree.New().Update(ctx, store, "a/b/file.txt", blobEntry("f", false))
	require.NoError(t, err)
	t1, err = t1.Update(ctx, store, "z/keep.txt", blobEntry("k", false))
	require.NoError(t, err)

	s1, err := t1.Persist(ctx, store)
	require.NoError(t, err)
	_, stored := s1.Oid()
	require.True(t, stored)

	s2, err := s1.Update(ctx, store, "a/b/other.txt", blobEntry("o", false))
	require.NoError(t, err)

	// Every tree rebuilt along the path lost its stored identity.
	_, stored = s2.Oid()
	assert.False(t, stored)
	for _, p := range []string{"a", "a/b"} {
		e, ok, err := s2.Lookup(ctx, store, p)
		require.NoError(t, err)
		require.True(t, ok)
		sub := e.(tree.SubtreeEntry)
		obj, resident := sub.Tree.Object()
		require.True(t, resident, "path %q", p)
		_, stored := obj.Oid()
		assert.False(t, stored, "path %q should be pending", p)
	}

	// The untouched sibling subtree still carries its stored identity.
	e, ok, err := s2.Lookup(ctx, store, "z")
	require.NoError(t, err)
	require.True(t, ok)
	_, hasID := e.(tree.SubtreeEntry).Tree.ID()
	assert.True(t, hasID)
}

func TestRemoveAbsentNameStillRepends(t *testing.T) {
	ctx := testCtx()
	store := newMemStore()

	t1, err := tree.New().Update(ctx, store, "f.txt", blobEntry("f", false))
	require.NoError(t, err)
	s1, err := t1.Persist(ctx, store)
	require.NoError(t, err)

	s2, err := s1.Remove(ctx, store, "nope")
	require.NoError(t, err)
	_, stored := s2.Oid()
	assert.False(t, stored)
	assert.Equal(t, s1.Len(), s2.Len())
}
