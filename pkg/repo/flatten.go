package repo

import (
	"context"
	"path"

	"github.com/samber/lo"

	"github.com/oakvcs/oak/pkg/object"
	"github.com/oakvcs/oak/pkg/tree"
)

// FlatEntry is one blob reachable from a tree root, with its full
// forward-slash path.
type FlatEntry struct {
	Path       string
	Oid        object.Oid
	Executable bool
}

// FlattenTree walks a tree recursively, returning every blob entry with its
// full path. Subtrees are materialized through the store as the walk
// descends.
func FlattenTree(ctx context.Context, store tree.Store, t *tree.Tree) ([]FlatEntry, error) {
	return flattenTreeRec(ctx, store, t, "")
}

func flattenTreeRec(ctx context.Context, store tree.Store, t *tree.Tree, prefix string) ([]FlatEntry, error) {
	var result []FlatEntry
	for _, ne := range t.Entries() {
		fullPath := ne.Name
		if prefix != "" {
			fullPath = path.Join(prefix, ne.Name)
		}

		switch e := ne.Entry.(type) {
		case tree.SubtreeEntry:
			child, err := e.Load(ctx, store)
			if err != nil {
				return nil, err
			}
			sub, err := flattenTreeRec(ctx, store, child, fullPath)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
		case tree.BlobEntry:
			id, _ := e.Blob.ID()
			result = append(result, FlatEntry{
				Path:       fullPath,
				Oid:        id,
				Executable: e.Executable,
			})
		}
	}
	return result, nil
}

// FlatPaths returns just the paths of a flattened listing.
func FlatPaths(entries []FlatEntry) []string {
	return lo.Map(entries, func(e FlatEntry, _ int) string {
		return e.Path
	})
}
