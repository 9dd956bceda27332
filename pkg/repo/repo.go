package repo

import (
	"context"

	"github.com/oakvcs/oak/pkg/object"
	"github.com/oakvcs/oak/pkg/tree"
)

// Repo represents an opened Oak repository.
type Repo struct {
	RootDir string        // working directory root
	OakDir  string        // .oak/ directory
	Store   *object.Store // content-addressed object store
}

// treeStore adapts object.Store to the tree core's collaborator surface.
// Lookups and blob persistence promote straight from the embedded store;
// only the builder factory needs its concrete return type lifted to the
// interface.
type treeStore struct {
	*object.Store
}

func (s treeStore) NewTreeBuilder(ctx context.Context) (tree.TreeBuilder, error) {
	b, err := s.Store.NewTreeBuilder(ctx)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// TreeStore returns the repository's object store as the tree core sees it.
func (r *Repo) TreeStore() tree.Store {
	return treeStore{r.Store}
}

// NewTree returns an empty pending tree for this repository.
func (r *Repo) NewTree() *tree.Tree {
	return tree.New()
}

// LoadTree opens a stored tree by oid.
func (r *Repo) LoadTree(ctx context.Context, id object.Oid) (*tree.Tree, error) {
	return tree.Load(ctx, r.TreeStore(), id)
}
