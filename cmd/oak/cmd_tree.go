package main

import (
	"fmt"

	"github.com/outofforest/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oakvcs/oak/pkg/object"
	"github.com/oakvcs/oak/pkg/repo"
	"github.com/oakvcs/oak/pkg/tree"
)

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Build new trees from existing ones",
	}
	cmd.AddCommand(newTreePutCmd())
	cmd.AddCommand(newTreeRmCmd())
	return cmd
}

func newTreePutCmd() *cobra.Command {
	var executable bool

	cmd := &cobra.Command{
		Use:   `put <tree-oid|-> <path> <blob-oid>`,
		Short: "Bind a blob at a path and print the new root oid",
		Long: `Put rewrites a tree so that <path> refers to <blob-oid>, creating
intermediate directories as needed, persists the result, and prints the new
root oid. Pass "-" as the tree to start from an empty tree. The source tree
is never modified.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			t, err := baseTree(cmd, r, args[0])
			if err != nil {
				return err
			}

			blobOid, err := resolveOidArg(r, args[2])
			if err != nil {
				return err
			}
			ref, err := tree.ByID[object.Blob](blobOid)
			if err != nil {
				return err
			}

			next, err := t.Update(ctx, r.TreeStore(), args[1], tree.BlobEntry{
				Blob:       ref,
				Executable: executable,
			})
			if err != nil {
				return err
			}
			stored, err := next.Persist(ctx, r.TreeStore())
			if err != nil {
				return err
			}

			id, _ := stored.Oid()
			logger.Get(ctx).Debug("tree put",
				zap.String("path", args[1]),
				zap.String("root", id.String()),
			)
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&executable, "exec", false, "mark the blob executable")
	return cmd
}

func newTreeRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <tree-oid> <path>",
		Short: "Remove a path from a tree and print the new root oid",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			t, err := baseTree(cmd, r, args[0])
			if err != nil {
				return err
			}

			next, err := t.Remove(ctx, r.TreeStore(), args[1])
			if err != nil {
				return err
			}
			stored, err := next.Persist(ctx, r.TreeStore())
			if err != nil {
				return err
			}

			if id, ok := stored.Oid(); ok {
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "tree is empty")
			return nil
		},
	}
}

// baseTree loads the starting tree for a mutation; "-" means an empty one.
func baseTree(cmd *cobra.Command, r *repo.Repo, arg string) (*tree.Tree, error) {
	if arg == "-" {
		return r.NewTree(), nil
	}
	id, err := resolveOidArg(r, arg)
	if err != nil {
		return nil, errors.Wrapf(err, "tree %q", arg)
	}
	return r.LoadTree(cmd.Context(), id)
}
