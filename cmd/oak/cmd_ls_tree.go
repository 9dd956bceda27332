package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/oakvcs/oak/pkg/object"
	"github.com/oakvcs/oak/pkg/repo"
	"github.com/oakvcs/oak/pkg/tree"
)

func newLsTreeCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls-tree <tree-oid> [path]",
		Short: "List the entries of a stored tree",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			id, err := resolveOidArg(r, args[0])
			if err != nil {
				return err
			}

			t, err := r.LoadTree(ctx, id)
			if err != nil {
				return err
			}

			if len(args) == 2 {
				entry, ok, err := t.Lookup(ctx, r.TreeStore(), args[1])
				if err != nil {
					return err
				}
				if !ok {
					return errors.Errorf("path %q not found in %s", args[1], id.Short())
				}
				sub, isSub := entry.(tree.SubtreeEntry)
				if !isSub {
					return errors.Errorf("path %q is not a directory", args[1])
				}
				if t, err = sub.Load(ctx, r.TreeStore()); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if recursive {
				flat, err := repo.FlattenTree(ctx, r.TreeStore(), t)
				if err != nil {
					return err
				}
				lines := lo.Map(flat, func(e repo.FlatEntry, _ int) string {
					return fmt.Sprintf("%s blob %s\t%s", modeOf(e.Executable), e.Oid, e.Path)
				})
				fmt.Fprintln(out, strings.Join(lines, "\n"))
				return nil
			}

			for _, ne := range t.Entries() {
				eid, _ := entryOid(ne.Entry)
				fmt.Fprintf(out, "%s %s %s\t%s\n", ne.Entry.Mode(), typeOf(ne.Entry), eid, ne.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into subtrees, listing blob paths")
	return cmd
}

func modeOf(executable bool) object.Mode {
	if executable {
		return object.ModeExecutable
	}
	return object.ModeFile
}

func typeOf(e tree.Entry) object.ObjectType {
	if _, ok := e.(tree.SubtreeEntry); ok {
		return object.TypeTree
	}
	return object.TypeBlob
}

func entryOid(e tree.Entry) (object.Oid, bool) {
	switch e := e.(type) {
	case tree.SubtreeEntry:
		return e.Tree.ID()
	case tree.BlobEntry:
		return e.Blob.ID()
	}
	return "", false
}
