package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakvcs/oak/pkg/object"
	"github.com/oakvcs/oak/pkg/repo"
)

func newCatFileCmd() *cobra.Command {
	var showType bool

	cmd := &cobra.Command{
		Use:   "cat-file <oid>",
		Short: "Print a stored object (a prefix disambiguates)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			id, err := resolveOidArg(r, args[0])
			if err != nil {
				return err
			}

			objType, data, err := r.Store.Read(id)
			if err != nil {
				return err
			}

			if showType {
				fmt.Fprintln(cmd.OutOrStdout(), objType)
				return nil
			}
			cmd.OutOrStdout().Write(data)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object's type instead of its content")
	return cmd
}

// resolveOidArg parses a user-supplied oid or prefix and expands it against
// the store.
func resolveOidArg(r *repo.Repo, arg string) (object.Oid, error) {
	id, err := object.ParseOid(arg)
	if err != nil {
		return "", err
	}
	return r.Store.ResolvePrefix(id)
}
