package main

import (
	"fmt"
	"os"

	"github.com/outofforest/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oakvcs/oak/pkg/object"
	"github.com/oakvcs/oak/pkg/repo"
)

func newHashObjectCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Compute a blob's oid, optionally storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "read %q", args[0])
			}

			if !write {
				fmt.Fprintln(cmd.OutOrStdout(), object.HashObject(object.TypeBlob, data))
				return nil
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			id, err := r.Store.WriteBlob(&object.Blob{Data: data})
			if err != nil {
				return err
			}
			logger.Get(cmd.Context()).Debug("stored blob",
				zap.String("oid", id.String()),
				zap.Int("size", len(data)),
			)
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "store the blob in the object store")
	return cmd
}
