package main

import (
	"shopease/internal/infra/db"
	"shopease/internal/infra/storage"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Migrate the schema and serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.close()

		if err := db.Migrate(ctx, e.db); err != nil {
			return err
		}

		store, err := storage.New(e.cfg)
		if err != nil {
			return err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return errors.Wrap(err, "prepare storage failed")
		}

		return buildServer(e, store).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
