package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the storage schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			if err := a.store.EnsureSchema(ctx); err != nil {
				return err
			}
			backend, _ := a.cfg.Database.Backend()
			fmt.Fprintf(os.Stdout, "Schema ready (%s).\n", backend)
			return nil
		},
	}
}
