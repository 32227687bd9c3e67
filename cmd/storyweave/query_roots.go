package main

import (
	"context"

	"github.com/spf13/cobra"
)

func queryRootsCmd() *cobra.Command {
	var public bool
	cmd := &cobra.Command{
		Use:   "roots",
		Short: "List storyline roots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			roots, err := a.svc.ListRootNodes(ctx, actorFlag(cmd), public)
			if err != nil {
				return err
			}
			printSummaries(cmd, roots, "No storylines found.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "List every root regardless of owner")
	return cmd
}
