package main

import (
	"context"

	"github.com/spf13/cobra"
)

func queryUnlinkedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlinked",
		Short: "List encounters no route leads to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			nodes, err := a.svc.ListUnlinkedNodes(ctx)
			if err != nil {
				return err
			}
			printSummaries(cmd, nodes, "No unlinked encounters.")
			return nil
		},
	}
}
