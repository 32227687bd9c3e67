package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func queryDescendantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "descendants <id>",
		Short: "List encounter ids reachable from a storyline root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			ids, err := a.svc.Descendants(ctx, id, actorFlag(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No descendants.")
				return nil
			}
			for _, d := range ids {
				fmt.Fprintln(out, d)
			}
			return nil
		},
	}
}
