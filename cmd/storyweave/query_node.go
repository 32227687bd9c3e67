package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyweave/internal/engine"
)

func queryNodeCmd() *cobra.Command {
	var public bool
	cmd := &cobra.Command{
		Use:   "node <id>",
		Short: "Show an encounter and its routes",
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

			detail, err := a.svc.FetchEncounter(ctx, id, actorFlag(cmd), public)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Encounter %d\n", detail.ID)
			fmt.Fprintf(out, "  Title:       %s\n", detail.Title)
			fmt.Fprintf(out, "  Root:        %t\n", detail.IsRoot)
			fmt.Fprintf(out, "  Created by:  %s\n", detail.CreatedBy)
			fmt.Fprintf(out, "  Modified by: %s\n", detail.ModifiedBy)
			printImage(cmd, "Backdrop", detail.Backdrop)
			printImage(cmd, "Character 1", detail.Character1)
			printImage(cmd, "Character 2", detail.Character2)
			if detail.Description != "" {
				fmt.Fprintf(out, "\n%s\n", detail.Description)
			}

			if len(detail.Routes) == 0 {
				fmt.Fprintln(out, "\nNo routes.")
				return nil
			}
			fmt.Fprintf(out, "\nRoutes (%d):\n", len(detail.Routes))
			for _, route := range detail.Routes {
				target := "(unset)"
				switch {
				case route.TargetID == nil:
				case route.TargetMissing:
					target = fmt.Sprintf("%d (missing)", *route.TargetID)
				default:
					target = fmt.Sprintf("%d %s", *route.TargetID, route.TargetTitle)
				}
				fmt.Fprintf(out, "  - [%d] %q -> %s\n", route.ID, route.Label, target)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "Read without ownership checks")
	return cmd
}

func printImage(cmd *cobra.Command, name string, ref *engine.ImageRef) {
	if ref == nil {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %s\n", name+":", ref.Path)
}
