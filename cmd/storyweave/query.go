package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"storyweave/internal/store"
)

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Inspect storylines from the CLI",
	}
	cmd.PersistentFlags().String("actor", "", "Identity to query as")
	cmd.AddCommand(queryRootsCmd())
	cmd.AddCommand(queryUnlinkedCmd())
	cmd.AddCommand(queryNodeCmd())
	cmd.AddCommand(queryDescendantsCmd())
	return cmd
}

func actorFlag(cmd *cobra.Command) store.ActorID {
	actor, _ := cmd.Flags().GetString("actor")
	return store.ActorID(actor)
}

func parseIDArg(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func printSummaries(cmd *cobra.Command, nodes []store.NodeSummary, empty string) {
	out := cmd.OutOrStdout()
	if len(nodes) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	for _, node := range nodes {
		title := node.Title
		if title == "" {
			title = "(untitled)"
		}
		marker := ""
		if node.IsRoot {
			marker = " [root]"
		}
		fmt.Fprintf(out, "%d\t%s%s\n", node.ID, title, marker)
	}
}
