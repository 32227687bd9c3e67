package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyweave/internal/mcp"
	"storyweave/internal/store"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func mcpCmd() *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if actor == "" {
				return fmt.Errorf("--actor is required")
			}
			return runMCP(store.ActorID(actor))
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Identity the tools act as")
	return cmd
}

func runMCP(actor store.ActorID) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	if err := a.store.EnsureSchema(ctx); err != nil {
		return err
	}

	server := mcp.NewServer(a.svc, a.store, actor, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
