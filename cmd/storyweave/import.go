package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"storyweave/internal/ingest"
	"storyweave/internal/store"
)

func importCmd() *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "import [paths...]",
		Short: "Create storylines from markdown files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if actor == "" {
				return fmt.Errorf("--actor is required")
			}
			return runImport(store.ActorID(actor), args)
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Owner of the imported encounters")
	return cmd
}

func runImport(actor store.ActorID, paths []string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	if len(paths) == 0 {
		paths = a.cfg.Import.Paths
	}
	if len(paths) == 0 {
		return fmt.Errorf("no paths given and import.paths is empty")
	}

	result, err := ingest.Run(ctx, a.svc, actor, paths, ingest.Options{Exclude: a.cfg.Import.Exclude})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Import complete.")
	fmt.Fprintf(os.Stdout, "  Encounters created: %d\n", result.EncountersCreated)
	fmt.Fprintf(os.Stdout, "  Routes created:     %d\n", result.RoutesCreated)
	fmt.Fprintf(os.Stdout, "  Routes wired:       %d\n", result.RoutesWired)
	fmt.Fprintf(os.Stdout, "  Files skipped:      %d\n", result.FilesSkipped)

	if len(result.Keys) > 0 {
		keys := make([]string, 0, len(result.Keys))
		for key := range result.Keys {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fmt.Fprintln(os.Stdout, "\nKeys:")
		for _, key := range keys {
			fmt.Fprintf(os.Stdout, "  %s -> %d\n", key, result.Keys[key])
		}
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stdout, "\nErrors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(os.Stdout, "  - %v\n", item)
		}
		return fmt.Errorf("import completed with errors")
	}
	return nil
}
