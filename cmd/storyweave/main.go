package main

import (
	"os"

	"github.com/spf13/cobra"

	"storyweave/internal/config"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "storyweave",
		Short:        "Branching encounter graph engine",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the project config")
	root.AddCommand(initCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(mcpCmd())
	root.AddCommand(importCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
