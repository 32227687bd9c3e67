package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var projectName string
	var dsn string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new storyweave project config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(configPath, projectName, dsn)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&dsn, "dsn", "sqlite://storyweave.db", "Database DSN")
	return cmd
}

func runInit(path, projectName, dsn string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	contents := fmt.Sprintf(`project: %s
version: 1

database:
  dsn: %s

# Used only when the DSN is bolt:// or neo4j://.
neo4j:
  username: neo4j
  password: changeme
  database: neo4j

server:
  addr: ":8080"

log:
  mode: dev

access:
  elevated: []

assets:
  image_path: /assets/images/%%d

engine:
  strict_route_targets: false

import:
  paths:
    - ./storylines/
  exclude: []
`, projectName, dsn)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s.\n", path)
	return nil
}
