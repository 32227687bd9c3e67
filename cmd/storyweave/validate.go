package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"storyweave/internal/validate"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Run structural checks against every storyline",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	report, err := validate.Run(ctx, a.store)
	if err != nil {
		return err
	}

	var errorIssues, warnIssues, infoIssues []validate.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case validate.SeverityError:
			errorIssues = append(errorIssues, issue)
		case validate.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		default:
			infoIssues = append(infoIssues, issue)
		}
	}

	if len(report.Issues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	sections := []struct {
		title  string
		issues []validate.Issue
	}{
		{"Errors", errorIssues},
		{"Warnings", warnIssues},
		{"Info", infoIssues},
	}
	printed := false
	for _, section := range sections {
		if len(section.issues) == 0 {
			continue
		}
		if printed {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "%s (%d):\n", section.title, len(section.issues))
		printIssues(os.Stdout, section.issues)
		printed = true
	}

	if report.HasErrors() {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := "graph"
		switch {
		case issue.RouteID != 0:
			location = fmt.Sprintf("route %d", issue.RouteID)
		case issue.EncounterID != 0:
			location = fmt.Sprintf("encounter %d", issue.EncounterID)
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
