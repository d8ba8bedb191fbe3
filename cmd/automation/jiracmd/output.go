package jiracmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kevchin/automation/internal/jiraclient"
	"github.com/spf13/cobra"
)

// printResult renders v as indented JSON when -o json is set, otherwise
// calls the text renderer.
func printResult(cmd *cobra.Command, v any, text func()) error {
	format, _ := cmd.Flags().GetString("output")
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		raw, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return nil
	}
	text()
	return nil
}

func printIssueLine(cmd *cobra.Command, issue jiraclient.Issue) {
	status := ""
	if issue.Fields.Status != nil {
		status = issue.Fields.Status.Name
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %s  [%s]  %s\n", issue.Key, status, issue.Fields.Summary)
}

func printIssueDetail(cmd *cobra.Command, issue jiraclient.Issue) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Key:      %s\n", issue.Key)
	fmt.Fprintf(out, "Summary:  %s\n", issue.Fields.Summary)
	if issue.Fields.Status != nil {
		fmt.Fprintf(out, "Status:   %s\n", issue.Fields.Status.Name)
	}
	if issue.Fields.Priority != nil {
		fmt.Fprintf(out, "Priority: %s\n", issue.Fields.Priority.Name)
	}
	if issue.Fields.Assignee != nil {
		name := issue.Fields.Assignee.DisplayName
		if name == "" {
			name = issue.Fields.Assignee.Name
		}
		fmt.Fprintf(out, "Assignee: %s\n", name)
	}
	if len(issue.Fields.Labels) > 0 {
		fmt.Fprintf(out, "Labels:   %s\n", strings.Join(issue.Fields.Labels, ", "))
	}
	if issue.Fields.Description != "" {
		fmt.Fprintf(out, "\n%s\n", issue.Fields.Description)
	}
}
