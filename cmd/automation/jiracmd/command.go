package jiracmd

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kevchin/automation/internal/configutil"
	"github.com/kevchin/automation/internal/jiraclient"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jira",
		Short: "Create, search and update Jira issues",
	}

	cmd.PersistentFlags().String("jira-url", "", "Jira base URL (e.g. https://your-company.atlassian.net).")
	cmd.PersistentFlags().String("jira-username", "", "Jira username (basic auth).")
	cmd.PersistentFlags().String("jira-password", "", "Jira password (basic auth).")
	cmd.PersistentFlags().String("jira-token", "", "Jira API token (takes precedence over basic auth).")
	cmd.PersistentFlags().StringP("output", "o", "text", "Output format: text|json.")

	cmd.AddCommand(newCreateIssueCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newGetIssueCmd())
	cmd.AddCommand(newUpdateIssueCmd())
	cmd.AddCommand(newAddCommentCmd())
	cmd.AddCommand(newTransitionCmd())

	return cmd
}

func clientFromConfig(cmd *cobra.Command) (*jiraclient.Client, error) {
	url := strings.TrimSpace(configutil.FlagOrViperString(cmd, "jira-url", "jira.url"))
	if url == "" {
		return nil, fmt.Errorf("missing jira.url (set via --jira-url or AUTOMATION_JIRA_URL)")
	}
	username := configutil.FlagOrViperString(cmd, "jira-username", "jira.username")
	password := configutil.FlagOrViperString(cmd, "jira-password", "jira.password")
	token := configutil.FlagOrViperString(cmd, "jira-token", "jira.token")

	httpClient := &http.Client{Timeout: 30 * time.Second}
	return jiraclient.New(httpClient, url, username, password, token)
}

func newCreateIssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-issue",
		Short: "Create a new Jira issue",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFromConfig(cmd)
			if err != nil {
				return err
			}
			project := configutil.FlagOrViperString(cmd, "project", "jira.default_project")
			issueType := configutil.FlagOrViperString(cmd, "type", "jira.default_issue_type")
			priority := configutil.FlagOrViperString(cmd, "priority", "jira.default_priority")
			summary, _ := cmd.Flags().GetString("summary")
			description, _ := cmd.Flags().GetString("description")
			assignee, _ := cmd.Flags().GetString("assignee")
			labelsRaw, _ := cmd.Flags().GetString("labels")

			var labels []string
			for _, l := range strings.Split(labelsRaw, ",") {
				if l = strings.TrimSpace(l); l != "" {
					labels = append(labels, l)
				}
			}

			created, err := client.CreateIssue(cmd.Context(), jiraclient.CreateIssueRequest{
				ProjectKey:  project,
				IssueType:   issueType,
				Summary:     summary,
				Description: description,
				Assignee:    assignee,
				Priority:    priority,
				Labels:      labels,
			})
			if err != nil {
				return err
			}
			return printResult(cmd, created, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Created issue: %s\n", created.Key)
			})
		},
	}

	cmd.Flags().StringP("project", "p", "", "Project key (defaults to jira.default_project).")
	cmd.Flags().StringP("type", "t", "", "Issue type, e.g. Task, Bug, Story (defaults to jira.default_issue_type).")
	cmd.Flags().StringP("summary", "s", "", "Issue summary.")
	cmd.Flags().StringP("description", "d", "", "Issue description.")
	cmd.Flags().StringP("assignee", "a", "", "Assignee username or account id.")
	cmd.Flags().String("priority", "", "Priority level (defaults to jira.default_priority).")
	cmd.Flags().String("labels", "", "Comma-separated labels.")
	_ = cmd.MarkFlagRequired("summary")

	return cmd
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <jql>",
		Short: "Search issues with a JQL query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFromConfig(cmd)
			if err != nil {
				return err
			}
			maxResults := configutil.FlagOrViperInt(cmd, "max-results", "jira.max_results")
			issues, err := client.Search(cmd.Context(), args[0], maxResults, nil)
			if err != nil {
				return err
			}
			return printResult(cmd, issues, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Found %d issue(s)\n", len(issues))
				for _, issue := range issues {
					printIssueLine(cmd, issue)
				}
			})
		},
	}

	cmd.Flags().IntP("max-results", "m", 0, "Maximum number of results (defaults to jira.max_results).")

	return cmd
}

func newGetIssueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-issue <issue-key>",
		Short: "Show one issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFromConfig(cmd)
			if err != nil {
				return err
			}
			issue, err := client.GetIssue(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			return printResult(cmd, issue, func() {
				printIssueDetail(cmd, issue)
			})
		},
	}
}

func newUpdateIssueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-issue <issue-key> <field=value>...",
		Short: "Update fields on an existing issue",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFromConfig(cmd)
			if err != nil {
				return err
			}
			fields, err := parseFieldPairs(args[1:])
			if err != nil {
				return err
			}
			if err := client.UpdateIssue(cmd.Context(), args[0], fields); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated issue: %s\n", args[0])
			return nil
		},
	}
}

// parseFieldPairs turns "summary=new title" arguments into a field map.
func parseFieldPairs(pairs []string) (map[string]any, error) {
	fields := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field assignment %q, expected field=value", pair)
		}
		fields[name] = value
	}
	return fields, nil
}

func newAddCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-comment <issue-key> <comment>",
		Short: "Add a comment to an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFromConfig(cmd)
			if err != nil {
				return err
			}
			if err := client.AddComment(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added comment to issue: %s\n", args[0])
			return nil
		},
	}
}

func newTransitionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transition <issue-key> <status>",
		Short: "Move an issue to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFromConfig(cmd)
			if err != nil {
				return err
			}
			if err := client.TransitionIssue(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transitioned issue %s to %s\n", args[0], args[1])
			return nil
		},
	}
}
