package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type starterConfig struct {
	Logging struct {
		Level     string `yaml:"level"`
		Format    string `yaml:"format"`
		AddSource bool   `yaml:"add_source"`
	} `yaml:"logging"`
	Slack struct {
		BotToken     string `yaml:"bot_token"`
		BotTokenFile string `yaml:"bot_token_file"`
		ChannelID    string `yaml:"channel_id"`
	} `yaml:"slack"`
	Monitor struct {
		Keyword      string `yaml:"keyword"`
		PollInterval string `yaml:"poll_interval"`
	} `yaml:"monitor"`
	Jira struct {
		URL              string `yaml:"url"`
		Username         string `yaml:"username"`
		Password         string `yaml:"password"`
		Token            string `yaml:"token"`
		DefaultProject   string `yaml:"default_project"`
		DefaultIssueType string `yaml:"default_issue_type"`
		DefaultPriority  string `yaml:"default_priority"`
		MaxResults       int    `yaml:"max_results"`
	} `yaml:"jira"`
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter config.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				dir = args[0]
			}
			dir = filepath.Clean(dir)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			cfgPath := filepath.Join(dir, "config.yaml")
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("config already exists: %s", cfgPath)
			}

			var cfg starterConfig
			cfg.Logging.Level = "info"
			cfg.Logging.Format = "text"
			cfg.Slack.ChannelID = "C1234567"
			cfg.Monitor.Keyword = "bugbot"
			cfg.Monitor.PollInterval = "30s"
			cfg.Jira.URL = "https://your-company.atlassian.net"
			cfg.Jira.DefaultProject = "TEST"
			cfg.Jira.DefaultIssueType = "Task"
			cfg.Jira.DefaultPriority = "Medium"
			cfg.Jira.MaxResults = 50

			body, err := yaml.Marshal(&cfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, body, 0o644); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", cfgPath)
			return nil
		},
	}
}
