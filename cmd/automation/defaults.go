package main

import (
	"time"

	"github.com/spf13/viper"
)

func initViperDefaults() {
	// Slack monitor
	viper.SetDefault("slack.bot_token", "")
	viper.SetDefault("slack.bot_token_file", "")
	viper.SetDefault("slack.channel_id", "")
	viper.SetDefault("monitor.keyword", "bugbot")
	viper.SetDefault("monitor.poll_interval", 30*time.Second)

	// Jira
	viper.SetDefault("jira.url", "")
	viper.SetDefault("jira.username", "")
	viper.SetDefault("jira.password", "")
	viper.SetDefault("jira.token", "")
	viper.SetDefault("jira.default_project", "TEST")
	viper.SetDefault("jira.default_issue_type", "Task")
	viper.SetDefault("jira.default_priority", "Medium")
	viper.SetDefault("jira.max_results", 50)

	// Logging
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.add_source", false)
	viper.SetDefault("trace", false)
}
