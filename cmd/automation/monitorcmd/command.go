package monitorcmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kevchin/automation/internal/configutil"
	"github.com/kevchin/automation/internal/logutil"
	"github.com/kevchin/automation/internal/slackclient"
	"github.com/kevchin/automation/monitor"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Poll a Slack channel and reply in-thread to keyword mentions",
		RunE: func(cmd *cobra.Command, args []string) error {
			botToken, err := resolveBotToken(cmd)
			if err != nil {
				return err
			}
			channelID := strings.TrimSpace(configutil.FlagOrViperString(cmd, "slack-channel-id", "slack.channel_id"))
			if channelID == "" {
				return fmt.Errorf("missing slack.channel_id (set via --slack-channel-id or AUTOMATION_SLACK_CHANNEL_ID)")
			}
			keyword := strings.TrimSpace(configutil.FlagOrViperString(cmd, "keyword", "monitor.keyword"))
			if keyword == "" {
				return fmt.Errorf("missing monitor.keyword (set via --keyword or AUTOMATION_MONITOR_KEYWORD)")
			}
			interval := configutil.FlagOrViperDuration(cmd, "poll-interval", "monitor.poll_interval")
			if interval < time.Second {
				return fmt.Errorf("monitor.poll_interval must be at least 1s, got %s (durations need a unit suffix, e.g. AUTOMATION_MONITOR_POLL_INTERVAL=30s)", interval)
			}

			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			logger = logger.With("run_id", uuid.NewString())

			httpClient := &http.Client{Timeout: 30 * time.Second}
			api := slackclient.New(httpClient, "https://slack.com/api", botToken)
			auth, err := api.AuthTest(cmd.Context())
			if err != nil {
				return fmt.Errorf("slack auth.test: %w", err)
			}
			logger.Info("monitor_auth_ok", "bot_user_id", auth.UserID, "team", auth.Team, "channel_id", channelID)

			src := &slackSource{api: api, channelID: channelID}
			mon, err := monitor.New(src, monitor.Config{
				Keyword:      keyword,
				PollInterval: interval,
			}, logger)
			if err != nil {
				return err
			}
			return mon.Run(cmd.Context())
		},
	}

	cmd.Flags().String("slack-bot-token", "", "Slack bot token (xoxb-...).")
	cmd.Flags().String("slack-bot-token-file", "", "File containing the Slack bot token (alternative to --slack-bot-token).")
	cmd.Flags().String("slack-channel-id", "", "Slack channel id to monitor.")
	cmd.Flags().String("keyword", "bugbot", "Trigger keyword, matched case-insensitively.")
	cmd.Flags().Duration("poll-interval", 30*time.Second, "Time between polls (minimum 1s).")

	return cmd
}

func resolveBotToken(cmd *cobra.Command) (string, error) {
	token := strings.TrimSpace(configutil.FlagOrViperString(cmd, "slack-bot-token", "slack.bot_token"))
	if token != "" {
		return token, nil
	}
	tokenFile := strings.TrimSpace(configutil.FlagOrViperString(cmd, "slack-bot-token-file", "slack.bot_token_file"))
	if tokenFile != "" {
		raw, err := os.ReadFile(tokenFile)
		if err != nil {
			return "", fmt.Errorf("read slack bot token file: %w", err)
		}
		if token = strings.TrimSpace(string(raw)); token != "" {
			return token, nil
		}
		return "", fmt.Errorf("slack bot token file %s is empty", tokenFile)
	}
	return "", fmt.Errorf("missing slack.bot_token (set via --slack-bot-token, AUTOMATION_SLACK_BOT_TOKEN, or --slack-bot-token-file)")
}
