package monitorcmd

import (
	"context"

	"github.com/kevchin/automation/internal/slackclient"
	"github.com/kevchin/automation/monitor"
)

// slackSource adapts the Slack Web API client, bound to one channel, to the
// monitor's Source contract.
type slackSource struct {
	api       *slackclient.Client
	channelID string
}

func (s *slackSource) FetchSince(ctx context.Context, oldest string, inclusive bool) ([]monitor.Message, error) {
	msgs, err := s.api.ConversationsHistory(ctx, s.channelID, oldest, inclusive)
	if err != nil {
		return nil, err
	}
	return toMonitorMessages(msgs), nil
}

func (s *slackSource) FetchThread(ctx context.Context, rootTS string) ([]monitor.Message, error) {
	msgs, err := s.api.ConversationsReplies(ctx, s.channelID, rootTS)
	if err != nil {
		return nil, err
	}
	return toMonitorMessages(msgs), nil
}

func (s *slackSource) PostReply(ctx context.Context, text, threadTS string) error {
	return s.api.PostMessage(ctx, s.channelID, text, threadTS)
}

func toMonitorMessages(msgs []slackclient.Message) []monitor.Message {
	out := make([]monitor.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, monitor.Message{
			TS:       m.TS,
			ThreadTS: m.ThreadTS,
			UserID:   m.User,
			Text:     m.Text,
		})
	}
	return out
}
