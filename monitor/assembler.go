package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// ContextAssembler renders an entire thread as "<@user>: text" lines for
// embedding in a reply.
type ContextAssembler struct {
	source Source
	logger *slog.Logger
}

func NewContextAssembler(source Source, logger *slog.Logger) *ContextAssembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextAssembler{source: source, logger: logger}
}

// Assemble fetches the thread rooted at rootTS and joins its messages with
// newlines in the order the Source returned them. A fetch failure degrades
// to an empty context instead of aborting the reply.
func (a *ContextAssembler) Assemble(ctx context.Context, rootTS string) string {
	msgs, err := a.source.FetchThread(ctx, rootTS)
	if err != nil {
		a.logger.Warn("monitor_thread_fetch_error", "thread_ts", rootTS, "error", err.Error())
		return ""
	}
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		user := msg.UserID
		if user == "" {
			user = "unknown"
		}
		lines = append(lines, fmt.Sprintf("<@%s>: %s", user, msg.Text))
	}
	return strings.Join(lines, "\n")
}
