package monitor

import (
	"context"
	"fmt"
)

// Responder formats and dispatches replies. Addressing decides thread
// placement: a standalone match gets a reply rooted at its own timestamp,
// opening a new thread, while root and reply matches are addressed to the
// canonical thread id so the response lands in the existing thread instead
// of forking a new one. Dispatch is fire-and-forget: the outcome is
// reported to the caller and never retried here.
type Responder struct {
	source Source
	filter *Filter
}

func NewResponder(source Source, filter *Filter) *Responder {
	return &Responder{source: source, filter: filter}
}

func (r *Responder) Respond(ctx context.Context, msg Message, verdict ThreadVerdict, threadContext string) error {
	user := msg.UserID
	if user == "" {
		user = "unknown"
	}
	cleaned := r.filter.Clean(msg.Text)

	var text, threadTS string
	if verdict == VerdictStandalone {
		text = fmt.Sprintf("Hello <@%s>, I detected your keyword in your message: '%s'. Starting a new thread...", user, cleaned)
		threadTS = msg.TS
	} else {
		text = fmt.Sprintf("Hello <@%s>, I detected your keyword in this thread:\n\n%s\n\nCleaned input: '%s'", user, threadContext, cleaned)
		threadTS = CanonicalThreadID(msg)
	}
	return r.source.PostReply(ctx, text, threadTS)
}
