package monitor

import "context"

// Source supplies channel messages and delivers replies. Implementations
// wrap a chat platform API bound to a single channel; every method may fail
// with a transient network or API error.
type Source interface {
	// FetchSince returns the channel's messages with timestamp >= oldest
	// (inclusive lower bound when inclusive is true), in the platform's
	// delivery order.
	FetchSince(ctx context.Context, oldest string, inclusive bool) ([]Message, error)
	// FetchThread returns every message of the thread rooted at rootTS, in
	// chronological order.
	FetchThread(ctx context.Context, rootTS string) ([]Message, error)
	// PostReply posts text into the thread rooted at threadTS.
	PostReply(ctx context.Context, text, threadTS string) error
}
