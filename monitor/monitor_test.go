package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestMonitor(t *testing.T, src Source) *Monitor {
	t.Helper()
	m, err := New(src, Config{Keyword: "bugbot", PollInterval: time.Second}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(nil, Config{Keyword: "bugbot", PollInterval: time.Second}, nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
	if _, err := New(&fakeSource{}, Config{PollInterval: time.Second}, nil); err == nil {
		t.Fatalf("expected error for empty keyword")
	}
	_, err := New(&fakeSource{}, Config{Keyword: "bugbot", PollInterval: 30 * time.Nanosecond}, nil)
	if err == nil {
		t.Fatalf("expected error for sub-second interval")
	}
	// A bare "30" in the environment parses as 30ns, so the error has to
	// point at the missing unit suffix.
	if !strings.Contains(err.Error(), "unit suffix") {
		t.Fatalf("sub-second interval error = %q, want mention of the unit suffix", err)
	}
}

func TestRunCycleRepliesOnlyToMatches(t *testing.T) {
	src := &fakeSource{
		batches: [][]Message{{
			{TS: "1.000000", UserID: "U1", Text: "nothing here"},
			{TS: "2.000000", UserID: "U2", Text: "bugbot please look"},
			{TS: "3.000000", UserID: "U3"},
		}},
	}
	m := newTestMonitor(t, src)

	if err := m.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if len(src.posts) != 1 {
		t.Fatalf("expected exactly 1 reply, got %d", len(src.posts))
	}
	if src.posts[0].threadTS != "2.000000" {
		t.Fatalf("reply addressed to %q, want %q", src.posts[0].threadTS, "2.000000")
	}
}

func TestRunCycleThreadedMatchGetsContext(t *testing.T) {
	src := &fakeSource{
		batches: [][]Message{{
			{TS: "20.000000", ThreadTS: "10.000000", UserID: "U2", Text: "bugbot what about this"},
		}},
		threads: map[string][]Message{
			"10.000000": {
				{TS: "10.000000", ThreadTS: "10.000000", UserID: "U1", Text: "the original report"},
				{TS: "20.000000", ThreadTS: "10.000000", UserID: "U2", Text: "bugbot what about this"},
			},
		},
	}
	m := newTestMonitor(t, src)

	if err := m.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if len(src.posts) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(src.posts))
	}
	post := src.posts[0]
	if post.threadTS != "10.000000" {
		t.Fatalf("reply addressed to %q, want the thread root", post.threadTS)
	}
	if !strings.Contains(post.text, "<@U1>: the original report") {
		t.Fatalf("reply should embed the thread context, got %q", post.text)
	}
}

func TestRunCycleDispatchFailureDoesNotBlockBatchOrWatermark(t *testing.T) {
	src := &fakeSource{
		batches: [][]Message{{
			{TS: "1.000000", UserID: "U1", Text: "bugbot first"},
			{TS: "2.000000", UserID: "U2", Text: "bugbot second"},
		}},
		postErrs: map[string]error{"1.000000": errors.New("dispatch failed")},
	}
	m := newTestMonitor(t, src)

	if err := m.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if len(src.posts) != 2 {
		t.Fatalf("remaining matches should still be processed, got %d posts", len(src.posts))
	}
	if got, want := m.Watermark(), "2.000000"; got != want {
		t.Fatalf("watermark = %q, want %q (dispatch failure must not hold it back)", got, want)
	}
}

func TestRunCycleSourceFailureLeavesWatermark(t *testing.T) {
	src := &fakeSource{
		batches:   [][]Message{{{TS: "5.000000", UserID: "U1", Text: "bugbot hi"}}, nil},
		fetchErrs: []error{nil, errors.New("source unavailable")},
	}
	m := newTestMonitor(t, src)

	if err := m.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if err := m.RunCycle(context.Background()); err == nil {
		t.Fatalf("expected source error to surface")
	}
	if got, want := m.Watermark(), "5.000000"; got != want {
		t.Fatalf("watermark = %q, want %q after a failed cycle", got, want)
	}
}

func TestRunStopsPromptlyOnCancel(t *testing.T) {
	src := &fakeSource{}
	m := newTestMonitor(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	// Give the loop a moment to enter its sleep state, then cancel.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("Run did not stop promptly after cancellation")
	}
}

func TestRunSurvivesPanickingCycle(t *testing.T) {
	src := &panicOnceSource{}
	m := newTestMonitor(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("Run died instead of surviving the panicking cycle")
	}
	if src.calls == 0 {
		t.Fatalf("source was never polled")
	}
}

type panicOnceSource struct {
	calls int
}

func (s *panicOnceSource) FetchSince(ctx context.Context, oldest string, inclusive bool) ([]Message, error) {
	s.calls++
	if s.calls == 1 {
		panic("boom")
	}
	return nil, nil
}

func (s *panicOnceSource) FetchThread(ctx context.Context, rootTS string) ([]Message, error) {
	return nil, nil
}

func (s *panicOnceSource) PostReply(ctx context.Context, text, threadTS string) error {
	return nil
}
