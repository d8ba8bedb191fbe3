package monitorcmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kevchin/automation/internal/slackclient"
)

func TestSlackSourceBindsChannelAndConverts(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if got := r.URL.Query().Get("channel"); r.Method == http.MethodGet && got != "C777" {
			t.Fatalf("channel = %q, want C777", got)
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/conversations.history"):
			_, _ = w.Write([]byte(`{"ok":true,"messages":[{"ts":"2.000000","thread_ts":"1.000000","user":"U1","text":"bugbot hey"}]}`))
		case strings.HasSuffix(r.URL.Path, "/conversations.replies"):
			_, _ = w.Write([]byte(`{"ok":true,"messages":[{"ts":"1.000000","thread_ts":"1.000000","user":"U0","text":"root"}]}`))
		case strings.HasSuffix(r.URL.Path, "/chat.postMessage"):
			_, _ = w.Write([]byte(`{"ok":true}`))
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	src := &slackSource{
		api:       slackclient.New(srv.Client(), srv.URL, "TOKEN"),
		channelID: "C777",
	}

	msgs, err := src.FetchSince(context.Background(), "1.000000", true)
	if err != nil {
		t.Fatalf("FetchSince() error = %v", err)
	}
	if len(msgs) != 1 || msgs[0].UserID != "U1" || msgs[0].ThreadTS != "1.000000" {
		t.Fatalf("converted messages mismatch: %+v", msgs)
	}

	thread, err := src.FetchThread(context.Background(), "1.000000")
	if err != nil {
		t.Fatalf("FetchThread() error = %v", err)
	}
	if len(thread) != 1 || thread[0].Text != "root" {
		t.Fatalf("thread mismatch: %+v", thread)
	}

	if err := src.PostReply(context.Background(), "hello", "1.000000"); err != nil {
		t.Fatalf("PostReply() error = %v", err)
	}
}
