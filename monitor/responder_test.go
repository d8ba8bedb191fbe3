package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRespondStandaloneAddressesOwnTS(t *testing.T) {
	src := &fakeSource{}
	r := NewResponder(src, NewFilter("bugbot"))

	msg := Message{TS: "50.000000", UserID: "U7", Text: "bugbot this is a test"}
	if err := r.Respond(context.Background(), msg, VerdictStandalone, ""); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if len(src.posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(src.posts))
	}
	post := src.posts[0]
	if post.threadTS != "50.000000" {
		t.Fatalf("standalone reply addressed to %q, want the message's own ts", post.threadTS)
	}
	if !strings.Contains(post.text, "'this is a test'") {
		t.Fatalf("reply should embed the cleaned body, got %q", post.text)
	}
	if !strings.Contains(post.text, "<@U7>") {
		t.Fatalf("reply should mention the author, got %q", post.text)
	}
}

func TestRespondReplyAddressesCanonicalThread(t *testing.T) {
	src := &fakeSource{}
	r := NewResponder(src, NewFilter("bugbot"))

	msg := Message{TS: "60.000000", ThreadTS: "55.000000", UserID: "U8", Text: "bugbot ping"}
	if err := r.Respond(context.Background(), msg, VerdictReply, "<@U8>: earlier"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	post := src.posts[0]
	if post.threadTS != "55.000000" {
		t.Fatalf("threaded reply addressed to %q, want the thread root %q", post.threadTS, "55.000000")
	}
	if !strings.Contains(post.text, "<@U8>: earlier") {
		t.Fatalf("threaded reply should embed the assembled context, got %q", post.text)
	}
}

func TestRespondRootAddressesItsOwnThread(t *testing.T) {
	src := &fakeSource{}
	r := NewResponder(src, NewFilter("bugbot"))

	msg := Message{TS: "70.000000", ThreadTS: "70.000000", UserID: "U9", Text: "bugbot root"}
	if err := r.Respond(context.Background(), msg, VerdictRoot, "<@U9>: bugbot root"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got := src.posts[0].threadTS; got != "70.000000" {
		t.Fatalf("root reply addressed to %q, want %q", got, "70.000000")
	}
}

func TestRespondSurfacesDispatchError(t *testing.T) {
	src := &fakeSource{postErrs: map[string]error{"50.000000": errors.New("channel_not_found")}}
	r := NewResponder(src, NewFilter("bugbot"))

	msg := Message{TS: "50.000000", UserID: "U7", Text: "bugbot hi"}
	if err := r.Respond(context.Background(), msg, VerdictStandalone, ""); err == nil {
		t.Fatalf("expected dispatch error to surface")
	}
}
