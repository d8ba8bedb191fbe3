package monitor

import "testing"

func TestMatchesIsCaseInsensitive(t *testing.T) {
	f := NewFilter("bugbot")
	for _, text := range []string{"BUGBOT help", "bugbot help", "BugBot help"} {
		if !f.Matches(Message{TS: "1.000000", Text: text}) {
			t.Fatalf("Matches(%q) = false, want true", text)
		}
	}
}

func TestMatchesInsideLongerWord(t *testing.T) {
	f := NewFilter("bugbot")
	if !f.Matches(Message{TS: "1.000000", Text: "superbugbotted"}) {
		t.Fatalf("embedded keyword should still match")
	}
}

func TestMatchesRequiresBody(t *testing.T) {
	f := NewFilter("bugbot")
	if f.Matches(Message{TS: "1.000000"}) {
		t.Fatalf("message without a body must never match")
	}
	if f.Matches(Message{TS: "1.000000", Text: "nothing to see"}) {
		t.Fatalf("message without the keyword must not match")
	}
}

func TestClean(t *testing.T) {
	f := NewFilter("bugbot")
	cases := []struct {
		in   string
		want string
	}{
		{"bugbot this is a test", "this is a test"},
		{"this is bugbot a test", "this is a test"},
		{"  bugbot   this   is   a   test  ", "this is a test"},
		{"bugbot", ""},
		{"BugBot MIXED case", "MIXED case"},
		// Adjacent occurrences each consume their surrounding whitespace.
		{"bugbot bugbot duplicate", "duplicate"},
	}
	for _, tc := range cases {
		if got := f.Clean(tc.in); got != tc.want {
			t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
