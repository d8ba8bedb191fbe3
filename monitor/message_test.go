package monitor

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		msg  Message
		want ThreadVerdict
	}{
		{"no thread ts", Message{TS: "10.000000"}, VerdictStandalone},
		{"thread ts equals own ts", Message{TS: "10.000000", ThreadTS: "10.000000"}, VerdictRoot},
		{"thread ts differs", Message{TS: "12.000000", ThreadTS: "10.000000"}, VerdictReply},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.msg); got != tc.want {
				t.Fatalf("Classify(%+v) = %s, want %s", tc.msg, got, tc.want)
			}
		})
	}
}

func TestCanonicalThreadID(t *testing.T) {
	root := Message{TS: "10.000000", ThreadTS: "10.000000"}
	if got := CanonicalThreadID(root); got != "10.000000" {
		t.Fatalf("root canonical id = %q, want its own ts", got)
	}
	reply := Message{TS: "12.000000", ThreadTS: "10.000000"}
	if got := CanonicalThreadID(reply); got != "10.000000" {
		t.Fatalf("reply canonical id = %q, want the root's ts", got)
	}
	standalone := Message{TS: "13.000000"}
	if got := CanonicalThreadID(standalone); got != "" {
		t.Fatalf("standalone canonical id = %q, want empty", got)
	}
}
