package monitor

import "strconv"

// Message is one channel event as delivered by the Source. TS is the
// message's identity and its position in the channel: a decimal timestamp
// string that is unique per channel and compares numerically. ThreadTS is
// empty for a message outside any thread, equals TS on a thread root, and
// names an earlier root on a thread reply.
type Message struct {
	TS       string
	ThreadTS string
	UserID   string
	Text     string
}

// ThreadVerdict says how a message relates to threads at the time it was
// matched.
type ThreadVerdict int

const (
	// VerdictStandalone is a message with no thread association.
	VerdictStandalone ThreadVerdict = iota
	// VerdictRoot is the first message of a reply chain.
	VerdictRoot
	// VerdictReply is a later message inside an existing chain.
	VerdictReply
)

func (v ThreadVerdict) String() string {
	switch v {
	case VerdictRoot:
		return "root"
	case VerdictReply:
		return "reply"
	default:
		return "standalone"
	}
}

// Classify derives the thread verdict from the presence and equality of
// ThreadTS vs TS.
func Classify(msg Message) ThreadVerdict {
	switch {
	case msg.ThreadTS == "":
		return VerdictStandalone
	case msg.ThreadTS == msg.TS:
		return VerdictRoot
	default:
		return VerdictReply
	}
}

// CanonicalThreadID returns the timestamp every reply must be addressed to
// so it lands in the message's thread. For a root this is its own TS; for a
// reply it is the root's TS. Empty for a standalone message.
func CanonicalThreadID(msg Message) string {
	return msg.ThreadTS
}

func tsValue(ts string) float64 {
	v, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return 0
	}
	return v
}

// tsAfter reports whether a is strictly newer than b.
func tsAfter(a, b string) bool {
	return tsValue(a) > tsValue(b)
}
