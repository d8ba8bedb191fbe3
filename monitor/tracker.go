package monitor

import (
	"context"
	"strconv"
	"time"
)

// Tracker owns the poll watermark: the highest message timestamp already
// handed downstream. The watermark starts unset, advances to the maximum
// timestamp of each non-empty batch, and never decreases. It lives only in
// memory; a restart re-delivers a bounded recent window.
type Tracker struct {
	source    Source
	interval  time.Duration
	watermark string
	now       func() time.Time
}

func NewTracker(source Source, pollInterval time.Duration) *Tracker {
	return &Tracker{
		source:   source,
		interval: pollInterval,
		now:      time.Now,
	}
}

// Watermark returns the current boundary, empty until the first non-empty
// batch has been fetched.
func (t *Tracker) Watermark() string {
	return t.watermark
}

// FetchNew returns the messages that arrived since the last call, in the
// order the Source delivered them. The request uses an inclusive lower bound
// so the boundary message itself can come back; anything at or below the
// watermark is dropped after retrieval. The watermark moves to the maximum
// surviving timestamp only once the whole batch has been filtered, so a
// batch delivered out of order (say 5, 3, 7) is never truncated mid-way.
// On Source failure the watermark is left untouched and the error returned.
func (t *Tracker) FetchNew(ctx context.Context) ([]Message, error) {
	oldest := t.watermark
	if oldest == "" {
		// First run: bounded look-back of two poll intervals.
		start := t.now().Add(-2 * t.interval)
		oldest = formatTS(start)
	}
	batch, err := t.source.FetchSince(ctx, oldest, true)
	if err != nil {
		return nil, err
	}

	var fresh []Message
	maxTS := t.watermark
	for _, msg := range batch {
		if t.watermark != "" && !tsAfter(msg.TS, t.watermark) {
			continue
		}
		fresh = append(fresh, msg)
		if maxTS == "" || tsAfter(msg.TS, maxTS) {
			maxTS = msg.TS
		}
	}
	t.watermark = maxTS
	return fresh, nil
}

func formatTS(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixMicro())/1e6, 'f', 6, 64)
}
