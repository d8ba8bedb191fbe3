// Package monitor watches a single chat channel for messages containing a
// trigger keyword and replies in-thread. A Tracker keeps the poll watermark,
// a Filter narrows each batch to keyword matches, and a Responder addresses
// each reply to the right thread, pulling in full thread context for matches
// that already live inside one.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type loopState int

const (
	statePolling loopState = iota
	stateSleeping
	stateStopped
)

type Config struct {
	// Keyword is the trigger to look for, matched case-insensitively.
	Keyword string
	// PollInterval is the inter-cycle sleep; minimum one second.
	PollInterval time.Duration
}

// Monitor runs the poll-filter-respond loop. One cycle runs to completion
// before the loop sleeps and re-polls; there are no concurrent cycles, so
// the watermark has a single writer and needs no lock.
type Monitor struct {
	tracker   *Tracker
	filter    *Filter
	assembler *ContextAssembler
	responder *Responder
	interval  time.Duration
	logger    *slog.Logger
}

func New(source Source, cfg Config, logger *slog.Logger) (*Monitor, error) {
	if source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if cfg.Keyword == "" {
		return nil, fmt.Errorf("keyword is required")
	}
	if cfg.PollInterval < time.Second {
		// A bare number like "30" parses as nanoseconds, so point at the
		// missing unit suffix.
		return nil, fmt.Errorf("poll interval must be at least 1s, got %s (durations need a unit suffix, e.g. \"30s\")", cfg.PollInterval)
	}
	if logger == nil {
		logger = slog.Default()
	}
	filter := NewFilter(cfg.Keyword)
	return &Monitor{
		tracker:   NewTracker(source, cfg.PollInterval),
		filter:    filter,
		assembler: NewContextAssembler(source, logger),
		responder: NewResponder(source, filter),
		interval:  cfg.PollInterval,
		logger:    logger,
	}, nil
}

// Watermark exposes the tracker's current boundary.
func (m *Monitor) Watermark() string {
	return m.tracker.Watermark()
}

// RunCycle performs one fetch-filter-respond pass. Reply failures are logged
// per message and do not abort the remainder of the batch; the watermark
// tracks fetch position, not reply success, and has already advanced by the
// time replies go out.
func (m *Monitor) RunCycle(ctx context.Context) error {
	batch, err := m.tracker.FetchNew(ctx)
	if err != nil {
		return fmt.Errorf("fetch new messages: %w", err)
	}

	matched := 0
	for _, msg := range batch {
		if !m.filter.Matches(msg) {
			continue
		}
		matched++
		verdict := Classify(msg)
		threadContext := ""
		if verdict != VerdictStandalone {
			threadContext = m.assembler.Assemble(ctx, CanonicalThreadID(msg))
		}
		if err := m.responder.Respond(ctx, msg, verdict, threadContext); err != nil {
			m.logger.Warn("monitor_reply_error", "message_ts", msg.TS, "verdict", verdict.String(), "error", err.Error())
			continue
		}
		m.logger.Info("monitor_replied", "message_ts", msg.TS, "verdict", verdict.String())
	}
	if len(batch) > 0 {
		m.logger.Debug("monitor_cycle", "fetched", len(batch), "matched", matched, "watermark", m.tracker.Watermark())
	}
	return nil
}

// Run polls until ctx is cancelled. The loop is a three-state machine
// (polling, sleeping, stopped); cancellation moves any state to stopped, and
// the inter-cycle sleep is a cancellable timer wait so shutdown is prompt. A
// failed or panicking cycle is logged and the loop sleeps and continues: the
// monitor runs unattended and must not die on a single bad cycle.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor_start", "keyword", m.filter.Keyword(), "poll_interval", m.interval.String())

	state := statePolling
	for state != stateStopped {
		switch state {
		case statePolling:
			if ctx.Err() != nil {
				state = stateStopped
				continue
			}
			if err := m.runCycleSafe(ctx); err != nil {
				if ctx.Err() != nil {
					state = stateStopped
					continue
				}
				m.logger.Warn("monitor_cycle_error", "error", err.Error())
			}
			state = stateSleeping
		case stateSleeping:
			if err := sleepWithContext(ctx, m.interval); err != nil {
				state = stateStopped
				continue
			}
			state = statePolling
		}
	}

	m.logger.Info("monitor_stop", "reason", "context_canceled", "watermark", m.tracker.Watermark())
	return nil
}

// runCycleSafe converts a panicking cycle into an error so Run can keep
// looping.
func (m *Monitor) runCycleSafe(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()
	return m.RunCycle(ctx)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
