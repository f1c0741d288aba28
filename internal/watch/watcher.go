// Package watch turns counter changes in the buffer store into highlights.
//
// The ingestion side bumps a buffer's notification counter and records the
// highlighted line; the watcher notices the increase on its next poll and
// raises the alert.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/bufferbell/internal/domain"
	"github.com/cristianoliveira/bufferbell/internal/logging"
	"github.com/cristianoliveira/bufferbell/internal/ports"
	"github.com/cristianoliveira/bufferbell/internal/presentation"
)

// Alerter is the alerting surface the watcher drives.
type Alerter interface {
	CreateHighlight(ctx context.Context, buffer domain.Buffer, msg domain.Message)
	Refresh() presentation.State
	CancelAll()
}

// Event is one highlight raised by a poll.
type Event struct {
	Buffer  domain.Buffer
	Message domain.Message
	At      time.Time
}

// Result is the outcome of one poll.
type Result struct {
	Events []Event
	State  presentation.State
	Err    error
}

// Watcher polls a store and alerts on rising notification counters.
type Watcher struct {
	store   ports.BufferStore
	alerter Alerter
	now     func() time.Time
	log     logging.Logger

	mu     sync.Mutex
	seen   map[string]int
	primed bool
}

// New creates a Watcher.
func New(store ports.BufferStore, alerter Alerter, log logging.Logger) *Watcher {
	if log == nil {
		log = logging.Nop()
	}
	return &Watcher{
		store:   store,
		alerter: alerter,
		now:     time.Now,
		log:     log,
		seen:    make(map[string]int),
	}
}

// Poll compares counters with the previous poll and raises a highlight for
// every buffer whose notification counter grew. The first poll only records
// a baseline.
func (w *Watcher) Poll(ctx context.Context) Result {
	w.mu.Lock()
	defer w.mu.Unlock()

	buffers, err := w.store.ListBuffers()
	if err != nil {
		return Result{State: w.alerter.Refresh(), Err: fmt.Errorf("watch: list buffers: %w", err)}
	}

	var events []Event
	current := make(map[string]int, len(buffers))
	for _, b := range buffers {
		current[b.ID] = b.Notification
		if !w.primed {
			continue
		}
		if b.Notification > w.seen[b.ID] {
			msg := b.LastHighlight()
			w.alerter.CreateHighlight(ctx, b, msg)
			events = append(events, Event{Buffer: b, Message: msg, At: w.now()})
			w.log.Debug("highlight raised", "buffer", b.ID, "notification", b.Notification)
		}
	}
	w.seen = current
	w.primed = true

	return Result{Events: events, State: w.alerter.Refresh()}
}

// Run polls every interval until ctx is done, passing each result to
// onPoll, then cancels every outstanding alert.
func (w *Watcher) Run(ctx context.Context, interval time.Duration, onPoll func(Result)) error {
	if interval <= 0 {
		return fmt.Errorf("watch: interval must be positive, got %s", interval)
	}
	defer w.Close()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res := w.Poll(ctx)
		if res.Err != nil {
			w.log.Warn("poll failed", "error", res.Err)
		}
		if onPoll != nil {
			onPoll(res)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Close cancels every outstanding alert.
func (w *Watcher) Close() {
	w.alerter.CancelAll()
}
