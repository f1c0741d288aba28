package presentation

import (
	"sync"

	"github.com/cristianoliveira/bufferbell/internal/domain"
	"github.com/cristianoliveira/bufferbell/internal/logging"
	"github.com/cristianoliveira/bufferbell/internal/ports"
	"github.com/cristianoliveira/bufferbell/internal/unread"
)

// Updater recomputes the presentation state from the buffer store and
// notifies subscribers after every update.
type Updater struct {
	store ports.BufferStore
	log   logging.Logger

	mu    sync.Mutex
	state State
	subs  []func(State)
}

// NewUpdater creates an Updater reading from store.
func NewUpdater(store ports.BufferStore, log logging.Logger) *Updater {
	if store == nil {
		panic("NewUpdater: store dependency cannot be nil")
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Updater{store: store, log: log, state: State{Badge: NoBadge()}}
}

// Subscribe registers fn to receive the state after each update.
func (u *Updater) Subscribe(fn func(State)) {
	if fn == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.subs = append(u.subs, fn)
}

// State returns the last computed state.
func (u *Updater) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// UnreadCount sums the named counter over every buffer.
// A store failure counts as zero.
func (u *Updater) UnreadCount(key domain.CounterKey) int {
	buffers, err := u.store.ListBuffers()
	if err != nil {
		u.log.Warn("list buffers failed", "error", err)
		return 0
	}
	return unread.Count(buffers, key)
}

// UpdateTitle refreshes the title prefix and, when a buffer is focused, the page title.
// With no focused buffer the page title keeps its previous value.
func (u *Updater) UpdateTitle() State {
	buffers, err := u.store.ListBuffers()
	if err != nil {
		u.log.Warn("title update skipped", "error", err)
		return u.State()
	}
	prefix := TitlePrefix(unread.Count(buffers, domain.CounterNotification))

	active, ok, err := u.store.GetActiveBuffer()
	if err != nil {
		u.log.Warn("active buffer lookup failed", "error", err)
		ok = false
	}

	u.mu.Lock()
	u.state.TitlePrefix = prefix
	if ok {
		u.state.PageTitle = active.DisplayTitle()
	}
	state := u.state
	subs := append([]func(State){}, u.subs...)
	u.mu.Unlock()

	publish(subs, state)
	return state
}

// UpdateFavico refreshes the badge.
func (u *Updater) UpdateFavico() State {
	buffers, err := u.store.ListBuffers()
	if err != nil {
		u.log.Warn("badge update skipped", "error", err)
		return u.State()
	}
	totals := unread.Sum(buffers)
	badge := BadgeFor(totals.Notification, totals.Unread)

	u.mu.Lock()
	u.state.Badge = badge
	state := u.state
	subs := append([]func(State){}, u.subs...)
	u.mu.Unlock()

	publish(subs, state)
	return state
}

// Refresh runs both updates and returns the resulting state.
func (u *Updater) Refresh() State {
	u.UpdateTitle()
	return u.UpdateFavico()
}

func publish(subs []func(State), state State) {
	for _, fn := range subs {
		fn(state)
	}
}
