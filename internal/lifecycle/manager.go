// Package lifecycle creates, tracks, expires and bulk-cancels notifications.
//
// Foreground alerts are tracked in a slot table keyed by a monotonically
// increasing slot id. Alerts shown through a background delivery channel
// are owned by that channel and are not tracked.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/cristianoliveira/bufferbell/internal/domain"
	"github.com/cristianoliveira/bufferbell/internal/logging"
	"github.com/cristianoliveira/bufferbell/internal/ports"
)

const (
	// DefaultTimeout closes a foreground alert after it has been shown this long.
	DefaultTimeout = 15 * time.Second

	// ForegroundIcon is used for alerts the manager tracks itself.
	ForegroundIcon = "assets/img/favicon.png"
	// BackgroundIcon is sent with notifications handed to the delivery channel.
	BackgroundIcon = "assets/img/glowing_bear_128x128.png"
	// BackgroundTag lets the delivery channel coalesce highlight notifications.
	BackgroundTag = "gb-highlight-vib"
)

// BackgroundVibrate is the vibration pattern sent with background notifications.
var BackgroundVibrate = []int{200, 100}

// Timer is a pending expiry.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Options configures a Manager. Only Store and Platform are required.
type Options struct {
	Store    ports.BufferStore
	Platform ports.AlertPlatform
	Channel  ports.DeliveryChannel
	Window   ports.WindowFocuser
	Timeout  time.Duration
	After    AfterFunc
	Logger   logging.Logger
	// OnFinished is called once per tracked alert when it reaches a terminal state.
	OnFinished func(slot SlotID, reason Reason)
}

// Manager owns every foreground alert it creates.
//
// Platform callbacks and timers may arrive on any goroutine; the slot table
// is guarded by mu and no collaborator is called while mu is held.
type Manager struct {
	store      ports.BufferStore
	platform   ports.AlertPlatform
	channel    ports.DeliveryChannel
	window     ports.WindowFocuser
	timeout    time.Duration
	after      AfterFunc
	log        logging.Logger
	onFinished func(SlotID, Reason)

	mu    sync.Mutex
	slots *slotTable
}

// NewManager creates a Manager.
func NewManager(opts Options) *Manager {
	if opts.Store == nil {
		panic("NewManager: store dependency cannot be nil")
	}
	if opts.Platform == nil {
		panic("NewManager: platform dependency cannot be nil")
	}
	m := &Manager{
		store:      opts.Store,
		platform:   opts.Platform,
		channel:    opts.Channel,
		window:     opts.Window,
		timeout:    opts.Timeout,
		after:      opts.After,
		log:        opts.Logger,
		onFinished: opts.OnFinished,
		slots:      newSlotTable(),
	}
	if m.timeout <= 0 {
		m.timeout = DefaultTimeout
	}
	if m.after == nil {
		m.after = stdAfterFunc
	}
	if m.log == nil {
		m.log = logging.Nop()
	}
	return m
}

// ShowNotification surfaces an alert for buffer.
//
// When a background channel is available the alert is handed to it and not
// tracked. Otherwise a foreground alert is opened and tracked until it
// expires, is clicked, is closed by the platform, or CancelAll runs.
// Failures are logged and dropped.
func (m *Manager) ShowNotification(ctx context.Context, buffer domain.Buffer, title, body string) {
	if m.channel != nil && m.channel.Available() {
		err := m.channel.Display(ctx, title, ports.DisplayOptions{
			Body:    body,
			Icon:    BackgroundIcon,
			Vibrate: append([]int(nil), BackgroundVibrate...),
			Tag:     BackgroundTag,
		})
		if err != nil {
			m.log.Warn("background display failed", "buffer", buffer.ID, "error", err)
		}
		return
	}

	m.mu.Lock()
	e := m.slots.add(buffer.ID)
	m.mu.Unlock()

	slot := e.slot
	alert, err := m.platform.Open(ports.AlertRequest{
		Title:   title,
		Body:    body,
		Icon:    ForegroundIcon,
		Timeout: m.timeout,
	}, ports.AlertHandlers{
		OnShow:  func() { m.handleShow(slot) },
		OnClick: func() { m.handleClick(slot) },
		OnClose: func() { m.finish(slot, ReasonClosed) },
	})
	if err != nil {
		m.log.Warn("alert construction failed", "buffer", buffer.ID, "slot", slot, "error", err)
		m.finish(slot, ReasonFailed)
		return
	}

	m.mu.Lock()
	e.alert = alert
	closeNow := e.state.Terminal()
	m.mu.Unlock()

	// The alert expired or was clicked before Open returned.
	if closeNow {
		m.closeAlert(slot, alert)
	}
	m.log.Debug("alert shown", "buffer", buffer.ID, "slot", slot)
}

// handleShow starts the expiry timer.
func (m *Manager) handleShow(slot SlotID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.slots.get(slot)
	if !ok || e.state != StateCreated {
		return
	}
	e.state = StateShown
	e.timer = m.after(m.timeout, func() { m.handleExpire(slot) })
}

// handleExpire closes an alert whose timeout elapsed.
func (m *Manager) handleExpire(slot SlotID) {
	alert, _, ok := m.terminate(slot, StateExpired)
	if !ok {
		return
	}
	m.closeAlert(slot, alert)
	m.finish(slot, ReasonExpired)
}

// handleClick focuses the alert's buffer, raises the host window and closes the alert.
func (m *Manager) handleClick(slot SlotID) {
	alert, bufferID, ok := m.terminate(slot, StateClicked)
	if !ok {
		return
	}
	m.focus(bufferID)
	if m.window != nil {
		if err := m.window.Foreground(); err != nil {
			m.log.Warn("raise window failed", "error", err)
		}
	}
	m.closeAlert(slot, alert)
	m.finish(slot, ReasonClicked)
}

// focus hands focus to the buffer. A buffer that no longer exists is skipped.
func (m *Manager) focus(bufferID string) {
	_, exists, err := m.store.GetBuffer(bufferID)
	if err != nil {
		m.log.Warn("buffer lookup failed", "buffer", bufferID, "error", err)
		return
	}
	if !exists {
		m.log.Info("clicked alert for closed buffer", "buffer", bufferID)
		return
	}
	if err := m.store.SetActiveBuffer(bufferID); err != nil {
		m.log.Warn("focus buffer failed", "buffer", bufferID, "error", err)
	}
}

// terminate moves a live slot into a terminal state and stops its timer.
// The returned alert is nil while Open is still running.
func (m *Manager) terminate(slot SlotID, state State) (ports.Alert, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.slots.get(slot)
	if !ok || e.state.Terminal() {
		return nil, "", false
	}
	e.state = state
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	return e.alert, e.bufferID, true
}

// finish removes a slot and reports it. Calls for an already removed slot are no-ops.
func (m *Manager) finish(slot SlotID, reason Reason) {
	m.mu.Lock()
	e, ok := m.slots.remove(slot)
	if ok {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		if e.state.Terminal() {
			reason = e.state.Reason()
		}
		e.state = reason.State()
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	m.log.Debug("alert finished", "slot", slot, "reason", reason)
	if m.onFinished != nil {
		m.onFinished(slot, reason)
	}
}

func (m *Manager) closeAlert(slot SlotID, alert ports.Alert) {
	if alert == nil {
		return
	}
	if err := alert.Close(); err != nil {
		m.log.Warn("close alert failed", "slot", slot, "error", err)
	}
}

// CancelAll closes every tracked alert, newest first, until none remain.
// Close callbacks fired while closing find their slot already gone. An alert
// already expiring or clicked on another goroutine keeps its reason and is
// closed by that goroutine.
func (m *Manager) CancelAll() {
	for {
		m.mu.Lock()
		e, ok := m.slots.popNewest()
		inFlight := false
		var reason Reason
		if ok {
			if e.timer != nil {
				e.timer.Stop()
				e.timer = nil
			}
			inFlight = e.state.Terminal()
			if !inFlight {
				e.state = StateCancelled
			}
			reason = e.state.Reason()
		}
		m.mu.Unlock()
		if !ok {
			return
		}
		if !inFlight {
			m.closeAlert(e.slot, e.alert)
		}
		m.log.Debug("alert finished", "slot", e.slot, "reason", reason)
		if m.onFinished != nil {
			m.onFinished(e.slot, reason)
		}
	}
}

// Active returns the number of tracked alerts.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots.len()
}

// Slots returns the tracked slot ids in creation order.
func (m *Manager) Slots() []SlotID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots.ids()
}
