// Package desktop shows foreground alerts through the freedesktop
// notification server on the D-Bus session bus.
package desktop

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/cristianoliveira/bufferbell/internal/logging"
	"github.com/cristianoliveira/bufferbell/internal/ports"
	"github.com/godbus/dbus/v5"
)

var (
	// ErrDisabled is returned when desktop alerts are turned off.
	ErrDisabled = errors.New("desktop notifications disabled")
	// ErrNoServer indicates that no notification server answered.
	ErrNoServer = errors.New("no desktop notification server")
)

// Platform implements ports.AlertPlatform over D-Bus.
//
// The bus connection is opened on first use. Handlers are kept per server
// notification id until the server reports the notification closed.
type Platform struct {
	appName string
	dial    func(chan<- *dbus.Signal) (notifier, error)
	log     logging.Logger

	mu       sync.Mutex
	conn     notifier
	handlers map[uint32]ports.AlertHandlers
}

// NewPlatform creates a Platform announcing itself as appName.
func NewPlatform(appName string, log logging.Logger) *Platform {
	if log == nil {
		log = logging.Nop()
	}
	return &Platform{
		appName:  appName,
		dial:     dialSession,
		log:      log,
		handlers: make(map[uint32]ports.AlertHandlers),
	}
}

// RequestPermission connects to the notification server and checks that it answers.
func (p *Platform) RequestPermission() error {
	conn, err := p.connect()
	if err != nil {
		return err
	}
	caps, err := conn.GetCapabilities()
	if err != nil {
		return errors.Join(ErrNoServer, err)
	}
	p.log.Debug("notification server capabilities", "capabilities", caps)
	return nil
}

// Open shows an alert. The server has no "shown" signal, so OnShow fires
// as soon as the server accepted the notification.
func (p *Platform) Open(req ports.AlertRequest, h ports.AlertHandlers) (ports.Alert, error) {
	conn, err := p.connect()
	if err != nil {
		return nil, err
	}

	// Hold the lock across Notify so a fast click cannot beat registration.
	p.mu.Lock()
	id, err := conn.Notify(notification{
		AppName: p.appName,
		Icon:    req.Icon,
		Summary: req.Title,
		Body:    req.Body,
		Actions: []string{actionDefault, "Open"},
		Timeout: expireTimeout(req.Timeout),
	})
	if err == nil {
		p.handlers[id] = h
	}
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if h.OnShow != nil {
		h.OnShow()
	}
	return &alert{id: id, platform: p}, nil
}

// Close drops the bus connection.
func (p *Platform) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

func (p *Platform) connect() (notifier, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		return p.conn, nil
	}
	signals := make(chan *dbus.Signal, 16)
	conn, err := p.dial(signals)
	if err != nil {
		return nil, err
	}
	p.conn = conn
	go p.loop(signals)
	return conn, nil
}

func (p *Platform) loop(signals <-chan *dbus.Signal) {
	for sig := range signals {
		p.dispatch(sig)
	}
}

// dispatch routes a server signal to the handlers of its notification.
func (p *Platform) dispatch(sig *dbus.Signal) {
	if sig == nil || len(sig.Body) == 0 {
		return
	}
	id, ok := sig.Body[0].(uint32)
	if !ok {
		return
	}

	switch sig.Name {
	case signalActionInvoked:
		if len(sig.Body) < 2 {
			return
		}
		if action, _ := sig.Body[1].(string); action != actionDefault {
			return
		}
		p.mu.Lock()
		h, ok := p.handlers[id]
		p.mu.Unlock()
		if ok && h.OnClick != nil {
			h.OnClick()
		}
	case signalNotificationClosed:
		p.mu.Lock()
		h, ok := p.handlers[id]
		delete(p.handlers, id)
		p.mu.Unlock()
		if ok && h.OnClose != nil {
			h.OnClose()
		}
	}
}

// expireTimeout converts a timeout into the server's expire_timeout in
// milliseconds. A non-positive timeout leaves expiry to the server.
func expireTimeout(d time.Duration) int32 {
	if d <= 0 {
		return -1
	}
	if ms := d.Milliseconds(); ms < math.MaxInt32 {
		return int32(ms)
	}
	return math.MaxInt32
}

type alert struct {
	id       uint32
	platform *Platform
}

// Close asks the server to close the notification. The server answers with
// a NotificationClosed signal.
func (a *alert) Close() error {
	a.platform.mu.Lock()
	conn := a.platform.conn
	a.platform.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.CloseNotification(a.id)
}

// Disabled is an AlertPlatform that refuses every alert.
type Disabled struct{}

// RequestPermission always fails with ErrDisabled.
func (Disabled) RequestPermission() error { return ErrDisabled }

// Open always fails with ErrDisabled.
func (Disabled) Open(ports.AlertRequest, ports.AlertHandlers) (ports.Alert, error) {
	return nil, ErrDisabled
}

var (
	_ ports.AlertPlatform = (*Platform)(nil)
	_ ports.AlertPlatform = Disabled{}
)
