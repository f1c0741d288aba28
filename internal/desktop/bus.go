package desktop

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	busName      = "org.freedesktop.Notifications"
	busPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	busInterface = "org.freedesktop.Notifications"

	signalActionInvoked      = busInterface + ".ActionInvoked"
	signalNotificationClosed = busInterface + ".NotificationClosed"

	// actionDefault is invoked when the user clicks the notification body.
	actionDefault = "default"
)

// notifier is the subset of the notification server the platform talks to.
type notifier interface {
	Notify(n notification) (uint32, error)
	CloseNotification(id uint32) error
	GetCapabilities() ([]string, error)
	Close() error
}

type notification struct {
	AppName string
	Icon    string
	Summary string
	Body    string
	Actions []string
	Hints   map[string]dbus.Variant
	// Timeout in ms, -1 = server default, 0 = never expire.
	Timeout int32
}

// busNotifier calls org.freedesktop.Notifications over the session bus.
type busNotifier struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// dialSession connects to the session bus and subscribes sink to the
// server's signals.
func dialSession(sink chan<- *dbus.Signal) (notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("desktop: connect session bus: %w", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(busPath),
		dbus.WithMatchInterface(busInterface),
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("desktop: add match signal: %w", err)
	}
	conn.Signal(sink)
	return &busNotifier{conn: conn, obj: conn.Object(busName, busPath)}, nil
}

func (b *busNotifier) Notify(n notification) (uint32, error) {
	hints := n.Hints
	if hints == nil {
		hints = map[string]dbus.Variant{}
	}
	call := b.obj.Call(busInterface+".Notify", 0,
		n.AppName, uint32(0), n.Icon, n.Summary, n.Body, n.Actions, hints, n.Timeout)
	if call.Err != nil {
		return 0, fmt.Errorf("desktop: notify: %w", call.Err)
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("desktop: read notification id: %w", err)
	}
	return id, nil
}

func (b *busNotifier) CloseNotification(id uint32) error {
	if call := b.obj.Call(busInterface+".CloseNotification", 0, id); call.Err != nil {
		return fmt.Errorf("desktop: close notification %d: %w", id, call.Err)
	}
	return nil
}

func (b *busNotifier) GetCapabilities() ([]string, error) {
	var caps []string
	if err := b.obj.Call(busInterface+".GetCapabilities", 0).Store(&caps); err != nil {
		return nil, fmt.Errorf("desktop: get capabilities: %w", err)
	}
	return caps, nil
}

func (b *busNotifier) Close() error {
	return b.conn.Close()
}
