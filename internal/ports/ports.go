// Package ports defines application boundary interfaces used by the alerting core.
package ports

import (
	"context"
	"time"

	"github.com/cristianoliveira/bufferbell/internal/domain"
)

// BufferStore defines the buffer reads and focus operation used by the core.
type BufferStore interface {
	ListBuffers() ([]domain.Buffer, error)
	GetBuffer(id string) (domain.Buffer, bool, error)
	GetActiveBuffer() (domain.Buffer, bool, error)
	SetActiveBuffer(id string) error
}

// Settings exposes the user settings consulted by the core.
type Settings interface {
	SoundNotification() bool
}

// DisplayOptions are passed to a background delivery channel.
type DisplayOptions struct {
	Body    string
	Icon    string
	Vibrate []int
	// Tag lets the channel replace an earlier notification with the same tag.
	Tag string
}

// DeliveryChannel is a host-managed channel that shows notifications
// without an in-process handle.
type DeliveryChannel interface {
	Register(ctx context.Context) error
	Available() bool
	Display(ctx context.Context, title string, opts DisplayOptions) error
}

// AlertRequest describes a foreground alert.
type AlertRequest struct {
	Title string
	Body  string
	Icon  string
	// Timeout is a hint for platforms that can expire the alert themselves,
	// so it still goes away if this process exits first.
	Timeout time.Duration
}

// AlertHandlers are invoked by the platform as the alert changes state.
// OnClose must fire whatever closed the alert. Handlers may be invoked
// synchronously from Open or Alert.Close.
type AlertHandlers struct {
	OnShow  func()
	OnClick func()
	OnClose func()
}

// Alert is a foreground alert handle.
type Alert interface {
	Close() error
}

// AlertPlatform creates foreground alerts.
type AlertPlatform interface {
	RequestPermission() error
	Open(req AlertRequest, handlers AlertHandlers) (Alert, error)
}

// WindowFocuser brings the host window to the foreground.
type WindowFocuser interface {
	Foreground() error
}

// AudioPlayer plays an asset, trying each format in order.
type AudioPlayer interface {
	Play(asset string, formats []string) error
}
