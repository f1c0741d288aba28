// Package highlight turns an incoming highlighted message into an alert.
package highlight

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/bufferbell/internal/domain"
	"github.com/cristianoliveira/bufferbell/internal/logging"
	"github.com/cristianoliveira/bufferbell/internal/ports"
)

const (
	// DefaultSoundAsset is the sound played for highlights, without extension.
	DefaultSoundAsset = "assets/audio/sonar"
)

// DefaultSoundFormats are tried in order.
var DefaultSoundFormats = []string{"ogg", "mp3"}

// Shower surfaces a formatted alert.
type Shower interface {
	ShowNotification(ctx context.Context, buffer domain.Buffer, title, body string)
}

// Format builds the alert title and body for msg arriving in buffer.
func Format(buffer domain.Buffer, msg domain.Message) (string, string) {
	n := buffer.Notification
	var title string
	switch {
	case buffer.IsPrivate() && n > 1:
		title = fmt.Sprintf("%d private messages from ", n)
	case buffer.IsPrivate():
		title = "Private message from "
	case n > 1:
		title = fmt.Sprintf("%d highlights in ", n)
	default:
		title = "Highlight in "
	}
	title += buffer.ShortName + " (" + buffer.Server + ")"

	if buffer.IsPrivate() {
		return title, msg.Text
	}
	return title, "<" + msg.PrefixText() + "> " + msg.Text
}

// Formatter formats highlights, shows them and plays the highlight sound.
type Formatter struct {
	shower   Shower
	settings ports.Settings
	audio    ports.AudioPlayer
	asset    string
	formats  []string
	log      logging.Logger
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithSound sets the sound asset and the formats tried for it.
func WithSound(asset string, formats []string) Option {
	return func(f *Formatter) {
		if asset != "" {
			f.asset = asset
		}
		if len(formats) > 0 {
			f.formats = append([]string(nil), formats...)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(f *Formatter) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFormatter creates a Formatter. settings and audio may be nil, which disables sound.
func NewFormatter(shower Shower, settings ports.Settings, audio ports.AudioPlayer, opts ...Option) *Formatter {
	if shower == nil {
		panic("NewFormatter: shower dependency cannot be nil")
	}
	f := &Formatter{
		shower:   shower,
		settings: settings,
		audio:    audio,
		asset:    DefaultSoundAsset,
		formats:  append([]string(nil), DefaultSoundFormats...),
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateHighlight shows an alert for msg and plays the highlight sound when enabled.
func (f *Formatter) CreateHighlight(ctx context.Context, buffer domain.Buffer, msg domain.Message) {
	title, body := Format(buffer, msg)
	f.shower.ShowNotification(ctx, buffer, title, body)

	if f.settings == nil || f.audio == nil || !f.settings.SoundNotification() {
		return
	}
	if err := f.audio.Play(f.asset, f.formats); err != nil {
		f.log.Warn("highlight sound failed", "asset", f.asset, "error", err)
	}
}
