// Package notifications is the alerting surface the chat client calls into.
//
// It wires the presentation updater, the lifecycle manager and the highlight
// formatter around a single buffer store.
package notifications

import (
	"context"
	"time"

	"github.com/cristianoliveira/bufferbell/internal/domain"
	"github.com/cristianoliveira/bufferbell/internal/highlight"
	"github.com/cristianoliveira/bufferbell/internal/lifecycle"
	"github.com/cristianoliveira/bufferbell/internal/logging"
	"github.com/cristianoliveira/bufferbell/internal/ports"
	"github.com/cristianoliveira/bufferbell/internal/presentation"
)

// Config holds the collaborators of a Service. Store and Platform are required.
type Config struct {
	Store    ports.BufferStore
	Platform ports.AlertPlatform
	Channel  ports.DeliveryChannel
	Window   ports.WindowFocuser
	Settings ports.Settings
	Audio    ports.AudioPlayer

	Timeout      time.Duration
	SoundAsset   string
	SoundFormats []string
	Logger       logging.Logger
	OnFinished   func(lifecycle.SlotID, lifecycle.Reason)
}

// Service is the alerting facade.
type Service struct {
	platform   ports.AlertPlatform
	channel    ports.DeliveryChannel
	updater    *presentation.Updater
	manager    *lifecycle.Manager
	highlights *highlight.Formatter
	log        logging.Logger
}

// New creates a Service.
func New(cfg Config) *Service {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	manager := lifecycle.NewManager(lifecycle.Options{
		Store:      cfg.Store,
		Platform:   cfg.Platform,
		Channel:    cfg.Channel,
		Window:     cfg.Window,
		Timeout:    cfg.Timeout,
		Logger:     log.With("component", "lifecycle"),
		OnFinished: cfg.OnFinished,
	})
	return &Service{
		platform: cfg.Platform,
		channel:  cfg.Channel,
		updater:  presentation.NewUpdater(cfg.Store, log.With("component", "presentation")),
		manager:  manager,
		highlights: highlight.NewFormatter(manager, cfg.Settings, cfg.Audio,
			highlight.WithSound(cfg.SoundAsset, cfg.SoundFormats),
			highlight.WithLogger(log.With("component", "highlight"))),
		log: log,
	}
}

// RequestNotificationPermission asks the alert platform for permission and
// registers the background channel. Failures are logged; a channel that
// failed to register stays unavailable.
func (s *Service) RequestNotificationPermission(ctx context.Context) {
	if err := s.platform.RequestPermission(); err != nil {
		s.log.Warn("notification permission denied", "error", err)
	}
	if s.channel == nil {
		return
	}
	if err := s.channel.Register(ctx); err != nil {
		s.log.Warn("background channel registration failed", "error", err)
		return
	}
	s.log.Info("background channel registered")
}

// UpdateTitle refreshes the title prefix and page title.
func (s *Service) UpdateTitle() presentation.State {
	return s.updater.UpdateTitle()
}

// UpdateFavico refreshes the badge.
func (s *Service) UpdateFavico() presentation.State {
	return s.updater.UpdateFavico()
}

// Refresh runs both presentation updates.
func (s *Service) Refresh() presentation.State {
	return s.updater.Refresh()
}

// Subscribe registers fn to receive every presentation update.
func (s *Service) Subscribe(fn func(presentation.State)) {
	s.updater.Subscribe(fn)
}

// CreateHighlight alerts the user about msg in buffer.
func (s *Service) CreateHighlight(ctx context.Context, buffer domain.Buffer, msg domain.Message) {
	s.highlights.CreateHighlight(ctx, buffer, msg)
}

// CancelAll closes every tracked alert.
func (s *Service) CancelAll() {
	s.manager.CancelAll()
}

// UnreadCount sums the named counter over all buffers.
func (s *Service) UnreadCount(key domain.CounterKey) int {
	return s.updater.UnreadCount(key)
}

// Active returns the number of tracked foreground alerts.
func (s *Service) Active() int {
	return s.manager.Active()
}
