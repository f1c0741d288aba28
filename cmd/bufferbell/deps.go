/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cristianoliveira/bufferbell/internal/audio"
	"github.com/cristianoliveira/bufferbell/internal/config"
	"github.com/cristianoliveira/bufferbell/internal/desktop"
	"github.com/cristianoliveira/bufferbell/internal/domain"
	"github.com/cristianoliveira/bufferbell/internal/hooks"
	"github.com/cristianoliveira/bufferbell/internal/lifecycle"
	"github.com/cristianoliveira/bufferbell/internal/logging"
	"github.com/cristianoliveira/bufferbell/internal/notifications"
	"github.com/cristianoliveira/bufferbell/internal/ports"
	"github.com/cristianoliveira/bufferbell/internal/presentation"
	"github.com/cristianoliveira/bufferbell/internal/settings"
	"github.com/cristianoliveira/bufferbell/internal/storage"
	"github.com/cristianoliveira/bufferbell/internal/telegram"
	"github.com/cristianoliveira/bufferbell/internal/tmux"
	"github.com/cristianoliveira/bufferbell/internal/version"
	"github.com/cristianoliveira/bufferbell/internal/watch"
)

// app holds the wired collaborators shared by all commands.
type app struct {
	store     storage.Store
	service   *notifications.Service
	alerter   *hookedAlerter
	hooks     *hooks.Runner
	settings  *settings.Provider
	publisher *tmux.Publisher
	platform  *desktop.Platform

	publishMu sync.Mutex
}

var (
	appOnce sync.Once
	appInst *app
	appErr  error
)

// client is the production implementation of every command client. It
// opens the store and connects the alert sinks on first use, so commands
// that fail flag parsing never touch the database.
var client = &appClient{}

type appClient struct{}

func getApp() (*app, error) {
	appOnce.Do(func() {
		appInst, appErr = newApp()
	})
	return appInst, appErr
}

func closeApp() {
	if appInst == nil {
		return
	}
	appInst.hooks.Wait()
	if appInst.platform != nil {
		_ = appInst.platform.Close()
	}
	_ = appInst.store.Close()
}

func newApp() (*app, error) {
	store, err := storage.NewFromConfig()
	if err != nil {
		return nil, fmt.Errorf("open buffer store: %w", err)
	}

	tmuxClient := tmux.NewDefaultClient()
	hookOpts := hooks.OptionsFromConfig()
	hookOpts.Logger = logging.Component("hooks")
	a := &app{
		store:     store,
		hooks:     hooks.NewRunner(hookOpts),
		settings:  settings.NewProvider(logging.Component("settings")),
		publisher: tmux.NewPublisher(tmuxClient),
	}

	var platform ports.AlertPlatform = desktop.Disabled{}
	if config.GetBool("desktop_enabled", true) {
		a.platform = desktop.NewPlatform(config.Get("app_name", "bufferbell"), logging.Component("desktop"))
		platform = a.platform
	}

	var channel ports.DeliveryChannel
	if token := config.Get("telegram_token", ""); token != "" {
		channel = telegram.New(telegram.Options{
			Token:      token,
			ChatID:     config.GetInt64("telegram_chat_id", 0),
			RatePerSec: config.GetInt("telegram_rate", 1),
			Logger:     logging.Component("telegram"),
		})
	}

	a.service = notifications.New(notifications.Config{
		Store:        store,
		Platform:     platform,
		Channel:      channel,
		Window:       tmux.NewFocuser(tmuxClient, config.Get("tmux_pane", "")),
		Settings:     a.settings,
		Audio:        audio.NewPlayer(config.Get("sound_command", "")),
		Timeout:      time.Duration(config.GetInt("notification_timeout", 15)) * time.Second,
		SoundAsset:   config.Get("sound_asset", ""),
		SoundFormats: config.GetList("sound_formats", nil),
		Logger:       logging.GetGlobal(),
		OnFinished:   finishedHooks(a.hooks, logging.GetGlobal()),
	})
	a.alerter = &hookedAlerter{Service: a.service, hooks: a.hooks}

	if config.GetBool("tmux_publish", true) {
		a.service.Subscribe(func(s presentation.State) {
			if err := a.publish(s); err != nil {
				logging.Debug("tmux publish skipped", "error", err)
			}
		})
	}
	return a, nil
}

// publish serializes writes to tmux; subscribers run on the caller's goroutine.
func (a *app) publish(s presentation.State) error {
	a.publishMu.Lock()
	defer a.publishMu.Unlock()
	return a.publisher.Publish(s)
}

func (appClient) Refresh() (presentation.State, error) {
	a, err := getApp()
	if err != nil {
		return presentation.State{}, err
	}
	return a.service.Refresh(), nil
}

func (appClient) UnreadCount(key domain.CounterKey) (int, error) {
	a, err := getApp()
	if err != nil {
		return 0, err
	}
	return a.service.UnreadCount(key), nil
}

func (appClient) Publish(s presentation.State) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	return a.publish(s)
}

func (appClient) AddBuffer(b domain.Buffer) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	return a.store.UpsertBuffer(b)
}

func (appClient) ListBuffers() ([]domain.Buffer, error) {
	a, err := getApp()
	if err != nil {
		return nil, err
	}
	return a.store.ListBuffers()
}

func (appClient) GetBuffer(id string) (domain.Buffer, bool, error) {
	a, err := getApp()
	if err != nil {
		return domain.Buffer{}, false, err
	}
	return a.store.GetBuffer(id)
}

func (appClient) ActiveBuffer() (domain.Buffer, bool, error) {
	a, err := getApp()
	if err != nil {
		return domain.Buffer{}, false, err
	}
	return a.store.GetActiveBuffer()
}

func (appClient) FocusBuffer(id string) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	if err := a.store.SetActiveBuffer(id); err != nil {
		return err
	}
	a.service.Refresh()
	return nil
}

func (appClient) RemoveBuffer(id string) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	if err := a.store.RemoveBuffer(id); err != nil {
		return err
	}
	a.service.Refresh()
	return nil
}

func (appClient) BumpCounters(id string, unread, notification int, msg domain.Message) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	return a.store.BumpCounters(id, unread, notification, msg)
}

func (appClient) ResetCounters(id string) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	if err := a.store.ResetCounters(id); err != nil {
		return err
	}
	a.service.Refresh()
	return nil
}

func (appClient) Highlight(ctx context.Context, b domain.Buffer, msg domain.Message) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	a.service.RequestNotificationPermission(ctx)
	a.alerter.CreateHighlight(ctx, b, msg)
	a.service.Refresh()
	return nil
}

func (appClient) Active() int {
	if appInst == nil {
		return 0
	}
	return appInst.service.Active()
}

func (appClient) CancelAll() {
	if appInst == nil {
		return
	}
	appInst.service.CancelAll()
}

func (appClient) NewWatcher(ctx context.Context) (watchRunner, error) {
	a, err := getApp()
	if err != nil {
		return nil, err
	}
	a.service.RequestNotificationPermission(ctx)
	if err := a.settings.Watch(ctx, config.Path()); err != nil {
		logging.Warn("settings reload disabled", "error", err)
	}
	a.settings.OnChange(func() {
		logging.Info("settings reloaded", "sound", a.settings.SoundNotification())
	})
	return watch.New(a.store, a.alerter, logging.Component("watch")), nil
}

// hookedAlerter runs the highlight hooks after raising each alert.
type hookedAlerter struct {
	*notifications.Service
	hooks *hooks.Runner
}

func (h *hookedAlerter) CreateHighlight(ctx context.Context, b domain.Buffer, msg domain.Message) {
	h.Service.CreateHighlight(ctx, b, msg)
	err := h.hooks.Run(hooks.PointHighlight, map[string]string{
		"buffer_id":   b.ID,
		"buffer_name": b.ShortName,
		"server":      b.Server,
		"kind":        b.Kind.String(),
		"text":        msg.Text,
		"prefix":      msg.PrefixText(),
	})
	if err != nil {
		logging.Warn("highlight hook aborted", "buffer", b.ID, "error", err)
	}
}

func (appClient) Version() string {
	return version.String()
}

func (appClient) LongVersion() string {
	return version.Long()
}

// finishedHooks runs the alert-finished hooks for every alert leaving the slot table.
func finishedHooks(runner *hooks.Runner, log logging.Logger) func(lifecycle.SlotID, lifecycle.Reason) {
	return func(slot lifecycle.SlotID, reason lifecycle.Reason) {
		err := runner.Run(hooks.PointAlertFinished, map[string]string{
			"slot":   strconv.FormatUint(uint64(slot), 10),
			"reason": string(reason),
		})
		if err != nil {
			log.Warn("alert-finished hook aborted", "slot", slot, "reason", reason, "error", err)
		}
	}
}
