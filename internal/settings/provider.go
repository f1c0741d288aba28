// Package settings exposes user settings read from the configuration file
// and reloads them when the file changes.
package settings

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/cristianoliveira/bufferbell/internal/config"
	"github.com/cristianoliveira/bufferbell/internal/logging"
	"github.com/cristianoliveira/bufferbell/internal/ports"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce absorbs the burst of events editors emit while saving.
const DefaultDebounce = 250 * time.Millisecond

// Provider reads settings from the loaded configuration.
type Provider struct {
	debounce time.Duration
	log      logging.Logger

	mu        sync.Mutex
	listeners []func()
}

// NewProvider creates a Provider. Call config.Load before reading settings.
func NewProvider(log logging.Logger) *Provider {
	if log == nil {
		log = logging.Nop()
	}
	return &Provider{debounce: DefaultDebounce, log: log}
}

// SoundNotification reports whether highlights play a sound.
func (p *Provider) SoundNotification() bool {
	return config.GetBool("sound_notification", false)
}

// OnChange registers fn to run after every reload.
func (p *Provider) OnChange(fn func()) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Watch starts reloading configuration whenever path changes. It returns
// once the watcher is installed; watching stops when ctx is done.
func (p *Provider) Watch(ctx context.Context, path string) error {
	dir := filepath.Dir(path)
	file := filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("settings: create watcher: %w", err)
	}
	// Watch the directory; editors often replace the file instead of writing it.
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("settings: watch %s: %w", dir, err)
	}

	go p.loop(ctx, w, file)
	return nil
}

func (p *Provider) loop(ctx context.Context, w *fsnotify.Watcher, file string) {
	defer w.Close()

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(p.debounce, p.reload)
	}

	for {
		select {
		case <-ctx.Done():
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timerMu.Unlock()
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != file {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			p.log.Warn("settings watcher error", "error", err)
		}
	}
}

func (p *Provider) reload() {
	config.Load()
	p.log.Info("settings reloaded", "sound_notification", p.SoundNotification())

	p.mu.Lock()
	listeners := append([]func(){}, p.listeners...)
	p.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

var _ ports.Settings = (*Provider)(nil)
