// Package tui is the interactive front end of the watch daemon.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/bufferbell/internal/presentation"
	"github.com/cristianoliveira/bufferbell/internal/watch"
)

const (
	headerFooterLines     = 4
	defaultViewportWidth  = 80
	defaultViewportHeight = 20
	maxLogEntries         = 200
)

// Poller is the part of the watcher the model drives.
type Poller interface {
	Poll(ctx context.Context) watch.Result
	Close()
}

type pollMsg watch.Result

type tickMsg time.Time

// Model shows the current title and badge and a log of raised highlights.
type Model struct {
	ctx      context.Context
	poller   Poller
	interval time.Duration
	keys     keyMap

	state    presentation.State
	entries  []watch.Event
	lastErr  error
	viewport viewport.Model
	width    int
	closed   int
}

// New creates a Model polling every interval.
func New(ctx context.Context, poller Poller, interval time.Duration) *Model {
	m := &Model{
		ctx:      ctx,
		poller:   poller,
		interval: interval,
		keys:     defaultKeyMap(),
		state:    presentation.State{Badge: presentation.NoBadge()},
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight),
		width:    defaultViewportWidth,
	}
	m.syncViewport()
	return m
}

// Init runs the first poll.
func (m *Model) Init() tea.Cmd {
	return m.poll()
}

func (m *Model) poll() tea.Cmd {
	return func() tea.Msg {
		return pollMsg(m.poller.Poll(m.ctx))
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerFooterLines, 1)
		m.syncViewport()
		return m, nil
	case tickMsg:
		return m, m.poll()
	case pollMsg:
		m.apply(watch.Result(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.CancelAll):
		m.poller.Close()
		m.closed++
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		res := m.poller.Poll(m.ctx)
		m.apply(res)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
	}
	return m, nil
}

func (m *Model) apply(res watch.Result) {
	m.state = res.State
	m.lastErr = res.Err
	if len(res.Events) == 0 {
		return
	}
	m.entries = append(m.entries, res.Events...)
	if over := len(m.entries) - maxLogEntries; over > 0 {
		m.entries = m.entries[over:]
	}
	m.syncViewport()
	m.viewport.GotoBottom()
}

func (m *Model) syncViewport() {
	m.viewport.SetContent(renderLog(m.entries, m.width))
}

// View renders the model.
func (m *Model) View() string {
	return renderView(m)
}
