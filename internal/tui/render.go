package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/bufferbell/internal/highlight"
	"github.com/cristianoliveira/bufferbell/internal/presentation"
	"github.com/cristianoliveira/bufferbell/internal/watch"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

func renderView(m *Model) string {
	var b strings.Builder
	b.WriteString(renderHeader(m.state))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("error: " + m.lastErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString(renderFooter(m.keys))
	return b.String()
}

func renderHeader(state presentation.State) string {
	title := state.Title()
	if title == "" {
		title = "bufferbell"
	}
	header := headerStyle.Render(title)
	if badge := presentation.RenderBadge(state.Badge); badge != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Center, badge, header)
	}
	return header
}

// renderLog renders one line per highlight, oldest first.
func renderLog(events []watch.Event, width int) string {
	if len(events) == 0 {
		return emptyStyle.Render("waiting for highlights...")
	}
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		title, body := highlight.Format(ev.Buffer, ev.Message)
		line := fmt.Sprintf("%s %s %s",
			timeStyle.Render(ev.At.Format("15:04:05")),
			titleStyle.Render(title),
			body)
		if width > 0 {
			line = lipgloss.NewStyle().MaxWidth(width).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderFooter(k keyMap) string {
	parts := make([]string, 0, len(k.help()))
	for _, b := range k.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return footerStyle.Render(strings.Join(parts, " • "))
}
