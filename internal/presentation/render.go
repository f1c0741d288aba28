package presentation

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

// RenderBadge renders the badge as a coloured pill for terminal output.
// The none badge renders as an empty string.
func RenderBadge(b Badge) string {
	if b.Kind == BadgeNone || b.Kind == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(b.Background)).
		Foreground(lipgloss.Color(b.Text)).
		Bold(b.Kind == BadgeAlert).
		Padding(0, 1).
		Render(fmt.Sprintf("%d", b.Count))
}

// Render renders the full state as "<badge> <title>".
func Render(s State) string {
	parts := make([]string, 0, 2)
	if badge := RenderBadge(s.Badge); badge != "" {
		parts = append(parts, badge)
	}
	if title := s.Title(); title != "" {
		parts = append(parts, titleStyle.Render(title))
	}
	return strings.Join(parts, " ")
}

// TmuxBadge formats the badge with tmux style directives for status lines.
func TmuxBadge(b Badge) string {
	if b.Kind == BadgeNone || b.Kind == "" {
		return ""
	}
	return fmt.Sprintf("#[bg=%s,fg=%s] %d #[default]", expandHex(b.Background), expandHex(b.Text), b.Count)
}

// expandHex turns "#d00" into "#dd0000"; tmux only understands six-digit colours.
func expandHex(c string) string {
	if len(c) != 4 || c[0] != '#' {
		return c
	}
	return "#" + strings.Repeat(c[1:2], 2) + strings.Repeat(c[2:3], 2) + strings.Repeat(c[3:4], 2)
}
