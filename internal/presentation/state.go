// Package presentation derives the window title and badge from buffer counters.
package presentation

import "fmt"

// Badge colours. Alerts are red on white text, plain unread is green with yellow text.
const (
	AlertBackground = "#d00"
	AlertText       = "#fff"
	InfoBackground  = "#5CB85C"
	InfoText        = "#ff0"
)

// BadgeKind tags the badge state.
type BadgeKind string

const (
	BadgeNone  BadgeKind = "none"
	BadgeAlert BadgeKind = "alert"
	BadgeInfo  BadgeKind = "info"
)

// Badge is the small count overlay on the host icon.
type Badge struct {
	Kind       BadgeKind
	Count      int
	Background string
	Text       string
}

// NoBadge is the reset badge.
func NoBadge() Badge {
	return Badge{Kind: BadgeNone}
}

// AlertBadge shows pending notifications.
func AlertBadge(count int) Badge {
	return Badge{Kind: BadgeAlert, Count: count, Background: AlertBackground, Text: AlertText}
}

// InfoBadge shows unread lines when nothing needs attention.
func InfoBadge(count int) Badge {
	return Badge{Kind: BadgeInfo, Count: count, Background: InfoBackground, Text: InfoText}
}

// String renders the badge for logs and plain output.
func (b Badge) String() string {
	if b.Kind == BadgeNone || b.Kind == "" {
		return "none"
	}
	return fmt.Sprintf("%s(%d)", b.Kind, b.Count)
}

// State is the derived, non-persistent presentation of the client.
type State struct {
	// TitlePrefix is "" or "(N) " where N is the pending notification count.
	TitlePrefix string
	// PageTitle is "<shortName> | <title>" of the last focused buffer.
	PageTitle string
	Badge     Badge
}

// Title joins the prefix and the page title.
func (s State) Title() string {
	return s.TitlePrefix + s.PageTitle
}

// TitlePrefix formats the notification prefix for a count.
func TitlePrefix(notifications int) string {
	if notifications > 0 {
		return fmt.Sprintf("(%d) ", notifications)
	}
	return ""
}

// BadgeFor picks the badge for the given counts. Notifications always win over unread.
func BadgeFor(notifications, unreadLines int) Badge {
	if notifications > 0 {
		return AlertBadge(notifications)
	}
	if unreadLines == 0 {
		return NoBadge()
	}
	return InfoBadge(unreadLines)
}
