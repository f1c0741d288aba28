// Package domain provides the chat buffer model shared by the alerting layer.
package domain

import (
	"fmt"
	"strings"
)

// BufferKind classifies a buffer.
type BufferKind string

const (
	// KindRegular is a channel or any other group context.
	KindRegular BufferKind = "channel"
	// KindPrivate is a direct-message conversation.
	KindPrivate BufferKind = "private"
)

// String returns the string representation of the kind.
func (k BufferKind) String() string {
	return string(k)
}

// IsPrivate reports whether the kind is a direct-message conversation.
func (k BufferKind) IsPrivate() bool {
	return k == KindPrivate
}

// ParseBufferKind parses a kind string. Anything other than "private" is regular.
func ParseBufferKind(s string) BufferKind {
	if strings.EqualFold(strings.TrimSpace(s), string(KindPrivate)) {
		return KindPrivate
	}
	return KindRegular
}

// CounterKey names one of the integer counters carried by a buffer.
type CounterKey string

const (
	// CounterUnread counts unread lines.
	CounterUnread CounterKey = "unread"
	// CounterNotification counts pending highlights.
	CounterNotification CounterKey = "notification"
)

// ParseCounterKey validates a counter key. An empty key means CounterUnread.
func ParseCounterKey(s string) (CounterKey, error) {
	switch CounterKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", CounterUnread:
		return CounterUnread, nil
	case CounterNotification:
		return CounterNotification, nil
	default:
		return "", fmt.Errorf("invalid counter key: %q", s)
	}
}

// Buffer is one conversation the chat client displays.
// Counters are owned by the ingestion side; the alerting layer only reads them.
type Buffer struct {
	ID           string
	ShortName    string
	FullName     string
	Server       string
	Kind         BufferKind
	Title        string
	Unread       int
	Notification int
	// LastMessage and LastPrefix hold the most recent highlighted line.
	LastMessage string
	LastPrefix  string
}

// Counter returns the value of the named counter.
// The boolean is false when the key does not name a counter.
func (b Buffer) Counter(key CounterKey) (int, bool) {
	switch key {
	case "", CounterUnread:
		return b.Unread, true
	case CounterNotification:
		return b.Notification, true
	default:
		return 0, false
	}
}

// IsPrivate reports whether the buffer is a direct-message conversation.
func (b Buffer) IsPrivate() bool {
	return b.Kind.IsPrivate()
}

// DisplayTitle returns "<shortName> | <title>".
func (b Buffer) DisplayTitle() string {
	return b.ShortName + " | " + b.Title
}

// PrefixSegment is one piece of a rendered message prefix (usually the nick).
type PrefixSegment struct {
	Text string
}

// Message is an incoming chat line.
type Message struct {
	Text   string
	Prefix []PrefixSegment
}

// PrefixText concatenates all prefix segments in order, without separator.
func (m Message) PrefixText() string {
	var sb strings.Builder
	for _, seg := range m.Prefix {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// LastHighlight rebuilds the message recorded on the buffer by the ingestion side.
func (b Buffer) LastHighlight() Message {
	msg := Message{Text: b.LastMessage}
	if b.LastPrefix != "" {
		msg.Prefix = []PrefixSegment{{Text: b.LastPrefix}}
	}
	return msg
}
