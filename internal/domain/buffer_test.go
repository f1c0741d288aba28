package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBufferKind(t *testing.T) {
	require.Equal(t, KindPrivate, ParseBufferKind("private"))
	require.Equal(t, KindPrivate, ParseBufferKind(" PRIVATE "))
	require.Equal(t, KindRegular, ParseBufferKind("channel"))
	require.Equal(t, KindRegular, ParseBufferKind(""))
	require.Equal(t, KindRegular, ParseBufferKind("server"))
}

func TestParseCounterKey(t *testing.T) {
	tests := []struct {
		in      string
		want    CounterKey
		wantErr bool
	}{
		{"", CounterUnread, false},
		{"unread", CounterUnread, false},
		{"Notification", CounterNotification, false},
		{"highlights", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCounterKey(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBufferCounter(t *testing.T) {
	b := Buffer{Unread: 4, Notification: 2}

	v, ok := b.Counter(CounterUnread)
	require.True(t, ok)
	require.Equal(t, 4, v)

	v, ok = b.Counter("")
	require.True(t, ok)
	require.Equal(t, 4, v)

	v, ok = b.Counter(CounterNotification)
	require.True(t, ok)
	require.Equal(t, 2, v)

	v, ok = b.Counter("missing")
	require.False(t, ok)
	require.Equal(t, 0, v)
}

func TestMessagePrefixText(t *testing.T) {
	msg := Message{Text: "hi", Prefix: []PrefixSegment{{Text: "foo"}, {Text: "bar"}}}
	require.Equal(t, "foobar", msg.PrefixText())
	require.Equal(t, "", Message{Text: "hi"}.PrefixText())
}

func TestBufferLastHighlight(t *testing.T) {
	b := Buffer{LastMessage: "ping", LastPrefix: "alice"}
	msg := b.LastHighlight()
	require.Equal(t, "ping", msg.Text)
	require.Equal(t, "alice", msg.PrefixText())

	require.Empty(t, Buffer{LastMessage: "x"}.LastHighlight().Prefix)
}

func TestBufferDisplayTitle(t *testing.T) {
	b := Buffer{ShortName: "#go", Title: "Go talk"}
	require.Equal(t, "#go | Go talk", b.DisplayTitle())
}
