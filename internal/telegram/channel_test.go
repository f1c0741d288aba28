package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/cristianoliveira/bufferbell/internal/ports"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type sent struct {
	chatID int64
	text   string
	silent bool
}

type fakeSender struct {
	nextID  int
	sends   []sent
	edits   []sent
	editErr error
	sendErr error
}

func options(opts []interface{}) *tele.SendOptions {
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok {
			return so
		}
	}
	return &tele.SendOptions{}
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	chat := to.(*tele.Chat)
	f.sends = append(f.sends, sent{chat.ID, what.(string), options(opts).DisableNotification})
	f.nextID++
	return &tele.Message{ID: f.nextID, Chat: chat}, nil
}

func (f *fakeSender) Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.editErr != nil {
		return nil, f.editErr
	}
	m := msg.(*tele.Message)
	f.edits = append(f.edits, sent{m.Chat.ID, what.(string), options(opts).DisableNotification})
	return m, nil
}

func newRegistered(t *testing.T, sender *fakeSender) *Channel {
	t.Helper()
	c := New(Options{
		Token:      "123:abc",
		ChatID:     42,
		RatePerSec: 1000,
		NewSender:  func(string) (Sender, error) { return sender, nil },
	})
	require.NoError(t, c.Register(context.Background()))
	return c
}

func TestRegisterRequiresTokenAndChat(t *testing.T) {
	c := New(Options{ChatID: 42})
	require.ErrorIs(t, c.Register(context.Background()), ErrNoToken)
	require.False(t, c.Available())

	c = New(Options{Token: "123:abc"})
	require.ErrorIs(t, c.Register(context.Background()), ErrNoChat)
}

func TestRegisterFailureKeepsChannelUnavailable(t *testing.T) {
	c := New(Options{
		Token:     "bad",
		ChatID:    42,
		NewSender: func(string) (Sender, error) { return nil, errors.New("Unauthorized") },
	})
	require.Error(t, c.Register(context.Background()))
	require.False(t, c.Available())
	require.ErrorIs(t, c.Display(context.Background(), "t", ports.DisplayOptions{}), ErrNotRegistered)
}

func TestRegisterIsIdempotent(t *testing.T) {
	calls := 0
	c := New(Options{
		Token:  "123:abc",
		ChatID: 42,
		NewSender: func(string) (Sender, error) {
			calls++
			return &fakeSender{}, nil
		},
	})
	require.NoError(t, c.Register(context.Background()))
	require.NoError(t, c.Register(context.Background()))
	require.True(t, c.Available())
	require.Equal(t, 1, calls)
}

func TestDisplaySendsTitleAndBody(t *testing.T) {
	sender := &fakeSender{}
	c := newRegistered(t, sender)

	err := c.Display(context.Background(), "Highlight in #go (libera)", ports.DisplayOptions{
		Body:    "<bob> hi",
		Vibrate: []int{200, 100},
	})
	require.NoError(t, err)
	require.Equal(t, []sent{{42, "Highlight in #go (libera)\n<bob> hi", false}}, sender.sends)
}

func TestDisplayWithoutVibrationIsSilent(t *testing.T) {
	sender := &fakeSender{}
	c := newRegistered(t, sender)

	require.NoError(t, c.Display(context.Background(), "t", ports.DisplayOptions{}))
	require.True(t, sender.sends[0].silent)
}

func TestDisplayCoalescesByTag(t *testing.T) {
	sender := &fakeSender{}
	c := newRegistered(t, sender)
	opts := ports.DisplayOptions{Body: "one", Vibrate: []int{200}, Tag: "gb-highlight-vib"}

	require.NoError(t, c.Display(context.Background(), "first", opts))
	opts.Body = "two"
	require.NoError(t, c.Display(context.Background(), "second", opts))

	require.Len(t, sender.sends, 1)
	require.Equal(t, []sent{{42, "second\ntwo", false}}, sender.edits)
}

func TestDisplayFallsBackToSendWhenEditFails(t *testing.T) {
	sender := &fakeSender{}
	c := newRegistered(t, sender)
	opts := ports.DisplayOptions{Tag: "gb-highlight-vib"}

	require.NoError(t, c.Display(context.Background(), "first", opts))
	sender.editErr = errors.New("message to edit not found")
	require.NoError(t, c.Display(context.Background(), "second", opts))

	require.Len(t, sender.sends, 2)
}

func TestDisplayHonoursCancelledContext(t *testing.T) {
	sender := &fakeSender{}
	c := New(Options{
		Token:      "123:abc",
		ChatID:     42,
		RatePerSec: 1,
		NewSender:  func(string) (Sender, error) { return sender, nil },
	})
	require.NoError(t, c.Register(context.Background()))
	require.NoError(t, c.Display(context.Background(), "first", ports.DisplayOptions{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, c.Display(ctx, "second", ports.DisplayOptions{}))
	require.Len(t, sender.sends, 1)
}

func TestDisplaySendError(t *testing.T) {
	sender := &fakeSender{sendErr: errors.New("flood")}
	c := newRegistered(t, sender)
	require.Error(t, c.Display(context.Background(), "t", ports.DisplayOptions{}))
}
