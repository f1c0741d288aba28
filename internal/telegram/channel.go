// Package telegram delivers background notifications through a Telegram bot.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cristianoliveira/bufferbell/internal/logging"
	"github.com/cristianoliveira/bufferbell/internal/ports"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"
)

var (
	// ErrNoToken indicates that no bot token is configured.
	ErrNoToken = errors.New("telegram token is empty")
	// ErrNoChat indicates that no destination chat is configured.
	ErrNoChat = errors.New("telegram chat id is not set")
	// ErrNotRegistered is returned by Display before a successful Register.
	ErrNotRegistered = errors.New("telegram channel not registered")
)

// Sender is the part of *tele.Bot the channel uses.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Options configures a Channel.
type Options struct {
	Token      string
	ChatID     int64
	RatePerSec int
	Logger     logging.Logger
	// NewSender builds the bot. The default validates the token with getMe.
	NewSender func(token string) (Sender, error)
}

// Channel implements ports.DeliveryChannel. It becomes available once
// Register succeeds.
type Channel struct {
	token     string
	chat      *tele.Chat
	newSender func(string) (Sender, error)
	limiter   *rate.Limiter
	log       logging.Logger

	mu     sync.Mutex
	sender Sender
	// tagged holds the last message sent per tag so repeats edit it in place.
	tagged map[string]*tele.Message
}

// New creates an unregistered Channel.
func New(opts Options) *Channel {
	rps := opts.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	newSender := opts.NewSender
	if newSender == nil {
		newSender = newBot
	}
	return &Channel{
		token:     strings.TrimSpace(opts.Token),
		chat:      &tele.Chat{ID: opts.ChatID},
		newSender: newSender,
		limiter:   rate.NewLimiter(rate.Limit(rps), rps),
		log:       log,
		tagged:    make(map[string]*tele.Message),
	}
}

func newBot(token string) (Sender, error) {
	bot, err := tele.NewBot(tele.Settings{Token: token})
	if err != nil {
		return nil, err
	}
	return bot, nil
}

// Register connects the bot. Registering twice is a no-op.
func (c *Channel) Register(ctx context.Context) error {
	if c.token == "" {
		return ErrNoToken
	}
	if c.chat.ID == 0 {
		return ErrNoChat
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sender != nil {
		return nil
	}
	sender, err := c.newSender(c.token)
	if err != nil {
		return fmt.Errorf("telegram: register bot: %w", err)
	}
	c.sender = sender
	return nil
}

// Available reports whether Register has succeeded.
func (c *Channel) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sender != nil
}

// Display sends title and body as one message. Telegram has no icon or
// vibration; an empty vibration pattern sends the message silently. A
// message with the tag of an earlier one replaces it.
func (c *Channel) Display(ctx context.Context, title string, opts ports.DisplayOptions) error {
	c.mu.Lock()
	sender := c.sender
	c.mu.Unlock()
	if sender == nil {
		return ErrNotRegistered
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram: rate limit: %w", err)
	}

	text := title
	if opts.Body != "" {
		text += "\n" + opts.Body
	}
	sendOpts := &tele.SendOptions{DisableNotification: len(opts.Vibrate) == 0}

	if opts.Tag != "" {
		c.mu.Lock()
		prev := c.tagged[opts.Tag]
		c.mu.Unlock()
		if prev != nil {
			msg, err := sender.Edit(prev, text, sendOpts)
			if err == nil {
				c.remember(opts.Tag, msg, prev)
				return nil
			}
			c.log.Debug("edit tagged message failed, sending new one", "tag", opts.Tag, "error", err)
		}
	}

	msg, err := sender.Send(c.chat, text, sendOpts)
	if err != nil {
		return fmt.Errorf("telegram: send: %w", err)
	}
	if opts.Tag != "" {
		c.remember(opts.Tag, msg, nil)
	}
	return nil
}

func (c *Channel) remember(tag string, msg, fallback *tele.Message) {
	if msg == nil {
		msg = fallback
	}
	if msg == nil {
		return
	}
	c.mu.Lock()
	c.tagged[tag] = msg
	c.mu.Unlock()
}

var _ ports.DeliveryChannel = (*Channel)(nil)
