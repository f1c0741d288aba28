package tmux

import (
	"fmt"

	"github.com/cristianoliveira/bufferbell/internal/presentation"
)

// User options written by Publisher. Reference them from status-left or
// set-titles-string, e.g. "#{@bufferbell_badge} #{@bufferbell_title}".
const (
	OptionTitle      = "@bufferbell_title"
	OptionBadge      = "@bufferbell_badge"
	OptionBadgeCount = "@bufferbell_count"
)

// Publisher mirrors the presentation state into tmux user options.
type Publisher struct {
	client Client
	last   presentation.State
	seeded bool
}

// NewPublisher creates a Publisher.
func NewPublisher(client Client) *Publisher {
	return &Publisher{client: client}
}

// Publish writes state into tmux. Options whose value did not change are skipped.
func (p *Publisher) Publish(state presentation.State) error {
	if !p.seeded || state.Title() != p.last.Title() {
		if err := p.client.SetOption(OptionTitle, state.Title()); err != nil {
			return err
		}
	}
	if !p.seeded || state.Badge != p.last.Badge {
		if err := p.client.SetOption(OptionBadge, presentation.TmuxBadge(state.Badge)); err != nil {
			return err
		}
		if err := p.client.SetOption(OptionBadgeCount, fmt.Sprintf("%d", state.Badge.Count)); err != nil {
			return err
		}
	}
	p.last = state
	p.seeded = true
	return nil
}
