package tmux

import (
	"fmt"
	"os"
	"strings"

	"github.com/cristianoliveira/bufferbell/internal/colors"
	"github.com/cristianoliveira/bufferbell/internal/ports"
)

// Focuser raises the pane running the chat client.
type Focuser struct {
	client Client
	pane   string
}

// NewFocuser creates a Focuser for pane. An empty pane falls back to $TMUX_PANE.
func NewFocuser(client Client, pane string) *Focuser {
	if strings.TrimSpace(pane) == "" {
		pane = os.Getenv("TMUX_PANE")
	}
	return &Focuser{client: client, pane: strings.TrimSpace(pane)}
}

// Pane returns the pane target being raised.
func (f *Focuser) Pane() string {
	return f.pane
}

// Foreground switches the client to the chat pane's session, window and pane.
func (f *Focuser) Foreground() (err error) {
	fields := map[string]any{"pane": f.pane}
	colors.StructuredInfo("tmux", "foreground", "started", nil, fields)
	defer func() {
		if err != nil {
			colors.StructuredError("tmux", "foreground", "failed", err, fields)
			return
		}
		colors.StructuredInfo("tmux", "foreground", "completed", nil, fields)
	}()

	pc, err := f.client.ResolvePane(f.pane)
	if err != nil {
		return err
	}
	if _, _, err := f.client.Run("switch-client", "-t", pc.SessionID); err != nil {
		return fmt.Errorf("switch client to session %s: %w", pc.SessionID, err)
	}
	targetWindow := pc.SessionID + ":" + pc.WindowID
	if _, _, err := f.client.Run("select-window", "-t", targetWindow); err != nil {
		return fmt.Errorf("window %s does not exist: %w", targetWindow, err)
	}
	if _, _, err := f.client.Run("select-pane", "-t", pc.PaneID); err != nil {
		return fmt.Errorf("failed to select pane %s: %w", pc.PaneID, err)
	}
	return nil
}

var _ ports.WindowFocuser = (*Focuser)(nil)
