// Package tmux drives the tmux server hosting the chat client: it raises the
// chat pane on click and publishes title and badge into user options.
package tmux

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/cristianoliveira/bufferbell/internal/colors"
)

// DefaultTimeout is the default timeout for tmux commands.
const DefaultTimeout = 5 * time.Second

// PaneContext locates a pane inside the tmux server.
type PaneContext struct {
	SessionID string
	WindowID  string
	PaneID    string
}

// Client abstracts the tmux operations bufferbell needs.
type Client interface {
	// Run executes a tmux command with the given arguments.
	Run(args ...string) (string, string, error)

	// HasSession checks if tmux server is running.
	HasSession() (bool, error)

	// ResolvePane returns the session and window of a pane target such as "%3".
	ResolvePane(target string) (PaneContext, error)

	// SetOption sets a global tmux option.
	SetOption(name, value string) error
}

// DefaultClient implements Client by running the tmux binary.
type DefaultClient struct {
	socketPath string
	timeout    time.Duration
}

// ClientOption is a functional option for configuring a DefaultClient.
type ClientOption func(*DefaultClient)

// WithSocketPath selects a tmux server socket by name (tmux -L).
func WithSocketPath(socketPath string) ClientOption {
	return func(c *DefaultClient) {
		c.socketPath = socketPath
	}
}

// WithTimeout bounds each tmux invocation.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *DefaultClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewDefaultClient creates a new DefaultClient with the given options.
func NewDefaultClient(opts ...ClientOption) *DefaultClient {
	client := &DefaultClient{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// buildArgs prefixes the socket selection, if any.
func (c *DefaultClient) buildArgs(args []string) []string {
	cmdArgs := make([]string, 0, len(args)+2)
	if c.socketPath != "" {
		cmdArgs = append(cmdArgs, "-L", c.socketPath)
	}
	return append(cmdArgs, args...)
}

// runCommand executes a tmux command and returns stdout and stderr.
func (c *DefaultClient) runCommand(args ...string) (string, string, error) {
	start := time.Now()
	fields := map[string]any{"args_count": len(args)}
	if len(args) > 0 {
		fields["command"] = args[0]
	}
	colors.StructuredDebug("tmux", "run", "started", nil, fields)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "tmux", c.buildArgs(args)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	fields["duration_seconds"] = time.Since(start).Seconds()
	if err != nil {
		colors.StructuredError("tmux", "run", "failed", err, fields)
	} else {
		colors.StructuredDebug("tmux", "run", "completed", nil, fields)
	}
	return stdout.String(), stderr.String(), err
}

// Run executes a tmux command with the given arguments.
func (c *DefaultClient) Run(args ...string) (string, string, error) {
	stdout, stderr, err := c.runCommand(args...)
	if err != nil {
		return stdout, stderr, fmt.Errorf("%w: %v: %w", ErrTmuxCommandFailed, args, err)
	}
	return stdout, stderr, nil
}

// HasSession checks if tmux server is running.
func (c *DefaultClient) HasSession() (bool, error) {
	_, stderr, err := c.Run("has-session")
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return false, ErrTmuxNotRunning
	}
	return true, nil
}

// ResolvePane looks up the session and window that own target.
func (c *DefaultClient) ResolvePane(target string) (PaneContext, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return PaneContext{}, ErrInvalidTarget
	}
	stdout, stderr, err := c.Run("display", "-p", "-t", target, "#{session_id} #{window_id} #{pane_id}")
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return PaneContext{}, fmt.Errorf("%w: %s", ErrPaneNotFound, target)
	}
	return parsePaneContext(stdout)
}

func parsePaneContext(out string) (PaneContext, error) {
	parts := strings.Fields(out)
	if len(parts) != 3 {
		return PaneContext{}, fmt.Errorf("unexpected format - expected 3 parts, got %d", len(parts))
	}
	return PaneContext{SessionID: parts[0], WindowID: parts[1], PaneID: parts[2]}, nil
}

// SetOption sets a global tmux option.
func (c *DefaultClient) SetOption(name, value string) error {
	_, stderr, err := c.Run("set-option", "-g", name, value)
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return fmt.Errorf("failed to set option %s: %w", name, err)
	}
	return nil
}
