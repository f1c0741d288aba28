// Package audio plays the highlight sound through an external player.
package audio

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/cristianoliveira/bufferbell/internal/colors"
	"github.com/cristianoliveira/bufferbell/internal/ports"
)

var (
	// ErrNoPlayer indicates that no player command is configured.
	ErrNoPlayer = errors.New("no audio player configured")
	// ErrNoAsset indicates that no file exists for any of the requested formats.
	ErrNoAsset = errors.New("no playable audio asset")
)

// Player starts a command such as "paplay" or "mpv --really-quiet" with the
// sound file as last argument. Playback is not awaited.
type Player struct {
	command []string
	start   func(name string, args ...string) error
	exists  func(path string) bool
}

// NewPlayer creates a Player for command.
func NewPlayer(command string) *Player {
	return &Player{
		command: strings.Fields(command),
		start:   startDetached,
		exists:  fileExists,
	}
}

// Play tries asset.<format> for each format in order; the first file that
// exists and whose player starts wins.
func (p *Player) Play(asset string, formats []string) error {
	if len(p.command) == 0 {
		return ErrNoPlayer
	}
	var errs []error
	for _, format := range formats {
		path := asset + "." + strings.TrimPrefix(format, ".")
		if !p.exists(path) {
			continue
		}
		args := append(append([]string{}, p.command[1:]...), path)
		err := p.start(p.command[0], args...)
		if err == nil {
			colors.StructuredDebug("audio", "play", "started", nil, map[string]any{"path": path})
			return nil
		}
		errs = append(errs, fmt.Errorf("play %s: %w", path, err))
	}
	if len(errs) == 0 {
		return fmt.Errorf("%w: %s (%s)", ErrNoAsset, asset, strings.Join(formats, ","))
	}
	return errors.Join(errs...)
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

var _ ports.AudioPlayer = (*Player)(nil)
