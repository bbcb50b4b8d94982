package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultPlayerCommand plays a clip to completion without opening a window.
const DefaultPlayerCommand = "ffplay -nodisp -autoexit -loglevel quiet"

// Player plays an audio file and blocks until it finishes. Cancelling ctx
// stops playback.
type Player interface {
	// Check reports whether the player can be used.
	Check() error

	Play(ctx context.Context, path string) error
}

// ExecPlayer plays clips through an external command. The clip path is
// appended as the last argument.
type ExecPlayer struct {
	name string
	args []string
}

// NewExecPlayer parses a whitespace-separated command line.
func NewExecPlayer(command string) (*ExecPlayer, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("player command is empty")
	}
	return &ExecPlayer{name: fields[0], args: fields[1:]}, nil
}

func (p *ExecPlayer) Check() error {
	if _, err := exec.LookPath(p.name); err != nil {
		return fmt.Errorf("audio player %q not found: %w", p.name, err)
	}
	return nil
}

func (p *ExecPlayer) Play(ctx context.Context, path string) error {
	args := append(append([]string(nil), p.args...), path)
	cmd := exec.CommandContext(ctx, p.name, args...)
	err := cmd.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with status %d", p.name, exitErr.ExitCode())
		}
		return fmt.Errorf("run %s: %w", p.name, err)
	}
	return nil
}

// String returns the command line without the clip path.
func (p *ExecPlayer) String() string {
	return strings.Join(append([]string{p.name}, p.args...), " ")
}
