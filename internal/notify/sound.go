package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// CommandPlayer plays a sound by running an external player such as
// "paplay" or "afplay" with the sound location as its last argument.
type CommandPlayer struct {
	command []string
}

// NewCommandPlayer parses a whitespace separated command line.
func NewCommandPlayer(command string) (*CommandPlayer, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("empty player command")
	}
	return &CommandPlayer{command: fields}, nil
}

// Play implements Player.
func (c *CommandPlayer) Play(ctx context.Context, url string) error {
	if url == "" {
		return errors.New("no sound configured")
	}
	args := append(append([]string(nil), c.command[1:]...), url)
	out, err := exec.CommandContext(ctx, c.command[0], args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("running %s: %w: %s", c.command[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// BellPlayer rings the terminal bell.
type BellPlayer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewBellPlayer writes BEL characters to out.
func NewBellPlayer(out io.Writer) *BellPlayer {
	return &BellPlayer{out: out}
}

// Play implements Player. The url is ignored.
func (b *BellPlayer) Play(_ context.Context, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.out, "\a")
	return err
}
