package speech

import (
	"context"
	"fmt"
	"os/exec"
)

// playerCandidates are local audio players probed in order. ffplay needs
// extra flags to run headless.
var playerCandidates = []struct {
	binary string
	args   []string
}{
	{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{"mpv", []string{"--no-video", "--really-quiet"}},
	{"afplay", nil},
	{"aplay", []string{"-q"}},
	{"mpg123", []string{"-q"}},
}

// Player plays audio files through a local player binary.
type Player struct {
	binary string
	args   []string
}

// NewPlayer probes PATH for a usable audio player.
func NewPlayer() *Player {
	for _, c := range playerCandidates {
		if path, err := exec.LookPath(c.binary); err == nil {
			return &Player{binary: path, args: c.args}
		}
	}
	return &Player{}
}

// Available reports whether a player binary was found.
func (p *Player) Available() bool {
	return p.binary != ""
}

// Play blocks until the file finishes playing or ctx is canceled.
func (p *Player) Play(ctx context.Context, path string) error {
	if !p.Available() {
		return fmt.Errorf("no audio player found on PATH")
	}

	args := append(append([]string{}, p.args...), path)
	cmd := exec.CommandContext(ctx, p.binary, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			// Killed by cancellation; not a playback failure.
			return nil
		}
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}
