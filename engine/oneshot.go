package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// OneShot runs a fresh engine process for every request. Suited to
// stateless engines that derive everything from the position line; there
// is no liveness to track and nothing to restart.
type OneShot struct {
	binary   string
	settings settings
}

// NewOneShot configures a spawn-per-request generator for the binary.
func NewOneShot(binary string, options ...Option) *OneShot {
	s := defaultSettings()
	for _, option := range options {
		option(&s)
	}
	return &OneShot{
		binary:   binary,
		settings: s,
	}
}

// Generate spawns the engine under a per-request deadline, feeds it the
// position line and returns the last non-empty stdout line. A deadline hit
// maps to ErrReceiveTimeout so callers treat both modes alike.
func (o *OneShot) Generate(position string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), o.settings.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, o.binary, o.settings.args...)
	cmd.Stdin = strings.NewReader(position + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: %s", ErrReceiveTimeout, o.binary)
		}
		return "", fmt.Errorf("%w: %v: %s", ErrSpawnFailed, err,
			strings.TrimSpace(stderr.String()))
	}

	var reply string
	for _, line := range strings.Split(stdout.String(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			reply = trimmed
		}
	}
	if reply == "" {
		return "", ErrPeerClosed
	}
	return reply, nil
}

var _ Generator = (*OneShot)(nil)
var _ Generator = (*Channel)(nil)
