// Package engine talks to the external move-generating process over its
// standard input and output. The protocol is line-oriented: one position
// line in, one move line back, no handshake and no framing beyond the
// newline.
package engine

import (
	"errors"
	"time"
)

// Generator produces a move for a position encoding. The position is the
// concatenation of every move played so far; the reply is the engine's raw
// response line, prompt decoration included.
type Generator interface {
	Generate(position string) (string, error)
}

var (
	// ErrSpawnFailed means the engine binary could not be started. Fatal
	// at startup; not retried automatically.
	ErrSpawnFailed = errors.New("engine: spawn failed")
	// ErrAlreadyRunning means Start was called on a running channel.
	ErrAlreadyRunning = errors.New("engine: already running")
	// ErrChannelClosed means an operation was attempted on a channel that
	// is not running. Caller error.
	ErrChannelClosed = errors.New("engine: channel not running")
	// ErrReceiveTimeout means no reply line arrived within the deadline.
	ErrReceiveTimeout = errors.New("engine: receive timed out")
	// ErrPeerClosed means the engine closed its output with no reply.
	ErrPeerClosed = errors.New("engine: engine closed its output")
)

// transient reports whether err should trigger a repair restart: the
// request yielded no move, but the process may be wedged or gone.
func transient(err error) bool {
	return errors.Is(err, ErrReceiveTimeout) || errors.Is(err, ErrPeerClosed)
}

type Option func(*settings)

type settings struct {
	args         []string
	timeout      time.Duration
	gracePeriod  time.Duration
	restartDelay time.Duration
}

func defaultSettings() settings {
	return settings{
		timeout:      30 * time.Second,
		gracePeriod:  2 * time.Second,
		restartDelay: 500 * time.Millisecond,
	}
}

// WithArgs sets the arguments the engine binary is launched with.
func WithArgs(args ...string) Option {
	return func(s *settings) {
		s.args = args
	}
}

// WithTimeout sets the per-request deadline on the engine's reply.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithGracePeriod sets how long a terminating process gets between the
// polite signal and the forced kill.
func WithGracePeriod(grace time.Duration) Option {
	return func(s *settings) {
		if grace > 0 {
			s.gracePeriod = grace
		}
	}
}

// WithRestartDelay sets the pause between killing a dead process and
// spawning its replacement.
func WithRestartDelay(delay time.Duration) Option {
	return func(s *settings) {
		if delay >= 0 {
			s.restartDelay = delay
		}
	}
}
