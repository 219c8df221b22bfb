package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// State of a Channel's underlying process.
type State int

const (
	NotStarted State = iota
	Running
	Degraded
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Degraded:
		return "degraded"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Channel owns one persistent engine process and its pipes. It is
// single-owner and single-request-in-flight: no two requests are ever
// issued to the same process concurrently. A failed request degrades the
// channel and repairs the process for the next request; the failed request
// itself is never retried.
type Channel struct {
	binary   string
	settings settings

	mu    sync.Mutex
	state State
	proc  *proc
}

// proc bundles one process instance with its pipes and lifecycle channels.
// Owned exclusively by the Channel; a restart discards it wholesale.
type proc struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	lines  chan string   // one entry per stdout line
	exited chan struct{} // closed once the process has been reaped

	teardown sync.Once
	done     chan struct{} // closed on teardown; unblocks the pump
}

// NewChannel configures a channel for the given engine binary. The process
// is not spawned until Start (or the first Generate).
func NewChannel(binary string, options ...Option) *Channel {
	s := defaultSettings()
	for _, option := range options {
		option(&s)
	}
	return &Channel{
		binary:   binary,
		settings: s,
	}
}

// State returns the channel's current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start spawns the engine process with independent stdin, stdout and
// stderr streams. Calling Start on a running channel is an error; from any
// other state it brings the channel to Running.
func (c *Channel) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Running {
		return ErrAlreadyRunning
	}
	// A degraded channel may still hold its dead or wedged process; it
	// must be destroyed before a replacement is spawned.
	if c.proc != nil {
		c.proc.terminate(c.settings.gracePeriod)
		c.proc = nil
	}

	cmd := exec.Command(c.binary, c.settings.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: stdin pipe: %v", ErrSpawnFailed, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: stdout pipe: %v", ErrSpawnFailed, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("%w: stderr pipe: %v", ErrSpawnFailed, err)
	}
	if err := cmd.Start(); err != nil {
		c.state = Stopped
		return fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}

	p := &proc{
		cmd:    cmd,
		stdin:  stdin,
		lines:  make(chan string, 8),
		exited: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go p.run(stdout, stderr)

	c.proc = p
	c.state = Running
	log.Info().Str("binary", c.binary).Int("pid", cmd.Process.Pid).Msg("engine started")
	return nil
}

// Send writes one request line to the engine, appending the trailing
// newline if absent. The write goes straight to the pipe, unbuffered: the
// peer blocks on a line read and must see it promptly.
func (c *Channel) Send(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Running {
		return ErrChannelClosed
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if _, err := io.WriteString(c.proc.stdin, line); err != nil {
		c.state = Degraded
		return fmt.Errorf("engine: write: %w", err)
	}
	return nil
}

// Receive waits up to timeout for one full reply line. It never blocks
// past the deadline: a silent engine yields ErrReceiveTimeout, a closed
// stream with no line yields ErrPeerClosed, and either failure degrades
// the channel.
func (c *Channel) Receive(timeout time.Duration) (string, error) {
	c.mu.Lock()
	if c.state != Running {
		c.mu.Unlock()
		return "", ErrChannelClosed
	}
	lines := c.proc.lines
	c.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case line, ok := <-lines:
		if !ok {
			c.degrade("engine closed its output")
			return "", ErrPeerClosed
		}
		return line, nil
	case <-timer.C:
		c.degrade("receive timed out")
		return "", ErrReceiveTimeout
	}
}

// Interactive is one request/response round-trip: Send then Receive. This
// is the unit the rest of the system calls.
func (c *Channel) Interactive(line string, timeout time.Duration) (string, error) {
	id := uuid.NewString()
	log.Debug().Str("request", id).Str("position", line).Msg("engine request")
	if err := c.Send(line); err != nil {
		return "", err
	}
	reply, err := c.Receive(timeout)
	if err != nil {
		log.Debug().Str("request", id).Err(err).Msg("engine request failed")
		return "", err
	}
	log.Debug().Str("request", id).Str("reply", reply).Msg("engine reply")
	return reply, nil
}

// CheckAlive polls process liveness without blocking. A detected exit
// moves the channel to Degraded.
func (c *Channel) CheckAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Running || c.proc == nil {
		return false
	}
	select {
	case <-c.proc.exited:
		c.state = Degraded
		log.Warn().Str("binary", c.binary).Msg("engine process exited")
		return false
	default:
		return true
	}
}

// Restart tears the process down, waits a short fixed delay and spawns a
// fresh one. All in-flight state is discarded; the caller must re-issue
// its request. A failed restart leaves the channel Stopped.
func (c *Channel) Restart() error {
	c.Kill()
	time.Sleep(c.settings.restartDelay)
	return c.Start()
}

// Kill requests graceful termination, waits up to the grace period, then
// forces the process down. It always leaves the channel Stopped and is
// safe to call any number of times.
func (c *Channel) Kill() {
	c.mu.Lock()
	p := c.proc
	c.proc = nil
	c.state = Stopped
	c.mu.Unlock()

	if p != nil {
		p.terminate(c.settings.gracePeriod)
	}
}

// degrade marks the channel Degraded after an I/O failure, leaving the
// process handle in place for the repairing Restart.
func (c *Channel) degrade(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Running {
		c.state = Degraded
		log.Warn().Str("binary", c.binary).Msg("engine channel degraded: " + reason)
	}
}

// Generate implements Generator with the channel's repair policy: revive a
// dead or degraded process before asking, and repair (but do not retry)
// after a transient failure so the next request can succeed.
func (c *Channel) Generate(position string) (string, error) {
	if !c.CheckAlive() {
		if err := c.Restart(); err != nil {
			return "", err
		}
	}

	reply, err := c.Interactive(position, c.settings.timeout)
	if err != nil {
		if transient(err) {
			if rerr := c.Restart(); rerr != nil {
				log.Error().Err(rerr).Msg("engine restart failed")
			}
		}
		return "", err
	}
	return reply, nil
}

// run pumps stdout lines into the line channel and reaps the process once
// both streams are drained. It is the only goroutine that calls Wait.
func (p *proc) run(stdout, stderr io.Reader) {
	stderrDone := make(chan struct{})
	go func() {
		defer close(stderrDone)
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			log.Debug().Str("stream", "stderr").Msg(scanner.Text())
		}
	}()

	scanner := bufio.NewScanner(stdout)
pump:
	for scanner.Scan() {
		select {
		case p.lines <- scanner.Text():
		case <-p.done:
			break pump
		}
	}
	close(p.lines)

	<-stderrDone
	err := p.cmd.Wait()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		log.Debug().Err(err).Msg("engine process exit")
	}
	close(p.exited)
}

// terminate drives the process to a terminal not-alive state: close stdin,
// signal politely, then kill after the grace period.
func (p *proc) terminate(grace time.Duration) {
	p.teardown.Do(func() {
		close(p.done)
		_ = p.stdin.Close()

		select {
		case <-p.exited:
			return
		default:
		}

		_ = signalProcess(p.cmd.Process, syscall.SIGTERM)
		select {
		case <-p.exited:
		case <-time.After(grace):
			_ = signalProcess(p.cmd.Process, os.Kill)
			<-p.exited
		}
	})
	<-p.exited
}

// signalProcess sends sig, treating an already-reaped process as success.
func signalProcess(process *os.Process, sig os.Signal) error {
	err := process.Signal(sig)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}
