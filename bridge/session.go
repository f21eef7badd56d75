// Package bridge drives gdb through its machine interface: it loads a binary,
// runs it with injected input, captures its output and reports why it stopped.
//
// A Session serves one request at a time. Every call blocks until gdb emits the
// terminator it waits for; there are no timeouts. Cancel the context passed to
// Start to kill a debugger that hangs.
package bridge

import (
	"context"
	"fmt"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/kinematic-ci/gdbbridge/executor"
	"github.com/kinematic-ci/gdbbridge/lineio"
	"github.com/kinematic-ci/gdbbridge/stop"
	"github.com/pkg/errors"
	"io"
	"strings"
	"sync"
)

const (
	// Prompt is the line gdb emits when it is ready for the next command.
	Prompt = "(gdb)"

	interpreterFlag = "--interpreter=mi"
	signalMarker    = `reason="signal-received"`
)

var noninteractive = []string{
	"set pagination off",
	"set debuginfod enabled off",
	"set confirm off",
}

type State int

const (
	StateStarting State = iota
	StateReady
	StateConfiguring
	StateRunning
	StateFailed
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateConfiguring:
		return "configuring"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateTerminated:
		return "terminated"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Session owns one gdb process. Callers must Close it once done, including
// after errors.
type Session struct {
	mu         sync.Mutex
	stateMu    sync.Mutex
	state      State
	process    executor.Session
	io         *lineio.Transport
	executable string
	buffers    BufferFactory
	log        logr.Logger

	closeOnce sync.Once
	closeErr  error
}

// Start spawns gdb, waits for its first prompt, makes it non-interactive and
// loads executable.
func Start(ctx context.Context, executable string, opts ...Option) (*Session, error) {
	o := newOptions(opts)

	ex := executor.NewProcessExecutor(o.debugger, []string{interpreterFlag})
	ex.Stderr = o.stderr
	ex.WorkingDirectory = o.dir

	return start(ctx, ex, executable, o)
}

func start(ctx context.Context, ex executor.Executor, executable string, o *options) (*Session, error) {
	log := o.log.WithName("gdb")

	process, err := ex.Session(ctx)

	if err != nil {
		return nil, &SetupError{Stage: StageSpawn, Err: err}
	}

	s := &Session{
		state:      StateStarting,
		process:    process,
		io:         lineio.New(process.Writer(), process.Reader(), log),
		executable: executable,
		buffers:    o.buffers,
		log:        log,
	}

	err = s.setup(o.setup)

	if err != nil {
		s.setState(StateFailed)

		if closeErr := s.Close(); closeErr != nil {
			log.Error(closeErr, "unable to tear down debugger after failed setup")
		}

		return nil, err
	}

	s.setState(StateReady)
	log.V(1).Info("debugger ready", "executor", ex.Name(), "executable", executable)

	return s, nil
}

func (s *Session) setup(extra []string) error {
	_, err := s.io.ReadUntil(Prompt)

	if err != nil {
		return &SetupError{Stage: StageHandshake, Err: err}
	}

	for _, command := range append(append([]string{}, noninteractive...), extra...) {
		_, err = s.exchange(command)

		if err != nil {
			return &SetupError{Stage: StageConfigure, Err: errors.Wrapf(err, "command %q", command)}
		}
	}

	_, err = s.exchange("file " + s.executable)

	if err != nil {
		return &SetupError{Stage: StageLoad, Err: err}
	}

	return nil
}

// exchange sends one command, skips gdb's echo of it and returns everything up
// to and including the next prompt.
func (s *Session) exchange(command string) (string, error) {
	err := s.io.WriteLine(command)

	if err != nil {
		return "", err
	}

	_, err = s.io.ReadLine()

	if err != nil {
		return "", errors.Wrap(err, "unable to read command echo")
	}

	return s.io.ReadUntil(Prompt)
}

// State reports where the session is in its lifecycle. It never waits for a
// call in flight.
func (s *Session) State() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	return s.state
}

func (s *Session) setState(state State) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	s.state = state
}

// acquire takes the call mutex and moves to next. The mutex stays held until
// release.
func (s *Session) acquire(next State) error {
	s.mu.Lock()

	switch s.State() {
	case StateTerminated:
		s.mu.Unlock()
		return ErrSessionClosed
	case StateFailed:
		s.mu.Unlock()
		return ErrSessionFailed
	}

	s.setState(next)
	return nil
}

func (s *Session) release(err error) {
	if err != nil {
		s.setState(StateFailed)
	} else {
		s.setState(StateReady)
	}

	s.mu.Unlock()
}

// SendCommand issues one gdb command and returns its response lines,
// including the closing prompt.
func (s *Session) SendCommand(command string) (response string, err error) {
	if err = s.acquire(StateConfiguring); err != nil {
		return "", err
	}
	defer func() { s.release(err) }()

	response, err = s.exchange(command)

	if err != nil {
		return "", &IOError{Err: errors.Wrapf(err, "command %q", command)}
	}

	return response, nil
}

// Run executes the loaded binary with input on its stdin and returns why it
// stopped together with everything it wrote to stdout.
//
// Run waits for a stop record. If gdb refuses to start the target, for example
// because a previous inferior is still alive, no record ever comes and Run
// blocks until the debugger is killed through the Start context.
func (s *Session) Run(input []byte) (reason stop.Reason, output []byte, err error) {
	if err = s.acquire(StateRunning); err != nil {
		return nil, nil, err
	}
	defer func() { s.release(err) }()

	runID := uuid.New().String()
	log := s.log.WithValues("run", runID)

	stdin, err := s.buffers("stdin-" + runID)

	if err != nil {
		return nil, nil, &IOError{Err: errors.Wrap(err, "unable to create input buffer")}
	}
	defer stdin.Close()

	stdout, err := s.buffers("stdout-" + runID)

	if err != nil {
		return nil, nil, &IOError{Err: errors.Wrap(err, "unable to create output buffer")}
	}
	defer stdout.Close()

	_, err = stdin.Write(input)

	if err != nil {
		return nil, nil, &IOError{Err: errors.Wrap(err, "unable to fill input buffer")}
	}

	command := fmt.Sprintf("run <%s >%s", stdin.Path(), stdout.Path())
	log.V(1).Info("running target", "executable", s.executable, "inputBytes", len(input))

	err = s.io.WriteLine(command)

	if err != nil {
		return nil, nil, &IOError{Err: err}
	}

	events, err := s.io.ReadUntil(stop.Marker)

	if err != nil {
		return nil, nil, &IOError{Err: err}
	}

	record := lastLine(events)

	_, err = s.io.ReadUntil(Prompt)

	if err != nil {
		return nil, nil, &IOError{Err: err}
	}

	// A signalled target is suspended, not gone.
	if strings.Contains(record, signalMarker) {
		_, err = s.exchange("kill")

		if err != nil {
			return nil, nil, &IOError{Err: errors.Wrap(err, "unable to kill signalled target")}
		}
	}

	_, err = stdout.Seek(0, io.SeekStart)

	if err != nil {
		return nil, nil, &IOError{Err: errors.Wrap(err, "unable to rewind output buffer")}
	}

	output, err = io.ReadAll(stdout)

	if err != nil {
		return nil, nil, &IOError{Err: errors.Wrap(err, "unable to read output buffer")}
	}

	reason, err = stop.Parse(record)

	if err != nil {
		return nil, nil, &ParseError{Record: record, Err: err}
	}

	log.V(1).Info("target stopped", "reason", reason.String(), "outputBytes", len(output))

	return reason, output, nil
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// Close asks gdb to exit and waits for it. Only the first call does any work;
// later calls return the same result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.closeErr = s.teardown()
		s.setState(StateTerminated)
	})

	return s.closeErr
}

func (s *Session) teardown() error {
	err := s.io.WriteLine("exit")

	if err != nil {
		s.log.Info("unable to ask debugger to exit", "err", err.Error())
	}

	err = s.process.CloseWrite()

	if err != nil {
		s.log.Info("unable to close debugger input", "err", err.Error())
	}

	// gdb answers exit with a last record; end of stream is expected here.
	if rest, err := s.io.ReadAll(); err == nil {
		s.log.V(2).Info("discarded trailing output", "bytes", len(rest))
	}

	code, err := s.process.End(context.Background())

	if err != nil {
		err = &TeardownError{ExitCode: code, Err: err}
		s.log.Error(err, "debugger did not exit cleanly")
		return err
	}

	s.log.V(1).Info("debugger exited")

	return nil
}
