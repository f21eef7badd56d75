package executor

import (
	"context"
	"github.com/pkg/errors"
	"io"
	"os/exec"
)

type processSession struct {
	cmd    *exec.Cmd
	stdout io.Reader
	stdin  io.WriteCloser
}

func newProcessSession(cmd *exec.Cmd) (*processSession, error) {
	stdout, err := cmd.StdoutPipe()

	if err != nil {
		return nil, errors.Wrap(err, "unable to pipe STDOUT")
	}

	stdin, err := cmd.StdinPipe()

	if err != nil {
		return nil, errors.Wrap(err, "unable to pipe STDIN")
	}

	err = cmd.Start()

	if err != nil {
		return nil, errors.Wrapf(err, "unable to start %s", cmd.Path)
	}

	return &processSession{
		cmd:    cmd,
		stdout: stdout,
		stdin:  stdin,
	}, nil
}

func (s *processSession) Reader() io.Reader {
	return s.stdout
}

func (s *processSession) Writer() io.Writer {
	return s.stdin
}

func (s *processSession) CloseWrite() error {
	err := s.stdin.Close()

	if err != nil {
		return errors.Wrap(err, "unable to close IO")
	}

	return nil
}

func (s *processSession) End(_ context.Context) (int, error) {
	err := s.cmd.Wait()

	if err != nil {
		return s.cmd.ProcessState.ExitCode(), errors.Wrap(err, "error while waiting for process to end")
	}

	return s.cmd.ProcessState.ExitCode(), nil
}

// ProcessExecutor starts a local program with piped standard streams.
// Stderr is discarded unless a sink is set.
type ProcessExecutor struct {
	Path             string
	Arguments        []string
	WorkingDirectory string
	Stderr           io.Writer
}

func NewProcessExecutor(path string, arguments []string) *ProcessExecutor {
	return &ProcessExecutor{Path: path, Arguments: arguments}
}

func (e *ProcessExecutor) Name() string {
	return "process"
}

// Session starts the program. Cancelling ctx kills it.
func (e *ProcessExecutor) Session(ctx context.Context) (Session, error) {
	cmd := exec.CommandContext(ctx, e.Path, e.Arguments...)
	cmd.Dir = e.WorkingDirectory
	cmd.Stderr = e.Stderr
	session, err := newProcessSession(cmd)

	if err != nil {
		return nil, errors.Wrap(err, "unable to start session")
	}

	return session, nil
}
