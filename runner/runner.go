package runner

import (
	"context"
	"github.com/go-logr/logr"
	"github.com/kinematic-ci/gdbbridge/bridge"
	"github.com/kinematic-ci/gdbbridge/bridgefile"
	"github.com/kinematic-ci/gdbbridge/list"
	"github.com/kinematic-ci/gdbbridge/stop"
	"github.com/pkg/errors"
)

// Session is the part of bridge.Session the runner drives.
type Session interface {
	SendCommand(command string) (string, error)
	Run(input []byte) (stop.Reason, []byte, error)
	Close() error
}

// Starter opens a session with executable loaded.
type Starter func(ctx context.Context, executable string) (Session, error)

// BridgeStarter starts real gdb sessions with opts.
func BridgeStarter(opts ...bridge.Option) Starter {
	return func(ctx context.Context, executable string) (Session, error) {
		s, err := bridge.Start(ctx, executable, opts...)

		if err != nil {
			return nil, err
		}

		return s, nil
	}
}

type batch struct {
	ctx     context.Context
	start   Starter
	target  bridgefile.Target
	current Session
	log     logr.Logger
}

// Run executes every case of target in order on one session. A case that breaks
// the session is recorded and the next case gets a fresh one.
func Run(ctx context.Context, start Starter, target bridgefile.Target, baseDir string, log logr.Logger) (*list.ResultList, error) {
	b := &batch{
		ctx:    ctx,
		start:  start,
		target: target,
		log:    log.WithName("runner").WithValues("target", target.Name),
	}
	defer b.discard()

	results := list.NewResultList()

	for _, c := range target.Cases {
		result := list.Result{Case: c.Name}

		input, err := c.Bytes(baseDir)

		if err != nil {
			result.Err = err
			results.Add(result)
			continue
		}

		session, err := b.session()

		if err != nil {
			return results, errors.Wrapf(err, "cannot start session for target %s", target.Name)
		}

		result.Reason, result.Output, result.Err = session.Run(input)

		if result.Err != nil {
			b.log.Info("case broke the session", "case", c.Name, "err", result.Err.Error())
			b.discard()
		} else {
			result.Matched = Matches(c, result.Reason)
			b.log.V(1).Info("case finished", "case", c.Name, "reason", result.Reason.String(), "matched", result.Matched)
		}

		results.Add(result)
	}

	return results, nil
}

func (b *batch) session() (Session, error) {
	if b.current != nil {
		return b.current, nil
	}

	s, err := b.start(b.ctx, b.target.Executable)

	if err != nil {
		return nil, err
	}

	for _, command := range b.target.Commands {
		_, err = s.SendCommand(command)

		if err != nil {
			b.closeSession(s)
			return nil, errors.Wrapf(err, "command %q failed", command)
		}
	}

	b.current = s

	return s, nil
}

func (b *batch) discard() {
	if b.current == nil {
		return
	}

	b.closeSession(b.current)
	b.current = nil
}

func (b *batch) closeSession(s Session) {
	if err := s.Close(); err != nil {
		b.log.Error(err, "unable to close session")
	}
}

// Matches reports whether reason satisfies the case expectation. A case with
// no expectation matches anything.
func Matches(c bridgefile.Case, reason stop.Reason) bool {
	if c.Expect == "" {
		return true
	}

	if reason == nil || reason.Reason() != c.Expect {
		return false
	}

	if exited, ok := reason.(stop.Exited); ok && c.ExitCode != nil {
		return exited.ExitCode == *c.ExitCode
	}

	return true
}
