package bridge

import (
	"fmt"
	"github.com/pkg/errors"
)

var (
	ErrSessionClosed = errors.New("debugger session is closed")
	ErrSessionFailed = errors.New("debugger session failed and must be discarded")
)

// Setup stages reported by SetupError.
const (
	StageSpawn     = "spawn"
	StageHandshake = "handshake"
	StageConfigure = "configure"
	StageLoad      = "load"
)

// SetupError means the debugger could not be brought to a usable state.
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("debugger setup failed during %s: %v", e.Stage, e.Err)
}

func (e *SetupError) Cause() error  { return e.Err }
func (e *SetupError) Unwrap() error { return e.Err }

// IOError means communication with the debugger or a run buffer broke.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("debugger i/o failed: %v", e.Err)
}

func (e *IOError) Cause() error  { return e.Err }
func (e *IOError) Unwrap() error { return e.Err }

// ParseError means the debugger reported a stop record that could not be
// decoded.
type ParseError struct {
	Record string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse stop record %q: %v", e.Record, e.Err)
}

func (e *ParseError) Cause() error  { return e.Err }
func (e *ParseError) Unwrap() error { return e.Err }

// TeardownError means the debugger process did not exit cleanly.
type TeardownError struct {
	ExitCode int
	Err      error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("debugger teardown failed (exit code %d): %v", e.ExitCode, e.Err)
}

func (e *TeardownError) Cause() error  { return e.Err }
func (e *TeardownError) Unwrap() error { return e.Err }
