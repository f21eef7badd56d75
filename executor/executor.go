package executor

import (
	"context"
	"io"
)

// Session is a running process whose standard streams are piped to the caller.
type Session interface {
	Reader() io.Reader
	Writer() io.Writer
	CloseWrite() error
	End(ctx context.Context) (int, error)
}

type Executor interface {
	Name() string
	Session(ctx context.Context) (Session, error)
}
