package bridge

import (
	"github.com/go-logr/logr"
	"github.com/kinematic-ci/gdbbridge/memfd"
	"io"
)

const defaultDebugger = "gdb"

// Buffer is a disk-less byte store the debugger can open by path.
type Buffer interface {
	io.ReadWriteSeeker
	io.Closer
	Path() string
}

// BufferFactory creates the per-run input and output buffers.
type BufferFactory func(name string) (Buffer, error)

// MemfdBuffers backs run buffers with memfd files.
func MemfdBuffers(name string) (Buffer, error) {
	f, err := memfd.Create(name)

	if err != nil {
		return nil, err
	}

	return f, nil
}

type options struct {
	debugger string
	setup    []string
	log      logr.Logger
	stderr   io.Writer
	dir      string
	buffers  BufferFactory
}

type Option func(*options)

// WithDebugger sets the debugger binary. Defaults to gdb from PATH.
func WithDebugger(path string) Option {
	return func(o *options) {
		o.debugger = path
	}
}

// WithSetupCommands adds commands issued after the fixed setup sequence and
// before the executable is loaded.
func WithSetupCommands(commands ...string) Option {
	return func(o *options) {
		o.setup = append(o.setup, commands...)
	}
}

func WithLogger(log logr.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithStderr forwards the debugger's standard error. It is discarded otherwise.
func WithStderr(w io.Writer) Option {
	return func(o *options) {
		o.stderr = w
	}
}

// WithWorkingDirectory starts gdb in dir, so relative executable paths and
// gdb's own file lookups resolve there.
func WithWorkingDirectory(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

func WithBufferFactory(factory BufferFactory) Option {
	return func(o *options) {
		o.buffers = factory
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		debugger: defaultDebugger,
		log:      logr.Discard(),
		buffers:  MemfdBuffers,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}
