package bridge

import (
	"bufio"
	"context"
	"fmt"
	"github.com/go-logr/logr"
	"github.com/kinematic-ci/gdbbridge/executor"
	"github.com/pkg/errors"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// fakeGdb speaks enough of the machine interface to drive a Session.
// Targets copy stdin to stdout; an input of "crash" raises SIGSEGV and
// "exit:<n>" exits with n. A non-nil stalled channel holds every target
// until it is closed.
type fakeGdb struct {
	mu       sync.Mutex
	commands []string

	silent   bool
	hangupOn string
	stalled  chan struct{}
	endErr   error

	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter
	done    chan struct{}
}

func (g *fakeGdb) Name() string { return "fake-gdb" }

func (g *fakeGdb) Session(_ context.Context) (executor.Session, error) {
	g.stdinR, g.stdinW = io.Pipe()
	g.stdoutR, g.stdoutW = io.Pipe()
	g.done = make(chan struct{})

	go g.serve()

	return g, nil
}


func (g *fakeGdb) Reader() io.Reader { return g.stdoutR }
func (g *fakeGdb) Writer() io.Writer { return g.stdinW }

func (g *fakeGdb) CloseWrite() error {
	return g.stdinW.Close()
}

func (g *fakeGdb) End(_ context.Context) (int, error) {
	<-g.done

	if g.endErr != nil {
		return 1, g.endErr
	}

	return 0, nil
}

func (g *fakeGdb) Commands() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]string{}, g.commands...)
}

func (g *fakeGdb) emit(lines ...string) {
	for _, line := range lines {
		fmt.Fprint(g.stdoutW, line+"\n")
	}
}

func (g *fakeGdb) serve() {
	defer close(g.done)
	defer g.stdinR.Close()
	defer g.stdoutW.Close()

	if g.silent {
		return
	}

	g.emit(`=thread-group-added,id="i1"`, "(gdb) ")

	scanner := bufio.NewScanner(g.stdinR)

	for scanner.Scan() {
		command := scanner.Text()

		g.mu.Lock()
		g.commands = append(g.commands, command)
		g.mu.Unlock()

		if g.hangupOn != "" && strings.HasPrefix(command, g.hangupOn) {
			return
		}

		switch {
		case command == "exit":
			g.emit("^exit")
			return
		case command == "kill":
			g.emit(`&"kill\n"`, `~"[Inferior 1 (process 42) killed]\n"`, "^done", "(gdb) ")
		case strings.HasPrefix(command, "run "):
			g.run(command)
		default:
			g.emit(fmt.Sprintf(`&"%s\n"`, command), fmt.Sprintf(`~"ack %s\n"`, command), "^done", "(gdb) ")
		}
	}
}

func (g *fakeGdb) run(command string) {
	g.emit(fmt.Sprintf(`&"%s\n"`, command))

	fields := strings.Fields(command)
	in := strings.TrimPrefix(fields[1], "<")
	out := strings.TrimPrefix(fields[2], ">")

	input, _ := os.ReadFile(in)

	g.emit(`~"Starting program: /bin/target \n"`, "^running", `*running,thread-id="all"`, "(gdb) ")

	if g.stalled != nil {
		<-g.stalled
	}

	text := string(input)

	switch {
	case text == "crash":
		_ = os.WriteFile(out, []byte("partial"), 0600)
		g.emit(`~"\nProgram received signal SIGSEGV, Segmentation fault.\n"`,
			`*stopped,reason="signal-received",signal-name="SIGSEGV",signal-meaning="Segmentation fault",`+
				`frame={addr="0x0000000000401136",func="main",args=[]},thread-id="1",stopped-threads="all",core="2"`)
	case strings.HasPrefix(text, "exit:"):
		code, _ := strconv.Atoi(strings.TrimPrefix(text, "exit:"))
		g.emit(fmt.Sprintf(`*stopped,reason="exited",exit-code="%03o"`, code))
	case text == "garbage":
		g.emit(`*stopped,reason="vanished"`)
	default:
		_ = os.WriteFile(out, input, 0600)
		g.emit(`=thread-exited,id="1",group-id="i1"`, `*stopped,reason="exited-normally"`)
	}

	g.emit("(gdb) ")
}

type tempBuffer struct {
	*os.File
}

func (b tempBuffer) Path() string { return b.Name() }

func tempBuffers(t *testing.T) BufferFactory {
	dir := t.TempDir()

	return func(name string) (Buffer, error) {
		f, err := os.Create(dir + "/" + name)

		if err != nil {
			return nil, err
		}

		return tempBuffer{f}, nil
	}
}

func startFake(t *testing.T, g *fakeGdb, opts ...Option) (*Session, error) {
	o := newOptions(append([]Option{WithBufferFactory(tempBuffers(t)), WithLogger(logr.Discard())}, opts...))
	return start(context.Background(), g, "/bin/target", o)
}

type failingExecutor struct{}

func (failingExecutor) Name() string { return "failing" }

func (failingExecutor) Session(_ context.Context) (executor.Session, error) {
	return nil, errors.New("exec: \"gdb\": executable file not found in $PATH")
}
