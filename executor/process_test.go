package executor

import (
	"bufio"
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os/exec"
	"path/filepath"
	"testing"
)

func lookPath(t *testing.T, name string) string {
	path, err := exec.LookPath(name)

	if err != nil {
		t.Skipf("%s not available: %v", name, err)
	}

	return path
}

func TestProcessExecutor_Session(t *testing.T) {
	t.Run("Should pipe stdin to stdout", func(t *testing.T) {
		e := NewProcessExecutor(lookPath(t, "cat"), nil)

		session, err := e.Session(context.Background())
		require.Nil(t, err)

		_, err = session.Writer().Write([]byte("(gdb) \n"))
		require.Nil(t, err)

		line, err := bufio.NewReader(session.Reader()).ReadString('\n')

		assert.Nil(t, err)
		assert.Equal(t, "(gdb) \n", line)

		assert.Nil(t, session.CloseWrite())

		code, err := session.End(context.Background())

		assert.Nil(t, err)
		assert.Equal(t, 0, code)
	})

	t.Run("Should report non-zero exit", func(t *testing.T) {
		e := NewProcessExecutor(lookPath(t, "sh"), []string{"-c", "exit 3"})

		session, err := e.Session(context.Background())
		require.Nil(t, err)

		code, err := session.End(context.Background())

		assert.NotNil(t, err)
		assert.Equal(t, 3, code)
	})

	t.Run("Should start in the working directory", func(t *testing.T) {
		dir, err := filepath.EvalSymlinks(t.TempDir())
		require.Nil(t, err)

		e := NewProcessExecutor(lookPath(t, "sh"), []string{"-c", "pwd -P"})
		e.WorkingDirectory = dir

		session, err := e.Session(context.Background())
		require.Nil(t, err)

		line, err := bufio.NewReader(session.Reader()).ReadString('\n')

		assert.Nil(t, err)
		assert.Equal(t, dir+"\n", line)

		_, err = session.End(context.Background())

		assert.Nil(t, err)
	})

	t.Run("Should return error for a missing program", func(t *testing.T) {
		e := NewProcessExecutor("/nonexistent/gdb", nil)

		session, err := e.Session(context.Background())

		assert.Nil(t, session)
		assert.NotNil(t, err)
	})

	t.Run("Should name itself", func(t *testing.T) {
		assert.Equal(t, "process", NewProcessExecutor("gdb", nil).Name())
	})
}
