// Package memfd provides anonymous, memory-backed files that other processes
// can open through the /proc/<pid>/fd namespace of the current process.
package memfd

import (
	"fmt"
	"github.com/pkg/errors"
	"os"
)

var ErrUnsupported = errors.New("disk-less buffers are not supported on this platform")

// File is a memory-backed file with no path on any filesystem.
type File struct {
	*os.File
	fd uintptr
}

// Path addresses the file through this process' descriptor table.
func (f *File) Path() string {
	return fmt.Sprintf("/proc/%d/fd/%d", os.Getpid(), f.fd)
}
