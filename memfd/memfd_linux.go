//go:build linux

package memfd

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"os"
)

func Create(name string) (*File, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)

	if err != nil {
		return nil, errors.Wrapf(err, "unable to create memfd %s", name)
	}

	return &File{File: os.NewFile(uintptr(fd), name), fd: uintptr(fd)}, nil
}
