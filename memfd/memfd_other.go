//go:build !linux

package memfd

func Create(name string) (*File, error) {
	return nil, ErrUnsupported
}
