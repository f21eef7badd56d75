// Package lineio implements a blocking request/response exchange over a
// line-oriented byte stream.
package lineio

import (
	"bufio"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"io"
	"strings"
)

type Transport struct {
	w   *bufio.Writer
	r   *bufio.Reader
	log logr.Logger
}

func New(w io.Writer, r io.Reader, log logr.Logger) *Transport {
	return &Transport{
		w:   bufio.NewWriter(w),
		r:   bufio.NewReader(r),
		log: log,
	}
}

// WriteLine writes text followed by a newline and flushes.
func (t *Transport) WriteLine(text string) error {
	t.log.V(2).Info("send", "line", text)

	err := t.write(text + "\n")

	if err != nil {
		return errors.Wrap(err, "unable to write line")
	}

	return nil
}

// WriteRaw writes text as is and flushes.
func (t *Transport) WriteRaw(text string) error {
	err := t.write(text)

	if err != nil {
		return errors.Wrap(err, "unable to write raw data")
	}

	return nil
}

func (t *Transport) write(text string) error {
	_, err := t.w.WriteString(text)

	if err != nil {
		return err
	}

	return t.w.Flush()
}

// ReadLine blocks until a full line is available and returns it with its
// trailing newline. End of stream is an error.
func (t *Transport) ReadLine() (string, error) {
	line, err := t.r.ReadString('\n')

	if err == io.EOF && line != "" {
		err = io.ErrUnexpectedEOF
	}

	if err != nil {
		return "", errors.Wrap(err, "unable to read line")
	}

	t.log.V(2).Info("recv", "line", strings.TrimRight(line, "\r\n"))

	return line, nil
}

// ReadUntil accumulates lines up to and including the first one that starts
// with prefix. It blocks until such a line arrives or the stream fails.
func (t *Transport) ReadUntil(prefix string) (string, error) {
	var buf strings.Builder

	for {
		line, err := t.ReadLine()

		if err != nil {
			return buf.String(), errors.Wrapf(err, "waiting for %q", prefix)
		}

		buf.WriteString(line)

		if strings.HasPrefix(line, prefix) {
			return buf.String(), nil
		}
	}
}

// ReadAll drains the stream.
func (t *Transport) ReadAll() ([]byte, error) {
	data, err := io.ReadAll(t.r)

	if err != nil {
		return data, errors.Wrap(err, "unable to drain stream")
	}

	return data, nil
}
