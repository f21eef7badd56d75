package stop

import (
	"fmt"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"sort"
	"strings"
)

const (
	ReasonExitedNormally = "exited-normally"
	ReasonExited         = "exited"
	ReasonSignalReceived = "signal-received"
)

// Reason is why the target stopped. It is one of ExitedNormally, Exited or
// SignalReceived.
type Reason interface {
	fmt.Stringer
	// Reason returns the wire spelling of the variant.
	Reason() string
	isReason()
}

type ExitedNormally struct{}

func (ExitedNormally) Reason() string { return ReasonExitedNormally }
func (ExitedNormally) String() string { return "exited normally" }
func (ExitedNormally) isReason()      {}

type Exited struct {
	ExitCode uint64
}

func (Exited) Reason() string   { return ReasonExited }
func (e Exited) String() string { return fmt.Sprintf("exited with code %d", e.ExitCode) }
func (Exited) isReason()        {}

type SignalReceived struct {
	Core       uint64
	ThreadID   uint64
	SignalName string
}

func (SignalReceived) Reason() string { return ReasonSignalReceived }
func (s SignalReceived) String() string {
	return fmt.Sprintf("received %s on thread %d (core %d)", s.SignalName, s.ThreadID, s.Core)
}
func (SignalReceived) isReason() {}

type exitedRecord struct {
	ExitCode octal `mapstructure:"exit-code"`
}

type signalRecord struct {
	Core       decimal `mapstructure:"core"`
	ThreadID   decimal `mapstructure:"thread-id"`
	SignalName string  `mapstructure:"signal-name"`
}

// Parse decodes a raw stop record into its Reason.
func Parse(record string) (Reason, error) {
	fields, err := Jsonize(record)

	if err != nil {
		return nil, err
	}

	tag, ok := fields["reason"].(string)

	if !ok {
		return nil, errors.New("stop record has no reason")
	}

	switch tag {
	case ReasonExitedNormally:
		return ExitedNormally{}, nil
	case ReasonExited:
		var rec exitedRecord

		if err := decode(fields, &rec); err != nil {
			return nil, errors.Wrapf(err, "invalid %s record", tag)
		}

		return Exited{ExitCode: uint64(rec.ExitCode)}, nil
	case ReasonSignalReceived:
		var rec signalRecord

		if err := decode(fields, &rec); err != nil {
			return nil, errors.Wrapf(err, "invalid %s record", tag)
		}

		return SignalReceived{
			Core:       uint64(rec.Core),
			ThreadID:   uint64(rec.ThreadID),
			SignalName: rec.SignalName,
		}, nil
	}

	return nil, errors.Errorf("unrecognized stop reason %q", tag)
}

func decode(fields map[string]interface{}, result interface{}) error {
	var metadata mapstructure.Metadata

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: numberHook,
		Metadata:   &metadata,
		Result:     result,
	})

	if err != nil {
		return errors.Wrap(err, "cannot build decoder")
	}

	err = decoder.Decode(fields)

	if err != nil {
		return err
	}

	if len(metadata.Unset) > 0 {
		sort.Strings(metadata.Unset)
		return errors.Errorf("missing fields: %s", strings.Join(metadata.Unset, ", "))
	}

	return nil
}
