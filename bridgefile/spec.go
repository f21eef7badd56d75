package bridgefile

import (
	"github.com/kinematic-ci/gdbbridge/stop"
	"github.com/kinematic-ci/gdbbridge/utils"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
)

const defaultDebugger = "gdb"

type Debugger struct {
	Path  string
	Setup []string
}

type Case struct {
	Name      string
	Input     string
	InputFile string `yaml:"input_file"`
	Expect    string
	ExitCode  *uint64 `yaml:"exit_code"`
}

type Target struct {
	Name        string
	Description string
	Executable  string
	Commands    []string
	Cases       []Case
}

type Bridgefile struct {
	Debugger Debugger
	Targets  []Target
}

func Load(bytes []byte) (*Bridgefile, error) {
	bridgefile := &Bridgefile{}
	err := yaml.Unmarshal(bytes, bridgefile)

	if err != nil {
		return nil, errors.Wrap(err, "unable to parse yaml")
	}

	err = validate(bridgefile)

	if err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	bridgefile.Debugger.Path = utils.StringOrDefault(bridgefile.Debugger.Path, defaultDebugger)

	return bridgefile, nil
}

// Target looks a target up by name.
func (b *Bridgefile) Target(name string) (Target, bool) {
	for _, target := range b.Targets {
		if target.Name == name {
			return target, true
		}
	}

	return Target{}, false
}

// Bytes returns the case input. Relative input files resolve against baseDir.
func (c Case) Bytes(baseDir string) ([]byte, error) {
	if c.InputFile == "" {
		return []byte(c.Input), nil
	}

	path := c.InputFile

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	data, err := os.ReadFile(path)

	if err != nil {
		return nil, errors.Wrapf(err, "unable to read input for case %s", c.Name)
	}

	return data, nil
}

func validate(bridgefile *Bridgefile) error {
	if len(bridgefile.Targets) == 0 {
		return errors.Errorf("one or more targets required")
	}

	seen := map[string]bool{}

	for i, target := range bridgefile.Targets {
		err := validateTarget(target)

		if err == nil && seen[target.Name] {
			err = errors.New("duplicate target name")
		}

		if err != nil {
			return errors.Wrapf(err, "validation failed for target: %s at %d", target.Name, i)
		}

		seen[target.Name] = true
	}

	return nil
}

func validateTarget(target Target) error {
	if target.Name == "" {
		return errors.New("name is required")
	}

	if target.Executable == "" {
		return errors.New("executable is required")
	}

	for i, c := range target.Cases {
		err := validateCase(c)

		if err != nil {
			return errors.Wrapf(err, "invalid case: %s at %d", c.Name, i)
		}
	}

	return nil
}

func validateCase(c Case) error {
	if c.Name == "" {
		return errors.New("name is required")
	}

	if c.Input != "" && c.InputFile != "" {
		return errors.New("input and input_file are mutually exclusive")
	}

	switch c.Expect {
	case "", stop.ReasonExitedNormally, stop.ReasonExited, stop.ReasonSignalReceived:
	default:
		return errors.Errorf("unsupported expectation: %s", c.Expect)
	}

	if c.ExitCode != nil && c.Expect != stop.ReasonExited {
		return errors.Errorf("exit_code requires expect: %s", stop.ReasonExited)
	}

	return nil
}
