package list

import "github.com/kinematic-ci/gdbbridge/stop"

// Result is the outcome of one case. Reason and Output are unset when Err is.
type Result struct {
	Case    string
	Reason  stop.Reason
	Output  []byte
	Err     error
	Matched bool
}

func (r Result) Failed() bool {
	return r.Err != nil || !r.Matched
}

type ResultList struct {
	values []Result
}

func NewResultList(values ...Result) *ResultList {
	return &ResultList{values}
}

func (d *ResultList) Add(value Result) {
	d.values = append(d.values, value)
}

func (d *ResultList) Values() []Result {
	return d.values
}

// Failed counts results that errored or missed their expectation.
func (d *ResultList) Failed() int {
	failed := 0

	for _, value := range d.values {
		if value.Failed() {
			failed++
		}
	}

	return failed
}
