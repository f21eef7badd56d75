package stop

import (
	"encoding/json"
	"github.com/pkg/errors"
	"regexp"
	"strings"
)

// Marker starts every stop-event line the debugger emits.
const Marker = "*stopped"

var bareKey = regexp.MustCompile(`([a-z\-]+)=`)

// Normalize turns a stop record into a JSON object by quoting its bare keys.
// The record must start with Marker.
func Normalize(record string) string {
	if !strings.HasPrefix(record, Marker) {
		panic("stop record does not start with " + Marker)
	}

	body := strings.TrimPrefix(strings.TrimPrefix(record, Marker), ",")
	body = strings.TrimRight(body, "\r\n")

	return "{" + bareKey.ReplaceAllString(body, `"${1}":`) + "}"
}

// Jsonize normalizes the record and decodes it into a generic map.
// Numbers are kept as json.Number.
func Jsonize(record string) (map[string]interface{}, error) {
	decoder := json.NewDecoder(strings.NewReader(Normalize(record)))
	decoder.UseNumber()

	fields := map[string]interface{}{}
	err := decoder.Decode(&fields)

	if err != nil {
		return nil, errors.Wrap(err, "malformed stop record")
	}

	return fields, nil
}
