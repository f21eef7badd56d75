package stop

import (
	"encoding/json"
	"github.com/pkg/errors"
	"math"
	"reflect"
	"strconv"
)

// ParseUnsigned coerces a decoded record value into an unsigned integer.
// Strings are parsed in the given base. Native numbers are taken at face value,
// whatever the base.
func ParseUnsigned(value interface{}, base int) (uint64, error) {
	switch v := value.(type) {
	case string:
		n, err := strconv.ParseUint(v, base, 64)

		if err != nil {
			return 0, errors.Wrapf(err, "cannot parse %q as base %d number", v, base)
		}

		return n, nil
	case json.Number:
		n, err := strconv.ParseUint(string(v), 10, 64)

		if err != nil {
			return 0, errors.Wrapf(err, "cannot parse %q as unsigned number", string(v))
		}

		return n, nil
	case float64:
		if v < 0 || v != math.Trunc(v) || v >= 1<<64 {
			return 0, errors.Errorf("%v is not an unsigned integer", v)
		}

		return uint64(v), nil
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 {
			return 0, errors.Errorf("%d is negative", rv.Int())
		}

		return uint64(rv.Int()), nil
	}

	return 0, errors.Errorf("unsupported number representation %T", value)
}

// octal and decimal mark wire fields for numberHook.
type octal uint64
type decimal uint64

var (
	octalType   = reflect.TypeOf(octal(0))
	decimalType = reflect.TypeOf(decimal(0))
)

func numberHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	switch to {
	case octalType:
		n, err := ParseUnsigned(data, 8)
		return octal(n), err
	case decimalType:
		n, err := ParseUnsigned(data, 10)
		return decimal(n), err
	}

	return data, nil
}
