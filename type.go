// FILE: lixenwraith/dataobject/type.go
package dataobject

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// GetString reads the scalar at path as a string. Numbers are formatted in
// decimal, booleans as "true" or "false", and values with a String method
// through it. A present null reads as "".
func (d *DataObject) GetString(path string) (string, error) {
	return scalarAs[string](d, path, Strict)
}

// GetInt64 reads the scalar at path as an int64. Floats are truncated and
// strings may carry a base prefix ("0x10").
func (d *DataObject) GetInt64(path string) (int64, error) {
	return scalarAs[int64](d, path, Strict)
}

// GetBool reads the scalar at path as a bool. Non-zero numbers are true.
func (d *DataObject) GetBool(path string) (bool, error) {
	return scalarAs[bool](d, path, Strict)
}

// GetFloat64 reads the scalar at path as a float64.
func (d *DataObject) GetFloat64(path string) (float64, error) {
	return scalarAs[float64](d, path, Strict)
}

// GetStringMode is GetString with a fallback. def is returned when the path
// misses, holds a record or sequence, or does not convert; in Soft mode a
// blank value also yields def.
func (d *DataObject) GetStringMode(path, def string, mode Mode) string {
	return scalarOr(d, path, def, mode)
}

// GetInt64Mode is GetInt64 with a fallback, see GetStringMode.
func (d *DataObject) GetInt64Mode(path string, def int64, mode Mode) int64 {
	return scalarOr(d, path, def, mode)
}

// GetBoolMode is GetBool with a fallback, see GetStringMode.
func (d *DataObject) GetBoolMode(path string, def bool, mode Mode) bool {
	return scalarOr(d, path, def, mode)
}

// GetFloat64Mode is GetFloat64 with a fallback, see GetStringMode.
func (d *DataObject) GetFloat64Mode(path string, def float64, mode Mode) float64 {
	return scalarOr(d, path, def, mode)
}

func scalarOr[T any](d *DataObject, path string, def T, mode Mode) T {
	v, err := scalarAs[T](d, path, mode)
	if err != nil {
		return def
	}
	return v
}

// scalarAs resolves path under mode and converts the slot with the same weak
// typing Scan applies to struct fields. Records, sequences and nested objects
// are refused.
func scalarAs[T any](d *DataObject, path string, mode Mode) (T, error) {
	var out T
	value, found := d.Get(path)
	if !found || (mode == Soft && isBlank(value)) {
		return out, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	if kind := kindOf(value); kind != KindScalar {
		return out, fmt.Errorf("%w: %s holds a %s", ErrNotScalar, path, kind)
	}
	if value == nil {
		return out, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		DecodeHook:       scalarTextHookFunc(),
	})
	if err != nil {
		return out, fmt.Errorf("decoder creation failed: %w", err)
	}
	if err := decoder.Decode(value); err != nil {
		return out, fmt.Errorf("cannot read %s as %T: %w", path, out, err)
	}
	return out, nil
}

// scalarTextHookFunc spells booleans as words and formats Stringers when the
// target is a string. Weak decoding alone would give "1" for true.
func scalarTextHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t.Kind() != reflect.String {
			return data, nil
		}
		switch v := data.(type) {
		case bool:
			return strconv.FormatBool(v), nil
		case fmt.Stringer:
			return v.String(), nil
		}
		return data, nil
	}
}
