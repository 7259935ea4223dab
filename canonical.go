// FILE: lixenwraith/dataobject/canonical.go
package dataobject

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
)

// Kind tags the shape of a value slot.
type Kind int

const (
	// KindScalar covers nil, strings, numbers, booleans and opaque values
	KindScalar Kind = iota
	// KindRecord is a nested *Record
	KindRecord
	// KindSequence is a []any
	KindSequence
	// KindObject is a nested *DataObject or any other Exporter
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindSequence:
		return "sequence"
	case KindObject:
		return "object"
	default:
		return "scalar"
	}
}

// Exporter is implemented by types that can present themselves as a plain
// structure. The result may be a *Record, a map, a slice or anything else the
// canonicalizer accepts.
type Exporter interface {
	Export() any
}

// kindOf classifies a normalized value.
// A nil *DataObject is a scalar.
func kindOf(v any) Kind {
	switch t := v.(type) {
	case *Record:
		return KindRecord
	case []any:
		return KindSequence
	case *DataObject:
		if t == nil {
			return KindScalar
		}
		return KindObject
	case Exporter:
		return KindObject
	default:
		return KindScalar
	}
}

// canonicalize converts an accepted input shape into a fresh record.
// It never fails: unsupported shapes degrade to a single positional entry.
func canonicalize(input any) *Record {
	switch v := input.(type) {
	case nil:
		return NewRecord()
	case *DataObject:
		if v == nil {
			return NewRecord()
		}
		return v.ToArray()
	case Exporter:
		return canonicalize(v.Export())
	case *Record:
		return v.Clone()
	case Record:
		return v.Clone()
	}

	switch n := normalize(input).(type) {
	case *Record:
		return n
	case []any:
		return sequenceToRecord(n)
	default:
		if m, ok := structToMap(n); ok {
			return normalize(m).(*Record)
		}
		r := NewRecord(1)
		r.Set("0", n)
		return r
	}
}

// normalize maps built-in container shapes onto records and sequences.
// Objects and opaque values are kept as they are.
func normalize(v any) any {
	switch t := v.(type) {
	case nil, *Record:
		return v
	case *DataObject:
		if t == nil {
			return nil
		}
		return v
	case Record:
		return t.Clone()
	case map[string]any:
		return sortedRecord(len(t), func(yield func(string, any)) {
			for k, e := range t {
				yield(k, e)
			}
		})
	case map[string]string:
		return sortedRecord(len(t), func(yield func(string, any)) {
			for k, e := range t {
				yield(k, e)
			}
		})
	case map[string]int:
		return sortedRecord(len(t), func(yield func(string, any)) {
			for k, e := range t {
				yield(k, e)
			}
		})
	case map[string]bool:
		return sortedRecord(len(t), func(yield func(string, any)) {
			for k, e := range t {
				yield(k, e)
			}
		})
	case map[any]any:
		return sortedRecord(len(t), func(yield func(string, any)) {
			for k, e := range t {
				yield(fmt.Sprint(k), e)
			}
		})
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case []map[string]any:
		return sliceOf(t)
	case []string:
		return sliceOf(t)
	case []int:
		return sliceOf(t)
	case []int64:
		return sliceOf(t)
	case []float64:
		return sliceOf(t)
	case []bool:
		return sliceOf(t)
	default:
		return normalizeReflect(v)
	}
}

// normalizeReflect covers maps and slices of every other type. Map keys are
// stringified and sorted; byte slices and Exporters stay opaque.
func normalizeReflect(v any) any {
	if _, ok := v.(Exporter); ok {
		return v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return sortedRecord(rv.Len(), func(yield func(string, any)) {
			iter := rv.MapRange()
			for iter.Next() {
				yield(fmt.Sprint(iter.Key().Interface()), iter.Value().Interface())
			}
		})
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	}
	return v
}

func sortedRecord(size int, each func(yield func(string, any))) *Record {
	keys := make([]string, 0, size)
	values := make(map[string]any, size)
	each(func(k string, v any) {
		keys = append(keys, k)
		values[k] = v
	})
	sort.Strings(keys)

	r := NewRecord(size)
	for _, k := range keys {
		r.Set(k, normalize(values[k]))
	}
	return r
}

func sliceOf[T any](in []T) []any {
	out := make([]any, len(in))
	for i, e := range in {
		out[i] = normalize(e)
	}
	return out
}

func sequenceToRecord(seq []any) *Record {
	r := NewRecord(len(seq))
	for i, e := range seq {
		r.Set(strconv.Itoa(i), e)
	}
	return r
}

// structToMap decodes a struct or struct pointer into a map using its json tags.
// Types with their own text or JSON form are left untouched.
func structToMap(v any) (map[string]any, bool) {
	switch v.(type) {
	case nil, encoding.TextMarshaler, encoding.BinaryMarshaler, json.Marshaler, fmt.Stringer:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}

	out := make(map[string]any)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: DefaultTagName,
	})
	if err != nil {
		return nil, false
	}
	if err := decoder.Decode(rv.Interface()); err != nil {
		return nil, false
	}
	return out, true
}

// isListShaped reports whether the record keys are exactly "0".."n-1" in order.
func isListShaped(r *Record) bool {
	if r.Len() == 0 {
		return false
	}
	for i, k := range r.keys {
		if k != strconv.Itoa(i) {
			return false
		}
	}
	return true
}

// exportValue converts a single slot into plain data recursively.
func exportValue(v any) any {
	switch kindOf(v) {
	case KindRecord:
		src := v.(*Record)
		out := NewRecord(src.Len())
		src.Range(func(k string, e any) bool {
			out.Set(k, exportValue(e))
			return true
		})
		return out
	case KindSequence:
		seq := v.([]any)
		out := make([]any, len(seq))
		for i, e := range seq {
			out[i] = exportValue(e)
		}
		return out
	case KindObject:
		if d, ok := v.(*DataObject); ok {
			return d.ToArray()
		}
		return exportValue(canonicalize(v))
	}

	if m, ok := structToMap(v); ok {
		return exportValue(normalize(m))
	}
	return v
}
