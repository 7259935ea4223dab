// FILE: lixenwraith/dataobject/record.go
package dataobject

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"slices"

	"github.com/goccy/go-json"
)

// Record is an insertion-ordered string-keyed mapping.
// It is the canonical store of a DataObject and of every nested record node.
// Setting an existing key keeps its position; deleting a key closes the gap.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord creates an empty record with room for size entries.
func NewRecord(size ...int) *Record {
	n := 0
	if len(size) > 0 {
		n = size[0]
	}
	return &Record{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// RecordOf builds a record from alternating key/value pairs.
// It is intended for literals in tests and examples: RecordOf("a", 1, "b", 2).
func RecordOf(pairs ...any) *Record {
	r := NewRecord(len(pairs) / 2)
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(fmt.Sprint(pairs[i]), normalize(pairs[i+1]))
	}
	return r
}

// Len returns the number of entries.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return []string{}
	}
	return slices.Clone(r.keys)
}

// Values returns the values in key order.
func (r *Record) Values() []any {
	if r == nil {
		return []any{}
	}
	out := make([]any, len(r.keys))
	for i, k := range r.keys {
		out[i] = r.values[k]
	}
	return out
}

// Get returns the value stored at key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present, independent of its value.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Set stores value at key, appending key if it is new.
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Delete removes key. Missing keys are ignored.
func (r *Record) Delete(key string) {
	if r == nil {
		return
	}
	if _, exists := r.values[key]; !exists {
		return
	}
	delete(r.values, key)
	if i := slices.Index(r.keys, key); i >= 0 {
		r.keys = slices.Delete(r.keys, i, i+1)
	}
}

// Range calls fn for each entry in order until fn returns false.
// The key list is snapshotted, so fn may mutate the record.
func (r *Record) Range(fn func(key string, value any) bool) {
	if r == nil {
		return
	}
	for _, k := range slices.Clone(r.keys) {
		v, ok := r.values[k]
		if !ok {
			continue
		}
		if !fn(k, v) {
			return
		}
	}
}

// Clone returns a deep copy. Nested objects are copied with their own stores.
func (r *Record) Clone() *Record {
	if r == nil {
		return NewRecord()
	}
	out := NewRecord(len(r.keys))
	for _, k := range r.keys {
		out.Set(k, cloneValue(r.values[k]))
	}
	return out
}

func cloneValue(v any) any {
	switch kindOf(v) {
	case KindRecord:
		return v.(*Record).Clone()
	case KindSequence:
		seq := v.([]any)
		out := make([]any, len(seq))
		for i, e := range seq {
			out[i] = cloneValue(e)
		}
		return out
	case KindObject:
		if d, ok := v.(*DataObject); ok {
			return &DataObject{store: d.root().Clone()}
		}
	}
	return v
}

// Equal reports whether both records hold equal values under the same key order.
// Numbers compare by value regardless of their Go type.
func (r *Record) Equal(other *Record) bool {
	return recordsEqual(r, other, true)
}

func recordsEqual(a, b *Record, looseNumbers bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	for i, k := range a.keys {
		if b.keys[i] != k {
			return false
		}
		if !compareValues(a.values[k], b.values[k], looseNumbers) {
			return false
		}
	}
	return true
}

// valuesIdentical compares like Equal with integers and floats kept apart,
// so 1 and 1.0 differ while int and int64 holding 1 do not.
func valuesIdentical(a, b any) bool {
	return compareValues(a, b, false)
}

func compareValues(a, b any, looseNumbers bool) bool {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case KindRecord:
		return recordsEqual(a.(*Record), b.(*Record), looseNumbers)
	case KindSequence:
		sa, sb := a.([]any), b.([]any)
		if len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if !compareValues(sa[i], sb[i], looseNumbers) {
				return false
			}
		}
		return true
	case KindObject:
		da, okA := a.(*DataObject)
		db, okB := b.(*DataObject)
		if okA && okB {
			return recordsEqual(da.root(), db.root(), looseNumbers)
		}
	}
	if eq, ok := numbersEqual(a, b, looseNumbers); ok {
		return eq
	}
	return reflect.DeepEqual(a, b)
}

// numbersEqual compares two numbers by value across Go numeric types, so an
// int written by the caller equals the int64 decoded from its JSON text.
// Without looseFloats an integer never equals a float.
// ok is false unless both values are numbers.
func numbersEqual(a, b any, looseFloats bool) (eq, ok bool) {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	ca, cb := numberClass(va.Kind()), numberClass(vb.Kind())
	if ca == 0 || cb == 0 {
		return false, false
	}

	switch {
	case !looseFloats && (ca == 'f') != (cb == 'f'):
		return false, true
	case ca == 'f' || cb == 'f':
		return toFloat(va) == toFloat(vb), true
	case ca == 'i' && cb == 'i':
		return va.Int() == vb.Int(), true
	case ca == 'u' && cb == 'u':
		return va.Uint() == vb.Uint(), true
	case ca == 'i':
		return va.Int() >= 0 && uint64(va.Int()) == vb.Uint(), true
	default:
		return vb.Int() >= 0 && uint64(vb.Int()) == va.Uint(), true
	}
}

func numberClass(k reflect.Kind) byte {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return 'i'
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return 'u'
	case reflect.Float32, reflect.Float64:
		return 'f'
	}
	return 0
}

func toFloat(v reflect.Value) float64 {
	switch numberClass(v.Kind()) {
	case 'i':
		return float64(v.Int())
	case 'u':
		return float64(v.Uint())
	}
	return v.Float()
}

// ToMap converts the record into plain Go maps and slices, dropping key order.
func (r *Record) ToMap() map[string]any {
	out := make(map[string]any, r.Len())
	r.Range(func(k string, v any) bool {
		out[k] = toPlainMapValue(v)
		return true
	})
	return out
}

func toPlainMapValue(v any) any {
	switch kindOf(v) {
	case KindRecord:
		return v.(*Record).ToMap()
	case KindSequence:
		seq := v.([]any)
		out := make([]any, len(seq))
		for i, e := range seq {
			out[i] = toPlainMapValue(e)
		}
		return out
	case KindObject:
		return exportValue(v).(*Record).ToMap()
	}
	return v
}

// MarshalJSON encodes the record as a JSON object preserving key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the record contents with a JSON object, preserving
// the document's key order at every depth.
func (r *Record) UnmarshalJSON(data []byte) error {
	if err := checkJSONDocument(data); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read JSON object: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	decoded, err := decodeJSONObject(dec)
	if err != nil {
		return err
	}
	*r = *decoded
	return nil
}

// checkJSONDocument rejects anything but exactly one well-formed JSON value.
// The token walk alone tolerates stray separators and trailing values.
func checkJSONDocument(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON document: %w", err)
	}
	return nil
}

// decodeJSONObject reads object members after the opening brace has been consumed.
func decodeJSONObject(dec *json.Decoder) (*Record, error) {
	r := NewRecord()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON key: %w", err)
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return r, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected JSON key, got %v", tok)
		}
		value, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		r.Set(key, value)
	}
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("failed to read JSON value: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			seq := make([]any, 0)
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				seq = append(seq, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("failed to close JSON array: %w", err)
			}
			return seq, nil
		}
		return nil, fmt.Errorf("unexpected JSON delimiter %q", t)
	case json.Number:
		return numberValue(t), nil
	default:
		return t, nil
	}
}

// numberValue narrows a JSON number to int64 when it is integral, float64 otherwise.
func numberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
