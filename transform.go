// FILE: lixenwraith/dataobject/transform.go
package dataobject

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"sync"
)

// FilterFunc decides whether an entry is kept. Returning false removes key.
type FilterFunc func(value any, key string, d *DataObject) bool

// Transformer replaces a whole store. The argument is the exported plain
// structure; the result is canonicalized and becomes the new store.
type Transformer interface {
	Transform(data *Record) any
}

// TransformFunc adapts a plain function to the Transformer interface.
type TransformFunc func(data *Record) any

// Transform implements Transformer.
func (f TransformFunc) Transform(data *Record) any {
	return f(data)
}

var (
	transformersMu sync.RWMutex
	transformers   = make(map[string]Transformer)
)

// RegisterTransformer makes t reachable by name from Transform.
// Registering a nil transformer removes the name.
func RegisterTransformer(name string, t Transformer) {
	transformersMu.Lock()
	defer transformersMu.Unlock()

	if t == nil {
		delete(transformers, name)
		return
	}
	transformers[name] = t
}

func lookupTransformer(name string) Transformer {
	transformersMu.RLock()
	defer transformersMu.RUnlock()
	return transformers[name]
}

// Merge deep-overwrites the store with data. Nested records are walked down
// to their leaf paths and written through Set, so sibling keys survive. A
// sequence meeting a stored record or sequence is written element by element;
// into an absent or scalar slot it is written whole.
func (d *DataObject) Merge(data any) *DataObject {
	canonicalize(data).Range(func(key string, value any) bool {
		d.mergeAt(key, value)
		return true
	})
	return d
}

func (d *DataObject) mergeAt(path string, value any) {
	switch kindOf(value) {
	case KindObject:
		d.mergeAt(path, exportValue(value))
	case KindRecord:
		value.(*Record).Range(func(key string, e any) bool {
			d.mergeAt(joinPath(path, key), e)
			return true
		})
	case KindSequence:
		if current, found := d.Get(path); !found || kindOf(current) == KindScalar {
			d.Set(path, cloneValue(value))
			return
		}
		for i, e := range value.([]any) {
			d.mergeAt(joinPath(path, strconv.Itoa(i)), e)
		}
	default:
		d.Set(path, value)
	}
}

// Flatten returns a single-level object whose keys are dot-joined paths from
// the root to every leaf. Sequence elements are addressed by index. A
// non-empty prefix is joined to every key with the delimiter.
func (d *DataObject) Flatten(prefix string) (*DataObject, error) {
	flat := NewRecord()
	d.ToArray().Range(func(key string, value any) bool {
		flattenInto(flat, joinPath(prefix, key), value, true)
		return true
	})
	return Of(flat)
}

// flattenInto writes the leaves of v into flat. Empty records and sequences
// produce no leaves. With sequences false, sequences are leaves themselves.
func flattenInto(flat *Record, path string, v any, sequences bool) {
	switch kindOf(v) {
	case KindRecord:
		v.(*Record).Range(func(key string, e any) bool {
			flattenInto(flat, joinPath(path, key), e, sequences)
			return true
		})
	case KindSequence:
		if !sequences {
			flat.Set(path, cloneValue(v))
			return
		}
		for i, e := range v.([]any) {
			flattenInto(flat, joinPath(path, strconv.Itoa(i)), e, sequences)
		}
	case KindObject:
		flattenInto(flat, path, exportValue(v), sequences)
	default:
		flat.Set(path, v)
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + Delimiter + key
}

// Collapse pulls the top-level values up one level into a new object.
// Keys of record values are merged in, later keys overwriting earlier ones;
// index-like keys, sequence elements, nested objects and scalars are appended
// at the next position.
func (d *DataObject) Collapse() (*DataObject, error) {
	out := NewRecord()
	next := 0
	appendValue := func(v any) {
		out.Set(strconv.Itoa(next), v)
		next++
	}

	for _, value := range d.Values() {
		switch kindOf(value) {
		case KindRecord:
			value.(*Record).Range(func(key string, e any) bool {
				if isIndexKey(key) {
					appendValue(cloneValue(e))
				} else {
					out.Set(key, cloneValue(e))
				}
				return true
			})
		case KindSequence:
			for _, e := range value.([]any) {
				appendValue(cloneValue(e))
			}
		case KindObject:
			if nested, ok := value.(*DataObject); ok {
				appendValue(nested.ToArray())
				continue
			}
			appendValue(value)
		default:
			appendValue(value)
		}
	}

	return Of(out)
}

func isIndexKey(key string) bool {
	idx, err := strconv.Atoi(key)
	return err == nil && idx >= 0 && strconv.Itoa(idx) == key
}

// Filter removes entries in place. With a nil fn, nested objects are filtered
// recursively and kept, and every other falsy value is removed.
func (d *DataObject) Filter(fn FilterFunc) *DataObject {
	d.root().Range(func(key string, value any) bool {
		keep := true
		switch {
		case fn != nil:
			keep = fn(value, key, d)
		default:
			if nested, ok := value.(*DataObject); ok {
				nested.Filter(nil)
			} else {
				keep = isTruthy(value)
			}
		}
		if !keep {
			d.Remove(key)
		}
		return true
	})
	return d
}

// Map returns a new object where the values of keys matched by selector are
// replaced by fn(value). See MapWithKey for the selector forms.
func (d *DataObject) Map(selector any, fn func(value any) any) *DataObject {
	return d.MapWithKey(selector, func(value any, _ string) any {
		return fn(value)
	})
}

// MapWithKey returns a new object where the values of keys matched by
// selector are replaced by fn(value, key). The selector is nil or "*" for
// every key, a []string of keys (a leading "*" matches every key), a
// func(string) bool, or a case-insensitive regular expression. An invalid
// expression matches nothing. Nested structures are not visited.
func (d *DataObject) MapWithKey(selector any, fn func(value any, key string) any) *DataObject {
	match := keyMatcher(selector)
	out := NewRecord(d.Count())
	d.root().Range(func(key string, value any) bool {
		if match(key) {
			value = normalize(fn(value, key))
		}
		out.Set(key, value)
		return true
	})
	return &DataObject{store: out}
}

func keyMatcher(selector any) func(string) bool {
	all := func(string) bool { return true }
	none := func(string) bool { return false }

	switch s := selector.(type) {
	case nil:
		return all
	case func(string) bool:
		if s == nil {
			return none
		}
		return s
	case []string:
		if len(s) > 0 && s[0] == "*" {
			return all
		}
		return func(key string) bool { return slices.Contains(s, key) }
	case string:
		if s == "*" {
			return all
		}
		re, err := regexp.Compile("(?i)" + s)
		if err != nil {
			return none
		}
		return re.MatchString
	}
	return none
}

// Transform replaces the store with the result of t applied to the exported
// structure. t may be a Transformer, a func(*Record) any, a
// func(map[string]any) map[string]any, or the name of a registered
// transformer. An unresolvable t leaves the store unchanged.
func (d *DataObject) Transform(t any) *DataObject {
	var target Transformer
	name := fmt.Sprintf("%T", t)

	switch v := t.(type) {
	case Transformer:
		target = v
	case func(*Record) any:
		if v != nil {
			target = TransformFunc(v)
		}
	case func(map[string]any) map[string]any:
		if v != nil {
			target = TransformFunc(func(data *Record) any { return v(data.ToMap()) })
		}
	case string:
		name = v
		target = lookupTransformer(v)
	}

	if target == nil {
		emitTransformSkipped(name)
		return d
	}

	d.store = canonicalize(target.Transform(d.ToArray()))
	return d
}

// Only returns a new object holding the listed top-level keys that exist.
func (d *DataObject) Only(keys ...string) (*DataObject, error) {
	return d.project(func(key string) bool { return slices.Contains(keys, key) })
}

// Except returns a new object holding every top-level key not listed.
func (d *DataObject) Except(keys ...string) (*DataObject, error) {
	return d.project(func(key string) bool { return !slices.Contains(keys, key) })
}

func (d *DataObject) project(keep func(string) bool) (*DataObject, error) {
	out := NewRecord()
	d.ToArray().Range(func(key string, value any) bool {
		if keep(key) {
			out.Set(key, value)
		}
		return true
	})
	return Of(out)
}

// Either returns the first truthy value found at keys, or def.
// Present but falsy values such as 0, "" and false are skipped.
func (d *DataObject) Either(keys []string, def any) any {
	for _, key := range keys {
		if value := d.GetDefault(key, nil); isTruthy(value) {
			return value
		}
	}
	return def
}

// FindKey returns the first top-level key whose exported value is identical
// to valueOrPredicate, or for which a func(value any, key string) bool
// predicate returns true. Integers of any width match each other but never a
// float, and strings never match numbers.
func (d *DataObject) FindKey(valueOrPredicate any) (string, bool) {
	needle := exportValue(normalize(valueOrPredicate))
	match := func(value any, _ string) bool {
		return valuesIdentical(value, needle)
	}
	if pred, ok := valueOrPredicate.(func(value any, key string) bool); ok && pred != nil {
		match = pred
	}

	var found string
	var ok bool
	d.ToArray().Range(func(key string, value any) bool {
		if match(value, key) {
			found, ok = key, true
			return false
		}
		return true
	})
	return found, ok
}
