// FILE: lixenwraith/dataobject/path.go
package dataobject

import (
	"slices"
	"strconv"
	"strings"
)

// Delimiter separates path segments.
const Delimiter = "."

// splitPath splits a dot-separated path into segments. The empty path has none.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Delimiter)
}

// Get retrieves the value at path in Strict mode.
// The second return value reports whether every segment resolved.
// Records and sequences are returned live: changing them changes the store.
// Use ToArray or Clone for a detached copy.
func (d *DataObject) Get(path string) (any, bool) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, false
	}
	return lookup(d.root(), segments)
}

// GetDefault retrieves the value at path, or def on a miss.
func (d *DataObject) GetDefault(path string, def any) any {
	return d.GetMode(path, def, Strict)
}

// GetMode retrieves the value at path, or def on a miss.
// In Soft mode a present but empty value also yields def.
func (d *DataObject) GetMode(path string, def any, mode Mode) any {
	value, found := d.Get(path)
	if !found {
		return def
	}
	if mode == Soft && isBlank(value) {
		return def
	}
	return value
}

// Has reports whether path resolves, regardless of the value found there.
// A literal top-level key wins over path interpretation, so keys that contain
// the delimiter are reachable.
func (d *DataObject) Has(path string) bool {
	if path == "" {
		return false
	}
	if d.root().Has(path) {
		return true
	}
	_, found := lookup(d.root(), splitPath(path))
	return found
}

// Set writes value at path, creating intermediate records as needed.
// A path without a delimiter writes the top-level key directly. Intermediate
// scalars are replaced by records, discarding the scalar. When the walk meets
// a nested DataObject, the rest of the path is handed to that object's Set.
func (d *DataObject) Set(path string, value any) *DataObject {
	value = normalize(value)
	if !strings.Contains(path, Delimiter) {
		d.root().Set(path, value)
		return d
	}
	setIn(d.root(), splitPath(path), value)
	return d
}

// Remove deletes each key independently. A key matching a top-level key
// exactly is deleted as is; otherwise it is treated as a path. Paths whose
// intermediates are missing or not descendable are ignored.
func (d *DataObject) Remove(keys ...string) *DataObject {
	root := d.root()
	for _, key := range keys {
		if root.Has(key) {
			root.Delete(key)
			continue
		}
		segments := splitPath(key)
		if len(segments) == 0 {
			continue
		}
		removeIn(root, segments)
	}
	return d
}

// lookup walks segments from node. Any missing key or non-descendable node is a miss.
func lookup(node any, segments []string) (any, bool) {
	current := node
	for i, segment := range segments {
		switch kindOf(current) {
		case KindRecord:
			next, ok := current.(*Record).Get(segment)
			if !ok {
				return nil, false
			}
			current = next
		case KindSequence:
			seq := current.([]any)
			idx, ok := sequenceIndex(segment, len(seq))
			if !ok {
				return nil, false
			}
			current = seq[idx]
		case KindObject:
			if nested, ok := current.(*DataObject); ok {
				return lookup(nested.root(), segments[i:])
			}
			return lookup(canonicalize(current), segments[i:])
		default:
			return nil, false
		}
	}
	return current, true
}

// setIn assigns value at segments below r.
func setIn(r *Record, segments []string, value any) {
	segment := segments[0]
	if len(segments) == 1 {
		r.Set(segment, value)
		return
	}
	child, _ := r.Get(segment)
	r.Set(segment, descend(child, segments[1:], value))
}

// descend writes value at segments below child and returns the node to store
// in child's slot.
func descend(child any, segments []string, value any) any {
	switch kindOf(child) {
	case KindRecord:
		setIn(child.(*Record), segments, value)
		return child
	case KindSequence:
		return setInSequence(child.([]any), segments, value)
	case KindObject:
		if nested, ok := child.(*DataObject); ok {
			nested.Set(strings.Join(segments, Delimiter), value)
			return nested
		}
	}

	fresh := NewRecord()
	setIn(fresh, segments, value)
	return fresh
}

// setInSequence addresses an element by index. An index equal to the length
// appends; any other segment promotes the sequence to a record first.
func setInSequence(seq []any, segments []string, value any) any {
	idx, err := strconv.Atoi(segments[0])
	valid := err == nil && idx >= 0 && strconv.Itoa(idx) == segments[0]

	switch {
	case valid && idx < len(seq):
		if len(segments) == 1 {
			seq[idx] = value
		} else {
			seq[idx] = descend(seq[idx], segments[1:], value)
		}
		return seq
	case valid && idx == len(seq):
		elem := value
		if len(segments) > 1 {
			elem = descend(nil, segments[1:], value)
		}
		return append(seq, elem)
	}

	promoted := sequenceToRecord(seq)
	setIn(promoted, segments, value)
	return promoted
}

// removeIn deletes the final segment below r.
func removeIn(r *Record, segments []string) {
	if len(segments) == 1 {
		r.Delete(segments[0])
		return
	}
	child, ok := r.Get(segments[0])
	if !ok {
		return
	}
	if updated, replaced := removeBelow(child, segments[1:]); replaced {
		r.Set(segments[0], updated)
	}
}

// removeBelow deletes the final segment below node. It reports whether node
// itself was replaced, which happens when a sequence element is spliced out.
func removeBelow(node any, segments []string) (any, bool) {
	switch kindOf(node) {
	case KindRecord:
		removeIn(node.(*Record), segments)
	case KindSequence:
		seq := node.([]any)
		idx, ok := sequenceIndex(segments[0], len(seq))
		if !ok {
			return node, false
		}
		if len(segments) == 1 {
			return slices.Delete(seq, idx, idx+1), true
		}
		if updated, replaced := removeBelow(seq[idx], segments[1:]); replaced {
			seq[idx] = updated
		}
	case KindObject:
		if nested, ok := node.(*DataObject); ok {
			nested.Remove(strings.Join(segments, Delimiter))
		}
	}
	return node, false
}

// sequenceIndex parses a canonical decimal index within [0, n).
func sequenceIndex(segment string, n int) (int, bool) {
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 || idx >= n || strconv.Itoa(idx) != segment {
		return 0, false
	}
	return idx, true
}

// isBlank reports whether a present value counts as empty in Soft mode:
// nil, zero-length strings, false, and empty records or sequences.
func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []byte:
		return len(t) == 0
	case bool:
		return !t
	case *Record:
		return t.Len() == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// isTruthy follows loose truthiness: zero numbers and "0" are false as well
// as everything isBlank rejects. Objects are always true.
func isTruthy(v any) bool {
	if isBlank(v) {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != "0"
	case int:
		return t != 0
	case int8:
		return t != 0
	case int16:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case uint:
		return t != 0
	case uint8:
		return t != 0
	case uint16:
		return t != 0
	case uint32:
		return t != 0
	case uint64:
		return t != 0
	case float32:
		return t != 0
	case float64:
		return t != 0
	}
	return true
}
