// FILE: lixenwraith/dataobject/dataobject.go
package dataobject

import (
	"fmt"
)

// Mode selects how reads treat present-but-empty values.
type Mode bool

const (
	// Strict returns any present value verbatim
	Strict Mode = true
	// Soft treats nil, "", false and empty structures as absent
	Soft Mode = false
)

// DataObject is a mutable, path-addressable record.
// A DataObject is owned by a single caller; it performs no locking.
type DataObject struct {
	store *Record
}

// New creates an empty DataObject.
func New() *DataObject {
	return &DataObject{store: NewRecord()}
}

// Of creates a DataObject from a plain record structure, another DataObject,
// an Exporter, a struct, or nil. It returns ErrInvalidShape when the
// canonical keys are exactly "0".."n-1", i.e. the input looks like a list.
func Of(input any) (*DataObject, error) {
	store := canonicalize(input)
	if isListShaped(store) {
		emitShapeRejected(store.Len())
		return nil, fmt.Errorf("cannot build from %T with %d positional keys: %w", input, store.Len(), ErrInvalidShape)
	}
	return &DataObject{store: store}, nil
}

// MustOf is like Of but panics on error
func MustOf(input any) *DataObject {
	d, err := Of(input)
	if err != nil {
		panic(fmt.Sprintf("dataobject construction failed: %v", err))
	}
	return d
}

// Export implements Exporter, so nested objects export through the same capability.
func (d *DataObject) Export() any {
	return d.ToArray()
}

// Restore replaces the store wholesale without validation.
func (d *DataObject) Restore(r *Record) *DataObject {
	if r == nil {
		r = NewRecord()
	}
	d.store = r
	return d
}

// Clone creates a deep copy by round-tripping through the exported form.
func (d *DataObject) Clone() (*DataObject, error) {
	return Of(d.ToArray())
}

func (d *DataObject) root() *Record {
	if d.store == nil {
		d.store = NewRecord()
	}
	return d.store
}
