// FILE: lixenwraith/dataobject/patch.go
package dataobject

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// ApplyPatch applies an RFC 6902 JSON Patch document to the store in place.
// On error the store is left unchanged.
func (d *DataObject) ApplyPatch(patch []byte) error {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		emitPatchApplied("json-patch", 0, err)
		return fmt.Errorf("failed to decode JSON patch: %w", err)
	}

	doc, err := d.MarshalJSON()
	if err != nil {
		return err
	}
	patched, err := ops.Apply(doc)
	if err != nil {
		emitPatchApplied("json-patch", len(ops), err)
		return fmt.Errorf("failed to apply JSON patch: %w", err)
	}

	if err := d.replaceFromJSON(patched); err != nil {
		return err
	}
	emitPatchApplied("json-patch", len(ops), nil)
	return nil
}

// ApplyMergePatch applies an RFC 7386 JSON Merge Patch to the store in place.
// Unlike Merge, a null in the patch deletes the key.
func (d *DataObject) ApplyMergePatch(patch []byte) error {
	doc, err := d.MarshalJSON()
	if err != nil {
		return err
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		emitPatchApplied("merge-patch", 0, err)
		return fmt.Errorf("failed to apply merge patch: %w", err)
	}

	if err := d.replaceFromJSON(merged); err != nil {
		return err
	}
	emitPatchApplied("merge-patch", 1, nil)
	return nil
}

// CreateMergePatch returns the RFC 7386 merge patch that turns d into target.
func (d *DataObject) CreateMergePatch(target *DataObject) ([]byte, error) {
	original, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	modified, err := target.MarshalJSON()
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.CreateMergePatch(original, modified)
	if err != nil {
		return nil, fmt.Errorf("failed to create merge patch: %w", err)
	}
	return patch, nil
}

// replaceFromJSON swaps the store for a patched document. Keys that survived
// the patch keep their previous order; new keys follow.
func (d *DataObject) replaceFromJSON(data []byte) error {
	patched := NewRecord()
	if err := patched.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("patched document is not an object: %w", err)
	}
	d.store = reorderLike(patched, d.ToArray())
	return nil
}

func reorderLike(patched, original *Record) *Record {
	out := NewRecord(patched.Len())
	place := func(key string) {
		value := patched.values[key]
		if prev, ok := original.Get(key); ok {
			if pr, ok := prev.(*Record); ok {
				if nr, ok := value.(*Record); ok {
					value = reorderLike(nr, pr)
				}
			}
		}
		out.Set(key, value)
	}

	for _, key := range original.Keys() {
		if patched.Has(key) {
			place(key)
		}
	}
	for _, key := range patched.Keys() {
		if !out.Has(key) {
			place(key)
		}
	}
	return out
}
