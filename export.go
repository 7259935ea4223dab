// FILE: lixenwraith/dataobject/export.go
package dataobject

import (
	"bytes"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/crypto/blake2b"
)

// Digest names a hash algorithm for Sum.
type Digest string

const (
	DigestMD5     Digest = "md5"
	DigestSHA256  Digest = "sha256"
	DigestBLAKE2b Digest = "blake2b"
)

// ToArray exports the store as plain data. Nested objects, Exporters and
// structs are converted recursively; the result shares nothing with the store.
func (d *DataObject) ToArray() *Record {
	return exportValue(d.root()).(*Record)
}

// ToMap exports the store as plain Go maps and slices. Key order is lost.
func (d *DataObject) ToMap() map[string]any {
	return d.ToArray().ToMap()
}

// Count returns the number of top-level keys.
func (d *DataObject) Count() int {
	return d.root().Len()
}

// IsEmpty reports whether there are no top-level keys.
func (d *DataObject) IsEmpty() bool {
	return d.Count() == 0
}

// Keys returns the top-level keys in insertion order.
func (d *DataObject) Keys() []string {
	return d.root().Keys()
}

// Values returns the top-level values in insertion order.
func (d *DataObject) Values() []any {
	return d.root().Values()
}

// Equal reports whether both objects export to the same structure, key order included.
func (d *DataObject) Equal(other *DataObject) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.ToArray().Equal(other.ToArray())
}

// MarshalJSON encodes the exported structure.
func (d *DataObject) MarshalJSON() ([]byte, error) {
	return d.ToArray().MarshalJSON()
}

// UnmarshalJSON replaces the store with a decoded JSON object. Like Restore,
// it performs no shape validation.
func (d *DataObject) UnmarshalJSON(data []byte) error {
	r := NewRecord()
	if err := r.UnmarshalJSON(data); err != nil {
		return err
	}
	d.store = r
	return nil
}

// String returns the JSON text of the exported structure.
func (d *DataObject) String() string {
	b, err := d.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// Hash returns the hex MD5 digest of the JSON text. Equal structures with
// equal key order hash identically; reordering keys changes the hash.
func (d *DataObject) Hash() string {
	sum, _ := d.Sum(DigestMD5)
	return sum
}

// Sum returns the hex digest of the JSON text using the given algorithm.
func (d *DataObject) Sum(digest Digest) (string, error) {
	text := []byte(d.String())
	switch digest {
	case DigestMD5, "":
		sum := md5.Sum(text)
		return hex.EncodeToString(sum[:]), nil
	case DigestSHA256:
		sum := sha256.Sum256(text)
		return hex.EncodeToString(sum[:]), nil
	case DigestBLAKE2b:
		sum := blake2b.Sum256(text)
		return hex.EncodeToString(sum[:]), nil
	default:
		return "", fmt.Errorf("unsupported digest %q", digest)
	}
}

// Debug returns a detailed dump of the plain structure.
func (d *DataObject) Debug() string {
	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	return cfg.Sdump(d.ToMap())
}

// Diff returns a line diff between the indented JSON of d and other.
// The result is empty when both export identically.
func (d *DataObject) Diff(other *DataObject) string {
	a, b := indentJSON(d), indentJSON(other)
	if a == b {
		return ""
	}

	dmp := diffmatchpatch.New()
	runesA, runesB, lines := dmp.DiffLinesToRunes(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(runesA, runesB, false), lines)

	var out strings.Builder
	for _, diff := range diffs {
		prefix := "  "
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
		}
	}
	return out.String()
}

func indentJSON(d *DataObject) string {
	if d == nil {
		return ""
	}
	raw, err := d.MarshalJSON()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw) + "\n"
	}
	buf.WriteByte('\n')
	return buf.String()
}
