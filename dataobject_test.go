// FILE: lixenwraith/dataobject/dataobject_test.go
package dataobject

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exporterStub struct {
	data map[string]any
}

func (e exporterStub) Export() any { return e.data }

type profile struct {
	Name    string   `json:"name"`
	Age     int      `json:"age"`
	Tags    []string `json:"tags"`
	private string
}

// TestOf tests construction from every accepted input shape
func TestOf(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		obj, err := Of(nil)
		require.NoError(t, err)
		assert.True(t, obj.IsEmpty())
	})

	t.Run("EmptyMap", func(t *testing.T) {
		obj, err := Of(map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, 0, obj.Count())
	})

	t.Run("MapKeysSorted", func(t *testing.T) {
		obj, err := Of(map[string]any{"b": 1, "a": 2, "c": 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, obj.Keys())
	})

	t.Run("RecordKeepsOrder", func(t *testing.T) {
		r := RecordOf("b", 1, "a", 2)
		obj, err := Of(r)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, obj.Keys())

		r.Set("c", 3)
		assert.False(t, obj.Has("c"), "input record is copied")
	})

	t.Run("OtherDataObject", func(t *testing.T) {
		src := MustOf(map[string]any{"a": map[string]any{"b": 1}})
		obj, err := Of(src)
		require.NoError(t, err)
		assert.True(t, obj.Equal(src))

		src.Set("a.b", 2)
		assert.Equal(t, 1, obj.GetDefault("a.b", nil), "copy is independent")
	})

	t.Run("Exporter", func(t *testing.T) {
		obj, err := Of(exporterStub{data: map[string]any{"k": "v"}})
		require.NoError(t, err)
		assert.Equal(t, "v", obj.GetDefault("k", nil))
	})

	t.Run("Struct", func(t *testing.T) {
		obj, err := Of(profile{Name: "Ann", Age: 30, Tags: []string{"x"}, private: "p"})
		require.NoError(t, err)
		assert.Equal(t, "Ann", obj.GetDefault("name", nil))
		assert.Equal(t, 30, obj.GetDefault("age", nil))
		assert.Equal(t, []any{"x"}, obj.GetDefault("tags", nil))
		assert.False(t, obj.Has("private"))
	})

	t.Run("StructPointer", func(t *testing.T) {
		obj, err := Of(&profile{Name: "Bo"})
		require.NoError(t, err)
		assert.Equal(t, "Bo", obj.GetDefault("name", nil))
	})

	t.Run("NonIndexKeysAccepted", func(t *testing.T) {
		_, err := Of(map[string]any{"1": "a", "2": "b"})
		assert.NoError(t, err, "keys not starting at 0")

		_, err = Of(RecordOf("1", "a", "0", "b"))
		assert.NoError(t, err, "indices out of order")

		_, err = Of(map[string]any{"0": "a", "x": "b"})
		assert.NoError(t, err, "mixed keys")
	})

	t.Run("TypedMaps", func(t *testing.T) {
		type labels map[string]string

		tests := []struct {
			name  string
			input any
			path  string
			want  any
		}{
			{"Float64Values", map[string]float64{"a": 1.5}, "a", 1.5},
			{"Int64Values", map[string]int64{"a": 1}, "a", int64(1)},
			{"SliceValues", map[string][]string{"tags": {"x", "y"}}, "tags.1", "y"},
			{"IntKeys", map[int]string{5: "x"}, "5", "x"},
			{"NamedMapType", labels{"env": "prod"}, "env", "prod"},
			{"NestedTypedMap", map[string]map[string]uint{"m": {"k": 7}}, "m.k", uint(7)},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				obj, err := Of(tt.input)
				require.NoError(t, err)
				assert.Equal(t, tt.want, obj.GetDefault(tt.path, nil))
			})
		}
	})

	t.Run("TypedMapKeysSorted", func(t *testing.T) {
		obj, err := Of(map[int]bool{10: true, 5: false})
		require.NoError(t, err)
		assert.Equal(t, []string{"10", "5"}, obj.Keys())
	})

	t.Run("TypedMapUnderSetIsDescendable", func(t *testing.T) {
		obj := New().Set("m", map[string]float64{"k": 2.5})
		assert.Equal(t, 2.5, obj.GetDefault("m.k", nil))
		assert.Equal(t, `{"m":{"k":2.5}}`, obj.String())
	})

	t.Run("ByteSliceStaysScalar", func(t *testing.T) {
		obj := New().Set("raw", []byte("hi"))
		assert.Equal(t, []byte("hi"), obj.GetDefault("raw", nil))
		assert.False(t, obj.Has("raw.0"))
	})
}

// TestOfRejectsLists tests the associative shape guard
func TestOfRejectsLists(t *testing.T) {
	inputs := map[string]any{
		"Sequence":         []any{"a", "b"},
		"StringSlice":      []string{"a"},
		"IndexKeyedMap":    map[string]any{"0": "a", "1": "b"},
		"IndexKeyedRecord": RecordOf("0", "a", "1", "b", "2", "c"),
		"IndexKeyedIntMap": map[int]string{0: "a", 1: "b"},
		"FloatSlice":       []float32{1, 2},
		"Scalar":           "just a string",
		"Number":           42,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			obj, err := Of(input)
			assert.Nil(t, obj)
			assert.ErrorIs(t, err, ErrInvalidShape)
		})
	}

	t.Run("MustOfPanics", func(t *testing.T) {
		assert.Panics(t, func() { MustOf([]any{1}) })
	})

	t.Run("EmptySequenceIsEmptyObject", func(t *testing.T) {
		obj, err := Of([]any{})
		require.NoError(t, err)
		assert.True(t, obj.IsEmpty())
	})
}

// TestRestore tests wholesale store replacement
func TestRestore(t *testing.T) {
	obj := MustOf(map[string]any{"a": 1})

	obj.Restore(RecordOf("0", "x", "1", "y"))
	assert.Equal(t, []string{"0", "1"}, obj.Keys(), "no shape validation")
	assert.Equal(t, "x", obj.GetDefault("0", nil))

	obj.Restore(nil)
	assert.True(t, obj.IsEmpty())
}

// TestClone tests deep copies
func TestClone(t *testing.T) {
	nested := MustOf(map[string]any{"n": 1})
	obj := New().Set("a.b", 1).Set("child", nested).Set("list", []any{"x"})

	clone, err := obj.Clone()
	require.NoError(t, err)
	assert.True(t, clone.Equal(obj))

	obj.Set("a.b", 2)
	nested.Set("n", 2)
	assert.Equal(t, 1, clone.GetDefault("a.b", nil))
	assert.Equal(t, 1, clone.GetDefault("child.n", nil))

	_, isRecord := clone.GetDefault("child", nil).(*Record)
	assert.True(t, isRecord, "nested objects are exported into the clone")
}

// TestNilNestedObject tests that a nil *DataObject value reads as null
func TestNilNestedObject(t *testing.T) {
	obj := New().Set("x", (*DataObject)(nil)).Set("y", 1)

	assert.NotPanics(t, func() {
		assert.Equal(t, `{"x":null,"y":1}`, obj.String())
		assert.Len(t, obj.Hash(), 32)
		assert.True(t, obj.Has("x"))
		assert.False(t, obj.Has("x.k"))

		value, found := obj.Get("x")
		assert.True(t, found)
		assert.Nil(t, value)

		clone, err := obj.Clone()
		require.NoError(t, err)
		assert.True(t, clone.Equal(obj))
	})

	t.Run("WriteThrough", func(t *testing.T) {
		obj.Set("x.k", "v")
		assert.Equal(t, "v", obj.GetDefault("x.k", nil))
	})

	t.Run("StoredInRecord", func(t *testing.T) {
		r := NewRecord()
		r.Set("n", (*DataObject)(nil))
		assert.Equal(t, KindScalar, kindOf((*DataObject)(nil)))
		assert.NotPanics(t, func() {
			restored := New().Restore(r)
			_, found := restored.Get("n.k")
			assert.False(t, found)

			clone, err := restored.Clone()
			require.NoError(t, err)
			assert.True(t, clone.Has("n"))
		})
	})
}

// TestNestedObjectsExport tests export of heterogeneous nested values
func TestNestedObjectsExport(t *testing.T) {
	u, err := url.Parse("https://example.com/x")
	require.NoError(t, err)
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	obj := New().
		Set("child", MustOf(map[string]any{"k": "v"})).
		Set("exp", exporterStub{data: map[string]any{"e": 1}}).
		Set("when", ts).
		Set("link", u).
		Set("p", profile{Name: "C"})

	exported := obj.ToArray()

	child, _ := exported.Get("child")
	assert.IsType(t, &Record{}, child)

	exp, _ := exported.Get("exp")
	require.IsType(t, &Record{}, exp)
	e, _ := exp.(*Record).Get("e")
	assert.Equal(t, 1, e)

	when, _ := exported.Get("when")
	assert.Equal(t, ts, when, "types with their own text form stay opaque")

	link, _ := exported.Get("link")
	assert.Same(t, u, link)

	p, _ := exported.Get("p")
	require.IsType(t, &Record{}, p)
	name, _ := p.(*Record).Get("name")
	assert.Equal(t, "C", name)

	assert.Equal(t, 1, obj.GetDefault("exp.e", nil), "exporters are readable by path")
}
