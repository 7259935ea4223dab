// FILE: lixenwraith/dataobject/patch_test.go
package dataobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPatch(t *testing.T) {
	t.Run("Operations", func(t *testing.T) {
		obj := MustOf(RecordOf("z", 1, "a", RecordOf("k", "v", "list", []any{"x"})))
		patch := `[
			{"op": "replace", "path": "/z", "value": 2},
			{"op": "add", "path": "/a/list/-", "value": "y"},
			{"op": "add", "path": "/new", "value": {"n": true}},
			{"op": "remove", "path": "/a/k"}
		]`
		require.NoError(t, obj.ApplyPatch([]byte(patch)))

		assert.Equal(t, []string{"z", "a", "new"}, obj.Keys(), "surviving keys keep their order")
		assert.Equal(t, int64(2), obj.GetDefault("z", nil))
		assert.Equal(t, []any{"x", "y"}, obj.GetDefault("a.list", nil))
		assert.False(t, obj.Has("a.k"))
		assert.Equal(t, true, obj.GetDefault("new.n", nil))
	})

	t.Run("NestedOrderKept", func(t *testing.T) {
		obj := MustOf(RecordOf("s", RecordOf("y", 1, "b", 2, "m", 3)))
		require.NoError(t, obj.ApplyPatch([]byte(`[{"op":"replace","path":"/s/b","value":20}]`)))
		inner := obj.GetDefault("s", nil).(*Record)
		assert.Equal(t, []string{"y", "b", "m"}, inner.Keys())
	})

	t.Run("FailedTestLeavesStore", func(t *testing.T) {
		obj := MustOf(RecordOf("a", 1))
		before := obj.String()
		err := obj.ApplyPatch([]byte(`[{"op":"remove","path":"/a"},{"op":"test","path":"/a","value":1}]`))
		assert.Error(t, err)
		assert.Equal(t, before, obj.String())
	})

	t.Run("InvalidPatch", func(t *testing.T) {
		obj := MustOf(RecordOf("a", 1))
		assert.Error(t, obj.ApplyPatch([]byte(`{"op":"add"}`)))
	})
}

func TestMergePatch(t *testing.T) {
	t.Run("NullDeletes", func(t *testing.T) {
		obj := MustOf(RecordOf("a", 1, "b", RecordOf("c", 2, "d", 3), "e", "keep"))
		require.NoError(t, obj.ApplyMergePatch([]byte(`{"a":null,"b":{"c":20},"f":"new"}`)))

		assert.Equal(t, []string{"b", "e", "f"}, obj.Keys())
		assert.Equal(t, int64(20), obj.GetDefault("b.c", nil))
		assert.Equal(t, int64(3), obj.GetDefault("b.d", nil))
		assert.Equal(t, "new", obj.GetDefault("f", nil))
	})

	t.Run("InvalidPatch", func(t *testing.T) {
		obj := MustOf(RecordOf("a", 1))
		assert.Error(t, obj.ApplyMergePatch([]byte(`{"a":`)))
		assert.Equal(t, 1, obj.GetDefault("a", nil))
	})

	t.Run("CreateThenApply", func(t *testing.T) {
		from := MustOf(RecordOf("a", 1, "b", RecordOf("c", 2), "gone", true))
		to := MustOf(RecordOf("a", 1, "b", RecordOf("c", 5), "added", "x"))

		patch, err := from.CreateMergePatch(to)
		require.NoError(t, err)

		require.NoError(t, from.ApplyMergePatch(patch))
		assert.True(t, from.Equal(to), "got %s", from)
	})
}
