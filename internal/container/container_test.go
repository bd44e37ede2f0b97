package container

import (
	"testing"

	"github.com/agentable/jsonpath/object"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Array, KindOf([]any{1, 2}))
	assert.Equal(t, Obj, KindOf(object.NewFromPairs("a", 1)))
	assert.Equal(t, Obj, KindOf(map[string]any{"a": 1}))
	assert.Equal(t, None, KindOf("scalar"))
	assert.Equal(t, None, KindOf(42))
	assert.Equal(t, None, KindOf(nil))
}

func TestLen(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, Len([]any{1, 2}))
	assert.Equal(t, 1, Len(object.NewFromPairs("a", 1)))
	assert.Equal(t, 2, Len(map[string]any{"a": 1, "b": 2}))
	assert.Equal(t, 0, Len("scalar"))
	assert.Equal(t, 0, Len(nil))
}

func TestGet(t *testing.T) {
	t.Parallel()

	o := object.NewFromPairs("a", 1)
	v, ok := Get(o, "a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = Get(o, "missing")
	assert.False(t, ok)

	m := map[string]any{"x": "y"}
	v, ok = Get(m, "x")
	assert.True(t, ok)
	assert.Equal(t, "y", v)

	_, ok = Get([]any{1, 2}, "a")
	assert.False(t, ok)

	_, ok = Get(nil, "a")
	assert.False(t, ok)
}

func TestAt(t *testing.T) {
	t.Parallel()

	arr := []any{"a", "b", "c"}

	v, ok := At(arr, 0)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = At(arr, 2)
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	_, ok = At(arr, 3)
	assert.False(t, ok, "out of bounds")

	_, ok = At(arr, -1)
	assert.False(t, ok, "negative index")

	_, ok = At(object.New(), 0)
	assert.False(t, ok, "not an array")
}

func TestAsArray(t *testing.T) {
	t.Parallel()

	arr, ok := AsArray([]any{1, 2})
	assert.True(t, ok)
	assert.Equal(t, []any{1, 2}, arr)

	_, ok = AsArray(object.New())
	assert.False(t, ok)

	_, ok = AsArray("scalar")
	assert.False(t, ok)
}

func TestRange_Array(t *testing.T) {
	t.Parallel()

	var keys []any
	var vals []any
	Range([]any{"x", "y", "z"}, func(k, v any) bool {
		keys = append(keys, k)
		vals = append(vals, v)
		return true
	})

	assert.Equal(t, []any{0, 1, 2}, keys, "array keys must be plain int, not int64")
	assert.Equal(t, []any{"x", "y", "z"}, vals)
}

func TestRange_Object(t *testing.T) {
	t.Parallel()

	o := object.NewFromPairs("a", 1, "b", 2, "c", 3)

	var keys []any
	Range(o, func(k, v any) bool {
		keys = append(keys, k)
		return true
	})
	assert.Equal(t, []any{"a", "b", "c"}, keys, "must preserve *object.Object insertion order")
}

func TestRange_PlainMap(t *testing.T) {
	t.Parallel()

	m := map[string]any{"a": 1}

	var keys []any
	Range(m, func(k, v any) bool {
		keys = append(keys, k)
		return true
	})
	assert.Equal(t, []any{"a"}, keys)
}

func TestRange_StopsEarly(t *testing.T) {
	t.Parallel()

	var visited []any
	Range([]any{1, 2, 3, 4}, func(k, v any) bool {
		visited = append(visited, k)
		return k.(int) < 1
	})
	assert.Equal(t, []any{0, 1}, visited)
}

func TestRange_NonContainerIsNoOp(t *testing.T) {
	t.Parallel()

	called := false
	Range("scalar", func(k, v any) bool {
		called = true
		return true
	})
	assert.False(t, called)

	Range(nil, func(k, v any) bool {
		called = true
		return true
	})
	assert.False(t, called)
}
