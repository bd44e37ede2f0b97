// Package container centralizes the "is this a JSON array or object, and
// how do I iterate its children in document order" logic that the
// selector, segment, and filter evaluation code all need, so it is
// written once instead of repeated at every call site.
package container

import "github.com/agentable/jsonpath/object"

// Kind identifies what v is for the purposes of selector evaluation.
type Kind uint8

const (
	// None means v is not a JSON array or object (a scalar or nil).
	None Kind = iota
	// Array means v is a []any.
	Array
	// Obj means v is an *object.Object or map[string]any.
	Obj
)

// KindOf classifies v.
func KindOf(v any) Kind {
	switch v.(type) {
	case []any:
		return Array
	case *object.Object, map[string]any:
		return Obj
	default:
		return None
	}
}

// Len returns the number of elements/members in v, or 0 if v is not a
// container.
func Len(v any) int {
	switch n := v.(type) {
	case []any:
		return len(n)
	case *object.Object:
		return n.Len()
	case map[string]any:
		return len(n)
	default:
		return 0
	}
}

// Get looks up name in v if v is an object. ok is false if v is not an
// object or does not contain name.
func Get(v any, name string) (val any, ok bool) {
	switch n := v.(type) {
	case *object.Object:
		return n.Get(name)
	case map[string]any:
		val, ok = n[name]
		return val, ok
	default:
		return nil, false
	}
}

// At looks up a non-negative, in-bounds index in v if v is an array.
func At(v any, idx int) (val any, ok bool) {
	arr, isArr := v.([]any)
	if !isArr || idx < 0 || idx >= len(arr) {
		return nil, false
	}
	return arr[idx], true
}

// AsArray returns v as a []any and true if v is an array.
func AsArray(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

// Range iterates the children of v in document order, calling fn with the
// child's key — a string for object members (in insertion order for
// *object.Object, unspecified order for a plain map[string]any) or an int
// for array elements — and its value. Iteration stops early if fn returns
// false. Range is a no-op if v is not a container.
func Range(v any, fn func(key any, val any) bool) {
	switch n := v.(type) {
	case []any:
		for i, val := range n {
			if !fn(i, val) {
				return
			}
		}
	case *object.Object:
		n.Range(func(k string, val any) bool {
			return fn(k, val)
		})
	case map[string]any:
		for k, val := range n {
			if !fn(k, val) {
				return
			}
		}
	}
}
