// Package object provides an insertion-ordered JSON object type.
//
// A plain Go map has unspecified iteration order, but RFC 9535 requires
// object members to be visited in document order. Object fills that gap
// for any JSONPath document built programmatically or decoded through
// [github.com/agentable/jsonpath.DecodeJSON].
package object

import "slices"

// Object is an insertion-ordered string-to-value mapping representing a
// JSON object. The zero value is not usable; create one with [New].
type Object struct {
	keys []string
	vals map[string]any
}

// New creates an empty Object.
func New() *Object {
	return &Object{vals: make(map[string]any)}
}

// NewFromPairs creates an Object from a flat list of alternating key,
// value pairs, in the order given. Later duplicate keys overwrite earlier
// ones without changing the key's original position.
func NewFromPairs(pairs ...any) *Object {
	o := New()
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		o.Set(key, pairs[i+1])
	}
	return o
}

// Set assigns val to key, appending key to the iteration order if it is
// not already present.
func (o *Object) Set(key string, val any) {
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = val
}

// Get returns the value stored at key and whether key is present.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Len returns the number of members.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns a copy of the member names in insertion (document) order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

// Range calls fn for each member in insertion order, stopping early if fn
// returns false.
func (o *Object) Range(fn func(key string, val any) bool) {
	for _, k := range o.keys {
		if !fn(k, o.vals[k]) {
			return
		}
	}
}

// Equal reports whether o and other have the same members, regardless of
// order, with values compared by eq (typically deep structural equality).
func (o *Object) Equal(other *Object, eq func(a, b any) bool) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.Len() != other.Len() {
		return false
	}
	for _, k := range o.keys {
		v, ok := other.vals[k]
		if !ok || !eq(o.vals[k], v) {
			return false
		}
	}
	return true
}
