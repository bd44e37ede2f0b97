package jsonpath

import (
	"errors"
	"slices"
	"strconv"

	"github.com/agentable/jsonpath/internal/ast"
	"github.com/agentable/jsonpath/internal/container"
	"github.com/go-json-experiment/json"
)

// Path is a compiled RFC 9535 JSONPath query. Safe for concurrent use.
type Path struct {
	query    *ast.PathQuery
	maxDepth int
}

// Select returns all nodes matched by p in input.
// input must be the result of json.Unmarshal (any / []any / map[string]any),
// a value produced by github.com/go-json-experiment/json, or a tree built
// with [DecodeJSON] (which uses *object.Object for ordered objects).
// Select fails with a [RecursionError] if a descendant segment's traversal
// recurses past the configured maximum depth (see [WithMaxDepth]).
func (p *Path) Select(input any) (NodeList, error) {
	if p.query == nil {
		return nil, nil
	}
	maxDepth := p.effectiveMaxDepth()
	nodes, err := p.query.SelectMaxDepth(input, input, maxDepth)
	if err != nil {
		return nil, &RecursionError{Depth: maxDepth}
	}
	return NodeList(nodes), nil
}

// MustSelect is like Select but panics on error.
func (p *Path) MustSelect(input any) NodeList {
	nodes, err := p.Select(input)
	if err != nil {
		panic(err)
	}
	return nodes
}

// SelectLocated returns matched nodes paired with their normalized paths.
// Like Select, it fails with a [RecursionError] if descendant traversal
// recurses past the configured maximum depth.
func (p *Path) SelectLocated(input any) (LocatedNodeList, error) {
	if p.query == nil {
		return nil, nil
	}
	maxDepth := p.effectiveMaxDepth()
	res := []*LocatedNode{{Value: input, Path: nil, Key: nil}}
	segments := p.query.Segments()
	for i := range segments {
		var err error
		res, err = applySegmentLocated(&segments[i], res, input, 0, maxDepth)
		if err != nil {
			return nil, &RecursionError{Depth: maxDepth}
		}
	}
	return LocatedNodeList(res), nil
}

// MustSelectLocated is like SelectLocated but panics on error.
func (p *Path) MustSelectLocated(input any) LocatedNodeList {
	nodes, err := p.SelectLocated(input)
	if err != nil {
		panic(err)
	}
	return nodes
}

func (p *Path) effectiveMaxDepth() int {
	if p.maxDepth <= 0 {
		return ast.DefaultMaxDepth
	}
	return p.maxDepth
}

// String returns the canonical string representation of p.
func (p *Path) String() string {
	if p.query == nil {
		return ""
	}
	return p.query.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p *Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	path, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = *path
	return nil
}

// Parse compiles a JSONPath expression. Returns [ErrPathParse] on failure.
func Parse(expr string) (*Path, error) {
	p := NewParser()
	return p.Parse(expr)
}

// MustParse compiles a JSONPath expression. Panics on failure.
func MustParse(expr string) *Path {
	path, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return path
}

// Valid reports whether expr is a syntactically valid JSONPath expression.
func Valid(expr string) bool {
	_, err := Parse(expr)
	return err == nil
}

// QueryJSON unmarshals src and evaluates path against it.
// Uses github.com/go-json-experiment/json for unmarshaling.
func QueryJSON(src []byte, path *Path) (NodeList, error) {
	var v any
	if err := json.Unmarshal(src, &v, json.DefaultOptionsV2()); err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return path.Select(v)
}

// QueryJSONLocated is the located variant of QueryJSON.
func QueryJSONLocated(src []byte, path *Path) (LocatedNodeList, error) {
	var v any
	if err := json.Unmarshal(src, &v, json.DefaultOptionsV2()); err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return path.SelectLocated(v)
}

// extendPath creates a new path by appending elem to path.
// The original path is not modified.
func extendPath(path NormalizedPath, elem PathElement) NormalizedPath {
	return append(slices.Clone(path), elem)
}

// applySegmentLocated applies a segment to a list of located nodes, returning
// the new located node list. depth is the current descendant-recursion depth
// of the located nodes being visited, bounded by maxDepth.
func applySegmentLocated(seg *ast.Segment, nodes []*LocatedNode, root any, depth, maxDepth int) ([]*LocatedNode, error) {
	if len(nodes) == 0 {
		return nodes, nil
	}
	out := make([]*LocatedNode, 0, len(nodes))
	if seg.IsDescendant() {
		for _, n := range nodes {
			var err error
			out, err = appendDescendantLocated(out, seg, n.Value, n.Path, root, depth, maxDepth)
			if err != nil {
				return nil, err
			}
		}
	} else {
		for _, n := range nodes {
			out = appendSelectorsLocated(out, seg.Selectors(), n.Value, n.Path, root)
		}
	}
	return out, nil
}

// appendDescendantLocated recursively applies selectors to node and all its
// descendants, in pre-order, failing once depth exceeds maxDepth.
func appendDescendantLocated(out []*LocatedNode, seg *ast.Segment, node any, path NormalizedPath, root any, depth, maxDepth int) ([]*LocatedNode, error) {
	if depth > maxDepth {
		return out, ast.ErrMaxDepthExceeded
	}

	out = appendSelectorsLocated(out, seg.Selectors(), node, path, root)

	var err error
	container.Range(node, func(key any, child any) bool {
		childPath := extendPath(path, locatedPathElement(key))
		out, err = appendDescendantLocated(out, seg, child, childPath, root, depth+1, maxDepth)
		return err == nil
	})
	if err != nil {
		return out, err
	}
	return out, nil
}

// appendSelectorsLocated applies a list of selectors to node, appending matches to out.
func appendSelectorsLocated(out []*LocatedNode, selectors []ast.Selector, node any, path NormalizedPath, root any) []*LocatedNode {
	for i := range selectors {
		out = appendSelectorLocated(out, &selectors[i], node, path, root)
	}
	return out
}

// appendSelectorLocated applies a single selector to node, appending matches to out.
func appendSelectorLocated(out []*LocatedNode, sel *ast.Selector, node any, path NormalizedPath, root any) []*LocatedNode {
	switch sel.Kind {
	case ast.Name:
		if v, ok := container.Get(node, sel.Name); ok {
			out = append(out, &LocatedNode{Value: v, Key: sel.Name, Path: extendPath(path, NameElement(sel.Name))})
		}
	case ast.Index:
		if arr, ok := container.AsArray(node); ok {
			idx := normalizeIndex(sel.Index, len(arr))
			if idx >= 0 && idx < len(arr) {
				out = append(out, &LocatedNode{Value: arr[idx], Key: idx, Path: extendPath(path, IndexElement(idx))})
			}
		}
	case ast.Slice:
		if arr, ok := container.AsArray(node); ok {
			out = appendSliceLocated(out, arr, path, sel.Slice)
		}
	case ast.Wildcard:
		container.Range(node, func(key any, val any) bool {
			out = append(out, &LocatedNode{Value: val, Key: key, Path: extendPath(path, locatedPathElement(key))})
			return true
		})
	case ast.Filter:
		container.Range(node, func(key any, val any) bool {
			if sel.Filter.Eval(val, root, key) {
				out = append(out, &LocatedNode{Value: val, Key: key, Path: extendPath(path, locatedPathElement(key))})
			}
			return true
		})
	case ast.Keys:
		if container.KindOf(node) == container.Obj {
			container.Range(node, func(key any, _ any) bool {
				name, _ := key.(string)
				out = append(out, &LocatedNode{Value: name, Key: name, Path: extendPath(path, KeyElement(name))})
				return true
			})
		}
	case ast.KeyName:
		if _, ok := container.Get(node, sel.Name); ok {
			out = append(out, &LocatedNode{Value: sel.Name, Key: sel.Name, Path: extendPath(path, KeyElement(sel.Name))})
		}
	case ast.KeysFilter:
		if container.KindOf(node) == container.Obj {
			container.Range(node, func(key any, _ any) bool {
				name := keyString(key)
				if sel.Filter.Eval(name, root, key) {
					out = append(out, &LocatedNode{Value: key, Key: name, Path: extendPath(path, KeyElement(name))})
				}
				return true
			})
		}
	}
	return out
}

// locatedPathElement converts a container.Range key (a string for an object
// member, an int for an array element) into the matching PathElement.
func locatedPathElement(key any) PathElement {
	switch k := key.(type) {
	case string:
		return NameElement(k)
	case int:
		return IndexElement(k)
	default:
		return NameElement(keyString(key))
	}
}

// keyString renders a container.Range key as a string, for contexts (like
// KeyElement) that always format the key as text regardless of its
// underlying type.
func keyString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case int:
		return strconv.Itoa(k)
	default:
		return ""
	}
}

// appendSliceLocated applies a slice selector to an array, appending selected elements with paths to out.
func appendSliceLocated(out []*LocatedNode, arr []any, path NormalizedPath, args ast.SliceArgs) []*LocatedNode {
	for _, idx := range sliceIndices(args, len(arr)) {
		out = append(out, &LocatedNode{Value: arr[idx], Key: idx, Path: extendPath(path, IndexElement(idx))})
	}
	return out
}

// normalizeIndex converts a possibly-negative index to a non-negative index.
// Negative indices count from the end of the array.
// Returns -1 if the index is out of bounds.
func normalizeIndex(idx int64, length int) int {
	if idx < 0 {
		idx += int64(length)
	}
	if idx < 0 || idx >= int64(length) {
		return -1
	}
	return int(idx)
}

// sliceIndices calculates the indices to select for a slice operation.
// Returns a slice of indices in the order they should be selected.
func sliceIndices(args ast.SliceArgs, length int) []int {
	if length == 0 {
		return nil
	}

	step := int64(1)
	if args.HasStep {
		step = args.Step
	}
	if step == 0 {
		return nil
	}

	var start, end int64
	if step > 0 {
		start = 0
		if args.HasStart {
			start = args.Start
		}
		end = int64(length)
		if args.HasEnd {
			end = args.End
		}
	} else {
		start = int64(length - 1)
		if args.HasStart {
			start = args.Start
		}
		end = -int64(length) - 1
		if args.HasEnd {
			end = args.End
		}
	}

	start, end = normalizeSliceBounds(start, end, step, length)

	var indices []int
	if step > 0 {
		for i := start; i < end; i += step {
			if i >= 0 && i < int64(length) {
				indices = append(indices, int(i))
			}
		}
	} else {
		for i := start; i > end; i += step {
			if i >= 0 && i < int64(length) {
				indices = append(indices, int(i))
			}
		}
	}
	return indices
}

// normalizeSliceBounds normalizes start and end indices for slice operations
// according to RFC 9535 §2.3.4. Handles negative indices and out-of-bounds
// values based on the step direction.
func normalizeSliceBounds(start, end, step int64, length int) (int64, int64) {
	// Normalize start
	if start < 0 {
		start += int64(length)
		if start < 0 {
			if step > 0 {
				start = 0
			}
		}
	} else if start >= int64(length) {
		if step < 0 {
			start = int64(length - 1)
		}
	}

	// Normalize end
	if end < 0 {
		end += int64(length)
		if end < 0 && step < 0 {
			end = -1
		}
	} else if end > int64(length) {
		end = int64(length)
	}

	return start, end
}
