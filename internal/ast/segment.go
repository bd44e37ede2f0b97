package ast

import (
	"errors"
	"strings"

	"github.com/agentable/jsonpath/internal/container"
)

// DefaultMaxDepth bounds descendant segment recursion when a caller does
// not configure an explicit limit (see the root package's WithMaxDepth).
const DefaultMaxDepth = 100

// ErrMaxDepthExceeded is returned by a depth-bounded descendant traversal
// that recurses past its configured limit. The root package wraps this in
// a typed RecursionError before returning it to callers.
var ErrMaxDepthExceeded = errors.New("ast: descendant traversal exceeded max depth")

// Segment represents a child or descendant segment as defined in
// RFC 9535 §1.4.2. A segment holds one or more selectors.
type Segment struct {
	selectors  []Selector
	descendant bool
}

// Child creates a child [Segment] that applies selectors to direct children.
func Child(sel ...Selector) Segment {
	return Segment{selectors: sel}
}

// Descendant creates a descendant [Segment] that applies selectors recursively
// to all descendants.
func Descendant(sel ...Selector) Segment {
	return Segment{selectors: sel, descendant: true}
}

// Selectors returns the segment's selectors.
func (s *Segment) Selectors() []Selector { return s.selectors }

// IsDescendant reports whether the segment is a descendant segment.
func (s *Segment) IsDescendant() bool { return s.descendant }

// IsSingular reports whether the segment selects at most one node.
// A segment is singular only if it is a child segment with exactly one
// singular selector.
func (s *Segment) IsSingular() bool {
	if s.descendant || len(s.selectors) != 1 {
		return false
	}
	return s.selectors[0].IsSingular()
}

// writeTo writes the canonical string representation of the segment to buf.
// Child segments format as [<selectors>]; descendant segments as ..[<selectors>].
func (s *Segment) writeTo(buf *strings.Builder) {
	if s.descendant {
		buf.WriteString("..")
	}
	buf.WriteByte('[')
	for i := range s.selectors {
		if i > 0 {
			buf.WriteByte(',')
		}
		s.selectors[i].writeTo(buf)
	}
	buf.WriteByte(']')
}

// String returns the canonical string representation of the segment.
func (s *Segment) String() string {
	var buf strings.Builder
	s.writeTo(&buf)
	return buf.String()
}

// Apply applies the segment to a list of nodes and returns the result,
// silently bounding descendant recursion at [DefaultMaxDepth]. It is used
// wherever a depth-exceeded error has no channel to propagate through
// (nested queries inside filter expressions).
func (s *Segment) Apply(nodes []any, root any) []any {
	result, _ := s.apply(nodes, root, DefaultMaxDepth)
	return result
}

// ApplyMaxDepth is like Apply but returns ErrMaxDepthExceeded if a
// descendant segment recurses past maxDepth.
func (s *Segment) ApplyMaxDepth(nodes []any, root any, maxDepth int) ([]any, error) {
	return s.apply(nodes, root, maxDepth)
}

func (s *Segment) apply(nodes []any, root any, maxDepth int) ([]any, error) {
	if len(nodes) == 0 {
		return nodes, nil
	}

	result := make([]any, 0, len(nodes))
	if s.descendant {
		for _, node := range nodes {
			var err error
			result, err = appendDescendant(result, s.selectors, node, root, 0, maxDepth)
			if err != nil {
				return nil, err
			}
		}
	} else {
		for _, node := range nodes {
			result = appendSelectors(result, s.selectors, node, root)
		}
	}
	return result, nil
}

// appendSelectors applies selectors to a single node and appends results.
func appendSelectors(out []any, selectors []Selector, node, root any) []any {
	for i := range selectors {
		out = selectors[i].Apply(out, node, root)
	}
	return out
}

// appendDescendant recursively applies selectors to node and all descendants,
// in pre-order (the node itself before its children), failing once depth
// exceeds maxDepth.
func appendDescendant(out []any, selectors []Selector, node, root any, depth, maxDepth int) ([]any, error) {
	if depth > maxDepth {
		return out, ErrMaxDepthExceeded
	}

	out = appendSelectors(out, selectors, node, root)

	var err error
	container.Range(node, func(_ any, v any) bool {
		out, err = appendDescendant(out, selectors, v, root, depth+1, maxDepth)
		return err == nil
	})
	if err != nil {
		return out, err
	}
	return out, nil
}
