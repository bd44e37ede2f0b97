package jsonpath

import "fmt"

// SyntaxError reports a lexer or parser failure: an unexpected token, an
// unterminated string, an invalid number, disallowed `~` syntax in strict
// mode, or trailing input after a complete query.
type SyntaxError struct {
	Offset int    // byte offset into the source expression
	Msg    string // human-readable description
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("jsonpath: syntax error at position %d: %s", e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrPathParse }

// TypeError reports a well-typedness failure: a non-singular query used
// as a comparison operand, an unknown function name, or a wrong function
// arity or incompatible argument kind.
type TypeError struct {
	Offset int
	Msg    string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("jsonpath: type error at position %d: %s", e.Offset, e.Msg)
}

func (e *TypeError) Unwrap() error { return ErrPathParse }

// RecursionError reports that a descendant segment's traversal exceeded
// the configured maximum depth (see [WithMaxDepth]).
type RecursionError struct {
	Depth int // the configured limit that was exceeded
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("jsonpath: descendant traversal exceeded max depth %d", e.Depth)
}
