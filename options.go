package jsonpath

import (
	"errors"
	"maps"

	"github.com/agentable/jsonpath/functions"
	"github.com/agentable/jsonpath/internal/ast"
	"github.com/agentable/jsonpath/internal/checker"
	"github.com/agentable/jsonpath/internal/parser"
)

// DefaultMaxDepth is the descendant-segment recursion limit a [Parser]
// enforces unless configured otherwise with [WithMaxDepth].
const DefaultMaxDepth = ast.DefaultMaxDepth

// FuncType describes the type of a function extension's return value as
// defined by RFC 9535 §2.4.1.
type FuncType uint8

const (
	// FuncLogical indicates the function returns a logical (bool) value.
	FuncLogical FuncType = iota
	// FuncValue indicates the function returns a single JSON value.
	FuncValue
	// FuncNodes indicates the function returns a node list.
	FuncNodes
)

// ArgType describes the type of a function argument expression for
// parse-time validation.
type ArgType uint8

const (
	// ArgLiteral is a literal JSON value argument.
	ArgLiteral ArgType = iota
	// ArgSingularQuery is a singular query argument (e.g. @.name or $.name).
	ArgSingularQuery
	// ArgFilterQuery is a filter query argument producing a node list.
	ArgFilterQuery
	// ArgLogicalExpr is a logical expression argument.
	ArgLogicalExpr
	// ArgFunctionExpr is a nested function call argument.
	ArgFunctionExpr
)

// Function defines an extension function that can be registered with a
// [Parser] via [WithFunctions]. Implementations must be safe for concurrent
// use if the [Parser] is used concurrently.
type Function interface {
	// Name returns the function name as used in JSONPath expressions.
	Name() string
	// ResultType returns the FuncType of the function's return value.
	ResultType() FuncType
	// Validate checks argument types at parse time. It returns an error
	// if the argument types are incompatible with this function.
	Validate(args []ArgType) error
	// Call evaluates the function at query time and returns the result.
	Call(args []any) any
}

// Option configures a [Parser].
type Option func(*parserOptions)

// parserOptions holds configuration for a [Parser].
type parserOptions struct {
	functions map[string]Function
	nonStrict bool
	maxDepth  int
}

// WithFunctions registers additional filter functions beyond the RFC 9535
// built-ins. If multiple functions share the same name, the last one wins.
func WithFunctions(fns ...Function) Option {
	return func(o *parserOptions) {
		for _, fn := range fns {
			o.functions[fn.Name()] = fn
		}
	}
}

// WithNonStrict enables this implementation's non-standard extensions: the
// `~` key-selector family (Keys, KeyName, KeysFilter) and the `#`
// current-key identifier in filter expressions. Without this option,
// expressions using `~` or `#` are rejected as RFC 9535 syntax errors.
func WithNonStrict() Option {
	return func(o *parserOptions) {
		o.nonStrict = true
	}
}

// WithMaxDepth overrides the descendant-segment recursion limit (default
// [DefaultMaxDepth]). A query whose descendant traversal would recurse
// past maxDepth fails at selection time with a [RecursionError].
func WithMaxDepth(maxDepth int) Option {
	return func(o *parserOptions) {
		o.maxDepth = maxDepth
	}
}

// Parser parses JSONPath expressions into [Path] values, optionally
// configured with extension functions.
type Parser struct {
	opts parserOptions
}

// NewParser creates a new [Parser] configured by opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		opts: parserOptions{
			functions: make(map[string]Function),
			maxDepth:  DefaultMaxDepth,
		},
	}
	for _, o := range opts {
		o(&p.opts)
	}
	return p
}

// Parse compiles a JSONPath expression. Returns [ErrPathParse] on failure.
func (p *Parser) Parse(expr string) (*Path, error) {
	// Convert function map to map[string]any for internal parser
	// Start with built-in functions
	funcs := make(map[string]any, 5+len(p.opts.functions))

	// Register built-in functions from the functions package
	registry := newBuiltinRegistry()
	maps.Copy(funcs, registry)

	// Add user-provided functions (can override built-ins)
	for name, fn := range p.opts.functions {
		funcs[name] = fn
	}

	internalParser, err := parser.New(expr, funcs, !p.opts.nonStrict)
	if err != nil {
		return nil, errors.Join(ErrPathParse, err)
	}

	query, err := internalParser.Parse()
	if err != nil {
		switch {
		case errors.Is(err, parser.ErrNonStandard):
			return nil, &SyntaxError{Offset: parser.OffsetOf(err), Msg: err.Error()}
		case errors.Is(err, parser.ErrUnknownFunction), errors.Is(err, parser.ErrInvalidFunction), errors.Is(err, ast.ErrArgCount):
			return nil, &TypeError{Offset: parser.OffsetOf(err), Msg: err.Error()}
		case errors.Is(err, checker.ErrType):
			return nil, &TypeError{Offset: parser.OffsetOf(err), Msg: err.Error()}
		case errors.Is(err, parser.ErrParsePosition) || errors.Is(err, parser.ErrParseEnd):
			return nil, &SyntaxError{Offset: parser.OffsetOf(err), Msg: err.Error()}
		default:
			return nil, errors.Join(ErrPathParse, err)
		}
	}

	return &Path{query: query, maxDepth: p.opts.maxDepth}, nil
}

// newBuiltinRegistry creates a registry with RFC 9535 built-in functions.
func newBuiltinRegistry() map[string]any {
	builtins := []ast.Function{
		&functions.LengthFunc{},
		&functions.CountFunc{},
		&functions.MatchFunc{},
		&functions.SearchFunc{},
		&functions.ValueFunc{},
	}

	registry := make(map[string]any, len(builtins))
	for _, fn := range builtins {
		registry[fn.Name()] = fn
	}
	return registry
}

// MustParse compiles a JSONPath expression. Panics on failure.
func (p *Parser) MustParse(expr string) *Path {
	path, err := p.Parse(expr)
	if err != nil {
		panic(err)
	}
	return path
}
