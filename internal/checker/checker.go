// Package checker implements the well-typedness pass RFC 9535 §2.4.3
// requires: every comparison operand and function argument in a filter
// expression is re-validated once the whole query has been parsed, not
// just the sub-expression the parser happened to be looking at when it
// built that node.
package checker

import (
	"errors"
	"fmt"

	"github.com/agentable/jsonpath/internal/ast"
)

// ErrType is wrapped by every error Check returns.
var ErrType = errors.New("checker: type error")

// Check walks q's filter expressions (including those nested inside
// singular-query comparison operands and function arguments) and reports
// the first well-typedness violation found.
func Check(q *ast.PathQuery) error {
	return checkQuery(q)
}

func checkQuery(q *ast.PathQuery) error {
	segments := q.Segments()
	for i := range segments {
		for _, sel := range segments[i].Selectors() {
			if sel.Kind == ast.Filter || sel.Kind == ast.KeysFilter {
				if err := checkFilter(sel.Filter); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkFilter(f *ast.FilterExpr) error {
	return checkOr(f.Or)
}

func checkOr(or ast.LogicalOr) error {
	for _, and := range or {
		if err := checkAnd(and); err != nil {
			return err
		}
	}
	return nil
}

func checkAnd(and ast.LogicalAnd) error {
	for _, be := range and {
		if err := checkBasic(be); err != nil {
			return err
		}
	}
	return nil
}

func checkBasic(be ast.BasicExpr) error {
	switch e := be.(type) {
	case *ast.ExistExpr:
		return checkQuery(e.Query)
	case *ast.NonExistExpr:
		return checkQuery(e.Query)
	case *ast.ParenExpr:
		return checkOr(*e.Expr)
	case *ast.NotParenExpr:
		return checkOr(*e.Expr)
	case *ast.NegFuncExpr:
		return checkFunc(e.Func)
	case *ast.CompExpr:
		if err := checkCompValue(e.Left); err != nil {
			return err
		}
		return checkCompValue(e.Right)
	case *ast.FuncExpr:
		return checkFunc(e)
	}
	return nil
}

func checkCompValue(cv ast.CompValue) error {
	switch v := cv.(type) {
	case *ast.QueryValue:
		if !v.Query.IsSingular() {
			return fmt.Errorf("%w: non-singular query used as comparison operand", ErrType)
		}
		return checkQuery(v.Query)
	case *ast.FuncValue:
		return checkFunc(v.Func)
	}
	return nil
}

func checkFunc(fe *ast.FuncExpr) error {
	if err := fe.Func().Validate(fe.ArgTypes()); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrType, fe.Name(), err)
	}
	for _, arg := range fe.Args() {
		switch a := arg.(type) {
		case *ast.PathQuery:
			if err := checkQuery(a); err != nil {
				return err
			}
		case *ast.FuncExpr:
			if err := checkFunc(a); err != nil {
				return err
			}
		}
	}
	return nil
}
