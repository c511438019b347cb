package ast

import (
	"errors"
	"fmt"
)

// Validate checks a finished query for structural errors that construction
// does not reject:
//  1. Non-cross joins must carry an ON condition (MISSING_JOIN_CONDITION)
//  2. Cross joins must not carry one (UNSUPPORTED_OPERATOR)
//  3. Comparisons must have the operand count their operator requires,
//     and IN / NOT IN must compare against a row or sub-select
//     (ARITY_MISMATCH)
//
// All problems are reported, joined with errors.Join, each as an *Error
// carrying the path of the offending node. Validate returns nil for a
// well-formed query.
//
// Validate is a pure function with no side effects.
func Validate(q Query) error {
	v := &validator{}
	v.validateQuery(q, "")
	return errors.Join(v.errs...)
}

// validator accumulates errors during traversal.
type validator struct {
	errs []error
}

func (v *validator) add(err *Error) {
	v.errs = append(v.errs, err)
}

func (v *validator) validateQuery(q Query, path string) {
	switch query := q.(type) {
	case Select:
		v.validateSelect(query, path)
	case *Select:
		if query == nil {
			v.add(&Error{Code: ErrCodeArityMismatch, Message: "nil query", Path: path})
			return
		}
		v.validateSelect(*query, path)
	case nil:
		v.add(&Error{Code: ErrCodeArityMismatch, Message: "nil query", Path: path})
	}
}

func (v *validator) validateSelect(s Select, path string) {
	for i, col := range s.columns {
		v.validateExpression(col, joinPath(path, fmt.Sprintf("columns[%d]", i)))
	}

	for i, j := range s.joins {
		jp := joinPath(path, fmt.Sprintf("joins[%d]", i))
		empty := j.Data.conditions.IsEmpty()
		switch {
		case j.Kind == JoinCross && !empty:
			v.add(&Error{
				Code:     ErrCodeUnsupportedOperator,
				Message:  "cross join does not take an ON condition",
				Operator: j.Kind.String(),
				Path:     jp,
			})
		case j.Kind != JoinCross && empty:
			v.add(newMissingJoinConditionError(j.Kind, j.Data.table.name, jp))
		}
		v.validateTree(j.Data.conditions, joinPath(jp, "on"))
	}

	v.validateTree(s.conditions, joinPath(path, "where"))

	for i, def := range s.ordering {
		v.validateExpression(def.Expr, joinPath(path, fmt.Sprintf("order[%d]", i)))
	}
}

func (v *validator) validateTree(t ConditionTree, path string) {
	switch t.kind {
	case TreeSingle:
		v.validateExpression(t.expr, path)
	case TreeAnd:
		v.validateTree(*t.left, path+".and[0]")
		v.validateTree(*t.right, path+".and[1]")
	case TreeOr:
		v.validateTree(*t.left, path+".or[0]")
		v.validateTree(*t.right, path+".or[1]")
	case TreeNot:
		v.validateTree(*t.left, path+".not")
	}
}

func (v *validator) validateExpression(e Expression, path string) {
	switch x := e.(type) {
	case Compare:
		v.validateCompare(x, path)
	case ConditionTree:
		v.validateTree(x, path)
	case Row:
		for i, dv := range x.values {
			v.validateExpression(dv, fmt.Sprintf("%s[%d]", path, i))
		}
	case Function:
		for i, arg := range x.args {
			v.validateExpression(arg, fmt.Sprintf("%s.args[%d]", path, i))
		}
	case Select:
		v.validateSelect(x, path+".select")
	case Aliased:
		v.validateExpression(x.expr, path)
	}
}

func (v *validator) validateCompare(c Compare, path string) {
	if c.left == nil {
		v.add(newArityError(c.op, "comparison has no left operand", path))
	} else {
		v.validateExpression(c.left, path)
	}

	if want := c.op.Arity(); len(c.right) != want {
		v.add(newArityError(c.op,
			fmt.Sprintf("operator takes %d right operand(s), got %d", want, len(c.right)), path))
		return
	}

	if c.op == OpIn || c.op == OpNotIn {
		switch c.right[0].(type) {
		case Row, Select:
		default:
			v.add(newArityError(c.op, "IN requires a row or a sub-select", path))
			return
		}
	}

	for _, r := range c.right {
		if r == nil {
			v.add(newArityError(c.op, "comparison has a nil right operand", path))
			continue
		}
		v.validateExpression(r, path)
	}
}

func joinPath(path, elem string) string {
	if path == "" {
		return elem
	}
	return path + "." + elem
}
