// Package eval evaluates condition trees against in-memory rows.
//
// Evaluation follows SQL's three-valued logic: a comparison involving NULL
// is Unknown, and AND / OR / NOT propagate Unknown the way a database does.
// A row matches a WHERE clause only when the condition is True. Row values
// compare element by element: equality ANDs the pairwise results and
// ordering is lexicographic, Unknown at the first NULL that could decide it.
//
// LIKE is case-sensitive, as in PostgreSQL. SQLite's default LIKE folds
// ASCII case, so the two disagree on mixed-case text.
//
// The evaluator exists to test logical properties of trees (identities,
// associativity, De Morgan) over every truth assignment, and to cross-check
// rendered statements against a real database.
package eval

import (
	"errors"
	"fmt"

	"github.com/roach88/sqlast/internal/ast"
)

// Truth is a three-valued logic result.
type Truth int8

const (
	False Truth = iota
	True
	Unknown
)

func (t Truth) String() string {
	switch t {
	case False:
		return "false"
	case True:
		return "true"
	default:
		return "unknown"
	}
}

// Not negates t; NOT Unknown is Unknown.
func (t Truth) Not() Truth {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// And is the Kleene conjunction.
func (t Truth) And(o Truth) Truth {
	switch {
	case t == False || o == False:
		return False
	case t == True && o == True:
		return True
	default:
		return Unknown
	}
}

// Or is the Kleene disjunction.
func (t Truth) Or(o Truth) Truth {
	switch {
	case t == True || o == True:
		return True
	case t == False && o == False:
		return False
	default:
		return Unknown
	}
}

func truthOf(b bool) Truth {
	if b {
		return True
	}
	return False
}

var (
	// ErrUnknownColumn is returned when a column is not present in the row.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrUnsupported is returned for nodes that need a database to
	// evaluate (functions, sub-selects, raw SQL).
	ErrUnsupported = errors.New("not supported by the in-memory evaluator")
)

// Row maps column names to values. A column qualified by its table is
// looked up as "table.column" first and then by its bare name.
type Row map[string]ast.ParameterizedValue

// Condition evaluates a condition tree against row.
func Condition(t ast.ConditionTree, row Row) (Truth, error) {
	switch t.Kind() {
	case ast.TreeNoCondition:
		return True, nil
	case ast.TreeNegativeCondition:
		return False, nil
	case ast.TreeSingle:
		return Expression(t.Expr(), row)
	case ast.TreeAnd, ast.TreeOr:
		left, err := Condition(t.Left(), row)
		if err != nil {
			return Unknown, err
		}
		right, err := Condition(t.Right(), row)
		if err != nil {
			return Unknown, err
		}
		if t.Kind() == ast.TreeAnd {
			return left.And(right), nil
		}
		return left.Or(right), nil
	case ast.TreeNot:
		inner, err := Condition(t.Left(), row)
		if err != nil {
			return Unknown, err
		}
		return inner.Not(), nil
	}
	return Unknown, fmt.Errorf("unknown condition kind %s", t.Kind())
}

// Expression evaluates a boolean expression: a comparison, a tree, or a
// value (column or literal) holding a Boolean.
func Expression(e ast.Expression, row Row) (Truth, error) {
	switch v := e.(type) {
	case ast.Compare:
		return compare(v, row)
	case ast.ConditionTree:
		return Condition(v, row)
	case ast.Aliased:
		return Expression(v.Expr(), row)
	case ast.DatabaseValue:
		val, err := resolve(v, row)
		if err != nil {
			return Unknown, err
		}
		return boolValue(val)
	default:
		return Unknown, fmt.Errorf("%T: %w", e, ErrUnsupported)
	}
}

// Matches reports whether row satisfies cond. Unknown does not match.
func Matches(cond ast.ConditionTree, row Row) (bool, error) {
	t, err := Condition(cond, row)
	return t == True, err
}

// Filter returns the rows matching cond, in order.
func Filter(rows []Row, cond ast.ConditionTree) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for i, row := range rows {
		ok, err := Matches(cond, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func boolValue(v ast.ParameterizedValue) (Truth, error) {
	switch b := v.(type) {
	case ast.Null:
		return Unknown, nil
	case ast.Boolean:
		return truthOf(bool(b)), nil
	case ast.Integer:
		return truthOf(b != 0), nil
	}
	return Unknown, fmt.Errorf("%T is not a boolean", v)
}

// resolve reduces an operand to a value. Rows resolve to an Array of their
// resolved elements.
func resolve(v ast.DatabaseValue, row Row) (ast.ParameterizedValue, error) {
	switch x := v.(type) {
	case ast.ParameterizedValue:
		return x, nil
	case ast.Column:
		return lookup(x, row)
	case ast.Row:
		values := x.Values()
		out := make(ast.Array, len(values))
		for i, e := range values {
			r, err := resolve(e, row)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("nil operand: %w", ErrUnsupported)
	default:
		return nil, fmt.Errorf("%T: %w", v, ErrUnsupported)
	}
}

func lookup(c ast.Column, row Row) (ast.ParameterizedValue, error) {
	if t, ok := c.Table(); ok && t.Reference() != "" {
		if v, ok := row[t.Reference()+"."+c.Name()]; ok {
			return v, nil
		}
	}
	if v, ok := row[c.Name()]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%s: %w", c.Name(), ErrUnknownColumn)
}
