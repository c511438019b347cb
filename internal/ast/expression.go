package ast

// Expression is a sealed interface for anything that can be filtered,
// projected or ordered by.
//
// Expression variants:
//   - DatabaseValue: literals, columns, rows, functions, sub-selects
//   - Compare: a single predicate
//   - ConditionTree: a boolean combination of predicates
//   - Raw: an opaque, caller-supplied SQL fragment
//   - Aliased: any expression with a projection alias
type Expression interface {
	expression() // Marker method - seals interface to this package
}

// DatabaseValue is a sealed interface for anything usable in an operand
// position of a comparison: a ParameterizedValue, a Column, a Row, a
// Function or a sub-Select.
//
// A DatabaseValue owns its children exclusively; trees never share nodes
// with their parents or siblings.
type DatabaseValue interface {
	Expression
	databaseValue()
}

// Raw is an opaque SQL fragment written verbatim into the template.
// It carries no parameters; callers must not embed placeholders in it.
type Raw string

func (Raw) expression() {}

// Aliased gives an arbitrary expression an output name in a projection.
// Columns, tables and functions have their own As methods; Aliased covers
// the remaining cases such as projecting a comparison.
type Aliased struct {
	expr  Expression
	alias string
}

// Alias wraps expr with an output alias. Aliasing an Aliased replaces the
// alias on a new node; the original is unchanged.
func Alias(expr Expression, alias string) Aliased {
	if a, ok := expr.(Aliased); ok {
		return Aliased{expr: a.expr, alias: alias}
	}
	return Aliased{expr: expr, alias: alias}
}

func (Aliased) expression() {}

// Expr returns the wrapped expression.
func (a Aliased) Expr() Expression {
	return a.expr
}

// Alias returns the output name.
func (a Aliased) Alias() string {
	return a.alias
}

// Aliasable is implemented by nodes that can carry an output alias.
// As always returns a new node; re-aliasing replaces the previous alias.
type Aliasable[T any] interface {
	As(alias string) T
}

var (
	_ Aliasable[Table]    = Table{}
	_ Aliasable[Column]   = Column{}
	_ Aliasable[Function] = Function{}
)

// asCondition lifts an expression into a ConditionTree without wrapping a
// tree that already is one.
func asCondition(e Expression) ConditionTree {
	switch v := e.(type) {
	case ConditionTree:
		return v
	case nil:
		return NoCondition()
	default:
		return Single(v)
	}
}
