package ast

import "slices"

// Query is a sealed interface over the statement kinds a renderer accepts.
//
// Query types:
//   - Select: a SELECT statement
//
// Other statement kinds (INSERT, UPDATE, DELETE) join the set by adding a
// type in this package and reusing ConditionTree, Expression and Row for
// their WHERE and VALUES clauses.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Select is a builder for a SELECT statement.
//
// Semantics:
//
//	SELECT [DISTINCT] <projection> [FROM <table>] <joins...>
//	[WHERE <conditions>] [ORDER BY <ordering>] [LIMIT ?] [OFFSET ?]
//
// Every method returns an updated copy; the receiver is never modified.
// An empty projection selects every column of the source table. LIMIT and
// OFFSET are parameters, not template text.
//
// Example:
//
//	ast.From("users").
//	  Columns("id", "name").
//	  AndWhere(ast.Col("age").GreaterThan(18)).
//	  AndWhere(ast.Col("age").LessThan(65)).
//	  OrderBy(ast.Col("name"))
//
// Parameters: [18, 65]
type Select struct {
	table      *Table
	distinct   bool
	columns    []Expression
	joins      []Join
	conditions ConditionTree
	ordering   Ordering
	limit      ParameterizedValue
	offset     ParameterizedValue
}

// From starts a Select over table, given as a Table or a table name.
func From[T TableRef](table T) Select {
	t := asTable(table)
	return Select{table: &t}
}

// NewSelect starts a Select without a FROM clause, e.g. SELECT 1.
func NewSelect() Select {
	return Select{}
}

func (Select) queryNode()     {}
func (Select) expression()    {}
func (Select) databaseValue() {}

// Value adds an expression (or a Go value lifted with Val) to the
// projection.
func (s Select) Value(v any) Select {
	s.columns = appendClone(s.columns, exprOf(v))
	return s
}

// Column adds a column to the projection. Strings are parsed with Col.
func (s Select) Column(c any) Select {
	if name, ok := c.(string); ok {
		return s.Value(Col(name))
	}
	return s.Value(c)
}

// Columns adds several columns to the projection, in order.
func (s Select) Columns(cols ...any) Select {
	for _, c := range cols {
		s = s.Column(c)
	}
	return s
}

// Distinct marks the statement SELECT DISTINCT.
func (s Select) Distinct() Select {
	s.distinct = true
	return s
}

// Where replaces the WHERE condition.
func (s Select) Where(cond Expression) Select {
	s.conditions = asCondition(cond)
	return s
}

// AndWhere adds cond to the WHERE clause with AND. On an empty WHERE the
// condition becomes the whole clause.
func (s Select) AndWhere(cond Expression) Select {
	s.conditions = s.conditions.And(cond)
	return s
}

// OrWhere adds cond to the WHERE clause with OR. On an empty WHERE the
// condition becomes the whole clause.
func (s Select) OrWhere(cond Expression) Select {
	if s.conditions.IsEmpty() {
		s.conditions = asCondition(cond)
		return s
	}
	s.conditions = s.conditions.Or(cond)
	return s
}

func (s Select) join(kind JoinKind, j JoinData) Select {
	s.joins = appendClone(s.joins, Join{Kind: kind, Data: j})
	return s
}

// InnerJoin adds an INNER JOIN. j is a JoinData built with Table.On.
func (s Select) InnerJoin(j JoinData) Select { return s.join(JoinInner, j) }

// LeftJoin adds a LEFT JOIN.
func (s Select) LeftJoin(j JoinData) Select { return s.join(JoinLeft, j) }

// RightJoin adds a RIGHT JOIN.
func (s Select) RightJoin(j JoinData) Select { return s.join(JoinRight, j) }

// FullJoin adds a FULL OUTER JOIN.
func (s Select) FullJoin(j JoinData) Select { return s.join(JoinFull, j) }

// CrossJoin adds a CROSS JOIN against table, with no condition.
func (s Select) CrossJoin(table Table) Select { return s.join(JoinCross, JoinData{table: table}) }

// Join adds a join of an explicit kind.
func (s Select) Join(kind JoinKind, j JoinData) Select { return s.join(kind, j) }

// OrderBy appends ORDER BY keys after any existing ones.
func (s Select) OrderBy(defs ...IntoOrderDefinition) Select {
	s.ordering = s.ordering.Append(defs...)
	return s
}

// Limit sets the maximum number of rows, bound as a parameter.
func (s Select) Limit(n int64) Select {
	s.limit = Integer(n)
	return s
}

// Offset sets the number of rows to skip, bound as a parameter.
func (s Select) Offset(n int64) Select {
	s.offset = Integer(n)
	return s
}

// Table returns the source table, if any.
func (s Select) Table() (Table, bool) {
	if s.table == nil {
		return Table{}, false
	}
	return *s.table, true
}

// IsDistinct reports whether the statement is SELECT DISTINCT.
func (s Select) IsDistinct() bool { return s.distinct }

// Projection returns a copy of the projected expressions.
func (s Select) Projection() []Expression { return slices.Clone(s.columns) }

// Joins returns a copy of the joins in declaration order.
func (s Select) Joins() []Join { return slices.Clone(s.joins) }

// Conditions returns the WHERE condition; NoCondition when unset.
func (s Select) Conditions() ConditionTree { return s.conditions }

// Ordering returns the ORDER BY keys.
func (s Select) Ordering() Ordering { return slices.Clone(s.ordering) }

// LimitValue returns the LIMIT parameter, if set.
func (s Select) LimitValue() (ParameterizedValue, bool) {
	return s.limit, s.limit != nil
}

// OffsetValue returns the OFFSET parameter, if set.
func (s Select) OffsetValue() (ParameterizedValue, bool) {
	return s.offset, s.offset != nil
}
