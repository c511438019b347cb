// Package ast provides the dialect-neutral abstract syntax tree for SQL
// SELECT statements and the builder surface used to assemble it.
//
// The tree is built bottom-up from values, identifiers and comparisons,
// combined into boolean condition trees, and attached to a Select:
//
//	[ParameterizedValue] ─┐
//	[Column] [Row]        ├─→ [Compare] ─→ [ConditionTree] ─→ [Select] ─→ Query
//	[Function]           ─┘
//
// Renderers (see internal/visitor) walk a finished Query read-only and emit
// a statement template plus the ordered parameter list. The template's
// placeholders and the list returned by Parameters are in bijection: the
// i-th placeholder is bound to the i-th parameter.
//
// # Value Semantics
//
// Every builder method has a value receiver and returns a new node. Slices
// are copied before appending, so a Select captured before a call is never
// affected by the call:
//
//	base := ast.From("users").AndWhere(ast.Col("active").Equals(true))
//	adults := base.AndWhere(ast.Col("age").GreaterThanOrEquals(18))
//	// base still has a single condition
//
// Finished trees are immutable and safe to share across goroutines.
//
// # Sealed Interfaces
//
// Expression, DatabaseValue, ParameterizedValue and Query use the marker
// method pattern. Only types in this package implement them, which lets
// renderers write exhaustive type switches.
//
// # Capabilities
//
//	Comparable          Column, Row, Function, Operand
//	Conjuctive          Compare, ConditionTree
//	Orderable           Column, Function
//	IntoOrderDefinition Column, Function, OrderDefinition
//	Joinable            Table
//	Aliasable           Table, Column, Function
//
// # Construction Never Fails
//
// Builders do not return errors. Malformed trees (an inner join without an
// ON condition, a Between with one bound built through NewCompare) are
// reported by Validate and by every renderer as *Error values.
package ast
