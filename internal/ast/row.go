package ast

import "slices"

// Row is an ordered, parenthesized tuple of values. It is the right side
// of IN lists and the left side of tuple comparisons:
//
//	ast.NewRow(ast.Col("a"), ast.Col("b")).In([]ast.Row{...})
type Row struct {
	values []DatabaseValue
}

// NewRow builds a row, lifting each element with Val.
func NewRow(vals ...any) Row {
	r := Row{values: make([]DatabaseValue, len(vals))}
	for i, v := range vals {
		r.values[i] = Val(v)
	}
	return r
}

func (Row) expression()    {}
func (Row) databaseValue() {}

// Push returns a new row with v appended.
func (r Row) Push(v any) Row {
	values := make([]DatabaseValue, len(r.values), len(r.values)+1)
	copy(values, r.values)
	return Row{values: append(values, Val(v))}
}

// Values returns a copy of the row's elements.
func (r Row) Values() []DatabaseValue { return slices.Clone(r.values) }

// Len returns the number of elements.
func (r Row) Len() int { return len(r.values) }

// IsEmpty reports whether the row has no elements.
func (r Row) IsEmpty() bool { return len(r.values) == 0 }

func (r Row) Equals(v any) Compare              { return OperandOf(r).Equals(v) }
func (r Row) NotEquals(v any) Compare           { return OperandOf(r).NotEquals(v) }
func (r Row) LessThan(v any) Compare            { return OperandOf(r).LessThan(v) }
func (r Row) LessThanOrEquals(v any) Compare    { return OperandOf(r).LessThanOrEquals(v) }
func (r Row) GreaterThan(v any) Compare         { return OperandOf(r).GreaterThan(v) }
func (r Row) GreaterThanOrEquals(v any) Compare { return OperandOf(r).GreaterThanOrEquals(v) }
func (r Row) In(v any) Compare                  { return OperandOf(r).In(v) }
func (r Row) NotIn(v any) Compare               { return OperandOf(r).NotIn(v) }
func (r Row) Like(v any) Compare                { return OperandOf(r).Like(v) }
func (r Row) NotLike(v any) Compare             { return OperandOf(r).NotLike(v) }
func (r Row) IsNull() Compare                   { return OperandOf(r).IsNull() }
func (r Row) IsNotNull() Compare                { return OperandOf(r).IsNotNull() }
func (r Row) Between(low, high any) Compare     { return OperandOf(r).Between(low, high) }
func (r Row) NotBetween(low, high any) Compare  { return OperandOf(r).NotBetween(low, high) }
