package ast

import "slices"

// FunctionKind identifies a database function.
type FunctionKind int

const (
	FuncCount FunctionKind = iota
	FuncRowNumber
	FuncAggregateToString
	FuncCast
)

func (k FunctionKind) String() string {
	switch k {
	case FuncCount:
		return "count"
	case FuncRowNumber:
		return "row_number"
	case FuncAggregateToString:
		return "aggregate_to_string"
	case FuncCast:
		return "cast"
	}
	return "unknown"
}

// Function is a database function call. It can be projected, compared,
// ordered by and aliased. A function with a partition or ordering renders
// as a window function with an OVER clause; RowNumber always does.
type Function struct {
	kind      FunctionKind
	args      []Expression
	castType  string
	partition []Column
	ordering  Ordering
	alias     string
}

// Count counts rows. Without arguments it counts *.
func Count(exprs ...any) Function {
	args := make([]Expression, 0, len(exprs))
	for _, e := range exprs {
		args = append(args, exprOf(e))
	}
	if len(args) == 0 {
		args = append(args, Asterisk())
	}
	return Function{kind: FuncCount, args: args}
}

// RowNumber numbers rows within the window defined by PartitionBy and
// OrderBy.
func RowNumber() Function {
	return Function{kind: FuncRowNumber}
}

// AggregateToString concatenates the values of expr within a group.
// Dialects map it to group_concat, string_agg or GROUP_CONCAT.
func AggregateToString(expr any) Function {
	return Function{kind: FuncAggregateToString, args: []Expression{exprOf(expr)}}
}

// Cast converts expr to the named database type.
func Cast(expr any, typeName string) Function {
	return Function{kind: FuncCast, args: []Expression{exprOf(expr)}, castType: typeName}
}

func (Function) expression()    {}
func (Function) databaseValue() {}

// Kind returns the function kind.
func (f Function) Kind() FunctionKind { return f.kind }

// Args returns a copy of the function arguments.
func (f Function) Args() []Expression { return slices.Clone(f.args) }

// CastType returns the target type of a Cast.
func (f Function) CastType() string { return f.castType }

// Partition returns a copy of the window partition columns.
func (f Function) Partition() []Column { return slices.Clone(f.partition) }

// Ordering returns the window ordering.
func (f Function) Ordering() Ordering { return f.ordering }

// Alias returns the projection alias, or "".
func (f Function) Alias() string { return f.alias }

// IsWindow reports whether the function renders an OVER clause.
func (f Function) IsWindow() bool {
	return f.kind == FuncRowNumber || len(f.partition) > 0 || len(f.ordering) > 0
}

// As returns a copy of f with the given alias.
func (f Function) As(alias string) Function {
	f.alias = alias
	return f
}

// PartitionBy returns a copy of f with cols appended to the window
// partition.
func (f Function) PartitionBy(cols ...Column) Function {
	f.partition = appendClone(f.partition, cols...)
	return f
}

// OrderBy returns a copy of f with defs appended to the window ordering.
func (f Function) OrderBy(defs ...IntoOrderDefinition) Function {
	f.ordering = f.ordering.Append(defs...)
	return f
}

func (f Function) Equals(v any) Compare              { return OperandOf(f).Equals(v) }
func (f Function) NotEquals(v any) Compare           { return OperandOf(f).NotEquals(v) }
func (f Function) LessThan(v any) Compare            { return OperandOf(f).LessThan(v) }
func (f Function) LessThanOrEquals(v any) Compare    { return OperandOf(f).LessThanOrEquals(v) }
func (f Function) GreaterThan(v any) Compare         { return OperandOf(f).GreaterThan(v) }
func (f Function) GreaterThanOrEquals(v any) Compare { return OperandOf(f).GreaterThanOrEquals(v) }
func (f Function) In(v any) Compare                  { return OperandOf(f).In(v) }
func (f Function) NotIn(v any) Compare               { return OperandOf(f).NotIn(v) }
func (f Function) Like(v any) Compare                { return OperandOf(f).Like(v) }
func (f Function) NotLike(v any) Compare             { return OperandOf(f).NotLike(v) }
func (f Function) IsNull() Compare                   { return OperandOf(f).IsNull() }
func (f Function) IsNotNull() Compare                { return OperandOf(f).IsNotNull() }
func (f Function) Between(low, high any) Compare     { return OperandOf(f).Between(low, high) }
func (f Function) NotBetween(low, high any) Compare  { return OperandOf(f).NotBetween(low, high) }

// Ascend implements Orderable.
func (f Function) Ascend() OrderDefinition { return Asc(f) }

// Descend implements Orderable.
func (f Function) Descend() OrderDefinition { return Desc(f) }

// IntoOrderDefinition orders by f ascending.
func (f Function) IntoOrderDefinition() OrderDefinition { return Asc(f) }

// exprOf lifts v into an Expression, keeping expressions as they are.
func exprOf(v any) Expression {
	if e, ok := v.(Expression); ok {
		return e
	}
	return Val(v)
}

// appendClone appends to a fresh backing array so that values sharing
// the original slice never observe the append.
func appendClone[T any](s []T, elems ...T) []T {
	out := make([]T, len(s), len(s)+len(elems))
	copy(out, s)
	return append(out, elems...)
}
