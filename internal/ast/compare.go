package ast

import (
	"reflect"
	"slices"
)

// Operator identifies the kind of a Compare.
type Operator int

const (
	OpEquals Operator = iota
	OpNotEquals
	OpLessThan
	OpLessThanOrEquals
	OpGreaterThan
	OpGreaterThanOrEquals
	OpIn
	OpNotIn
	OpLike
	OpNotLike
	OpIsNull
	OpIsNotNull
	OpBetween
	OpNotBetween
)

var operatorNames = [...]string{
	OpEquals:              "eq",
	OpNotEquals:           "ne",
	OpLessThan:            "lt",
	OpLessThanOrEquals:    "le",
	OpGreaterThan:         "gt",
	OpGreaterThanOrEquals: "ge",
	OpIn:                  "in",
	OpNotIn:               "not_in",
	OpLike:                "like",
	OpNotLike:             "not_like",
	OpIsNull:              "is_null",
	OpIsNotNull:           "is_not_null",
	OpBetween:             "between",
	OpNotBetween:          "not_between",
}

// String returns the short operator name ("eq", "not_in", ...).
func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorNames) {
		return "unknown"
	}
	return operatorNames[op]
}

// ParseOperator resolves a short operator name.
func ParseOperator(name string) (Operator, bool) {
	for i, n := range operatorNames {
		if n == name {
			return Operator(i), true
		}
	}
	return 0, false
}

// Arity returns the number of right-hand operands op requires.
func (op Operator) Arity() int {
	switch op {
	case OpIsNull, OpIsNotNull:
		return 0
	case OpBetween, OpNotBetween:
		return 2
	default:
		return 1
	}
}

// Compare is a single predicate: an operator, its left operand and the
// right-hand operands the operator takes.
//
// Arity rules:
//   - IsNull, IsNotNull: no right operand
//   - Between, NotBetween: exactly two bounds, kept in caller order
//   - In, NotIn: one Row (static list) or one sub-Select
//   - every other operator: exactly one right operand
//
// The Comparable builders always produce well-formed comparisons. Only
// NewCompare can build one that violates these rules; Validate reports it.
type Compare struct {
	op    Operator
	left  DatabaseValue
	right []DatabaseValue
}

// NewCompare builds a comparison without checking arity.
func NewCompare(op Operator, left DatabaseValue, right ...DatabaseValue) Compare {
	return Compare{op: op, left: left, right: slices.Clone(right)}
}

func (Compare) expression() {}

// Operator returns the comparison kind.
func (c Compare) Operator() Operator { return c.op }

// Left returns the left operand.
func (c Compare) Left() DatabaseValue { return c.left }

// Right returns a copy of the right-hand operands.
func (c Compare) Right() []DatabaseValue { return slices.Clone(c.right) }

// And implements Conjuctive.
func (c Compare) And(other Expression) ConditionTree { return Single(c).And(other) }

// Or implements Conjuctive.
func (c Compare) Or(other Expression) ConditionTree { return Single(c).Or(other) }

// Not implements Conjuctive.
func (c Compare) Not() ConditionTree { return Single(c).Not() }

// Comparable is implemented by nodes that can be the left operand of a
// comparison.
type Comparable interface {
	Equals(v any) Compare
	NotEquals(v any) Compare
	LessThan(v any) Compare
	LessThanOrEquals(v any) Compare
	GreaterThan(v any) Compare
	GreaterThanOrEquals(v any) Compare
	In(v any) Compare
	NotIn(v any) Compare
	Like(v any) Compare
	NotLike(v any) Compare
	IsNull() Compare
	IsNotNull() Compare
	Between(low, high any) Compare
	NotBetween(low, high any) Compare
}

var (
	_ Comparable = Column{}
	_ Comparable = Row{}
	_ Comparable = Function{}
	_ Comparable = Operand{}
)

// Operand is the Comparable surface of an arbitrary DatabaseValue.
// Obtain one with OperandOf.
type Operand struct {
	value DatabaseValue
}

// OperandOf exposes the comparison builders for any value, e.g. a literal
// on the left-hand side or a sub-select.
func OperandOf(v any) Operand {
	return Operand{value: Val(v)}
}

func (o Operand) binary(op Operator, v any) Compare {
	return Compare{op: op, left: o.value, right: []DatabaseValue{Val(v)}}
}

func (o Operand) Equals(v any) Compare              { return o.binary(OpEquals, v) }
func (o Operand) NotEquals(v any) Compare           { return o.binary(OpNotEquals, v) }
func (o Operand) LessThan(v any) Compare            { return o.binary(OpLessThan, v) }
func (o Operand) LessThanOrEquals(v any) Compare    { return o.binary(OpLessThanOrEquals, v) }
func (o Operand) GreaterThan(v any) Compare         { return o.binary(OpGreaterThan, v) }
func (o Operand) GreaterThanOrEquals(v any) Compare { return o.binary(OpGreaterThanOrEquals, v) }
func (o Operand) Like(v any) Compare                { return o.binary(OpLike, v) }
func (o Operand) NotLike(v any) Compare             { return o.binary(OpNotLike, v) }

// In compares against a Row, a sub-Select, or a Go slice whose elements
// become the row's values.
func (o Operand) In(v any) Compare {
	return Compare{op: OpIn, left: o.value, right: []DatabaseValue{setOperand(v)}}
}

// NotIn is the negated form of In.
func (o Operand) NotIn(v any) Compare {
	return Compare{op: OpNotIn, left: o.value, right: []DatabaseValue{setOperand(v)}}
}

// Contains matches values containing s. The pattern "%s%" is the bound
// parameter.
func (o Operand) Contains(s string) Compare    { return o.Like("%" + s + "%") }
func (o Operand) NotContains(s string) Compare { return o.NotLike("%" + s + "%") }

// StartsWith matches values with prefix s.
func (o Operand) StartsWith(s string) Compare    { return o.Like(s + "%") }
func (o Operand) NotStartsWith(s string) Compare { return o.NotLike(s + "%") }

// EndsWith matches values with suffix s.
func (o Operand) EndsWith(s string) Compare    { return o.Like("%" + s) }
func (o Operand) NotEndsWith(s string) Compare { return o.NotLike("%" + s) }

func (o Operand) IsNull() Compare    { return Compare{op: OpIsNull, left: o.value} }
func (o Operand) IsNotNull() Compare { return Compare{op: OpIsNotNull, left: o.value} }

// Between passes the bounds through in caller order; no low <= high check
// is made and renderers never swap them.
func (o Operand) Between(low, high any) Compare {
	return Compare{op: OpBetween, left: o.value, right: []DatabaseValue{Val(low), Val(high)}}
}

func (o Operand) NotBetween(low, high any) Compare {
	return Compare{op: OpNotBetween, left: o.value, right: []DatabaseValue{Val(low), Val(high)}}
}

// setOperand turns the right side of IN into a Row unless it already is a
// Row or a sub-select.
func setOperand(v any) DatabaseValue {
	switch val := v.(type) {
	case Row:
		return val
	case Select:
		return val
	case Array:
		vals := make([]DatabaseValue, len(val))
		for i, e := range val {
			vals[i] = e
		}
		return Row{values: vals}
	case []any:
		return NewRow(val...)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		vals := make([]DatabaseValue, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			vals[i] = Val(rv.Index(i).Interface())
		}
		return Row{values: vals}
	}
	return NewRow(v)
}
