package ast

import "strings"

// Column references a column, optionally qualified by its table and
// optionally aliased for projection.
type Column struct {
	name  string
	table *Table
	alias string
}

// Col returns a column reference. In a dotted name the last part is the
// column and the rest qualifies it as NewTable does: "users.id",
// "public.users.id", "catalog.public.users.id".
func Col(name string) Column {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return Column{name: name}
	}
	t := NewTable(name[:i])
	return Column{name: name[i+1:], table: &t}
}

// Asterisk returns the projection of every column, optionally limited to
// one table.
func Asterisk(table ...Table) Column {
	c := Column{name: "*"}
	if len(table) > 0 {
		t := table[0]
		c.table = &t
	}
	return c
}

func (Column) expression()    {}
func (Column) databaseValue() {}

// Of returns a copy of c qualified by table.
func (c Column) Of(table Table) Column {
	c.table = &table
	return c
}

// As returns a copy of c with the given projection alias.
func (c Column) As(alias string) Column {
	c.alias = alias
	return c
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Alias returns the projection alias, or "".
func (c Column) Alias() string { return c.alias }

// Table returns the qualifying table, if any.
func (c Column) Table() (Table, bool) {
	if c.table == nil {
		return Table{}, false
	}
	return *c.table, true
}

// IsAsterisk reports whether c projects every column.
func (c Column) IsAsterisk() bool { return c.name == "*" }

func (c Column) Equals(v any) Compare              { return OperandOf(c).Equals(v) }
func (c Column) NotEquals(v any) Compare           { return OperandOf(c).NotEquals(v) }
func (c Column) LessThan(v any) Compare            { return OperandOf(c).LessThan(v) }
func (c Column) LessThanOrEquals(v any) Compare    { return OperandOf(c).LessThanOrEquals(v) }
func (c Column) GreaterThan(v any) Compare         { return OperandOf(c).GreaterThan(v) }
func (c Column) GreaterThanOrEquals(v any) Compare { return OperandOf(c).GreaterThanOrEquals(v) }
func (c Column) In(v any) Compare                  { return OperandOf(c).In(v) }
func (c Column) NotIn(v any) Compare               { return OperandOf(c).NotIn(v) }
func (c Column) Like(v any) Compare                { return OperandOf(c).Like(v) }
func (c Column) NotLike(v any) Compare             { return OperandOf(c).NotLike(v) }
func (c Column) Contains(s string) Compare         { return OperandOf(c).Contains(s) }
func (c Column) NotContains(s string) Compare      { return OperandOf(c).NotContains(s) }
func (c Column) StartsWith(s string) Compare       { return OperandOf(c).StartsWith(s) }
func (c Column) NotStartsWith(s string) Compare    { return OperandOf(c).NotStartsWith(s) }
func (c Column) EndsWith(s string) Compare         { return OperandOf(c).EndsWith(s) }
func (c Column) NotEndsWith(s string) Compare      { return OperandOf(c).NotEndsWith(s) }
func (c Column) IsNull() Compare                   { return OperandOf(c).IsNull() }
func (c Column) IsNotNull() Compare                { return OperandOf(c).IsNotNull() }
func (c Column) Between(low, high any) Compare     { return OperandOf(c).Between(low, high) }
func (c Column) NotBetween(low, high any) Compare  { return OperandOf(c).NotBetween(low, high) }

// Ascend implements Orderable.
func (c Column) Ascend() OrderDefinition { return Asc(c) }

// Descend implements Orderable.
func (c Column) Descend() OrderDefinition { return Desc(c) }

// IntoOrderDefinition orders by c ascending.
func (c Column) IntoOrderDefinition() OrderDefinition { return Asc(c) }
