package ast

import "strings"

// Table references a table, optionally schema-qualified and aliased.
//
// Once aliased, every qualified reference produced from the table (joins,
// columns built with Table.Column) uses the alias.
type Table struct {
	schema string
	name   string
	alias  string
}

// NewTable returns a table reference. In a dotted name the last part is
// the table and everything before it the schema, so "public.users" and
// "catalog.public.users" both work.
func NewTable(name string) Table {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return Table{schema: name[:i], name: name[i+1:]}
	}
	return Table{name: name}
}

// TableRef is satisfied by a Table or a table name.
type TableRef interface {
	string | Table
}

func asTable[T TableRef](t T) Table {
	switch v := any(t).(type) {
	case Table:
		return v
	case string:
		return NewTable(v)
	}
	return Table{}
}

// InSchema returns a copy of t qualified with schema. A dotted schema is a
// path and renders one quoted identifier per part.
func (t Table) InSchema(schema string) Table {
	t.schema = schema
	return t
}

// As returns a copy of t with the given alias.
func (t Table) As(alias string) Table {
	t.alias = alias
	return t
}

// Name returns the unaliased table name.
func (t Table) Name() string { return t.name }

// Schema returns the schema, or "" when unqualified.
func (t Table) Schema() string { return t.schema }

// Alias returns the alias, or "" when none was set.
func (t Table) Alias() string { return t.alias }

// Reference returns the name other clauses use to qualify columns of this
// table: the alias when set, otherwise the table name.
func (t Table) Reference() string {
	if t.alias != "" {
		return t.alias
	}
	return t.name
}

// Column returns a column qualified by this table.
func (t Table) Column(name string) Column {
	return Column{name: name, table: &t}
}

// On implements Joinable.
func (t Table) On(cond Expression) JoinData {
	return JoinData{table: t, conditions: asCondition(cond)}
}
