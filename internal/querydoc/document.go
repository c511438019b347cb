package querydoc

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is a declarative SELECT statement.
//
//	from: users
//	columns: [id, name, {column: age, alias: years}]
//	joins:
//	  - {kind: left, table: posts, alias: p, on: {column: p.user_id, op: eq, ref: users.id}}
//	where:
//	  and:
//	    - {column: age, op: ge, value: 18}
//	    - {column: name, op: starts_with, value: a}
//	order: [name, {column: age, direction: desc}]
//	limit: 10
type Document struct {
	From     *TableRef   `yaml:"from,omitempty"`
	Distinct bool        `yaml:"distinct,omitempty"`
	Columns  []ColumnRef `yaml:"columns,omitempty"`
	Joins    []JoinSpec  `yaml:"joins,omitempty"`
	Where    *Condition  `yaml:"where,omitempty"`
	Order    []OrderSpec `yaml:"order,omitempty"`
	Limit    *int64      `yaml:"limit,omitempty"`
	Offset   *int64      `yaml:"offset,omitempty"`
}

// TableRef is a table name, or a mapping with schema and alias.
type TableRef struct {
	Name   string `yaml:"name"`
	Schema string `yaml:"schema,omitempty"`
	Alias  string `yaml:"alias,omitempty"`
}

// UnmarshalYAML accepts "users", "public.users" or {name, schema, alias}.
func (t *TableRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Name = node.Value
		return nil
	}
	type plain TableRef
	return strictDecode(node, (*plain)(t))
}

// ColumnRef is one projection entry. A scalar is a column name; a mapping
// selects a column with an alias, a function or a raw fragment.
type ColumnRef struct {
	Column            string      `yaml:"column,omitempty"`
	Count             []string    `yaml:"count,omitempty"`
	AggregateToString string      `yaml:"aggregate_to_string,omitempty"`
	Cast              string      `yaml:"cast,omitempty"`
	Type              string      `yaml:"type,omitempty"`
	RowNumber         *WindowSpec `yaml:"row_number,omitempty"`
	Raw               string      `yaml:"raw,omitempty"`
	Alias             string      `yaml:"alias,omitempty"`
}

// UnmarshalYAML accepts a column name or a mapping.
func (c *ColumnRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Column = node.Value
		return nil
	}
	type plain ColumnRef
	return strictDecode(node, (*plain)(c))
}

// WindowSpec is the OVER clause of a window function.
type WindowSpec struct {
	PartitionBy []string    `yaml:"partition_by,omitempty"`
	Order       []OrderSpec `yaml:"order,omitempty"`
}

// JoinSpec is one join. Kind defaults to inner.
type JoinSpec struct {
	Kind  string     `yaml:"kind,omitempty"`
	Table TableRef   `yaml:"table"`
	Alias string     `yaml:"alias,omitempty"`
	On    *Condition `yaml:"on,omitempty"`
}

// OrderSpec is one ORDER BY key. A scalar orders by that column
// ascending.
type OrderSpec struct {
	Column    string `yaml:"column"`
	Direction string `yaml:"direction,omitempty"`
}

// UnmarshalYAML accepts a column name or {column, direction}.
func (o *OrderSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		o.Column = node.Value
		return nil
	}
	type plain OrderSpec
	return strictDecode(node, (*plain)(o))
}

// Condition is a boolean tree node. Exactly one of And, Or, Not or
// Column must be set.
type Condition struct {
	And []Condition `yaml:"and,omitempty"`
	Or  []Condition `yaml:"or,omitempty"`
	Not *Condition  `yaml:"not,omitempty"`

	Column  string    `yaml:"column,omitempty"`
	Op      string    `yaml:"op,omitempty"`
	Value   any       `yaml:"value,omitempty"`
	Values  []any     `yaml:"values,omitempty"`
	Between []any     `yaml:"between,omitempty"`
	Ref     string    `yaml:"ref,omitempty"`
	Select  *Document `yaml:"select,omitempty"`
}

// Parse decodes a YAML (or JSON) query document. Unknown fields are
// rejected.
func Parse(data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse query document: %w", err)
	}
	return &doc, nil
}

// strictDecode decodes a mapping node with unknown-field checking.
// yaml.Node.Decode does not inherit the decoder's KnownFields setting, so
// the node is re-encoded and decoded by a strict decoder.
func strictDecode(node *yaml.Node, out any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}
