package querydoc

import (
	"fmt"
	"strings"

	"github.com/roach88/sqlast/internal/ast"
)

// Error reports an invalid query document.
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func errorf(path, format string, args ...any) *Error {
	return &Error{Path: path, Message: fmt.Sprintf(format, args...)}
}

// Build turns the document into a Select.
//
// Build checks the document's shape (known operators, operand counts for
// between, exactly one node kind per condition). Structural rules of the
// query itself, such as a missing join condition, are left to
// ast.Validate.
func (d *Document) Build() (ast.Select, error) {
	return d.build("")
}

func (d *Document) build(path string) (ast.Select, error) {
	sel := ast.NewSelect()
	if d.From != nil {
		sel = ast.From(d.From.table())
	}
	if d.Distinct {
		sel = sel.Distinct()
	}

	for i, c := range d.Columns {
		expr, err := c.build(fmt.Sprintf("%scolumns[%d]", prefix(path), i))
		if err != nil {
			return ast.Select{}, err
		}
		sel = sel.Value(expr)
	}

	for i, j := range d.Joins {
		jp := fmt.Sprintf("%sjoins[%d]", prefix(path), i)
		kind, ok := ast.ParseJoinKind(j.Kind)
		if !ok {
			return ast.Select{}, errorf(jp, "unknown join kind %q", j.Kind)
		}
		table := j.Table.table()
		if j.Alias != "" {
			table = table.As(j.Alias)
		}

		var on ast.Expression
		if j.On != nil {
			cond, err := j.On.build(jp + ".on")
			if err != nil {
				return ast.Select{}, err
			}
			on = cond
		}
		if kind == ast.JoinCross && on == nil {
			sel = sel.CrossJoin(table)
			continue
		}
		sel = sel.Join(kind, table.On(on))
	}

	if d.Where != nil {
		cond, err := d.Where.build(prefix(path) + "where")
		if err != nil {
			return ast.Select{}, err
		}
		sel = sel.Where(cond)
	}

	for i, o := range d.Order {
		def, err := o.build(fmt.Sprintf("%sorder[%d]", prefix(path), i))
		if err != nil {
			return ast.Select{}, err
		}
		sel = sel.OrderBy(def)
	}

	if d.Limit != nil {
		if *d.Limit < 0 {
			return ast.Select{}, errorf(prefix(path)+"limit", "must not be negative")
		}
		sel = sel.Limit(*d.Limit)
	}
	if d.Offset != nil {
		if *d.Offset < 0 {
			return ast.Select{}, errorf(prefix(path)+"offset", "must not be negative")
		}
		sel = sel.Offset(*d.Offset)
	}

	return sel, nil
}

func prefix(path string) string {
	if path == "" {
		return ""
	}
	return path + "."
}

func (t TableRef) table() ast.Table {
	table := ast.NewTable(t.Name)
	if t.Schema != "" {
		table = table.InSchema(t.Schema)
	}
	if t.Alias != "" {
		table = table.As(t.Alias)
	}
	return table
}

func (c ColumnRef) build(path string) (ast.Expression, error) {
	kinds := 0
	for _, set := range []bool{
		c.Column != "",
		c.Count != nil,
		c.AggregateToString != "",
		c.Cast != "",
		c.RowNumber != nil,
		c.Raw != "",
	} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, errorf(path, "exactly one of column, count, aggregate_to_string, cast, row_number or raw is required")
	}

	switch {
	case c.Column != "":
		return ast.Col(c.Column).As(c.Alias), nil
	case c.Count != nil:
		args := make([]any, len(c.Count))
		for i, name := range c.Count {
			args[i] = ast.Col(name)
		}
		return ast.Count(args...).As(c.Alias), nil
	case c.AggregateToString != "":
		return ast.AggregateToString(ast.Col(c.AggregateToString)).As(c.Alias), nil
	case c.Cast != "":
		if c.Type == "" {
			return nil, errorf(path, "cast requires a type")
		}
		return ast.Cast(ast.Col(c.Cast), c.Type).As(c.Alias), nil
	case c.RowNumber != nil:
		fn := ast.RowNumber()
		for _, col := range c.RowNumber.PartitionBy {
			fn = fn.PartitionBy(ast.Col(col))
		}
		for i, o := range c.RowNumber.Order {
			def, err := o.build(fmt.Sprintf("%s.row_number.order[%d]", path, i))
			if err != nil {
				return nil, err
			}
			fn = fn.OrderBy(def)
		}
		return fn.As(c.Alias), nil
	default:
		if c.Alias != "" {
			return ast.Alias(ast.Raw(c.Raw), c.Alias), nil
		}
		return ast.Raw(c.Raw), nil
	}
}

func (o OrderSpec) build(path string) (ast.OrderDefinition, error) {
	if o.Column == "" {
		return ast.OrderDefinition{}, errorf(path, "column is required")
	}
	col := ast.Col(o.Column)
	switch strings.ToLower(o.Direction) {
	case "", "asc":
		return col.Ascend(), nil
	case "desc":
		return col.Descend(), nil
	}
	return ast.OrderDefinition{}, errorf(path, "unknown direction %q", o.Direction)
}

func (c Condition) build(path string) (ast.ConditionTree, error) {
	kinds := 0
	for _, set := range []bool{c.And != nil, c.Or != nil, c.Not != nil, c.Column != ""} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return ast.ConditionTree{}, errorf(path, "exactly one of and, or, not or column is required")
	}

	switch {
	case c.And != nil:
		exprs, err := buildAll(c.And, path+".and")
		if err != nil {
			return ast.ConditionTree{}, err
		}
		return ast.All(exprs...), nil
	case c.Or != nil:
		exprs, err := buildAll(c.Or, path+".or")
		if err != nil {
			return ast.ConditionTree{}, err
		}
		return ast.Any(exprs...), nil
	case c.Not != nil:
		inner, err := c.Not.build(path + ".not")
		if err != nil {
			return ast.ConditionTree{}, err
		}
		return inner.Not(), nil
	}

	cmp, err := c.comparison(path)
	if err != nil {
		return ast.ConditionTree{}, err
	}
	return ast.Single(cmp), nil
}

func buildAll(conds []Condition, path string) ([]ast.Expression, error) {
	exprs := make([]ast.Expression, len(conds))
	for i, c := range conds {
		tree, err := c.build(fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		exprs[i] = tree
	}
	return exprs, nil
}

// operand returns the right-hand side of a binary comparison: a column
// reference when ref is set, otherwise the literal value.
func (c Condition) operand(path string) (any, error) {
	if c.Ref != "" {
		if c.Value != nil {
			return nil, errorf(path, "value and ref are mutually exclusive")
		}
		return ast.Col(c.Ref), nil
	}
	return c.Value, nil
}

func (c Condition) pattern(path string) (string, error) {
	s, ok := c.Value.(string)
	if !ok {
		return "", errorf(path, "%s requires a string value", c.Op)
	}
	return s, nil
}

func (c Condition) comparison(path string) (ast.Compare, error) {
	col := ast.Col(c.Column)

	switch c.Op {
	case "eq", "ne", "lt", "le", "gt", "ge", "like", "not_like":
		rhs, err := c.operand(path)
		if err != nil {
			return ast.Compare{}, err
		}
		op, _ := ast.ParseOperator(c.Op)
		return binary(col, op, rhs), nil
	case "in", "not_in":
		var set any = c.Values
		if c.Select != nil {
			if c.Values != nil {
				return ast.Compare{}, errorf(path, "values and select are mutually exclusive")
			}
			sub, err := c.Select.build(path + ".select")
			if err != nil {
				return ast.Compare{}, err
			}
			set = sub
		} else if c.Values == nil {
			set = []any{}
		}
		if c.Op == "in" {
			return col.In(set), nil
		}
		return col.NotIn(set), nil
	case "contains", "starts_with", "ends_with":
		s, err := c.pattern(path)
		if err != nil {
			return ast.Compare{}, err
		}
		switch c.Op {
		case "contains":
			return col.Contains(s), nil
		case "starts_with":
			return col.StartsWith(s), nil
		default:
			return col.EndsWith(s), nil
		}
	case "is_null":
		return col.IsNull(), nil
	case "is_not_null":
		return col.IsNotNull(), nil
	case "between", "not_between":
		if len(c.Between) != 2 {
			return ast.Compare{}, errorf(path, "%s requires exactly two bounds, got %d", c.Op, len(c.Between))
		}
		if c.Op == "between" {
			return col.Between(c.Between[0], c.Between[1]), nil
		}
		return col.NotBetween(c.Between[0], c.Between[1]), nil
	case "":
		return ast.Compare{}, errorf(path, "op is required")
	}
	return ast.Compare{}, errorf(path, "unknown operator %q", c.Op)
}

func binary(col ast.Column, op ast.Operator, rhs any) ast.Compare {
	switch op {
	case ast.OpNotEquals:
		return col.NotEquals(rhs)
	case ast.OpLessThan:
		return col.LessThan(rhs)
	case ast.OpLessThanOrEquals:
		return col.LessThanOrEquals(rhs)
	case ast.OpGreaterThan:
		return col.GreaterThan(rhs)
	case ast.OpGreaterThanOrEquals:
		return col.GreaterThanOrEquals(rhs)
	case ast.OpLike:
		return col.Like(rhs)
	case ast.OpNotLike:
		return col.NotLike(rhs)
	default:
		return col.Equals(rhs)
	}
}
