package ast

// Parameters returns the ordered parameter sequence of a finished query
// without rendering it.
//
// The walk is depth-first and left-to-right in emitted-clause order:
//
//	projection → joins (ON, in declaration order) → WHERE → ORDER BY → LIMIT → OFFSET
//
// Within a comparison the left operand precedes the right operands; row
// elements and function arguments keep their order; a sub-select is walked
// in place. Every renderer places its placeholders in exactly this order,
// so parameter i binds placeholder i.
//
// Parameters is a pure function with no side effects.
func Parameters(q Query) []ParameterizedValue {
	c := &collector{}
	c.query(q)
	return c.params
}

// ExpressionParameters returns the parameter sequence of one expression.
func ExpressionParameters(e Expression) []ParameterizedValue {
	c := &collector{}
	c.expression(e)
	return c.params
}

// collector accumulates parameters during traversal.
type collector struct {
	params []ParameterizedValue
}

func (c *collector) query(q Query) {
	switch query := q.(type) {
	case Select:
		c.selectStmt(query)
	case *Select:
		if query != nil {
			c.selectStmt(*query)
		}
	}
}

func (c *collector) selectStmt(s Select) {
	for _, col := range s.columns {
		c.expression(col)
	}
	for _, j := range s.joins {
		c.tree(j.Data.conditions)
	}
	c.tree(s.conditions)
	c.ordering(s.ordering)
	if s.limit != nil {
		c.params = append(c.params, s.limit)
	}
	if s.offset != nil {
		c.params = append(c.params, s.offset)
	}
}

func (c *collector) ordering(o Ordering) {
	for _, def := range o {
		c.expression(def.Expr)
	}
}

func (c *collector) tree(t ConditionTree) {
	switch t.kind {
	case TreeSingle:
		c.expression(t.expr)
	case TreeAnd, TreeOr:
		c.tree(*t.left)
		c.tree(*t.right)
	case TreeNot:
		c.tree(*t.left)
	}
}

func (c *collector) expression(e Expression) {
	switch v := e.(type) {
	case nil, Raw, Column:
		// No parameters
	case ParameterizedValue:
		c.params = append(c.params, v)
	case Row:
		for _, dv := range v.values {
			c.expression(dv)
		}
	case Function:
		for _, arg := range v.args {
			c.expression(arg)
		}
		c.ordering(v.ordering)
	case Select:
		c.selectStmt(v)
	case Compare:
		if IsEmptySet(v) {
			return
		}
		c.expression(v.left)
		for _, r := range v.right {
			c.expression(r)
		}
	case ConditionTree:
		c.tree(v)
	case Aliased:
		c.expression(v.expr)
	}
}

// IsEmptySet reports whether c is an IN / NOT IN against an empty row.
// Renderers emit such a comparison as a constant (1=0 for IN, 1=1 for
// NOT IN) and bind none of its operands.
func IsEmptySet(c Compare) bool {
	if c.op != OpIn && c.op != OpNotIn {
		return false
	}
	if len(c.right) != 1 {
		return false
	}
	row, ok := c.right[0].(Row)
	return ok && row.IsEmpty()
}
