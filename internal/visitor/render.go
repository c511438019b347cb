package visitor

import (
	"fmt"
	"strings"

	"github.com/roach88/sqlast/internal/ast"
)

// Render turns a finished query into a SQL template and its parameters
// for dialect d.
//
// The query is validated first; a structurally invalid query is never
// rendered best-effort. Constructs the dialect cannot express fail with
// an UNSUPPORTED_OPERATOR *ast.Error.
//
// Every literal becomes a placeholder. The returned Params are in
// placeholder order and equal ast.Parameters(q).
func Render(q ast.Query, d Dialect) (Statement, error) {
	if q == nil {
		return Statement{}, fmt.Errorf("cannot render nil query")
	}
	if d == nil {
		return Statement{}, fmt.Errorf("cannot render without a dialect")
	}
	if err := ast.Validate(q); err != nil {
		return Statement{}, err
	}

	r := &renderer{dialect: d}

	var sql string
	var err error
	switch query := q.(type) {
	case ast.Select:
		sql, err = r.selectStmt(query, "")
	case *ast.Select:
		sql, err = r.selectStmt(*query, "")
	default:
		return Statement{}, fmt.Errorf("unsupported query type: %T", q)
	}
	if err != nil {
		return Statement{}, err
	}

	return Statement{SQL: sql, Params: r.params}, nil
}

// renderer writes fragments in template order and records parameters as
// it meets them, so placeholder i always binds params[i-1].
type renderer struct {
	dialect Dialect
	params  []ast.ParameterizedValue
}

func (r *renderer) bind(v ast.ParameterizedValue) string {
	r.params = append(r.params, v)
	return r.dialect.Placeholder(len(r.params))
}

func (r *renderer) quote(name string) string {
	return r.dialect.QuoteIdentifier(name)
}

// quotePath quotes each dotted segment of a schema path, so a catalog
// qualified schema renders as "catalog"."schema".
func (r *renderer) quotePath(path string) string {
	parts := strings.Split(path, ".")
	for i, p := range parts {
		parts[i] = r.quote(p)
	}
	return strings.Join(parts, ".")
}

func (r *renderer) selectStmt(s ast.Select, path string) (string, error) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if s.IsDistinct() {
		b.WriteString("DISTINCT ")
	}

	projection := s.Projection()
	if len(projection) == 0 {
		b.WriteString("*")
	}
	for i, e := range projection {
		if i > 0 {
			b.WriteString(", ")
		}
		frag, err := r.projection(e, joinPath(path, fmt.Sprintf("columns[%d]", i)))
		if err != nil {
			return "", err
		}
		b.WriteString(frag)
	}

	if t, ok := s.Table(); ok {
		b.WriteString(" FROM ")
		b.WriteString(r.tableRef(t))
	}

	for i, j := range s.Joins() {
		jp := joinPath(path, fmt.Sprintf("joins[%d]", i))
		if !r.dialect.SupportsJoin(j.Kind) {
			return "", ast.NewUnsupportedOperatorError(r.dialect.Name(), j.Kind.String()+" JOIN", jp)
		}
		b.WriteString(" ")
		b.WriteString(joinKeyword(j.Kind))
		b.WriteString(" ")
		b.WriteString(r.tableRef(j.Data.Table()))
		if j.Kind == ast.JoinCross {
			continue
		}
		on, err := r.condition(j.Data.Conditions(), jp+".on")
		if err != nil {
			return "", err
		}
		b.WriteString(" ON ")
		b.WriteString(on)
	}

	if where := s.Conditions(); !where.IsEmpty() {
		frag, err := r.condition(where, joinPath(path, "where"))
		if err != nil {
			return "", err
		}
		b.WriteString(" WHERE ")
		b.WriteString(frag)
	}

	if ordering := s.Ordering(); len(ordering) > 0 {
		frag, err := r.ordering(ordering, joinPath(path, "order"))
		if err != nil {
			return "", err
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(frag)
	}

	var limit, offset string
	if v, ok := s.LimitValue(); ok {
		limit = r.bind(v)
	}
	if v, ok := s.OffsetValue(); ok {
		offset = r.bind(v)
	}
	if tail := r.dialect.Pagination(limit, offset); tail != "" {
		b.WriteString(" ")
		b.WriteString(tail)
	}

	return b.String(), nil
}

func joinKeyword(kind ast.JoinKind) string {
	switch kind {
	case ast.JoinLeft:
		return "LEFT JOIN"
	case ast.JoinRight:
		return "RIGHT JOIN"
	case ast.JoinFull:
		return "FULL OUTER JOIN"
	case ast.JoinCross:
		return "CROSS JOIN"
	default:
		return "INNER JOIN"
	}
}

func (r *renderer) tableRef(t ast.Table) string {
	name := r.quote(t.Name())
	if t.Schema() != "" {
		name = r.quotePath(t.Schema()) + "." + name
	}
	if t.Alias() != "" {
		name += " AS " + r.quote(t.Alias())
	}
	return name
}

// columnRef qualifies a column by its table's alias when set, otherwise by
// the schema-qualified table name.
func (r *renderer) columnRef(c ast.Column) string {
	var prefix string
	if t, ok := c.Table(); ok && t.Reference() != "" {
		switch {
		case t.Alias() != "":
			prefix = r.quote(t.Alias()) + "."
		case t.Schema() != "":
			prefix = r.quotePath(t.Schema()) + "." + r.quote(t.Name()) + "."
		default:
			prefix = r.quote(t.Name()) + "."
		}
	}
	if c.IsAsterisk() {
		return prefix + "*"
	}
	return prefix + r.quote(c.Name())
}

// projection renders a SELECT list entry, including its output alias.
func (r *renderer) projection(e ast.Expression, path string) (string, error) {
	var frag, alias string
	var err error

	switch v := e.(type) {
	case ast.Column:
		frag, alias = r.columnRef(v), v.Alias()
	case ast.Function:
		frag, err = r.function(v, path)
		alias = v.Alias()
	case ast.Aliased:
		frag, err = r.expression(v.Expr(), path)
		alias = v.Alias()
	default:
		frag, err = r.expression(e, path)
	}
	if err != nil {
		return "", err
	}

	if alias != "" {
		frag += " AS " + r.quote(alias)
	}
	return frag, nil
}

func (r *renderer) expression(e ast.Expression, path string) (string, error) {
	switch v := e.(type) {
	case nil:
		return "", fmt.Errorf("%s: nil expression", path)
	case ast.Raw:
		return string(v), nil
	case ast.Column:
		return r.columnRef(v), nil
	case ast.ParameterizedValue:
		return r.bind(v), nil
	case ast.Row:
		return r.row(v, path)
	case ast.Function:
		return r.function(v, path)
	case ast.Select:
		sub, err := r.selectStmt(v, joinPath(path, "select"))
		if err != nil {
			return "", err
		}
		return "(" + sub + ")", nil
	case ast.Compare:
		return r.compare(v, path)
	case ast.ConditionTree:
		return r.child(v, path)
	case ast.Aliased:
		return r.expression(v.Expr(), path)
	default:
		return "", fmt.Errorf("%s: unsupported expression type: %T", path, e)
	}
}

func (r *renderer) row(row ast.Row, path string) (string, error) {
	values := row.Values()
	parts := make([]string, len(values))
	for i, v := range values {
		frag, err := r.expression(v, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return "", err
		}
		parts[i] = frag
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

func (r *renderer) function(f ast.Function, path string) (string, error) {
	fp := joinPath(path, f.Kind().String())

	args := f.Args()
	rendered := make([]string, len(args))
	for i, a := range args {
		frag, err := r.expression(a, fmt.Sprintf("%s[%d]", fp, i))
		if err != nil {
			return "", err
		}
		rendered[i] = frag
	}

	var call string
	switch f.Kind() {
	case ast.FuncCount:
		call = "COUNT(" + strings.Join(rendered, ", ") + ")"
	case ast.FuncRowNumber:
		call = "ROW_NUMBER()"
	case ast.FuncAggregateToString:
		if len(rendered) != 1 {
			return "", fmt.Errorf("%s: aggregate_to_string takes one argument, got %d", fp, len(rendered))
		}
		call = r.dialect.AggregateToString(rendered[0])
	case ast.FuncCast:
		if len(rendered) != 1 {
			return "", fmt.Errorf("%s: cast takes one argument, got %d", fp, len(rendered))
		}
		call = "CAST(" + rendered[0] + " AS " + f.CastType() + ")"
	default:
		return "", ast.NewUnsupportedOperatorError(r.dialect.Name(), f.Kind().String(), fp)
	}

	if !f.IsWindow() {
		return call, nil
	}

	var over []string
	if partition := f.Partition(); len(partition) > 0 {
		cols := make([]string, len(partition))
		for i, c := range partition {
			cols[i] = r.columnRef(c)
		}
		over = append(over, "PARTITION BY "+strings.Join(cols, ", "))
	}
	if ordering := f.Ordering(); len(ordering) > 0 {
		frag, err := r.ordering(ordering, joinPath(fp, "order"))
		if err != nil {
			return "", err
		}
		over = append(over, "ORDER BY "+frag)
	}
	return call + " OVER (" + strings.Join(over, " ") + ")", nil
}

func (r *renderer) ordering(o ast.Ordering, path string) (string, error) {
	parts := make([]string, len(o))
	for i, def := range o {
		frag, err := r.expression(def.Expr, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return "", err
		}
		parts[i] = frag + " " + def.Order.String()
	}
	return strings.Join(parts, ", "), nil
}

var comparisonSymbols = map[ast.Operator]string{
	ast.OpEquals:              "=",
	ast.OpNotEquals:           "<>",
	ast.OpLessThan:            "<",
	ast.OpLessThanOrEquals:    "<=",
	ast.OpGreaterThan:         ">",
	ast.OpGreaterThanOrEquals: ">=",
	ast.OpLike:                "LIKE",
	ast.OpNotLike:             "NOT LIKE",
	ast.OpIn:                  "IN",
	ast.OpNotIn:               "NOT IN",
}

func (r *renderer) compare(c ast.Compare, path string) (string, error) {
	op := c.Operator()
	if !r.dialect.SupportsOperator(op) {
		return "", ast.NewUnsupportedOperatorError(r.dialect.Name(), op.String(), path)
	}

	// Empty IN lists are not valid SQL; neither operand is bound.
	if ast.IsEmptySet(c) {
		if op == ast.OpIn {
			return "1=0", nil
		}
		return "1=1", nil
	}

	left, err := r.expression(c.Left(), path)
	if err != nil {
		return "", err
	}

	right := c.Right()
	operands := make([]string, len(right))
	for i, v := range right {
		frag, err := r.expression(v, path)
		if err != nil {
			return "", err
		}
		operands[i] = frag
	}

	switch op {
	case ast.OpIsNull:
		return left + " IS NULL", nil
	case ast.OpIsNotNull:
		return left + " IS NOT NULL", nil
	case ast.OpBetween:
		return left + " BETWEEN " + operands[0] + " AND " + operands[1], nil
	case ast.OpNotBetween:
		return left + " NOT BETWEEN " + operands[0] + " AND " + operands[1], nil
	}

	symbol, ok := comparisonSymbols[op]
	if !ok {
		return "", ast.NewUnsupportedOperatorError(r.dialect.Name(), op.String(), path)
	}
	return left + " " + symbol + " " + operands[0], nil
}

// condition renders a boolean tree. Nested AND/OR nodes are always
// parenthesized so the rendered grouping matches the tree exactly.
func (r *renderer) condition(t ast.ConditionTree, path string) (string, error) {
	switch t.Kind() {
	case ast.TreeNoCondition:
		return "1=1", nil
	case ast.TreeNegativeCondition:
		return "1=0", nil
	case ast.TreeSingle:
		return r.expression(t.Expr(), path)
	case ast.TreeAnd, ast.TreeOr:
		word, seg := " AND ", "and"
		if t.Kind() == ast.TreeOr {
			word, seg = " OR ", "or"
		}
		left, err := r.child(t.Left(), joinPath(path, seg+"[0]"))
		if err != nil {
			return "", err
		}
		right, err := r.child(t.Right(), joinPath(path, seg+"[1]"))
		if err != nil {
			return "", err
		}
		return left + word + right, nil
	case ast.TreeNot:
		inner, err := r.condition(t.Left(), joinPath(path, "not"))
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	}
	return "", fmt.Errorf("%s: unknown condition kind %s", path, t.Kind())
}

func (r *renderer) child(t ast.ConditionTree, path string) (string, error) {
	frag, err := r.condition(t, path)
	if err != nil {
		return "", err
	}
	if k := t.Kind(); k == ast.TreeAnd || k == ast.TreeOr {
		return "(" + frag + ")", nil
	}
	return frag, nil
}

func joinPath(path, elem string) string {
	if path == "" {
		return elem
	}
	return path + "." + elem
}
