package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_RoundTripExample(t *testing.T) {
	sel := From("users").
		AndWhere(Col("age").GreaterThan(18)).
		AndWhere(Col("age").LessThan(65))

	assert.Equal(t, []ParameterizedValue{Integer(18), Integer(65)}, Parameters(sel))

	where := sel.Conditions()
	require.Equal(t, TreeAnd, where.Kind())
	assert.Equal(t, OpGreaterThan, where.Left().Expr().(Compare).Operator())
	assert.Equal(t, OpLessThan, where.Right().Expr().(Compare).Operator())
}

func TestSelect_BuilderIsValueSemantic(t *testing.T) {
	base := From("users").Column("id").AndWhere(Col("active").Equals(true))

	derived := base.
		Column("name").
		AndWhere(Col("age").GreaterThanOrEquals(18)).
		OrderBy(Col("name")).
		InnerJoin(NewTable("posts").On(Col("posts.user_id").Equals(Col("users.id")))).
		Limit(10)

	assert.Len(t, base.Projection(), 1)
	assert.Equal(t, TreeSingle, base.Conditions().Kind())
	assert.Empty(t, base.Ordering())
	assert.Empty(t, base.Joins())
	_, hasLimit := base.LimitValue()
	assert.False(t, hasLimit)

	assert.Len(t, derived.Projection(), 2)
	assert.Equal(t, TreeAnd, derived.Conditions().Kind())
}

func TestSelect_SiblingAppendsDoNotShareBackingArrays(t *testing.T) {
	base := From("t").Columns("a", "b", "c")
	left := base.Column("x")
	right := base.Column("y")

	assert.Equal(t, Col("x"), left.Projection()[3])
	assert.Equal(t, Col("y"), right.Projection()[3])
}

func TestSelect_JoinOrderPreserved(t *testing.T) {
	sel := From("a").
		InnerJoin(NewTable("j1").On(Col("j1.id").Equals(Col("a.id")))).
		LeftJoin(NewTable("j2").On(Col("j2.id").Equals(Col("a.id")))).
		CrossJoin(NewTable("j3"))

	joins := sel.Joins()
	require.Len(t, joins, 3)
	assert.Equal(t, "j1", joins[0].Data.Table().Name())
	assert.Equal(t, JoinInner, joins[0].Kind)
	assert.Equal(t, "j2", joins[1].Data.Table().Name())
	assert.Equal(t, JoinLeft, joins[1].Kind)
	assert.Equal(t, "j3", joins[2].Data.Table().Name())
	assert.Equal(t, JoinCross, joins[2].Kind)
	assert.True(t, joins[2].Data.Conditions().IsEmpty())
}

func TestSelect_OrderingAppendOnly(t *testing.T) {
	a, b := Col("a"), Col("b")
	sel := From("t").OrderBy(a).OrderBy(b)

	assert.Equal(t, Ordering{
		{Expr: a, Order: Ascending},
		{Expr: b, Order: Ascending},
	}, sel.Ordering())

	dup := sel.OrderBy(a.Descend())
	assert.Equal(t, Ordering{
		{Expr: a, Order: Ascending},
		{Expr: b, Order: Ascending},
		{Expr: a, Order: Descending},
	}, dup.Ordering(), "duplicates are kept, never reordered")
}

func TestSelect_OrWhere(t *testing.T) {
	first := Col("a").Equals(1)
	second := Col("b").Equals(2)

	sel := From("t").OrWhere(first)
	assert.Equal(t, Single(first), sel.Conditions(), "OrWhere on empty WHERE sets the condition")

	sel = sel.OrWhere(second)
	assert.Equal(t, first.Or(second), sel.Conditions())
}

func TestSelect_WhereReplaces(t *testing.T) {
	sel := From("t").AndWhere(Col("a").Equals(1)).Where(Col("b").Equals(2))
	assert.Equal(t, Single(Col("b").Equals(2)), sel.Conditions())
}

func TestSelect_FromAcceptsTableOrName(t *testing.T) {
	fromName, _ := From("public.users").Table()
	assert.Equal(t, "public", fromName.Schema())
	assert.Equal(t, "users", fromName.Name())

	fromPath, _ := From("main.public.users").Table()
	assert.Equal(t, "main.public", fromPath.Schema())
	assert.Equal(t, "users", fromPath.Name())

	fromTable, _ := From(NewTable("users").As("u")).Table()
	assert.Equal(t, "u", fromTable.Reference())

	_, ok := NewSelect().Table()
	assert.False(t, ok)
}

func TestSelect_LimitOffsetAreParameters(t *testing.T) {
	sel := From("t").Limit(10).Offset(20)

	limit, ok := sel.LimitValue()
	require.True(t, ok)
	assert.Equal(t, Integer(10), limit)

	offset, ok := sel.OffsetValue()
	require.True(t, ok)
	assert.Equal(t, Integer(20), offset)
}

func TestColumn_Parsing(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		table    string
		schema   string
		hasTable bool
	}{
		{"id", "id", "", "", false},
		{"users.id", "id", "users", "", true},
		{"public.users.id", "id", "users", "public", true},
		{"main.public.users.id", "id", "users", "main.public", true},
		{"a.b.c.d.e", "e", "d", "a.b.c", true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			c := Col(tc.in)
			assert.Equal(t, tc.name, c.Name())
			tbl, ok := c.Table()
			assert.Equal(t, tc.hasTable, ok)
			assert.Equal(t, tc.table, tbl.Name())
			assert.Equal(t, tc.schema, tbl.Schema())
		})
	}
}

func TestAliasing_ProducesNewNodes(t *testing.T) {
	users := NewTable("users")
	aliased := users.As("u")
	realiased := aliased.As("usr")

	assert.Equal(t, "", users.Alias())
	assert.Equal(t, "u", aliased.Alias())
	assert.Equal(t, "usr", realiased.Alias(), "re-aliasing overrides on a new node")
	assert.Equal(t, "users", realiased.Name(), "the original name is kept for resolution")

	col := aliased.Column("id")
	tbl, _ := col.Table()
	assert.Equal(t, "u", tbl.Reference())

	named := Col("age").As("years")
	assert.Equal(t, "years", named.Alias())
	assert.Equal(t, "age", named.Name())

	expr := Alias(Col("a").Equals(1), "is_one")
	again := Alias(expr, "first")
	assert.Equal(t, "first", again.Alias())
	_, nested := again.Expr().(Aliased)
	assert.False(t, nested, "re-aliasing replaces instead of nesting")
}

func TestComparable_Arity(t *testing.T) {
	tests := []struct {
		name  string
		cmp   Compare
		op    Operator
		right int
	}{
		{"equals", Col("a").Equals(1), OpEquals, 1},
		{"is null", Col("a").IsNull(), OpIsNull, 0},
		{"is not null", Col("a").IsNotNull(), OpIsNotNull, 0},
		{"between", Col("a").Between(1, 5), OpBetween, 2},
		{"not between", Col("a").NotBetween(1, 5), OpNotBetween, 2},
		{"in slice", Col("a").In([]int{1, 2, 3}), OpIn, 1},
		{"not in row", Col("a").NotIn(NewRow(1)), OpNotIn, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.op, tc.cmp.Operator())
			assert.Len(t, tc.cmp.Right(), tc.right)
			assert.Equal(t, tc.op.Arity(), tc.right)
		})
	}
}

func TestComparable_BetweenKeepsCallerOrder(t *testing.T) {
	c := Col("a").Between(10, 1)
	assert.Equal(t, []DatabaseValue{Integer(10), Integer(1)}, c.Right())
}

func TestComparable_InLiftsSliceToRow(t *testing.T) {
	c := Col("a").In([]string{"x", "y"})
	row, ok := c.Right()[0].(Row)
	require.True(t, ok)
	assert.Equal(t, []DatabaseValue{Text("x"), Text("y")}, row.Values())

	sub := From("t").Column("id")
	c = Col("a").In(sub)
	_, ok = c.Right()[0].(Select)
	assert.True(t, ok, "sub-selects stay sub-selects")
}

func TestComparable_LikeSugar(t *testing.T) {
	assert.Equal(t, []DatabaseValue{Text("%ali%")}, Col("n").Contains("ali").Right())
	assert.Equal(t, []DatabaseValue{Text("ali%")}, Col("n").StartsWith("ali").Right())
	assert.Equal(t, []DatabaseValue{Text("%ce")}, Col("n").EndsWith("ce").Right())
	assert.Equal(t, OpNotLike, Col("n").NotContains("x").Operator())
}

func TestOperator_ParseRoundTrip(t *testing.T) {
	for op := OpEquals; op <= OpNotBetween; op++ {
		parsed, ok := ParseOperator(op.String())
		require.True(t, ok, op.String())
		assert.Equal(t, op, parsed)
	}
	_, ok := ParseOperator("nope")
	assert.False(t, ok)
}

func TestFunction_Builders(t *testing.T) {
	count := Count()
	assert.Equal(t, []Expression{Asterisk()}, count.Args())
	assert.False(t, count.IsWindow())

	rn := RowNumber().PartitionBy(Col("dept")).OrderBy(Col("salary").Descend()).As("rank")
	assert.True(t, rn.IsWindow())
	assert.Equal(t, "rank", rn.Alias())
	assert.Len(t, rn.Partition(), 1)
	assert.Equal(t, Descending, rn.Ordering()[0].Order)

	cast := Cast(Col("age"), "TEXT")
	assert.Equal(t, "TEXT", cast.CastType())
	assert.Equal(t, FuncCast, cast.Kind())
}
