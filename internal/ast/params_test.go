package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParameters_ClauseOrder(t *testing.T) {
	sel := From("users").
		Value(Alias(Col("role").Equals("admin"), "is_admin")).
		InnerJoin(NewTable("posts").On(Col("posts.user_id").Equals(Col("users.id")).And(Col("posts.kind").Equals("note")))).
		AndWhere(Col("age").Between(18, 65)).
		OrderBy(Cast(Col("score"), "INTEGER").Descend()).
		Limit(5).
		Offset(10)

	want := []ParameterizedValue{
		Text("admin"),
		Text("note"),
		Integer(18), Integer(65),
		Integer(5),
		Integer(10),
	}
	assert.Equal(t, want, Parameters(sel))
}

func TestParameters_JoinsBeforeWhereRegardlessOfCallOrder(t *testing.T) {
	sel := From("a").
		AndWhere(Col("a.x").Equals(1)).
		LeftJoin(NewTable("b").On(Col("b.y").Equals(2)))

	assert.Equal(t, []ParameterizedValue{Integer(2), Integer(1)}, Parameters(sel))
}

func TestParameters_NestedTreesLeftToRight(t *testing.T) {
	tree := Col("a").Equals(1).
		Or(Col("b").Equals(2).And(Col("c").Equals(3))).
		And(Col("d").Equals(4).Not())

	sel := From("t").Where(tree)
	assert.Equal(t, []ParameterizedValue{Integer(1), Integer(2), Integer(3), Integer(4)}, Parameters(sel))
}

func TestParameters_RowsAndSubSelects(t *testing.T) {
	sub := From("banned").Column("id").AndWhere(Col("reason").Equals("spam"))

	sel := From("users").
		AndWhere(NewRow(Col("a"), Col("b")).In([]Row{NewRow(1, 2), NewRow(3, 4)})).
		AndWhere(Col("id").NotIn(sub)).
		AndWhere(Col("name").IsNull())

	want := []ParameterizedValue{
		Integer(1), Integer(2), Integer(3), Integer(4),
		Text("spam"),
	}
	assert.Equal(t, want, Parameters(sel))
}

func TestParameters_LeftOperandBeforeRight(t *testing.T) {
	sel := NewSelect().Value(OperandOf(7).LessThan(Col("x")))
	assert.Equal(t, []ParameterizedValue{Integer(7)}, Parameters(sel))

	sel = NewSelect().Value(OperandOf("a").Equals("b"))
	assert.Equal(t, []ParameterizedValue{Text("a"), Text("b")}, Parameters(sel))
}

func TestParameters_EmptyInBindsNothing(t *testing.T) {
	c := OperandOf(1).In([]int{})
	assert.True(t, IsEmptySet(c))
	assert.Empty(t, ExpressionParameters(c))

	assert.False(t, IsEmptySet(Col("a").In([]int{1})))
	assert.False(t, IsEmptySet(Col("a").Equals(1)))
}

func TestParameters_ArrayIsOneParameter(t *testing.T) {
	sel := From("t").AndWhere(Col("tags").Equals(NewArray("a", "b")))
	assert.Equal(t, []ParameterizedValue{Array{Text("a"), Text("b")}}, Parameters(sel))
}

func TestParameters_FunctionArgumentsAndWindowOrdering(t *testing.T) {
	sel := From("t").
		Value(Count(Col("id")).GreaterThan(3)).
		Value(RowNumber().OrderBy(Asc(Integer(1))))

	assert.Equal(t, []ParameterizedValue{Integer(3), Integer(1)}, Parameters(sel))
}

func TestParameters_NoParameters(t *testing.T) {
	assert.Empty(t, Parameters(From("t")))
	assert.Empty(t, Parameters(From("t").Value(Raw("now()"))))
}

func TestParameters_PointerQuery(t *testing.T) {
	sel := From("t").AndWhere(Col("a").Equals(1))
	assert.Equal(t, []ParameterizedValue{Integer(1)}, Parameters(&sel))
}
