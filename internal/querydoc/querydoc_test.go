package querydoc

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlast/internal/ast"
	"github.com/roach88/sqlast/internal/visitor"
)

func render(t *testing.T, doc string) visitor.Statement {
	t.Helper()
	d, err := Parse([]byte(doc))
	require.NoError(t, err)
	sel, err := d.Build()
	require.NoError(t, err)
	stmt, err := visitor.Render(sel, visitor.SQLite{})
	require.NoError(t, err)
	return stmt
}

func TestParse_MinimalDocument(t *testing.T) {
	stmt := render(t, `from: users`)
	assert.Equal(t, `SELECT * FROM "users"`, stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestParse_FullDocument(t *testing.T) {
	stmt := render(t, `
from: {name: users, schema: app, alias: u}
distinct: true
columns:
  - u.id
  - {column: u.name, alias: who}
  - {count: ["*"], alias: n}
joins:
  - kind: left
    table: posts
    alias: p
    on: {column: p.user_id, op: eq, ref: u.id}
where:
  or:
    - {column: u.age, op: between, between: [18, 65]}
    - not: {column: u.name, op: starts_with, value: adm}
order: [u.name, {column: u.id, direction: desc}]
limit: 10
offset: 5
`)

	assert.Equal(t,
		`SELECT DISTINCT "u"."id", "u"."name" AS "who", COUNT(*) AS "n" FROM "app"."users" AS "u" `+
			`LEFT JOIN "posts" AS "p" ON "p"."user_id" = "u"."id" `+
			`WHERE "u"."age" BETWEEN ? AND ? OR NOT ("u"."name" LIKE ?) `+
			`ORDER BY "u"."name" ASC, "u"."id" DESC LIMIT ? OFFSET ?`,
		stmt.SQL)
	assert.Equal(t, []ast.ParameterizedValue{
		ast.Integer(18), ast.Integer(65), ast.Text("adm%"), ast.Integer(10), ast.Integer(5),
	}, stmt.Params)
}

func TestParse_Operators(t *testing.T) {
	tests := []struct {
		cond   string
		sql    string
		params []ast.ParameterizedValue
	}{
		{`{column: a, op: eq, value: 1}`, `"a" = ?`, []ast.ParameterizedValue{ast.Integer(1)}},
		{`{column: a, op: ne, value: x}`, `"a" <> ?`, []ast.ParameterizedValue{ast.Text("x")}},
		{`{column: a, op: le, value: 1.5}`, `"a" <= ?`, []ast.ParameterizedValue{ast.Real(1.5)}},
		{`{column: a, op: ge, value: true}`, `"a" >= ?`, []ast.ParameterizedValue{ast.Boolean(true)}},
		{`{column: a, op: eq, value: null}`, `"a" = ?`, []ast.ParameterizedValue{ast.Null{}}},
		{`{column: a, op: like, value: "a%"}`, `"a" LIKE ?`, []ast.ParameterizedValue{ast.Text("a%")}},
		{`{column: a, op: not_like, value: "a%"}`, `"a" NOT LIKE ?`, []ast.ParameterizedValue{ast.Text("a%")}},
		{`{column: a, op: contains, value: b}`, `"a" LIKE ?`, []ast.ParameterizedValue{ast.Text("%b%")}},
		{`{column: a, op: ends_with, value: b}`, `"a" LIKE ?`, []ast.ParameterizedValue{ast.Text("%b")}},
		{`{column: a, op: in, values: [1, 2]}`, `"a" IN (?, ?)`, []ast.ParameterizedValue{ast.Integer(1), ast.Integer(2)}},
		{`{column: a, op: not_in, values: []}`, `1=1`, nil},
		{`{column: a, op: in}`, `1=0`, nil},
		{`{column: a, op: is_null}`, `"a" IS NULL`, nil},
		{`{column: a, op: is_not_null}`, `"a" IS NOT NULL`, nil},
		{`{column: a, op: not_between, between: [1, 2]}`, `"a" NOT BETWEEN ? AND ?`, []ast.ParameterizedValue{ast.Integer(1), ast.Integer(2)}},
		{`{column: a, op: lt, ref: t.b}`, `"a" < "t"."b"`, nil},
		{`{column: a, op: in, select: {from: b, columns: [id], where: {column: x, op: eq, value: 1}}}`,
			`"a" IN (SELECT "id" FROM "b" WHERE "x" = ?)`, []ast.ParameterizedValue{ast.Integer(1)}},
	}

	for _, tc := range tests {
		t.Run(tc.cond, func(t *testing.T) {
			stmt := render(t, "from: t\nwhere: "+tc.cond)
			assert.Equal(t, `SELECT * FROM "t" WHERE `+tc.sql, stmt.SQL)
			assert.Equal(t, tc.params, stmt.Params)
		})
	}
}

func TestParse_Functions(t *testing.T) {
	stmt := render(t, `
from: employees
columns:
  - {aggregate_to_string: name, alias: names}
  - {cast: salary, type: TEXT}
  - {row_number: {partition_by: [dept], order: [{column: salary, direction: desc}]}, alias: rank}
  - {raw: "1", alias: one}
`)
	assert.Equal(t,
		`SELECT group_concat("name") AS "names", CAST("salary" AS TEXT), `+
			`ROW_NUMBER() OVER (PARTITION BY "dept" ORDER BY "salary" DESC) AS "rank", 1 AS "one" FROM "employees"`,
		stmt.SQL)
}

func TestParse_CrossJoin(t *testing.T) {
	stmt := render(t, `
from: a
joins: [{kind: cross, table: b}]
`)
	assert.Equal(t, `SELECT * FROM "a" CROSS JOIN "b"`, stmt.SQL)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	docs := []string{
		"form: users",
		"from: {name: users, alais: u}",
		"from: t\ncolumns: [{colum: a}]",
		"from: t\nwhere: {column: a, op: eq, valu: 1}",
		"from: t\norder: [{column: a, dir: desc}]",
	}
	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestBuild_ShapeErrors(t *testing.T) {
	tests := []struct {
		doc  string
		path string
	}{
		{"from: t\nwhere: {column: a, op: nope, value: 1}", "where"},
		{"from: t\nwhere: {column: a}", "where"},
		{"from: t\nwhere: {and: [{column: a, op: eq, value: 1}], column: b}", "where"},
		{"from: t\nwhere: {or: [{column: a, op: between, between: [1]}]}", "where.or[0]"},
		{"from: t\nwhere: {column: a, op: contains, value: 1}", "where"},
		{"from: t\nwhere: {column: a, op: eq, value: 1, ref: b}", "where"},
		{"from: t\njoins: [{kind: sideways, table: b}]", "joins[0]"},
		{"from: t\ncolumns: [{column: a, raw: b}]", "columns[0]"},
		{"from: t\ncolumns: [{cast: a}]", "columns[0]"},
		{"from: t\norder: [{column: a, direction: up}]", "order[0]"},
		{"from: t\nlimit: -1", "limit"},
	}

	for _, tc := range tests {
		t.Run(tc.doc, func(t *testing.T) {
			doc, err := Parse([]byte(tc.doc))
			require.NoError(t, err)

			_, err = doc.Build()
			require.Error(t, err)
			var docErr *Error
			require.True(t, errors.As(err, &docErr))
			assert.Equal(t, tc.path, docErr.Path)
		})
	}
}

func TestBuild_StructuralErrorsAreLeftToValidation(t *testing.T) {
	doc, err := Parse([]byte("from: a\njoins: [{table: b}]"))
	require.NoError(t, err)

	sel, err := doc.Build()
	require.NoError(t, err)
	assert.True(t, ast.IsMissingJoinCondition(ast.Validate(sel)))
}

func TestParseCUE(t *testing.T) {
	doc, err := ParseCUE([]byte(`
_min: 18
from: "users"
where: {column: "age", op: "ge", value: _min}
limit: 5
`), "inline.cue")
	require.NoError(t, err)

	sel, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, []ast.ParameterizedValue{ast.Integer(18), ast.Integer(5)}, ast.Parameters(sel))
}

func TestParseCUE_Errors(t *testing.T) {
	_, err := ParseCUE([]byte(`from: "a" & "b"`), "conflict.cue")
	assert.Error(t, err)

	_, err = ParseCUE([]byte(`from: string`), "open.cue")
	assert.Error(t, err, "non-concrete values are rejected")

	_, err = ParseCUE([]byte(`form: "users"`), "typo.cue")
	assert.Error(t, err, "unknown fields are rejected after export")
}

func TestLoad_AllFormatsAgree(t *testing.T) {
	var want visitor.Statement
	for i, name := range []string{"adults.yaml", "adults.json", "adults.cue"} {
		sel, err := LoadQuery(filepath.Join("testdata", name))
		require.NoError(t, err, name)

		stmt, err := visitor.Render(sel, visitor.SQLite{})
		require.NoError(t, err)

		if i == 0 {
			want = stmt
			assert.Equal(t, `SELECT "id", "name" FROM "people" WHERE "age" > ? AND "age" < ? ORDER BY "name" ASC`, stmt.SQL)
			continue
		}
		assert.Equal(t, want, stmt, name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}
