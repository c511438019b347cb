package connector

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlast/internal/ast"
	"github.com/roach88/sqlast/internal/eval"
	"github.com/roach88/sqlast/internal/testutil"
)

func openPeople(t *testing.T, opts ...Option) *Connector {
	t.Helper()
	ctx := context.Background()

	conn, err := Open(ctx, ":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, conn.ExecAll(ctx, testutil.PeopleFixture()))
	return conn
}

func names(t *testing.T, rs *ResultSet) []string {
	t.Helper()
	idx := -1
	for i, c := range rs.Columns {
		if c == "name" {
			idx = i
		}
	}
	require.NotEqual(t, -1, idx, "result has no name column")

	out := make([]string, 0, rs.Len())
	for _, row := range rs.Rows {
		out = append(out, string(row[idx].(ast.Text)))
	}
	return out
}

func TestQuery_WhereAndOrder(t *testing.T) {
	conn := openPeople(t)

	q := ast.From("people").
		Columns("id", "name", "age").
		AndWhere(ast.Col("age").GreaterThan(18)).
		AndWhere(ast.Col("age").LessThan(65)).
		OrderBy(ast.Col("name"))

	rs, err := conn.Query(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "age"}, rs.Columns)
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, []ast.ParameterizedValue{ast.Integer(1), ast.Text("alice"), ast.Integer(30)}, rs.Rows[0])
}

func TestQuery_NullsScanAsNull(t *testing.T) {
	conn := openPeople(t)

	rs, err := conn.Query(context.Background(), ast.From("people").Columns("age").AndWhere(ast.Col("name").Equals("bob")))
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, ast.Null{}, rs.Rows[0][0])
}

func TestQuery_JoinsAndPagination(t *testing.T) {
	conn := openPeople(t)

	q := ast.From(ast.NewTable("people").As("p")).
		Columns(ast.Col("p.name"), ast.Col("t.title").As("team")).
		LeftJoin(ast.NewTable("teams").As("t").On(ast.Col("t.id").Equals(ast.Col("p.team_id")))).
		OrderBy(ast.Col("p.id")).
		Limit(2).
		Offset(1)

	rs, err := conn.Query(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "team"}, rs.Columns)
	assert.Equal(t, [][]ast.ParameterizedValue{
		{ast.Text("bob"), ast.Null{}},
		{ast.Text("carol"), ast.Text("blue")},
	}, rs.Rows)
}

func TestQuery_OffsetWithoutLimit(t *testing.T) {
	conn := openPeople(t)

	rs, err := conn.Query(context.Background(), ast.From("people").Column("name").OrderBy(ast.Col("id")).Offset(3))
	require.NoError(t, err)
	assert.Equal(t, []string{"dave"}, names(t, rs))
}

func TestQuery_EmptyInAndSubSelect(t *testing.T) {
	conn := openPeople(t)
	ctx := context.Background()

	rs, err := conn.Query(ctx, ast.From("people").Column("name").AndWhere(ast.Col("id").In([]int{})))
	require.NoError(t, err)
	assert.Empty(t, rs.Rows)

	rs, err = conn.Query(ctx, ast.From("people").Column("name").AndWhere(ast.Col("id").NotIn([]int{})).OrderBy(ast.Col("id")))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, names(t, rs))

	blue := ast.From("teams").Column("id").AndWhere(ast.Col("title").Equals("blue"))
	rs, err = conn.Query(ctx, ast.From("people").Column("name").AndWhere(ast.Col("team_id").In(blue)).OrderBy(ast.Col("name").Descend()))
	require.NoError(t, err)
	assert.Equal(t, []string{"dave", "carol"}, names(t, rs))
}

func TestQuery_Functions(t *testing.T) {
	conn := openPeople(t)

	q := ast.From("people").
		Columns(
			ast.Count().As("n"),
			ast.AggregateToString(ast.Col("name")).As("names"),
		).
		AndWhere(ast.Col("team_id").Equals(2))

	rs, err := conn.Query(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, ast.Integer(2), rs.Rows[0][0])
	assert.Contains(t, string(rs.Rows[0][1].(ast.Text)), "carol")
}

func TestQuery_RendersMatchInMemoryEvaluation(t *testing.T) {
	conn := openPeople(t)
	ctx := context.Background()

	all, err := conn.Query(ctx, ast.From("people").Columns("id", "name", "age", "score").OrderBy(ast.Col("id")))
	require.NoError(t, err)

	rows := make([]eval.Row, 0, all.Len())
	for _, m := range all.Maps() {
		rows = append(rows, eval.Row(m))
	}

	conditions := []ast.ConditionTree{
		ast.Col("age").GreaterThan(18).And(ast.Col("score").GreaterThan(7)),
		ast.Col("age").GreaterThan(18).Or(ast.Col("name").StartsWith("b")),
		ast.Col("age").Between(17, 30).Not(),
		ast.Col("age").IsNull().Or(ast.Col("age").In([]int{17, 65})),
		ast.Any(ast.Col("name").Contains("a"), ast.Col("score").LessThan(7)).And(ast.Col("age").GreaterThanOrEquals(30).Not()),
		// row values with bob's NULL age: decided by score, then left unknown
		ast.NewRow(ast.Col("age"), ast.Col("score")).Equals(ast.NewRow(30, 9.5)).Not(),
		ast.Single(ast.NewRow(ast.Col("age"), ast.Col("score")).LessThan(ast.NewRow(40, 0))),
	}

	for _, cond := range conditions {
		want, err := eval.Filter(rows, cond)
		require.NoError(t, err)
		wantNames := make([]string, 0, len(want))
		for _, r := range want {
			wantNames = append(wantNames, string(r["name"].(ast.Text)))
		}

		rs, err := conn.Query(ctx, ast.From("people").Column("name").Where(cond).OrderBy(ast.Col("id")))
		require.NoError(t, err)
		assert.Equal(t, wantNames, names(t, rs))
	}
}

func TestQuery_InvalidQueryFails(t *testing.T) {
	conn := openPeople(t)

	_, err := conn.Query(context.Background(), ast.From("people").InnerJoin(ast.NewTable("teams").On(nil)))
	require.Error(t, err)
	assert.True(t, ast.IsMissingJoinCondition(err))
}

func TestQuery_ContextCancelled(t *testing.T) {
	conn := openPeople(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conn.Query(ctx, ast.From("people"))
	assert.Error(t, err)
}

func TestQuery_LogsStatementAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	conn := openPeople(t, WithLogger(logger))

	_, err := conn.Query(context.Background(), ast.From("people").AndWhere(ast.Col("name").Equals("alice")))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `WHERE \"name\" = ?`)
	assert.Contains(t, out, `params="[\"alice\"]"`)
}

func TestBindArgs(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	ts := time.Date(2024, 5, 6, 7, 8, 9, 500, time.FixedZone("X", 3600))

	args, err := BindArgs([]ast.ParameterizedValue{
		ast.Null{},
		ast.Integer(1),
		ast.Real(1.5),
		ast.Text("t"),
		ast.Enum("E"),
		ast.Boolean(true),
		ast.Char('c'),
		ast.UUID(id),
		ast.NewDateTime(ts),
		ast.JSON(`{"a":1}`),
	})
	require.NoError(t, err)

	assert.Equal(t, []any{
		nil,
		int64(1),
		1.5,
		"t",
		"E",
		true,
		"c",
		"6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"2024-05-06T06:08:09.000000500Z",
		`{"a":1}`,
	}, args)
}

func TestBindArgs_RejectsArrays(t *testing.T) {
	_, err := BindArgs([]ast.ParameterizedValue{ast.Integer(1), ast.Array{ast.Integer(2)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "param 2")
}

func TestQuery_TypedRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(ctx, `CREATE TABLE events (id TEXT, at TEXT, payload TEXT)`)
	require.NoError(t, err)

	ts := testutil.NewTimestamps()
	first, second := ts.Next(), ts.Next()
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	args, err := BindArgs([]ast.ParameterizedValue{ast.UUID(id), first, ast.JSON(`{"k":1}`)})
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `INSERT INTO events (id, at, payload) VALUES (?, ?, ?)`, args...)
	require.NoError(t, err)

	rs, err := conn.Query(ctx, ast.From("events").
		Columns("id", "payload").
		AndWhere(ast.Col("id").Equals(ast.UUID(id))).
		AndWhere(ast.Col("at").LessThan(second)))
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, ast.Text(id.String()), rs.Rows[0][0])
	assert.Equal(t, ast.Text(`{"k":1}`), rs.Rows[0][1])
}

func TestQuery_DateTimeRangesAcrossFractions(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(ctx, `CREATE TABLE events (name TEXT, at TEXT)`)
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []struct {
		name string
		at   time.Time
	}{
		{"whole", base},
		{"half", base.Add(500 * time.Millisecond)},
		{"nano", base.Add(time.Nanosecond)},
		{"next", base.Add(time.Second)},
	}
	for _, e := range events {
		args, err := BindArgs([]ast.ParameterizedValue{ast.Text(e.name), ast.NewDateTime(e.at)})
		require.NoError(t, err)
		_, err = conn.Exec(ctx, `INSERT INTO events (name, at) VALUES (?, ?)`, args...)
		require.NoError(t, err)
	}

	rs, err := conn.Query(ctx, ast.From("events").
		Column("name").
		AndWhere(ast.Col("at").GreaterThan(base)).
		OrderBy(ast.Col("at")))
	require.NoError(t, err)
	assert.Equal(t, []string{"nano", "half", "next"}, names(t, rs))

	rs, err = conn.Query(ctx, ast.From("events").
		Column("name").
		AndWhere(ast.Col("at").Between(base, base.Add(time.Second-1))).
		OrderBy(ast.Col("at").Descend()))
	require.NoError(t, err)
	assert.Equal(t, []string{"half", "nano", "whole"}, names(t, rs))
}
