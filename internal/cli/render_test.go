package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCommand_SQLite(t *testing.T) {
	out, err := execute(t, "render", "testdata/queries/adults.yaml")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `SELECT "id", "name" FROM "people" WHERE "age" > ? AND "age" < ? ORDER BY "name" ASC`, lines[0])
	assert.Equal(t, "-- params: [18,65]", lines[1])
}

func TestRenderCommand_Postgres(t *testing.T) {
	out, err := execute(t, "render", "--dialect", "postgres", "testdata/queries/adults.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `"age" > $1 AND "age" < $2`)
}

func TestRenderCommand_CUE(t *testing.T) {
	out, err := execute(t, "render", "--dialect", "postgres", "testdata/queries/teams.cue")
	require.NoError(t, err)
	assert.Contains(t, out, `FULL OUTER JOIN "teams" AS "t" ON "t"."id" = "p"."team_id"`)
	assert.Contains(t, out, "-- params: []")
}

func TestRenderCommand_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "render", "testdata/queries/adults.yaml")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   RenderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "sqlite", resp.Data.Dialect)
	assert.Contains(t, resp.Data.SQL, `"age" > ?`)
	assert.JSONEq(t, `[18, 65]`, string(resp.Data.Params))
	assert.Len(t, resp.Data.Fingerprint, 36)

	again, err := execute(t, "--format", "json", "render", "testdata/queries/adults.yaml")
	require.NoError(t, err)
	assert.Equal(t, out, again, "rendering is deterministic")
}

func TestRenderCommand_UnsupportedDialect(t *testing.T) {
	out, err := execute(t, "render", "--dialect", "mysql", "testdata/queries/teams.cue")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E103")
}

func TestRenderCommand_InvalidQuery(t *testing.T) {
	out, err := execute(t, "render", "testdata/queries/missing_join.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E101")
	assert.NotContains(t, out, "SELECT")
}

func TestRenderCommand_MissingArgs(t *testing.T) {
	_, err := execute(t, "render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
