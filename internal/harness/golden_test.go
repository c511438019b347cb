package harness

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlast/internal/ast"
)

// Golden files live in testdata/golden. To regenerate them, run:
//
//	go test ./internal/harness -run TestRunWithGolden_Scenarios -update
func TestRunWithGolden_Scenarios(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, result.Errors)
		})
	}
}

func TestAssertGolden_FromResult(t *testing.T) {
	result := NewResult()
	result.Dialect = "sqlite"
	result.SQL = `SELECT "id", "name" FROM "people" WHERE "age" > ? AND "age" < ? ORDER BY "name" ASC`
	result.Params = []ast.ParameterizedValue{ast.Integer(18), ast.Integer(65)}
	result.Columns = []string{"id", "name"}
	result.Rows = [][]ast.ParameterizedValue{{ast.Integer(1), ast.Text("alice")}}

	// Same content as the scenario run, so the same golden file applies.
	require.NoError(t, AssertGolden(t, "adults_by_name", result))
}

func TestSnapshot_Determinism(t *testing.T) {
	result := NewResult()
	result.Dialect = "postgres"
	result.SQL = `SELECT * FROM "t" WHERE "a" < $1`
	result.Params = []ast.ParameterizedValue{ast.Text("café"), ast.Null{}, ast.Boolean(true)}

	var first []byte
	for i := 0; i < 10; i++ {
		snap, err := NewSnapshot("det", result)
		require.NoError(t, err)
		data, err := snap.Marshal()
		require.NoError(t, err)
		if i == 0 {
			first = data
			continue
		}
		assert.Equal(t, first, data)
	}

	// No HTML escaping of comparison operators.
	assert.Contains(t, string(first), `\"a\" < $1`)
	assert.NotContains(t, string(first), `\u003c`)
	assert.NotContains(t, string(first), `"rows"`)
}

func TestSnapshot_Error(t *testing.T) {
	result := NewResult()
	result.Dialect = "mysql"
	result.Err = errors.New("boom")

	snap, err := NewSnapshot("failed", result)
	require.NoError(t, err)
	data, err := snap.Marshal()
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"scenario\": \"failed\",\n  \"dialect\": \"mysql\",\n  \"error\": \"boom\"\n}\n", string(data))
}

func TestSnapshot_RejectsUnencodableParams(t *testing.T) {
	result := NewResult()
	result.Params = []ast.ParameterizedValue{ast.Real(0)}
	result.Rows = [][]ast.ParameterizedValue{{ast.Array{ast.Integer(1)}}}

	_, err := NewSnapshot("ok", result)
	require.NoError(t, err)

	result.Params = []ast.ParameterizedValue{ast.Real(math.Inf(1))}
	_, err = NewSnapshot("inf", result)
	assert.Error(t, err)
}
