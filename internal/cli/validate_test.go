package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlast/internal/ast"
	"github.com/roach88/sqlast/internal/visitor"
)

func TestValidateCommand_Valid(t *testing.T) {
	out, err := execute(t, "validate", "testdata/queries/adults.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Query valid")
}

func TestValidateCommand_ValidJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", "--dialect", "all", "testdata/queries/adults.yaml")
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, []string{"sqlite", "postgres", "mysql"}, resp.Data.Dialects)
}

func TestValidateCommand_MissingJoinConditions(t *testing.T) {
	out, err := execute(t, "validate", "testdata/queries/missing_join.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "2 error(s)")

	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "joins[0]")
	assert.Contains(t, out, "joins[1]")
	assert.Contains(t, out, "E101")
}

func TestValidateCommand_MissingJoinConditionsJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", "testdata/queries/missing_join.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  CLIError         `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E101", resp.Error.Code)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 2)
	for _, issue := range resp.Data.Errors {
		assert.Equal(t, "MISSING_JOIN_CONDITION", issue.Kind)
		assert.Empty(t, issue.Dialect, "structural issues are dialect independent")
	}
}

func TestValidateCommand_DialectSpecific(t *testing.T) {
	// FULL JOIN is fine in SQLite and Postgres but not MySQL.
	out, err := execute(t, "--format", "json", "validate", "--dialect", "all", "testdata/queries/teams.cue")
	require.Error(t, err)

	var resp struct {
		Data ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Errors, 1)

	issue := resp.Data.Errors[0]
	assert.Equal(t, "E103", issue.Code)
	assert.Equal(t, "mysql", issue.Dialect)
	assert.Equal(t, "joins[0]", issue.Path)

	_, err = execute(t, "validate", "--dialect", "postgres", "testdata/queries/teams.cue")
	assert.NoError(t, err)
}

func TestValidateCommand_LoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code string
	}{
		{"not_found", "testdata/queries/nope.yaml", ErrCodeNotFound},
		{"directory", "testdata/queries", ErrCodeNotFound},
		{"unknown_field", "testdata/queries/unknown_field.yaml", ErrCodeParseFailed},
		{"unknown_operator", "testdata/queries/bad_operator.yaml", ErrCodeBuildFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "--format", "json", "validate", tt.path)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestValidateCommand_UnknownDialect(t *testing.T) {
	_, err := execute(t, "validate", "--dialect", "oracle", "testdata/queries/adults.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateQuery_ArityIssue(t *testing.T) {
	sel := ast.From("people").AndWhere(ast.NewCompare(ast.OpBetween, ast.Col("age"), ast.Integer(1)))

	issues := ValidateQuery(sel, visitor.Dialects())
	require.NotEmpty(t, issues)
	assert.Equal(t, ErrCodeArity, issues[0].Code)
}

func TestMapASTErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeMissingJoin, MapASTErrorCode(ast.ErrCodeMissingJoinCondition))
	assert.Equal(t, ErrCodeArity, MapASTErrorCode(ast.ErrCodeArityMismatch))
	assert.Equal(t, ErrCodeUnsupported, MapASTErrorCode(ast.ErrCodeUnsupportedOperator))
	assert.Equal(t, ErrCodeGeneric, MapASTErrorCode(ast.ErrorCode("SOMETHING_ELSE")))
}
