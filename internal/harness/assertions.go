package harness

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/roach88/sqlast/internal/ast"
)

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Expectation being checked: sql, params, columns, rows, error
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	SQL      string // Rendered template for context, if any
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.SQL != "" {
		fmt.Fprintf(&buf, "\nRendered:\n  %s\n", e.SQL)
	}

	return buf.String()
}

// EvaluateExpectations checks result against expect.
// Returns a slice of error messages for failed expectations.
func EvaluateExpectations(result *Result, expect Expectation) []string {
	var errors []string
	add := func(err error) {
		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	if expect.Error != "" {
		add(assertError(result, expect.Error))
		return errors
	}
	if result.Err != nil {
		return []string{fmt.Sprintf("unexpected error: %v", result.Err)}
	}

	if expect.SQL != "" {
		add(assertSQL(result, expect.SQL))
	}
	if expect.Params != nil {
		add(assertParams(result, expect.Params))
	}
	if expect.Columns != nil {
		add(assertColumns(result, expect.Columns))
	}
	if expect.Rows != nil {
		add(assertRows(result, expect.Rows))
	}
	return errors
}

func assertError(result *Result, want string) error {
	if result.Err == nil {
		return &AssertionError{Type: "error", Expected: want, Actual: "no error", SQL: result.SQL}
	}
	if string(ast.ErrorCodeOf(result.Err)) == want || strings.Contains(result.Err.Error(), want) {
		return nil
	}
	return &AssertionError{Type: "error", Expected: want, Actual: result.Err.Error()}
}

func assertSQL(result *Result, want string) error {
	if result.SQL == want {
		return nil
	}
	return &AssertionError{Type: "sql", Expected: want, Actual: result.SQL}
}

func assertParams(result *Result, want []any) error {
	expected := make([]ast.ParameterizedValue, len(want))
	for i, v := range want {
		expected[i] = ast.ValueOf(v)
	}
	if slices.EqualFunc(expected, result.Params, ast.ValuesEqual) {
		return nil
	}
	exp, act := formatValues(expected), formatValues(result.Params)
	if exp == act {
		exp, act = exp+" "+formatKinds(expected), act+" "+formatKinds(result.Params)
	}
	return &AssertionError{
		Type:     "params",
		Expected: exp,
		Actual:   act,
		SQL:      result.SQL,
	}
}

func assertColumns(result *Result, want []string) error {
	if slices.Equal(want, result.Columns) {
		return nil
	}
	return &AssertionError{
		Type:     "columns",
		Expected: fmt.Sprintf("%v", want),
		Actual:   fmt.Sprintf("%v", result.Columns),
		SQL:      result.SQL,
	}
}

func assertRows(result *Result, want [][]any) error {
	if len(want) != len(result.Rows) {
		return &AssertionError{
			Type:     "rows",
			Expected: fmt.Sprintf("%d rows", len(want)),
			Actual:   fmt.Sprintf("%d rows", len(result.Rows)),
			SQL:      result.SQL,
		}
	}

	for i, row := range want {
		expected := make([]ast.ParameterizedValue, len(row))
		for j, v := range row {
			expected[j] = ast.ValueOf(v)
		}
		if !rowsMatch(expected, result.Rows[i]) {
			return &AssertionError{
				Type:     fmt.Sprintf("rows[%d]", i),
				Expected: formatValues(expected),
				Actual:   formatValues(result.Rows[i]),
				SQL:      result.SQL,
			}
		}
	}
	return nil
}

func rowsMatch(expected, actual []ast.ParameterizedValue) bool {
	if len(expected) != len(actual) {
		return false
	}
	for i := range expected {
		if !valuesEqual(expected[i], actual[i]) {
			return false
		}
	}
	return true
}

// valuesEqual compares an expected row value against one read back from
// SQLite. Handles the type drift of YAML and SQLite: numbers compare by
// value across Integer and Real, and booleans stored as 0/1 match.
// Params never pass through SQLite and are compared with ast.ValuesEqual.
func valuesEqual(expected, actual ast.ParameterizedValue) bool {
	if ef, ok := number(expected); ok {
		if af, ok := number(actual); ok {
			return ef == af || (math.IsNaN(ef) && math.IsNaN(af))
		}
		return false
	}

	if eb, ok := expected.(ast.Boolean); ok {
		if ai, ok := actual.(ast.Integer); ok {
			return bool(eb) == (ai != 0)
		}
	}

	return ast.ValuesEqual(expected, actual)
}

func number(v ast.ParameterizedValue) (float64, bool) {
	switch n := v.(type) {
	case ast.Integer:
		return float64(n), true
	case ast.Real:
		return float64(n), true
	}
	return 0, false
}

func formatValues(vals []ast.ParameterizedValue) string {
	data, err := ast.MarshalParams(vals)
	if err != nil {
		return fmt.Sprintf("%v", vals)
	}
	return string(data)
}

// formatKinds lists the variant of each value, for params whose JSON
// renderings coincide.
func formatKinds(vals []ast.ParameterizedValue) string {
	kinds := make([]string, len(vals))
	for i, v := range vals {
		kinds[i] = strings.TrimPrefix(fmt.Sprintf("%T", v), "ast.")
	}
	return "(" + strings.Join(kinds, ", ") + ")"
}
