package harness

import "github.com/roach88/sqlast/internal/ast"

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// Dialect is the renderer the SQL and Params were produced by.
	Dialect string `json:"dialect"`

	// SQL is the rendered template. Empty when rendering failed.
	SQL string `json:"sql,omitempty"`

	// Params are the bound values in placeholder order.
	Params []ast.ParameterizedValue `json:"-"`

	// Columns and Rows hold the SQLite result when the scenario executes.
	Columns []string                   `json:"columns,omitempty"`
	Rows    [][]ast.ParameterizedValue `json:"-"`

	// Err is the build or render error, if any.
	Err error `json:"-"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Executed reports whether the query ran against a database.
func (r *Result) Executed() bool {
	return r.Columns != nil
}
