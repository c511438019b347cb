package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/sqlast/internal/ast"
	"github.com/roach88/sqlast/internal/connector"
	"github.com/roach88/sqlast/internal/querydoc"
	"github.com/roach88/sqlast/internal/visitor"
)

// Harness is the test execution engine.
// Every scenario runs against its own in-memory database.
type Harness struct {
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger passed down to each scenario's connector.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a harness. Logs are discarded unless WithLogger is given.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default harness.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return New().Run(ctx, scenario)
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Build the query document into a Select
// 2. Render it with the scenario's dialect
// 3. If rows or columns are expected, load fixtures into a fresh
// in-memory SQLite database and execute the query there
// 4. Compare everything against the expectations
//
// Build and render failures are recorded on the result, not returned:
// a scenario may expect them. The returned error is reserved for problems
// with the harness itself, such as fixtures that fail to load.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	dialect, err := visitor.DialectByName(scenario.Dialect)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.Dialect = dialect.Name()

	sel, err := buildQuery(scenario)
	if err != nil {
		result.Err = err
		h.finish(scenario, result)
		return result, nil
	}

	stmt, err := visitor.Render(sel, dialect)
	if err != nil {
		result.Err = err
		h.finish(scenario, result)
		return result, nil
	}
	result.SQL = stmt.SQL
	result.Params = stmt.Params

	if scenario.executes() {
		rs, err := h.execute(ctx, scenario.Fixtures, sel)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.Columns = rs.Columns
		result.Rows = rs.Rows
	}

	h.finish(scenario, result)
	return result, nil
}

func (h *Harness) finish(scenario *Scenario, result *Result) {
	for _, msg := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}
	h.logger.Debug("scenario finished",
		"name", scenario.Name,
		"dialect", result.Dialect,
		"pass", result.Pass,
		"errors", len(result.Errors))
}

func (h *Harness) execute(ctx context.Context, fixtures []string, sel ast.Select) (*connector.ResultSet, error) {
	conn, err := connector.Open(ctx, ":memory:", connector.WithLogger(h.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory database: %w", err)
	}
	defer conn.Close()

	if err := conn.ExecAll(ctx, fixtures); err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	rs, err := conn.Query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rs, nil
}

func buildQuery(scenario *Scenario) (ast.Select, error) {
	if scenario.QueryFile != "" {
		return querydoc.LoadQuery(scenario.QueryFile)
	}
	return scenario.Query.Build()
}
