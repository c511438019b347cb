package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/roach88/sqlast/internal/ast"
	"github.com/roach88/sqlast/internal/connector"
	"github.com/roach88/sqlast/internal/visitor"
)

// ExecOptions holds flags for the exec command.
type ExecOptions struct {
	*RootOptions
	Database string
	Fixtures []string
}

// ExecResult is the JSON payload of the exec command. Each row is a
// canonical JSON array.
type ExecResult struct {
	SQL     string            `json:"sql"`
	Columns []string          `json:"columns"`
	Rows    []json.RawMessage `json:"rows"`
	Count   int               `json:"count"`
}

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExecOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "exec <query-file>",
		Short: "Run a query document against SQLite",
		Long: `Render a query document for SQLite and run it against a database.

Fixture files are plain SQL, executed in order inside one transaction before
the query runs. Use --db :memory: with fixtures for a throwaway database.

Example:
  sqlast exec query.yaml --db ./app.db
  sqlast exec query.cue --db :memory: --fixtures schema.sql --fixtures seed.sql`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringArrayVar(&opts.Fixtures, "fixtures", nil, "SQL file to run before the query (repeatable)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExec(ctx context.Context, opts *ExecOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	sel, err := LoadQuery(path)
	if err != nil {
		return loadFailure(formatter, err)
	}

	fixtures := make([]string, 0, len(opts.Fixtures))
	for _, f := range opts.Fixtures {
		data, err := os.ReadFile(f)
		if err != nil {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("fixture file not found: %s", f), nil)
			return WrapExitError(ExitCommandError, "failed to read fixtures", err)
		}
		fixtures = append(fixtures, string(data))
	}

	conn, err := connector.Open(ctx, opts.Database, connector.WithLogger(formatter.Logger()))
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer conn.Close()

	if len(fixtures) > 0 {
		if err := conn.ExecAll(ctx, fixtures); err != nil {
			_ = formatter.Error(ErrCodeFixtures, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to load fixtures", err)
		}
		formatter.VerboseLog("Loaded %d fixture file(s)", len(fixtures))
	}

	// Validation and rendering errors are query failures, not command
	// errors, so check before executing.
	if issues := ValidateQuery(sel, []visitor.Dialect{conn.Dialect()}); len(issues) > 0 {
		return outputValidationErrors(formatter, []string{conn.Dialect().Name()}, issues)
	}

	stmt, err := visitor.Render(sel, conn.Dialect())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to render query", err)
	}

	rs, err := conn.QueryStatement(ctx, stmt)
	if err != nil {
		_ = formatter.Error(ErrCodeQuery, err.Error(), nil)
		return WrapExitError(ExitCommandError, "query failed", err)
	}

	if formatter.Format == "json" {
		result := ExecResult{
			SQL:     stmt.SQL,
			Columns: rs.Columns,
			Rows:    make([]json.RawMessage, 0, rs.Len()),
			Count:   rs.Len(),
		}
		for _, row := range rs.Rows {
			data, err := ast.MarshalParams(row)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to encode row", err)
			}
			result.Rows = append(result.Rows, data)
		}
		return formatter.Success(result)
	}

	return writeTable(formatter.Writer, rs)
}

// writeTable formats a result set as a markdown table.
func writeTable(w io.Writer, rs *connector.ResultSet) error {
	if rs.Len() == 0 {
		_, err := fmt.Fprintf(w, "_Columns: %v_\n\n_No rows_\n", rs.Columns)
		return err
	}

	// AlignNone keeps the markdown separators plain.
	alignment := make([]tw.Align, len(rs.Columns))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(rs.Columns)

	for _, row := range rs.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatValue(v)
		}
		if err := table.Append(cells); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n_%d rows_\n", rs.Len())
	return err
}

// formatValue converts a value to its table cell text.
func formatValue(v ast.ParameterizedValue) string {
	switch val := v.(type) {
	case ast.Null:
		return "NULL"
	case ast.Integer:
		return strconv.FormatInt(int64(val), 10)
	case ast.Real:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case ast.Boolean:
		return strconv.FormatBool(bool(val))
	case ast.Text:
		return string(val)
	case ast.Enum:
		return string(val)
	case ast.Char:
		return string(rune(val))
	case ast.JSON:
		return string(val)
	case ast.UUID:
		return val.String()
	case ast.DateTime:
		return val.Time().Format(time.RFC3339Nano)
	}

	data, err := ast.MarshalValue(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
