package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlast/internal/ast"
	"github.com/roach88/sqlast/internal/visitor"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Dialect string
}

// RenderResult is the JSON payload of the render command.
type RenderResult struct {
	Dialect     string          `json:"dialect"`
	SQL         string          `json:"sql"`
	Params      json.RawMessage `json:"params"`
	Fingerprint string          `json:"fingerprint"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <query-file>",
		Short: "Render a query document as parameterized SQL",
		Long: `Render a query document as a SQL template and its ordered parameters.

The document may be YAML, JSON or CUE. Invalid queries are reported, never
rendered.

Examples:
  sqlast render query.yaml
  sqlast render query.cue --dialect postgres
  sqlast render query.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dialect, "dialect", "sqlite", "target dialect (sqlite|postgres|mysql)")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	dialect, err := visitor.DialectByName(opts.Dialect)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid dialect", err)
	}

	sel, err := LoadQuery(path)
	if err != nil {
		return loadFailure(formatter, err)
	}

	stmt, err := visitor.Render(sel, dialect)
	if err != nil {
		return outputValidationErrors(formatter, []string{dialect.Name()}, issuesOf(err, dialect.Name()))
	}

	params, err := ast.MarshalParams(stmt.Params)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode parameters", err)
	}
	fp, err := stmt.Fingerprint()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint statement", err)
	}
	formatter.VerboseLog("Fingerprint: %s", fp)

	if formatter.Format == "json" {
		return formatter.Success(RenderResult{
			Dialect:     dialect.Name(),
			SQL:         stmt.SQL,
			Params:      params,
			Fingerprint: fp.String(),
		})
	}

	fmt.Fprintln(formatter.Writer, stmt.SQL)
	fmt.Fprintf(formatter.Writer, "-- params: %s\n", params)
	return nil
}
