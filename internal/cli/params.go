package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlast/internal/ast"
)

// ParamsResult is the JSON payload of the params command.
type ParamsResult struct {
	Count  int             `json:"count"`
	Params json.RawMessage `json:"params"`
}

// NewParamsCommand creates the params command.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params <query-file>",
		Short: "List the parameters a query binds, in order",
		Long: `List the values a query binds, in placeholder order, as canonical JSON.

Parameters are extracted from the query itself, independent of any dialect.
Structural errors are not checked; use validate for that.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParams(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runParams(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	sel, err := LoadQuery(path)
	if err != nil {
		return loadFailure(formatter, err)
	}

	params := ast.Parameters(sel)
	data, err := ast.MarshalParams(params)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to encode parameters", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ParamsResult{Count: len(params), Params: data})
	}

	fmt.Fprintln(formatter.Writer, string(data))
	return nil
}
