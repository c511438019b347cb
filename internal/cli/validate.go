package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlast/internal/ast"
	"github.com/roach88/sqlast/internal/visitor"
)

// ValidationIssue is one structural problem found in a query.
type ValidationIssue struct {
	Code     string `json:"code"`               // CLI code, e.g. "E101"
	Kind     string `json:"kind"`               // structural code, e.g. "MISSING_JOIN_CONDITION"
	Message  string `json:"message"`            // human-readable message
	Path     string `json:"path,omitempty"`     // location in the query
	Operator string `json:"operator,omitempty"` // offending operator or join kind
	Dialect  string `json:"dialect,omitempty"`  // set for dialect-specific issues
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Dialects []string          `json:"dialects"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Dialect string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <query-file>",
		Short: "Check a query document for structural errors",
		Long: `Check a query document without executing it.

Reports every structural problem at once: joins without an ON condition,
comparisons with the wrong number of operands, and constructs the target
dialect cannot express. Use --dialect all to check every built-in dialect.

Exit codes:
  0 - Query is valid
  1 - Query has structural errors
  2 - Command error (file not found, unparsable document)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dialect, "dialect", "sqlite", "target dialect (sqlite|postgres|mysql|all)")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	dialects, err := resolveDialects(opts.Dialect)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid dialect", err)
	}

	sel, err := LoadQuery(path)
	if err != nil {
		return loadFailure(formatter, err)
	}
	formatter.VerboseLog("Loaded %s", path)

	names := make([]string, len(dialects))
	for i, d := range dialects {
		names[i] = d.Name()
	}

	issues := ValidateQuery(sel, dialects)
	if len(issues) > 0 {
		return outputValidationErrors(formatter, names, issues)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Dialects: names})
	}
	fmt.Fprintln(formatter.Writer, "✓ Query valid")
	return nil
}

// ValidateQuery collects every structural issue in q. Dialect checks run
// only when the query is structurally sound, since renderers refuse
// invalid queries outright.
func ValidateQuery(q ast.Query, dialects []visitor.Dialect) []ValidationIssue {
	if err := ast.Validate(q); err != nil {
		return issuesOf(err, "")
	}

	var issues []ValidationIssue
	for _, d := range dialects {
		if _, err := visitor.Render(q, d); err != nil {
			issues = append(issues, issuesOf(err, d.Name())...)
		}
	}
	return issues
}

func resolveDialects(name string) ([]visitor.Dialect, error) {
	if name == "all" {
		return visitor.Dialects(), nil
	}
	d, err := visitor.DialectByName(name)
	if err != nil {
		return nil, err
	}
	return []visitor.Dialect{d}, nil
}

// issuesOf flattens a joined error tree into issues, one per *ast.Error.
func issuesOf(err error, dialect string) []ValidationIssue {
	var issues []ValidationIssue
	for _, e := range flatten(err) {
		var astErr *ast.Error
		if !errors.As(e, &astErr) {
			issues = append(issues, ValidationIssue{
				Code:    ErrCodeGeneric,
				Message: e.Error(),
				Dialect: dialect,
			})
			continue
		}
		issues = append(issues, ValidationIssue{
			Code:     MapASTErrorCode(astErr.Code),
			Kind:     string(astErr.Code),
			Message:  astErr.Message,
			Path:     astErr.Path,
			Operator: astErr.Operator,
			Dialect:  dialect,
		})
	}
	return issues
}

func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, dialects []string, issues []ValidationIssue) error {
	if formatter.Format == "json" {
		err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Dialects: dialects, Errors: issues},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		})
		if err != nil {
			return err
		}
		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		where := issue.Path
		if issue.Dialect != "" {
			where = fmt.Sprintf("%s [%s]", where, issue.Dialect)
		}
		if where != "" {
			fmt.Fprintln(formatter.Writer, where)
		}
		if issue.Operator != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s (%s)\n\n", issue.Code, issue.Message, issue.Operator)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
		}
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
}
