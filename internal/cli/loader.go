package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/sqlast/internal/ast"
	"github.com/roach88/sqlast/internal/querydoc"
)

// Error codes for CLI error output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeParseFailed = "E002" // Document could not be decoded or evaluated
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // Document shape error (unknown operator, bad bounds)

	// Query structure errors
	ErrCodeMissingJoin = "E101" // Join without an ON condition
	ErrCodeArity       = "E102" // Operand count disagrees with operator
	ErrCodeUnsupported = "E103" // Dialect cannot express a construct

	// Execution errors
	ErrCodeDatabase = "E201" // Database could not be opened
	ErrCodeFixtures = "E202" // Fixture SQL failed
	ErrCodeQuery    = "E203" // Query execution failed
)

// LoadError represents an error that occurred while loading a query
// document.
type LoadError struct {
	Code    string
	Message string
	Path    string // Location inside the document, if known
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadQuery reads a query document and builds its Select. Errors are
// always *LoadError. Structural validation is not performed.
func LoadQuery(path string) (ast.Select, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ast.Select{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("query document not found: %s", path)}
	}
	if err != nil {
		return ast.Select{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing query document: %v", err)}
	}
	if info.IsDir() {
		return ast.Select{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a file: %s", path)}
	}

	doc, err := querydoc.Load(path)
	if err != nil {
		return ast.Select{}, &LoadError{Code: ErrCodeParseFailed, Message: err.Error()}
	}

	sel, err := doc.Build()
	if err != nil {
		var docErr *querydoc.Error
		if errors.As(err, &docErr) {
			return ast.Select{}, &LoadError{Code: ErrCodeBuildFailed, Message: docErr.Message, Path: docErr.Path}
		}
		return ast.Select{}, &LoadError{Code: ErrCodeBuildFailed, Message: err.Error()}
	}
	return sel, nil
}

// MapASTErrorCode maps a structural error code to a CLI error code.
func MapASTErrorCode(code ast.ErrorCode) string {
	switch code {
	case ast.ErrCodeMissingJoinCondition:
		return ErrCodeMissingJoin
	case ast.ErrCodeArityMismatch:
		return ErrCodeArity
	case ast.ErrCodeUnsupportedOperator:
		return ErrCodeUnsupported
	}
	return ErrCodeGeneric
}

// loadFailure reports a load error and converts it to a command error.
func loadFailure(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		loadErr = &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}

	var details any
	if loadErr.Path != "" {
		details = map[string]string{"path": loadErr.Path}
	}
	_ = formatter.Error(loadErr.Code, loadErr.Message, details)
	return WrapExitError(ExitCommandError, "failed to load query", loadErr)
}
