package visitor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/sqlast/internal/ast"
)

// Dialect captures everything that differs between SQL backends. The
// renderer itself is dialect-agnostic.
type Dialect interface {
	// Name is the short dialect name ("sqlite", "postgres", "mysql").
	Name() string

	// Placeholder returns the marker for the i-th parameter, 1-based.
	Placeholder(i int) string

	// QuoteIdentifier quotes a single identifier part.
	QuoteIdentifier(name string) string

	// SupportsOperator reports whether op can be rendered.
	SupportsOperator(op ast.Operator) bool

	// SupportsJoin reports whether the join kind can be rendered.
	SupportsJoin(kind ast.JoinKind) bool

	// AggregateToString wraps an already rendered argument in the
	// dialect's string aggregation function.
	AggregateToString(arg string) string

	// Pagination renders the LIMIT/OFFSET tail from already rendered
	// placeholders. An empty string means the clause is absent.
	Pagination(limit, offset string) string
}

// DialectByName resolves a dialect from its short name.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "", "sqlite", "sqlite3":
		return SQLite{}, nil
	case "postgres", "postgresql", "pg":
		return Postgres{}, nil
	case "mysql":
		return MySQL{}, nil
	}
	return nil, fmt.Errorf("unknown dialect %q", name)
}

// Dialects returns every built-in dialect.
func Dialects() []Dialect {
	return []Dialect{SQLite{}, Postgres{}, MySQL{}}
}

func quoteWith(name string, q string) string {
	return q + strings.ReplaceAll(name, q, q+q) + q
}

// SQLite renders ? placeholders and double-quoted identifiers.
type SQLite struct{}

func (SQLite) Name() string                       { return "sqlite" }
func (SQLite) Placeholder(int) string             { return "?" }
func (SQLite) QuoteIdentifier(name string) string { return quoteWith(name, `"`) }
func (SQLite) SupportsOperator(ast.Operator) bool { return true }
func (SQLite) SupportsJoin(ast.JoinKind) bool     { return true }
func (SQLite) AggregateToString(arg string) string {
	return "group_concat(" + arg + ")"
}

// Pagination uses LIMIT -1 when only an offset is set; SQLite has no
// standalone OFFSET.
func (SQLite) Pagination(limit, offset string) string {
	switch {
	case limit != "" && offset != "":
		return "LIMIT " + limit + " OFFSET " + offset
	case limit != "":
		return "LIMIT " + limit
	case offset != "":
		return "LIMIT -1 OFFSET " + offset
	}
	return ""
}

// Postgres renders $n placeholders and double-quoted identifiers.
type Postgres struct{}

func (Postgres) Name() string                       { return "postgres" }
func (Postgres) Placeholder(i int) string           { return "$" + strconv.Itoa(i) }
func (Postgres) QuoteIdentifier(name string) string { return quoteWith(name, `"`) }
func (Postgres) SupportsOperator(ast.Operator) bool { return true }
func (Postgres) SupportsJoin(ast.JoinKind) bool     { return true }
func (Postgres) AggregateToString(arg string) string {
	return "string_agg(CAST(" + arg + " AS TEXT), ',')"
}

func (Postgres) Pagination(limit, offset string) string {
	switch {
	case limit != "" && offset != "":
		return "LIMIT " + limit + " OFFSET " + offset
	case limit != "":
		return "LIMIT " + limit
	case offset != "":
		return "OFFSET " + offset
	}
	return ""
}

// mysqlMaxRows is the documented way to ask MySQL for "all remaining rows".
const mysqlMaxRows = "18446744073709551615"

// MySQL renders ? placeholders and backtick-quoted identifiers. It has no
// FULL OUTER JOIN.
type MySQL struct{}

func (MySQL) Name() string                       { return "mysql" }
func (MySQL) Placeholder(int) string             { return "?" }
func (MySQL) QuoteIdentifier(name string) string { return quoteWith(name, "`") }
func (MySQL) SupportsOperator(ast.Operator) bool { return true }
func (MySQL) SupportsJoin(kind ast.JoinKind) bool {
	return kind != ast.JoinFull
}
func (MySQL) AggregateToString(arg string) string {
	return "GROUP_CONCAT(" + arg + ")"
}

func (MySQL) Pagination(limit, offset string) string {
	switch {
	case limit != "" && offset != "":
		return "LIMIT " + limit + " OFFSET " + offset
	case limit != "":
		return "LIMIT " + limit
	case offset != "":
		return "LIMIT " + mysqlMaxRows + " OFFSET " + offset
	}
	return ""
}
