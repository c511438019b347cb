package connector

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/sqlast/internal/ast"
	"github.com/roach88/sqlast/internal/visitor"
)

// Connector executes finished queries against a SQLite database.
type Connector struct {
	db      *sql.DB
	dialect visitor.Dialect
	logger  *slog.Logger
}

type options struct {
	logger  *slog.Logger
	pragmas []string
}

// Option configures Open.
type Option func(*options)

// WithLogger routes statement logging to l. The default logger discards
// everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPragmas replaces the default pragmas applied after connecting.
func WithPragmas(pragmas ...string) Option {
	return func(o *options) {
		o.pragmas = pragmas
	}
}

var defaultPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// Open connects to the SQLite database at dsn. ":memory:" opens a private
// in-memory database that lives as long as the Connector.
//
// The pool is limited to one connection: SQLite allows a single writer,
// and an in-memory database exists only on the connection that created it.
func Open(ctx context.Context, dsn string, opts ...Option) (*Connector, error) {
	o := options{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		pragmas: defaultPragmas,
	}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, pragma := range o.pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	o.logger.Debug("database opened", "dsn", dsn)

	return &Connector{db: db, dialect: visitor.SQLite{}, logger: o.logger}, nil
}

// Close closes the database.
func (c *Connector) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (c *Connector) DB() *sql.DB {
	return c.db
}

// Dialect returns the dialect queries are rendered with.
func (c *Connector) Dialect() visitor.Dialect {
	return c.dialect
}

// Exec runs a statement that returns no rows, such as fixture DDL.
func (c *Connector) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.logger.Debug("exec", "sql", query, "args", len(args))
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return res, nil
}

// ExecAll runs statements in order inside one transaction.
func (c *Connector) ExecAll(ctx context.Context, statements []string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range statements {
		c.logger.Debug("exec", "index", i, "sql", stmt)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Query renders q with the SQLite dialect, executes it and scans every
// row.
func (c *Connector) Query(ctx context.Context, q ast.Query) (*ResultSet, error) {
	stmt, err := visitor.Render(q, c.dialect)
	if err != nil {
		return nil, err
	}
	return c.QueryStatement(ctx, stmt)
}

// QueryStatement executes an already rendered statement.
func (c *Connector) QueryStatement(ctx context.Context, stmt visitor.Statement) (*ResultSet, error) {
	args, err := BindArgs(stmt.Params)
	if err != nil {
		return nil, err
	}

	if c.logger.Enabled(ctx, slog.LevelDebug) {
		params, err := ast.MarshalParams(stmt.Params)
		if err != nil {
			return nil, fmt.Errorf("encode params: %w", err)
		}
		c.logger.Debug("query", "sql", stmt.SQL, "params", string(params))
	}

	rows, err := c.db.QueryContext(ctx, stmt.SQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	rs, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("query complete", "rows", len(rs.Rows))
	return rs, nil
}
