// Package connector runs finished queries against SQLite.
//
// A Connector renders a query with the SQLite dialect, binds its parameters
// in placeholder order and scans the result back into the value model:
//
//	conn, err := connector.Open(ctx, ":memory:")
//	...
//	rs, err := conn.Query(ctx, ast.From("people").AndWhere(ast.Col("age").GreaterThan(18)))
//
// Parameter binding is positional and never interpolates values into the
// template. Values SQLite cannot represent natively are bound as text (see
// BindArgs); arrays are rejected.
//
// Logging goes through a *slog.Logger supplied with WithLogger. Statements
// and their canonical parameters are logged at debug level.
package connector
