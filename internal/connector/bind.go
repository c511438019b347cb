package connector

import (
	"database/sql"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/roach88/sqlast/internal/ast"
)

// BindArgs converts parameters to driver arguments for SQLite.
//
// SQLite has no array, UUID, timestamp or JSON types, so:
//   - Array is rejected
//   - UUID binds as its canonical text form
//   - DateTime binds as fixed-width RFC 3339 text in UTC, so range
//     comparisons on stored text follow time order
//   - JSON binds as text
//   - Char and Enum bind as text
func BindArgs(params []ast.ParameterizedValue) ([]any, error) {
	args := make([]any, len(params))
	for i, p := range params {
		arg, err := bindValue(p)
		if err != nil {
			return nil, fmt.Errorf("param %d: %w", i+1, err)
		}
		args[i] = arg
	}
	return args, nil
}

func bindValue(v ast.ParameterizedValue) (any, error) {
	switch val := v.(type) {
	case ast.Null:
		return nil, nil
	case ast.Integer:
		return int64(val), nil
	case ast.Real:
		return float64(val), nil
	case ast.Text:
		return string(val), nil
	case ast.Enum:
		return string(val), nil
	case ast.Boolean:
		return bool(val), nil
	case ast.Char:
		return string(rune(val)), nil
	case ast.UUID:
		return val.String(), nil
	case ast.DateTime:
		return val.Text(), nil
	case ast.JSON:
		return string(val), nil
	case ast.Array:
		return nil, fmt.Errorf("array parameters are not supported by sqlite")
	default:
		return nil, fmt.Errorf("unsupported parameter type: %T", v)
	}
}

// ResultSet holds the columns and rows of an executed query.
type ResultSet struct {
	Columns []string
	Rows    [][]ast.ParameterizedValue
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	return len(rs.Rows)
}

// Maps returns each row keyed by column name.
func (rs *ResultSet) Maps() []map[string]ast.ParameterizedValue {
	out := make([]map[string]ast.ParameterizedValue, len(rs.Rows))
	for i, row := range rs.Rows {
		m := make(map[string]ast.ParameterizedValue, len(rs.Columns))
		for j, col := range rs.Columns {
			m[col] = row[j]
		}
		out[i] = m
	}
	return out
}

func scanRows(rows *sql.Rows) (*ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	rs := &ResultSet{Columns: cols, Rows: [][]ast.ParameterizedValue{}}
	for rows.Next() {
		raw := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		row := make([]ast.ParameterizedValue, len(cols))
		for i, v := range raw {
			pv, err := scanValue(v)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", cols[i], err)
			}
			row[i] = pv
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return rs, nil
}

// scanValue maps a driver value back into the value model.
func scanValue(v any) (ast.ParameterizedValue, error) {
	switch val := v.(type) {
	case nil:
		return ast.Null{}, nil
	case int64:
		return ast.Integer(val), nil
	case float64:
		return ast.Real(val), nil
	case bool:
		return ast.Boolean(val), nil
	case string:
		return ast.Text(val), nil
	case []byte:
		if !utf8.Valid(val) {
			return nil, fmt.Errorf("binary column values are not supported")
		}
		return ast.Text(val), nil
	case time.Time:
		return ast.NewDateTime(val), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", v)
	}
}
