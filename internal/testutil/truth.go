package testutil

import "github.com/roach88/sqlast/internal/ast"

// TruthValues are the three values a boolean column can hold.
var TruthValues = []ast.ParameterizedValue{ast.Boolean(false), ast.Boolean(true), ast.Null{}}

// TruthAssignments returns every assignment of TruthValues to the named
// columns, 3^len(names) rows in a fixed order.
func TruthAssignments(names ...string) []map[string]ast.ParameterizedValue {
	rows := []map[string]ast.ParameterizedValue{{}}
	for _, name := range names {
		next := make([]map[string]ast.ParameterizedValue, 0, len(rows)*len(TruthValues))
		for _, row := range rows {
			for _, v := range TruthValues {
				r := make(map[string]ast.ParameterizedValue, len(row)+1)
				for k, existing := range row {
					r[k] = existing
				}
				r[name] = v
				next = append(next, r)
			}
		}
		rows = next
	}
	return rows
}

// Predicate returns the comparison "name = true", the usual way to lift a
// boolean column into a condition.
func Predicate(name string) ast.Compare {
	return ast.Col(name).Equals(true)
}
