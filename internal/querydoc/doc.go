// Package querydoc decodes declarative query documents into ast.Select
// values.
//
// Documents are YAML, JSON or CUE. CUE is evaluated and exported to JSON,
// then decoded by the same strict decoder, so every format accepts exactly
// the same fields. Unknown fields and unknown operators are errors.
//
// Condition operators:
//
//	eq ne lt le gt ge          binary comparison against value or ref
//	like not_like              pattern in value
//	contains starts_with ends_with
//	in not_in                  values list, or a nested select
//	is_null is_not_null
//	between not_between        two bounds in between
package querydoc
