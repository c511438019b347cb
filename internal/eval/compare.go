package eval

import (
	"cmp"
	"fmt"

	"github.com/roach88/sqlast/internal/ast"
)

func isNull(v ast.ParameterizedValue) bool {
	_, ok := v.(ast.Null)
	return ok
}

func compare(c ast.Compare, row Row) (Truth, error) {
	op := c.Operator()

	if ast.IsEmptySet(c) {
		return truthOf(op == ast.OpNotIn), nil
	}

	left, err := resolve(c.Left(), row)
	if err != nil {
		return Unknown, err
	}

	switch op {
	case ast.OpIsNull:
		return truthOf(isNull(left)), nil
	case ast.OpIsNotNull:
		return truthOf(!isNull(left)), nil
	case ast.OpIn, ast.OpNotIn:
		t, err := in(left, c.Right(), row)
		if op == ast.OpNotIn {
			t = t.Not()
		}
		return t, err
	}

	right := c.Right()
	if len(right) != op.Arity() {
		return Unknown, fmt.Errorf("%s takes %d operand(s), got %d", op, op.Arity(), len(right))
	}
	operands := make([]ast.ParameterizedValue, len(right))
	for i, r := range right {
		v, err := resolve(r, row)
		if err != nil {
			return Unknown, err
		}
		operands[i] = v
	}

	switch op {
	case ast.OpEquals:
		return equal(left, operands[0])
	case ast.OpNotEquals:
		t, err := equal(left, operands[0])
		return t.Not(), err
	case ast.OpLessThan:
		return ordered(left, operands[0], func(c int) bool { return c < 0 })
	case ast.OpLessThanOrEquals:
		return ordered(left, operands[0], func(c int) bool { return c <= 0 })
	case ast.OpGreaterThan:
		return ordered(left, operands[0], func(c int) bool { return c > 0 })
	case ast.OpGreaterThanOrEquals:
		return ordered(left, operands[0], func(c int) bool { return c >= 0 })
	case ast.OpBetween, ast.OpNotBetween:
		lower, err := ordered(left, operands[0], func(c int) bool { return c >= 0 })
		if err != nil {
			return Unknown, err
		}
		upper, err := ordered(left, operands[1], func(c int) bool { return c <= 0 })
		if err != nil {
			return Unknown, err
		}
		inside := lower.And(upper)
		if op == ast.OpNotBetween {
			inside = inside.Not()
		}
		return inside, nil
	}

	if isNull(left) || isNull(operands[0]) {
		return Unknown, nil
	}
	switch op {
	case ast.OpLike, ast.OpNotLike:
		s, ok := textOf(left)
		if !ok {
			return Unknown, fmt.Errorf("LIKE needs a text operand, got %T", left)
		}
		pattern, ok := textOf(operands[0])
		if !ok {
			return Unknown, fmt.Errorf("LIKE needs a text pattern, got %T", operands[0])
		}
		matched := Like(s, pattern)
		if op == ast.OpNotLike {
			matched = !matched
		}
		return truthOf(matched), nil
	}
	return Unknown, fmt.Errorf("%s: %w", op, ErrUnsupported)
}

// in implements x IN (a, b, ...) as a Kleene OR of x = a, x = b, ...:
// True on a match, otherwise Unknown if any comparison was Unknown,
// otherwise False.
func in(left ast.ParameterizedValue, right []ast.DatabaseValue, row Row) (Truth, error) {
	if len(right) != 1 {
		return Unknown, fmt.Errorf("IN takes one operand, got %d", len(right))
	}
	set, ok := right[0].(ast.Row)
	if !ok {
		return Unknown, fmt.Errorf("IN against %T: %w", right[0], ErrUnsupported)
	}

	result := False
	for _, candidate := range set.Values() {
		v, err := resolve(candidate, row)
		if err != nil {
			return Unknown, err
		}
		t, err := equal(left, v)
		if err != nil {
			return Unknown, err
		}
		if t == True {
			return True, nil
		}
		result = result.Or(t)
	}
	return result, nil
}

// equal is three-valued equality. Row values compare pairwise and the
// results are ANDed, so (1, NULL) = (1, NULL) is Unknown while
// (1, NULL) = (2, NULL) is False.
func equal(a, b ast.ParameterizedValue) (Truth, error) {
	x, y, ok, err := tuples(a, b)
	if err != nil {
		return Unknown, err
	}
	if !ok {
		if isNull(a) || isNull(b) {
			return Unknown, nil
		}
		return truthOf(order(a, b) == 0), nil
	}

	result := True
	for i := range x {
		t, err := equal(x[i], y[i])
		if err != nil {
			return Unknown, err
		}
		result = result.And(t)
		if result == False {
			return False, nil
		}
	}
	return result, nil
}

// ordered applies an ordering test. Row values compare lexicographically:
// the first pair that differs decides, and a NULL met before that pair
// makes the result Unknown.
func ordered(a, b ast.ParameterizedValue, test func(int) bool) (Truth, error) {
	c, known, err := orderOf(a, b)
	if err != nil || !known {
		return Unknown, err
	}
	return truthOf(test(c)), nil
}

func orderOf(a, b ast.ParameterizedValue) (int, bool, error) {
	x, y, ok, err := tuples(a, b)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		if isNull(a) || isNull(b) {
			return 0, false, nil
		}
		return order(a, b), true, nil
	}

	for i := range x {
		c, known, err := orderOf(x[i], y[i])
		if err != nil || !known {
			return 0, false, err
		}
		if c != 0 {
			return c, true, nil
		}
	}
	return 0, true, nil
}

// tuples reports whether a and b are both row values of the same width.
// Mixing a row value with a scalar, or rows of different widths, is an
// error as it is in SQL.
func tuples(a, b ast.ParameterizedValue) (ast.Array, ast.Array, bool, error) {
	x, xok := a.(ast.Array)
	y, yok := b.(ast.Array)
	switch {
	case !xok && !yok:
		return nil, nil, false, nil
	case xok != yok:
		return nil, nil, false, fmt.Errorf("row value compared with a scalar: %w", ErrUnsupported)
	case len(x) != len(y):
		return nil, nil, false, fmt.Errorf("row values of width %d and %d: %w", len(x), len(y), ErrUnsupported)
	}
	return x, y, true, nil
}

// order compares two non-NULL values. Integers and reals compare by
// numeric value, so 30 = 30.0 holds as it does in SQL.
func order(a, b ast.ParameterizedValue) int {
	if x, ok := numeric(a); ok {
		if y, ok := numeric(b); ok {
			return cmp.Compare(x, y)
		}
	}
	return ast.CompareValues(a, b)
}

func numeric(v ast.ParameterizedValue) (float64, bool) {
	switch n := v.(type) {
	case ast.Integer:
		return float64(n), true
	case ast.Real:
		return float64(n), true
	}
	return 0, false
}

func textOf(v ast.ParameterizedValue) (string, bool) {
	switch s := v.(type) {
	case ast.Text:
		return string(s), true
	case ast.Enum:
		return string(s), true
	case ast.Char:
		return string(rune(s)), true
	}
	return "", false
}

// Like matches s against a SQL LIKE pattern where % matches any run of
// characters and _ matches exactly one. Matching is case-sensitive.
func Like(s, pattern string) bool {
	str, pat := []rune(s), []rune(pattern)

	// match[j] reports whether pat[:j] matches the consumed prefix of str.
	match := make([]bool, len(pat)+1)
	match[0] = true
	for j := 1; j <= len(pat) && pat[j-1] == '%'; j++ {
		match[j] = true
	}

	for i := 1; i <= len(str); i++ {
		next := make([]bool, len(pat)+1)
		for j := 1; j <= len(pat); j++ {
			switch pat[j-1] {
			case '%':
				next[j] = next[j-1] || match[j]
			case '_':
				next[j] = match[j-1]
			default:
				next[j] = match[j-1] && pat[j-1] == str[i-1]
			}
		}
		match = next
	}
	return match[len(pat)]
}
