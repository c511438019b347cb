package ast

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParameterizedValue is a sealed interface for values that are bound as
// statement parameters instead of being written into the template.
//
// Variants: Null, Integer, Real, Text, Enum, Boolean, Char, Array, JSON,
// UUID and DateTime. Every variant is also a DatabaseValue and an
// Expression, so a literal can appear anywhere an operand is accepted.
type ParameterizedValue interface {
	DatabaseValue
	parameterizedValue()
}

// Null is the SQL NULL value.
type Null struct{}

// Integer is a signed 64-bit integer value.
type Integer int64

// Real is a double-precision floating point value.
type Real float64

// Text is a string value.
type Text string

// Enum is a string value that a dialect may bind to a native enum type.
type Enum string

// Boolean is a boolean value.
type Boolean bool

// Char is a single character value.
type Char rune

// Array is an ordered list of values bound as one parameter.
// Dialects without array parameters reject it at bind time.
type Array []ParameterizedValue

// JSON holds raw JSON text.
type JSON string

// UUID is a 128-bit identifier value.
type UUID uuid.UUID

// DateTime is a timestamp value. Constructors normalize it to UTC.
type DateTime time.Time

// DateTimeLayout is the text form of a DateTime: RFC 3339 in UTC with all
// nine fractional digits, so the text of two timestamps sorts the same way
// as the timestamps themselves.
const DateTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (Null) parameterizedValue()     {}
func (Integer) parameterizedValue()  {}
func (Real) parameterizedValue()     {}
func (Text) parameterizedValue()     {}
func (Enum) parameterizedValue()     {}
func (Boolean) parameterizedValue()  {}
func (Char) parameterizedValue()     {}
func (Array) parameterizedValue()    {}
func (JSON) parameterizedValue()     {}
func (UUID) parameterizedValue()     {}
func (DateTime) parameterizedValue() {}

func (Null) databaseValue()     {}
func (Integer) databaseValue()  {}
func (Real) databaseValue()     {}
func (Text) databaseValue()     {}
func (Enum) databaseValue()     {}
func (Boolean) databaseValue()  {}
func (Char) databaseValue()     {}
func (Array) databaseValue()    {}
func (JSON) databaseValue()     {}
func (UUID) databaseValue()     {}
func (DateTime) databaseValue() {}

func (Null) expression()     {}
func (Integer) expression()  {}
func (Real) expression()     {}
func (Text) expression()     {}
func (Enum) expression()     {}
func (Boolean) expression()  {}
func (Char) expression()     {}
func (Array) expression()    {}
func (JSON) expression()     {}
func (UUID) expression()     {}
func (DateTime) expression() {}

// String returns the canonical textual form of the UUID.
func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// Time returns the wrapped timestamp.
func (d DateTime) Time() time.Time {
	return time.Time(d)
}

// Text formats d with DateTimeLayout.
func (d DateTime) Text() string {
	return d.Time().UTC().Format(DateTimeLayout)
}

// NewDateTime returns a DateTime normalized to UTC.
func NewDateTime(t time.Time) DateTime {
	return DateTime(t.UTC())
}

// NewArray builds an Array, lifting each element with ValueOf.
func NewArray(vals ...any) Array {
	arr := make(Array, len(vals))
	for i, v := range vals {
		arr[i] = ValueOf(v)
	}
	return arr
}

// Val lifts a Go value into a DatabaseValue. Values that already are
// DatabaseValues (columns, rows, sub-selects, functions) pass through;
// everything else goes through ValueOf.
func Val(v any) DatabaseValue {
	if dv, ok := v.(DatabaseValue); ok {
		return dv
	}
	return ValueOf(v)
}

// ValueOf converts a Go scalar into a ParameterizedValue.
//
// Supported: nil, every int and uint width, float32/64, string, bool,
// []byte and json.RawMessage (as JSON), uuid.UUID, time.Time, slices
// (as Array), pointers (dereferenced, nil as Null), and any named type with
// one of those underlying kinds. Maps and structs are encoded as JSON.
//
// ValueOf panics on values that cannot be represented (channels, funcs),
// which is always a programming error at the call site.
func ValueOf(v any) ParameterizedValue {
	switch val := v.(type) {
	case nil:
		return Null{}
	case ParameterizedValue:
		return val
	case int:
		return Integer(val)
	case int64:
		return Integer(val)
	case int32:
		return Integer(val)
	case string:
		return Text(val)
	case bool:
		return Boolean(val)
	case float64:
		return Real(val)
	case float32:
		return Real(val)
	case json.RawMessage:
		return JSON(val)
	case []byte:
		return JSON(val)
	case uuid.UUID:
		return UUID(val)
	case time.Time:
		return NewDateTime(val)
	case []any:
		return NewArray(val...)
	}
	return valueOfReflect(reflect.ValueOf(v))
}

func valueOfReflect(rv reflect.Value) ParameterizedValue {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			// Out of int64 range; precision loss is preferable to wrap-around.
			return Real(float64(u))
		}
		return Integer(int64(u))
	case reflect.Float32, reflect.Float64:
		return Real(rv.Float())
	case reflect.String:
		return Text(rv.String())
	case reflect.Bool:
		return Boolean(rv.Bool())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		arr := make(Array, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			arr[i] = ValueOf(rv.Index(i).Interface())
		}
		return arr
	case reflect.Map, reflect.Struct:
		data, err := json.Marshal(rv.Interface())
		if err != nil {
			panic(fmt.Sprintf("ast: cannot encode %s as JSON value: %v", rv.Type(), err))
		}
		return JSON(data)
	}
	panic(fmt.Sprintf("ast: unsupported value type %s", rv.Type()))
}

// valueRank orders variants for CompareValues. Integer and Real share a
// rank so that numbers compare numerically across the two variants.
func valueRank(v ParameterizedValue) int {
	switch v.(type) {
	case Null:
		return 0
	case Boolean:
		return 1
	case Integer, Real:
		return 2
	case Char:
		return 3
	case Text:
		return 4
	case Enum:
		return 5
	case UUID:
		return 6
	case DateTime:
		return 7
	case JSON:
		return 8
	case Array:
		return 9
	}
	return 10
}

// ValuesEqual reports structural equality: same variant, same payload.
// Integer(1) and Real(1) are not equal.
func ValuesEqual(a, b ParameterizedValue) bool {
	return CompareValues(a, b) == 0
}

// CompareValues defines a total order over parameterized values.
//
// Values of different variants are ordered by variant, except Integer and
// Real which compare numerically; when they are numerically equal the
// Integer sorts first. Arrays compare element-wise, then by length.
func CompareValues(a, b ParameterizedValue) int {
	ra, rb := valueRank(a), valueRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch x := a.(type) {
	case Null:
		return 0
	case Boolean:
		y := b.(Boolean)
		if x == y {
			return 0
		}
		if !x {
			return -1
		}
		return 1
	case Integer:
		switch y := b.(type) {
		case Integer:
			return cmp.Compare(x, y)
		case Real:
			if c := cmp.Compare(float64(x), float64(y)); c != 0 {
				return c
			}
			return -1
		}
	case Real:
		switch y := b.(type) {
		case Real:
			return cmp.Compare(x, y)
		case Integer:
			if c := cmp.Compare(float64(x), float64(y)); c != 0 {
				return c
			}
			return 1
		}
	case Char:
		return cmp.Compare(x, b.(Char))
	case Text:
		return strings.Compare(string(x), string(b.(Text)))
	case Enum:
		return strings.Compare(string(x), string(b.(Enum)))
	case UUID:
		y := b.(UUID)
		return bytes.Compare(x[:], y[:])
	case DateTime:
		return x.Time().Compare(b.(DateTime).Time())
	case JSON:
		return strings.Compare(string(x), string(b.(JSON)))
	case Array:
		y := b.(Array)
		for i := 0; i < len(x) && i < len(y); i++ {
			if c := CompareValues(x[i], y[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(x), len(y))
	}
	return 0
}
