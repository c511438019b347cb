package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalParams encodes a parameter sequence as canonical JSON, for
// logging and statement fingerprints.
//
// Differences from json.Marshal:
//  1. Strings are NFC normalized
//  2. No HTML escaping (< > & are written as is)
//  3. Reals use the shortest round-trip form; NaN and ±Inf are errors
//  4. JSON values are compacted
//  5. UUIDs and timestamps are strings (RFC 3339, nanoseconds, UTC)
func MarshalParams(params []ParameterizedValue) ([]byte, error) {
	return marshalCanonicalArray(params)
}

// MarshalValue encodes a single value as canonical JSON.
func MarshalValue(v ParameterizedValue) ([]byte, error) {
	switch val := v.(type) {
	case nil, Null:
		return []byte("null"), nil
	case Integer:
		return strconv.AppendInt(nil, int64(val), 10), nil
	case Real:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("non-finite real %v has no JSON form", f)
		}
		return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
	case Boolean:
		return strconv.AppendBool(nil, bool(val)), nil
	case Text:
		return marshalCanonicalString(string(val))
	case Enum:
		return marshalCanonicalString(string(val))
	case Char:
		return marshalCanonicalString(string(rune(val)))
	case UUID:
		return marshalCanonicalString(val.String())
	case DateTime:
		return marshalCanonicalString(val.Text())
	case JSON:
		var buf bytes.Buffer
		if err := json.Compact(&buf, []byte(val)); err != nil {
			return nil, fmt.Errorf("invalid JSON value: %w", err)
		}
		return buf.Bytes(), nil
	case Array:
		return marshalCanonicalArray(val)
	default:
		return nil, fmt.Errorf("unsupported value type for canonical JSON: %T", v)
	}
}

func marshalCanonicalArray(arr []ParameterizedValue) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := MarshalValue(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// marshalCanonicalString produces a JSON string with NFC normalization and
// without HTML escaping.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds trailing newline, remove it
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
