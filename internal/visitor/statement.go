package visitor

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/sqlast/internal/ast"
)

// fingerprintNamespace scopes statement fingerprints so they never collide
// with other name-based UUIDs.
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sqlast:statement"))

// Statement is a rendered query: a template and its parameters in
// placeholder order.
type Statement struct {
	SQL    string
	Params []ast.ParameterizedValue
}

// Fingerprint returns a stable identifier for the template and parameter
// values. Two statements share a fingerprint iff their SQL text, canonical
// parameter encoding and parameter variants are identical. The canonical
// encoding alone writes Integer(1) and Real(1) the same way, as it does
// Text and Enum, so the variant of each value is hashed with it.
func (s Statement) Fingerprint() (uuid.UUID, error) {
	params, err := ast.MarshalParams(s.Params)
	if err != nil {
		return uuid.Nil, fmt.Errorf("fingerprint params: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(s.SQL)
	buf.WriteByte(0x00)
	buf.Write(params)
	writeKinds(&buf, s.Params)

	return uuid.NewSHA1(fingerprintNamespace, buf.Bytes()), nil
}

func writeKinds(buf *bytes.Buffer, params []ast.ParameterizedValue) {
	for _, p := range params {
		buf.WriteByte(0x00)
		fmt.Fprintf(buf, "%T", p)
		if arr, ok := p.(ast.Array); ok {
			buf.WriteByte('[')
			writeKinds(buf, arr)
			buf.WriteByte(']')
		}
	}
}
