package querydoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/sqlast/internal/ast"
)

// ParseCUE evaluates CUE source and decodes the resulting value as a
// query document. The value must be concrete; definitions and hidden
// fields may be used freely and are dropped on export.
func ParseCUE(data []byte, filename string) (*Document, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	return fromCUE(value)
}

// LoadCUE loads a .cue file through the CUE loader, so imports and
// packages in the surrounding module resolve.
func LoadCUE(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("failed to read query document: %w", err)
	}

	cfg := &load.Config{Dir: filepath.Dir(abs)}
	instances := load.Instances([]string{"./" + filepath.Base(abs)}, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", path)
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE file: %w", inst.Err)
	}

	ctx := cuecontext.New()
	return fromCUE(ctx.BuildInstance(inst))
}

func fromCUE(value cue.Value) (*Document, error) {
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("CUE value is not concrete: %w", err)
	}

	data, err := value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("exporting CUE value: %w", err)
	}

	// JSON is YAML, so the strict YAML decoder handles both formats.
	return Parse(data)
}

// Load reads a query document, choosing the format by extension: .cue is
// evaluated as CUE, anything else is decoded as YAML or JSON.
func Load(path string) (*Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		return LoadCUE(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query document: %w", err)
	}
	return Parse(data)
}

// LoadQuery loads a document and builds its Select.
func LoadQuery(path string) (ast.Select, error) {
	doc, err := Load(path)
	if err != nil {
		return ast.Select{}, err
	}
	return doc.Build()
}
