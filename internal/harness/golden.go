package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sqlast/internal/ast"
)

// Snapshot captures what a scenario produced. Params and rows use the
// canonical parameter encoding so snapshots are byte-stable.
type Snapshot struct {
	Scenario string            `json:"scenario"`
	Dialect  string            `json:"dialect"`
	SQL      string            `json:"sql,omitempty"`
	Params   json.RawMessage   `json:"params,omitempty"`
	Columns  []string          `json:"columns,omitempty"`
	Rows     []json.RawMessage `json:"rows,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// NewSnapshot builds the snapshot of a result.
func NewSnapshot(name string, result *Result) (*Snapshot, error) {
	snap := &Snapshot{
		Scenario: name,
		Dialect:  result.Dialect,
		SQL:      result.SQL,
		Columns:  result.Columns,
	}

	if result.Err != nil {
		snap.Error = result.Err.Error()
		return snap, nil
	}

	params, err := ast.MarshalParams(result.Params)
	if err != nil {
		return nil, err
	}
	snap.Params = params

	for _, row := range result.Rows {
		data, err := ast.MarshalParams(row)
		if err != nil {
			return nil, err
		}
		snap.Rows = append(snap.Rows, data)
	}
	return snap, nil
}

// Marshal encodes the snapshot as indented JSON without HTML escaping,
// so SQL comparison operators stay readable.
func (s *Snapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file. The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snap, err := NewSnapshot(scenarioName, result)
	if err != nil {
		return err
	}
	data, err := snap.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
