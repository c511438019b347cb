package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sqlast/internal/querydoc"
	"github.com/roach88/sqlast/internal/visitor"
)

// Scenario is one query conformance case: fixtures to load, a query
// document, and what rendering and executing it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Fixtures are SQL statements run against a fresh in-memory SQLite
	// database before the query executes.
	Fixtures []string `yaml:"fixtures,omitempty"`

	// Query is an inline query document. Exactly one of Query and
	// QueryFile must be set.
	Query *querydoc.Document `yaml:"query,omitempty"`

	// QueryFile is a path to a .yaml, .json or .cue document, relative to
	// the scenario file.
	QueryFile string `yaml:"query_file,omitempty"`

	// Dialect selects the renderer for the sql and params expectations.
	// Defaults to sqlite. Rows are always produced by SQLite.
	Dialect string `yaml:"dialect,omitempty"`

	// Expect lists the checks to perform. At least one must be present.
	Expect Expectation `yaml:"expect"`
}

// Expectation holds the expected outcome of a scenario. Unset fields are
// not checked. An empty list (params: []) is checked and must match.
type Expectation struct {
	// SQL is the exact rendered template.
	SQL string `yaml:"sql,omitempty"`

	// Params are the bound values in placeholder order.
	Params []any `yaml:"params,omitempty"`

	// Columns are the result column names.
	Columns []string `yaml:"columns,omitempty"`

	// Rows are the result rows, compared in order.
	Rows [][]any `yaml:"rows,omitempty"`

	// Error is an error code (MISSING_JOIN_CONDITION, ARITY_MISMATCH,
	// UNSUPPORTED_OPERATOR) or a substring of the expected error.
	Error string `yaml:"error,omitempty"`
}

func (e Expectation) empty() bool {
	return e.SQL == "" && e.Params == nil && e.Columns == nil && e.Rows == nil && e.Error == ""
}

// executes reports whether the scenario needs a database.
func (s *Scenario) executes() bool {
	return s.Expect.Rows != nil || s.Expect.Columns != nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative query_file is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.QueryFile != "" && !filepath.IsAbs(scenario.QueryFile) {
		scenario.QueryFile = filepath.Join(filepath.Dir(path), scenario.QueryFile)
	}
	if scenario.QueryFile != "" {
		if _, err := os.Stat(scenario.QueryFile); err != nil {
			return nil, fmt.Errorf("invalid scenario: query file not found: %s", scenario.QueryFile)
		}
	}

	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML. Query files are
// taken as given.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every .yaml and .yml file in dir, sorted by file
// name. Scenario names must be unique.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	seen := make(map[string]string, len(files))
	scenarios := make([]*Scenario, 0, len(files))
	for _, file := range files {
		s, err := LoadScenario(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%s: duplicate scenario name %q (also in %s)", file, s.Name, prev)
		}
		seen[s.Name] = file
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if (s.Query == nil) == (s.QueryFile == "") {
		return fmt.Errorf("exactly one of query and query_file is required")
	}

	if _, err := visitor.DialectByName(s.Dialect); err != nil {
		return err
	}

	if s.Expect.empty() {
		return fmt.Errorf("expect must set at least one of sql, params, columns, rows or error")
	}

	if s.Expect.Error != "" && (s.Expect.SQL != "" || s.Expect.Params != nil || s.executes()) {
		return fmt.Errorf("expect.error cannot be combined with other expectations")
	}

	for i, row := range s.Expect.Rows {
		if s.Expect.Columns != nil && len(row) != len(s.Expect.Columns) {
			return fmt.Errorf("expect.rows[%d]: has %d values, want %d columns", i, len(row), len(s.Expect.Columns))
		}
	}

	for i, stmt := range s.Fixtures {
		if stmt == "" {
			return fmt.Errorf("fixtures[%d]: statement is empty", i)
		}
	}

	return nil
}
