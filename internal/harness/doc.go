// Package harness runs query conformance scenarios.
//
// A scenario pairs a query document with the SQL it must render to, the
// parameters it must bind, and optionally the rows it must return from a
// fixture database.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: adults_by_name
//	description: "People between 18 and 65, ordered by name"
//	fixtures:
//	  - CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT, age INTEGER)
//	  - INSERT INTO people VALUES (1, 'alice', 30), (2, 'carol', 17)
//	query:
//	  from: people
//	  columns: [id, name]
//	  where:
//	    and:
//	      - {column: age, op: gt, value: 18}
//	      - {column: age, op: lt, value: 65}
//	  order: [name]
//	dialect: sqlite
//	expect:
//	  sql: SELECT "id", "name" FROM "people" WHERE "age" > ? AND "age" < ? ORDER BY "name" ASC
//	  params: [18, 65]
//	  columns: [id, name]
//	  rows:
//	    - [1, alice]
//
// The query may instead live in its own file (query_file: adults.cue).
// expect.error names an error code such as MISSING_JOIN_CONDITION, or a
// substring of the expected build or render error, and cannot be combined
// with other expectations.
//
// # Execution
//
// SQL and params are checked against the scenario's dialect. Rows are
// always produced by SQLite: each scenario that expects rows or columns
// gets a fresh in-memory database seeded with its fixtures.
//
// # Usage
//
// Load a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/adults.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Execute and check results:
//
//	result, err := harness.Run(ctx, scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        fmt.Println(msg)
//	    }
//	}
//
// Compare against a golden snapshot in tests:
//
//	harness.RunWithGolden(t, scenario)
package harness
