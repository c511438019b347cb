package testutil

// PeopleSchema creates the tables used by connector and harness tests.
var PeopleSchema = []string{
	`CREATE TABLE people (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER,
		score REAL,
		active BOOLEAN NOT NULL DEFAULT 1,
		team_id INTEGER
	)`,
	`CREATE TABLE teams (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL
	)`,
}

// PeopleRows seeds PeopleSchema. Bob has no age and no team.
var PeopleRows = []string{
	`INSERT INTO teams (id, title) VALUES (1, 'red'), (2, 'blue')`,
	`INSERT INTO people (id, name, age, score, active, team_id) VALUES
		(1, 'alice', 30, 9.5, 1, 1),
		(2, 'bob', NULL, 7.25, 1, NULL),
		(3, 'carol', 17, 8.0, 0, 2),
		(4, 'dave', 65, 6.5, 1, 2)`,
}

// PeopleFixture returns the schema followed by the seed rows.
func PeopleFixture() []string {
	out := make([]string, 0, len(PeopleSchema)+len(PeopleRows))
	out = append(out, PeopleSchema...)
	return append(out, PeopleRows...)
}
