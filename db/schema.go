// ABOUTME: Database schema definitions
// ABOUTME: Tables for accounts and their children, connections, network snapshots and scores
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	industry TEXT,
	location TEXT,
	company_size TEXT,
	employee_count INTEGER NOT NULL DEFAULT 0,
	annual_revenue REAL NOT NULL DEFAULT 0,
	fiscal_year_end TEXT,
	last_activity_at DATETIME,
	urgency_score INTEGER NOT NULL DEFAULT 0,
	status TEXT,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accounts_urgency ON accounts(urgency_score DESC);

CREATE TABLE IF NOT EXISTS contacts (
	account_id TEXT NOT NULL,
	id TEXT NOT NULL,
	name TEXT,
	title TEXT,
	email TEXT,
	separation_degree INTEGER,
	connection_strength REAL,
	last_contacted_at DATETIME,
	last_response_at DATETIME,
	budget_influence INTEGER NOT NULL DEFAULT 0,
	technical_influence INTEGER NOT NULL DEFAULT 0,
	relationship_influence INTEGER NOT NULL DEFAULT 0,
	urgency_influence INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (account_id, id),
	FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS alerts (
	account_id TEXT NOT NULL,
	id TEXT NOT NULL,
	type TEXT NOT NULL,
	urgency TEXT,
	title TEXT,
	created_at DATETIME,
	metadata TEXT,
	PRIMARY KEY (account_id, id),
	FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_alerts_type ON alerts(type);

CREATE TABLE IF NOT EXISTS activities (
	account_id TEXT NOT NULL,
	id TEXT NOT NULL,
	type TEXT NOT NULL,
	created_at DATETIME,
	outcome TEXT,
	notes TEXT,
	PRIMARY KEY (account_id, id),
	FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS connections (
	id TEXT PRIMARY KEY,
	first_name TEXT,
	last_name TEXT,
	full_name TEXT NOT NULL,
	title TEXT,
	company TEXT,
	industry TEXT,
	location TEXT,
	connected_at DATETIME,
	mutual_connections INTEGER NOT NULL DEFAULT 0,
	relationship_strength TEXT,
	interaction_history TEXT,
	tags TEXT
);

CREATE INDEX IF NOT EXISTS idx_connections_company ON connections(company);

CREATE TABLE IF NOT EXISTS network_nodes (
	owner_id TEXT NOT NULL,
	id TEXT NOT NULL,
	position INTEGER NOT NULL,
	kind TEXT NOT NULL,
	display_name TEXT,
	title TEXT,
	company TEXT,
	platform_id TEXT,
	email TEXT,
	is_target INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (owner_id, id)
);

CREATE TABLE IF NOT EXISTS network_edges (
	owner_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	source_id TEXT NOT NULL,
	target_id TEXT NOT NULL,
	kind TEXT,
	strength REAL NOT NULL,
	verified INTEGER NOT NULL DEFAULT 0,
	context TEXT,
	last_interaction_at DATETIME,
	mutual_connections INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (owner_id, position)
);

CREATE TABLE IF NOT EXISTS urgency_scores (
	account_id TEXT PRIMARY KEY,
	overall INTEGER NOT NULL,
	breakdown TEXT NOT NULL,
	calculated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_urgency_scores_overall ON urgency_scores(overall DESC);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
