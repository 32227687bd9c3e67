package sqlite

import (
	"context"
	"fmt"
	"strings"
)

const ddl = `
CREATE TABLE IF NOT EXISTS encounters (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	title         TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT '',
	backdrop_id   INTEGER,
	character1_id INTEGER,
	character2_id INTEGER,
	is_root       INTEGER NOT NULL DEFAULT 0,
	created_by    TEXT NOT NULL,
	modified_by   TEXT NOT NULL,
	created_at    TEXT DEFAULT (datetime('now')),
	updated_at    TEXT DEFAULT (datetime('now'))
);

-- target_id carries no foreign key: routes may point at a node that does
-- not exist yet.
CREATE TABLE IF NOT EXISTS routes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id  INTEGER NOT NULL REFERENCES encounters(id),
	target_id  INTEGER,
	label      TEXT NOT NULL DEFAULT '',
	created_by TEXT NOT NULL,
	created_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_encounters_root_owner ON encounters (is_root, created_by);
CREATE INDEX IF NOT EXISTS idx_encounters_title ON encounters (title);
CREATE INDEX IF NOT EXISTS idx_routes_source ON routes (source_id);
CREATE INDEX IF NOT EXISTS idx_routes_target ON routes (target_id);
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}
	return statements
}
