package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	// All statements run in a single simple-protocol call, which PostgreSQL
	// executes as one implicit transaction. IF NOT EXISTS keeps reruns
	// idempotent.
	ddl := `
CREATE TABLE IF NOT EXISTS encounters (
    id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    title         TEXT NOT NULL DEFAULT '',
    description   TEXT NOT NULL DEFAULT '',
    backdrop_id   BIGINT,
    character1_id BIGINT,
    character2_id BIGINT,
    is_root       BOOLEAN NOT NULL DEFAULT FALSE,
    created_by    TEXT NOT NULL,
    modified_by   TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS routes (
    id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    source_id  BIGINT NOT NULL REFERENCES encounters(id),
    target_id  BIGINT,
    label      TEXT NOT NULL DEFAULT '',
    created_by TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_encounters_root_owner ON encounters (is_root, created_by);
CREATE INDEX IF NOT EXISTS idx_encounters_title ON encounters (title);
CREATE INDEX IF NOT EXISTS idx_routes_source ON routes (source_id);
CREATE INDEX IF NOT EXISTS idx_routes_target ON routes (target_id) WHERE target_id IS NOT NULL;
`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
