package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"storyweave/internal/store"
)

func (c *Client) InsertNode(ctx context.Context, owner store.ActorID, root bool) (int64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("inserting encounter: owner is required")
	}

	var id int64
	err := c.q.QueryRow(ctx, `
INSERT INTO encounters (title, description, is_root, created_by, modified_by)
VALUES ('', '', $1, $2, $2)
RETURNING id`, root, string(owner)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting encounter: %w", err)
	}
	return id, nil
}

func (c *Client) UpdateNodeField(ctx context.Context, id int64, field store.Field, value store.FieldValue, modifier store.ActorID) error {
	if err := value.Check(field); err != nil {
		return err
	}
	column, _ := field.Column()

	query := fmt.Sprintf(`
UPDATE encounters
SET %s = $1, modified_by = $2, updated_at = now()
WHERE id = $3`, pgx.Identifier{column}.Sanitize())

	tag, err := c.q.Exec(ctx, query, value.Arg(), string(modifier), id)
	if err != nil {
		return fmt.Errorf("updating encounter %s: %w", field, err)
	}
	return expectRow(tag, "encounter", id)
}

func (c *Client) DuplicateNode(ctx context.Context, sourceID int64, owner store.ActorID) (int64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("duplicating encounter: owner is required")
	}

	var id int64
	err := c.q.QueryRow(ctx, `
INSERT INTO encounters (title, description, backdrop_id, character1_id, character2_id, is_root, created_by, modified_by)
SELECT '', '', backdrop_id, character1_id, character2_id, FALSE, $1, $1
FROM encounters WHERE id = $2
RETURNING id`, string(owner), sourceID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("encounter %d: %w", sourceID, store.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("duplicating encounter: %w", err)
	}
	return id, nil
}

func (c *Client) FetchNode(ctx context.Context, id int64) (*store.Node, error) {
	node, err := scanNode(c.q.QueryRow(ctx,
		"SELECT "+nodeColumns+" FROM encounters WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("encounter %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching encounter: %w", err)
	}
	return node, nil
}

func (c *Client) DeleteNodes(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := c.q.Exec(ctx, "DELETE FROM encounters WHERE id = ANY($1)", ids)
	if err != nil {
		return 0, fmt.Errorf("deleting encounters: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (c *Client) FetchRootNodes(ctx context.Context, owner store.ActorID) ([]store.NodeSummary, error) {
	rows, err := c.q.Query(ctx, `
SELECT id, title, is_root FROM encounters
WHERE is_root AND ($1 = '' OR created_by = $1)
ORDER BY title, id`, string(owner))
	if err != nil {
		return nil, fmt.Errorf("listing root encounters: %w", err)
	}
	return collectSummaries(rows)
}

func (c *Client) ListNodeSummaries(ctx context.Context) ([]store.NodeSummary, error) {
	rows, err := c.q.Query(ctx, "SELECT id, title, is_root FROM encounters ORDER BY title, id")
	if err != nil {
		return nil, fmt.Errorf("listing encounters: %w", err)
	}
	return collectSummaries(rows)
}
