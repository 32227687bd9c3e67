package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storyweave/internal/store"
)

func (c *Client) InsertNode(ctx context.Context, owner store.ActorID, root bool) (int64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("inserting encounter: owner is required")
	}

	var id int64
	err := c.q.QueryRowContext(ctx,
		`INSERT INTO encounters (title, description, is_root, created_by, modified_by)
		VALUES ('', '', ?, ?, ?)
		RETURNING id`,
		root, string(owner), string(owner),
	).Scan(&id)
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

	query := fmt.Sprintf(`UPDATE encounters
		SET %s = ?, modified_by = ?, updated_at = datetime('now')
		WHERE id = ?`, column)

	result, err := c.q.ExecContext(ctx, query, value.Arg(), string(modifier), id)
	if err != nil {
		return fmt.Errorf("updating encounter %s: %w", field, err)
	}
	return expectRow(result, "encounter", id)
}

func (c *Client) DuplicateNode(ctx context.Context, sourceID int64, owner store.ActorID) (int64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("duplicating encounter: owner is required")
	}

	var id int64
	err := c.q.QueryRowContext(ctx,
		`INSERT INTO encounters (title, description, backdrop_id, character1_id, character2_id, is_root, created_by, modified_by)
		SELECT '', '', backdrop_id, character1_id, character2_id, 0, ?, ?
		FROM encounters WHERE id = ?
		RETURNING id`,
		string(owner), string(owner), sourceID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("encounter %d: %w", sourceID, store.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("duplicating encounter: %w", err)
	}
	return id, nil
}

func (c *Client) FetchNode(ctx context.Context, id int64) (*store.Node, error) {
	row := c.q.QueryRowContext(ctx,
		"SELECT "+nodeColumns+" FROM encounters WHERE id = ?", id)
	node, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
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

	placeholders, args := inClause(ids)
	result, err := c.q.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM encounters WHERE id IN (%s)", placeholders), args...)
	if err != nil {
		return 0, fmt.Errorf("deleting encounters: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return affected, nil
}

func (c *Client) FetchRootNodes(ctx context.Context, owner store.ActorID) ([]store.NodeSummary, error) {
	rows, err := c.q.QueryContext(ctx,
		`SELECT id, title, is_root FROM encounters
		WHERE is_root = 1 AND (? = '' OR created_by = ?)
		ORDER BY title, id`,
		string(owner), string(owner))
	if err != nil {
		return nil, fmt.Errorf("listing root encounters: %w", err)
	}
	return collectSummaries(rows)
}

func (c *Client) ListNodeSummaries(ctx context.Context) ([]store.NodeSummary, error) {
	rows, err := c.q.QueryContext(ctx, "SELECT id, title, is_root FROM encounters ORDER BY title, id")
	if err != nil {
		return nil, fmt.Errorf("listing encounters: %w", err)
	}
	return collectSummaries(rows)
}

func collectSummaries(rows *sql.Rows) ([]store.NodeSummary, error) {
	defer rows.Close()

	summaries := []store.NodeSummary{}
	for rows.Next() {
		var s store.NodeSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.IsRoot); err != nil {
			return nil, fmt.Errorf("scanning encounter summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating encounter summaries: %w", err)
	}
	return summaries, nil
}

func collectIDs(rows *sql.Rows) ([]int64, error) {
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ids: %w", err)
	}
	return ids, nil
}

func expectRow(result sql.Result, kind string, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, store.ErrNotFound)
	}
	return nil
}
