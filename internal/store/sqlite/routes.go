package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storyweave/internal/store"
)

func (c *Client) InsertEdge(ctx context.Context, sourceID int64, owner store.ActorID) (int64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("inserting route: owner is required")
	}

	var id int64
	err := c.q.QueryRowContext(ctx,
		`INSERT INTO routes (source_id, target_id, label, created_by)
		SELECT id, NULL, '', ? FROM encounters WHERE id = ?
		RETURNING id`,
		string(owner), sourceID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("encounter %d: %w", sourceID, store.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("inserting route: %w", err)
	}
	return id, nil
}

func (c *Client) FetchEdge(ctx context.Context, id int64) (*store.Edge, error) {
	row := c.q.QueryRowContext(ctx, "SELECT "+edgeColumns+" FROM routes WHERE id = ?", id)
	edge, err := scanEdge(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("route %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching route: %w", err)
	}
	return &edge, nil
}

func (c *Client) UpdateEdgeLabel(ctx context.Context, id int64, label string) error {
	result, err := c.q.ExecContext(ctx, "UPDATE routes SET label = ? WHERE id = ?", label, id)
	if err != nil {
		return fmt.Errorf("updating route label: %w", err)
	}
	return expectRow(result, "route", id)
}

func (c *Client) RebindEdgeTarget(ctx context.Context, id int64, target *int64) error {
	result, err := c.q.ExecContext(ctx, "UPDATE routes SET target_id = ? WHERE id = ?", nullableArg(target), id)
	if err != nil {
		return fmt.Errorf("rebinding route target: %w", err)
	}
	return expectRow(result, "route", id)
}

func (c *Client) DeleteEdges(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders, args := inClause(ids)
	result, err := c.q.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM routes WHERE id IN (%s)", placeholders), args...)
	if err != nil {
		return 0, fmt.Errorf("deleting routes: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return affected, nil
}

func (c *Client) FetchOutgoingEdges(ctx context.Context, nodeID int64) ([]store.Edge, error) {
	rows, err := c.q.QueryContext(ctx,
		"SELECT "+edgeColumns+" FROM routes WHERE source_id = ? ORDER BY id", nodeID)
	if err != nil {
		return nil, fmt.Errorf("fetching outgoing routes: %w", err)
	}
	return collectEdges(rows)
}

// DeleteEdgesTouching removes every route that starts or ends at one of
// nodeIDs, matched by predicate in a single statement.
func (c *Client) DeleteEdgesTouching(ctx context.Context, nodeIDs []int64) (int64, error) {
	if len(nodeIDs) == 0 {
		return 0, nil
	}

	placeholders, args := inClause(nodeIDs)
	query := fmt.Sprintf("DELETE FROM routes WHERE source_id IN (%s) OR target_id IN (%s)", placeholders, placeholders)

	result, err := c.q.ExecContext(ctx, query, append(args, args...)...)
	if err != nil {
		return 0, fmt.Errorf("deleting routes touching encounters: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return affected, nil
}

func (c *Client) FetchAllNodeTargetIDs(ctx context.Context) ([]int64, error) {
	rows, err := c.q.QueryContext(ctx,
		"SELECT DISTINCT target_id FROM routes WHERE target_id IS NOT NULL ORDER BY target_id")
	if err != nil {
		return nil, fmt.Errorf("listing route targets: %w", err)
	}
	return collectIDs(rows)
}

func (c *Client) ListEdges(ctx context.Context) ([]store.Edge, error) {
	rows, err := c.q.QueryContext(ctx, "SELECT "+edgeColumns+" FROM routes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}
	return collectEdges(rows)
}

func collectEdges(rows *sql.Rows) ([]store.Edge, error) {
	defer rows.Close()

	edges := []store.Edge{}
	for rows.Next() {
		edge, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning route: %w", err)
		}
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating routes: %w", err)
	}
	return edges, nil
}
