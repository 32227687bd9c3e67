package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"storyweave/internal/store"
)

func (c *Client) InsertEdge(ctx context.Context, sourceID int64, owner store.ActorID) (int64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("inserting route: owner is required")
	}

	var id int64
	err := c.q.QueryRow(ctx, `
INSERT INTO routes (source_id, target_id, label, created_by)
SELECT id, NULL, '', $1 FROM encounters WHERE id = $2
RETURNING id`, string(owner), sourceID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("encounter %d: %w", sourceID, store.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("inserting route: %w", err)
	}
	return id, nil
}

func (c *Client) FetchEdge(ctx context.Context, id int64) (*store.Edge, error) {
	edge, err := scanEdge(c.q.QueryRow(ctx, "SELECT "+edgeColumns+" FROM routes WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("route %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching route: %w", err)
	}
	return &edge, nil
}

func (c *Client) UpdateEdgeLabel(ctx context.Context, id int64, label string) error {
	tag, err := c.q.Exec(ctx, "UPDATE routes SET label = $1 WHERE id = $2", label, id)
	if err != nil {
		return fmt.Errorf("updating route label: %w", err)
	}
	return expectRow(tag, "route", id)
}

func (c *Client) RebindEdgeTarget(ctx context.Context, id int64, target *int64) error {
	tag, err := c.q.Exec(ctx, "UPDATE routes SET target_id = $1 WHERE id = $2", target, id)
	if err != nil {
		return fmt.Errorf("rebinding route target: %w", err)
	}
	return expectRow(tag, "route", id)
}

func (c *Client) DeleteEdges(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := c.q.Exec(ctx, "DELETE FROM routes WHERE id = ANY($1)", ids)
	if err != nil {
		return 0, fmt.Errorf("deleting routes: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (c *Client) FetchOutgoingEdges(ctx context.Context, nodeID int64) ([]store.Edge, error) {
	rows, err := c.q.Query(ctx,
		"SELECT "+edgeColumns+" FROM routes WHERE source_id = $1 ORDER BY id", nodeID)
	if err != nil {
		return nil, fmt.Errorf("fetching outgoing routes: %w", err)
	}
	return collectEdges(rows)
}

// DeleteEdgesTouching removes every route that starts or ends at one of
// nodeIDs. The predicate is evaluated by the DELETE itself, so a route
// retargeted into the set before the statement runs is still removed.
func (c *Client) DeleteEdgesTouching(ctx context.Context, nodeIDs []int64) (int64, error) {
	if len(nodeIDs) == 0 {
		return 0, nil
	}
	tag, err := c.q.Exec(ctx,
		"DELETE FROM routes WHERE source_id = ANY($1) OR target_id = ANY($1)", nodeIDs)
	if err != nil {
		return 0, fmt.Errorf("deleting routes touching encounters: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (c *Client) FetchAllNodeTargetIDs(ctx context.Context) ([]int64, error) {
	rows, err := c.q.Query(ctx,
		"SELECT DISTINCT target_id FROM routes WHERE target_id IS NOT NULL ORDER BY target_id")
	if err != nil {
		return nil, fmt.Errorf("listing route targets: %w", err)
	}
	return collectIDs(rows)
}

func (c *Client) ListEdges(ctx context.Context) ([]store.Edge, error) {
	rows, err := c.q.Query(ctx, "SELECT "+edgeColumns+" FROM routes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}
	return collectEdges(rows)
}
