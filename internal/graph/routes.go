package graph

import (
	"context"
	"fmt"

	"storyweave/internal/store"
)

// Routes are nodes rather than relationships because a route may exist
// without a target. The source link is kept as an OFFERS relationship; the
// target is the target_id property alone.

func (c *Client) InsertEdge(ctx context.Context, sourceID int64, owner store.ActorID) (int64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("inserting route: owner is required")
	}

	cypher := `MATCH (src:Encounter {id: $source})
` + nextID + `
CREATE (src)-[:OFFERS]->(r:Route {id: s.value, source_id: src.id, label: '', created_by: $owner})
RETURN r.id AS id`

	ids, err := query(ctx, c, true, cypher, map[string]any{
		"sequence": "route",
		"source":   sourceID,
		"owner":    string(owner),
	}, recordID)
	if err != nil {
		return 0, fmt.Errorf("inserting route: %w", err)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("encounter %d: %w", sourceID, store.ErrNotFound)
	}
	return ids[0], nil
}

func (c *Client) FetchEdge(ctx context.Context, id int64) (*store.Edge, error) {
	edges, err := query(ctx, c, false,
		`MATCH (r:Route {id: $id}) RETURN `+routeReturn,
		map[string]any{"id": id}, recordEdge)
	if err != nil {
		return nil, fmt.Errorf("fetching route: %w", err)
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("route %d: %w", id, store.ErrNotFound)
	}
	return &edges[0], nil
}

func (c *Client) UpdateEdgeLabel(ctx context.Context, id int64, label string) error {
	counts, err := query(ctx, c, true, `MATCH (r:Route {id: $id})
SET r.label = $label
RETURN count(r) AS n`, map[string]any{"id": id, "label": label}, recordCount)
	if err != nil {
		return fmt.Errorf("updating route label: %w", err)
	}
	if firstOr(counts, 0) == 0 {
		return fmt.Errorf("route %d: %w", id, store.ErrNotFound)
	}
	return nil
}

func (c *Client) RebindEdgeTarget(ctx context.Context, id int64, target *int64) error {
	counts, err := query(ctx, c, true, `MATCH (r:Route {id: $id})
SET r.target_id = $target
RETURN count(r) AS n`, map[string]any{"id": id, "target": nullableParam(target)}, recordCount)
	if err != nil {
		return fmt.Errorf("rebinding route target: %w", err)
	}
	if firstOr(counts, 0) == 0 {
		return fmt.Errorf("route %d: %w", id, store.ErrNotFound)
	}
	return nil
}

func (c *Client) DeleteEdges(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	counts, err := query(ctx, c, true, `MATCH (r:Route) WHERE r.id IN $ids
DETACH DELETE r
RETURN count(r) AS n`, map[string]any{"ids": ids}, recordCount)
	if err != nil {
		return 0, fmt.Errorf("deleting routes: %w", err)
	}
	return firstOr(counts, 0), nil
}

func (c *Client) FetchOutgoingEdges(ctx context.Context, nodeID int64) ([]store.Edge, error) {
	edges, err := query(ctx, c, false, `MATCH (r:Route {source_id: $id})
RETURN `+routeReturn+`
ORDER BY id`, map[string]any{"id": nodeID}, recordEdge)
	if err != nil {
		return nil, fmt.Errorf("fetching outgoing routes: %w", err)
	}
	return edges, nil
}

func (c *Client) DeleteEdgesTouching(ctx context.Context, nodeIDs []int64) (int64, error) {
	if len(nodeIDs) == 0 {
		return 0, nil
	}
	counts, err := query(ctx, c, true, `MATCH (r:Route)
WHERE r.source_id IN $ids OR r.target_id IN $ids
DETACH DELETE r
RETURN count(r) AS n`, map[string]any{"ids": nodeIDs}, recordCount)
	if err != nil {
		return 0, fmt.Errorf("deleting routes touching encounters: %w", err)
	}
	return firstOr(counts, 0), nil
}

func (c *Client) FetchAllNodeTargetIDs(ctx context.Context) ([]int64, error) {
	ids, err := query(ctx, c, false, `MATCH (r:Route)
WHERE r.target_id IS NOT NULL
RETURN DISTINCT r.target_id AS id
ORDER BY id`, nil, recordID)
	if err != nil {
		return nil, fmt.Errorf("listing route targets: %w", err)
	}
	return ids, nil
}

func (c *Client) ListEdges(ctx context.Context) ([]store.Edge, error) {
	edges, err := query(ctx, c, false, `MATCH (r:Route) RETURN `+routeReturn+` ORDER BY id`, nil, recordEdge)
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}
	return edges, nil
}
