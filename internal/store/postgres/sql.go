package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"storyweave/internal/store"
)

const nodeColumns = "id, title, description, backdrop_id, character1_id, character2_id, is_root, created_by, modified_by"

const edgeColumns = "id, source_id, target_id, label, created_by"

func scanNode(row pgx.Row) (*store.Node, error) {
	var n store.Node
	var createdBy, modifiedBy string
	if err := row.Scan(&n.ID, &n.Title, &n.Description, &n.BackdropID, &n.Character1, &n.Character2, &n.IsRoot, &createdBy, &modifiedBy); err != nil {
		return nil, err
	}
	n.CreatedBy = store.ActorID(createdBy)
	n.ModifiedBy = store.ActorID(modifiedBy)
	return &n, nil
}

func scanEdge(row pgx.Row) (store.Edge, error) {
	var e store.Edge
	var createdBy string
	if err := row.Scan(&e.ID, &e.SourceID, &e.TargetID, &e.Label, &createdBy); err != nil {
		return store.Edge{}, err
	}
	e.CreatedBy = store.ActorID(createdBy)
	return e, nil
}

func collectEdges(rows pgx.Rows) ([]store.Edge, error) {
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

func collectSummaries(rows pgx.Rows) ([]store.NodeSummary, error) {
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

func collectIDs(rows pgx.Rows) ([]int64, error) {
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collecting ids: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func expectRow(tag pgconn.CommandTag, kind string, id int64) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, store.ErrNotFound)
	}
	return nil
}
