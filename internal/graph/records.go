package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"storyweave/internal/store"
)

const encounterReturn = `n.id AS id, n.title AS title, n.description AS description,
       n.backdrop_id AS backdrop_id, n.character1_id AS character1_id, n.character2_id AS character2_id,
       n.is_root AS is_root, n.created_by AS created_by, n.modified_by AS modified_by`

const routeReturn = `r.id AS id, r.source_id AS source_id, r.target_id AS target_id,
       r.label AS label, r.created_by AS created_by`

// nextID bumps the named sequence. Callers splice it into a write query so
// the increment and the create share one transaction.
const nextID = `MERGE (s:Sequence {name: $sequence})
ON CREATE SET s.value = 0
SET s.value = s.value + 1`

func collect[T any](ctx context.Context, res neo4j.ResultWithContext, fn func(*neo4j.Record) T) ([]T, error) {
	items := []T{}
	for res.Next(ctx) {
		items = append(items, fn(res.Record()))
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func recordNode(rec *neo4j.Record) *store.Node {
	return &store.Node{
		ID:          int64Value(rec, "id"),
		Title:       stringValue(rec, "title"),
		Description: stringValue(rec, "description"),
		BackdropID:  optionalInt64(rec, "backdrop_id"),
		Character1:  optionalInt64(rec, "character1_id"),
		Character2:  optionalInt64(rec, "character2_id"),
		IsRoot:      boolValue(rec, "is_root"),
		CreatedBy:   store.ActorID(stringValue(rec, "created_by")),
		ModifiedBy:  store.ActorID(stringValue(rec, "modified_by")),
	}
}

func recordEdge(rec *neo4j.Record) store.Edge {
	return store.Edge{
		ID:        int64Value(rec, "id"),
		SourceID:  int64Value(rec, "source_id"),
		TargetID:  optionalInt64(rec, "target_id"),
		Label:     stringValue(rec, "label"),
		CreatedBy: store.ActorID(stringValue(rec, "created_by")),
	}
}

func recordSummary(rec *neo4j.Record) store.NodeSummary {
	return store.NodeSummary{
		ID:     int64Value(rec, "id"),
		Title:  stringValue(rec, "title"),
		IsRoot: boolValue(rec, "is_root"),
	}
}

func recordID(rec *neo4j.Record) int64 {
	return int64Value(rec, "id")
}

func int64Value(rec *neo4j.Record, key string) int64 {
	value, _ := rec.Get(key)
	n, _ := value.(int64)
	return n
}

func optionalInt64(rec *neo4j.Record, key string) *int64 {
	value, ok := rec.Get(key)
	if !ok || value == nil {
		return nil
	}
	n, ok := value.(int64)
	if !ok {
		return nil
	}
	return &n
}

func stringValue(rec *neo4j.Record, key string) string {
	value, _ := rec.Get(key)
	s, _ := value.(string)
	return s
}

func boolValue(rec *neo4j.Record, key string) bool {
	value, _ := rec.Get(key)
	b, _ := value.(bool)
	return b
}

func nullableParam(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// query runs one statement and maps every record with fn. Writes go through
// ExecuteWrite, reads through ExecuteRead, unless a transaction is bound.
func query[T any](ctx context.Context, c *Client, write bool, cypher string, params map[string]any, fn func(*neo4j.Record) T) ([]T, error) {
	work := func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return collect(ctx, res, fn)
	}

	var result any
	var err error
	if write {
		result, err = c.write(ctx, work)
	} else {
		result, err = c.read(ctx, work)
	}
	if err != nil {
		return nil, err
	}
	return result.([]T), nil
}

func recordCount(rec *neo4j.Record) int64 {
	return int64Value(rec, "n")
}

func firstOr[T any](items []T, fallback T) T {
	if len(items) == 0 {
		return fallback
	}
	return items[0]
}
