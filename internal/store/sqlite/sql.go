package sqlite

import (
	"database/sql"
	"strings"

	"storyweave/internal/store"
)

const nodeColumns = "id, title, description, backdrop_id, character1_id, character2_id, is_root, created_by, modified_by"

const edgeColumns = "id, source_id, target_id, label, created_by"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*store.Node, error) {
	var n store.Node
	var backdrop, char1, char2 sql.NullInt64
	var createdBy, modifiedBy string
	if err := row.Scan(&n.ID, &n.Title, &n.Description, &backdrop, &char1, &char2, &n.IsRoot, &createdBy, &modifiedBy); err != nil {
		return nil, err
	}
	n.BackdropID = nullableID(backdrop)
	n.Character1 = nullableID(char1)
	n.Character2 = nullableID(char2)
	n.CreatedBy = store.ActorID(createdBy)
	n.ModifiedBy = store.ActorID(modifiedBy)
	return &n, nil
}

func scanEdge(row rowScanner) (store.Edge, error) {
	var e store.Edge
	var target sql.NullInt64
	var createdBy string
	if err := row.Scan(&e.ID, &e.SourceID, &target, &e.Label, &createdBy); err != nil {
		return store.Edge{}, err
	}
	e.TargetID = nullableID(target)
	e.CreatedBy = store.ActorID(createdBy)
	return e, nil
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func nullableArg(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// inClause renders "?, ?, ?" for ids and returns the matching args.
func inClause(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ", "), args
}
