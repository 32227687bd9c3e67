package graph

import (
	"context"
	"fmt"

	"storyweave/internal/store"
)

func (c *Client) InsertNode(ctx context.Context, owner store.ActorID, root bool) (int64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("inserting encounter: owner is required")
	}

	cypher := nextID + `
CREATE (n:Encounter {id: s.value, title: '', description: '', is_root: $root,
                     created_by: $owner, modified_by: $owner})
RETURN n.id AS id`

	ids, err := query(ctx, c, true, cypher, map[string]any{
		"sequence": "encounter",
		"root":     root,
		"owner":    string(owner),
	}, recordID)
	if err != nil {
		return 0, fmt.Errorf("inserting encounter: %w", err)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("inserting encounter: no id returned")
	}
	return ids[0], nil
}

func (c *Client) UpdateNodeField(ctx context.Context, id int64, field store.Field, value store.FieldValue, modifier store.ActorID) error {
	if err := value.Check(field); err != nil {
		return err
	}
	property, _ := field.Column()

	cypher := fmt.Sprintf(`MATCH (n:Encounter {id: $id})
SET n.%s = $value, n.modified_by = $modifier
RETURN count(n) AS n`, property)

	counts, err := query(ctx, c, true, cypher, map[string]any{
		"id":       id,
		"value":    value.Arg(),
		"modifier": string(modifier),
	}, recordCount)
	if err != nil {
		return fmt.Errorf("updating encounter %s: %w", field, err)
	}
	if firstOr(counts, 0) == 0 {
		return fmt.Errorf("encounter %d: %w", id, store.ErrNotFound)
	}
	return nil
}

func (c *Client) DuplicateNode(ctx context.Context, sourceID int64, owner store.ActorID) (int64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("duplicating encounter: owner is required")
	}

	cypher := `MATCH (src:Encounter {id: $source})
` + nextID + `
CREATE (n:Encounter {id: s.value, title: '', description: '', is_root: false,
                     backdrop_id: src.backdrop_id, character1_id: src.character1_id,
                     character2_id: src.character2_id,
                     created_by: $owner, modified_by: $owner})
RETURN n.id AS id`

	ids, err := query(ctx, c, true, cypher, map[string]any{
		"sequence": "encounter",
		"source":   sourceID,
		"owner":    string(owner),
	}, recordID)
	if err != nil {
		return 0, fmt.Errorf("duplicating encounter: %w", err)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("encounter %d: %w", sourceID, store.ErrNotFound)
	}
	return ids[0], nil
}

func (c *Client) FetchNode(ctx context.Context, id int64) (*store.Node, error) {
	nodes, err := query(ctx, c, false,
		`MATCH (n:Encounter {id: $id}) RETURN `+encounterReturn,
		map[string]any{"id": id}, recordNode)
	if err != nil {
		return nil, fmt.Errorf("fetching encounter: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("encounter %d: %w", id, store.ErrNotFound)
	}
	return nodes[0], nil
}

func (c *Client) DeleteNodes(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	counts, err := query(ctx, c, true, `MATCH (n:Encounter) WHERE n.id IN $ids
DETACH DELETE n
RETURN count(n) AS n`, map[string]any{"ids": ids}, recordCount)
	if err != nil {
		return 0, fmt.Errorf("deleting encounters: %w", err)
	}
	return firstOr(counts, 0), nil
}

func (c *Client) FetchRootNodes(ctx context.Context, owner store.ActorID) ([]store.NodeSummary, error) {
	summaries, err := query(ctx, c, false, `MATCH (n:Encounter)
WHERE n.is_root AND ($owner = '' OR n.created_by = $owner)
RETURN n.id AS id, n.title AS title, n.is_root AS is_root
ORDER BY title, id`, map[string]any{"owner": string(owner)}, recordSummary)
	if err != nil {
		return nil, fmt.Errorf("listing root encounters: %w", err)
	}
	return summaries, nil
}

func (c *Client) ListNodeSummaries(ctx context.Context) ([]store.NodeSummary, error) {
	summaries, err := query(ctx, c, false, `MATCH (n:Encounter)
RETURN n.id AS id, n.title AS title, n.is_root AS is_root
ORDER BY title, id`, nil, recordSummary)
	if err != nil {
		return nil, fmt.Errorf("listing encounters: %w", err)
	}
	return summaries, nil
}
