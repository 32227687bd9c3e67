package engine

import (
	"context"
	"fmt"

	"storyweave/internal/store"
)

// descendants walks outgoing routes breadth first from root and returns
// every reachable encounter in discovery order. The root itself is not
// included even when a cycle leads back to it.
func descendants(ctx context.Context, g store.Graph, root int64) ([]int64, error) {
	visited := map[int64]bool{root: true}
	queue := []int64{root}
	found := []int64{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		edges, err := g.FetchOutgoingEdges(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("expanding encounter %d: %w", current, err)
		}
		for _, edge := range edges {
			if !edge.HasTarget() {
				continue
			}
			target := *edge.TargetID
			if visited[target] {
				continue
			}
			visited[target] = true
			queue = append(queue, target)
			found = append(found, target)
		}
	}

	return found, nil
}

// Descendants returns the encounters a DeleteStoryline on rootID would
// remove, excluding the root.
func (s *Service) Descendants(ctx context.Context, rootID int64, actor store.ActorID) ([]int64, error) {
	const op = "descendants"
	if err := requireID(op, "encounter", rootID); err != nil {
		return nil, err
	}
	if err := s.authorizeNode(ctx, op, "read", rootID, actor); err != nil {
		return nil, err
	}
	ids, err := descendants(ctx, s.store, rootID)
	if err != nil {
		return nil, s.storeFailure(op, err, "root_id", rootID)
	}
	return ids, nil
}
