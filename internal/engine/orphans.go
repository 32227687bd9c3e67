package engine

import (
	"context"
	"fmt"

	"storyweave/internal/store"
)

// FindUnlinkedNodes returns every encounter that is not the target of any
// route, in the store's title order. Roots are expected here.
func FindUnlinkedNodes(ctx context.Context, g store.Graph) ([]store.NodeSummary, error) {
	targets, err := g.FetchAllNodeTargetIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing route targets: %w", err)
	}
	targeted := make(map[int64]bool, len(targets))
	for _, id := range targets {
		targeted[id] = true
	}

	all, err := g.ListNodeSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing encounters: %w", err)
	}

	unlinked := []store.NodeSummary{}
	for _, node := range all {
		if !targeted[node.ID] {
			unlinked = append(unlinked, node)
		}
	}
	return unlinked, nil
}
