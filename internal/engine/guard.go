package engine

import (
	"context"
	"fmt"
	"strings"

	"storyweave/internal/store"
)

// Guard answers ownership questions. Resolve methods return an error
// wrapping store.ErrNotFound when the id does not exist.
type Guard interface {
	IsElevated(actor store.ActorID) bool
	ResolveNodeOwner(ctx context.Context, nodeID int64) (store.ActorID, error)
	ResolveEdgeSourceOwner(ctx context.Context, edgeID int64) (store.ActorID, error)
}

// StoreGuard resolves owners from the graph store and treats a fixed set of
// actors as elevated.
type StoreGuard struct {
	graph    store.Graph
	elevated map[store.ActorID]struct{}
}

func NewStoreGuard(graph store.Graph, elevated []string) *StoreGuard {
	set := make(map[store.ActorID]struct{}, len(elevated))
	for _, actor := range elevated {
		actor = strings.TrimSpace(actor)
		if actor == "" {
			continue
		}
		set[store.ActorID(actor)] = struct{}{}
	}
	return &StoreGuard{graph: graph, elevated: set}
}

func (g *StoreGuard) IsElevated(actor store.ActorID) bool {
	if actor.IsZero() {
		return false
	}
	_, ok := g.elevated[actor]
	return ok
}

func (g *StoreGuard) ResolveNodeOwner(ctx context.Context, nodeID int64) (store.ActorID, error) {
	node, err := g.graph.FetchNode(ctx, nodeID)
	if err != nil {
		return "", err
	}
	return node.CreatedBy, nil
}

func (g *StoreGuard) ResolveEdgeSourceOwner(ctx context.Context, edgeID int64) (store.ActorID, error) {
	edge, err := g.graph.FetchEdge(ctx, edgeID)
	if err != nil {
		return "", err
	}
	owner, err := g.ResolveNodeOwner(ctx, edge.SourceID)
	if err != nil {
		return "", fmt.Errorf("source of route %d: %w", edgeID, err)
	}
	return owner, nil
}
