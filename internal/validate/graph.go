package validate

import (
	"context"

	"storyweave/internal/store"
)

type GraphReader interface {
	ListNodeSummaries(ctx context.Context) ([]store.NodeSummary, error)
	ListEdges(ctx context.Context) ([]store.Edge, error)
}
