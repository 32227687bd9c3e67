package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Graph is the data-access surface over encounters (nodes) and routes
// (edges). Implementations carry no policy: ownership and validation live in
// the engine.
type Graph interface {
	InsertNode(ctx context.Context, owner ActorID, root bool) (int64, error)
	UpdateNodeField(ctx context.Context, id int64, field Field, value FieldValue, modifier ActorID) error
	DuplicateNode(ctx context.Context, sourceID int64, owner ActorID) (int64, error)
	FetchNode(ctx context.Context, id int64) (*Node, error)
	DeleteNodes(ctx context.Context, ids []int64) (int64, error)

	InsertEdge(ctx context.Context, sourceID int64, owner ActorID) (int64, error)
	FetchEdge(ctx context.Context, id int64) (*Edge, error)
	UpdateEdgeLabel(ctx context.Context, id int64, label string) error
	RebindEdgeTarget(ctx context.Context, id int64, target *int64) error
	DeleteEdges(ctx context.Context, ids []int64) (int64, error)
	FetchOutgoingEdges(ctx context.Context, nodeID int64) ([]Edge, error)
	// DeleteEdgesTouching removes every edge whose source or target is in
	// nodeIDs and reports how many were removed.
	DeleteEdgesTouching(ctx context.Context, nodeIDs []int64) (int64, error)

	FetchRootNodes(ctx context.Context, owner ActorID) ([]NodeSummary, error)
	FetchAllNodeTargetIDs(ctx context.Context) ([]int64, error)
	ListNodeSummaries(ctx context.Context) ([]NodeSummary, error)
	ListEdges(ctx context.Context) ([]Edge, error)
}

type Store interface {
	Graph

	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	// InTx runs fn against a Graph bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(Graph) error) error
}
