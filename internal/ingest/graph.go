package ingest

import (
	"context"

	"storyweave/internal/store"
)

// Engine is the slice of the storyline engine the importer drives. Every
// write goes through the same ownership checks as any other client.
type Engine interface {
	CreateEncounter(ctx context.Context, actor store.ActorID, root bool) (int64, error)
	UpdateEncounterField(ctx context.Context, nodeID int64, fieldName string, value any, actor store.ActorID) error
	CreateRoute(ctx context.Context, sourceID int64, owner, actor store.ActorID) (int64, error)
	UpdateRouteLabel(ctx context.Context, edgeID int64, label string, actor store.ActorID) error
	SetRouteTarget(ctx context.Context, edgeID int64, target *int64, actor store.ActorID) error
}
