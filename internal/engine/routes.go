package engine

import (
	"context"
	"errors"

	"storyweave/internal/store"
)

// CreateRoute adds an unwired route from sourceID owned by owner.
func (s *Service) CreateRoute(ctx context.Context, sourceID int64, owner, actor store.ActorID) (int64, error) {
	const op = "create route"
	if err := requireID(op, "encounter", sourceID); err != nil {
		return 0, err
	}
	if owner.IsZero() {
		return 0, validationError(op, "route owner is required")
	}
	if err := s.authorizeNode(ctx, op, "modify", sourceID, actor); err != nil {
		return 0, err
	}

	id, err := s.store.InsertEdge(ctx, sourceID, owner)
	if err != nil {
		return 0, s.storeFailure(op, err, "source_id", sourceID)
	}
	return id, nil
}

func (s *Service) UpdateRouteLabel(ctx context.Context, edgeID int64, label string, actor store.ActorID) error {
	const op = "update route label"
	if err := requireID(op, "route", edgeID); err != nil {
		return err
	}
	if err := s.authorizeEdge(ctx, op, "modify", edgeID, actor); err != nil {
		return err
	}
	if err := s.store.UpdateEdgeLabel(ctx, edgeID, sanitizeText(label)); err != nil {
		return s.storeFailure(op, err, "route_id", edgeID)
	}
	return nil
}

func (s *Service) DeleteRoute(ctx context.Context, edgeID int64, actor store.ActorID) error {
	const op = "delete route"
	if err := requireID(op, "route", edgeID); err != nil {
		return err
	}
	if err := s.authorizeEdge(ctx, op, "modify", edgeID, actor); err != nil {
		return err
	}
	if _, err := s.store.DeleteEdges(ctx, []int64{edgeID}); err != nil {
		return s.storeFailure(op, err, "route_id", edgeID)
	}
	return nil
}

// SetRouteTarget points a route at target, or unwires it when target is
// nil. The target is only checked for existence in strict mode.
func (s *Service) SetRouteTarget(ctx context.Context, edgeID int64, target *int64, actor store.ActorID) error {
	const op = "set route target"
	if err := requireID(op, "route", edgeID); err != nil {
		return err
	}
	if target != nil && *target <= 0 {
		return validationError(op, "target id %d must be positive", *target)
	}
	if err := s.authorizeEdge(ctx, op, "modify", edgeID, actor); err != nil {
		return err
	}

	if target != nil && s.opts.StrictRouteTargets {
		if _, err := s.store.FetchNode(ctx, *target); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFoundError(op, err)
			}
			return s.storeFailure(op, err, "target_id", *target)
		}
	}

	if err := s.store.RebindEdgeTarget(ctx, edgeID, target); err != nil {
		return s.storeFailure(op, err, "route_id", edgeID)
	}
	return nil
}
