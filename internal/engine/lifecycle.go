package engine

import (
	"context"
	"fmt"

	"storyweave/internal/store"
)

// CreateBlankEncounter creates a new storyline root owned by actor.
func (s *Service) CreateBlankEncounter(ctx context.Context, actor store.ActorID) (int64, error) {
	return s.CreateEncounter(ctx, actor, true)
}

// CreateEncounter creates an empty encounter owned by actor. Non-root
// encounters become part of a storyline once a route targets them.
func (s *Service) CreateEncounter(ctx context.Context, actor store.ActorID, root bool) (int64, error) {
	const op = "create encounter"
	if actor.IsZero() {
		return 0, validationError(op, "actor is required")
	}
	id, err := s.store.InsertNode(ctx, actor, root)
	if err != nil {
		return 0, s.storeFailure(op, err, "actor", actor)
	}
	s.log.Debug("encounter created", "encounter_id", id, "actor", actor, "root", root)
	return id, nil
}

// DuplicateEncounter copies the image references of sourceID into a new
// non-root encounter owned by owner. Routes are never copied.
func (s *Service) DuplicateEncounter(ctx context.Context, sourceID int64, owner, actor store.ActorID) (int64, error) {
	const op = "duplicate encounter"
	if err := requireID(op, "encounter", sourceID); err != nil {
		return 0, err
	}
	if owner.IsZero() {
		return 0, validationError(op, "target owner is required")
	}
	if !s.mayActAs(actor, owner) {
		return 0, unauthorizedError(op, actor, "create", fmt.Sprintf("encounters of %q", owner))
	}

	id, err := s.store.DuplicateNode(ctx, sourceID, owner)
	if err != nil {
		return 0, s.storeFailure(op, err, "source_id", sourceID)
	}
	s.log.Debug("encounter duplicated", "source_id", sourceID, "encounter_id", id, "owner", owner)
	return id, nil
}

// UpdateEncounterField writes one sanitized field and records actor as the
// last modifier.
func (s *Service) UpdateEncounterField(ctx context.Context, nodeID int64, fieldName string, value any, actor store.ActorID) error {
	const op = "update encounter"
	if err := requireID(op, "encounter", nodeID); err != nil {
		return err
	}
	field, err := store.ParseField(fieldName)
	if err != nil {
		return &Error{Kind: KindInvalidField, Op: op, Err: err}
	}
	fv, err := fieldValue(field, value)
	if err != nil {
		return validationError(op, "%v", err)
	}
	if err := s.authorizeNode(ctx, op, "modify", nodeID, actor); err != nil {
		return err
	}

	if err := s.store.UpdateNodeField(ctx, nodeID, field, fv, actor); err != nil {
		return s.storeFailure(op, err, "encounter_id", nodeID, "field", field.String())
	}
	return nil
}

// DeleteStoryline removes rootID, every encounter reachable from it, and
// every route that starts or ends at one of them. Routes and encounters are
// deleted in a single transaction.
func (s *Service) DeleteStoryline(ctx context.Context, rootID int64, actor store.ActorID) error {
	const op = "delete storyline"
	if err := requireID(op, "encounter", rootID); err != nil {
		return err
	}
	if err := s.authorizeNode(ctx, op, "modify", rootID, actor); err != nil {
		return err
	}

	reached, err := descendants(ctx, s.store, rootID)
	if err != nil {
		return s.storeFailure(op, err, "root_id", rootID)
	}
	all := append([]int64{rootID}, reached...)

	var routes, encounters int64
	err = s.store.InTx(ctx, func(g store.Graph) error {
		var err error
		if routes, err = g.DeleteEdgesTouching(ctx, all); err != nil {
			return err
		}
		if encounters, err = g.DeleteNodes(ctx, all); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return s.storeFailure(op, err, "root_id", rootID, "encounters", len(all))
	}

	s.log.Info("storyline deleted",
		"root_id", rootID,
		"actor", actor,
		"encounters_deleted", encounters,
		"routes_deleted", routes,
	)
	return nil
}

// ListRootNodes lists storyline roots ordered by title. Public scope lists
// every root; otherwise the actor's own, or all of them for an elevated
// actor.
func (s *Service) ListRootNodes(ctx context.Context, actor store.ActorID, scopePublic bool) ([]store.NodeSummary, error) {
	const op = "list roots"
	var owner store.ActorID
	switch {
	case scopePublic, s.guard.IsElevated(actor):
	case actor.IsZero():
		return []store.NodeSummary{}, nil
	default:
		owner = actor
	}

	roots, err := s.store.FetchRootNodes(ctx, owner)
	if err != nil {
		return nil, s.storeFailure(op, err, "actor", actor)
	}
	return roots, nil
}

// ListUnlinkedNodes lists encounters no route targets, ordered by title.
func (s *Service) ListUnlinkedNodes(ctx context.Context) ([]store.NodeSummary, error) {
	nodes, err := FindUnlinkedNodes(ctx, s.store)
	if err != nil {
		return nil, s.storeFailure("list unlinked", err)
	}
	return nodes, nil
}
