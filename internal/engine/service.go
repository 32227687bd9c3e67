package engine

import (
	"context"
	"errors"
	"fmt"

	"storyweave/internal/assets"
	"storyweave/internal/logger"
	"storyweave/internal/store"
)

type Options struct {
	// StrictRouteTargets rejects route targets that do not name an existing
	// encounter. Off by default so editors can wire a route before its
	// destination exists.
	StrictRouteTargets bool
}

// Service is the encounter graph engine. Every operation is a short unit
// of work against the store; the service holds no state between calls.
type Service struct {
	store  store.Store
	guard  Guard
	assets assets.Resolver
	log    *logger.Logger
	opts   Options
}

func New(st store.Store, guard Guard, resolver assets.Resolver, log *logger.Logger, opts Options) *Service {
	if guard == nil {
		guard = NewStoreGuard(st, nil)
	}
	if resolver == nil {
		resolver, _ = assets.NewTemplateResolver(assets.DefaultImagePath)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: st, guard: guard, assets: resolver, log: log, opts: opts}
}

// storeFailure converts a store error into an engine error. Missing rows
// become NotFound; everything else is logged and surfaced as a store error.
func (s *Service) storeFailure(op string, err error, keysAndValues ...any) error {
	if err == nil {
		return nil
	}
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return err
	}
	if errors.Is(err, store.ErrNotFound) {
		return notFoundError(op, err)
	}
	s.log.Error("store operation failed", append([]any{"op", op, "error", err}, keysAndValues...)...)
	return &Error{Kind: KindStore, Op: op, Err: err}
}

func (s *Service) mayActAs(actor, owner store.ActorID) bool {
	if actor.IsZero() {
		return false
	}
	return actor == owner || s.guard.IsElevated(actor)
}

// authorizeNode resolves the node owner before checking the actor, so a
// missing node reports NotFound to everyone.
func (s *Service) authorizeNode(ctx context.Context, op, verb string, nodeID int64, actor store.ActorID) error {
	owner, err := s.guard.ResolveNodeOwner(ctx, nodeID)
	if err != nil {
		return s.storeFailure(op, err, "encounter_id", nodeID)
	}
	if !s.mayActAs(actor, owner) {
		return unauthorizedError(op, actor, verb, fmt.Sprintf("encounter %d", nodeID))
	}
	return nil
}

func (s *Service) authorizeEdge(ctx context.Context, op, verb string, edgeID int64, actor store.ActorID) error {
	owner, err := s.guard.ResolveEdgeSourceOwner(ctx, edgeID)
	if err != nil {
		return s.storeFailure(op, err, "route_id", edgeID)
	}
	if !s.mayActAs(actor, owner) {
		return unauthorizedError(op, actor, verb, fmt.Sprintf("route %d", edgeID))
	}
	return nil
}

func requireID(op, what string, id int64) error {
	if id <= 0 {
		return validationError(op, "%s id is required", what)
	}
	return nil
}
