package engine

import (
	"context"
	"errors"

	"storyweave/internal/store"
)

type ImageRef struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
}

type RouteDetail struct {
	ID          int64  `json:"id"`
	Label       string `json:"label"`
	TargetID    *int64 `json:"target_id"`
	TargetTitle string `json:"target_title,omitempty"`
	// TargetMissing marks a route whose target id names no encounter.
	TargetMissing bool `json:"target_missing,omitempty"`
}

type EncounterDetail struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	IsRoot      bool          `json:"is_root"`
	CreatedBy   store.ActorID `json:"created_by"`
	ModifiedBy  store.ActorID `json:"modified_by"`
	Backdrop    *ImageRef     `json:"backdrop"`
	Character1  *ImageRef     `json:"character1"`
	Character2  *ImageRef     `json:"character2"`
	Routes      []RouteDetail `json:"routes"`
}

// FetchEncounter returns an encounter with its outgoing routes. Private
// scope requires the owner or an elevated actor.
func (s *Service) FetchEncounter(ctx context.Context, nodeID int64, actor store.ActorID, scopePublic bool) (*EncounterDetail, error) {
	const op = "fetch encounter"
	if err := requireID(op, "encounter", nodeID); err != nil {
		return nil, err
	}

	if !scopePublic {
		if err := s.authorizeNode(ctx, op, "read", nodeID, actor); err != nil {
			return nil, err
		}
	}

	node, err := s.store.FetchNode(ctx, nodeID)
	if err != nil {
		return nil, s.storeFailure(op, err, "encounter_id", nodeID)
	}

	edges, err := s.store.FetchOutgoingEdges(ctx, nodeID)
	if err != nil {
		return nil, s.storeFailure(op, err, "encounter_id", nodeID)
	}

	detail := &EncounterDetail{
		ID:          node.ID,
		Title:       node.Title,
		Description: node.Description,
		IsRoot:      node.IsRoot,
		CreatedBy:   node.CreatedBy,
		ModifiedBy:  node.ModifiedBy,
		Backdrop:    s.imageRef(node.BackdropID),
		Character1:  s.imageRef(node.Character1),
		Character2:  s.imageRef(node.Character2),
		Routes:      make([]RouteDetail, 0, len(edges)),
	}

	titles := map[int64]*string{}
	for _, edge := range edges {
		route := RouteDetail{ID: edge.ID, Label: edge.Label, TargetID: edge.TargetID}
		if edge.HasTarget() {
			title, err := s.targetTitle(ctx, *edge.TargetID, titles)
			if err != nil {
				return nil, s.storeFailure(op, err, "route_id", edge.ID)
			}
			if title == nil {
				route.TargetMissing = true
			} else {
				route.TargetTitle = *title
			}
		}
		detail.Routes = append(detail.Routes, route)
	}

	return detail, nil
}

func (s *Service) imageRef(id *int64) *ImageRef {
	if id == nil {
		return nil
	}
	return &ImageRef{ID: *id, Path: s.assets.ImagePath(*id)}
}

// targetTitle returns nil for a target that no longer exists.
func (s *Service) targetTitle(ctx context.Context, id int64, seen map[int64]*string) (*string, error) {
	if title, ok := seen[id]; ok {
		return title, nil
	}
	node, err := s.store.FetchNode(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		seen[id] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	seen[id] = &node.Title
	return &node.Title, nil
}
