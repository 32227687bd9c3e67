package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"storyweave/internal/engine"
	"storyweave/internal/store"
	"storyweave/internal/validate"
)

type CreateEncounterInput struct {
	Root *bool `json:"root,omitempty" jsonschema:"create a storyline root (default true)"`
}

type DuplicateEncounterInput struct {
	SourceID int64  `json:"source_id" jsonschema:"encounter to copy image references from"`
	Owner    string `json:"owner,omitempty" jsonschema:"owner of the copy (defaults to the calling actor)"`
}

type UpdateEncounterInput struct {
	ID    int64  `json:"id" jsonschema:"encounter id"`
	Field string `json:"field" jsonschema:"Title, Description, Backdrop, Character1 or Character2"`
	Value any    `json:"value" jsonschema:"text for Title and Description, image id or null for the rest"`
}

type EncounterInput struct {
	ID     int64 `json:"id" jsonschema:"encounter id"`
	Public bool  `json:"public,omitempty" jsonschema:"read with public scope"`
}

type StorylineInput struct {
	ID int64 `json:"id" jsonschema:"root encounter id"`
}

type ListStorylinesInput struct {
	Public bool `json:"public,omitempty" jsonschema:"list every root instead of the actor's own"`
}

type ListUnlinkedInput struct{}

type CreateRouteInput struct {
	SourceID int64 `json:"source_id" jsonschema:"encounter the route leaves from"`
}

type UpdateRouteLabelInput struct {
	ID    int64  `json:"id" jsonschema:"route id"`
	Label string `json:"label" jsonschema:"choice text shown to players"`
}

type SetRouteTargetInput struct {
	ID     int64  `json:"id" jsonschema:"route id"`
	Target *int64 `json:"target" jsonschema:"target encounter id, or null to unwire"`
}

type RouteInput struct {
	ID int64 `json:"id" jsonschema:"route id"`
}

type ValidateInput struct{}

type IDOutput struct {
	ID int64 `json:"id"`
}

type OKOutput struct {
	OK bool `json:"ok"`
}

type EncounterSummaryOutput struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	IsRoot bool   `json:"is_root"`
}

type EncounterListOutput struct {
	Encounters []EncounterSummaryOutput `json:"encounters"`
}

type DescendantsOutput struct {
	IDs []int64 `json:"ids"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "create_encounter",
		Description: "Create a blank encounter owned by the calling actor",
	}, s.handleCreateEncounter)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "duplicate_encounter",
		Description: "Copy an encounter's image references into a new non-root encounter",
	}, s.handleDuplicateEncounter)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "update_encounter",
		Description: "Set one field of an encounter",
	}, s.handleUpdateEncounter)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_encounter",
		Description: "Fetch an encounter with its outgoing routes",
	}, s.handleGetEncounter)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_storylines",
		Description: "List storyline root encounters",
	}, s.handleListStorylines)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_unlinked",
		Description: "List encounters that no route leads to",
	}, s.handleListUnlinked)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "storyline_descendants",
		Description: "List every encounter reachable from a root, excluding the root",
	}, s.handleDescendants)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "delete_storyline",
		Description: "Delete a root, everything reachable from it, and all routes touching them",
	}, s.handleDeleteStoryline)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "create_route",
		Description: "Add an unwired route leaving an encounter",
	}, s.handleCreateRoute)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "update_route_label",
		Description: "Change the text of a route",
	}, s.handleUpdateRouteLabel)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "set_route_target",
		Description: "Point a route at an encounter, or unwire it",
	}, s.handleSetRouteTarget)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "delete_route",
		Description: "Delete a single route",
	}, s.handleDeleteRoute)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "validate_storylines",
		Description: "Report dangling, unwired and unlinked parts of all storylines",
	}, s.handleValidate)
}

func (s *Server) handleCreateEncounter(ctx context.Context, req *sdk.CallToolRequest, input CreateEncounterInput) (*sdk.CallToolResult, IDOutput, error) {
	root := true
	if input.Root != nil {
		root = *input.Root
	}
	id, err := s.svc.CreateEncounter(ctx, s.actor, root)
	if err != nil {
		return nil, IDOutput{}, err
	}
	return nil, IDOutput{ID: id}, nil
}

func (s *Server) handleDuplicateEncounter(ctx context.Context, req *sdk.CallToolRequest, input DuplicateEncounterInput) (*sdk.CallToolResult, IDOutput, error) {
	owner := store.ActorID(input.Owner)
	if owner.IsZero() {
		owner = s.actor
	}
	id, err := s.svc.DuplicateEncounter(ctx, input.SourceID, owner, s.actor)
	if err != nil {
		return nil, IDOutput{}, err
	}
	return nil, IDOutput{ID: id}, nil
}

func (s *Server) handleUpdateEncounter(ctx context.Context, req *sdk.CallToolRequest, input UpdateEncounterInput) (*sdk.CallToolResult, OKOutput, error) {
	if err := s.svc.UpdateEncounterField(ctx, input.ID, input.Field, input.Value, s.actor); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleGetEncounter(ctx context.Context, req *sdk.CallToolRequest, input EncounterInput) (*sdk.CallToolResult, engine.EncounterDetail, error) {
	detail, err := s.svc.FetchEncounter(ctx, input.ID, s.actor, input.Public)
	if err != nil {
		return nil, engine.EncounterDetail{}, err
	}
	return nil, *detail, nil
}

func (s *Server) handleListStorylines(ctx context.Context, req *sdk.CallToolRequest, input ListStorylinesInput) (*sdk.CallToolResult, EncounterListOutput, error) {
	roots, err := s.svc.ListRootNodes(ctx, s.actor, input.Public)
	if err != nil {
		return nil, EncounterListOutput{}, err
	}
	return nil, encounterListOutput(roots), nil
}

func (s *Server) handleListUnlinked(ctx context.Context, req *sdk.CallToolRequest, input ListUnlinkedInput) (*sdk.CallToolResult, EncounterListOutput, error) {
	nodes, err := s.svc.ListUnlinkedNodes(ctx)
	if err != nil {
		return nil, EncounterListOutput{}, err
	}
	return nil, encounterListOutput(nodes), nil
}

func (s *Server) handleDescendants(ctx context.Context, req *sdk.CallToolRequest, input StorylineInput) (*sdk.CallToolResult, DescendantsOutput, error) {
	ids, err := s.svc.Descendants(ctx, input.ID, s.actor)
	if err != nil {
		return nil, DescendantsOutput{}, err
	}
	return nil, DescendantsOutput{IDs: ids}, nil
}

func (s *Server) handleDeleteStoryline(ctx context.Context, req *sdk.CallToolRequest, input StorylineInput) (*sdk.CallToolResult, OKOutput, error) {
	if err := s.svc.DeleteStoryline(ctx, input.ID, s.actor); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleCreateRoute(ctx context.Context, req *sdk.CallToolRequest, input CreateRouteInput) (*sdk.CallToolResult, IDOutput, error) {
	id, err := s.svc.CreateRoute(ctx, input.SourceID, s.actor, s.actor)
	if err != nil {
		return nil, IDOutput{}, err
	}
	return nil, IDOutput{ID: id}, nil
}

func (s *Server) handleUpdateRouteLabel(ctx context.Context, req *sdk.CallToolRequest, input UpdateRouteLabelInput) (*sdk.CallToolResult, OKOutput, error) {
	if err := s.svc.UpdateRouteLabel(ctx, input.ID, input.Label, s.actor); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleSetRouteTarget(ctx context.Context, req *sdk.CallToolRequest, input SetRouteTargetInput) (*sdk.CallToolResult, OKOutput, error) {
	if err := s.svc.SetRouteTarget(ctx, input.ID, input.Target, s.actor); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleDeleteRoute(ctx context.Context, req *sdk.CallToolRequest, input RouteInput) (*sdk.CallToolResult, OKOutput, error) {
	if err := s.svc.DeleteRoute(ctx, input.ID, s.actor); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleValidate(ctx context.Context, req *sdk.CallToolRequest, input ValidateInput) (*sdk.CallToolResult, validate.Report, error) {
	report, err := validate.Run(ctx, s.graph)
	if err != nil {
		return nil, validate.Report{}, err
	}
	return nil, *report, nil
}

func encounterListOutput(nodes []store.NodeSummary) EncounterListOutput {
	out := EncounterListOutput{Encounters: make([]EncounterSummaryOutput, 0, len(nodes))}
	for _, node := range nodes {
		out.Encounters = append(out.Encounters, EncounterSummaryOutput{
			ID:     node.ID,
			Title:  node.Title,
			IsRoot: node.IsRoot,
		})
	}
	return out
}
