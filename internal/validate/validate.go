package validate

import (
	"context"
	"fmt"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
	SeverityInfo  Severity = "info"
)

const (
	codeDanglingRoute     = "dangling_route"
	codeUnwiredRoute      = "unwired_route"
	codeUnlinkedEncounter = "unlinked_encounter"
	codeSelfLoop          = "self_loop"
)

type Issue struct {
	Severity    Severity `json:"severity"`
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	EncounterID int64    `json:"encounter_id,omitempty"`
	RouteID     int64    `json:"route_id,omitempty"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

func (r *Report) HasErrors() bool { return r.Count(SeverityError) > 0 }

// Run checks the structural health of every storyline in the store. Cycles
// are legal; only a route to itself is reported, as info.
func Run(ctx context.Context, g GraphReader) (*Report, error) {
	if g == nil {
		return nil, fmt.Errorf("graph reader is required")
	}

	nodes, err := g.ListNodeSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list encounters: %w", err)
	}
	edges, err := g.ListEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}

	exists := make(map[int64]bool, len(nodes))
	for _, node := range nodes {
		exists[node.ID] = true
	}

	issues := make([]Issue, 0)
	targeted := make(map[int64]bool)

	for _, edge := range edges {
		if !edge.HasTarget() {
			issues = append(issues, Issue{
				Severity:    SeverityWarn,
				Code:        codeUnwiredRoute,
				Message:     fmt.Sprintf("route %q has no target", edge.Label),
				EncounterID: edge.SourceID,
				RouteID:     edge.ID,
			})
			continue
		}

		target := *edge.TargetID
		targeted[target] = true
		switch {
		case !exists[target]:
			issues = append(issues, Issue{
				Severity:    SeverityError,
				Code:        codeDanglingRoute,
				Message:     fmt.Sprintf("route %q targets missing encounter %d", edge.Label, target),
				EncounterID: edge.SourceID,
				RouteID:     edge.ID,
			})
		case target == edge.SourceID:
			issues = append(issues, Issue{
				Severity:    SeverityInfo,
				Code:        codeSelfLoop,
				Message:     fmt.Sprintf("route %q returns to its own encounter", edge.Label),
				EncounterID: edge.SourceID,
				RouteID:     edge.ID,
			})
		}
	}

	for _, node := range nodes {
		if node.IsRoot || targeted[node.ID] {
			continue
		}
		issues = append(issues, Issue{
			Severity:    SeverityWarn,
			Code:        codeUnlinkedEncounter,
			Message:     fmt.Sprintf("encounter %q is not a root and no route leads to it", node.Title),
			EncounterID: node.ID,
		})
	}

	return &Report{Issues: issues}, nil
}
