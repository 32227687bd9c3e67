package validate

import (
	"context"
	"errors"
	"testing"

	"storyweave/internal/store"
)

type mockGraph struct {
	nodes   []store.NodeSummary
	edges   []store.Edge
	failErr error
}

func (m *mockGraph) ListNodeSummaries(ctx context.Context) ([]store.NodeSummary, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	return m.nodes, nil
}

func (m *mockGraph) ListEdges(ctx context.Context) ([]store.Edge, error) {
	return m.edges, nil
}

func ptr(v int64) *int64 { return &v }

func TestRun_HealthyStoryline(t *testing.T) {
	g := &mockGraph{
		nodes: []store.NodeSummary{{ID: 1, Title: "Gate", IsRoot: true}, {ID: 2, Title: "Yard"}},
		edges: []store.Edge{{ID: 10, SourceID: 1, TargetID: ptr(2)}, {ID: 11, SourceID: 2, TargetID: ptr(1)}},
	}

	report, err := Run(context.Background(), g)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues for a cycle, got %+v", report.Issues)
	}
}

func TestRun_Issues(t *testing.T) {
	g := &mockGraph{
		nodes: []store.NodeSummary{
			{ID: 1, Title: "Gate", IsRoot: true},
			{ID: 2, Title: "Yard"},
			{ID: 3, Title: "Attic"},
		},
		edges: []store.Edge{
			{ID: 10, SourceID: 1, TargetID: ptr(2)},
			{ID: 11, SourceID: 1},
			{ID: 12, SourceID: 2, TargetID: ptr(99)},
			{ID: 13, SourceID: 2, TargetID: ptr(2)},
		},
	}

	report, err := Run(context.Background(), g)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	tests := []struct {
		code     string
		severity Severity
		route    int64
		node     int64
	}{
		{codeUnwiredRoute, SeverityWarn, 11, 1},
		{codeDanglingRoute, SeverityError, 12, 2},
		{codeSelfLoop, SeverityInfo, 13, 2},
		{codeUnlinkedEncounter, SeverityWarn, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			issue, ok := findIssue(report.Issues, tt.code)
			if !ok {
				t.Fatalf("expected %s issue in %+v", tt.code, report.Issues)
			}
			if issue.Severity != tt.severity || issue.RouteID != tt.route || issue.EncounterID != tt.node {
				t.Fatalf("unexpected issue: %+v", issue)
			}
		})
	}

	if len(report.Issues) != 4 {
		t.Fatalf("expected 4 issues, got %+v", report.Issues)
	}
	if !report.HasErrors() || report.Count(SeverityWarn) != 2 {
		t.Fatalf("unexpected counts: errors=%d warnings=%d", report.Count(SeverityError), report.Count(SeverityWarn))
	}
}

func TestRun_StoreFailure(t *testing.T) {
	g := &mockGraph{failErr: errors.New("connection reset")}
	if _, err := Run(context.Background(), g); err == nil {
		t.Fatalf("expected error")
	}
}

func findIssue(issues []Issue, code string) (Issue, bool) {
	for _, issue := range issues {
		if issue.Code == code {
			return issue, true
		}
	}
	return Issue{}, false
}
