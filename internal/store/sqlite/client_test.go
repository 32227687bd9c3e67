package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"storyweave/internal/store"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	client, err := New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close(ctx) })
	if err := client.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return client
}

func fileClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	client, err := New(ctx, "sqlite://"+filepath.Join(t.TempDir(), "story.db"))
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close(ctx) })
	if err := client.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return client
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	client := testClient(t)
	if err := client.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second ensure schema: %v", err)
	}
}

func TestInsertAndFetchNode(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)

	id, err := client.InsertNode(ctx, "alice", true)
	if err != nil {
		t.Fatalf("insert node: %v", err)
	}

	node, err := client.FetchNode(ctx, id)
	if err != nil {
		t.Fatalf("fetch node: %v", err)
	}
	if node.Title != "" || node.Description != "" {
		t.Fatalf("expected blank encounter, got %+v", node)
	}
	if !node.IsRoot {
		t.Fatalf("expected root encounter")
	}
	if node.CreatedBy != "alice" || node.ModifiedBy != "alice" {
		t.Fatalf("unexpected actors: %+v", node)
	}
	if node.BackdropID != nil || node.Character1 != nil || node.Character2 != nil {
		t.Fatalf("expected empty image references: %+v", node)
	}
}

func TestInsertNode_RequiresOwner(t *testing.T) {
	client := testClient(t)
	if _, err := client.InsertNode(context.Background(), "", true); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFetchNode_NotFound(t *testing.T) {
	client := testClient(t)
	_, err := client.FetchNode(context.Background(), 42)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateNodeField(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	id, _ := client.InsertNode(ctx, "alice", true)

	if err := client.UpdateNodeField(ctx, id, store.FieldTitle, store.TextValue("The Gate"), "bob"); err != nil {
		t.Fatalf("update title: %v", err)
	}
	backdrop := int64(7)
	if err := client.UpdateNodeField(ctx, id, store.FieldBackdrop, store.RefValue(&backdrop), "bob"); err != nil {
		t.Fatalf("update backdrop: %v", err)
	}

	node, err := client.FetchNode(ctx, id)
	if err != nil {
		t.Fatalf("fetch node: %v", err)
	}
	if node.Title != "The Gate" {
		t.Fatalf("expected title, got %q", node.Title)
	}
	if node.BackdropID == nil || *node.BackdropID != 7 {
		t.Fatalf("expected backdrop 7, got %v", node.BackdropID)
	}
	if node.ModifiedBy != "bob" || node.CreatedBy != "alice" {
		t.Fatalf("unexpected actors: %+v", node)
	}

	if err := client.UpdateNodeField(ctx, id, store.FieldBackdrop, store.RefValue(nil), "bob"); err != nil {
		t.Fatalf("clear backdrop: %v", err)
	}
	node, _ = client.FetchNode(ctx, id)
	if node.BackdropID != nil {
		t.Fatalf("expected cleared backdrop, got %v", *node.BackdropID)
	}
}

func TestUpdateNodeField_Rejections(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	id, _ := client.InsertNode(ctx, "alice", true)

	if err := client.UpdateNodeField(ctx, id, store.Field(99), store.TextValue("x"), "alice"); !errors.Is(err, store.ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
	if err := client.UpdateNodeField(ctx, id, store.FieldTitle, store.RefValue(nil), "alice"); err == nil {
		t.Fatalf("expected kind mismatch error")
	}
	if err := client.UpdateNodeField(ctx, id+100, store.FieldTitle, store.TextValue("x"), "alice"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDuplicateNode(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	src, _ := client.InsertNode(ctx, "alice", true)
	ref := int64(3)
	_ = client.UpdateNodeField(ctx, src, store.FieldTitle, store.TextValue("Source"), "alice")
	_ = client.UpdateNodeField(ctx, src, store.FieldCharacter2, store.RefValue(&ref), "alice")
	if _, err := client.InsertEdge(ctx, src, "alice"); err != nil {
		t.Fatalf("insert edge: %v", err)
	}

	dup, err := client.DuplicateNode(ctx, src, "bob")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	node, _ := client.FetchNode(ctx, dup)
	if node.IsRoot {
		t.Fatalf("duplicate must not be a root")
	}
	if node.Title != "" {
		t.Fatalf("duplicate must not copy title, got %q", node.Title)
	}
	if node.Character2 == nil || *node.Character2 != 3 {
		t.Fatalf("expected copied character2, got %v", node.Character2)
	}
	if node.CreatedBy != "bob" {
		t.Fatalf("expected owner bob, got %q", node.CreatedBy)
	}
	edges, _ := client.FetchOutgoingEdges(ctx, dup)
	if len(edges) != 0 {
		t.Fatalf("duplicate must not copy routes, got %d", len(edges))
	}

	if _, err := client.DuplicateNode(ctx, 999, "bob"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEdgeLifecycle(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	a, _ := client.InsertNode(ctx, "alice", true)
	b, _ := client.InsertNode(ctx, "alice", false)

	edgeID, err := client.InsertEdge(ctx, a, "alice")
	if err != nil {
		t.Fatalf("insert edge: %v", err)
	}
	edge, err := client.FetchEdge(ctx, edgeID)
	if err != nil {
		t.Fatalf("fetch edge: %v", err)
	}
	if edge.HasTarget() || edge.Label != "" || edge.SourceID != a {
		t.Fatalf("unexpected new edge: %+v", edge)
	}

	if err := client.UpdateEdgeLabel(ctx, edgeID, "Open the door"); err != nil {
		t.Fatalf("update label: %v", err)
	}
	if err := client.RebindEdgeTarget(ctx, edgeID, &b); err != nil {
		t.Fatalf("rebind: %v", err)
	}

	edges, err := client.FetchOutgoingEdges(ctx, a)
	if err != nil {
		t.Fatalf("outgoing: %v", err)
	}
	if len(edges) != 1 || edges[0].Label != "Open the door" || edges[0].TargetID == nil || *edges[0].TargetID != b {
		t.Fatalf("unexpected outgoing edges: %+v", edges)
	}

	targets, _ := client.FetchAllNodeTargetIDs(ctx)
	if !reflect.DeepEqual(targets, []int64{b}) {
		t.Fatalf("unexpected targets: %v", targets)
	}

	if err := client.RebindEdgeTarget(ctx, edgeID, nil); err != nil {
		t.Fatalf("unbind: %v", err)
	}
	edge, _ = client.FetchEdge(ctx, edgeID)
	if edge.HasTarget() {
		t.Fatalf("expected null target")
	}

	deleted, err := client.DeleteEdges(ctx, []int64{edgeID, edgeID + 50})
	if err != nil {
		t.Fatalf("delete edges: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}
	if _, err := client.FetchEdge(ctx, edgeID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertEdge_MissingSource(t *testing.T) {
	client := testClient(t)
	if _, err := client.InsertEdge(context.Background(), 77, "alice"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEdgesTouching(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	a, _ := client.InsertNode(ctx, "alice", true)
	b, _ := client.InsertNode(ctx, "alice", false)
	outside, _ := client.InsertNode(ctx, "bob", true)

	out, _ := client.InsertEdge(ctx, a, "alice")
	_ = client.RebindEdgeTarget(ctx, out, &b)
	inbound, _ := client.InsertEdge(ctx, outside, "bob")
	_ = client.RebindEdgeTarget(ctx, inbound, &b)
	unrelated, _ := client.InsertEdge(ctx, outside, "bob")

	removed, err := client.DeleteEdgesTouching(ctx, []int64{a, b})
	if err != nil {
		t.Fatalf("delete touching: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 routes removed, got %d", removed)
	}
	for _, id := range []int64{out, inbound} {
		if _, err := client.FetchEdge(ctx, id); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("route %d should be gone, got %v", id, err)
		}
	}
	if _, err := client.FetchEdge(ctx, unrelated); err != nil {
		t.Fatalf("unrelated route should survive: %v", err)
	}

	removed, err = client.DeleteEdgesTouching(ctx, nil)
	if err != nil || removed != 0 {
		t.Fatalf("expected no-op for empty set, got %d, %v", removed, err)
	}
}

func TestFetchRootNodes(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	a, _ := client.InsertNode(ctx, "alice", true)
	_, _ = client.InsertNode(ctx, "alice", false)
	b, _ := client.InsertNode(ctx, "bob", true)
	_ = client.UpdateNodeField(ctx, a, store.FieldTitle, store.TextValue("Zeta"), "alice")
	_ = client.UpdateNodeField(ctx, b, store.FieldTitle, store.TextValue("Alpha"), "bob")

	all, err := client.FetchRootNodes(ctx, "")
	if err != nil {
		t.Fatalf("fetch roots: %v", err)
	}
	want := []store.NodeSummary{{ID: b, Title: "Alpha", IsRoot: true}, {ID: a, Title: "Zeta", IsRoot: true}}
	if !reflect.DeepEqual(all, want) {
		t.Fatalf("expected %+v, got %+v", want, all)
	}

	mine, _ := client.FetchRootNodes(ctx, "alice")
	if len(mine) != 1 || mine[0].ID != a {
		t.Fatalf("expected only alice's root, got %+v", mine)
	}
}

func TestDeleteNodes_Idempotent(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	a, _ := client.InsertNode(ctx, "alice", true)

	deleted, err := client.DeleteNodes(ctx, []int64{a, 404})
	if err != nil {
		t.Fatalf("delete nodes: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}
	deleted, err = client.DeleteNodes(ctx, []int64{a})
	if err != nil || deleted != 0 {
		t.Fatalf("expected idempotent delete, got %d, %v", deleted, err)
	}
}

func TestInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	a, _ := client.InsertNode(ctx, "alice", true)
	edge, _ := client.InsertEdge(ctx, a, "alice")

	boom := errors.New("boom")
	err := client.InTx(ctx, func(g store.Graph) error {
		if _, err := g.DeleteEdges(ctx, []int64{edge}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := client.FetchEdge(ctx, edge); err != nil {
		t.Fatalf("edge should survive rollback: %v", err)
	}

	err = client.InTx(ctx, func(g store.Graph) error {
		if _, err := g.DeleteEdges(ctx, []int64{edge}); err != nil {
			return err
		}
		_, err := g.DeleteNodes(ctx, []int64{a})
		return err
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := client.FetchNode(ctx, a); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected node gone, got %v", err)
	}
}

func TestDeleteNodes_RefusesWhileRoutesReferenceSource(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	a, _ := client.InsertNode(ctx, "alice", true)
	if _, err := client.InsertEdge(ctx, a, "alice"); err != nil {
		t.Fatalf("insert edge: %v", err)
	}
	if _, err := client.DeleteNodes(ctx, []int64{a}); err == nil {
		t.Fatalf("expected foreign key violation")
	}
}

func TestFileStore_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	client := fileClient(t)

	const workers, perWorker = 16, 10
	errs := make(chan error, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			owner := store.ActorID(fmt.Sprintf("writer-%d", w))
			for i := 0; i < perWorker; i++ {
				node, err := client.InsertNode(ctx, owner, i == 0)
				if err != nil {
					errs <- fmt.Errorf("insert node: %w", err)
					return
				}
				edge, err := client.InsertEdge(ctx, node, owner)
				if err != nil {
					errs <- fmt.Errorf("insert edge: %w", err)
					return
				}
				if err := client.RebindEdgeTarget(ctx, edge, &node); err != nil {
					errs <- fmt.Errorf("rebind: %w", err)
					return
				}
				err = client.InTx(ctx, func(g store.Graph) error {
					edges, err := g.FetchOutgoingEdges(ctx, node)
					if err != nil {
						return err
					}
					for _, e := range edges {
						if err := g.UpdateEdgeLabel(ctx, e.ID, fmt.Sprintf("step %d", i)); err != nil {
							return err
						}
					}
					return nil
				})
				if err != nil {
					errs <- fmt.Errorf("read-then-write tx: %w", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent write failed: %v", err)
	}

	summaries, err := client.ListNodeSummaries(ctx)
	if err != nil {
		t.Fatalf("list summaries: %v", err)
	}
	if len(summaries) != workers*perWorker {
		t.Fatalf("expected %d encounters, got %d", workers*perWorker, len(summaries))
	}
}

func TestFileStore_PragmasOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	client := fileClient(t)

	first, err := client.db.Conn(ctx)
	if err != nil {
		t.Fatalf("first conn: %v", err)
	}
	defer first.Close()
	second, err := client.db.Conn(ctx)
	if err != nil {
		t.Fatalf("second conn: %v", err)
	}
	defer second.Close()

	for i, conn := range []*sql.Conn{first, second} {
		var fk, busy int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("conn %d: foreign_keys: %v", i, err)
		}
		if err := conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busy); err != nil {
			t.Fatalf("conn %d: busy_timeout: %v", i, err)
		}
		if fk != 1 || busy != 30000 {
			t.Fatalf("conn %d: expected foreign_keys=1 busy_timeout=30000, got %d %d", i, fk, busy)
		}
	}

	_, err = second.ExecContext(ctx,
		"INSERT INTO routes (source_id, label, created_by) VALUES (999, '', 'x')")
	if err == nil {
		t.Fatalf("expected foreign key violation for missing source on second connection")
	}
}
