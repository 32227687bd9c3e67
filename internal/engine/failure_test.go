package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storyweave/internal/store"
)

var errDiskFull = errors.New("disk full")

// failingStore fails node deletion inside transactions.
type failingStore struct {
	store.Store
}

func (f failingStore) InTx(ctx context.Context, fn func(store.Graph) error) error {
	return f.Store.InTx(ctx, func(g store.Graph) error {
		return fn(failingGraph{Graph: g})
	})
}

type failingGraph struct {
	store.Graph
}

func (failingGraph) DeleteNodes(context.Context, []int64) (int64, error) {
	return 0, errDiskFull
}

type fakeGuard struct {
	owners   map[int64]store.ActorID
	elevated store.ActorID
}

func (g fakeGuard) IsElevated(actor store.ActorID) bool { return actor == g.elevated }

func (g fakeGuard) ResolveNodeOwner(_ context.Context, id int64) (store.ActorID, error) {
	owner, ok := g.owners[id]
	if !ok {
		return "", store.ErrNotFound
	}
	return owner, nil
}

func (g fakeGuard) ResolveEdgeSourceOwner(context.Context, int64) (store.ActorID, error) {
	return "", store.ErrNotFound
}

func TestDeleteStoryline_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)
	healthy := New(st, nil, nil, nil, Options{})

	root := mustCreate(t, healthy, "alice", true)
	child := mustCreate(t, healthy, "alice", false)
	route := mustRoute(t, healthy, root, child, "alice")

	broken := New(failingStore{Store: st}, NewStoreGuard(st, nil), nil, nil, Options{})
	err := broken.DeleteStoryline(ctx, root, "alice")
	if !errors.Is(err, ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	if KindOf(err) != KindStore {
		t.Fatalf("expected kind store, got %q", KindOf(err))
	}
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}

	if _, err := st.FetchEdge(ctx, route); err != nil {
		t.Fatalf("route deleted despite rollback: %v", err)
	}
	for _, id := range []int64{root, child} {
		if _, err := st.FetchNode(ctx, id); err != nil {
			t.Fatalf("encounter %d deleted despite rollback: %v", id, err)
		}
	}
}

func TestInjectedGuard(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)
	id, err := st.InsertNode(ctx, "alice", true)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	// The guard, not the stored creator, decides ownership.
	svc := New(st, fakeGuard{owners: map[int64]store.ActorID{id: "dora"}, elevated: "root"}, nil, nil, Options{})

	if err := svc.UpdateEncounterField(ctx, id, "Title", "x", "alice"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for alice, got %v", err)
	}
	if err := svc.UpdateEncounterField(ctx, id, "Title", "x", "dora"); err != nil {
		t.Fatalf("dora update: %v", err)
	}
	if err := svc.UpdateEncounterField(ctx, id, "Title", "y", "root"); err != nil {
		t.Fatalf("elevated update: %v", err)
	}
	if err := svc.DeleteRoute(ctx, 1, "root"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found from guard, got %v", err)
	}

	if _, err := svc.FetchEncounter(ctx, id, "dora", false); err != nil {
		t.Fatalf("dora private fetch: %v", err)
	}
	_, err = svc.FetchEncounter(ctx, id, "alice", false)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized private fetch for alice, got %v", err)
	}
	if !strings.Contains(err.Error(), "may not read") {
		t.Fatalf("expected read denial, got %q", err)
	}
	if _, err := svc.FetchEncounter(ctx, id, "alice", true); err != nil {
		t.Fatalf("public fetch: %v", err)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
		is   error
	}{
		{validationError("op", "bad"), KindValidation, ErrValidation},
		{notFoundError("op", store.ErrNotFound), KindNotFound, ErrNotFound},
		{unauthorizedError("op", "carol", "modify", "encounter 1"), KindUnauthorized, ErrUnauthorized},
		{&Error{Kind: KindInvalidField, Op: "op", Err: store.ErrInvalidField}, KindInvalidField, ErrInvalidField},
	}
	for _, tt := range tests {
		if KindOf(tt.err) != tt.kind {
			t.Fatalf("expected kind %q, got %q", tt.kind, KindOf(tt.err))
		}
		if !errors.Is(tt.err, tt.is) {
			t.Fatalf("expected %v to match %v", tt.err, tt.is)
		}
	}
	if got := unauthorizedError("op", "carol", "read", "encounter 1").Error(); got != `op: actor "carol" may not read encounter 1` {
		t.Fatalf("unexpected message %q", got)
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors have no kind")
	}
}
