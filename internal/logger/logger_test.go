package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]interface{}{"dsn", "postgres://u:p@h/db", "encounter_id", 4, "dangling"})
	want := []interface{}{"dsn", "[REDACTED]", "encounter_id", 4, "dangling"}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestWith_CarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("actor", "alice").Info("created", "encounter_id", int64(1), "neo4j_password", "x")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["actor"] != "alice" {
		t.Fatalf("expected actor field, got %v", fields)
	}
	if fields["neo4j_password"] != "[REDACTED]" {
		t.Fatalf("expected redaction, got %v", fields["neo4j_password"])
	}
}

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", ""} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("mode %q: %v", mode, err)
		}
		l.Sync()
	}
	Nop().Info("discarded")
}
