package parser

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	t.Run("full frontmatter", func(t *testing.T) {
		content := []byte("---\nkey: hall\ntitle: Great Hall\nroot: true\nbackdrop: 4\ncharacter1: \"9\"\ncharacter2: 10\nroutes:\n  - label: Sit down\n    to: feast\n  - cellar\n---\n\nTorches line the walls.\n")
		doc, err := Parse(content)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if doc.Key != "hall" || doc.Title != "Great Hall" || !doc.Root {
			t.Fatalf("unexpected header: %+v", doc)
		}
		if doc.Backdrop == nil || *doc.Backdrop != 4 {
			t.Fatalf("expected backdrop 4, got %v", doc.Backdrop)
		}
		if doc.Character1 == nil || *doc.Character1 != 9 {
			t.Fatalf("expected character1 9, got %v", doc.Character1)
		}
		if doc.Character2 == nil || *doc.Character2 != 10 {
			t.Fatalf("expected character2 10, got %v", doc.Character2)
		}
		want := []Route{{Label: "Sit down", To: "feast"}, {To: "cellar"}}
		if !reflect.DeepEqual(doc.Routes, want) {
			t.Fatalf("unexpected routes: %#v", doc.Routes)
		}
		if doc.Body != "Torches line the walls." {
			t.Fatalf("unexpected body %q", doc.Body)
		}
	})

	t.Run("minimal frontmatter", func(t *testing.T) {
		doc, err := Parse([]byte("---\nkey: bare\n---\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if doc.Root || doc.Routes != nil || doc.Backdrop != nil {
			t.Fatalf("expected defaults, got %+v", doc)
		}
		if doc.Body != "" {
			t.Fatalf("expected empty body, got %q", doc.Body)
		}
	})

	t.Run("no frontmatter", func(t *testing.T) {
		_, err := Parse([]byte("Just text"))
		if !errors.Is(err, ErrNoFrontmatter) {
			t.Fatalf("expected ErrNoFrontmatter, got %v", err)
		}
	})

	t.Run("missing closing marker", func(t *testing.T) {
		_, err := Parse([]byte("---\nkey: open\n"))
		if !errors.Is(err, ErrNoFrontmatter) {
			t.Fatalf("expected ErrNoFrontmatter, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("---\nkey: [\n---\n"))
		if !errors.Is(err, ErrInvalidYAML) {
			t.Fatalf("expected ErrInvalidYAML, got %v", err)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := Parse([]byte("---\ntitle: Nameless\n---\n"))
		if !errors.Is(err, ErrMissingKey) {
			t.Fatalf("expected ErrMissingKey, got %v", err)
		}
	})

	t.Run("bad image reference", func(t *testing.T) {
		if _, err := Parse([]byte("---\nkey: x\nbackdrop: -1\n---\n")); err == nil {
			t.Fatalf("expected error for negative reference")
		}
		if _, err := Parse([]byte("---\nkey: x\ncharacter2: hero\n---\n")); err == nil {
			t.Fatalf("expected error for non-numeric reference")
		}
	})

	t.Run("bad routes", func(t *testing.T) {
		if _, err := Parse([]byte("---\nkey: x\nroutes: 5\n---\n")); err == nil {
			t.Fatalf("expected error")
		}
		if _, err := Parse([]byte("---\nkey: x\nroutes: [[a]]\n---\n")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("root must be boolean", func(t *testing.T) {
		if _, err := Parse([]byte("---\nkey: x\nroot: maybe\n---\n")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("crlf line endings", func(t *testing.T) {
		doc, err := Parse([]byte("---\r\nkey: win\r\n---\r\nBody\r\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if doc.Key != "win" || doc.Body != "Body" {
			t.Fatalf("unexpected doc: %+v", doc)
		}
	})
}

func TestParseFile(t *testing.T) {
	doc, err := ParseFile(filepath.Join("testdata", "gate.md"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if doc.Title != "The Gate" {
		t.Fatalf("expected title, got %q", doc.Title)
	}
	if len(doc.Routes) != 2 || doc.Routes[1].To != "" {
		t.Fatalf("unexpected routes: %#v", doc.Routes)
	}
	if doc.SourceFile == "" {
		t.Fatalf("expected source file set")
	}
}

func TestParseFile_NoFrontmatter(t *testing.T) {
	_, err := ParseFile(filepath.Join("testdata", "no_frontmatter.md"))
	if !errors.Is(err, ErrNoFrontmatter) {
		t.Fatalf("expected ErrNoFrontmatter, got %v", err)
	}
}

func TestParseFile_MissingKey(t *testing.T) {
	_, err := ParseFile(filepath.Join("testdata", "missing_key.md"))
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestParse_BOMTrim(t *testing.T) {
	doc, err := Parse([]byte("\ufeff---\nkey: bom\n---\n"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if doc.Key != "bom" {
		t.Fatalf("expected key, got %q", doc.Key)
	}
}

func TestParseFile_ReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected missing file")
	}
	if _, err := ParseFile(path); err == nil {
		t.Fatalf("expected error")
	}
}
