package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"storyweave/internal/parser"
	"storyweave/internal/store"
)

// Run imports every markdown storyline file under paths as actor.
// Encounters are created first so routes can be wired by key in a second
// pass. Per-file failures are collected in Result.Errors.
func Run(ctx context.Context, eng Engine, actor store.ActorID, paths []string, options Options) (*Result, error) {
	if actor.IsZero() {
		return nil, fmt.Errorf("import requires an actor")
	}

	files, err := walkMarkdownFiles(paths, options.Exclude)
	if err != nil {
		return nil, fmt.Errorf("walking storyline files: %w", err)
	}

	result := &Result{Keys: make(map[string]int64)}
	var docs []*parser.Document
	seen := make(map[string]string)

	for _, path := range files {
		doc, err := parser.ParseFile(path)
		if err != nil {
			if errors.Is(err, parser.ErrNoFrontmatter) {
				result.FilesSkipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Errorf("parsing %s: %w", path, err))
			continue
		}
		if first, ok := seen[doc.Key]; ok {
			result.Errors = append(result.Errors, fmt.Errorf("parsing %s: key %q already used by %s", path, doc.Key, first))
			continue
		}
		seen[doc.Key] = path
		docs = append(docs, doc)
	}

	var created []*parser.Document
	for _, doc := range docs {
		id, err := createEncounter(ctx, eng, actor, doc)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("importing %s: %w", doc.SourceFile, err))
			if id == 0 {
				continue
			}
		}
		result.Keys[doc.Key] = id
		result.EncountersCreated++
		created = append(created, doc)
	}

	for _, doc := range created {
		source := result.Keys[doc.Key]
		for i, route := range doc.Routes {
			edgeID, err := eng.CreateRoute(ctx, source, actor, actor)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("route %d of %s: %w", i, doc.Key, err))
				continue
			}
			result.RoutesCreated++

			if route.Label != "" {
				if err := eng.UpdateRouteLabel(ctx, edgeID, route.Label, actor); err != nil {
					result.Errors = append(result.Errors, fmt.Errorf("labelling route %d of %s: %w", i, doc.Key, err))
				}
			}

			if route.To == "" {
				continue
			}
			target, ok := result.Keys[route.To]
			if !ok {
				result.Errors = append(result.Errors, fmt.Errorf("route %d of %s: unknown target key %q", i, doc.Key, route.To))
				continue
			}
			if err := eng.SetRouteTarget(ctx, edgeID, &target, actor); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("wiring route %d of %s: %w", i, doc.Key, err))
				continue
			}
			result.RoutesWired++
		}
	}

	return result, nil
}

// createEncounter returns the new id even when a later field write fails,
// so the caller can still wire routes to it.
func createEncounter(ctx context.Context, eng Engine, actor store.ActorID, doc *parser.Document) (int64, error) {
	id, err := eng.CreateEncounter(ctx, actor, doc.Root)
	if err != nil {
		return 0, err
	}

	fields := []struct {
		name  string
		value any
		set   bool
	}{
		{"Title", doc.Title, doc.Title != ""},
		{"Description", doc.Body, doc.Body != ""},
		{"Backdrop", doc.Backdrop, doc.Backdrop != nil},
		{"Character1", doc.Character1, doc.Character1 != nil},
		{"Character2", doc.Character2, doc.Character2 != nil},
	}
	for _, f := range fields {
		if !f.set {
			continue
		}
		if err := eng.UpdateEncounterField(ctx, id, f.name, f.value, actor); err != nil {
			return id, fmt.Errorf("setting %s: %w", f.name, err)
		}
	}
	return id, nil
}

func walkMarkdownFiles(roots []string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && isExcluded(path, excluded) {
				return filepath.SkipDir
			}
			if d.IsDir() {
				return nil
			}
			if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
				return nil
			}
			if isExcluded(path, excluded) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}
