package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is one encounter file: YAML frontmatter followed by the
// encounter description.
type Document struct {
	Frontmatter map[string]any
	Key         string
	Title       string
	Root        bool
	Backdrop    *int64
	Character1  *int64
	Character2  *int64
	Routes      []Route
	Body        string
	SourceFile  string
}

// Route is an outgoing choice. To holds the key of the target document and
// may be empty for an unwired route.
type Route struct {
	Label string
	To    string
}

var (
	ErrNoFrontmatter = errors.New("no frontmatter found")
	ErrInvalidYAML   = errors.New("invalid YAML in frontmatter")
	ErrMissingKey    = errors.New("frontmatter missing required 'key' field")
)

func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.SourceFile = path
	return doc, nil
}

func Parse(content []byte) (*Document, error) {
	trimmed := bytes.TrimLeft(content, "\ufeff\n\r\t ")
	trimmed = bytes.ReplaceAll(trimmed, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(trimmed, []byte("---\n")) {
		return nil, ErrNoFrontmatter
	}

	rest := trimmed[len("---\n"):]
	end := bytes.Index(rest, []byte("---\n"))
	if end == -1 {
		return nil, ErrNoFrontmatter
	}

	yamlBytes := rest[:end]
	body := string(rest[end+len("---\n"):])

	var frontmatter map[string]any
	if err := yaml.Unmarshal(yamlBytes, &frontmatter); err != nil {
		return nil, ErrInvalidYAML
	}

	key := toString(frontmatter["key"])
	if key == "" {
		return nil, ErrMissingKey
	}

	root, err := parseBool(frontmatter["root"])
	if err != nil {
		return nil, fmt.Errorf("root: %w", err)
	}

	doc := &Document{
		Frontmatter: frontmatter,
		Key:         key,
		Title:       toString(frontmatter["title"]),
		Root:        root,
		Body:        strings.TrimSpace(body),
	}

	refs := []struct {
		name string
		dst  **int64
	}{
		{"backdrop", &doc.Backdrop},
		{"character1", &doc.Character1},
		{"character2", &doc.Character2},
	}
	for _, ref := range refs {
		value, err := parseRef(frontmatter[ref.name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref.name, err)
		}
		*ref.dst = value
	}

	routes, err := parseRoutes(frontmatter["routes"])
	if err != nil {
		return nil, err
	}
	doc.Routes = routes

	return doc, nil
}

func parseRoutes(value any) ([]Route, error) {
	if value == nil {
		return nil, nil
	}

	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	default:
		return nil, fmt.Errorf("routes must be a list")
	}

	routes := make([]Route, 0, len(items))
	for i, item := range items {
		switch entry := item.(type) {
		case string:
			routes = append(routes, Route{To: strings.TrimSpace(entry)})
		case map[string]any:
			routes = append(routes, Route{
				Label: toString(entry["label"]),
				To:    toString(entry["to"]),
			})
		default:
			return nil, fmt.Errorf("route %d must be a map or a key", i)
		}
	}
	if len(routes) == 0 {
		return nil, nil
	}
	return routes, nil
}

func parseRef(value any) (*int64, error) {
	var n int64
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if v > 1<<63-1 {
			return nil, fmt.Errorf("image reference %d is too large", v)
		}
		n = int64(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("image reference %q is not an integer", v)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("image reference must be an integer")
	}
	if n <= 0 {
		return nil, fmt.Errorf("image reference %d must be positive", n)
	}
	return &n, nil
}

func parseBool(value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		return false, fmt.Errorf("expected true or false")
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
