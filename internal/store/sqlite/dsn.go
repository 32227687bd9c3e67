package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const Scheme = "sqlite://"

// parseDSN turns sqlite://<path>[?query] into a path the driver accepts.
// Relative paths are anchored at the working directory.
func parseDSN(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, Scheme) {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected %s", Scheme)
	}

	rest := strings.TrimPrefix(dsn, Scheme)
	if rest == "" {
		return "", fmt.Errorf("sqlite DSN has no path")
	}
	if rest == ":memory:" || strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "./") {
		return rest, nil
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unescaping path: %w", err)
	}
	path = unescaped

	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}
	if hasQuery {
		return path + "?" + query, nil
	}
	return path, nil
}

func isMemory(driverDSN string) bool {
	return driverDSN == ":memory:" || strings.Contains(driverDSN, "mode=memory")
}

// connPragmas are per-connection settings, so they travel in the DSN and
// the driver applies them to every connection the pool opens.
var connPragmas = []struct {
	name  string
	value string
}{
	{"busy_timeout", "30000"},
	{"foreign_keys", "1"},
	{"journal_mode", "WAL"},
}

// withConnParams appends the connection pragmas and an immediate
// transaction lock to a driver DSN. Parameters already present in the DSN
// win. BEGIN IMMEDIATE takes the write lock up front, so a transaction that
// reads before it writes waits on busy_timeout instead of failing its lock
// upgrade.
func withConnParams(driverDSN string) string {
	var params []string
	for _, p := range connPragmas {
		if strings.Contains(driverDSN, "_pragma="+p.name) {
			continue
		}
		params = append(params, fmt.Sprintf("_pragma=%s(%s)", p.name, p.value))
	}
	if !strings.Contains(driverDSN, "_txlock=") {
		params = append(params, "_txlock=immediate")
	}
	if len(params) == 0 {
		return driverDSN
	}

	sep := "?"
	if strings.Contains(driverDSN, "?") {
		sep = "&"
	}
	return driverDSN + sep + strings.Join(params, "&")
}
