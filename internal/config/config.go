package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "storyweave.yaml"

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Neo4j    Neo4jConfig    `yaml:"neo4j"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Access   AccessConfig   `yaml:"access"`
	Assets   AssetsConfig   `yaml:"assets"`
	Engine   EngineConfig   `yaml:"engine"`
	Import   ImportConfig   `yaml:"import"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// Neo4jConfig carries credentials used when the DSN selects Neo4j.
type Neo4jConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Mode string `yaml:"mode"`
}

type AccessConfig struct {
	Elevated []string `yaml:"elevated"`
}

type AssetsConfig struct {
	ImagePath string `yaml:"image_path"`
}

type EngineConfig struct {
	StrictRouteTargets bool `yaml:"strict_route_targets"`
}

type ImportConfig struct {
	Paths   []string `yaml:"paths"`
	Exclude []string `yaml:"exclude"`
}

type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
	BackendNeo4j    Backend = "neo4j"
)

var backendSchemes = []struct {
	prefix  string
	backend Backend
}{
	{"postgres://", BackendPostgres},
	{"postgresql://", BackendPostgres},
	{"sqlite://", BackendSQLite},
	{"bolt://", BackendNeo4j},
	{"bolt+s://", BackendNeo4j},
	{"neo4j://", BackendNeo4j},
	{"neo4j+s://", BackendNeo4j},
}

// Backend reports which store the DSN selects.
func (d DatabaseConfig) Backend() (Backend, error) {
	dsn := strings.TrimSpace(d.DSN)
	for _, scheme := range backendSchemes {
		if strings.HasPrefix(strings.ToLower(dsn), scheme.prefix) {
			return scheme.backend, nil
		}
	}
	return "", fmt.Errorf("unsupported database dsn scheme: %q", redactDSN(dsn))
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = ":8080"
	}
	if strings.TrimSpace(cfg.Log.Mode) == "" {
		cfg.Log.Mode = "dev"
	}
	if strings.TrimSpace(cfg.Assets.ImagePath) == "" {
		cfg.Assets.ImagePath = "/assets/images/%d"
	}
	if strings.TrimSpace(cfg.Neo4j.Database) == "" {
		cfg.Neo4j.Database = "neo4j"
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	backend, err := cfg.Database.Backend()
	if err != nil {
		return err
	}
	if backend == BackendNeo4j && strings.TrimSpace(cfg.Neo4j.Username) == "" {
		return fmt.Errorf("neo4j username is required for %s", backend)
	}

	switch strings.ToLower(cfg.Log.Mode) {
	case "dev", "prod", "production":
	default:
		return fmt.Errorf("unsupported log mode: %s", cfg.Log.Mode)
	}

	for i, actor := range cfg.Access.Elevated {
		if strings.TrimSpace(actor) == "" {
			return fmt.Errorf("elevated actor %d is empty", i)
		}
	}

	return nil
}

func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return "<invalid>"
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***" + rest[at:]
	}
	return scheme + "://" + rest
}
