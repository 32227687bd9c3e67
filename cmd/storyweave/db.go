package main

import (
	"context"
	"fmt"

	"storyweave/internal/assets"
	"storyweave/internal/config"
	"storyweave/internal/engine"
	"storyweave/internal/graph"
	"storyweave/internal/logger"
	"storyweave/internal/store"
	"storyweave/internal/store/postgres"
	"storyweave/internal/store/sqlite"
)

func openStore(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	backend, err := cfg.Database.Backend()
	if err != nil {
		return nil, err
	}
	switch backend {
	case config.BackendPostgres:
		return postgres.New(ctx, cfg.Database.DSN)
	case config.BackendSQLite:
		return sqlite.New(ctx, cfg.Database.DSN)
	case config.BackendNeo4j:
		return graph.NewClient(ctx, cfg.Database.DSN, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
	default:
		return nil, fmt.Errorf("unsupported backend %q", backend)
	}
}

// app bundles what every data command needs. Close releases the store and
// flushes the logger.
type app struct {
	cfg   *config.ProjectConfig
	log   *logger.Logger
	store store.Store
	svc   *engine.Service
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	resolver, err := assets.NewTemplateResolver(cfg.Assets.ImagePath)
	if err != nil {
		_ = st.Close(ctx)
		log.Sync()
		return nil, fmt.Errorf("assets.image_path: %w", err)
	}

	svc := engine.New(st, engine.NewStoreGuard(st, cfg.Access.Elevated), resolver, log, engine.Options{
		StrictRouteTargets: cfg.Engine.StrictRouteTargets,
	})
	return &app{cfg: cfg, log: log, store: st, svc: svc}, nil
}

func (a *app) Close(ctx context.Context) {
	if err := a.store.Close(ctx); err != nil {
		a.log.Warn("closing store", "error", err)
	}
	a.log.Sync()
}
