package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storyweave/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Client struct {
	db   *sql.DB
	q    querier
	inTx bool
}

func New(ctx context.Context, dsn string) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}

	memory := isMemory(driverDSN)

	db, err := sql.Open("sqlite", withConnParams(driverDSN))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if memory {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	return &Client{db: db, q: db}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c.inTx {
		return nil
	}
	return c.db.Close()
}

func (c *Client) InTx(ctx context.Context, fn func(store.Graph) error) error {
	if c.inTx {
		return fn(c)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Client{db: c.db, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
