package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"storyweave/internal/store"
)

var _ store.Store = (*Client)(nil)

// Client stores encounters and routes as Neo4j nodes. Within InTx every call
// runs on the enclosing managed transaction.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	tx       neo4j.ManagedTransaction
}

func NewClient(ctx context.Context, uri, username, password, database string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}

	return &Client{driver: driver, database: database}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.driver == nil || c.tx != nil {
		return nil
	}
	return c.driver.Close(ctx)
}

func (c *Client) InTx(ctx context.Context, fn func(store.Graph) error) error {
	if c.tx != nil {
		return fn(c)
	}

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(&Client{driver: c.driver, database: c.database, tx: tx})
	})
	return err
}

func (c *Client) write(ctx context.Context, work neo4j.ManagedTransactionWork) (any, error) {
	if c.tx != nil {
		return work(c.tx)
	}
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)
	return session.ExecuteWrite(ctx, work)
}

func (c *Client) read(ctx context.Context, work neo4j.ManagedTransactionWork) (any, error) {
	if c.tx != nil {
		return work(c.tx)
	}
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)
	return session.ExecuteRead(ctx, work)
}

func (c *Client) EnsureSchema(ctx context.Context) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
	defer session.Close(ctx)

	statements := []string{
		`CREATE CONSTRAINT encounter_id IF NOT EXISTS FOR (n:Encounter) REQUIRE n.id IS UNIQUE`,
		`CREATE CONSTRAINT route_id IF NOT EXISTS FOR (r:Route) REQUIRE r.id IS UNIQUE`,
		`CREATE CONSTRAINT sequence_name IF NOT EXISTS FOR (s:Sequence) REQUIRE s.name IS UNIQUE`,
		`CREATE INDEX encounter_root IF NOT EXISTS FOR (n:Encounter) ON (n.is_root, n.created_by)`,
		`CREATE INDEX route_source IF NOT EXISTS FOR (r:Route) ON (r.source_id)`,
		`CREATE INDEX route_target IF NOT EXISTS FOR (r:Route) ON (r.target_id)`,
	}

	for _, stmt := range statements {
		if _, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, stmt, nil)
			return nil, err
		}); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}
