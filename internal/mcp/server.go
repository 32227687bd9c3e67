package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"storyweave/internal/engine"
	"storyweave/internal/store"
	"storyweave/internal/validate"
)

// Server exposes the storyline engine as MCP tools. Every call acts as the
// actor the server was started with.
type Server struct {
	svc   *engine.Service
	graph validate.GraphReader
	actor store.ActorID
	mcp   *sdk.Server
}

func NewServer(svc *engine.Service, graph validate.GraphReader, actor store.ActorID, version string) *Server {
	s := &Server{
		svc:   svc,
		graph: graph,
		actor: actor,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "storyweave",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
