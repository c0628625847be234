// Package mcpserver exposes the shop database as MCP tools. Every handler
// reports its own failures inside the result payload so the calling agent
// always receives a well-formed mapping.
package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/shoplite/phone-shop-agent/shopdb"
)

const Version = "0.1.0"

// Server serves the phone shop tool set over an MCP transport.
type Server struct {
	store  *shopdb.Store
	server *mcp.Server
	now    func() time.Time
}

func NewServer(store *shopdb.Store) *Server {
	impl := &mcp.Implementation{
		Name:    "phone-shop",
		Version: Version,
	}

	s := &Server{
		store:  store,
		server: mcp.NewServer(impl, nil),
		now:    time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s
}

// Run serves over stdio and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport. Used with the
// in-memory transport when the server runs inside the agent process.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, transport, nil)
}
