package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/libsearch/internal/catalog"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the catalog collections.
type Server struct {
	store *catalog.Store
	mcp   *server.MCPServer
}

// NewServer creates a new MCP server reading from store.
func NewServer(store *catalog.Store) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"libsearch",
		Version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(listLibsTool, s.listHandler(catalog.KindLibs))
	s.mcp.AddTool(listReposTool, s.listHandler(catalog.KindRepos))

	return s
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
