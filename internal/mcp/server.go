package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with its registered tools.
type Server struct {
	server *mcp.Server
}

// Config holds server dependencies.
type Config struct {
	Pipeline Asker
	Storage  StatusStore
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	impl := &mcp.Implementation{
		Name:    "pdfask-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question from the indexed document using retrieval-augmented generation. Returns the answer together with the chunks it was grounded on.",
	}, makeAskHandler(cfg.Pipeline))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_chunks",
		Description: "Semantically search the indexed document chunks. Returns raw chunks with similarity scores, without invoking the language model.",
	}, makeSearchHandler(cfg.Pipeline))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "index_status",
		Description: "Report the state of the index: collection name, stored chunk count and readiness.",
	}, makeStatusHandler(cfg.Storage))

	return &Server{server: server}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
