package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/research-assistant/internal/pipeline"
)

// Server wraps the MCP server with its single dependency, the pipeline
// controller. The controller serializes ingest and query runs, so the
// server needs no locking of its own.
type Server struct {
	server     *mcp.Server
	controller *pipeline.Controller
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(controller *pipeline.Controller) *Server {
	impl := &mcp.Implementation{
		Name:    "research-assistant",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ingest_documents",
		Description: "Ingest PDF documents into the vector index. Replaces the entire existing index and clears the conversation history.",
	}, makeIngestHandler(controller))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question from the ingested documents, grounded in retrieved passages and prior conversation turns.",
	}, makeAskHandler(controller))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_status",
		Description: "Get the assistant's current state, indexed chunk count, and conversation length.",
	}, makeStatusHandler(controller))

	return &Server{
		server:     server,
		controller: controller,
	}
}

// Run starts the server with stdio transport (blocks until the client
// disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
