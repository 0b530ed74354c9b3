// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the resource pipeline to agent clients via stdio transport.
// Writes go through the same escape/sanitize path as HTTP submissions.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/othala/internal/resource"
	"github.com/starford/othala/internal/sanitize"
)

// Server wraps the MCP server with resource tools.
type Server struct {
	mcp *server.MCPServer
	svc *resource.Service
}

// New creates a new MCP server with all resource tools registered.
func New(svc *resource.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Othala",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the configured resource categories and their attribute declarations."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("list_records",
		mcp.WithDescription("List all records of a resource category."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Resource category name")),
	), s.listRecords)

	s.mcp.AddTool(mcp.NewTool("read_record",
		mcp.WithDescription("Read one record by identifier."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Resource category name")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record identifier (alphanumeric)")),
	), s.readRecord)

	s.mcp.AddTool(mcp.NewTool("create_record",
		mcp.WithDescription("Create a record. The record is validated against the category's "+
			"attribute schema exactly like a form submission: call list_categories first to "+
			"learn the declared attributes and their types."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Resource category name")),
		mcp.WithString("record", mcp.Required(), mcp.Description("JSON object of attribute name to value")),
	), s.createRecord)

	s.mcp.AddTool(mcp.NewTool("delete_record",
		mcp.WithDescription("Delete one record by identifier."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Resource category name")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record identifier (alphanumeric)")),
	), s.deleteRecord)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, res := range s.svc.Table().Resources() {
		fmt.Fprintf(&b, "%s:\n", res.Category)
		for _, attr := range res.Attributes {
			fmt.Fprintf(&b, "  %s (%s)\n", attr.Name, attr.Kind)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) listRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	records, err := s.svc.List(ctx, category)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.Detail(ctx, category, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := req.RequireString("record")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var sub sanitize.Submission
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("record is not a JSON object: %v", err)), nil
	}
	created, err := s.svc.Create(ctx, category, sub)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s/%s", category, created.ID())), nil
}

func (s *Server) deleteRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Delete(ctx, category, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s/%s", category, id)), nil
}
