package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names
const (
	ToolBuildBlocks  = "build_blocks"
	ToolBlockClasses = "block_classes"
)

// RegisterTools registers the pyblocks MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	if h == nil {
		h = NewHandlerSet(nil)
	}

	s.AddTool(mcp.NewTool(ToolBuildBlocks,
		mcp.WithDescription("Split Python code into basic blocks and report block counts, classes of connected blocks and calls"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to Python code (file or directory) to analyze")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively analyze directories (default: true)")),
		mcp.WithArray("boundary_kinds",
			mcp.WithStringItems(),
			mcp.Description("Extra statement kinds that end a block, e.g. With, Raise")),
		mcp.WithString("output_mode",
			mcp.Enum("summary", "full"),
			mcp.Description("summary: per-file totals (default); full: every block")),
	), h.HandleBuildBlocks)

	s.AddTool(mcp.NewTool(ToolBlockClasses,
		mcp.WithDescription("List the classes of connected basic blocks of one Python file with the statements of each block"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a Python file")),
		mcp.WithArray("boundary_kinds",
			mcp.WithStringItems(),
			mcp.Description("Extra statement kinds that end a block, e.g. With, Raise")),
	), h.HandleBlockClasses)
}
