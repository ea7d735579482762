package mcp

import (
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTools(t *testing.T) {
	s := server.NewMCPServer("pyblocks-test", "0.0.0", server.WithToolCapabilities(true))
	RegisterTools(s, nil)

	tools := s.ListTools()
	require.Len(t, tools, 2)
	assert.Contains(t, tools, ToolBuildBlocks)
	assert.Contains(t, tools, ToolBlockClasses)
}
