package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pyblocks/internal/config"
)

// configWithSpareCapacity mimics a decoded TOML list: one kind, room for more.
func configWithSpareCapacity() (*config.Config, []string) {
	kinds := make([]string, 1, 8)
	kinds[0] = "With"
	cfg := config.DefaultConfig()
	cfg.Blocks.ExtraBoundaryKinds = kinds
	return cfg, kinds
}

func TestBaseRequestCopiesBoundaryKinds(t *testing.T) {
	cfg, _ := configWithSpareCapacity()
	deps := NewDependencies(cfg, "")

	first := deps.baseRequest("a.py")
	first.ExtraBoundaryKinds = append(first.ExtraBoundaryKinds, "Raise")

	second := deps.baseRequest("b.py")
	second.ExtraBoundaryKinds = append(second.ExtraBoundaryKinds, "Assert")

	assert.Equal(t, []string{"With", "Raise"}, first.ExtraBoundaryKinds)
	assert.Equal(t, []string{"With", "Assert"}, second.ExtraBoundaryKinds)
	assert.Equal(t, []string{"With"}, cfg.Blocks.ExtraBoundaryKinds)
}

func TestHandlersLeaveConfiguredKindsUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guard.py")
	require.NoError(t, os.WriteFile(path, []byte("def guard(x):\n    assert x\n    raise ValueError(x)\n"), 0o644))

	cfg, kinds := configWithSpareCapacity()
	h := NewHandlerSet(NewDependencies(cfg, ""))

	calls := []struct {
		handler func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error)
		kind    string
	}{
		{h.HandleBuildBlocks, "Raise"},
		{h.HandleBlockClasses, "Assert"},
		{h.HandleBuildBlocks, "Assert"},
	}
	for _, c := range calls {
		res, err := c.handler(context.Background(), mcplib.CallToolRequest{
			Params: mcplib.CallToolParams{Arguments: map[string]interface{}{
				"path":           path,
				"boundary_kinds": []interface{}{c.kind},
			}},
		})
		require.NoError(t, err)
		require.False(t, res.IsError)
	}

	assert.Equal(t, []string{"With"}, cfg.Blocks.ExtraBoundaryKinds)
	for _, k := range kinds[1:cap(kinds)] {
		assert.Empty(t, k, "backing array of the configured kinds was written")
	}
}
