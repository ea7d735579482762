package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pyblocks/domain"
	"github.com/ludo-technologies/pyblocks/mcp"
)

const sampleSource = `def handler(x):
    try:
        value = parse(x)
    except ValueError:
        log(x)
        return None
    with open(x) as f:
        f.write(value)
    return value
`

func setupTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func callTool(
	t *testing.T,
	handler func(*mcp.HandlerSet, context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error),
	arguments interface{},
) *mcplib.CallToolResult {
	t.Helper()
	h := mcp.NewHandlerSet(mcp.NewDependencies(nil, ""))
	res, err := handler(h, context.Background(), mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{Arguments: arguments},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func decodeResult(t *testing.T, res *mcplib.CallToolResult, v interface{}) {
	t.Helper()
	require.False(t, res.IsError, resultText(t, res))
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), v))
}

func TestHandleBuildBlocks_ArgumentErrors(t *testing.T) {
	tests := map[string]struct {
		arguments interface{}
		want      string
	}{
		"invalid_arguments_format": {"not-a-map", "invalid arguments format"},
		"path_missing":             {map[string]interface{}{}, "path parameter is required"},
		"path_not_exist":           {map[string]interface{}{"path": "/non/existing/path"}, "path does not exist"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res := callTool(t, (*mcp.HandlerSet).HandleBuildBlocks, tt.arguments)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}

func TestHandleBuildBlocks_Summary(t *testing.T) {
	path := setupTestFile(t, "handler.py", sampleSource)

	res := callTool(t, (*mcp.HandlerSet).HandleBuildBlocks, map[string]interface{}{"path": path})

	var out struct {
		Summary domain.BlocksSummary     `json:"summary"`
		Files   []map[string]interface{} `json:"files"`
	}
	decodeResult(t, res, &out)
	assert.Equal(t, 1, out.Summary.FilesAnalyzed)
	require.Len(t, out.Files, 1)
	assert.Equal(t, path, out.Files[0]["file_path"])
	assert.Greater(t, out.Files[0]["blocks"], float64(1))
}

func TestHandleBuildBlocks_BoundaryKinds(t *testing.T) {
	path := setupTestFile(t, "handler.py", sampleSource)

	blocksWith := func(kinds []interface{}) int {
		args := map[string]interface{}{"path": path, "output_mode": "full"}
		if kinds != nil {
			args["boundary_kinds"] = kinds
		}
		var resp domain.BlocksResponse
		decodeResult(t, callTool(t, (*mcp.HandlerSet).HandleBuildBlocks, args), &resp)
		require.Len(t, resp.Files, 1)
		return resp.Files[0].TotalBlocks
	}

	assert.Greater(t, blocksWith([]interface{}{"With"}), blocksWith(nil))
}

func TestHandleBuildBlocks_InvalidOutputMode(t *testing.T) {
	path := setupTestFile(t, "handler.py", sampleSource)

	res := callTool(t, (*mcp.HandlerSet).HandleBuildBlocks, map[string]interface{}{"path": path, "output_mode": "verbose"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid output_mode")
}

func TestHandleBlockClasses(t *testing.T) {
	path := setupTestFile(t, "handler.py", sampleSource)

	res := callTool(t, (*mcp.HandlerSet).HandleBlockClasses, map[string]interface{}{"path": path})

	var out struct {
		TotalBlocks  int `json:"total_blocks"`
		TotalClasses int `json:"total_classes"`
		Classes      []struct {
			Class  int `json:"class"`
			Blocks []struct {
				ID         int      `json:"id"`
				Statements []string `json:"statements"`
			} `json:"blocks"`
		} `json:"classes"`
	}
	decodeResult(t, res, &out)
	assert.Equal(t, len(out.Classes), out.TotalClasses)

	seen := 0
	for _, class := range out.Classes {
		seen += len(class.Blocks)
	}
	assert.Equal(t, out.TotalBlocks, seen)
}

func TestHandleBlockClasses_RejectsDirectory(t *testing.T) {
	res := callTool(t, (*mcp.HandlerSet).HandleBlockClasses, map[string]interface{}{"path": t.TempDir()})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "path is a directory")
}
