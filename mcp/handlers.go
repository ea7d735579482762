package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ludo-technologies/pyblocks/domain"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil, "")
	}
	return &HandlerSet{deps: deps}
}

// HandleBuildBlocks handles the build_blocks tool
func (h *HandlerSet) HandleBuildBlocks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, path, errResult := pathArgument(request)
	if errResult != nil {
		return errResult, nil
	}

	req := h.deps.baseRequest(path)
	if recursive, ok := args["recursive"].(bool); ok {
		req.Recursive = recursive
	}
	req.ExtraBoundaryKinds = append(req.ExtraBoundaryKinds, stringList(args["boundary_kinds"])...)

	outputMode := "summary"
	if om, ok := args["output_mode"].(string); ok && om != "" {
		outputMode = om
	}
	if outputMode != "summary" && outputMode != "full" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid output_mode: %s (want summary or full)", outputMode)), nil
	}

	useCase, err := h.deps.BuildBlocksUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create analyzer: %v", err)), nil
	}

	result, err := useCase.Execute(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("block analysis failed: %v", err)), nil
	}

	var responseData interface{}
	switch outputMode {
	case "full":
		responseData = result
	default:
		responseData = formatBlocksSummary(result)
	}

	return jsonResult(responseData)
}

// HandleBlockClasses handles the block_classes tool
func (h *HandlerSet) HandleBlockClasses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, path, errResult := pathArgument(request)
	if errResult != nil {
		return errResult, nil
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("path is a directory, expected a Python file: %s", path)), nil
	}
	if !h.deps.fileReader.IsValidPythonFile(path) {
		return mcp.NewToolResultError(fmt.Sprintf("not a Python file: %s", path)), nil
	}

	req := h.deps.baseRequest(path)
	req.ExtraBoundaryKinds = append(req.ExtraBoundaryKinds, stringList(args["boundary_kinds"])...)

	result, err := h.deps.NewBlocksService().AnalyzeFile(ctx, path, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("block analysis failed: %v", err)), nil
	}

	return jsonResult(formatBlockClasses(result))
}

// pathArgument extracts the arguments map and the required, existing path
func pathArgument(request mcp.CallToolRequest) (map[string]interface{}, string, *mcp.CallToolResult) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, "", mcp.NewToolResultError("invalid arguments format")
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, "", mcp.NewToolResultError("path parameter is required and must be a string")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, "", mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path))
	}
	return args, path, nil
}

func stringList(raw interface{}) []string {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func jsonResult(data interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func formatBlocksSummary(result *domain.BlocksResponse) map[string]interface{} {
	files := make([]map[string]interface{}, 0, len(result.Files))
	for i := range result.Files {
		f := &result.Files[i]
		calls := 0
		for _, b := range f.Blocks {
			calls += len(b.Calls)
		}
		files = append(files, map[string]interface{}{
			"file_path":     f.FilePath,
			"blocks":        f.TotalBlocks,
			"classes":       f.TotalClasses,
			"largest_class": f.LargestClass(),
			"calls":         calls,
		})
	}

	summary := map[string]interface{}{
		"summary": result.Summary,
		"files":   files,
	}
	if len(result.Warnings) > 0 {
		summary["warnings"] = result.Warnings
	}
	if len(result.Errors) > 0 {
		summary["errors"] = result.Errors
	}
	return summary
}

// formatBlockClasses groups the blocks of one file by class, each block with
// its statements
func formatBlockClasses(result *domain.FileBlocks) map[string]interface{} {
	byID := make(map[int]domain.BlockInfo, len(result.Blocks))
	for _, b := range result.Blocks {
		byID[b.ID] = b
	}

	classes := make([]map[string]interface{}, 0, len(result.Classes))
	for _, class := range result.Classes {
		blocks := make([]map[string]interface{}, 0, len(class.Blocks))
		for _, id := range class.Blocks {
			b := byID[id]
			statements := make([]string, 0, len(b.Body))
			for _, stmt := range b.Body {
				statements = append(statements, fmt.Sprintf("L%d %s", stmt.StartLine, stmt.Label))
			}
			blocks = append(blocks, map[string]interface{}{
				"id":         b.ID,
				"start_line": b.StartLine,
				"end_line":   b.EndLine,
				"statements": statements,
				"calls":      b.Calls,
			})
		}
		classes = append(classes, map[string]interface{}{
			"class":  class.ID,
			"blocks": blocks,
		})
	}

	return map[string]interface{}{
		"file_path":     result.FilePath,
		"total_blocks":  result.TotalBlocks,
		"total_classes": result.TotalClasses,
		"classes":       classes,
	}
}
