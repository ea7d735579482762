package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/pyblocks/domain"
)

func sampleResponse() *domain.BlocksResponse {
	fb := sampleFileBlocks()
	fb.Blocks[0].Body = []domain.StatementInfo{
		{Kind: "Assign", Label: "Assign", StartLine: 1, EndLine: 1},
		{Kind: "Call", Label: "print()", StartLine: 2, EndLine: 2},
	}
	return &domain.BlocksResponse{
		Files: []domain.FileBlocks{*fb},
		Summary: domain.BlocksSummary{
			FilesAnalyzed:        1,
			TotalBlocks:          2,
			TotalClasses:         1,
			TotalStatements:      3,
			TotalCalls:           1,
			AverageBlocksPerFile: 2,
			LargestClass:         2,
		},
		Warnings:    []string{"[b.py] no statements found"},
		GeneratedAt: "2026-01-01T00:00:00Z",
		Version:     "test",
	}
}

func TestBlocksFormatter_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewBlocksFormatter(false).Write(sampleResponse(), domain.OutputFormatText, &buf))
	out := buf.String()

	assert.Contains(t, out, "Basic Block Analysis")
	assert.Contains(t, out, "a.py")
	assert.Contains(t, out, "bb0")
	assert.Contains(t, out, "-> 1")
	assert.Contains(t, out, "calls: print")
	assert.Contains(t, out, "class 0: [0, 1]")
	assert.Contains(t, out, "Total blocks: 2")
	assert.Contains(t, out, "WARNINGS")
	assert.NotContains(t, out, "print()")

	buf.Reset()
	require.NoError(t, NewBlocksFormatter(true).Write(sampleResponse(), domain.OutputFormatText, &buf))
	assert.Contains(t, buf.String(), "print()")
}

func TestBlocksFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewBlocksFormatter(false).Write(sampleResponse(), domain.OutputFormatJSON, &buf))

	var decoded domain.BlocksResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Files, 1)
	assert.Equal(t, 2, decoded.Files[0].TotalBlocks)
	assert.Equal(t, []int{1}, decoded.Files[0].Blocks[0].Successors)
}

func TestBlocksFormatter_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewBlocksFormatter(false).Write(sampleResponse(), domain.OutputFormatYAML, &buf))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "files")
	assert.Contains(t, decoded, "summary")
}

func TestBlocksFormatter_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewBlocksFormatter(false).Write(sampleResponse(), domain.OutputFormatCSV, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "file", records[0][0])
	assert.Equal(t, []string{"a.py", "0", "0", "1", "2", "2", "print", "1"}, records[1])
	assert.Equal(t, []string{"a.py", "1", "0", "4", "4", "1", "", ""}, records[2])
}

func TestBlocksFormatter_DOT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewBlocksFormatter(false).Write(sampleResponse(), domain.OutputFormatDOT, &buf))
	out := buf.String()

	assert.Contains(t, out, "digraph pyblocks {")
	assert.Contains(t, out, `subgraph "cluster_f0_c0"`)
	assert.Contains(t, out, `"f0_bb0" -> "f0_bb1";`)
	assert.Contains(t, out, `label="a.py class 0"`)
}

func TestBlocksFormatter_Errors(t *testing.T) {
	var buf bytes.Buffer
	err := NewBlocksFormatter(false).Write(sampleResponse(), "html", &buf)
	assert.Equal(t, domain.ErrCodeUnsupportedFormat, domain.ErrorCode(err))

	err = NewBlocksFormatter(false).Write(nil, domain.OutputFormatJSON, &buf)
	assert.Equal(t, domain.ErrCodeOutputError, domain.ErrorCode(err))
}
