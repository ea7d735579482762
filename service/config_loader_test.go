package service

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pyblocks/domain"
	"github.com/ludo-technologies/pyblocks/internal/config"
)

func TestBlocksConfigurationLoader_LoadConfig(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		config.ConfigFileName: "[blocks]\nextra_boundary_kinds = [\"With\"]\nmin_blocks = 3\n\n[output]\nformat = \"json\"\n",
		"src/a.py":            "x = 1\n",
	})

	loader := NewBlocksConfigurationLoader(nil).WithTarget(filepath.Join(root, "src"))
	req, err := loader.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, []string{"With"}, req.ExtraBoundaryKinds)
	assert.Equal(t, 3, req.MinBlocks)
	assert.Equal(t, domain.OutputFormatJSON, req.OutputFormat)
	assert.True(t, req.UseCache)

	_, err = loader.LoadConfig(filepath.Join(root, "missing.toml"))
	assert.Equal(t, domain.ErrCodeConfigError, domain.ErrorCode(err))
}

func TestBlocksConfigurationLoader_LoadDefaultConfig(t *testing.T) {
	req := NewBlocksConfigurationLoader(nil).LoadDefaultConfig()
	assert.Equal(t, domain.OutputFormatText, req.OutputFormat)
	assert.Equal(t, domain.SortByLocation, req.SortBy)
	assert.True(t, req.Recursive)
}

func TestBlocksConfigurationLoader_MergeConfig(t *testing.T) {
	base := &domain.BlocksRequest{
		OutputFormat:       domain.OutputFormatJSON,
		MinBlocks:          3,
		SortBy:             domain.SortByName,
		Recursive:          true,
		ExtraBoundaryKinds: []string{"With"},
		IncludePatterns:    []string{"**/*.py"},
		UseCache:           true,
	}
	var out bytes.Buffer
	override := &domain.BlocksRequest{
		Paths:              []string{"src"},
		OutputFormat:       domain.OutputFormatText,
		OutputWriter:       &out,
		MinBlocks:          0,
		SortBy:             domain.SortByBlocks,
		Recursive:          false,
		ExtraBoundaryKinds: []string{"Raise", "With"},
		UseCache:           false,
	}

	t.Run("no explicit flags keeps file values", func(t *testing.T) {
		merged := NewBlocksConfigurationLoader(nil).MergeConfig(base, override)
		assert.Equal(t, []string{"src"}, merged.Paths)
		assert.Equal(t, &out, merged.OutputWriter)
		assert.Equal(t, domain.OutputFormatJSON, merged.OutputFormat)
		assert.Equal(t, 3, merged.MinBlocks)
		assert.Equal(t, domain.SortByName, merged.SortBy)
		assert.True(t, merged.Recursive)
		assert.Equal(t, []string{"With"}, merged.ExtraBoundaryKinds)
		assert.True(t, merged.UseCache)
	})

	t.Run("explicit flags win", func(t *testing.T) {
		loader := NewBlocksConfigurationLoader(map[string]bool{
			FlagCSV: true, FlagMinBlocks: true, FlagSort: true, FlagRecursive: true,
			FlagBoundary: true, FlagNoCache: true,
		})
		override := *override
		override.OutputFormat = domain.OutputFormatCSV

		merged := loader.MergeConfig(base, &override)
		assert.Equal(t, domain.OutputFormatCSV, merged.OutputFormat)
		assert.Equal(t, 0, merged.MinBlocks)
		assert.Equal(t, domain.SortByBlocks, merged.SortBy)
		assert.False(t, merged.Recursive)
		assert.Equal(t, []string{"With", "Raise"}, merged.ExtraBoundaryKinds)
		assert.False(t, merged.UseCache)
		assert.Equal(t, []string{"**/*.py"}, merged.IncludePatterns)
	})

	t.Run("nil sides", func(t *testing.T) {
		loader := NewBlocksConfigurationLoader(nil)
		assert.Same(t, override, loader.MergeConfig(nil, override))
		assert.Same(t, base, loader.MergeConfig(base, nil))
	})
}

func TestOutputFormatResolver(t *testing.T) {
	r := NewOutputFormatResolver()

	format, ext, err := r.Determine(false, false, false, false)
	require.NoError(t, err)
	assert.Equal(t, domain.OutputFormatText, format)
	assert.Empty(t, ext)

	format, ext, err = r.Determine(false, false, false, true)
	require.NoError(t, err)
	assert.Equal(t, domain.OutputFormatDOT, format)
	assert.Equal(t, "dot", ext)

	_, _, err = r.Determine(true, true, false, false)
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
}
