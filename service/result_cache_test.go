package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ludo-technologies/pyblocks/domain"
)

func sampleFileBlocks() *domain.FileBlocks {
	return &domain.FileBlocks{
		FilePath: "a.py",
		Blocks: []domain.BlockInfo{
			{ID: 0, Class: 0, StartLine: 1, EndLine: 2, Statements: 2, Calls: []string{"print"}, Successors: []int{1}},
			{ID: 1, Class: 0, StartLine: 4, EndLine: 4, Statements: 1},
		},
		Classes:      []domain.ClassInfo{{ID: 0, Blocks: []int{0, 1}}},
		TotalBlocks:  2,
		TotalClasses: 1,
	}
}

func TestResultCache_GetPut(t *testing.T) {
	c := NewResultCache("")
	content := []byte("print(1)\n")

	_, ok := c.Get(content, "fp")
	assert.False(t, ok)

	c.Put(content, "fp", sampleFileBlocks())
	got, ok := c.Get(content, "fp")
	require.True(t, ok)
	assert.True(t, got.Cached)
	assert.Equal(t, 2, got.TotalBlocks)

	_, ok = c.Get(content, "other")
	assert.False(t, ok, "a different classifier fingerprint misses")
	_, ok = c.Get([]byte("print(2)\n"), "fp")
	assert.False(t, ok, "different content misses")

	c.Put(content, "fp", nil)
	assert.Equal(t, 1, c.Len())
}

func TestResultCache_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "blocks.msgpack")
	content := []byte("x = 1\n")

	c, err := LoadResultCache(path)
	require.NoError(t, err)
	c.Put(content, "fp", sampleFileBlocks())
	require.NoError(t, c.Save())

	loaded, err := LoadResultCache(path)
	require.NoError(t, err)
	got, ok := loaded.Get(content, "fp")
	require.True(t, ok)
	want := sampleFileBlocks()
	want.Cached = true
	assert.Equal(t, want, got)
}

func TestResultCache_SaveSkipsUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.msgpack")
	c := NewResultCache(path)
	require.NoError(t, c.Save())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestResultCache_LoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt")
	require.NoError(t, os.WriteFile(corrupt, []byte{0xc1, 0xff, 0x00}, 0o644))
	c, err := LoadResultCache(corrupt)
	assert.Error(t, err)
	require.NotNil(t, c)
	assert.Zero(t, c.Len())

	old := filepath.Join(dir, "old")
	data, err := msgpack.Marshal(&cacheFile{Version: cacheFormatVersion + 1})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(old, data, 0o644))
	c, err = LoadResultCache(old)
	assert.Error(t, err)
	assert.Zero(t, c.Len())
}
