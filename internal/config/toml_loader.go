package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// PyblocksTomlConfig represents the structure of .pyblocks.toml and of the
// [tool.pyblocks] table in pyproject.toml
type PyblocksTomlConfig struct {
	Blocks      BlocksTomlConfig      `toml:"blocks"`
	Output      OutputTomlConfig      `toml:"output"`
	Analysis    AnalysisTomlConfig    `toml:"analysis"`
	Performance PerformanceTomlConfig `toml:"performance"`
	Cache       CacheTomlConfig       `toml:"cache"`
}

type BlocksTomlConfig struct {
	ExtraBoundaryKinds []string `toml:"extra_boundary_kinds"`
	MaxDepth           *int     `toml:"max_depth"` // pointer to detect unset
	MinBlocks          *int     `toml:"min_blocks"`
}

type OutputTomlConfig struct {
	Format         string `toml:"format"`
	ShowStatements *bool  `toml:"show_statements"` // pointer to detect unset
	SortBy         string `toml:"sort_by"`
	Directory      string `toml:"directory"`
}

type AnalysisTomlConfig struct {
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	Recursive       *bool    `toml:"recursive"` // pointer to detect unset
}

type PerformanceTomlConfig struct {
	MaxGoroutines  int `toml:"max_goroutines"`
	TimeoutSeconds int `toml:"timeout_seconds"`
}

type CacheTomlConfig struct {
	Enabled *bool  `toml:"enabled"` // pointer to detect unset
	Path    string `toml:"path"`
}

// pyprojectToml is the subset of pyproject.toml we read
type pyprojectToml struct {
	Tool struct {
		Pyblocks *PyblocksTomlConfig `toml:"pyblocks"`
	} `toml:"tool"`
}

// TomlConfigLoader discovers and loads TOML configuration
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration with priority .pyblocks.toml > pyproject.toml > defaults.
// Both files are searched from startDir up to the filesystem root.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	if path, err := l.findUp(startDir, ConfigFileName); err == nil {
		return l.loadFromPyblocksToml(path)
	}

	if path, err := l.findUp(startDir, "pyproject.toml"); err == nil {
		return l.loadFromPyprojectToml(path)
	}

	return DefaultConfig(), nil
}

// ConfigSource reports which file LoadConfig would read for startDir, or "" for defaults
func (l *TomlConfigLoader) ConfigSource(startDir string) string {
	if path, err := l.findUp(startDir, ConfigFileName); err == nil {
		return path
	}
	if path, err := l.findUp(startDir, "pyproject.toml"); err == nil {
		if ok, _ := l.hasPyblocksSection(path); ok {
			return path
		}
	}
	return ""
}

func (l *TomlConfigLoader) loadFromPyblocksToml(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var tomlCfg PyblocksTomlConfig
	if err := toml.Unmarshal(data, &tomlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return l.finish(path, &tomlCfg)
}

func (l *TomlConfigLoader) loadFromPyprojectToml(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var pyproject pyprojectToml
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if pyproject.Tool.Pyblocks == nil {
		return DefaultConfig(), nil
	}

	return l.finish(path, pyproject.Tool.Pyblocks)
}

func (l *TomlConfigLoader) hasPyblocksSection(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	var pyproject pyprojectToml
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return false, err
	}
	return pyproject.Tool.Pyblocks != nil, nil
}

func (l *TomlConfigLoader) finish(path string, tomlCfg *PyblocksTomlConfig) (*Config, error) {
	cfg := DefaultConfig()
	l.merge(cfg, tomlCfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// findUp walks from startDir towards the root looking for name
func (l *TomlConfigLoader) findUp(startDir, name string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found", name)
		}
		dir = parent
	}
}

// merge overlays the values present in the TOML onto defaults
func (l *TomlConfigLoader) merge(defaults *Config, t *PyblocksTomlConfig) {
	// Blocks
	if t.Blocks.ExtraBoundaryKinds != nil {
		defaults.Blocks.ExtraBoundaryKinds = t.Blocks.ExtraBoundaryKinds
	}
	if t.Blocks.MaxDepth != nil {
		defaults.Blocks.MaxDepth = *t.Blocks.MaxDepth
	}
	if t.Blocks.MinBlocks != nil {
		defaults.Blocks.MinBlocks = *t.Blocks.MinBlocks
	}

	// Output
	if t.Output.Format != "" {
		defaults.Output.Format = t.Output.Format
	}
	if t.Output.ShowStatements != nil {
		defaults.Output.ShowStatements = *t.Output.ShowStatements
	}
	if t.Output.SortBy != "" {
		defaults.Output.SortBy = t.Output.SortBy
	}
	if t.Output.Directory != "" {
		defaults.Output.Directory = t.Output.Directory
	}

	// Analysis
	if len(t.Analysis.IncludePatterns) > 0 {
		defaults.Analysis.IncludePatterns = t.Analysis.IncludePatterns
	}
	if t.Analysis.ExcludePatterns != nil {
		defaults.Analysis.ExcludePatterns = t.Analysis.ExcludePatterns
	}
	if t.Analysis.Recursive != nil {
		defaults.Analysis.Recursive = *t.Analysis.Recursive
	}

	// Performance
	if t.Performance.MaxGoroutines > 0 {
		defaults.Performance.MaxGoroutines = t.Performance.MaxGoroutines
	}
	if t.Performance.TimeoutSeconds > 0 {
		defaults.Performance.TimeoutSeconds = t.Performance.TimeoutSeconds
	}

	// Cache
	if t.Cache.Enabled != nil {
		defaults.Cache.Enabled = *t.Cache.Enabled
	}
	if t.Cache.Path != "" {
		defaults.Cache.Path = t.Cache.Path
	}
}

// GetSupportedConfigFiles returns the file names searched, in priority order
func (l *TomlConfigLoader) GetSupportedConfigFiles() []string {
	return []string{ConfigFileName, "pyproject.toml"}
}
