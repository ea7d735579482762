package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/pyblocks/internal/parser"
)

// Default values shared by the config loaders, the init template and the CLI
const (
	DefaultOutputFormat   = "text"
	DefaultSortBy         = "location"
	DefaultMaxDepth       = 0
	DefaultMinBlocks      = 0
	DefaultTimeoutSeconds = 300
	DefaultCacheFile      = ".pyblocks_cache"
	ConfigFileName        = ".pyblocks.toml"
)

// DefaultMaxGoroutines is the worker bound used when the config leaves it unset
var DefaultMaxGoroutines = runtime.NumCPU()

// Config represents the pyblocks configuration
type Config struct {
	Blocks      BlocksConfig      `mapstructure:"blocks" yaml:"blocks" json:"blocks"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output" json:"output"`
	Analysis    AnalysisConfig    `mapstructure:"analysis" yaml:"analysis" json:"analysis"`
	Performance PerformanceConfig `mapstructure:"performance" yaml:"performance" json:"performance"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache" json:"cache"`
}

// BlocksConfig holds the block construction settings
type BlocksConfig struct {
	// ExtraBoundaryKinds are statement kinds that end a block in addition to the defaults
	ExtraBoundaryKinds []string `mapstructure:"extra_boundary_kinds" yaml:"extra_boundary_kinds" json:"extra_boundary_kinds"`

	// MaxDepth limits nesting; 0 means unlimited
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth" json:"max_depth"`

	// MinBlocks hides files with fewer blocks from the report
	MinBlocks int `mapstructure:"min_blocks" yaml:"min_blocks" json:"min_blocks"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	Format         string `mapstructure:"format" yaml:"format" json:"format"`
	ShowStatements bool   `mapstructure:"show_statements" yaml:"show_statements" json:"show_statements"`
	SortBy         string `mapstructure:"sort_by" yaml:"sort_by" json:"sort_by"`
	Directory      string `mapstructure:"directory" yaml:"directory" json:"directory"`
}

// AnalysisConfig holds file discovery configuration
type AnalysisConfig struct {
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" json:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" json:"exclude_patterns"`
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
}

// PerformanceConfig bounds the parallel file analysis
type PerformanceConfig struct {
	MaxGoroutines  int `mapstructure:"max_goroutines" yaml:"max_goroutines" json:"max_goroutines"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"`
}

// CacheConfig controls the on-disk result cache
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" yaml:"path" json:"path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Blocks: BlocksConfig{
			ExtraBoundaryKinds: []string{},
			MaxDepth:           DefaultMaxDepth,
			MinBlocks:          DefaultMinBlocks,
		},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
			SortBy: DefaultSortBy,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: []string{"**/.venv/**", "**/venv/**", "**/__pycache__/**"},
			Recursive:       true,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  DefaultMaxGoroutines,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    DefaultCacheFile,
		},
	}
}

// LoadConfig loads an explicit configuration file. Any format viper understands
// (toml, yaml, json) is accepted; keys missing from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// pyproject.toml keeps our settings under [tool.pyblocks]
	if filepath.Base(configPath) == "pyproject.toml" {
		sub := v.Sub("tool.pyblocks")
		if sub == nil {
			return config, nil
		}
		v = sub
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget resolves the configuration for an analysis of targetPath.
// An explicit configPath wins; otherwise .pyblocks.toml and pyproject.toml are
// searched from the target directory upwards.
func LoadConfigWithTarget(configPath, targetPath string) (*Config, error) {
	if configPath != "" {
		return LoadConfig(configPath)
	}

	startDir := targetPath
	if startDir == "" {
		startDir = "."
	}
	if info, err := os.Stat(startDir); err == nil && !info.IsDir() {
		startDir = filepath.Dir(startDir)
	}

	return NewTomlConfigLoader().LoadConfig(startDir)
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	for _, kind := range c.Blocks.ExtraBoundaryKinds {
		if kind == "" {
			return fmt.Errorf("blocks.extra_boundary_kinds contains an empty kind")
		}
		if !parser.NewNode(parser.NodeType(kind)).IsStatement() {
			return fmt.Errorf("blocks.extra_boundary_kinds: %q is not a statement kind", kind)
		}
	}

	if c.Blocks.MaxDepth < 0 {
		return fmt.Errorf("blocks.max_depth must be >= 0, got %d", c.Blocks.MaxDepth)
	}
	if c.Blocks.MinBlocks < 0 {
		return fmt.Errorf("blocks.min_blocks must be >= 0, got %d", c.Blocks.MinBlocks)
	}

	switch c.Output.Format {
	case "text", "json", "yaml", "csv", "dot":
	default:
		return fmt.Errorf("output.format must be one of text, json, yaml, csv, dot; got %q", c.Output.Format)
	}

	switch c.Output.SortBy {
	case "location", "blocks", "classes", "name":
	default:
		return fmt.Errorf("output.sort_by must be one of location, blocks, classes, name; got %q", c.Output.SortBy)
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	return nil
}
