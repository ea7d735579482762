package service

import (
	"github.com/ludo-technologies/pyblocks/domain"
	"github.com/ludo-technologies/pyblocks/internal/config"
)

// Flag names the loader checks when merging command-line values
const (
	FlagJSON           = "json"
	FlagYAML           = "yaml"
	FlagCSV            = "csv"
	FlagDOT            = "dot"
	FlagShowStatements = "show-statements"
	FlagMinBlocks      = "min-blocks"
	FlagSort           = "sort"
	FlagRecursive      = "recursive"
	FlagInclude        = "include"
	FlagExclude        = "exclude"
	FlagBoundary       = "boundary"
	FlagMaxDepth       = "max-depth"
	FlagNoCache        = "no-cache"
)

// BlocksConfigurationLoaderImpl turns configuration files into requests and
// lets explicitly set flags win over file values
type BlocksConfigurationLoaderImpl struct {
	flags      *config.FlagTracker
	targetPath string
}

// NewBlocksConfigurationLoader creates a loader. explicitFlags holds the names
// of the flags the user actually passed.
func NewBlocksConfigurationLoader(explicitFlags map[string]bool) *BlocksConfigurationLoaderImpl {
	return &BlocksConfigurationLoaderImpl{
		flags: config.NewFlagTracker(explicitFlags),
	}
}

// WithTarget sets where configuration discovery starts when no file is given
func (l *BlocksConfigurationLoaderImpl) WithTarget(path string) *BlocksConfigurationLoaderImpl {
	l.targetPath = path
	return l
}

// LoadConfig loads path, or discovers .pyblocks.toml / pyproject.toml from the
// target when path is empty
func (l *BlocksConfigurationLoaderImpl) LoadConfig(path string) (*domain.BlocksRequest, error) {
	cfg, err := config.LoadConfigWithTarget(path, l.targetPath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}
	req := ConfigToRequest(cfg)
	req.ConfigPath = path
	return req, nil
}

// LoadDefaultConfig returns the built-in defaults
func (l *BlocksConfigurationLoaderImpl) LoadDefaultConfig() *domain.BlocksRequest {
	return ConfigToRequest(config.DefaultConfig())
}

// MergeConfig overlays override onto base. Values that always come from the
// command line (paths, writers, output path) are taken when present; the rest
// only when the matching flag was set.
func (l *BlocksConfigurationLoaderImpl) MergeConfig(base *domain.BlocksRequest, override *domain.BlocksRequest) *domain.BlocksRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base

	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if l.flags.AnySet(FlagJSON, FlagYAML, FlagCSV, FlagDOT) {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	merged.ShowStatements = config.Pick(l.flags, merged.ShowStatements, override.ShowStatements, FlagShowStatements)
	merged.MinBlocks = config.Pick(l.flags, merged.MinBlocks, override.MinBlocks, FlagMinBlocks)
	merged.SortBy = config.Pick(l.flags, merged.SortBy, override.SortBy, FlagSort)
	merged.Recursive = config.Pick(l.flags, merged.Recursive, override.Recursive, FlagRecursive)
	merged.IncludePatterns = config.Pick(l.flags, merged.IncludePatterns, override.IncludePatterns, FlagInclude)
	merged.ExcludePatterns = config.Pick(l.flags, merged.ExcludePatterns, override.ExcludePatterns, FlagExclude)
	merged.MaxDepth = config.Pick(l.flags, merged.MaxDepth, override.MaxDepth, FlagMaxDepth)

	// --boundary adds to the configured kinds
	if l.flags.WasSet(FlagBoundary) {
		merged.ExtraBoundaryKinds = unionStrings(merged.ExtraBoundaryKinds, override.ExtraBoundaryKinds)
	}
	if l.flags.WasSet(FlagNoCache) {
		merged.UseCache = override.UseCache
	}

	return &merged
}

// ConfigToRequest converts a loaded configuration into a request template
func ConfigToRequest(cfg *config.Config) *domain.BlocksRequest {
	return &domain.BlocksRequest{
		Recursive:          cfg.Analysis.Recursive,
		IncludePatterns:    cfg.Analysis.IncludePatterns,
		ExcludePatterns:    cfg.Analysis.ExcludePatterns,
		ExtraBoundaryKinds: cfg.Blocks.ExtraBoundaryKinds,
		MaxDepth:           cfg.Blocks.MaxDepth,
		MinBlocks:          cfg.Blocks.MinBlocks,
		OutputFormat:       domain.OutputFormat(cfg.Output.Format),
		OutputDir:          cfg.Output.Directory,
		ShowStatements:     cfg.Output.ShowStatements,
		SortBy:             domain.SortCriteria(cfg.Output.SortBy),
		MaxGoroutines:      cfg.Performance.MaxGoroutines,
		TimeoutSeconds:     cfg.Performance.TimeoutSeconds,
		UseCache:           cfg.Cache.Enabled,
		CachePath:          cfg.Cache.Path,
	}
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
