package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pyblocks/app"
	"github.com/ludo-technologies/pyblocks/domain"
	"github.com/ludo-technologies/pyblocks/internal/config"
	"github.com/ludo-technologies/pyblocks/service"
)

// BlocksCommand represents the blocks command
type BlocksCommand struct {
	// Output format flags
	json bool
	yaml bool
	csv  bool
	dot  bool

	outputPath     string
	showStatements bool

	// Filtering and sorting
	minBlocks int
	sortBy    string

	// File selection
	recursive       bool
	includePatterns []string
	excludePatterns []string

	// Block construction
	boundaryKinds []string
	maxDepth      int

	noCache    bool
	configPath string
}

// NewBlocksCommand creates a new blocks command
func NewBlocksCommand() *BlocksCommand {
	return &BlocksCommand{
		sortBy:    string(domain.SortByLocation),
		recursive: true,
	}
}

// CreateCobraCommand creates the cobra command for block analysis
func (c *BlocksCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks [paths...]",
		Short: "Split Python files into basic blocks and block classes",
		Long: `Split Python source into basic blocks, link them along control flow
and report the classes of connected blocks.

A block ends at every boundary statement (function and class definitions,
return, loops, if, match, try and except handlers). Use --boundary to add
more statement kinds, for example With or Raise.

Examples:
  pyblocks blocks src/                     # Analyze all Python files in src/
  pyblocks blocks --show-statements app.py # List the statements of every block
  pyblocks blocks --dot app.py > app.dot   # Graphviz output, one cluster per class
  pyblocks blocks --boundary With src/     # Also split at with statements
  pyblocks blocks --min-blocks 10 --sort blocks src/

Sort options:
  location - discovery order (default)
  blocks   - most blocks first
  classes  - most classes first
  name     - by file path`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.runBlocks,
	}

	cmd.Flags().BoolVar(&c.json, service.FlagJSON, false, "Output JSON")
	cmd.Flags().BoolVar(&c.yaml, service.FlagYAML, false, "Output YAML")
	cmd.Flags().BoolVar(&c.csv, service.FlagCSV, false, "Output CSV, one row per block")
	cmd.Flags().BoolVar(&c.dot, service.FlagDOT, false, "Output Graphviz DOT")
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "", "Write the report to this file")
	cmd.Flags().BoolVar(&c.showStatements, service.FlagShowStatements, false, "List the statements of each block")

	cmd.Flags().IntVar(&c.minBlocks, service.FlagMinBlocks, 0, "Only report files with at least this many blocks")
	cmd.Flags().StringVar(&c.sortBy, service.FlagSort, string(domain.SortByLocation), "Sort criteria (location|blocks|classes|name)")

	cmd.Flags().BoolVarP(&c.recursive, service.FlagRecursive, "r", true, "Recursively analyze subdirectories")
	cmd.Flags().StringSliceVar(&c.includePatterns, service.FlagInclude, nil, "Include file patterns")
	cmd.Flags().StringSliceVar(&c.excludePatterns, service.FlagExclude, nil, "Exclude file patterns")

	cmd.Flags().StringSliceVar(&c.boundaryKinds, service.FlagBoundary, nil, "Additional statement kinds that end a block")
	cmd.Flags().IntVar(&c.maxDepth, service.FlagMaxDepth, 0, "Maximum nesting depth (0 = no limit)")

	cmd.Flags().BoolVar(&c.noCache, service.FlagNoCache, false, "Disable the result cache")
	cmd.Flags().StringVarP(&c.configPath, "config", "c", "", "Configuration file path")

	return cmd
}

func (c *BlocksCommand) runBlocks(cmd *cobra.Command, args []string) error {
	format, _, err := service.NewOutputFormatResolver().Determine(c.json, c.yaml, c.csv, c.dot)
	if err != nil {
		return err
	}

	target := getTargetPathFromArgs(args)
	cfg, err := loadProjectConfig(c.configPath, target)
	if err != nil {
		return err
	}

	outputPath := c.outputPath
	if outputPath == "" {
		outputPath = reportPathFor(cfg, format)
	}

	explicitFlags := GetExplicitFlags(cmd)
	tracker := config.NewFlagTracker(explicitFlags)

	request := domain.BlocksRequest{
		Paths:              args,
		Recursive:          c.recursive,
		IncludePatterns:    c.includePatterns,
		ExcludePatterns:    c.excludePatterns,
		ExtraBoundaryKinds: c.boundaryKinds,
		MaxDepth:           c.maxDepth,
		OutputFormat:       format,
		OutputWriter:       cmd.OutOrStdout(),
		OutputPath:         outputPath,
		ShowStatements:     c.showStatements,
		MinBlocks:          c.minBlocks,
		SortBy:             domain.SortCriteria(c.sortBy),
		UseCache:           !c.noCache,
		ConfigPath:         c.configPath,
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	var logger *log.Logger
	if verbose {
		logger = log.New(cmd.ErrOrStderr(), "pyblocks: ", 0)
	}

	blocksService := service.NewBlocksService()
	blocksService.SetLogger(logger)

	useCache := config.Pick(tracker, cfg.Cache.Enabled, !c.noCache, service.FlagNoCache)
	if useCache {
		cache, err := service.LoadResultCache(cacheLocation(cfg))
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		}
		blocksService.WithCache(cache)
	}

	if service.IsInteractiveEnvironment() && !verbose {
		progress := service.NewProgressManager()
		progress.SetWriter(cmd.ErrOrStderr())
		defer progress.Close()
		blocksService.WithProgress(progress)
	}

	showStatements := config.Pick(tracker, cfg.Output.ShowStatements, c.showStatements, service.FlagShowStatements)

	useCase, err := app.NewBlocksUseCaseBuilder().
		WithService(blocksService).
		WithFileReader(service.NewFileReader()).
		WithFormatter(service.NewBlocksFormatter(showStatements)).
		WithConfigLoader(service.NewBlocksConfigurationLoader(explicitFlags).WithTarget(target)).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create blocks use case: %w", err)
	}

	response, err := useCase.Execute(context.Background(), request)
	if err != nil {
		return err
	}

	printRunDiagnostics(cmd.ErrOrStderr(), response, verbose)
	return nil
}

func cacheLocation(cfg *config.Config) string {
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path
	}
	return config.DefaultCacheFile
}

// printRunDiagnostics reports per-file errors on stderr when the report went
// somewhere the user may not be reading
func printRunDiagnostics(w io.Writer, response *domain.BlocksResponse, verbose bool) {
	if response == nil {
		return
	}
	if len(response.Errors) > 0 {
		fmt.Fprintf(w, "%d file(s) could not be analyzed\n", len(response.Errors))
	}
	if verbose {
		fmt.Fprintf(w, "analyzed %d file(s), %d from cache\n",
			response.Summary.FilesAnalyzed, response.Summary.FilesFromCache)
	}
}

// NewBlocksCmd creates and returns the blocks cobra command
func NewBlocksCmd() *cobra.Command {
	return NewBlocksCommand().CreateCobraCommand()
}
