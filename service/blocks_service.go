package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"github.com/ludo-technologies/pyblocks/domain"
	"github.com/ludo-technologies/pyblocks/internal/analyzer"
	"github.com/ludo-technologies/pyblocks/internal/parser"
	"github.com/ludo-technologies/pyblocks/internal/version"
)

// BlocksServiceImpl implements domain.BlocksService
type BlocksServiceImpl struct {
	fileReader domain.FileReader
	executor   domain.ParallelExecutor
	progress   domain.ProgressManager
	cache      domain.ResultCache
	logger     *log.Logger
}

// NewBlocksService creates a block analysis service without cache or progress output
func NewBlocksService() *BlocksServiceImpl {
	return &BlocksServiceImpl{
		fileReader: NewFileReader(),
		executor:   NewParallelExecutor(),
		progress:   NoOpProgressManager{},
	}
}

// WithCache enables the result cache
func (s *BlocksServiceImpl) WithCache(cache domain.ResultCache) *BlocksServiceImpl {
	s.cache = cache
	return s
}

// WithProgress sets the progress manager
func (s *BlocksServiceImpl) WithProgress(progress domain.ProgressManager) *BlocksServiceImpl {
	if progress != nil {
		s.progress = progress
	}
	return s
}

// WithExecutor replaces the parallel executor
func (s *BlocksServiceImpl) WithExecutor(executor domain.ParallelExecutor) *BlocksServiceImpl {
	if executor != nil {
		s.executor = executor
	}
	return s
}

// WithFileReader replaces the file reader
func (s *BlocksServiceImpl) WithFileReader(reader domain.FileReader) *BlocksServiceImpl {
	if reader != nil {
		s.fileReader = reader
	}
	return s
}

// SetLogger sets an optional logger for verbose diagnostics
func (s *BlocksServiceImpl) SetLogger(logger *log.Logger) {
	s.logger = logger
}

func (s *BlocksServiceImpl) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// NewClassifier builds the node classifier for the request's extra boundary kinds
func NewClassifier(extraKinds []string) (*analyzer.NodeClassifier, error) {
	kinds := make([]parser.NodeType, 0, len(extraKinds))
	for _, k := range extraKinds {
		if !parser.NewNode(parser.NodeType(k)).IsStatement() {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("boundary kind %q is not a statement kind", k), nil)
		}
		kinds = append(kinds, parser.NodeType(k))
	}
	return analyzer.NewNodeClassifier(kinds...), nil
}

// fileOutcome is the result slot of one file task
type fileOutcome struct {
	blocks *domain.FileBlocks
	err    error
}

// Analyze builds the blocks of every file in req.Paths. Paths must already be
// expanded into files. Per-file failures end up in the response's Errors.
func (s *BlocksServiceImpl) Analyze(ctx context.Context, req domain.BlocksRequest) (*domain.BlocksResponse, error) {
	classifier, err := NewClassifier(req.ExtraBoundaryKinds)
	if err != nil {
		return nil, err
	}

	if req.MaxGoroutines > 0 {
		s.executor.SetMaxConcurrency(req.MaxGoroutines)
	}
	if req.TimeoutSeconds > 0 {
		s.executor.SetTimeout(time.Duration(req.TimeoutSeconds) * time.Second)
	}

	outcomes := make([]fileOutcome, len(req.Paths))
	var processed int64

	s.progress.Initialize(len(req.Paths))
	s.progress.Start()

	tasks := make([]domain.ExecutableTask, len(req.Paths))
	for i, path := range req.Paths {
		tasks[i] = NewSimpleTask(path, true, func(ctx context.Context) (interface{}, error) {
			// tree-sitter parsers are not safe for concurrent use
			p := parser.New()
			blocks, err := s.analyzeFile(ctx, p, path, classifier, req)
			outcomes[i] = fileOutcome{blocks: blocks, err: err}
			s.progress.Update(int(atomic.AddInt64(&processed, 1)), len(req.Paths))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return blocks, nil
		})
	}

	execErr := s.executor.Execute(ctx, tasks)
	s.progress.Complete(execErr == nil)
	if execErr != nil && ctx.Err() != nil {
		return nil, domain.NewAnalysisError("block analysis cancelled", execErr)
	}

	var (
		files    []domain.FileBlocks
		warnings []string
		errs     []string
	)
	for i, outcome := range outcomes {
		switch {
		case outcome.err != nil:
			errs = append(errs, fmt.Sprintf("[%s] %v", req.Paths[i], outcome.err))
		case outcome.blocks == nil:
			errs = append(errs, fmt.Sprintf("[%s] not analyzed", req.Paths[i]))
		default:
			if outcome.blocks.TotalBlocks == 0 {
				warnings = append(warnings, fmt.Sprintf("[%s] no statements found", req.Paths[i]))
			}
			files = append(files, *outcome.blocks)
		}
	}

	if s.cache != nil {
		if err := s.cache.Save(); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to save result cache: %v", err))
		}
	}

	if len(files) == 0 && len(errs) > 0 {
		return nil, domain.NewAnalysisError(
			fmt.Sprintf("no files could be analyzed (%d errors)", len(errs)),
			errors.New(errs[0]),
		)
	}

	summary := s.generateSummary(files)
	reported := s.sortFiles(s.filterFiles(files, req.MinBlocks), req.SortBy)

	return &domain.BlocksResponse{
		Files:       reported,
		Summary:     summary,
		Warnings:    warnings,
		Errors:      errs,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Short(),
		Config:      s.buildConfigForResponse(req, classifier),
	}, nil
}

// AnalyzeFile builds the blocks of a single Python file
func (s *BlocksServiceImpl) AnalyzeFile(ctx context.Context, filePath string, req domain.BlocksRequest) (*domain.FileBlocks, error) {
	classifier, err := NewClassifier(req.ExtraBoundaryKinds)
	if err != nil {
		return nil, err
	}
	return s.analyzeFile(ctx, parser.New(), filePath, classifier, req)
}

func (s *BlocksServiceImpl) analyzeFile(ctx context.Context, p *parser.Parser, filePath string, classifier *analyzer.NodeClassifier, req domain.BlocksRequest) (*domain.FileBlocks, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := s.fileReader.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	fingerprint := fmt.Sprintf("%s|depth=%d", classifier.Fingerprint(), req.MaxDepth)
	if s.cache != nil {
		if cached, ok := s.cache.Get(content, fingerprint); ok {
			s.logf("cache hit: %s", filePath)
			cached.FilePath = filePath
			return cached, nil
		}
	}

	s.logf("analyzing %s", filePath)
	result, err := p.Parse(ctx, content)
	if err != nil {
		return nil, domain.NewParseError(filePath, err)
	}

	builder := analyzer.NewCFGBuilder().WithClassifier(classifier)
	builder.SetMaxDepth(req.MaxDepth)
	builder.SetLogger(s.logger)

	cfg, err := builder.Build(result.Statements())
	if err != nil {
		return nil, domain.NewAnalysisError(fmt.Sprintf("block construction failed for %s", filePath), err)
	}

	blocks, err := NewFileBlocks(filePath, cfg)
	if err != nil {
		return nil, domain.NewAnalysisError(fmt.Sprintf("failed to summarize blocks of %s", filePath), err)
	}

	if s.cache != nil {
		s.cache.Put(content, fingerprint, blocks)
	}
	return blocks, nil
}

// NewFileBlocks converts a built CFG into its report form
func NewFileBlocks(filePath string, cfg *analyzer.CFG) (*domain.FileBlocks, error) {
	groups := cfg.Groups()
	classOf := make(map[int]int, cfg.Size())
	classes := make([]domain.ClassInfo, len(groups))
	for ci, group := range groups {
		for _, id := range group {
			classOf[id] = ci
		}
		classes[ci] = domain.ClassInfo{ID: ci, Blocks: group}
	}

	blocks := make([]domain.BlockInfo, 0, cfg.Size())
	for _, block := range cfg.Blocks {
		successors, err := cfg.Successors(block.ID)
		if err != nil {
			return nil, err
		}
		start, end := block.Lines()

		info := domain.BlockInfo{
			ID:         block.ID,
			Class:      classOf[block.ID],
			StartLine:  start,
			EndLine:    end,
			Statements: len(block.Body),
			Successors: successors,
		}
		for _, call := range block.Calls {
			if name := call.CallName(); name != "" {
				info.Calls = append(info.Calls, name)
			}
		}
		for _, stmt := range block.Body {
			info.Body = append(info.Body, domain.StatementInfo{
				Kind:      string(stmt.Type),
				Label:     statementLabel(stmt),
				StartLine: stmt.Location.StartLine,
				EndLine:   stmt.Location.EndLine,
			})
		}
		blocks = append(blocks, info)
	}

	return &domain.FileBlocks{
		FilePath:     filePath,
		Blocks:       blocks,
		Classes:      classes,
		TotalBlocks:  len(blocks),
		TotalClasses: len(classes),
	}, nil
}

func statementLabel(n *parser.Node) string {
	if n.Type == parser.NodeCall {
		if name := n.CallName(); name != "" {
			return name + "()"
		}
		return "call"
	}
	return n.String()
}

// filterFiles drops files with fewer than minBlocks blocks
func (s *BlocksServiceImpl) filterFiles(files []domain.FileBlocks, minBlocks int) []domain.FileBlocks {
	if minBlocks <= 0 {
		return files
	}
	filtered := make([]domain.FileBlocks, 0, len(files))
	for _, f := range files {
		if f.TotalBlocks >= minBlocks {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// sortFiles orders files; location keeps discovery order
func (s *BlocksServiceImpl) sortFiles(files []domain.FileBlocks, sortBy domain.SortCriteria) []domain.FileBlocks {
	sorted := make([]domain.FileBlocks, len(files))
	copy(sorted, files)

	switch sortBy {
	case domain.SortByName:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].FilePath < sorted[j].FilePath
		})
	case domain.SortByBlocks:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].TotalBlocks > sorted[j].TotalBlocks
		})
	case domain.SortByClasses:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].TotalClasses > sorted[j].TotalClasses
		})
	}
	return sorted
}

// generateSummary aggregates over every analyzed file, including files later
// hidden by the min-blocks filter
func (s *BlocksServiceImpl) generateSummary(files []domain.FileBlocks) domain.BlocksSummary {
	summary := domain.BlocksSummary{FilesAnalyzed: len(files)}
	for i := range files {
		f := &files[i]
		if f.Cached {
			summary.FilesFromCache++
		}
		summary.TotalBlocks += f.TotalBlocks
		summary.TotalClasses += f.TotalClasses
		for _, b := range f.Blocks {
			summary.TotalStatements += b.Statements
			summary.TotalCalls += len(b.Calls)
		}
		if largest := f.LargestClass(); largest > summary.LargestClass {
			summary.LargestClass = largest
		}
	}
	if summary.FilesAnalyzed > 0 {
		summary.AverageBlocksPerFile = float64(summary.TotalBlocks) / float64(summary.FilesAnalyzed)
	}
	return summary
}

func (s *BlocksServiceImpl) buildConfigForResponse(req domain.BlocksRequest, classifier *analyzer.NodeClassifier) map[string]interface{} {
	return map[string]interface{}{
		"boundary_kinds": classifier.BoundaryKinds(),
		"max_depth":      req.MaxDepth,
		"min_blocks":     req.MinBlocks,
		"sort_by":        string(req.SortBy),
	}
}
