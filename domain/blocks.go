package domain

import (
	"context"
	"fmt"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
	OutputFormatDOT  OutputFormat = "dot"
)

// SupportedOutputFormats lists every accepted OutputFormat
var SupportedOutputFormats = []OutputFormat{
	OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV, OutputFormatDOT,
}

// ParseOutputFormat converts a name into an OutputFormat
func ParseOutputFormat(name string) (OutputFormat, error) {
	for _, f := range SupportedOutputFormats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", NewUnsupportedFormatError(name)
}

// SortCriteria represents the criteria for sorting file results
type SortCriteria string

const (
	SortByLocation SortCriteria = "location"
	SortByBlocks   SortCriteria = "blocks"
	SortByClasses  SortCriteria = "classes"
	SortByName     SortCriteria = "name"
)

// BlocksRequest represents a request for basic-block analysis
type BlocksRequest struct {
	// Input files or directories to analyze
	Paths []string

	// Discovery
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Block construction
	ExtraBoundaryKinds []string
	MaxDepth           int

	// Output configuration
	OutputFormat   OutputFormat
	OutputWriter   io.Writer
	OutputPath     string
	OutputDir      string
	ShowStatements bool

	// Filtering and sorting
	MinBlocks int
	SortBy    SortCriteria

	// Execution
	MaxGoroutines  int
	TimeoutSeconds int

	// Result cache
	UseCache  bool
	CachePath string

	// Configuration
	ConfigPath string
}

// Validate checks the request for obviously wrong values
func (r BlocksRequest) Validate() error {
	if len(r.Paths) == 0 {
		return NewValidationError("no input paths specified")
	}
	if r.MaxDepth < 0 {
		return NewValidationError(fmt.Sprintf("max depth must be >= 0, got %d", r.MaxDepth))
	}
	if r.MaxGoroutines < 0 || r.TimeoutSeconds < 0 {
		return NewValidationError("max goroutines and timeout must be >= 0")
	}
	if r.MinBlocks < 0 {
		return NewValidationError(fmt.Sprintf("min blocks must be >= 0, got %d", r.MinBlocks))
	}
	if r.OutputFormat != "" {
		if _, err := ParseOutputFormat(string(r.OutputFormat)); err != nil {
			return err
		}
	}
	switch r.SortBy {
	case "", SortByLocation, SortByBlocks, SortByClasses, SortByName:
	default:
		return NewValidationError(fmt.Sprintf("invalid sort criteria: %s", r.SortBy))
	}
	return nil
}

// StatementInfo describes one statement held by a block
type StatementInfo struct {
	Kind      string `json:"kind" yaml:"kind" msgpack:"kind"`
	Label     string `json:"label" yaml:"label" msgpack:"label"`
	StartLine int    `json:"start_line" yaml:"start_line" msgpack:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line" msgpack:"end_line"`
}

// BlockInfo describes one basic block
type BlockInfo struct {
	ID         int             `json:"id" yaml:"id" msgpack:"id"`
	Class      int             `json:"class" yaml:"class" msgpack:"class"`
	StartLine  int             `json:"start_line" yaml:"start_line" msgpack:"start_line"`
	EndLine    int             `json:"end_line" yaml:"end_line" msgpack:"end_line"`
	Statements int             `json:"statements" yaml:"statements" msgpack:"statements"`
	Calls      []string        `json:"calls,omitempty" yaml:"calls,omitempty" msgpack:"calls"`
	Successors []int           `json:"successors,omitempty" yaml:"successors,omitempty" msgpack:"successors"`
	Body       []StatementInfo `json:"body,omitempty" yaml:"body,omitempty" msgpack:"body"`
}

// ClassInfo is one group of connected blocks
type ClassInfo struct {
	ID     int   `json:"id" yaml:"id" msgpack:"id"`
	Blocks []int `json:"blocks" yaml:"blocks" msgpack:"blocks"`
}

// FileBlocks is the analysis result for one file
type FileBlocks struct {
	FilePath     string      `json:"file_path" yaml:"file_path" msgpack:"file_path"`
	Blocks       []BlockInfo `json:"blocks" yaml:"blocks" msgpack:"blocks"`
	Classes      []ClassInfo `json:"classes" yaml:"classes" msgpack:"classes"`
	TotalBlocks  int         `json:"total_blocks" yaml:"total_blocks" msgpack:"total_blocks"`
	TotalClasses int         `json:"total_classes" yaml:"total_classes" msgpack:"total_classes"`
	Cached       bool        `json:"-" yaml:"-" msgpack:"-"`
}

// LargestClass returns the number of blocks in the biggest class
func (f *FileBlocks) LargestClass() int {
	largest := 0
	for _, c := range f.Classes {
		if len(c.Blocks) > largest {
			largest = len(c.Blocks)
		}
	}
	return largest
}

// BlocksSummary contains aggregate statistics
type BlocksSummary struct {
	FilesAnalyzed        int     `json:"files_analyzed" yaml:"files_analyzed"`
	FilesFromCache       int     `json:"files_from_cache" yaml:"files_from_cache"`
	TotalBlocks          int     `json:"total_blocks" yaml:"total_blocks"`
	TotalClasses         int     `json:"total_classes" yaml:"total_classes"`
	TotalStatements      int     `json:"total_statements" yaml:"total_statements"`
	TotalCalls           int     `json:"total_calls" yaml:"total_calls"`
	AverageBlocksPerFile float64 `json:"average_blocks_per_file" yaml:"average_blocks_per_file"`
	LargestClass         int     `json:"largest_class" yaml:"largest_class"`
}

// BlocksResponse represents the complete analysis result
type BlocksResponse struct {
	Files   []FileBlocks  `json:"files" yaml:"files"`
	Summary BlocksSummary `json:"summary" yaml:"summary"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	GeneratedAt string      `json:"generated_at" yaml:"generated_at"`
	Version     string      `json:"version" yaml:"version"`
	Config      interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// BlocksService defines the core business logic for basic-block analysis
type BlocksService interface {
	// Analyze analyzes every file of the request
	Analyze(ctx context.Context, req BlocksRequest) (*BlocksResponse, error)

	// AnalyzeFile analyzes a single Python file
	AnalyzeFile(ctx context.Context, filePath string, req BlocksRequest) (*FileBlocks, error)
}

// BlocksOutputFormatter formats analysis results
type BlocksOutputFormatter interface {
	Write(response *BlocksResponse, format OutputFormat, writer io.Writer) error
}

// BlocksConfigurationLoader loads configuration into requests
type BlocksConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path, or discovers it
	// from the working directory when path is empty
	LoadConfig(path string) (*BlocksRequest, error)

	// LoadDefaultConfig returns the built-in defaults
	LoadDefaultConfig() *BlocksRequest

	// MergeConfig overlays explicitly set request fields onto base
	MergeConfig(base *BlocksRequest, override *BlocksRequest) *BlocksRequest
}

// FileReader defines the interface for reading and collecting Python files
type FileReader interface {
	// CollectPythonFiles finds all Python files in the given paths
	CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsValidPythonFile checks if a file is a valid Python file
	IsValidPythonFile(path string) bool

	// FileExists checks if a file exists and returns an error if not
	FileExists(path string) (bool, error)
}

// ResultCache stores per-file results keyed by content
type ResultCache interface {
	// Get returns the cached result for content analysed under fingerprint
	Get(content []byte, fingerprint string) (*FileBlocks, bool)

	// Put stores a result
	Put(content []byte, fingerprint string, result *FileBlocks)

	// Save persists the cache
	Save() error
}
