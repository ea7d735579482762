package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/pyblocks/domain"
)

// BlocksUseCase orchestrates the basic-block analysis workflow: configuration,
// file discovery, analysis and report output
type BlocksUseCase struct {
	service      domain.BlocksService
	fileReader   domain.FileReader
	formatter    domain.BlocksOutputFormatter
	configLoader domain.BlocksConfigurationLoader
	output       domain.ReportWriter
}

// NewBlocksUseCase creates a new blocks use case
func NewBlocksUseCase(
	service domain.BlocksService,
	fileReader domain.FileReader,
	formatter domain.BlocksOutputFormatter,
	configLoader domain.BlocksConfigurationLoader,
	output domain.ReportWriter,
) *BlocksUseCase {
	return &BlocksUseCase{
		service:      service,
		fileReader:   fileReader,
		formatter:    formatter,
		configLoader: configLoader,
		output:       output,
	}
}

// Execute runs the analysis for req and writes the report. The response is
// returned so callers can inspect errors and summary.
func (uc *BlocksUseCase) Execute(ctx context.Context, req domain.BlocksRequest) (*domain.BlocksResponse, error) {
	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, err
	}

	if err := finalReq.Validate(); err != nil {
		return nil, err
	}

	files, err := ResolveFilePaths(
		uc.fileReader,
		finalReq.Paths,
		finalReq.Recursive,
		finalReq.IncludePatterns,
		finalReq.ExcludePatterns,
	)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no Python files found in the specified paths", nil)
	}
	finalReq.Paths = files

	response, err := uc.service.Analyze(ctx, finalReq)
	if err != nil {
		return nil, domain.NewAnalysisError("block analysis failed", err)
	}

	if err := uc.write(response, finalReq); err != nil {
		return response, err
	}
	return response, nil
}

// AnalyzeFile analyzes a single file without writing a report
func (uc *BlocksUseCase) AnalyzeFile(ctx context.Context, filePath string, req domain.BlocksRequest) (*domain.FileBlocks, error) {
	if !uc.fileReader.IsValidPythonFile(filePath) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not a valid Python file: %s", filePath), nil)
	}
	exists, err := uc.fileReader.FileExists(filePath)
	if err != nil || !exists {
		return nil, domain.NewFileNotFoundError(filePath, err)
	}

	req.Paths = []string{filePath}
	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, err
	}

	result, err := uc.service.AnalyzeFile(ctx, filePath, finalReq)
	if err != nil {
		return nil, domain.NewAnalysisError("file analysis failed", err)
	}
	return result, nil
}

func (uc *BlocksUseCase) write(response *domain.BlocksResponse, req domain.BlocksRequest) error {
	writeFunc := func(w io.Writer) error {
		return uc.formatter.Write(response, req.OutputFormat, w)
	}

	if uc.output == nil {
		if req.OutputWriter == nil {
			return domain.NewOutputError("no output destination", nil)
		}
		if err := writeFunc(req.OutputWriter); err != nil {
			return domain.NewOutputError("failed to write output", err)
		}
		return nil
	}
	return uc.output.Write(req.OutputWriter, req.OutputPath, req.OutputFormat, writeFunc)
}

// loadAndMergeConfig loads the configuration (explicit or discovered) and
// overlays the request on it
func (uc *BlocksUseCase) loadAndMergeConfig(req domain.BlocksRequest) (domain.BlocksRequest, error) {
	if uc.configLoader == nil {
		return req, nil
	}

	configReq, err := uc.configLoader.LoadConfig(req.ConfigPath)
	if err != nil {
		return req, domain.NewConfigError("failed to load configuration", err)
	}
	if configReq == nil {
		configReq = uc.configLoader.LoadDefaultConfig()
	}
	if configReq == nil {
		return req, nil
	}

	return *uc.configLoader.MergeConfig(configReq, &req), nil
}

// BlocksUseCaseBuilder provides a builder pattern for creating BlocksUseCase
type BlocksUseCaseBuilder struct {
	service      domain.BlocksService
	fileReader   domain.FileReader
	formatter    domain.BlocksOutputFormatter
	configLoader domain.BlocksConfigurationLoader
	output       domain.ReportWriter
}

// NewBlocksUseCaseBuilder creates a new builder
func NewBlocksUseCaseBuilder() *BlocksUseCaseBuilder {
	return &BlocksUseCaseBuilder{}
}

func (b *BlocksUseCaseBuilder) WithService(service domain.BlocksService) *BlocksUseCaseBuilder {
	b.service = service
	return b
}

func (b *BlocksUseCaseBuilder) WithFileReader(fileReader domain.FileReader) *BlocksUseCaseBuilder {
	b.fileReader = fileReader
	return b
}

func (b *BlocksUseCaseBuilder) WithFormatter(formatter domain.BlocksOutputFormatter) *BlocksUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader; without one the request is used as given
func (b *BlocksUseCaseBuilder) WithConfigLoader(configLoader domain.BlocksConfigurationLoader) *BlocksUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer; without one reports go to the request's writer
func (b *BlocksUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *BlocksUseCaseBuilder {
	b.output = output
	return b
}

// Build creates the BlocksUseCase with the configured dependencies
func (b *BlocksUseCaseBuilder) Build() (*BlocksUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("blocks service is required")
	}
	if b.fileReader == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	return NewBlocksUseCase(b.service, b.fileReader, b.formatter, b.configLoader, b.output), nil
}
