package mcp

import (
	"io"
	"log"
	"slices"

	"github.com/ludo-technologies/pyblocks/app"
	"github.com/ludo-technologies/pyblocks/domain"
	"github.com/ludo-technologies/pyblocks/internal/config"
	"github.com/ludo-technologies/pyblocks/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fileReader domain.FileReader
	config     *config.Config
	configPath string
	logger     *log.Logger
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config, configPath string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Dependencies{
		fileReader: service.NewFileReader(),
		config:     cfg,
		configPath: configPath,
	}
}

// WithLogger sets the logger handed to the block service
func (d *Dependencies) WithLogger(logger *log.Logger) *Dependencies {
	d.logger = logger
	return d
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// NewBlocksService creates a block service. MCP calls are short lived, so no
// progress output and no cache.
func (d *Dependencies) NewBlocksService() *service.BlocksServiceImpl {
	svc := service.NewBlocksService().WithFileReader(d.fileReader)
	svc.SetLogger(d.logger)
	return svc
}

// BuildBlocksUseCase assembles a fresh BlocksUseCase. The configuration was
// resolved at startup, so the use case runs without a loader.
func (d *Dependencies) BuildBlocksUseCase() (*app.BlocksUseCase, error) {
	return app.NewBlocksUseCaseBuilder().
		WithService(d.NewBlocksService()).
		WithFileReader(d.fileReader).
		WithFormatter(service.NewBlocksFormatter(false)).
		Build()
}

// baseRequest builds a request from the loaded configuration. Slices are
// copied so handlers can append to them.
func (d *Dependencies) baseRequest(path string) domain.BlocksRequest {
	req := *service.ConfigToRequest(d.config)
	req.ExtraBoundaryKinds = slices.Clone(req.ExtraBoundaryKinds)
	req.IncludePatterns = slices.Clone(req.IncludePatterns)
	req.ExcludePatterns = slices.Clone(req.ExcludePatterns)
	req.Paths = []string{path}
	req.OutputFormat = domain.OutputFormatJSON
	req.OutputWriter = io.Discard
	req.ConfigPath = d.configPath
	return req
}
