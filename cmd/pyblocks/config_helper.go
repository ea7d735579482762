package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/pyblocks/domain"
	"github.com/ludo-technologies/pyblocks/internal/config"
	"github.com/ludo-technologies/pyblocks/service"
)

// GetExplicitFlags extracts which flags were explicitly set from a cobra command
func GetExplicitFlags(cmd *cobra.Command) map[string]bool {
	explicitFlags := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().Visit(func(f *pflag.Flag) {
			explicitFlags[f.Name] = true
		})
	}
	return explicitFlags
}

// getTargetPathFromArgs extracts the first argument as target path, or returns empty string
func getTargetPathFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// loadProjectConfig loads the configuration the run will use, so the command
// can set up the cache and report path before the use case merges flags
func loadProjectConfig(configPath, targetPath string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithTarget(configPath, targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// reportPathFor picks the report file for non-text formats when no --output
// was given. An empty result means the report goes to stdout.
func reportPathFor(cfg *config.Config, format domain.OutputFormat) string {
	if format == domain.OutputFormatText || cfg == nil || cfg.Output.Directory == "" {
		return ""
	}
	return service.ReportFileName(cfg.Output.Directory, format)
}
