package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pyblocks/domain"
	"github.com/ludo-technologies/pyblocks/internal/config"
)

// InitCommand represents the init command
type InitCommand struct {
	force       bool
	configPath  string
	interactive bool
}

// NewInitCommand creates a new init command
func NewInitCommand() *InitCommand {
	return &InitCommand{
		configPath: config.ConfigFileName,
	}
}

// CreateCobraCommand creates the cobra command for configuration initialization
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize pyblocks configuration file",
		Long: `Initialize a pyblocks configuration file in the current directory.

Creates a .pyblocks.toml file with every setting and its default value.
With --interactive the main settings are asked for first.

Examples:
  # Create .pyblocks.toml in current directory
  pyblocks init

  # Answer a few questions before writing the file
  pyblocks init --interactive

  # Create config file with custom name
  pyblocks init --config myconfig.toml

  # Overwrite existing configuration file
  pyblocks init --force`,
		RunE: i.runInit,
	}

	cmd.Flags().BoolVarP(&i.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&i.configPath, "config", "c", config.ConfigFileName, "Configuration file path")
	cmd.Flags().BoolVarP(&i.interactive, "interactive", "i", false, "Choose settings interactively")

	return cmd
}

func (i *InitCommand) runInit(cmd *cobra.Command, args []string) error {
	configPath, err := filepath.Abs(i.configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil && !i.force {
		return fmt.Errorf("configuration file already exists: %s\nUse --force to overwrite", configPath)
	}

	values := config.NewDefaultConfigValues()
	if i.interactive {
		if err := askConfigValues(&values); err != nil {
			return fmt.Errorf("interactive setup cancelled: %w", err)
		}
	}

	configData, err := config.RenderConfigTOML(values)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", configDir, err)
	}
	if err := os.WriteFile(configPath, []byte(configData), 0o644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	relPath, err := filepath.Rel(".", configPath)
	if err != nil {
		relPath = configPath
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Configuration file created: %s\n", relPath)
	fmt.Fprintf(cmd.OutOrStdout(), "\nTo customize pyblocks for your project:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  1. Edit %s\n", relPath)
	fmt.Fprintf(cmd.OutOrStdout(), "  2. Run 'pyblocks blocks .' to use your configuration\n")

	return nil
}

// askConfigValues fills values from a terminal form
func askConfigValues(values *config.DefaultConfigValues) error {
	formatOptions := make([]huh.Option[string], 0, len(domain.SupportedOutputFormats))
	for _, f := range domain.SupportedOutputFormats {
		formatOptions = append(formatOptions, huh.NewOption(strings.ToUpper(string(f)), string(f)))
	}

	boundary := strings.Join(values.ExtraBoundaryKinds, ", ")
	maxDepth := strconv.Itoa(values.MaxDepth)
	minBlocks := strconv.Itoa(values.MinBlocks)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Description("Format used when no format flag is given").
				Options(formatOptions...).
				Value(&values.Format),
			huh.NewSelect[string]().
				Title("Sort files by").
				Options(
					huh.NewOption("Location", string(domain.SortByLocation)),
					huh.NewOption("Blocks", string(domain.SortByBlocks)),
					huh.NewOption("Classes", string(domain.SortByClasses)),
					huh.NewOption("Name", string(domain.SortByName)),
				).
				Value(&values.SortBy),
			huh.NewConfirm().
				Title("Show the statements of each block?").
				Value(&values.ShowStatements),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Extra boundary statement kinds").
				Description("Comma separated, for example: With, Raise").
				Placeholder("optional").
				Validate(validateBoundaryKinds).
				Value(&boundary),
			huh.NewInput().
				Title("Maximum nesting depth (0 = no limit)").
				Validate(validateNonNegative).
				Value(&maxDepth),
			huh.NewInput().
				Title("Minimum blocks per reported file").
				Validate(validateNonNegative).
				Value(&minBlocks),
			huh.NewConfirm().
				Title("Enable the result cache?").
				Value(&values.CacheEnabled),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	values.ExtraBoundaryKinds = splitList(boundary)
	values.MaxDepth, _ = strconv.Atoi(strings.TrimSpace(maxDepth))
	values.MinBlocks, _ = strconv.Atoi(strings.TrimSpace(minBlocks))
	return nil
}

func validateNonNegative(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a number >= 0")
	}
	return nil
}

func validateBoundaryKinds(s string) error {
	cfg := config.DefaultConfig()
	cfg.Blocks.ExtraBoundaryKinds = splitList(s)
	return cfg.Validate()
}

// splitList splits a comma separated answer, dropping empty items
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NewInitCmd creates and returns the init cobra command
func NewInitCmd() *cobra.Command {
	return NewInitCommand().CreateCobraCommand()
}
