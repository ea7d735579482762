package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds the values used to render the config template.
// `pyblocks init --interactive` fills them from a form.
type DefaultConfigValues struct {
	// Blocks
	ExtraBoundaryKinds []string
	MaxDepth           int
	MinBlocks          int

	// Output
	Format         string
	ShowStatements bool
	SortBy         string
	Directory      string

	// Analysis
	IncludePatterns []string
	ExcludePatterns []string
	Recursive       bool

	// Performance
	MaxGoroutines  int
	TimeoutSeconds int

	// Cache
	CacheEnabled bool
	CachePath    string
}

// NewDefaultConfigValues returns the template values for the built-in defaults
func NewDefaultConfigValues() DefaultConfigValues {
	d := DefaultConfig()
	return DefaultConfigValues{
		ExtraBoundaryKinds: d.Blocks.ExtraBoundaryKinds,
		MaxDepth:           d.Blocks.MaxDepth,
		MinBlocks:          d.Blocks.MinBlocks,
		Format:             d.Output.Format,
		ShowStatements:     d.Output.ShowStatements,
		SortBy:             d.Output.SortBy,
		Directory:          d.Output.Directory,
		IncludePatterns:    d.Analysis.IncludePatterns,
		ExcludePatterns:    d.Analysis.ExcludePatterns,
		Recursive:          d.Analysis.Recursive,
		MaxGoroutines:      0,
		TimeoutSeconds:     d.Performance.TimeoutSeconds,
		CacheEnabled:       d.Cache.Enabled,
		CachePath:          d.Cache.Path,
	}
}

// RenderConfigTOML renders the config template with values
func RenderConfigTOML(values DefaultConfigValues) (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, values); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	// Refuse to hand out a file that our own loader would reject
	var check PyblocksTomlConfig
	if err := toml.Unmarshal(buf.Bytes(), &check); err != nil {
		return "", fmt.Errorf("rendered config is not valid TOML: %w", err)
	}

	return buf.String(), nil
}

// GenerateDefaultConfigTOML renders the template with the built-in defaults
func GenerateDefaultConfigTOML() (string, error) {
	return RenderConfigTOML(NewDefaultConfigValues())
}
