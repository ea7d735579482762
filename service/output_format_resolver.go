package service

import (
	"github.com/ludo-technologies/pyblocks/domain"
)

// OutputFormatResolver resolves the output format from the format flags
type OutputFormatResolver struct{}

func NewOutputFormatResolver() *OutputFormatResolver { return &OutputFormatResolver{} }

// Determine returns the selected format and its file extension. At most one
// flag may be set; none selects text with an empty extension.
func (r *OutputFormatResolver) Determine(json, yaml, csv, dot bool) (domain.OutputFormat, string, error) {
	selected := map[domain.OutputFormat]bool{
		domain.OutputFormatJSON: json,
		domain.OutputFormatYAML: yaml,
		domain.OutputFormatCSV:  csv,
		domain.OutputFormatDOT:  dot,
	}

	format := domain.OutputFormatText
	count := 0
	for _, f := range domain.SupportedOutputFormats {
		if selected[f] {
			format = f
			count++
		}
	}

	if count > 1 {
		return "", "", domain.NewInvalidInputError("only one output format flag can be specified", nil)
	}
	if format == domain.OutputFormatText {
		return format, "", nil
	}
	return format, string(format), nil
}
