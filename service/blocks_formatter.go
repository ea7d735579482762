package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ludo-technologies/pyblocks/domain"
)

// BlocksFormatterImpl renders block analysis results
type BlocksFormatterImpl struct {
	utils          *FormatUtils
	showStatements bool
}

// NewBlocksFormatter creates a formatter; showStatements lists block bodies in
// text output
func NewBlocksFormatter(showStatements bool) *BlocksFormatterImpl {
	return &BlocksFormatterImpl{
		utils:          NewFormatUtils(),
		showStatements: showStatements,
	}
}

// Write writes the response in the requested format
func (f *BlocksFormatterImpl) Write(response *domain.BlocksResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("nothing to format", nil)
	}

	switch format {
	case domain.OutputFormatText, "":
		_, err := io.WriteString(writer, f.formatText(response))
		if err != nil {
			return domain.NewOutputError("failed to write text output", err)
		}
		return nil
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	case domain.OutputFormatDOT:
		_, err := io.WriteString(writer, f.formatDOT(response))
		if err != nil {
			return domain.NewOutputError("failed to write DOT output", err)
		}
		return nil
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *BlocksFormatterImpl) formatText(response *domain.BlocksResponse) string {
	var b strings.Builder
	b.WriteString(f.utils.FormatMainHeader("Basic Block Analysis"))

	for _, file := range response.Files {
		cached := ""
		if file.Cached {
			cached = " (cached)"
		}
		fmt.Fprintf(&b, "%s%s\n", file.FilePath, cached)
		fmt.Fprintf(&b, "%sblocks: %d  classes: %d\n", strings.Repeat(" ", SectionPadding), file.TotalBlocks, file.TotalClasses)

		for _, block := range file.Blocks {
			fmt.Fprintf(&b, "%sbb%-3d %-10s class %-3d %d stmts",
				strings.Repeat(" ", SectionPadding),
				block.ID,
				f.utils.FormatLineRange(block.StartLine, block.EndLine),
				block.Class,
				block.Statements,
			)
			if len(block.Successors) > 0 {
				fmt.Fprintf(&b, "  -> %s", f.utils.FormatIntList(block.Successors))
			}
			if len(block.Calls) > 0 {
				fmt.Fprintf(&b, "  calls: %s", strings.Join(block.Calls, ", "))
			}
			b.WriteString("\n")

			if f.showStatements {
				for _, stmt := range block.Body {
					fmt.Fprintf(&b, "%s%-6s %s\n",
						strings.Repeat(" ", ItemPadding+SectionPadding),
						f.utils.FormatLineRange(stmt.StartLine, stmt.EndLine),
						stmt.Label,
					)
				}
			}
		}

		for _, class := range file.Classes {
			fmt.Fprintf(&b, "%sclass %d: [%s]\n", strings.Repeat(" ", SectionPadding), class.ID, f.utils.FormatIntList(class.Blocks))
		}
		b.WriteString("\n")
	}

	s := response.Summary
	b.WriteString(f.utils.FormatSectionHeader("Summary"))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Files analyzed", s.FilesAnalyzed))
	if s.FilesFromCache > 0 {
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "From cache", s.FilesFromCache))
	}
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Total blocks", s.TotalBlocks))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Total classes", s.TotalClasses))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Statements", s.TotalStatements))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Calls", s.TotalCalls))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Blocks per file", fmt.Sprintf("%.1f", s.AverageBlocksPerFile)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Largest class", s.LargestClass))
	b.WriteString("\n")

	b.WriteString(f.utils.FormatMessagesSection("Warnings", response.Warnings))
	b.WriteString(f.utils.FormatMessagesSection("Errors", response.Errors))

	return b.String()
}

// writeCSV emits one row per block
func (f *BlocksFormatterImpl) writeCSV(response *domain.BlocksResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	header := []string{"file", "block", "class", "start_line", "end_line", "statements", "calls", "successors"}
	if err := w.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	for _, file := range response.Files {
		for _, block := range file.Blocks {
			record := []string{
				file.FilePath,
				strconv.Itoa(block.ID),
				strconv.Itoa(block.Class),
				strconv.Itoa(block.StartLine),
				strconv.Itoa(block.EndLine),
				strconv.Itoa(block.Statements),
				strings.Join(block.Calls, ";"),
				joinInts(block.Successors, ";"),
			}
			if err := w.Write(record); err != nil {
				return domain.NewOutputError("failed to write CSV record", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV output", err)
	}
	return nil
}

// formatDOT renders one cluster per connected class and an edge per recorded
// neighbor link
func (f *BlocksFormatterImpl) formatDOT(response *domain.BlocksResponse) string {
	var b strings.Builder
	b.WriteString("digraph pyblocks {\n")
	b.WriteString("  rankdir=TB;\n")
	b.WriteString("  node [shape=box, fontname=\"Courier\"];\n")

	for fi, file := range response.Files {
		byID := make(map[int]domain.BlockInfo, len(file.Blocks))
		for _, block := range file.Blocks {
			byID[block.ID] = block
		}

		for _, class := range file.Classes {
			fmt.Fprintf(&b, "  subgraph \"cluster_f%d_c%d\" {\n", fi, class.ID)
			fmt.Fprintf(&b, "    label=%s;\n", strconv.Quote(fmt.Sprintf("%s class %d", file.FilePath, class.ID)))
			for _, id := range class.Blocks {
				block := byID[id]
				label := fmt.Sprintf("bb%d\\n%s\\n%d stmts", id, f.utils.FormatLineRange(block.StartLine, block.EndLine), block.Statements)
				fmt.Fprintf(&b, "    %s [label=\"%s\"];\n", dotNodeID(fi, id), label)
			}
			b.WriteString("  }\n")
		}

		for _, block := range file.Blocks {
			for _, succ := range block.Successors {
				fmt.Fprintf(&b, "  %s -> %s;\n", dotNodeID(fi, block.ID), dotNodeID(fi, succ))
			}
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func dotNodeID(file, block int) string {
	return fmt.Sprintf("\"f%d_bb%d\"", file, block)
}

func joinInts(ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}
