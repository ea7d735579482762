package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pyblocks/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "pyblocks",
	Short: "Basic block and control-flow class analyzer for Python",
	Long: `pyblocks splits Python source into basic blocks, links them along
control flow and groups connected blocks into classes.

Features:
  • Basic block extraction with configurable boundary statements
  • Equivalence classes of connected blocks
  • Text, JSON, YAML, CSV and Graphviz DOT reports
  • Content-addressed result cache`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewBlocksCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
