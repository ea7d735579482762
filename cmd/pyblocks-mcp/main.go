package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/pyblocks/internal/config"
	"github.com/ludo-technologies/pyblocks/internal/version"
	"github.com/ludo-technologies/pyblocks/mcp"
)

const serverName = "pyblocks"

type serverOptions struct {
	configPath string
	verbose    bool
}

func parseFlags(args []string) (serverOptions, error) {
	var opts serverOptions
	fs := pflag.NewFlagSet(serverName+"-mcp", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", "", "Configuration file path (default: discover from the working directory)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every analyzed file")
	if err := fs.Parse(args); err != nil {
		return serverOptions{}, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// MCP uses stdout for JSON-RPC
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.LoadConfigWithTarget(opts.configPath, ".")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	deps := mcp.NewDependencies(cfg, opts.configPath)
	if opts.verbose {
		deps.WithLogger(log.Default())
	}

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)
	mcp.RegisterTools(server, mcp.NewHandlerSet(deps))

	log.Printf("Starting %s MCP server v%s\n", serverName, version.Short())
	log.Println("Registered tools:")
	log.Printf("  - %s: Basic block analysis\n", mcp.ToolBuildBlocks)
	log.Printf("  - %s: Classes of connected blocks for one file\n", mcp.ToolBlockClasses)
	log.Println("Server ready - waiting for MCP client connection...")

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
