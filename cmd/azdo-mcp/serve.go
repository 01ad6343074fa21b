package main

import (
	"os"
	"runtime"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/luutranit2/azure-devops-mcp/pkg/azdo"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdin/stdout",
	Long: `Run the Azure DevOps MCP server.

The server communicates over stdin/stdout using the MCP protocol, so all
logging goes to stderr and to the configured log file. Configuration comes
from AZURE_DEVOPS_* environment variables, a .env file, or credentials
stored by 'azdo-mcp login'.

Examples:
  AZURE_DEVOPS_PROJECT=MyProject azdo-mcp serve
  azdo-mcp serve  # after 'azdo-mcp login --org ... --project ...'`,
	RunE:         runServe,
	SilenceUsage: true,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := azdo.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Infow("starting azdo-mcp server",
		"version", azdo.Version,
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
		"pid", os.Getpid(),
		"organization_url", cfg.OrganizationURL,
		"project", cfg.Project,
	)

	svc := azdo.New(cfg, logger)
	defer svc.Close()

	return server.ServeStdio(newMCPServer(svc, logger))
}
