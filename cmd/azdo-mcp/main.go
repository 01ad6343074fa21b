package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "azdo-mcp",
	Short: "Azure DevOps MCP server",
	Long: `azdo-mcp: Azure DevOps work item, test case and pull request tools
for MCP clients.

The server talks to Azure DevOps with a personal access token and exposes
user story, bug, task, test case, pull request and organization operations
as MCP tools over stdio, or as a REST API.

Usage:
  azdo-mcp login --org https://dev.azure.com/myorg   Store credentials
  azdo-mcp serve                                     Run the MCP server on stdio
  azdo-mcp http --addr :8228                         Run the REST API
  azdo-mcp version                                   Show version information`,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(httpCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
}
