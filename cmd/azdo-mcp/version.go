package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luutranit2/azure-devops-mcp/pkg/azdo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("azdo-mcp v%s\n", azdo.Version)
	},
}
