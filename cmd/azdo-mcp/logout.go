package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luutranit2/azure-devops-mcp/pkg/azdo"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored Azure DevOps credentials",
	Long: `Remove the credentials stored by 'azdo-mcp login'.

This deletes ~/.azdo-mcp/credentials.json. Environment variables are not
touched.

Example:
  azdo-mcp logout`,
	RunE:         runLogout,
	SilenceUsage: true,
}

func runLogout(cmd *cobra.Command, args []string) error {
	creds, err := azdo.LoadCredentials()
	if err != nil {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := azdo.DeleteCredentials(); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}

	if creds.OrganizationURL != "" {
		fmt.Printf("Logged out from %s\n", creds.OrganizationURL)
	} else {
		fmt.Println("Logged out successfully.")
	}
	return nil
}
