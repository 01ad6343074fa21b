package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/luutranit2/azure-devops-mcp/pkg/azdo"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store Azure DevOps credentials",
	Long: `Store an organization URL and personal access token for later use.

The token is prompted for interactively unless --pat is given. Credentials
are written to ~/.azdo-mcp/credentials.json with owner-only permissions;
AZURE_DEVOPS_* environment variables still take precedence when set.

Examples:
  azdo-mcp login --org https://dev.azure.com/myorg --project MyProject
  azdo-mcp login --org https://myorg.visualstudio.com`,
	RunE:         runLogin,
	SilenceUsage: true,
}

var (
	loginOrgURL  string
	loginProject string
	loginPAT     string
)

func init() {
	loginCmd.Flags().StringVar(&loginOrgURL, "org", "", "organization URL, e.g. https://dev.azure.com/myorg")
	loginCmd.Flags().StringVar(&loginProject, "project", "", "default project name")
	loginCmd.Flags().StringVar(&loginPAT, "pat", "", "personal access token (prompted when omitted)")
	loginCmd.MarkFlagRequired("org")
}

func runLogin(cmd *cobra.Command, args []string) error {
	// Check if already logged in
	if creds, err := azdo.LoadCredentials(); err == nil && creds.IsValid() {
		fmt.Printf("Already logged in to %s\n", creds.OrganizationURL)
		fmt.Println("Use 'azdo-mcp logout' to log out first.")
		return nil
	}

	orgURL, err := azdo.NormalizeOrganizationURL(loginOrgURL)
	if err != nil {
		return err
	}

	pat := loginPAT
	if pat == "" {
		fmt.Print("Personal access token: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		pat = strings.TrimSpace(string(raw))
	}

	// Validate before persisting anything.
	if _, err := azdo.NewAuthenticator(orgURL, pat, 0); err != nil {
		return err
	}

	creds := &azdo.Credentials{
		OrganizationURL: orgURL,
		PAT:             pat,
		Project:         loginProject,
	}
	if err := azdo.SaveCredentials(creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	path, _ := azdo.CredentialsPath()
	fmt.Printf("Logged in to %s\n", orgURL)
	fmt.Printf("Credentials saved to %s\n", path)
	return nil
}
