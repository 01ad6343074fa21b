package azdo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const credentialsFile = "credentials.json"

// Credentials is the locally stored login written by `azdo-mcp login`.
// Environment variables always take precedence over the stored values.
type Credentials struct {
	OrganizationURL string `json:"organization_url"`
	PAT             string `json:"pat"`
	Project         string `json:"project,omitempty"`
}

// IsValid reports whether the credentials hold enough to authenticate.
func (c *Credentials) IsValid() bool {
	return c != nil && c.OrganizationURL != "" && c.PAT != ""
}

// ConfigDir returns the azdo-mcp dot-directory under the user's home.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".azdo-mcp"), nil
}

// CredentialsPath returns the path of the stored credentials file.
func CredentialsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credentialsFile), nil
}

// SaveCredentials writes the credentials file to the default location.
func SaveCredentials(creds *Credentials) error {
	path, err := CredentialsPath()
	if err != nil {
		return err
	}
	return SaveCredentialsToPath(creds, path)
}

// SaveCredentialsToPath writes the credentials file with owner-only
// permissions.
func SaveCredentialsToPath(creds *Credentials, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// LoadCredentials reads the stored credentials from the default location.
func LoadCredentials() (*Credentials, error) {
	path, err := CredentialsPath()
	if err != nil {
		return nil, err
	}
	return LoadCredentialsFromPath(path)
}

// LoadCredentialsFromPath reads a stored credentials file.
func LoadCredentialsFromPath(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("not logged in: credentials file not found")
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return &creds, nil
}

// DeleteCredentials removes the stored credentials file. Removing a file
// that does not exist is not an error.
func DeleteCredentials() error {
	path, err := CredentialsPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}
