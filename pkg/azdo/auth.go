package azdo

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
)

const (
	// Azure DevOps issues 52-character personal access tokens. Anything
	// shorter was truncated or mistyped.
	minPATLength = 52

	bearerPrefix = "Bearer "

	azureDevOpsHost  = "dev.azure.com"
	legacyHostSuffix = ".visualstudio.com"
)

// Authenticator holds a normalized organization URL and a validated token
// and builds connections for the v7 clients.
type Authenticator struct {
	orgURL  string
	token   string
	bearer  bool
	timeout time.Duration
}

// NewAuthenticator normalizes the organization URL and validates the token.
// The token is either a personal access token or a ready-made
// "Bearer <token>" authorization value; bearer tokens are accepted by
// presence alone, PATs must meet the minimum length.
func NewAuthenticator(orgURL, token string, timeout time.Duration) (*Authenticator, error) {
	normalized, err := NormalizeOrganizationURL(orgURL)
	if err != nil {
		return nil, err
	}

	bearer := strings.HasPrefix(token, bearerPrefix)
	switch {
	case bearer && strings.TrimSpace(strings.TrimPrefix(token, bearerPrefix)) == "":
		return nil, fmt.Errorf("%w: bearer token is empty", ErrInvalidToken)
	case !bearer && token == "":
		return nil, fmt.Errorf("%w: personal access token is empty", ErrInvalidToken)
	case !bearer && len(token) < minPATLength:
		return nil, fmt.Errorf("%w: personal access token is %d characters, expected at least %d",
			ErrInvalidToken, len(token), minPATLength)
	}

	return &Authenticator{orgURL: normalized, token: token, bearer: bearer, timeout: timeout}, nil
}

// NormalizeOrganizationURL strips trailing slashes and rewrites legacy
// https://{org}.visualstudio.com URLs to the https://dev.azure.com/{org}
// form. Only those two organization URL shapes are accepted.
func NormalizeOrganizationURL(raw string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return "", fmt.Errorf("%w: organization URL is empty", ErrInvalidConfiguration)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: organization URL %q: %v", ErrInvalidConfiguration, raw, err)
	}
	if u.Scheme != "https" {
		return "", fmt.Errorf("%w: organization URL %q must use https", ErrInvalidConfiguration, raw)
	}

	host := strings.ToLower(u.Host)
	switch {
	case host == azureDevOpsHost:
		org := strings.Trim(u.Path, "/")
		if org == "" || strings.Contains(org, "/") {
			return "", fmt.Errorf("%w: organization URL %q must name exactly one organization",
				ErrInvalidConfiguration, raw)
		}
		return fmt.Sprintf("https://%s/%s", azureDevOpsHost, org), nil

	case strings.HasSuffix(host, legacyHostSuffix):
		org := strings.TrimSuffix(host, legacyHostSuffix)
		if org == "" || u.Path != "" {
			return "", fmt.Errorf("%w: organization URL %q must name exactly one organization",
				ErrInvalidConfiguration, raw)
		}
		return fmt.Sprintf("https://%s/%s", azureDevOpsHost, org), nil

	default:
		return "", fmt.Errorf("%w: organization URL %q is not an Azure DevOps organization",
			ErrInvalidConfiguration, raw)
	}
}

// Connection returns a connection the v7 client constructors accept.
func (a *Authenticator) Connection() *azuredevops.Connection {
	var conn *azuredevops.Connection
	if a.bearer {
		conn = &azuredevops.Connection{
			AuthorizationString:     a.token,
			BaseUrl:                 a.orgURL,
			SuppressFedAuthRedirect: true,
		}
	} else {
		conn = azuredevops.NewPatConnection(a.orgURL, a.token)
	}
	if a.timeout > 0 {
		timeout := a.timeout
		conn.Timeout = &timeout
	}
	return conn
}

// OrganizationURL returns the normalized https://dev.azure.com/{org} URL.
func (a *Authenticator) OrganizationURL() string {
	return a.orgURL
}

// Organization returns the organization name from the normalized URL.
func (a *Authenticator) Organization() string {
	return a.orgURL[strings.LastIndex(a.orgURL, "/")+1:]
}
