package azdo

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
)

// Every failure this package produces wraps one of these sentinels so
// callers can classify with errors.Is. The wrapped message carries the
// specifics.
var (
	// ErrInvalidConfiguration indicates a missing or malformed organization
	// URL, project or other configuration value.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidToken indicates a personal access token that cannot possibly
	// authenticate, such as one shorter than the length Azure DevOps issues.
	ErrInvalidToken = errors.New("invalid token")

	// ErrValidation indicates missing or unusable caller input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the requested work item, pull request or project
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownStatus indicates a status code or label outside the
	// documented Azure DevOps set.
	ErrUnknownStatus = errors.New("unknown status")

	// ErrMalformedStepXML indicates test-step XML that could not be parsed.
	ErrMalformedStepXML = errors.New("malformed test step xml")

	// ErrUpstream wraps Azure DevOps API failures. The upstream message is
	// preserved in the error text.
	ErrUpstream = errors.New("azure devops request failed")
)

// requireField rejects a blank required input with ErrValidation. The
// message names the field so callers can tell which one is missing.
func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, name)
	}
	return nil
}

// requireID rejects non-positive identifiers with ErrValidation.
func requireID(name string, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s is required", ErrValidation, name)
	}
	return nil
}

// wrapUpstream classifies an Azure DevOps client error, keeping the
// upstream message intact. A 404 response becomes ErrNotFound; everything
// else is ErrUpstream.
func wrapUpstream(op string, err error) error {
	var apiErr azuredevops.WrappedError
	if errors.As(err, &apiErr) && apiErr.StatusCode != nil && *apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s: %v", ErrNotFound, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
}
