package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luutranit2/azure-devops-mcp/pkg/azdo"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the service sentinels onto HTTP statuses. Caller
// mistakes are 400s, missing entities 404s, and anything that went wrong
// on the Azure DevOps side is a 502 so clients can tell the two apart.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, azdo.ErrValidation), errors.Is(err, azdo.ErrUnknownStatus):
		status = http.StatusBadRequest
	case errors.Is(err, azdo.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, azdo.ErrUpstream), errors.Is(err, azdo.ErrMalformedStepXML):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		s.log.Errorw("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", azdo.ErrValidation, name)
	}
	return id, nil
}

// bindJSON decodes the request body, folding malformed input into the
// validation sentinel so it maps to a 400.
func bindJSON(c *gin.Context, out any) error {
	if err := c.ShouldBindJSON(out); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", azdo.ErrValidation, err)
	}
	return nil
}
