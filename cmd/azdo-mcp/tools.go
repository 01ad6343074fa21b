package main

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/luutranit2/azure-devops-mcp/pkg/azdo"
)

const serverInstructions = `Tools for Azure DevOps: create and update user
stories, bugs, tasks and test cases, search work items with WIQL, review
pull requests and manage comment threads. All tools operate on the
project configured for the server.`

// newMCPServer builds the MCP server with every azdo_* tool registered.
func newMCPServer(svc *azdo.Service, log *zap.SugaredLogger) *server.MCPServer {
	s := server.NewMCPServer(
		"azdo-mcp",
		azdo.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	h := &toolHandlers{svc: svc, log: log}
	h.registerWorkItemTools(s)
	h.registerTestCaseTools(s)
	h.registerPullRequestTools(s)
	h.registerOrganizationTools(s)
	return s
}

// toolHandlers binds the MCP tool callbacks to the integration facade.
type toolHandlers struct {
	svc *azdo.Service
	log *zap.SugaredLogger
}

// toolError reports a domain failure to the client as a tool result rather
// than a protocol error, so the model can read and react to the message.
func (h *toolHandlers) toolError(tool string, err error) (*mcp.CallToolResult, error) {
	h.log.Warnw("tool call failed", "tool", tool, "error", err)
	return mcp.NewToolResultError(err.Error()), nil
}

// jsonResult renders v as indented JSON text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}

// stringSliceArg reads an optional array-of-strings argument.
func stringSliceArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// mapArg reads an optional object argument.
func mapArg(req mcp.CallToolRequest, key string) map[string]any {
	m, _ := req.GetArguments()[key].(map[string]any)
	return m
}

// stepsArg decodes an optional steps argument into typed test steps.
func stepsArg(req mcp.CallToolRequest, key string) ([]azdo.TestStep, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: steps: %v", azdo.ErrValidation, err)
	}
	var steps []azdo.TestStep
	if err := json.Unmarshal(buf, &steps); err != nil {
		return nil, fmt.Errorf("%w: steps must be an array of {action, expectedResult} objects", azdo.ErrValidation)
	}
	return steps, nil
}
