package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/luutranit2/azure-devops-mcp/pkg/azdo"
)

func (h *toolHandlers) registerTestCaseTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("azdo_create_test_case",
		mcp.WithDescription("Create a test case with ordered action/expected-result steps"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Test case title")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Test case description")),
		mcp.WithArray("steps", mcp.Description("Ordered steps as {action, expectedResult} objects")),
		mcp.WithNumber("priority", mcp.Description("Priority from 1 (highest) to 4")),
		mcp.WithString("automationStatus", mcp.Description("Automation status, e.g. Not Automated or Automated")),
		mcp.WithString("areaPath", mcp.Description("Area path")),
		mcp.WithString("iterationPath", mcp.Description("Iteration path")),
		mcp.WithArray("tags", mcp.Description("Tags to apply")),
		mcp.WithObject("fields", mcp.Description("Extra fields keyed by reference name")),
	), h.createTestCase)

	s.AddTool(mcp.NewTool("azdo_update_test_case",
		mcp.WithDescription("Update a test case; providing steps replaces the whole step list"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Test case work item id")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithArray("steps", mcp.Description("Replacement steps as {action, expectedResult} objects")),
		mcp.WithNumber("priority", mcp.Description("Priority from 1 (highest) to 4")),
		mcp.WithString("automationStatus", mcp.Description("Automation status")),
		mcp.WithString("state", mcp.Description("New state, e.g. Ready or Closed")),
		mcp.WithArray("tags", mcp.Description("Replacement tag list")),
		mcp.WithObject("fields", mcp.Description("Extra fields keyed by reference name")),
	), h.updateTestCase)

	s.AddTool(mcp.NewTool("azdo_get_test_case",
		mcp.WithDescription("Get a test case with its steps decoded"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Test case work item id")),
	), h.getTestCase)

	s.AddTool(mcp.NewTool("azdo_search_test_cases",
		mcp.WithDescription("Search test cases by title text within the configured project"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text the title must contain")),
	), h.searchTestCases)

	s.AddTool(mcp.NewTool("azdo_associate_test_case",
		mcp.WithDescription("Associate a test case with the user story it verifies"),
		mcp.WithNumber("testCaseId", mcp.Required(), mcp.Description("Test case work item id")),
		mcp.WithNumber("userStoryId", mcp.Required(), mcp.Description("User story work item id")),
	), h.associateTestCase)
}

func (h *toolHandlers) createTestCase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	steps, err := stepsArg(req, "steps")
	if err != nil {
		return h.toolError("azdo_create_test_case", err)
	}
	tests, err := h.svc.TestCases(ctx)
	if err != nil {
		return h.toolError("azdo_create_test_case", err)
	}
	tc, err := tests.Create(ctx, azdo.CreateTestCaseArgs{
		Title:            req.GetString("title", ""),
		Description:      req.GetString("description", ""),
		Steps:            steps,
		Priority:         req.GetInt("priority", 0),
		AutomationStatus: req.GetString("automationStatus", ""),
		AreaPath:         req.GetString("areaPath", ""),
		IterationPath:    req.GetString("iterationPath", ""),
		Tags:             stringSliceArg(req, "tags"),
		Fields:           mapArg(req, "fields"),
	})
	if err != nil {
		return h.toolError("azdo_create_test_case", err)
	}
	return jsonResult(tc)
}

func (h *toolHandlers) updateTestCase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	steps, err := stepsArg(req, "steps")
	if err != nil {
		return h.toolError("azdo_update_test_case", err)
	}
	tests, err := h.svc.TestCases(ctx)
	if err != nil {
		return h.toolError("azdo_update_test_case", err)
	}
	tc, err := tests.Update(ctx, req.GetInt("id", 0), azdo.UpdateTestCaseArgs{
		Title:            req.GetString("title", ""),
		Description:      req.GetString("description", ""),
		Steps:            steps,
		Priority:         req.GetInt("priority", 0),
		AutomationStatus: req.GetString("automationStatus", ""),
		State:            req.GetString("state", ""),
		Tags:             stringSliceArg(req, "tags"),
		Fields:           mapArg(req, "fields"),
	})
	if err != nil {
		return h.toolError("azdo_update_test_case", err)
	}
	return jsonResult(tc)
}

func (h *toolHandlers) getTestCase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tests, err := h.svc.TestCases(ctx)
	if err != nil {
		return h.toolError("azdo_get_test_case", err)
	}
	tc, err := tests.Get(ctx, req.GetInt("id", 0))
	if err != nil {
		return h.toolError("azdo_get_test_case", err)
	}
	return jsonResult(tc)
}

func (h *toolHandlers) searchTestCases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tests, err := h.svc.TestCases(ctx)
	if err != nil {
		return h.toolError("azdo_search_test_cases", err)
	}
	results, err := tests.Search(ctx, req.GetString("text", ""))
	if err != nil {
		return h.toolError("azdo_search_test_cases", err)
	}
	return jsonResult(results)
}

func (h *toolHandlers) associateTestCase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tests, err := h.svc.TestCases(ctx)
	if err != nil {
		return h.toolError("azdo_associate_test_case", err)
	}
	link, err := tests.AssociateWithUserStory(ctx, req.GetInt("testCaseId", 0), req.GetInt("userStoryId", 0))
	if err != nil {
		return h.toolError("azdo_associate_test_case", err)
	}
	return jsonResult(link)
}
