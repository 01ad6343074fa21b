package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (h *toolHandlers) registerOrganizationTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("azdo_test_connection",
		mcp.WithDescription("Verify connectivity and authentication against the organization"),
	), h.testConnection)

	s.AddTool(mcp.NewTool("azdo_get_organization_info",
		mcp.WithDescription("Get details of the organization and the configured project"),
	), h.getOrganizationInfo)

	s.AddTool(mcp.NewTool("azdo_list_projects",
		mcp.WithDescription("List the organization's projects"),
	), h.listProjects)

	s.AddTool(mcp.NewTool("azdo_list_repositories",
		mcp.WithDescription("List the git repositories of the configured project"),
	), h.listRepositories)
}

func (h *toolHandlers) testConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.svc.TestConnection(ctx)
	if err != nil {
		return h.toolError("azdo_test_connection", err)
	}
	return jsonResult(status)
}

func (h *toolHandlers) getOrganizationInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := h.svc.OrganizationInfo(ctx)
	if err != nil {
		return h.toolError("azdo_get_organization_info", err)
	}
	return jsonResult(info)
}

func (h *toolHandlers) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	org, err := h.svc.Organization(ctx)
	if err != nil {
		return h.toolError("azdo_list_projects", err)
	}
	projects, err := org.ListProjects(ctx)
	if err != nil {
		return h.toolError("azdo_list_projects", err)
	}
	return jsonResult(projects)
}

func (h *toolHandlers) listRepositories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	org, err := h.svc.Organization(ctx)
	if err != nil {
		return h.toolError("azdo_list_repositories", err)
	}
	repos, err := org.ListRepositories(ctx)
	if err != nil {
		return h.toolError("azdo_list_repositories", err)
	}
	return jsonResult(repos)
}
