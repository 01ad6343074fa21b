package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/luutranit2/azure-devops-mcp/pkg/azdo"
)

func (h *toolHandlers) registerWorkItemTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("azdo_create_user_story",
		mcp.WithDescription("Create a user story in the configured Azure DevOps project"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Story title")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Story description")),
		mcp.WithString("acceptanceCriteria", mcp.Description("Acceptance criteria")),
		mcp.WithNumber("priority", mcp.Description("Priority from 1 (highest) to 4")),
		mcp.WithNumber("storyPoints", mcp.Description("Story point estimate")),
		mcp.WithString("assignedTo", mcp.Description("Assignee display name or email")),
		mcp.WithString("areaPath", mcp.Description("Area path")),
		mcp.WithString("iterationPath", mcp.Description("Iteration path")),
		mcp.WithArray("tags", mcp.Description("Tags to apply")),
		mcp.WithNumber("parentFeatureId", mcp.Description("Feature work item to link the story under")),
		mcp.WithObject("fields", mcp.Description("Extra fields keyed by reference name, e.g. Custom.MyField")),
	), h.createUserStory)

	s.AddTool(mcp.NewTool("azdo_update_user_story",
		mcp.WithDescription("Update fields of an existing user story"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Work item id")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("acceptanceCriteria", mcp.Description("New acceptance criteria")),
		mcp.WithString("state", mcp.Description("New state, e.g. Active or Closed")),
		mcp.WithNumber("priority", mcp.Description("Priority from 1 (highest) to 4")),
		mcp.WithNumber("storyPoints", mcp.Description("Story point estimate")),
		mcp.WithString("assignedTo", mcp.Description("Assignee display name or email")),
		mcp.WithString("areaPath", mcp.Description("Area path")),
		mcp.WithString("iterationPath", mcp.Description("Iteration path")),
		mcp.WithArray("tags", mcp.Description("Replacement tag list")),
		mcp.WithObject("fields", mcp.Description("Extra fields keyed by reference name")),
	), h.updateUserStory)

	s.AddTool(mcp.NewTool("azdo_delete_user_story",
		mcp.WithDescription("Delete a user story (recycle bin by default)"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Work item id")),
		mcp.WithBoolean("destroy", mcp.Description("Permanently destroy instead of moving to the recycle bin")),
	), h.deleteUserStory)

	s.AddTool(mcp.NewTool("azdo_get_work_item",
		mcp.WithDescription("Get any work item by id"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Work item id")),
	), h.getWorkItem)

	s.AddTool(mcp.NewTool("azdo_search_work_items",
		mcp.WithDescription("Search work items with a WIQL query; results keep the query's order"),
		mcp.WithString("wiql", mcp.Required(), mcp.Description("WIQL query, e.g. SELECT [System.Id] FROM WorkItems WHERE ...")),
	), h.searchWorkItems)

	s.AddTool(mcp.NewTool("azdo_create_bug",
		mcp.WithDescription("Create a bug in the configured Azure DevOps project"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Bug title")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Bug description")),
		mcp.WithString("reproSteps", mcp.Description("Steps to reproduce")),
		mcp.WithString("systemInfo", mcp.Description("Environment and system information")),
		mcp.WithString("foundIn", mcp.Description("Build the bug was found in")),
		mcp.WithNumber("priority", mcp.Description("Priority from 1 (highest) to 4")),
		mcp.WithNumber("severity", mcp.Description("Severity from 1 (critical) to 4 (low)")),
		mcp.WithString("assignedTo", mcp.Description("Assignee display name or email")),
		mcp.WithString("areaPath", mcp.Description("Area path")),
		mcp.WithString("iterationPath", mcp.Description("Iteration path")),
		mcp.WithArray("tags", mcp.Description("Tags to apply")),
		mcp.WithNumber("parentId", mcp.Description("Work item to link the bug under")),
		mcp.WithObject("fields", mcp.Description("Extra fields keyed by reference name")),
	), h.createBug)

	s.AddTool(mcp.NewTool("azdo_update_bug",
		mcp.WithDescription("Update fields of an existing bug"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Work item id")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("reproSteps", mcp.Description("New steps to reproduce")),
		mcp.WithString("systemInfo", mcp.Description("New system information")),
		mcp.WithString("foundIn", mcp.Description("Build the bug was found in")),
		mcp.WithString("state", mcp.Description("New state, e.g. Active or Resolved")),
		mcp.WithNumber("priority", mcp.Description("Priority from 1 (highest) to 4")),
		mcp.WithNumber("severity", mcp.Description("Severity from 1 (critical) to 4 (low)")),
		mcp.WithString("assignedTo", mcp.Description("Assignee display name or email")),
		mcp.WithArray("tags", mcp.Description("Replacement tag list")),
		mcp.WithObject("fields", mcp.Description("Extra fields keyed by reference name")),
	), h.updateBug)

	s.AddTool(mcp.NewTool("azdo_create_task",
		mcp.WithDescription("Create a task, optionally under a parent user story"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Task description")),
		mcp.WithNumber("priority", mcp.Description("Priority from 1 (highest) to 4")),
		mcp.WithString("assignedTo", mcp.Description("Assignee display name or email")),
		mcp.WithString("areaPath", mcp.Description("Area path")),
		mcp.WithString("iterationPath", mcp.Description("Iteration path")),
		mcp.WithArray("tags", mcp.Description("Tags to apply")),
		mcp.WithNumber("parentId", mcp.Description("User story to link the task under")),
		mcp.WithObject("fields", mcp.Description("Extra fields keyed by reference name")),
	), h.createTask)

	s.AddTool(mcp.NewTool("azdo_link_user_story_to_feature",
		mcp.WithDescription("Link an existing user story under a feature"),
		mcp.WithNumber("userStoryId", mcp.Required(), mcp.Description("User story work item id")),
		mcp.WithNumber("featureId", mcp.Required(), mcp.Description("Feature work item id")),
	), h.linkUserStoryToFeature)
}

func (h *toolHandlers) createUserStory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	work, err := h.svc.WorkItems(ctx)
	if err != nil {
		return h.toolError("azdo_create_user_story", err)
	}
	story, err := work.CreateUserStory(ctx, azdo.CreateUserStoryArgs{
		Title:              req.GetString("title", ""),
		Description:        req.GetString("description", ""),
		AcceptanceCriteria: req.GetString("acceptanceCriteria", ""),
		Priority:           req.GetInt("priority", 0),
		StoryPoints:        req.GetFloat("storyPoints", 0),
		AssignedTo:         req.GetString("assignedTo", ""),
		AreaPath:           req.GetString("areaPath", ""),
		IterationPath:      req.GetString("iterationPath", ""),
		Tags:               stringSliceArg(req, "tags"),
		ParentFeatureID:    req.GetInt("parentFeatureId", 0),
		Fields:             mapArg(req, "fields"),
	})
	if err != nil {
		return h.toolError("azdo_create_user_story", err)
	}
	return jsonResult(story)
}

func (h *toolHandlers) updateUserStory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	work, err := h.svc.WorkItems(ctx)
	if err != nil {
		return h.toolError("azdo_update_user_story", err)
	}
	story, err := work.UpdateUserStory(ctx, req.GetInt("id", 0), azdo.UpdateUserStoryArgs{
		Title:              req.GetString("title", ""),
		Description:        req.GetString("description", ""),
		AcceptanceCriteria: req.GetString("acceptanceCriteria", ""),
		State:              req.GetString("state", ""),
		Priority:           req.GetInt("priority", 0),
		StoryPoints:        req.GetFloat("storyPoints", 0),
		AssignedTo:         req.GetString("assignedTo", ""),
		AreaPath:           req.GetString("areaPath", ""),
		IterationPath:      req.GetString("iterationPath", ""),
		Tags:               stringSliceArg(req, "tags"),
		Fields:             mapArg(req, "fields"),
	})
	if err != nil {
		return h.toolError("azdo_update_user_story", err)
	}
	return jsonResult(story)
}

func (h *toolHandlers) deleteUserStory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	work, err := h.svc.WorkItems(ctx)
	if err != nil {
		return h.toolError("azdo_delete_user_story", err)
	}
	id := req.GetInt("id", 0)
	destroy := req.GetBool("destroy", false)
	if err := work.DeleteUserStory(ctx, id, destroy); err != nil {
		return h.toolError("azdo_delete_user_story", err)
	}
	return jsonResult(map[string]any{"deleted": true, "id": id, "destroyed": destroy})
}

func (h *toolHandlers) getWorkItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	work, err := h.svc.WorkItems(ctx)
	if err != nil {
		return h.toolError("azdo_get_work_item", err)
	}
	item, err := work.Get(ctx, req.GetInt("id", 0))
	if err != nil {
		return h.toolError("azdo_get_work_item", err)
	}
	return jsonResult(item)
}

func (h *toolHandlers) searchWorkItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	work, err := h.svc.WorkItems(ctx)
	if err != nil {
		return h.toolError("azdo_search_work_items", err)
	}
	items, err := work.Search(ctx, req.GetString("wiql", ""))
	if err != nil {
		return h.toolError("azdo_search_work_items", err)
	}
	return jsonResult(items)
}

func (h *toolHandlers) createBug(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	work, err := h.svc.WorkItems(ctx)
	if err != nil {
		return h.toolError("azdo_create_bug", err)
	}
	bug, err := work.CreateBug(ctx, azdo.CreateBugArgs{
		Title:         req.GetString("title", ""),
		Description:   req.GetString("description", ""),
		ReproSteps:    req.GetString("reproSteps", ""),
		SystemInfo:    req.GetString("systemInfo", ""),
		FoundIn:       req.GetString("foundIn", ""),
		Priority:      req.GetInt("priority", 0),
		Severity:      req.GetInt("severity", 0),
		AssignedTo:    req.GetString("assignedTo", ""),
		AreaPath:      req.GetString("areaPath", ""),
		IterationPath: req.GetString("iterationPath", ""),
		Tags:          stringSliceArg(req, "tags"),
		ParentID:      req.GetInt("parentId", 0),
		Fields:        mapArg(req, "fields"),
	})
	if err != nil {
		return h.toolError("azdo_create_bug", err)
	}
	return jsonResult(bug)
}

func (h *toolHandlers) updateBug(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	work, err := h.svc.WorkItems(ctx)
	if err != nil {
		return h.toolError("azdo_update_bug", err)
	}
	bug, err := work.UpdateBug(ctx, req.GetInt("id", 0), azdo.UpdateBugArgs{
		Title:       req.GetString("title", ""),
		Description: req.GetString("description", ""),
		ReproSteps:  req.GetString("reproSteps", ""),
		SystemInfo:  req.GetString("systemInfo", ""),
		FoundIn:     req.GetString("foundIn", ""),
		State:       req.GetString("state", ""),
		Priority:    req.GetInt("priority", 0),
		Severity:    req.GetInt("severity", 0),
		AssignedTo:  req.GetString("assignedTo", ""),
		Tags:        stringSliceArg(req, "tags"),
		Fields:      mapArg(req, "fields"),
	})
	if err != nil {
		return h.toolError("azdo_update_bug", err)
	}
	return jsonResult(bug)
}

func (h *toolHandlers) createTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	work, err := h.svc.WorkItems(ctx)
	if err != nil {
		return h.toolError("azdo_create_task", err)
	}
	task, err := work.CreateTask(ctx, azdo.CreateTaskArgs{
		Title:         req.GetString("title", ""),
		Description:   req.GetString("description", ""),
		Priority:      req.GetInt("priority", 0),
		AssignedTo:    req.GetString("assignedTo", ""),
		AreaPath:      req.GetString("areaPath", ""),
		IterationPath: req.GetString("iterationPath", ""),
		Tags:          stringSliceArg(req, "tags"),
		ParentID:      req.GetInt("parentId", 0),
		Fields:        mapArg(req, "fields"),
	})
	if err != nil {
		return h.toolError("azdo_create_task", err)
	}
	return jsonResult(task)
}

func (h *toolHandlers) linkUserStoryToFeature(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	work, err := h.svc.WorkItems(ctx)
	if err != nil {
		return h.toolError("azdo_link_user_story_to_feature", err)
	}
	link, err := work.LinkUserStoryToFeature(ctx, req.GetInt("userStoryId", 0), req.GetInt("featureId", 0))
	if err != nil {
		return h.toolError("azdo_link_user_story_to_feature", err)
	}
	return jsonResult(link)
}
