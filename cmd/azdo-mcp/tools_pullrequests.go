package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/luutranit2/azure-devops-mcp/pkg/azdo"
)

func (h *toolHandlers) registerPullRequestTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("azdo_get_pull_request",
		mcp.WithDescription("Get a pull request with its status, branches and reviewer votes"),
		mcp.WithString("repository", mcp.Required(), mcp.Description("Repository name or id")),
		mcp.WithNumber("pullRequestId", mcp.Required(), mcp.Description("Pull request id")),
	), h.getPullRequest)

	s.AddTool(mcp.NewTool("azdo_list_pull_requests",
		mcp.WithDescription("List pull requests in a repository, optionally filtered by status"),
		mcp.WithString("repository", mcp.Required(), mcp.Description("Repository name or id")),
		mcp.WithString("status", mcp.Description("Status filter"),
			mcp.Enum("Active", "Completed", "Abandoned", "NotSet")),
		mcp.WithNumber("top", mcp.Description("Maximum number of results")),
	), h.listPullRequests)

	s.AddTool(mcp.NewTool("azdo_create_pull_request",
		mcp.WithDescription("Create a pull request between two branches"),
		mcp.WithString("repository", mcp.Required(), mcp.Description("Repository name or id")),
		mcp.WithString("sourceBranch", mcp.Required(), mcp.Description("Source branch, with or without refs/heads/")),
		mcp.WithString("targetBranch", mcp.Required(), mcp.Description("Target branch, with or without refs/heads/")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Pull request title")),
		mcp.WithString("description", mcp.Description("Pull request description")),
		mcp.WithBoolean("isDraft", mcp.Description("Open as a draft")),
	), h.createPullRequest)

	s.AddTool(mcp.NewTool("azdo_get_pull_request_comments",
		mcp.WithDescription("Get the comment threads of a pull request"),
		mcp.WithString("repository", mcp.Required(), mcp.Description("Repository name or id")),
		mcp.WithNumber("pullRequestId", mcp.Required(), mcp.Description("Pull request id")),
	), h.getPullRequestComments)

	s.AddTool(mcp.NewTool("azdo_add_pull_request_comment",
		mcp.WithDescription("Start a new comment thread on a pull request, optionally anchored to a file line"),
		mcp.WithString("repository", mcp.Required(), mcp.Description("Repository name or id")),
		mcp.WithNumber("pullRequestId", mcp.Required(), mcp.Description("Pull request id")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Comment text")),
		mcp.WithString("filePath", mcp.Description("File the comment refers to")),
		mcp.WithNumber("line", mcp.Description("Line in the file (new side of the diff)")),
	), h.addPullRequestComment)

	s.AddTool(mcp.NewTool("azdo_reply_to_comment",
		mcp.WithDescription("Reply to an existing pull request comment thread"),
		mcp.WithString("repository", mcp.Required(), mcp.Description("Repository name or id")),
		mcp.WithNumber("pullRequestId", mcp.Required(), mcp.Description("Pull request id")),
		mcp.WithNumber("threadId", mcp.Required(), mcp.Description("Comment thread id")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Reply text")),
	), h.replyToComment)

	s.AddTool(mcp.NewTool("azdo_resolve_comment_thread",
		mcp.WithDescription("Set the status of a pull request comment thread"),
		mcp.WithString("repository", mcp.Required(), mcp.Description("Repository name or id")),
		mcp.WithNumber("pullRequestId", mcp.Required(), mcp.Description("Pull request id")),
		mcp.WithNumber("threadId", mcp.Required(), mcp.Description("Comment thread id")),
		mcp.WithString("status", mcp.Required(), mcp.Description("New thread status"),
			mcp.Enum("Active", "Fixed", "WontFix", "Closed", "ByDesign", "Pending")),
	), h.resolveCommentThread)
}

func (h *toolHandlers) getPullRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prs, err := h.svc.PullRequests(ctx)
	if err != nil {
		return h.toolError("azdo_get_pull_request", err)
	}
	pr, err := prs.Get(ctx, req.GetString("repository", ""), req.GetInt("pullRequestId", 0))
	if err != nil {
		return h.toolError("azdo_get_pull_request", err)
	}
	return jsonResult(pr)
}

func (h *toolHandlers) listPullRequests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prs, err := h.svc.PullRequests(ctx)
	if err != nil {
		return h.toolError("azdo_list_pull_requests", err)
	}
	records, err := prs.List(ctx, req.GetString("repository", ""), req.GetString("status", ""), req.GetInt("top", 0))
	if err != nil {
		return h.toolError("azdo_list_pull_requests", err)
	}
	return jsonResult(records)
}

func (h *toolHandlers) createPullRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prs, err := h.svc.PullRequests(ctx)
	if err != nil {
		return h.toolError("azdo_create_pull_request", err)
	}
	pr, err := prs.Create(ctx, azdo.CreatePullRequestArgs{
		Repository:   req.GetString("repository", ""),
		SourceBranch: req.GetString("sourceBranch", ""),
		TargetBranch: req.GetString("targetBranch", ""),
		Title:        req.GetString("title", ""),
		Description:  req.GetString("description", ""),
		IsDraft:      req.GetBool("isDraft", false),
	})
	if err != nil {
		return h.toolError("azdo_create_pull_request", err)
	}
	return jsonResult(pr)
}

func (h *toolHandlers) getPullRequestComments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prs, err := h.svc.PullRequests(ctx)
	if err != nil {
		return h.toolError("azdo_get_pull_request_comments", err)
	}
	threads, err := prs.GetComments(ctx, req.GetString("repository", ""), req.GetInt("pullRequestId", 0))
	if err != nil {
		return h.toolError("azdo_get_pull_request_comments", err)
	}
	return jsonResult(threads)
}

func (h *toolHandlers) addPullRequestComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prs, err := h.svc.PullRequests(ctx)
	if err != nil {
		return h.toolError("azdo_add_pull_request_comment", err)
	}
	thread, err := prs.AddComment(ctx,
		req.GetString("repository", ""),
		req.GetInt("pullRequestId", 0),
		req.GetString("content", ""),
		req.GetString("filePath", ""),
		req.GetInt("line", 0),
	)
	if err != nil {
		return h.toolError("azdo_add_pull_request_comment", err)
	}
	return jsonResult(thread)
}

func (h *toolHandlers) replyToComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prs, err := h.svc.PullRequests(ctx)
	if err != nil {
		return h.toolError("azdo_reply_to_comment", err)
	}
	comment, err := prs.ReplyToComment(ctx,
		req.GetString("repository", ""),
		req.GetInt("pullRequestId", 0),
		req.GetInt("threadId", 0),
		req.GetString("content", ""),
	)
	if err != nil {
		return h.toolError("azdo_reply_to_comment", err)
	}
	return jsonResult(comment)
}

func (h *toolHandlers) resolveCommentThread(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prs, err := h.svc.PullRequests(ctx)
	if err != nil {
		return h.toolError("azdo_resolve_comment_thread", err)
	}
	thread, err := prs.SetThreadStatus(ctx,
		req.GetString("repository", ""),
		req.GetInt("pullRequestId", 0),
		req.GetInt("threadId", 0),
		req.GetString("status", ""),
	)
	if err != nil {
		return h.toolError("azdo_resolve_comment_thread", err)
	}
	return jsonResult(thread)
}
