package azdo

import (
	"context"
	"fmt"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/core"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"
)

// The managers depend on narrow views of the v7 clients so tests can swap
// in the in-memory Fake. The real clients satisfy these automatically.

// WorkItemsClient is the slice of the work item tracking client the
// managers use.
type WorkItemsClient interface {
	CreateWorkItem(ctx context.Context, args workitemtracking.CreateWorkItemArgs) (*workitemtracking.WorkItem, error)
	UpdateWorkItem(ctx context.Context, args workitemtracking.UpdateWorkItemArgs) (*workitemtracking.WorkItem, error)
	GetWorkItem(ctx context.Context, args workitemtracking.GetWorkItemArgs) (*workitemtracking.WorkItem, error)
	GetWorkItems(ctx context.Context, args workitemtracking.GetWorkItemsArgs) (*[]workitemtracking.WorkItem, error)
	DeleteWorkItem(ctx context.Context, args workitemtracking.DeleteWorkItemArgs) (*workitemtracking.WorkItemDelete, error)
	QueryByWiql(ctx context.Context, args workitemtracking.QueryByWiqlArgs) (*workitemtracking.WorkItemQueryResult, error)
}

// GitClient is the slice of the git client the managers use.
type GitClient interface {
	GetPullRequest(ctx context.Context, args git.GetPullRequestArgs) (*git.GitPullRequest, error)
	GetPullRequests(ctx context.Context, args git.GetPullRequestsArgs) (*[]git.GitPullRequest, error)
	CreatePullRequest(ctx context.Context, args git.CreatePullRequestArgs) (*git.GitPullRequest, error)
	GetThreads(ctx context.Context, args git.GetThreadsArgs) (*[]git.GitPullRequestCommentThread, error)
	CreateThread(ctx context.Context, args git.CreateThreadArgs) (*git.GitPullRequestCommentThread, error)
	CreateComment(ctx context.Context, args git.CreateCommentArgs) (*git.Comment, error)
	UpdateThread(ctx context.Context, args git.UpdateThreadArgs) (*git.GitPullRequestCommentThread, error)
	GetRepositories(ctx context.Context, args git.GetRepositoriesArgs) (*[]git.GitRepository, error)
}

// CoreClient is the slice of the core client the managers use.
type CoreClient interface {
	GetProjects(ctx context.Context, args core.GetProjectsArgs) (*core.GetProjectsResponseValue, error)
	GetProject(ctx context.Context, args core.GetProjectArgs) (*core.TeamProject, error)
}

// connectClients dials the three client families over one connection.
func connectClients(ctx context.Context, auth *Authenticator) (WorkItemsClient, GitClient, CoreClient, error) {
	conn := auth.Connection()

	workClient, err := workitemtracking.NewClient(ctx, conn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: work item tracking client: %v", ErrUpstream, err)
	}
	gitClient, err := git.NewClient(ctx, conn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: git client: %v", ErrUpstream, err)
	}
	coreClient, err := core.NewClient(ctx, conn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: core client: %v", ErrUpstream, err)
	}
	return workClient, gitClient, coreClient, nil
}
