package azdo

import (
	"context"
	"fmt"
	"strings"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"go.uber.org/zap"
)

const branchRefPrefix = "refs/heads/"

// CreatePullRequestArgs carries the inputs for opening a pull request.
// Branch names may be given with or without the refs/heads/ prefix.
type CreatePullRequestArgs struct {
	Repository   string
	SourceBranch string
	TargetBranch string
	Title        string
	Description  string
	IsDraft      bool
}

// PullRequestManager reads and writes pull requests within one project.
type PullRequestManager struct {
	api GitClient
	cfg Config
	log *zap.SugaredLogger
}

// NewPullRequestManager builds a manager over an already-connected client.
func NewPullRequestManager(api GitClient, cfg Config, log *zap.SugaredLogger) *PullRequestManager {
	return &PullRequestManager{api: api, cfg: cfg, log: log}
}

// Get returns one pull request with its status translated.
func (m *PullRequestManager) Get(ctx context.Context, repository string, id int) (*PullRequest, error) {
	if err := requireField("repository", repository); err != nil {
		return nil, err
	}
	if err := requireID("pull request id", id); err != nil {
		return nil, err
	}

	pr, err := m.api.GetPullRequest(ctx, git.GetPullRequestArgs{
		RepositoryId:  &repository,
		PullRequestId: &id,
		Project:       &m.cfg.Project,
	})
	if err != nil {
		return nil, wrapUpstream(fmt.Sprintf("get pull request %d", id), err)
	}
	return pullRequestRecord(repository, pr)
}

// List returns pull requests, optionally filtered by a canonical status
// label. An empty status lists active pull requests the way the service
// defaults; top bounds the result size when positive.
func (m *PullRequestManager) List(ctx context.Context, repository, status string, top int) ([]PullRequest, error) {
	if err := requireField("repository", repository); err != nil {
		return nil, err
	}

	criteria := git.GitPullRequestSearchCriteria{}
	if status != "" {
		apiStatus, err := apiPullRequestStatusValue(status)
		if err != nil {
			return nil, err
		}
		criteria.Status = &apiStatus
	}
	args := git.GetPullRequestsArgs{
		RepositoryId:   &repository,
		Project:        &m.cfg.Project,
		SearchCriteria: &criteria,
	}
	if top > 0 {
		args.Top = &top
	}

	prs, err := m.api.GetPullRequests(ctx, args)
	if err != nil {
		return nil, wrapUpstream("list pull requests", err)
	}
	records := make([]PullRequest, 0)
	if prs == nil {
		return records, nil
	}
	for i := range *prs {
		record, err := pullRequestRecord(repository, &(*prs)[i])
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// Create opens a pull request between two branches.
func (m *PullRequestManager) Create(ctx context.Context, args CreatePullRequestArgs) (*PullRequest, error) {
	if err := requireField("repository", args.Repository); err != nil {
		return nil, err
	}
	if err := requireField("source branch", args.SourceBranch); err != nil {
		return nil, err
	}
	if err := requireField("target branch", args.TargetBranch); err != nil {
		return nil, err
	}
	if err := requireField("title", args.Title); err != nil {
		return nil, err
	}

	source := branchRef(args.SourceBranch)
	target := branchRef(args.TargetBranch)
	toCreate := git.GitPullRequest{
		SourceRefName: &source,
		TargetRefName: &target,
		Title:         &args.Title,
	}
	if args.Description != "" {
		toCreate.Description = &args.Description
	}
	if args.IsDraft {
		toCreate.IsDraft = &args.IsDraft
	}

	created, err := m.api.CreatePullRequest(ctx, git.CreatePullRequestArgs{
		GitPullRequestToCreate: &toCreate,
		RepositoryId:           &args.Repository,
		Project:                &m.cfg.Project,
	})
	if err != nil {
		return nil, wrapUpstream("create pull request", err)
	}
	record, err := pullRequestRecord(args.Repository, created)
	if err != nil {
		return nil, err
	}
	m.log.Infow("created pull request", "id", record.ID, "repository", args.Repository)
	return record, nil
}

// GetComments returns the pull request's comment threads with their nested
// comments. Deleted threads and comments are filtered out.
func (m *PullRequestManager) GetComments(ctx context.Context, repository string, prID int) ([]CommentThread, error) {
	if err := requireField("repository", repository); err != nil {
		return nil, err
	}
	if err := requireID("pull request id", prID); err != nil {
		return nil, err
	}

	threads, err := m.api.GetThreads(ctx, git.GetThreadsArgs{
		RepositoryId:  &repository,
		PullRequestId: &prID,
		Project:       &m.cfg.Project,
	})
	if err != nil {
		return nil, wrapUpstream(fmt.Sprintf("get threads for pull request %d", prID), err)
	}
	records := make([]CommentThread, 0)
	if threads == nil {
		return records, nil
	}
	for i := range *threads {
		record, err := threadRecord(&(*threads)[i])
		if err != nil {
			return nil, err
		}
		if record == nil {
			continue
		}
		records = append(records, *record)
	}
	return records, nil
}

// AddComment starts a new active comment thread, optionally anchored to a
// file line on the right-hand side of the diff.
func (m *PullRequestManager) AddComment(ctx context.Context, repository string, prID int, content, filePath string, line int) (*CommentThread, error) {
	if err := requireField("repository", repository); err != nil {
		return nil, err
	}
	if err := requireID("pull request id", prID); err != nil {
		return nil, err
	}
	if err := requireField("content", content); err != nil {
		return nil, err
	}

	status := git.CommentThreadStatusValues.Active
	commentType := git.CommentTypeValues.Text
	thread := git.GitPullRequestCommentThread{
		Status: &status,
		Comments: &[]git.Comment{{
			Content:     &content,
			CommentType: &commentType,
		}},
	}
	if filePath != "" {
		threadContext := git.CommentThreadContext{FilePath: &filePath}
		if line > 0 {
			offset := 1
			position := git.CommentPosition{Line: &line, Offset: &offset}
			threadContext.RightFileStart = &position
			threadContext.RightFileEnd = &position
		}
		thread.ThreadContext = &threadContext
	}

	created, err := m.api.CreateThread(ctx, git.CreateThreadArgs{
		CommentThread: &thread,
		RepositoryId:  &repository,
		PullRequestId: &prID,
		Project:       &m.cfg.Project,
	})
	if err != nil {
		return nil, wrapUpstream("add pull request comment", err)
	}
	record, err := threadRecord(created)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: thread was not created", ErrUpstream)
	}
	return record, nil
}

// ReplyToComment appends a comment to an existing thread, parented under
// the thread's root comment.
func (m *PullRequestManager) ReplyToComment(ctx context.Context, repository string, prID, threadID int, content string) (*Comment, error) {
	if err := requireField("repository", repository); err != nil {
		return nil, err
	}
	if err := requireID("pull request id", prID); err != nil {
		return nil, err
	}
	if err := requireID("thread id", threadID); err != nil {
		return nil, err
	}
	if err := requireField("content", content); err != nil {
		return nil, err
	}

	rootCommentID := 1
	commentType := git.CommentTypeValues.Text
	comment := git.Comment{
		Content:         &content,
		ParentCommentId: &rootCommentID,
		CommentType:     &commentType,
	}
	created, err := m.api.CreateComment(ctx, git.CreateCommentArgs{
		Comment:       &comment,
		RepositoryId:  &repository,
		PullRequestId: &prID,
		ThreadId:      &threadID,
		Project:       &m.cfg.Project,
	})
	if err != nil {
		return nil, wrapUpstream(fmt.Sprintf("reply to thread %d", threadID), err)
	}
	record := commentRecord(created)
	return &record, nil
}

// SetThreadStatus updates a comment thread's status, e.g. to Fixed or
// Closed. The label must be one of the documented thread statuses.
func (m *PullRequestManager) SetThreadStatus(ctx context.Context, repository string, prID, threadID int, statusLabel string) (*CommentThread, error) {
	if err := requireField("repository", repository); err != nil {
		return nil, err
	}
	if err := requireID("pull request id", prID); err != nil {
		return nil, err
	}
	if err := requireID("thread id", threadID); err != nil {
		return nil, err
	}

	apiStatus, err := apiThreadStatusValue(statusLabel)
	if err != nil {
		return nil, err
	}
	updated, err := m.api.UpdateThread(ctx, git.UpdateThreadArgs{
		CommentThread: &git.GitPullRequestCommentThread{Status: &apiStatus},
		RepositoryId:  &repository,
		PullRequestId: &prID,
		ThreadId:      &threadID,
		Project:       &m.cfg.Project,
	})
	if err != nil {
		return nil, wrapUpstream(fmt.Sprintf("update thread %d status", threadID), err)
	}
	m.log.Infow("updated thread status", "pullRequestId", prID, "threadId", threadID, "status", statusLabel)
	record, err := threadRecord(updated)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: thread %d", ErrNotFound, threadID)
	}
	return record, nil
}

// branchRef ensures the fully qualified refs/heads form the API expects.
func branchRef(branch string) string {
	if strings.HasPrefix(branch, "refs/") {
		return branch
	}
	return branchRefPrefix + branch
}

// pullRequestRecord flattens a v7 pull request into the package record
// shape, translating the wire status strictly.
func pullRequestRecord(repository string, pr *git.GitPullRequest) (*PullRequest, error) {
	if pr == nil {
		return nil, fmt.Errorf("%w: pull request", ErrNotFound)
	}
	label, code, err := pullRequestStatusFromAPI(pr.Status)
	if err != nil {
		return nil, err
	}

	record := &PullRequest{Repository: repository, Status: label, StatusCode: code}
	if pr.Repository != nil && pr.Repository.Name != nil {
		record.Repository = *pr.Repository.Name
	}
	if pr.PullRequestId != nil {
		record.ID = *pr.PullRequestId
	}
	if pr.Title != nil {
		record.Title = *pr.Title
	}
	if pr.Description != nil {
		record.Description = *pr.Description
	}
	if pr.IsDraft != nil {
		record.IsDraft = *pr.IsDraft
	}
	if pr.CreatedBy != nil && pr.CreatedBy.DisplayName != nil {
		record.CreatedBy = *pr.CreatedBy.DisplayName
	}
	if pr.SourceRefName != nil {
		record.SourceBranch = strings.TrimPrefix(*pr.SourceRefName, branchRefPrefix)
	}
	if pr.TargetRefName != nil {
		record.TargetBranch = strings.TrimPrefix(*pr.TargetRefName, branchRefPrefix)
	}
	if pr.CreationDate != nil {
		record.Created = pr.CreationDate.Time
	}
	if pr.MergeStatus != nil {
		record.MergeStatus = string(*pr.MergeStatus)
	}
	if pr.Url != nil {
		record.URL = *pr.Url
	}
	if pr.Reviewers != nil {
		for _, reviewer := range *pr.Reviewers {
			r := Reviewer{}
			if reviewer.DisplayName != nil {
				r.DisplayName = *reviewer.DisplayName
			}
			if reviewer.Vote != nil {
				r.Vote = voteLabel(*reviewer.Vote)
			}
			record.Reviewers = append(record.Reviewers, r)
		}
	}
	return record, nil
}

// threadRecord flattens one comment thread; deleted threads map to nil.
func threadRecord(thread *git.GitPullRequestCommentThread) (*CommentThread, error) {
	if thread == nil || (thread.IsDeleted != nil && *thread.IsDeleted) {
		return nil, nil
	}
	label, code, err := threadStatusFromAPI(thread.Status)
	if err != nil {
		return nil, err
	}

	record := &CommentThread{Status: label, StatusCode: code, Comments: []Comment{}}
	if thread.Id != nil {
		record.ID = *thread.Id
	}
	if tc := thread.ThreadContext; tc != nil {
		if tc.FilePath != nil {
			record.FilePath = *tc.FilePath
		}
		if tc.RightFileStart != nil && tc.RightFileStart.Line != nil {
			record.Line = *tc.RightFileStart.Line
		}
	}
	if thread.Comments != nil {
		for i := range *thread.Comments {
			comment := &(*thread.Comments)[i]
			if comment.IsDeleted != nil && *comment.IsDeleted {
				continue
			}
			record.Comments = append(record.Comments, commentRecord(comment))
		}
	}
	return record, nil
}

func commentRecord(comment *git.Comment) Comment {
	var record Comment
	if comment == nil {
		return record
	}
	if comment.Id != nil {
		record.ID = *comment.Id
	}
	if comment.ParentCommentId != nil {
		record.ParentID = *comment.ParentCommentId
	}
	if comment.Author != nil && comment.Author.DisplayName != nil {
		record.Author = *comment.Author.DisplayName
	}
	if comment.Content != nil {
		record.Content = *comment.Content
	}
	if comment.PublishedDate != nil {
		record.Published = comment.PublishedDate.Time
	}
	return record
}

// voteLabel maps reviewer vote integers onto their display meanings.
func voteLabel(vote int) string {
	switch vote {
	case 10:
		return "Approved"
	case 5:
		return "Approved with suggestions"
	case 0:
		return "No vote"
	case -5:
		return "Waiting for author"
	case -10:
		return "Rejected"
	default:
		return fmt.Sprintf("Unknown (%d)", vote)
	}
}
