package azdo

import (
	"context"
	"testing"
	"time"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

func newPullRequestManager(fake *Fake) *PullRequestManager {
	return NewPullRequestManager(fake, testConfig(), zap.NewNop().Sugar())
}

func TestPullRequestGet(t *testing.T) {
	fake := NewFake()
	m := newPullRequestManager(fake)

	created := azuredevops.Time{Time: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)}
	id := fake.SeedPullRequest("web", git.GitPullRequest{
		Title:         ptr("Add response caching"),
		Description:   ptr("Caches GET responses for 60s"),
		Status:        ptr(git.PullRequestStatusValues.Active),
		CreatedBy:     &webapi.IdentityRef{DisplayName: ptr("Rory Quinn")},
		SourceRefName: ptr("refs/heads/feature/cache"),
		TargetRefName: ptr("refs/heads/main"),
		CreationDate:  &created,
		MergeStatus:   ptr(git.PullRequestAsyncStatusValues.Succeeded),
		Reviewers: &[]git.IdentityRefWithVote{
			{DisplayName: ptr("Sam Lee"), Vote: ptr(10)},
			{DisplayName: ptr("Ash Patel"), Vote: ptr(-5)},
		},
	})

	pr, err := m.Get(context.Background(), "web", id)
	require.NoError(t, err)

	assert.Equal(t, id, pr.ID)
	assert.Equal(t, "web", pr.Repository)
	assert.Equal(t, "Active", pr.Status)
	assert.Equal(t, 2, pr.StatusCode)
	assert.Equal(t, "Rory Quinn", pr.CreatedBy)
	assert.Equal(t, "feature/cache", pr.SourceBranch)
	assert.Equal(t, "main", pr.TargetBranch)
	assert.Equal(t, created.Time, pr.Created)
	assert.Equal(t, "succeeded", pr.MergeStatus)
	require.Len(t, pr.Reviewers, 2)
	assert.Equal(t, "Approved", pr.Reviewers[0].Vote)
	assert.Equal(t, "Waiting for author", pr.Reviewers[1].Vote)
}

func TestPullRequestGet_NotFound(t *testing.T) {
	m := newPullRequestManager(NewFake())

	_, err := m.Get(context.Background(), "web", 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPullRequestGet_UnknownStatus(t *testing.T) {
	fake := NewFake()
	m := newPullRequestManager(fake)

	id := fake.SeedPullRequest("web", git.GitPullRequest{
		Title:  ptr("Undocumented status"),
		Status: ptr(git.PullRequestStatus("merged")),
	})

	_, err := m.Get(context.Background(), "web", id)
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestPullRequestList(t *testing.T) {
	fake := NewFake()
	m := newPullRequestManager(fake)

	fake.SeedPullRequest("web", git.GitPullRequest{
		Title: ptr("open one"), Status: ptr(git.PullRequestStatusValues.Active),
	})
	fake.SeedPullRequest("web", git.GitPullRequest{
		Title: ptr("merged one"), Status: ptr(git.PullRequestStatusValues.Completed),
	})
	fake.SeedPullRequest("web", git.GitPullRequest{
		Title: ptr("dropped one"), Status: ptr(git.PullRequestStatusValues.Abandoned),
	})

	completed, err := m.List(context.Background(), "web", "Completed", 0)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "merged one", completed[0].Title)
	require.NotNil(t, fake.LastPullRequestSearch)
	require.NotNil(t, fake.LastPullRequestSearch.Status)
	assert.Equal(t, git.PullRequestStatusValues.Completed, *fake.LastPullRequestSearch.Status)

	all, err := m.List(context.Background(), "web", "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Nil(t, fake.LastPullRequestSearch.Status)
}

func TestPullRequestList_Top(t *testing.T) {
	fake := NewFake()
	m := newPullRequestManager(fake)

	for i := 0; i < 5; i++ {
		fake.SeedPullRequest("web", git.GitPullRequest{
			Title: ptr("pr"), Status: ptr(git.PullRequestStatusValues.Active),
		})
	}

	prs, err := m.List(context.Background(), "web", "", 2)
	require.NoError(t, err)
	assert.Len(t, prs, 2)
}

func TestPullRequestList_BadStatus(t *testing.T) {
	m := newPullRequestManager(NewFake())

	_, err := m.List(context.Background(), "web", "Merged", 0)
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestPullRequestCreate(t *testing.T) {
	fake := NewFake()
	m := newPullRequestManager(fake)

	pr, err := m.Create(context.Background(), CreatePullRequestArgs{
		Repository:   "web",
		SourceBranch: "feature/cache",
		TargetBranch: "refs/heads/main",
		Title:        "Add response caching",
		Description:  "Caches GET responses for 60s",
		IsDraft:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Active", pr.Status)
	assert.Equal(t, "feature/cache", pr.SourceBranch)
	assert.Equal(t, "main", pr.TargetBranch)
	assert.True(t, pr.IsDraft)

	stored := fake.pullRequests["web"][pr.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "refs/heads/feature/cache", *stored.SourceRefName)
	assert.Equal(t, "refs/heads/main", *stored.TargetRefName)
}

func TestPullRequestCreate_Validation(t *testing.T) {
	m := newPullRequestManager(NewFake())

	tests := []struct {
		name string
		args CreatePullRequestArgs
	}{
		{
			name: "missing repository",
			args: CreatePullRequestArgs{SourceBranch: "a", TargetBranch: "b", Title: "t"},
		},
		{
			name: "missing source branch",
			args: CreatePullRequestArgs{Repository: "web", TargetBranch: "b", Title: "t"},
		},
		{
			name: "missing target branch",
			args: CreatePullRequestArgs{Repository: "web", SourceBranch: "a", Title: "t"},
		},
		{
			name: "missing title",
			args: CreatePullRequestArgs{Repository: "web", SourceBranch: "a", TargetBranch: "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Create(context.Background(), tt.args)
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), "required")
		})
	}
}

func TestAddComment(t *testing.T) {
	fake := NewFake()
	m := newPullRequestManager(fake)
	prID := fake.SeedPullRequest("web", git.GitPullRequest{
		Title: ptr("commented"), Status: ptr(git.PullRequestStatusValues.Active),
	})

	thread, err := m.AddComment(context.Background(), "web", prID, "Consider a sync.Pool here", "internal/cache/pool.go", 42)
	require.NoError(t, err)

	assert.Equal(t, "Active", thread.Status)
	assert.Equal(t, "internal/cache/pool.go", thread.FilePath)
	assert.Equal(t, 42, thread.Line)
	require.Len(t, thread.Comments, 1)
	assert.Equal(t, "Consider a sync.Pool here", thread.Comments[0].Content)
	assert.NotZero(t, thread.Comments[0].ID)
}

func TestAddComment_NoFileContext(t *testing.T) {
	fake := NewFake()
	m := newPullRequestManager(fake)
	prID := fake.SeedPullRequest("web", git.GitPullRequest{
		Title: ptr("general discussion"), Status: ptr(git.PullRequestStatusValues.Active),
	})

	thread, err := m.AddComment(context.Background(), "web", prID, "Looks good overall", "", 0)
	require.NoError(t, err)

	assert.Empty(t, thread.FilePath)
	assert.Zero(t, thread.Line)

	stored := fake.Thread(prID, thread.ID)
	require.NotNil(t, stored)
	assert.Nil(t, stored.ThreadContext)
}

func TestAddComment_Validation(t *testing.T) {
	m := newPullRequestManager(NewFake())

	_, err := m.AddComment(context.Background(), "web", 1, "", "", 0)
	require.ErrorIs(t, err, ErrValidation)
}

func TestReplyToComment(t *testing.T) {
	fake := NewFake()
	m := newPullRequestManager(fake)
	prID := fake.SeedPullRequest("web", git.GitPullRequest{
		Title: ptr("threaded"), Status: ptr(git.PullRequestStatusValues.Active),
	})
	threadID := fake.SeedThread(prID, git.GitPullRequestCommentThread{
		Status: ptr(git.CommentThreadStatusValues.Active),
		Comments: &[]git.Comment{
			{Id: ptr(1), Content: ptr("root comment")},
		},
	})

	reply, err := m.ReplyToComment(context.Background(), "web", prID, threadID, "Done in the next push")
	require.NoError(t, err)

	assert.Equal(t, "Done in the next push", reply.Content)
	assert.Equal(t, 1, reply.ParentID)

	stored := fake.Thread(prID, threadID)
	require.NotNil(t, stored)
	assert.Len(t, *stored.Comments, 2)
}

func TestReplyToComment_ThreadNotFound(t *testing.T) {
	fake := NewFake()
	m := newPullRequestManager(fake)
	prID := fake.SeedPullRequest("web", git.GitPullRequest{
		Title: ptr("no threads"), Status: ptr(git.PullRequestStatusValues.Active),
	})

	_, err := m.ReplyToComment(context.Background(), "web", prID, 99, "into the void")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetThreadStatus(t *testing.T) {
	fake := NewFake()
	m := newPullRequestManager(fake)
	prID := fake.SeedPullRequest("web", git.GitPullRequest{
		Title: ptr("resolvable"), Status: ptr(git.PullRequestStatusValues.Active),
	})
	threadID := fake.SeedThread(prID, git.GitPullRequestCommentThread{
		Status:   ptr(git.CommentThreadStatusValues.Active),
		Comments: &[]git.Comment{{Id: ptr(1), Content: ptr("needs a fix")}},
	})

	thread, err := m.SetThreadStatus(context.Background(), "web", prID, threadID, "Fixed")
	require.NoError(t, err)

	assert.Equal(t, "Fixed", thread.Status)
	assert.Equal(t, 2, thread.StatusCode)

	stored := fake.Thread(prID, threadID)
	assert.Equal(t, git.CommentThreadStatusValues.Fixed, *stored.Status)
}

func TestSetThreadStatus_BadLabel(t *testing.T) {
	m := newPullRequestManager(NewFake())

	_, err := m.SetThreadStatus(context.Background(), "web", 1, 1, "Resolved")
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestGetComments(t *testing.T) {
	fake := NewFake()
	m := newPullRequestManager(fake)
	prID := fake.SeedPullRequest("web", git.GitPullRequest{
		Title: ptr("discussed"), Status: ptr(git.PullRequestStatusValues.Active),
	})

	fake.SeedThread(prID, git.GitPullRequestCommentThread{
		Status: ptr(git.CommentThreadStatusValues.Active),
		Comments: &[]git.Comment{
			{Id: ptr(1), Content: ptr("visible"), Author: &webapi.IdentityRef{DisplayName: ptr("Sam Lee")}},
			{Id: ptr(2), Content: ptr("redacted"), IsDeleted: ptr(true)},
		},
	})
	fake.SeedThread(prID, git.GitPullRequestCommentThread{
		Status:    ptr(git.CommentThreadStatusValues.Fixed),
		IsDeleted: ptr(true),
		Comments:  &[]git.Comment{{Id: ptr(3), Content: ptr("gone")}},
	})
	// System threads (vote changes, ref updates) carry no status.
	fake.SeedThread(prID, git.GitPullRequestCommentThread{
		Comments: &[]git.Comment{{Id: ptr(4), Content: ptr("Sam Lee voted 10")}},
	})

	threads, err := m.GetComments(context.Background(), "web", prID)
	require.NoError(t, err)

	require.Len(t, threads, 2, "deleted thread should be filtered")

	assert.Equal(t, "Active", threads[0].Status)
	require.Len(t, threads[0].Comments, 1, "deleted comment should be filtered")
	assert.Equal(t, "visible", threads[0].Comments[0].Content)
	assert.Equal(t, "Sam Lee", threads[0].Comments[0].Author)

	assert.Empty(t, threads[1].Status, "system thread keeps an empty status")
	assert.Zero(t, threads[1].StatusCode)
}
