package azdo

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/core"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"
)

// Fake is an in-memory Azure DevOps double implementing WorkItemsClient,
// GitClient and CoreClient. It keeps work items, pull requests and comment
// threads in maps and mimics the slice of API behavior the managers rely
// on: patch application, 404s for missing entities, and id assignment.
//
// The zero value is not usable; construct with NewFake.
type Fake struct {
	mu sync.Mutex

	// Err, when set, fails every subsequent call with it.
	Err error

	nextWorkItemID int
	workItems      map[int]*workitemtracking.WorkItem

	// Deleted and Destroyed record delete calls by work item id.
	Deleted   map[int]bool
	Destroyed map[int]bool

	// QueryResultIDs is what QueryByWiql reports, in order. LastWIQL
	// captures the most recent query text.
	QueryResultIDs []int
	LastWIQL       string

	nextPullRequestID int
	pullRequests      map[string]map[int]*git.GitPullRequest

	nextThreadID  int
	nextCommentID int
	threads       map[int][]*git.GitPullRequestCommentThread

	// LastPullRequestSearch captures the most recent listing criteria.
	LastPullRequestSearch *git.GitPullRequestSearchCriteria

	Projects     []core.TeamProjectReference
	Repositories []git.GitRepository
}

// NewFake returns an empty, usable fake.
func NewFake() *Fake {
	return &Fake{
		workItems:    make(map[int]*workitemtracking.WorkItem),
		Deleted:      make(map[int]bool),
		Destroyed:    make(map[int]bool),
		pullRequests: make(map[string]map[int]*git.GitPullRequest),
		threads:      make(map[int][]*git.GitPullRequestCommentThread),
	}
}

func notFoundError(format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	statusCode := http.StatusNotFound
	return azuredevops.WrappedError{Message: &message, StatusCode: &statusCode}
}

// WorkItem returns the stored work item, for assertions.
func (f *Fake) WorkItem(id int) *workitemtracking.WorkItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workItems[id]
}

// WorkItemField returns one stored field value, for assertions.
func (f *Fake) WorkItemField(id int, name string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	wi, ok := f.workItems[id]
	if !ok || wi.Fields == nil {
		return nil
	}
	return (*wi.Fields)[name]
}

// SeedWorkItem stores a work item with the given fields and returns its id.
func (f *Fake) SeedWorkItem(itemType string, fields map[string]any) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextWorkItemID++
	id := f.nextWorkItemID
	rev := 1
	all := map[string]any{fieldWorkItemType: itemType}
	for k, v := range fields {
		all[k] = v
	}
	url := fmt.Sprintf("https://dev.azure.com/fake/_apis/wit/workItems/%d", id)
	f.workItems[id] = &workitemtracking.WorkItem{Id: &id, Rev: &rev, Fields: &all, Url: &url}
	return id
}

// SeedPullRequest stores a pull request under the repository and returns
// its id.
func (f *Fake) SeedPullRequest(repository string, pr git.GitPullRequest) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextPullRequestID++
	id := f.nextPullRequestID
	pr.PullRequestId = &id
	if f.pullRequests[repository] == nil {
		f.pullRequests[repository] = make(map[int]*git.GitPullRequest)
	}
	f.pullRequests[repository][id] = &pr
	return id
}

// SeedThread stores a comment thread on a pull request and returns its id.
func (f *Fake) SeedThread(prID int, thread git.GitPullRequestCommentThread) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextThreadID++
	id := f.nextThreadID
	thread.Id = &id
	f.threads[prID] = append(f.threads[prID], &thread)
	return id
}

// Thread returns a stored thread, for assertions.
func (f *Fake) Thread(prID, threadID int) *git.GitPullRequestCommentThread {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, thread := range f.threads[prID] {
		if thread.Id != nil && *thread.Id == threadID {
			return thread
		}
	}
	return nil
}

// applyPatchDocument mirrors the service-side JSON patch semantics the
// managers emit: field adds and relation appends.
func applyPatchDocument(wi *workitemtracking.WorkItem, doc *[]webapi.JsonPatchOperation) {
	if doc == nil {
		return
	}
	for _, op := range *doc {
		if op.Path == nil {
			continue
		}
		switch {
		case strings.HasPrefix(*op.Path, "/fields/"):
			(*wi.Fields)[strings.TrimPrefix(*op.Path, "/fields/")] = op.Value
		case *op.Path == "/relations/-":
			value, ok := op.Value.(map[string]any)
			if !ok {
				continue
			}
			rel, _ := value["rel"].(string)
			url, _ := value["url"].(string)
			var relations []workitemtracking.WorkItemRelation
			if wi.Relations != nil {
				relations = *wi.Relations
			}
			relations = append(relations, workitemtracking.WorkItemRelation{Rel: &rel, Url: &url})
			wi.Relations = &relations
		}
	}
}

// --- WorkItemsClient ---

func (f *Fake) CreateWorkItem(_ context.Context, args workitemtracking.CreateWorkItemArgs) (*workitemtracking.WorkItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.nextWorkItemID++
	id := f.nextWorkItemID
	rev := 1
	fields := map[string]any{}
	if args.Type != nil {
		fields[fieldWorkItemType] = *args.Type
	}
	url := fmt.Sprintf("https://dev.azure.com/fake/_apis/wit/workItems/%d", id)
	wi := &workitemtracking.WorkItem{Id: &id, Rev: &rev, Fields: &fields, Url: &url}
	applyPatchDocument(wi, args.Document)
	f.workItems[id] = wi
	return wi, nil
}

func (f *Fake) UpdateWorkItem(_ context.Context, args workitemtracking.UpdateWorkItemArgs) (*workitemtracking.WorkItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if args.Id == nil {
		return nil, notFoundError("work item id missing")
	}
	wi, ok := f.workItems[*args.Id]
	if !ok {
		return nil, notFoundError("TF401232: work item %d does not exist", *args.Id)
	}
	applyPatchDocument(wi, args.Document)
	if wi.Rev != nil {
		rev := *wi.Rev + 1
		wi.Rev = &rev
	}
	return wi, nil
}

func (f *Fake) GetWorkItem(_ context.Context, args workitemtracking.GetWorkItemArgs) (*workitemtracking.WorkItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if args.Id == nil {
		return nil, notFoundError("work item id missing")
	}
	wi, ok := f.workItems[*args.Id]
	if !ok {
		return nil, notFoundError("TF401232: work item %d does not exist", *args.Id)
	}
	return wi, nil
}

// GetWorkItems returns the requested items sorted by id regardless of the
// requested order, the way the batch endpoint may. Callers that care about
// order have to restore it themselves.
func (f *Fake) GetWorkItems(_ context.Context, args workitemtracking.GetWorkItemsArgs) (*[]workitemtracking.WorkItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	items := []workitemtracking.WorkItem{}
	if args.Ids == nil {
		return &items, nil
	}
	ids := append([]int{}, *args.Ids...)
	sort.Ints(ids)
	for _, id := range ids {
		if wi, ok := f.workItems[id]; ok {
			items = append(items, *wi)
		}
	}
	return &items, nil
}

func (f *Fake) DeleteWorkItem(_ context.Context, args workitemtracking.DeleteWorkItemArgs) (*workitemtracking.WorkItemDelete, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if args.Id == nil {
		return nil, notFoundError("work item id missing")
	}
	id := *args.Id
	if _, ok := f.workItems[id]; !ok {
		return nil, notFoundError("TF401232: work item %d does not exist", id)
	}
	delete(f.workItems, id)
	f.Deleted[id] = true
	if args.Destroy != nil && *args.Destroy {
		f.Destroyed[id] = true
	}
	return &workitemtracking.WorkItemDelete{Id: &id}, nil
}

func (f *Fake) QueryByWiql(_ context.Context, args workitemtracking.QueryByWiqlArgs) (*workitemtracking.WorkItemQueryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if args.Wiql != nil && args.Wiql.Query != nil {
		f.LastWIQL = *args.Wiql.Query
	}
	refs := make([]workitemtracking.WorkItemReference, 0, len(f.QueryResultIDs))
	for _, id := range f.QueryResultIDs {
		id := id
		refs = append(refs, workitemtracking.WorkItemReference{Id: &id})
	}
	return &workitemtracking.WorkItemQueryResult{WorkItems: &refs}, nil
}

// --- GitClient ---

func (f *Fake) GetPullRequest(_ context.Context, args git.GetPullRequestArgs) (*git.GitPullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	repository := ""
	if args.RepositoryId != nil {
		repository = *args.RepositoryId
	}
	if args.PullRequestId == nil {
		return nil, notFoundError("pull request id missing")
	}
	pr, ok := f.pullRequests[repository][*args.PullRequestId]
	if !ok {
		return nil, notFoundError("TF401180: pull request %d does not exist", *args.PullRequestId)
	}
	return pr, nil
}

func (f *Fake) GetPullRequests(_ context.Context, args git.GetPullRequestsArgs) (*[]git.GitPullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	repository := ""
	if args.RepositoryId != nil {
		repository = *args.RepositoryId
	}
	f.LastPullRequestSearch = args.SearchCriteria

	ids := make([]int, 0, len(f.pullRequests[repository]))
	for id := range f.pullRequests[repository] {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	prs := []git.GitPullRequest{}
	for _, id := range ids {
		pr := f.pullRequests[repository][id]
		if args.SearchCriteria != nil && args.SearchCriteria.Status != nil &&
			*args.SearchCriteria.Status != git.PullRequestStatusValues.All {
			if pr.Status == nil || *pr.Status != *args.SearchCriteria.Status {
				continue
			}
		}
		prs = append(prs, *pr)
		if args.Top != nil && len(prs) >= *args.Top {
			break
		}
	}
	return &prs, nil
}

func (f *Fake) CreatePullRequest(_ context.Context, args git.CreatePullRequestArgs) (*git.GitPullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	repository := ""
	if args.RepositoryId != nil {
		repository = *args.RepositoryId
	}
	pr := git.GitPullRequest{}
	if args.GitPullRequestToCreate != nil {
		pr = *args.GitPullRequestToCreate
	}
	f.nextPullRequestID++
	id := f.nextPullRequestID
	pr.PullRequestId = &id
	if pr.Status == nil {
		status := git.PullRequestStatusValues.Active
		pr.Status = &status
	}
	created := azuredevops.Time{Time: time.Now().UTC()}
	pr.CreationDate = &created
	if f.pullRequests[repository] == nil {
		f.pullRequests[repository] = make(map[int]*git.GitPullRequest)
	}
	f.pullRequests[repository][id] = &pr
	return &pr, nil
}

func (f *Fake) GetThreads(_ context.Context, args git.GetThreadsArgs) (*[]git.GitPullRequestCommentThread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if args.PullRequestId == nil {
		return nil, notFoundError("pull request id missing")
	}
	threads := []git.GitPullRequestCommentThread{}
	for _, thread := range f.threads[*args.PullRequestId] {
		threads = append(threads, *thread)
	}
	return &threads, nil
}

func (f *Fake) CreateThread(_ context.Context, args git.CreateThreadArgs) (*git.GitPullRequestCommentThread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if args.PullRequestId == nil || args.CommentThread == nil {
		return nil, notFoundError("pull request id missing")
	}
	f.nextThreadID++
	id := f.nextThreadID
	thread := *args.CommentThread
	thread.Id = &id
	if thread.Comments != nil {
		comments := append([]git.Comment{}, *thread.Comments...)
		for i := range comments {
			f.nextCommentID++
			commentID := f.nextCommentID
			comments[i].Id = &commentID
			published := azuredevops.Time{Time: time.Now().UTC()}
			comments[i].PublishedDate = &published
		}
		thread.Comments = &comments
	}
	f.threads[*args.PullRequestId] = append(f.threads[*args.PullRequestId], &thread)
	return &thread, nil
}

func (f *Fake) CreateComment(_ context.Context, args git.CreateCommentArgs) (*git.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if args.PullRequestId == nil || args.ThreadId == nil || args.Comment == nil {
		return nil, notFoundError("thread id missing")
	}
	for _, thread := range f.threads[*args.PullRequestId] {
		if thread.Id == nil || *thread.Id != *args.ThreadId {
			continue
		}
		f.nextCommentID++
		commentID := f.nextCommentID
		comment := *args.Comment
		comment.Id = &commentID
		published := azuredevops.Time{Time: time.Now().UTC()}
		comment.PublishedDate = &published
		var comments []git.Comment
		if thread.Comments != nil {
			comments = *thread.Comments
		}
		comments = append(comments, comment)
		thread.Comments = &comments
		return &comment, nil
	}
	return nil, notFoundError("TF401183: thread %d does not exist", *args.ThreadId)
}

func (f *Fake) UpdateThread(_ context.Context, args git.UpdateThreadArgs) (*git.GitPullRequestCommentThread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if args.PullRequestId == nil || args.ThreadId == nil {
		return nil, notFoundError("thread id missing")
	}
	for _, thread := range f.threads[*args.PullRequestId] {
		if thread.Id == nil || *thread.Id != *args.ThreadId {
			continue
		}
		if args.CommentThread != nil && args.CommentThread.Status != nil {
			status := *args.CommentThread.Status
			thread.Status = &status
		}
		return thread, nil
	}
	return nil, notFoundError("TF401183: thread %d does not exist", *args.ThreadId)
}

func (f *Fake) GetRepositories(_ context.Context, _ git.GetRepositoriesArgs) (*[]git.GitRepository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	repos := append([]git.GitRepository{}, f.Repositories...)
	return &repos, nil
}

// --- CoreClient ---

func (f *Fake) GetProjects(_ context.Context, _ core.GetProjectsArgs) (*core.GetProjectsResponseValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return &core.GetProjectsResponseValue{Value: append([]core.TeamProjectReference{}, f.Projects...)}, nil
}

func (f *Fake) GetProject(_ context.Context, args core.GetProjectArgs) (*core.TeamProject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if args.ProjectId == nil {
		return nil, notFoundError("project id missing")
	}
	for _, ref := range f.Projects {
		if ref.Name != nil && *ref.Name == *args.ProjectId {
			return &core.TeamProject{
				Id:          ref.Id,
				Name:        ref.Name,
				Description: ref.Description,
				State:       ref.State,
				Url:         ref.Url,
			}, nil
		}
	}
	return nil, notFoundError("project %q does not exist", *args.ProjectId)
}
