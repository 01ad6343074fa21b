package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luutranit2/azure-devops-mcp/pkg/azdo"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) testConnection(c *gin.Context) {
	status, err := s.svc.TestConnection(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) organizationInfo(c *gin.Context) {
	info, err := s.svc.OrganizationInfo(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) listProjects(c *gin.Context) {
	org, err := s.svc.Organization(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	projects, err := org.ListProjects(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) listRepositories(c *gin.Context) {
	org, err := s.svc.Organization(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	repos, err := org.ListRepositories(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, repos)
}

func (s *Server) createUserStory(c *gin.Context) {
	var req createUserStoryRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	work, err := s.svc.WorkItems(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	story, err := work.CreateUserStory(c.Request.Context(), req.args())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, story)
}

func (s *Server) updateUserStory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req updateUserStoryRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	work, err := s.svc.WorkItems(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	story, err := work.UpdateUserStory(c.Request.Context(), id, req.args())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (s *Server) deleteUserStory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	destroy, _ := strconv.ParseBool(c.Query("destroy"))
	work, err := s.svc.WorkItems(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := work.DeleteUserStory(c.Request.Context(), id, destroy); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "id": id, "destroyed": destroy})
}

func (s *Server) linkUserStoryToFeature(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req linkFeatureRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	work, err := s.svc.WorkItems(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	link, err := work.LinkUserStoryToFeature(c.Request.Context(), id, req.FeatureID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (s *Server) createBug(c *gin.Context) {
	var req createBugRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	work, err := s.svc.WorkItems(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	bug, err := work.CreateBug(c.Request.Context(), req.args())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bug)
}

func (s *Server) updateBug(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req updateBugRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	work, err := s.svc.WorkItems(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	bug, err := work.UpdateBug(c.Request.Context(), id, req.args())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bug)
}

func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	work, err := s.svc.WorkItems(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	task, err := work.CreateTask(c.Request.Context(), req.args())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) getWorkItem(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	work, err := s.svc.WorkItems(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	item, err := work.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) searchWorkItems(c *gin.Context) {
	var req searchWorkItemsRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	work, err := s.svc.WorkItems(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	items, err := work.Search(c.Request.Context(), req.WIQL)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) createTestCase(c *gin.Context) {
	var req createTestCaseRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	tests, err := s.svc.TestCases(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	tc, err := tests.Create(c.Request.Context(), req.args())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tc)
}

func (s *Server) getTestCase(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	tests, err := s.svc.TestCases(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	tc, err := tests.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tc)
}

func (s *Server) updateTestCase(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req updateTestCaseRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	tests, err := s.svc.TestCases(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	tc, err := tests.Update(c.Request.Context(), id, req.args())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tc)
}

func (s *Server) associateTestCase(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req associateTestCaseRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	tests, err := s.svc.TestCases(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	link, err := tests.AssociateWithUserStory(c.Request.Context(), id, req.UserStoryID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (s *Server) searchTestCases(c *gin.Context) {
	var req searchTestCasesRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	tests, err := s.svc.TestCases(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	results, err := tests.Search(c.Request.Context(), req.Text)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) listPullRequests(c *gin.Context) {
	prs, err := s.svc.PullRequests(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	top := 0
	if raw := c.Query("top"); raw != "" {
		top, _ = strconv.Atoi(raw)
	}
	records, err := prs.List(c.Request.Context(), c.Param("repo"), c.Query("status"), top)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) createPullRequest(c *gin.Context) {
	var req createPullRequestRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	prs, err := s.svc.PullRequests(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	pr, err := prs.Create(c.Request.Context(), azdo.CreatePullRequestArgs{
		Repository:   c.Param("repo"),
		SourceBranch: req.SourceBranch,
		TargetBranch: req.TargetBranch,
		Title:        req.Title,
		Description:  req.Description,
		IsDraft:      req.IsDraft,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pr)
}

func (s *Server) getPullRequest(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	prs, err := s.svc.PullRequests(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	pr, err := prs.Get(c.Request.Context(), c.Param("repo"), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pr)
}

func (s *Server) getPullRequestComments(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	prs, err := s.svc.PullRequests(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	threads, err := prs.GetComments(c.Request.Context(), c.Param("repo"), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, threads)
}

func (s *Server) addPullRequestComment(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req addCommentRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	prs, err := s.svc.PullRequests(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	thread, err := prs.AddComment(c.Request.Context(), c.Param("repo"), id, req.Content, req.FilePath, req.Line)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, thread)
}

func (s *Server) replyToComment(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	threadID, err := idParam(c, "threadId")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req replyRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	prs, err := s.svc.PullRequests(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	comment, err := prs.ReplyToComment(c.Request.Context(), c.Param("repo"), id, threadID, req.Content)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (s *Server) setThreadStatus(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	threadID, err := idParam(c, "threadId")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req setThreadStatusRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	prs, err := s.svc.PullRequests(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	thread, err := prs.SetThreadStatus(c.Request.Context(), c.Param("repo"), id, threadID, req.Status)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}
