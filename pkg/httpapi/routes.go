package httpapi

import "github.com/gin-gonic/gin"

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/health", s.health)

	api := router.Group("/api")

	api.GET("/connection", s.testConnection)
	api.GET("/organization", s.organizationInfo)
	api.GET("/projects", s.listProjects)
	api.GET("/repositories", s.listRepositories)

	api.POST("/userstories", s.createUserStory)
	api.PATCH("/userstories/:id", s.updateUserStory)
	api.DELETE("/userstories/:id", s.deleteUserStory)
	api.POST("/userstories/:id/feature", s.linkUserStoryToFeature)

	api.POST("/bugs", s.createBug)
	api.PATCH("/bugs/:id", s.updateBug)

	api.POST("/tasks", s.createTask)

	api.GET("/workitems/:id", s.getWorkItem)
	api.POST("/search/workitems", s.searchWorkItems)

	api.POST("/testcases", s.createTestCase)
	api.GET("/testcases/:id", s.getTestCase)
	api.PATCH("/testcases/:id", s.updateTestCase)
	api.POST("/testcases/:id/userstory", s.associateTestCase)
	api.POST("/search/testcases", s.searchTestCases)

	api.GET("/repos/:repo/pullrequests", s.listPullRequests)
	api.POST("/repos/:repo/pullrequests", s.createPullRequest)
	api.GET("/repos/:repo/pullrequests/:id", s.getPullRequest)
	api.GET("/repos/:repo/pullrequests/:id/threads", s.getPullRequestComments)
	api.POST("/repos/:repo/pullrequests/:id/threads", s.addPullRequestComment)
	api.PATCH("/repos/:repo/pullrequests/:id/threads/:threadId", s.setThreadStatus)
	api.POST("/repos/:repo/pullrequests/:id/threads/:threadId/replies", s.replyToComment)
}
