package httpapi

import "github.com/luutranit2/azure-devops-mcp/pkg/azdo"

// Request bodies. Required-field enforcement lives in the azdo managers so
// the REST and MCP surfaces reject input with identical messages; binding
// here stays structural.

type createUserStoryRequest struct {
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	AcceptanceCriteria string         `json:"acceptanceCriteria"`
	Priority           int            `json:"priority"`
	StoryPoints        float64        `json:"storyPoints"`
	AssignedTo         string         `json:"assignedTo"`
	AreaPath           string         `json:"areaPath"`
	IterationPath      string         `json:"iterationPath"`
	Tags               []string       `json:"tags"`
	ParentFeatureID    int            `json:"parentFeatureId"`
	Fields             map[string]any `json:"fields"`
}

func (r createUserStoryRequest) args() azdo.CreateUserStoryArgs {
	return azdo.CreateUserStoryArgs{
		Title:              r.Title,
		Description:        r.Description,
		AcceptanceCriteria: r.AcceptanceCriteria,
		Priority:           r.Priority,
		StoryPoints:        r.StoryPoints,
		AssignedTo:         r.AssignedTo,
		AreaPath:           r.AreaPath,
		IterationPath:      r.IterationPath,
		Tags:               r.Tags,
		ParentFeatureID:    r.ParentFeatureID,
		Fields:             r.Fields,
	}
}

type updateUserStoryRequest struct {
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	AcceptanceCriteria string         `json:"acceptanceCriteria"`
	State              string         `json:"state"`
	Priority           int            `json:"priority"`
	StoryPoints        float64        `json:"storyPoints"`
	AssignedTo         string         `json:"assignedTo"`
	AreaPath           string         `json:"areaPath"`
	IterationPath      string         `json:"iterationPath"`
	Tags               []string       `json:"tags"`
	Fields             map[string]any `json:"fields"`
}

func (r updateUserStoryRequest) args() azdo.UpdateUserStoryArgs {
	return azdo.UpdateUserStoryArgs{
		Title:              r.Title,
		Description:        r.Description,
		AcceptanceCriteria: r.AcceptanceCriteria,
		State:              r.State,
		Priority:           r.Priority,
		StoryPoints:        r.StoryPoints,
		AssignedTo:         r.AssignedTo,
		AreaPath:           r.AreaPath,
		IterationPath:      r.IterationPath,
		Tags:               r.Tags,
		Fields:             r.Fields,
	}
}

type linkFeatureRequest struct {
	FeatureID int `json:"featureId"`
}

type createBugRequest struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	ReproSteps    string         `json:"reproSteps"`
	SystemInfo    string         `json:"systemInfo"`
	FoundIn       string         `json:"foundIn"`
	Priority      int            `json:"priority"`
	Severity      int            `json:"severity"`
	AssignedTo    string         `json:"assignedTo"`
	AreaPath      string         `json:"areaPath"`
	IterationPath string         `json:"iterationPath"`
	Tags          []string       `json:"tags"`
	ParentID      int            `json:"parentId"`
	Fields        map[string]any `json:"fields"`
}

func (r createBugRequest) args() azdo.CreateBugArgs {
	return azdo.CreateBugArgs{
		Title:         r.Title,
		Description:   r.Description,
		ReproSteps:    r.ReproSteps,
		SystemInfo:    r.SystemInfo,
		FoundIn:       r.FoundIn,
		Priority:      r.Priority,
		Severity:      r.Severity,
		AssignedTo:    r.AssignedTo,
		AreaPath:      r.AreaPath,
		IterationPath: r.IterationPath,
		Tags:          r.Tags,
		ParentID:      r.ParentID,
		Fields:        r.Fields,
	}
}

type updateBugRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	ReproSteps  string         `json:"reproSteps"`
	SystemInfo  string         `json:"systemInfo"`
	FoundIn     string         `json:"foundIn"`
	State       string         `json:"state"`
	Priority    int            `json:"priority"`
	Severity    int            `json:"severity"`
	AssignedTo  string         `json:"assignedTo"`
	Tags        []string       `json:"tags"`
	Fields      map[string]any `json:"fields"`
}

func (r updateBugRequest) args() azdo.UpdateBugArgs {
	return azdo.UpdateBugArgs{
		Title:       r.Title,
		Description: r.Description,
		ReproSteps:  r.ReproSteps,
		SystemInfo:  r.SystemInfo,
		FoundIn:     r.FoundIn,
		State:       r.State,
		Priority:    r.Priority,
		Severity:    r.Severity,
		AssignedTo:  r.AssignedTo,
		Tags:        r.Tags,
		Fields:      r.Fields,
	}
}

type createTaskRequest struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Priority      int            `json:"priority"`
	AssignedTo    string         `json:"assignedTo"`
	AreaPath      string         `json:"areaPath"`
	IterationPath string         `json:"iterationPath"`
	Tags          []string       `json:"tags"`
	ParentID      int            `json:"parentId"`
	Fields        map[string]any `json:"fields"`
}

func (r createTaskRequest) args() azdo.CreateTaskArgs {
	return azdo.CreateTaskArgs{
		Title:         r.Title,
		Description:   r.Description,
		Priority:      r.Priority,
		AssignedTo:    r.AssignedTo,
		AreaPath:      r.AreaPath,
		IterationPath: r.IterationPath,
		Tags:          r.Tags,
		ParentID:      r.ParentID,
		Fields:        r.Fields,
	}
}

type searchWorkItemsRequest struct {
	WIQL string `json:"wiql"`
}

type createTestCaseRequest struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Steps            []azdo.TestStep `json:"steps"`
	Priority         int             `json:"priority"`
	AutomationStatus string          `json:"automationStatus"`
	AreaPath         string          `json:"areaPath"`
	IterationPath    string          `json:"iterationPath"`
	Tags             []string        `json:"tags"`
	Fields           map[string]any  `json:"fields"`
}

func (r createTestCaseRequest) args() azdo.CreateTestCaseArgs {
	return azdo.CreateTestCaseArgs{
		Title:            r.Title,
		Description:      r.Description,
		Steps:            r.Steps,
		Priority:         r.Priority,
		AutomationStatus: r.AutomationStatus,
		AreaPath:         r.AreaPath,
		IterationPath:    r.IterationPath,
		Tags:             r.Tags,
		Fields:           r.Fields,
	}
}

type updateTestCaseRequest struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Steps            []azdo.TestStep `json:"steps"`
	Priority         int             `json:"priority"`
	AutomationStatus string          `json:"automationStatus"`
	State            string          `json:"state"`
	Tags             []string        `json:"tags"`
	Fields           map[string]any  `json:"fields"`
}

func (r updateTestCaseRequest) args() azdo.UpdateTestCaseArgs {
	return azdo.UpdateTestCaseArgs{
		Title:            r.Title,
		Description:      r.Description,
		Steps:            r.Steps,
		Priority:         r.Priority,
		AutomationStatus: r.AutomationStatus,
		State:            r.State,
		Tags:             r.Tags,
		Fields:           r.Fields,
	}
}

type associateTestCaseRequest struct {
	UserStoryID int `json:"userStoryId"`
}

type searchTestCasesRequest struct {
	Text string `json:"text"`
}

type createPullRequestRequest struct {
	SourceBranch string `json:"sourceBranch"`
	TargetBranch string `json:"targetBranch"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	IsDraft      bool   `json:"isDraft"`
}

type addCommentRequest struct {
	Content  string `json:"content"`
	FilePath string `json:"filePath"`
	Line     int    `json:"line"`
}

type replyRequest struct {
	Content string `json:"content"`
}

type setThreadStatusRequest struct {
	Status string `json:"status"`
}
