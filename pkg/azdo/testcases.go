package azdo

import (
	"context"
	"fmt"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"
	"go.uber.org/zap"
)

// CreateTestCaseArgs carries the accepted fields for a new test case.
type CreateTestCaseArgs struct {
	Title            string
	Description      string
	Steps            []TestStep
	Priority         int
	AutomationStatus string
	AreaPath         string
	IterationPath    string
	Tags             []string
	Fields           map[string]any
}

// UpdateTestCaseArgs carries the fields a test case update may touch. A
// non-nil Steps replaces the whole step list.
type UpdateTestCaseArgs struct {
	Title            string
	Description      string
	Steps            []TestStep
	Priority         int
	AutomationStatus string
	State            string
	Tags             []string
	Fields           map[string]any
}

// TestCaseManager handles Test Case work items, including the step XML
// round trip.
type TestCaseManager struct {
	api    WorkItemsClient
	cfg    Config
	orgURL string
	log    *zap.SugaredLogger
}

// NewTestCaseManager builds a manager over an already-connected client.
func NewTestCaseManager(api WorkItemsClient, cfg Config, orgURL string, log *zap.SugaredLogger) *TestCaseManager {
	return &TestCaseManager{api: api, cfg: cfg, orgURL: orgURL, log: log}
}

func (m *TestCaseManager) newPatch() *patchBuilder {
	return &patchBuilder{orgURL: m.orgURL, log: m.log}
}

// Create creates a Test Case work item. Title and description are
// required; steps are serialized into the Steps field.
func (m *TestCaseManager) Create(ctx context.Context, args CreateTestCaseArgs) (*TestCase, error) {
	if err := requireField("title", args.Title); err != nil {
		return nil, err
	}
	if err := requireField("description", args.Description); err != nil {
		return nil, err
	}

	b := m.newPatch()
	b.field(fieldTitle, args.Title)
	b.field(fieldDescription, args.Description)
	if len(args.Steps) > 0 {
		stepsXML, err := MarshalSteps(args.Steps)
		if err != nil {
			return nil, err
		}
		b.field(fieldSteps, stepsXML)
	}
	if args.Priority != 0 {
		b.priority(args.Priority)
	}
	if args.AutomationStatus != "" {
		b.field(fieldAutomationStatus, args.AutomationStatus)
	}
	if args.AreaPath != "" {
		b.field(fieldAreaPath, args.AreaPath)
	}
	if args.IterationPath != "" {
		b.field(fieldIterationPath, args.IterationPath)
	}
	b.tags(args.Tags)
	b.extra(args.Fields)

	itemType := typeTestCase
	created, err := m.api.CreateWorkItem(ctx, workitemtracking.CreateWorkItemArgs{
		Type:     &itemType,
		Project:  &m.cfg.Project,
		Document: &b.ops,
	})
	if err != nil {
		return nil, wrapUpstream("create test case", err)
	}
	record, err := testCaseRecord(created)
	if err != nil {
		return nil, err
	}
	m.log.Infow("created test case", "id", record.ID)
	return record, nil
}

// Update patches an existing test case. At least one field must be
// provided.
func (m *TestCaseManager) Update(ctx context.Context, id int, args UpdateTestCaseArgs) (*TestCase, error) {
	if err := requireID("test case id", id); err != nil {
		return nil, err
	}

	b := m.newPatch()
	if args.Title != "" {
		b.field(fieldTitle, args.Title)
	}
	if args.Description != "" {
		b.field(fieldDescription, args.Description)
	}
	if args.Steps != nil {
		stepsXML, err := MarshalSteps(args.Steps)
		if err != nil {
			return nil, err
		}
		b.field(fieldSteps, stepsXML)
	}
	if args.Priority != 0 {
		b.priority(args.Priority)
	}
	if args.AutomationStatus != "" {
		b.field(fieldAutomationStatus, args.AutomationStatus)
	}
	if args.State != "" {
		b.field(fieldState, args.State)
	}
	b.tags(args.Tags)
	b.extra(args.Fields)
	if len(b.ops) == 0 {
		return nil, fmt.Errorf("%w: at least one field to update is required", ErrValidation)
	}

	updated, err := m.api.UpdateWorkItem(ctx, workitemtracking.UpdateWorkItemArgs{
		Id:       &id,
		Project:  &m.cfg.Project,
		Document: &b.ops,
	})
	if err != nil {
		return nil, wrapUpstream(fmt.Sprintf("update test case %d", id), err)
	}
	return testCaseRecord(updated)
}

// Get returns one test case with its steps decoded.
func (m *TestCaseManager) Get(ctx context.Context, id int) (*TestCase, error) {
	if err := requireID("test case id", id); err != nil {
		return nil, err
	}

	expand := workitemtracking.WorkItemExpandValues.All
	wi, err := m.api.GetWorkItem(ctx, workitemtracking.GetWorkItemArgs{
		Id:      &id,
		Project: &m.cfg.Project,
		Expand:  &expand,
	})
	if err != nil {
		return nil, wrapUpstream(fmt.Sprintf("get test case %d", id), err)
	}
	return testCaseRecord(wi)
}

// AssociateWithUserStory adds a Tests relation from the test case to the
// user story.
func (m *TestCaseManager) AssociateWithUserStory(ctx context.Context, testCaseID, userStoryID int) (*Link, error) {
	if err := requireID("test case id", testCaseID); err != nil {
		return nil, err
	}
	if err := requireID("user story id", userStoryID); err != nil {
		return nil, err
	}

	path := "/relations/-"
	ops := []webapi.JsonPatchOperation{{
		Op:   &webapi.OperationValues.Add,
		Path: &path,
		Value: map[string]any{
			"rel": relTestedBy,
			"url": fmt.Sprintf("%s/_apis/wit/workItems/%d", m.orgURL, userStoryID),
		},
	}}
	if _, err := m.api.UpdateWorkItem(ctx, workitemtracking.UpdateWorkItemArgs{
		Id:       &testCaseID,
		Project:  &m.cfg.Project,
		Document: &ops,
	}); err != nil {
		return nil, wrapUpstream("associate test case with user story", err)
	}
	m.log.Infow("associated test case with user story", "testCaseId", testCaseID, "userStoryId", userStoryID)
	return &Link{Linked: true, TestCaseID: testCaseID, UserStoryID: userStoryID}, nil
}

// Search finds test cases whose title contains the text, in the order the
// query service returned them.
func (m *TestCaseManager) Search(ctx context.Context, text string) ([]TestCase, error) {
	if err := requireField("search text", text); err != nil {
		return nil, err
	}

	wiql := fmt.Sprintf(
		"SELECT [System.Id] FROM WorkItems WHERE [System.TeamProject] = '%s' AND [System.WorkItemType] = 'Test Case' AND [System.Title] CONTAINS '%s' ORDER BY [System.ChangedDate] DESC",
		escapeWIQL(m.cfg.Project), escapeWIQL(text))

	items, err := queryWorkItems(ctx, m.api, m.cfg.Project, wiql)
	if err != nil {
		return nil, err
	}
	records := make([]TestCase, 0, len(items))
	for i := range items {
		record, err := testCaseRecord(&items[i])
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// testCaseRecord decodes the steps field on top of the work item record.
func testCaseRecord(wi *workitemtracking.WorkItem) (*TestCase, error) {
	record := TestCase{WorkItem: workItemRecord(wi), Steps: []TestStep{}}
	if wi != nil && wi.Fields != nil {
		fields := *wi.Fields
		record.AutomationStatus = stringField(fields, fieldAutomationStatus)
		if raw := stringField(fields, fieldSteps); raw != "" {
			steps, err := UnmarshalSteps(raw)
			if err != nil {
				return nil, err
			}
			record.Steps = steps
		}
	}
	return &record, nil
}
