package azdo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testOrgURL = "https://dev.azure.com/contoso"

func testConfig() Config {
	return Config{
		OrganizationURL: testOrgURL,
		PAT:             testPAT,
		Project:         "Phoenix",
		UserStoryType:   "User Story",
		Timeout:         30 * time.Second,
	}
}

func newWorkItemManager(fake *Fake) *WorkItemManager {
	return NewWorkItemManager(fake, testConfig(), testOrgURL, zap.NewNop().Sugar())
}

func TestCreateUserStory(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)

	story, err := m.CreateUserStory(context.Background(), CreateUserStoryArgs{
		Title:              "Sign-in with SSO",
		Description:        "As a user I can sign in with my corporate account",
		AcceptanceCriteria: "Given a corporate account, sign-in succeeds",
		Priority:           2,
		StoryPoints:        5,
		AssignedTo:         "dana@contoso.com",
		AreaPath:           "Phoenix\\Auth",
		IterationPath:      "Phoenix\\Sprint 7",
		Tags:               []string{"auth", "sso"},
		Fields:             map[string]any{"Custom.RiskLevel": "High"},
	})
	require.NoError(t, err)
	require.NotNil(t, story)

	assert.Equal(t, "User Story", story.Type)
	assert.Equal(t, "Sign-in with SSO", story.Title)
	assert.Equal(t, 2, story.Priority)
	assert.Equal(t, []string{"auth", "sso"}, story.Tags)

	assert.Equal(t, "As a user I can sign in with my corporate account", fake.WorkItemField(story.ID, fieldDescription))
	assert.Equal(t, "Given a corporate account, sign-in succeeds", fake.WorkItemField(story.ID, fieldAcceptanceCriteria))
	assert.Equal(t, 5.0, fake.WorkItemField(story.ID, fieldStoryPoints))
	assert.Equal(t, "dana@contoso.com", fake.WorkItemField(story.ID, fieldAssignedTo))
	assert.Equal(t, "auth; sso", fake.WorkItemField(story.ID, fieldTags))
	assert.Equal(t, "High", fake.WorkItemField(story.ID, "Custom.RiskLevel"))
}

func TestCreateUserStory_Validation(t *testing.T) {
	m := newWorkItemManager(NewFake())

	_, err := m.CreateUserStory(context.Background(), CreateUserStoryArgs{Description: "no title"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "required")

	_, err = m.CreateUserStory(context.Background(), CreateUserStoryArgs{Title: "no description"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "required")

	_, err = m.CreateUserStory(context.Background(), CreateUserStoryArgs{Title: "   ", Description: "blank title"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateUserStory_ParentFeature(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)

	story, err := m.CreateUserStory(context.Background(), CreateUserStoryArgs{
		Title:           "Child story",
		Description:     "Linked at creation",
		ParentFeatureID: 42,
	})
	require.NoError(t, err)

	wi := fake.WorkItem(story.ID)
	require.NotNil(t, wi.Relations)
	require.Len(t, *wi.Relations, 1)
	rel := (*wi.Relations)[0]
	assert.Equal(t, "System.LinkTypes.Hierarchy-Reverse", *rel.Rel)
	assert.Equal(t, testOrgURL+"/_apis/wit/workItems/42", *rel.Url)
}

func TestCreateUserStory_OutOfRangePrioritySkipped(t *testing.T) {
	fake := NewFake()
	core, logs := observer.New(zapcore.WarnLevel)
	m := NewWorkItemManager(fake, testConfig(), testOrgURL, zap.New(core).Sugar())

	story, err := m.CreateUserStory(context.Background(), CreateUserStoryArgs{
		Title:       "Priority out of range",
		Description: "The write still succeeds",
		Priority:    9,
	})
	require.NoError(t, err)

	assert.Nil(t, fake.WorkItemField(story.ID, fieldPriority))
	assert.Equal(t, 1, logs.FilterMessage("skipping out-of-range priority").Len())
}

func TestUpdateUserStory(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)

	id := fake.SeedWorkItem("User Story", map[string]any{
		fieldTitle: "Original",
		fieldState: "New",
	})

	updated, err := m.UpdateUserStory(context.Background(), id, UpdateUserStoryArgs{
		Title: "Renamed",
		State: "Active",
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "Active", updated.State)
	assert.Equal(t, 2, updated.Rev)
}

func TestUpdateUserStory_NoFields(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)
	id := fake.SeedWorkItem("User Story", map[string]any{fieldTitle: "Unchanged"})

	_, err := m.UpdateUserStory(context.Background(), id, UpdateUserStoryArgs{})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "at least one field")
}

func TestUpdateUserStory_NotFound(t *testing.T) {
	m := newWorkItemManager(NewFake())

	_, err := m.UpdateUserStory(context.Background(), 999, UpdateUserStoryArgs{Title: "ghost"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserStory(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)
	id := fake.SeedWorkItem("User Story", map[string]any{fieldTitle: "Doomed"})

	require.NoError(t, m.DeleteUserStory(context.Background(), id, false))
	assert.True(t, fake.Deleted[id])
	assert.False(t, fake.Destroyed[id])

	err := m.DeleteUserStory(context.Background(), id, false)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserStory_Destroy(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)
	id := fake.SeedWorkItem("User Story", map[string]any{fieldTitle: "Gone for good"})

	require.NoError(t, m.DeleteUserStory(context.Background(), id, true))
	assert.True(t, fake.Destroyed[id])
}

func TestCreateBug(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)

	bug, err := m.CreateBug(context.Background(), CreateBugArgs{
		Title:       "Crash on empty cart checkout",
		Description: "Checkout with zero items crashes",
		ReproSteps:  "1. Empty cart\n2. Press checkout",
		SystemInfo:  "Build 1.4.2, Chrome 126",
		FoundIn:     "1.4.2",
		Priority:    1,
		Severity:    2,
		ParentID:    7,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bug", bug.Type)
	assert.Equal(t, "1. Empty cart\n2. Press checkout", fake.WorkItemField(bug.ID, "Microsoft.VSTS.TCM.ReproSteps"))
	assert.Equal(t, "Build 1.4.2, Chrome 126", fake.WorkItemField(bug.ID, "Microsoft.VSTS.TCM.SystemInfo"))
	assert.Equal(t, "1.4.2", fake.WorkItemField(bug.ID, "Microsoft.VSTS.Build.FoundIn"))
	assert.Equal(t, "2 - High", fake.WorkItemField(bug.ID, "Microsoft.VSTS.Common.Severity"))

	wi := fake.WorkItem(bug.ID)
	require.NotNil(t, wi.Relations)
	require.Len(t, *wi.Relations, 1)
}

func TestCreateBug_OutOfRangeSeveritySkipped(t *testing.T) {
	fake := NewFake()
	core, logs := observer.New(zapcore.WarnLevel)
	m := NewWorkItemManager(fake, testConfig(), testOrgURL, zap.New(core).Sugar())

	bug, err := m.CreateBug(context.Background(), CreateBugArgs{
		Title:       "Severity out of range",
		Description: "The write still succeeds",
		Severity:    9,
	})
	require.NoError(t, err)

	assert.Nil(t, fake.WorkItemField(bug.ID, fieldSeverity))
	assert.Equal(t, 1, logs.FilterMessage("skipping out-of-range severity").Len())
}

func TestUpdateBug(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)
	id := fake.SeedWorkItem("Bug", map[string]any{fieldTitle: "Flaky login", fieldState: "New"})

	updated, err := m.UpdateBug(context.Background(), id, UpdateBugArgs{
		State:    "Resolved",
		Severity: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, "Resolved", updated.State)
	assert.Equal(t, "3 - Medium", fake.WorkItemField(id, fieldSeverity))
}

func TestCreateTask(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)

	task, err := m.CreateTask(context.Background(), CreateTaskArgs{
		Title:       "Wire up telemetry",
		Description: "Emit counters from the checkout flow",
		ParentID:    12,
		Tags:        []string{"infra"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Task", task.Type)
	wi := fake.WorkItem(task.ID)
	require.NotNil(t, wi.Relations)
	assert.Equal(t, testOrgURL+"/_apis/wit/workItems/12", *(*wi.Relations)[0].Url)
}

func TestWorkItemGet(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)

	id := fake.SeedWorkItem("User Story", map[string]any{
		fieldTitle:      "Readback",
		fieldState:      "Active",
		fieldAssignedTo: map[string]any{"displayName": "Dana Diaz", "uniqueName": "dana@contoso.com"},
		fieldPriority:   float64(3),
		fieldTags:       "auth; sso; backend",
	})

	got, err := m.Get(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Dana Diaz", got.AssignedTo)
	assert.Equal(t, 3, got.Priority)
	assert.Equal(t, []string{"auth", "sso", "backend"}, got.Tags)
	assert.Equal(t, "Active", got.State)
}

func TestWorkItemGet_Invalid(t *testing.T) {
	m := newWorkItemManager(NewFake())

	_, err := m.Get(context.Background(), 0)
	require.ErrorIs(t, err, ErrValidation)

	_, err = m.Get(context.Background(), 404)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)

	created, err := m.CreateUserStory(context.Background(), CreateUserStoryArgs{
		Title:       "Login bug",
		Description: "desc",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, "Login bug", created.Title)
	assert.Equal(t, "User Story", created.Type)

	got, err := m.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
}

func TestWorkItemSearch_PreservesQueryOrder(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)

	first := fake.SeedWorkItem("User Story", map[string]any{fieldTitle: "first"})
	second := fake.SeedWorkItem("User Story", map[string]any{fieldTitle: "second"})
	third := fake.SeedWorkItem("User Story", map[string]any{fieldTitle: "third"})

	// The fake's batch endpoint returns items sorted by id; the query order
	// below must survive anyway.
	fake.QueryResultIDs = []int{third, first, second}

	wiql := "SELECT [System.Id] FROM WorkItems ORDER BY [System.ChangedDate] DESC"
	items, err := m.Search(context.Background(), wiql)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, []int{third, first, second}, []int{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, wiql, fake.LastWIQL)
}

func TestWorkItemSearch_Empty(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)

	items, err := m.Search(context.Background(), "SELECT [System.Id] FROM WorkItems")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = m.Search(context.Background(), "  ")
	require.ErrorIs(t, err, ErrValidation)
}

func TestLinkUserStoryToFeature(t *testing.T) {
	fake := NewFake()
	m := newWorkItemManager(fake)
	storyID := fake.SeedWorkItem("User Story", map[string]any{fieldTitle: "Orphan"})

	link, err := m.LinkUserStoryToFeature(context.Background(), storyID, 88)
	require.NoError(t, err)

	assert.True(t, link.Linked)
	assert.Equal(t, storyID, link.UserStoryID)
	assert.Equal(t, 88, link.FeatureID)

	wi := fake.WorkItem(storyID)
	require.NotNil(t, wi.Relations)
	require.Len(t, *wi.Relations, 1)
	assert.Equal(t, "System.LinkTypes.Hierarchy-Reverse", *(*wi.Relations)[0].Rel)
}

func TestWorkItemManager_UpstreamError(t *testing.T) {
	fake := NewFake()
	fake.Err = errors.New("connection reset")
	m := newWorkItemManager(fake)

	_, err := m.Get(context.Background(), 1)
	require.ErrorIs(t, err, ErrUpstream)
	assert.True(t, strings.Contains(err.Error(), "connection reset"),
		"upstream message should be preserved, got %q", err.Error())
}

func TestEscapeWIQL(t *testing.T) {
	if got := escapeWIQL("O'Brien's"); got != "O''Brien''s" {
		t.Errorf("escapeWIQL() = %q, want %q", got, "O''Brien''s")
	}
	if got := escapeWIQL("plain"); got != "plain" {
		t.Errorf("escapeWIQL() = %q, want %q", got, "plain")
	}
}
