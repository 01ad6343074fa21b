package azdo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"
	"go.uber.org/zap"
)

// Field reference names used by the managers.
const (
	fieldTitle              = "System.Title"
	fieldDescription        = "System.Description"
	fieldState              = "System.State"
	fieldAssignedTo         = "System.AssignedTo"
	fieldTags               = "System.Tags"
	fieldAreaPath           = "System.AreaPath"
	fieldIterationPath      = "System.IterationPath"
	fieldWorkItemType       = "System.WorkItemType"
	fieldPriority           = "Microsoft.VSTS.Common.Priority"
	fieldSeverity           = "Microsoft.VSTS.Common.Severity"
	fieldAcceptanceCriteria = "Microsoft.VSTS.Common.AcceptanceCriteria"
	fieldStoryPoints        = "Microsoft.VSTS.Scheduling.StoryPoints"
	fieldReproSteps         = "Microsoft.VSTS.TCM.ReproSteps"
	fieldSystemInfo         = "Microsoft.VSTS.TCM.SystemInfo"
	fieldFoundIn            = "Microsoft.VSTS.Build.FoundIn"
	fieldSteps              = "Microsoft.VSTS.TCM.Steps"
	fieldAutomationStatus   = "Microsoft.VSTS.TCM.AutomationStatus"
)

// Work item types and relation reference names.
const (
	typeBug      = "Bug"
	typeTask     = "Task"
	typeTestCase = "Test Case"

	relParent   = "System.LinkTypes.Hierarchy-Reverse"
	relTestedBy = "Microsoft.VSTS.Common.TestedBy-Reverse"
)

// Severity is stored as a labeled string, not a bare number.
var severityLabels = map[int]string{
	1: "1 - Critical",
	2: "2 - High",
	3: "3 - Medium",
	4: "4 - Low",
}

// patchBuilder accumulates JSON patch operations for work item writes.
// Out-of-range enumerated values are dropped with a warning instead of
// failing the whole write; that mirrors the documented degradation policy
// for field mapping, in contrast to the strict status tables.
type patchBuilder struct {
	ops    []webapi.JsonPatchOperation
	orgURL string
	log    *zap.SugaredLogger
}

func (b *patchBuilder) add(path string, value any) {
	b.ops = append(b.ops, webapi.JsonPatchOperation{
		Op:    &webapi.OperationValues.Add,
		Path:  &path,
		Value: value,
	})
}

func (b *patchBuilder) field(name string, value any) {
	b.add("/fields/"+name, value)
}

func (b *patchBuilder) priority(p int) {
	if p < 1 || p > 4 {
		b.log.Warnw("skipping out-of-range priority", "priority", p)
		return
	}
	b.field(fieldPriority, p)
}

func (b *patchBuilder) severity(s int) {
	label, ok := severityLabels[s]
	if !ok {
		b.log.Warnw("skipping out-of-range severity", "severity", s)
		return
	}
	b.field(fieldSeverity, label)
}

func (b *patchBuilder) tags(tags []string) {
	if len(tags) > 0 {
		b.field(fieldTags, strings.Join(tags, "; "))
	}
}

// extra applies the escape-hatch fields in sorted key order so the patch
// document is deterministic.
func (b *patchBuilder) extra(fields map[string]any) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.field(key, fields[key])
	}
}

func (b *patchBuilder) relation(rel string, targetID int) {
	b.add("/relations/-", map[string]any{
		"rel": rel,
		"url": fmt.Sprintf("%s/_apis/wit/workItems/%d", b.orgURL, targetID),
	})
}

// CreateUserStoryArgs carries the accepted fields for a new user story.
// Fields is the escape hatch for anything outside the typed set; its keys
// are raw field reference names.
type CreateUserStoryArgs struct {
	Title              string
	Description        string
	AcceptanceCriteria string
	Priority           int
	StoryPoints        float64
	AssignedTo         string
	AreaPath           string
	IterationPath      string
	Tags               []string
	ParentFeatureID    int
	Fields             map[string]any
}

// UpdateUserStoryArgs carries the fields an update may touch. Zero values
// mean "leave unchanged".
type UpdateUserStoryArgs struct {
	Title              string
	Description        string
	AcceptanceCriteria string
	State              string
	Priority           int
	StoryPoints        float64
	AssignedTo         string
	AreaPath           string
	IterationPath      string
	Tags               []string
	Fields             map[string]any
}

// CreateBugArgs carries the accepted fields for a new bug.
type CreateBugArgs struct {
	Title         string
	Description   string
	ReproSteps    string
	SystemInfo    string
	FoundIn       string
	Priority      int
	Severity      int
	AssignedTo    string
	AreaPath      string
	IterationPath string
	Tags          []string
	ParentID      int
	Fields        map[string]any
}

// UpdateBugArgs carries the fields a bug update may touch.
type UpdateBugArgs struct {
	Title       string
	Description string
	ReproSteps  string
	SystemInfo  string
	FoundIn     string
	State       string
	Priority    int
	Severity    int
	AssignedTo  string
	Tags        []string
	Fields      map[string]any
}

// CreateTaskArgs carries the accepted fields for a new task. ParentID links
// the task under a user story.
type CreateTaskArgs struct {
	Title         string
	Description   string
	Priority      int
	AssignedTo    string
	AreaPath      string
	IterationPath string
	Tags          []string
	ParentID      int
	Fields        map[string]any
}

// WorkItemManager covers user stories, bugs and tasks within one project.
type WorkItemManager struct {
	api    WorkItemsClient
	cfg    Config
	orgURL string
	log    *zap.SugaredLogger
}

// NewWorkItemManager builds a manager over an already-connected client.
// orgURL must be the normalized organization URL; it anchors relation URLs.
func NewWorkItemManager(api WorkItemsClient, cfg Config, orgURL string, log *zap.SugaredLogger) *WorkItemManager {
	return &WorkItemManager{api: api, cfg: cfg, orgURL: orgURL, log: log}
}

func (m *WorkItemManager) newPatch() *patchBuilder {
	return &patchBuilder{orgURL: m.orgURL, log: m.log}
}

// CreateUserStory creates a work item of the configured user story type.
// Title and description are required.
func (m *WorkItemManager) CreateUserStory(ctx context.Context, args CreateUserStoryArgs) (*WorkItem, error) {
	if err := requireField("title", args.Title); err != nil {
		return nil, err
	}
	if err := requireField("description", args.Description); err != nil {
		return nil, err
	}

	b := m.newPatch()
	b.field(fieldTitle, args.Title)
	b.field(fieldDescription, args.Description)
	if args.AcceptanceCriteria != "" {
		b.field(fieldAcceptanceCriteria, args.AcceptanceCriteria)
	}
	if args.Priority != 0 {
		b.priority(args.Priority)
	}
	if args.StoryPoints > 0 {
		b.field(fieldStoryPoints, args.StoryPoints)
	}
	if args.AssignedTo != "" {
		b.field(fieldAssignedTo, args.AssignedTo)
	}
	if args.AreaPath != "" {
		b.field(fieldAreaPath, args.AreaPath)
	}
	if args.IterationPath != "" {
		b.field(fieldIterationPath, args.IterationPath)
	}
	b.tags(args.Tags)
	if args.ParentFeatureID > 0 {
		b.relation(relParent, args.ParentFeatureID)
	}
	b.extra(args.Fields)

	return m.create(ctx, m.cfg.UserStoryType, b)
}

// UpdateUserStory patches an existing user story. At least one field must
// be provided.
func (m *WorkItemManager) UpdateUserStory(ctx context.Context, id int, args UpdateUserStoryArgs) (*WorkItem, error) {
	if err := requireID("work item id", id); err != nil {
		return nil, err
	}

	b := m.newPatch()
	if args.Title != "" {
		b.field(fieldTitle, args.Title)
	}
	if args.Description != "" {
		b.field(fieldDescription, args.Description)
	}
	if args.AcceptanceCriteria != "" {
		b.field(fieldAcceptanceCriteria, args.AcceptanceCriteria)
	}
	if args.State != "" {
		b.field(fieldState, args.State)
	}
	if args.Priority != 0 {
		b.priority(args.Priority)
	}
	if args.StoryPoints > 0 {
		b.field(fieldStoryPoints, args.StoryPoints)
	}
	if args.AssignedTo != "" {
		b.field(fieldAssignedTo, args.AssignedTo)
	}
	if args.AreaPath != "" {
		b.field(fieldAreaPath, args.AreaPath)
	}
	if args.IterationPath != "" {
		b.field(fieldIterationPath, args.IterationPath)
	}
	b.tags(args.Tags)
	b.extra(args.Fields)

	return m.update(ctx, id, b)
}

// DeleteUserStory moves a work item to the recycle bin, or deletes it
// permanently when destroy is set.
func (m *WorkItemManager) DeleteUserStory(ctx context.Context, id int, destroy bool) error {
	if err := requireID("work item id", id); err != nil {
		return err
	}

	args := workitemtracking.DeleteWorkItemArgs{Id: &id, Project: &m.cfg.Project}
	if destroy {
		args.Destroy = &destroy
	}
	if _, err := m.api.DeleteWorkItem(ctx, args); err != nil {
		return wrapUpstream(fmt.Sprintf("delete work item %d", id), err)
	}
	m.log.Infow("deleted work item", "id", id, "destroy", destroy)
	return nil
}

// CreateBug creates a Bug work item. Title and description are required.
func (m *WorkItemManager) CreateBug(ctx context.Context, args CreateBugArgs) (*WorkItem, error) {
	if err := requireField("title", args.Title); err != nil {
		return nil, err
	}
	if err := requireField("description", args.Description); err != nil {
		return nil, err
	}

	b := m.newPatch()
	b.field(fieldTitle, args.Title)
	b.field(fieldDescription, args.Description)
	if args.ReproSteps != "" {
		b.field(fieldReproSteps, args.ReproSteps)
	}
	if args.SystemInfo != "" {
		b.field(fieldSystemInfo, args.SystemInfo)
	}
	if args.FoundIn != "" {
		b.field(fieldFoundIn, args.FoundIn)
	}
	if args.Priority != 0 {
		b.priority(args.Priority)
	}
	if args.Severity != 0 {
		b.severity(args.Severity)
	}
	if args.AssignedTo != "" {
		b.field(fieldAssignedTo, args.AssignedTo)
	}
	if args.AreaPath != "" {
		b.field(fieldAreaPath, args.AreaPath)
	}
	if args.IterationPath != "" {
		b.field(fieldIterationPath, args.IterationPath)
	}
	b.tags(args.Tags)
	if args.ParentID > 0 {
		b.relation(relParent, args.ParentID)
	}
	b.extra(args.Fields)

	return m.create(ctx, typeBug, b)
}

// UpdateBug patches an existing bug. At least one field must be provided.
func (m *WorkItemManager) UpdateBug(ctx context.Context, id int, args UpdateBugArgs) (*WorkItem, error) {
	if err := requireID("work item id", id); err != nil {
		return nil, err
	}

	b := m.newPatch()
	if args.Title != "" {
		b.field(fieldTitle, args.Title)
	}
	if args.Description != "" {
		b.field(fieldDescription, args.Description)
	}
	if args.ReproSteps != "" {
		b.field(fieldReproSteps, args.ReproSteps)
	}
	if args.SystemInfo != "" {
		b.field(fieldSystemInfo, args.SystemInfo)
	}
	if args.FoundIn != "" {
		b.field(fieldFoundIn, args.FoundIn)
	}
	if args.State != "" {
		b.field(fieldState, args.State)
	}
	if args.Priority != 0 {
		b.priority(args.Priority)
	}
	if args.Severity != 0 {
		b.severity(args.Severity)
	}
	if args.AssignedTo != "" {
		b.field(fieldAssignedTo, args.AssignedTo)
	}
	b.tags(args.Tags)
	b.extra(args.Fields)

	return m.update(ctx, id, b)
}

// CreateTask creates a Task work item, optionally parented under a user
// story.
func (m *WorkItemManager) CreateTask(ctx context.Context, args CreateTaskArgs) (*WorkItem, error) {
	if err := requireField("title", args.Title); err != nil {
		return nil, err
	}
	if err := requireField("description", args.Description); err != nil {
		return nil, err
	}

	b := m.newPatch()
	b.field(fieldTitle, args.Title)
	b.field(fieldDescription, args.Description)
	if args.Priority != 0 {
		b.priority(args.Priority)
	}
	if args.AssignedTo != "" {
		b.field(fieldAssignedTo, args.AssignedTo)
	}
	if args.AreaPath != "" {
		b.field(fieldAreaPath, args.AreaPath)
	}
	if args.IterationPath != "" {
		b.field(fieldIterationPath, args.IterationPath)
	}
	b.tags(args.Tags)
	if args.ParentID > 0 {
		b.relation(relParent, args.ParentID)
	}
	b.extra(args.Fields)

	return m.create(ctx, typeTask, b)
}

// Get returns one work item of any type.
func (m *WorkItemManager) Get(ctx context.Context, id int) (*WorkItem, error) {
	if err := requireID("work item id", id); err != nil {
		return nil, err
	}

	expand := workitemtracking.WorkItemExpandValues.All
	wi, err := m.api.GetWorkItem(ctx, workitemtracking.GetWorkItemArgs{
		Id:      &id,
		Project: &m.cfg.Project,
		Expand:  &expand,
	})
	if err != nil {
		return nil, wrapUpstream(fmt.Sprintf("get work item %d", id), err)
	}
	record := workItemRecord(wi)
	return &record, nil
}

// Search runs a WIQL query and hydrates the matches. The order the query
// service returned is preserved; nothing is re-sorted client-side.
func (m *WorkItemManager) Search(ctx context.Context, wiql string) ([]WorkItem, error) {
	if err := requireField("query", wiql); err != nil {
		return nil, err
	}

	items, err := queryWorkItems(ctx, m.api, m.cfg.Project, wiql)
	if err != nil {
		return nil, err
	}
	records := make([]WorkItem, 0, len(items))
	for i := range items {
		records = append(records, workItemRecord(&items[i]))
	}
	return records, nil
}

// LinkUserStoryToFeature parents the story under the feature.
func (m *WorkItemManager) LinkUserStoryToFeature(ctx context.Context, storyID, featureID int) (*Link, error) {
	if err := requireID("user story id", storyID); err != nil {
		return nil, err
	}
	if err := requireID("feature id", featureID); err != nil {
		return nil, err
	}

	b := m.newPatch()
	b.relation(relParent, featureID)
	if _, err := m.update(ctx, storyID, b); err != nil {
		return nil, err
	}
	m.log.Infow("linked user story to feature", "storyId", storyID, "featureId", featureID)
	return &Link{Linked: true, UserStoryID: storyID, FeatureID: featureID}, nil
}

func (m *WorkItemManager) create(ctx context.Context, itemType string, b *patchBuilder) (*WorkItem, error) {
	created, err := m.api.CreateWorkItem(ctx, workitemtracking.CreateWorkItemArgs{
		Type:     &itemType,
		Project:  &m.cfg.Project,
		Document: &b.ops,
	})
	if err != nil {
		return nil, wrapUpstream(fmt.Sprintf("create %s", itemType), err)
	}
	record := workItemRecord(created)
	m.log.Infow("created work item", "id", record.ID, "type", itemType)
	return &record, nil
}

func (m *WorkItemManager) update(ctx context.Context, id int, b *patchBuilder) (*WorkItem, error) {
	if len(b.ops) == 0 {
		return nil, fmt.Errorf("%w: at least one field to update is required", ErrValidation)
	}
	updated, err := m.api.UpdateWorkItem(ctx, workitemtracking.UpdateWorkItemArgs{
		Id:       &id,
		Project:  &m.cfg.Project,
		Document: &b.ops,
	})
	if err != nil {
		return nil, wrapUpstream(fmt.Sprintf("update work item %d", id), err)
	}
	record := workItemRecord(updated)
	return &record, nil
}

// queryWorkItems runs WIQL then hydrates the matches. The hydration
// endpoint does not guarantee the requested order, so results are re-keyed
// and emitted in the order the query service returned them.
func queryWorkItems(ctx context.Context, api WorkItemsClient, project, wiql string) ([]workitemtracking.WorkItem, error) {
	result, err := api.QueryByWiql(ctx, workitemtracking.QueryByWiqlArgs{
		Wiql:    &workitemtracking.Wiql{Query: &wiql},
		Project: &project,
	})
	if err != nil {
		return nil, wrapUpstream("wiql query", err)
	}
	if result == nil || result.WorkItems == nil || len(*result.WorkItems) == 0 {
		return []workitemtracking.WorkItem{}, nil
	}

	ids := make([]int, 0, len(*result.WorkItems))
	for _, ref := range *result.WorkItems {
		if ref.Id != nil {
			ids = append(ids, *ref.Id)
		}
	}

	fetched, err := api.GetWorkItems(ctx, workitemtracking.GetWorkItemsArgs{
		Ids:     &ids,
		Project: &project,
	})
	if err != nil {
		return nil, wrapUpstream("fetch queried work items", err)
	}

	byID := make(map[int]workitemtracking.WorkItem, len(ids))
	if fetched != nil {
		for _, wi := range *fetched {
			if wi.Id != nil {
				byID[*wi.Id] = wi
			}
		}
	}
	items := make([]workitemtracking.WorkItem, 0, len(ids))
	for _, id := range ids {
		if wi, ok := byID[id]; ok {
			items = append(items, wi)
		}
	}
	return items, nil
}

// escapeWIQL doubles single quotes so user text can sit inside a WIQL
// string literal.
func escapeWIQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// workItemRecord flattens a v7 work item into the package record shape.
func workItemRecord(wi *workitemtracking.WorkItem) WorkItem {
	var record WorkItem
	if wi == nil {
		return record
	}
	if wi.Id != nil {
		record.ID = *wi.Id
	}
	if wi.Rev != nil {
		record.Rev = *wi.Rev
	}
	if wi.Url != nil {
		record.URL = *wi.Url
	}
	if wi.Fields == nil {
		return record
	}

	fields := *wi.Fields
	record.Type = stringField(fields, fieldWorkItemType)
	record.Title = stringField(fields, fieldTitle)
	record.Description = stringField(fields, fieldDescription)
	record.State = stringField(fields, fieldState)
	record.AreaPath = stringField(fields, fieldAreaPath)
	record.IterationPath = stringField(fields, fieldIterationPath)
	record.AssignedTo = identityField(fields, fieldAssignedTo)
	record.Priority = intField(fields, fieldPriority)
	if tags := stringField(fields, fieldTags); tags != "" {
		record.Tags = splitTags(tags)
	}
	record.Fields = fields
	return record
}

func stringField(fields map[string]any, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

// intField tolerates the numeric types the JSON decoder may produce.
func intField(fields map[string]any, name string) int {
	switch v := fields[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// identityField extracts a display name from an identity-shaped field.
func identityField(fields map[string]any, name string) string {
	switch v := fields[name].(type) {
	case string:
		return v
	case map[string]any:
		if dn, ok := v["displayName"].(string); ok {
			return dn
		}
	}
	return ""
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ";")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
