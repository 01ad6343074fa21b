package azdo

import (
	"time"

	"github.com/google/uuid"
)

// WorkItem is the flattened record returned for any work item type. Fields
// carries the raw field map for anything not lifted into a typed member.
type WorkItem struct {
	ID            int            `json:"id"`
	Rev           int            `json:"rev,omitempty"`
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	State         string         `json:"state,omitempty"`
	AssignedTo    string         `json:"assignedTo,omitempty"`
	Priority      int            `json:"priority,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	AreaPath      string         `json:"areaPath,omitempty"`
	IterationPath string         `json:"iterationPath,omitempty"`
	URL           string         `json:"url,omitempty"`
	Fields        map[string]any `json:"fields,omitempty"`
}

// TestCase is a Test Case work item with its steps decoded from the stored
// XML.
type TestCase struct {
	WorkItem
	Steps            []TestStep `json:"steps"`
	AutomationStatus string     `json:"automationStatus,omitempty"`
}

// PullRequest carries both the canonical status label and its numeric code.
type PullRequest struct {
	ID           int        `json:"id"`
	Repository   string     `json:"repository"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	StatusCode   int        `json:"statusCode"`
	IsDraft      bool       `json:"isDraft"`
	CreatedBy    string     `json:"createdBy,omitempty"`
	SourceBranch string     `json:"sourceBranch"`
	TargetBranch string     `json:"targetBranch"`
	Created      time.Time  `json:"created"`
	MergeStatus  string     `json:"mergeStatus,omitempty"`
	Reviewers    []Reviewer `json:"reviewers,omitempty"`
	URL          string     `json:"url,omitempty"`
}

// Reviewer is a pull request reviewer with their current vote.
type Reviewer struct {
	DisplayName string `json:"displayName"`
	Vote        string `json:"vote"`
}

// CommentThread groups the comments of one pull request conversation.
// System threads carry an empty status.
type CommentThread struct {
	ID         int       `json:"id"`
	Status     string    `json:"status,omitempty"`
	StatusCode int       `json:"statusCode,omitempty"`
	FilePath   string    `json:"filePath,omitempty"`
	Line       int       `json:"line,omitempty"`
	Comments   []Comment `json:"comments"`
}

// Comment is a single pull request comment.
type Comment struct {
	ID        int       `json:"id"`
	ParentID  int       `json:"parentId,omitempty"`
	Author    string    `json:"author,omitempty"`
	Content   string    `json:"content"`
	Published time.Time `json:"published"`
}

// Link reports a created work item relation.
type Link struct {
	Linked      bool `json:"linked"`
	TestCaseID  int  `json:"testCaseId,omitempty"`
	UserStoryID int  `json:"userStoryId,omitempty"`
	FeatureID   int  `json:"featureId,omitempty"`
}

// ConnectionStatus is the result of a connectivity probe.
type ConnectionStatus struct {
	Connected    bool   `json:"connected"`
	Organization string `json:"organization"`
	URL          string `json:"url"`
	ProjectCount int    `json:"projectCount"`
}

// OrganizationInfo describes the configured organization and project.
type OrganizationInfo struct {
	Organization string  `json:"organization"`
	URL          string  `json:"url"`
	Project      Project `json:"project"`
	ProjectCount int     `json:"projectCount"`
}

// Project is a team project reference.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state,omitempty"`
	URL         string    `json:"url,omitempty"`
}

// Repository is a git repository reference.
type Repository struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	DefaultBranch string    `json:"defaultBranch,omitempty"`
	WebURL        string    `json:"webUrl,omitempty"`
}
