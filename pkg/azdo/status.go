package azdo

import (
	"fmt"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
)

// Azure DevOps encodes pull-request and comment-thread statuses as small
// integers in its REST contract. The tables below are the complete
// documented sets; anything outside them is rejected rather than silently
// defaulted.

var (
	pullRequestStatusLabels = map[int]string{
		1: "Abandoned",
		2: "Active",
		3: "Completed",
		4: "NotSet",
	}
	pullRequestStatusCodes = map[string]int{
		"Abandoned": 1,
		"Active":    2,
		"Completed": 3,
		"NotSet":    4,
	}

	threadStatusLabels = map[int]string{
		1: "Active",
		2: "Fixed",
		3: "WontFix",
		4: "Closed",
		5: "ByDesign",
		6: "Pending",
	}
	threadStatusCodes = map[string]int{
		"Active":   1,
		"Fixed":    2,
		"WontFix":  3,
		"Closed":   4,
		"ByDesign": 5,
		"Pending":  6,
	}
)

// PullRequestStatusLabel translates a numeric pull-request status into its
// label.
func PullRequestStatusLabel(code int) (string, error) {
	label, ok := pullRequestStatusLabels[code]
	if !ok {
		return "", fmt.Errorf("%w: pull request status code %d", ErrUnknownStatus, code)
	}
	return label, nil
}

// PullRequestStatusCode translates a pull-request status label back into
// its numeric form. Labels are case-sensitive.
func PullRequestStatusCode(label string) (int, error) {
	code, ok := pullRequestStatusCodes[label]
	if !ok {
		return 0, fmt.Errorf("%w: pull request status %q", ErrUnknownStatus, label)
	}
	return code, nil
}

// ThreadStatusLabel translates a numeric comment-thread status into its
// label.
func ThreadStatusLabel(code int) (string, error) {
	label, ok := threadStatusLabels[code]
	if !ok {
		return "", fmt.Errorf("%w: comment thread status code %d", ErrUnknownStatus, code)
	}
	return label, nil
}

// ThreadStatusCode translates a comment-thread status label back into its
// numeric form. Labels are case-sensitive.
func ThreadStatusCode(label string) (int, error) {
	code, ok := threadStatusCodes[label]
	if !ok {
		return 0, fmt.Errorf("%w: comment thread status %q", ErrUnknownStatus, label)
	}
	return code, nil
}

// The v7 wire format carries these statuses as string enums rather than the
// numeric codes, so the records need a second pair of tables tying the SDK
// values to the canonical labels.

var apiPullRequestStatusLabels = map[git.PullRequestStatus]string{
	git.PullRequestStatusValues.Abandoned: "Abandoned",
	git.PullRequestStatusValues.Active:    "Active",
	git.PullRequestStatusValues.Completed: "Completed",
	git.PullRequestStatusValues.NotSet:    "NotSet",
}

var apiThreadStatusLabels = map[git.CommentThreadStatus]string{
	git.CommentThreadStatusValues.Active:   "Active",
	git.CommentThreadStatusValues.Fixed:    "Fixed",
	git.CommentThreadStatusValues.WontFix:  "WontFix",
	git.CommentThreadStatusValues.Closed:   "Closed",
	git.CommentThreadStatusValues.ByDesign: "ByDesign",
	git.CommentThreadStatusValues.Pending:  "Pending",
}

// pullRequestStatusFromAPI maps a wire status onto its label and numeric
// code. An absent status reads as NotSet.
func pullRequestStatusFromAPI(status *git.PullRequestStatus) (string, int, error) {
	if status == nil {
		return "NotSet", pullRequestStatusCodes["NotSet"], nil
	}
	label, ok := apiPullRequestStatusLabels[*status]
	if !ok {
		return "", 0, fmt.Errorf("%w: pull request status %q", ErrUnknownStatus, string(*status))
	}
	return label, pullRequestStatusCodes[label], nil
}

// threadStatusFromAPI maps a wire thread status onto its label and numeric
// code. Azure DevOps marks system threads (vote changes, ref updates) with
// an absent or "unknown" status; those pass through with an empty label so
// listings still include them.
func threadStatusFromAPI(status *git.CommentThreadStatus) (string, int, error) {
	if status == nil || *status == git.CommentThreadStatusValues.Unknown {
		return "", 0, nil
	}
	label, ok := apiThreadStatusLabels[*status]
	if !ok {
		return "", 0, fmt.Errorf("%w: comment thread status %q", ErrUnknownStatus, string(*status))
	}
	return label, threadStatusCodes[label], nil
}

// apiPullRequestStatusValue returns the wire value for a canonical
// pull-request status label, used when filtering listings.
func apiPullRequestStatusValue(label string) (git.PullRequestStatus, error) {
	if _, err := PullRequestStatusCode(label); err != nil {
		return "", err
	}
	for value, l := range apiPullRequestStatusLabels {
		if l == label {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: pull request status %q", ErrUnknownStatus, label)
}

// apiThreadStatusValue returns the wire value for a canonical thread status
// label, used when posting thread updates.
func apiThreadStatusValue(label string) (git.CommentThreadStatus, error) {
	if _, err := ThreadStatusCode(label); err != nil {
		return "", err
	}
	for value, l := range apiThreadStatusLabels {
		if l == label {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: comment thread status %q", ErrUnknownStatus, label)
}
