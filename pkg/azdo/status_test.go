package azdo

import (
	"errors"
	"testing"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
)

func TestPullRequestStatusLabel(t *testing.T) {
	tests := []struct {
		code    int
		want    string
		wantErr bool
	}{
		{code: 1, want: "Abandoned"},
		{code: 2, want: "Active"},
		{code: 3, want: "Completed"},
		{code: 4, want: "NotSet"},
		{code: 0, wantErr: true},
		{code: 5, wantErr: true},
		{code: -1, wantErr: true},
	}

	for _, tt := range tests {
		got, err := PullRequestStatusLabel(tt.code)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownStatus) {
				t.Errorf("PullRequestStatusLabel(%d) error = %v, want ErrUnknownStatus", tt.code, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("PullRequestStatusLabel(%d) error = %v", tt.code, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PullRequestStatusLabel(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestPullRequestStatusCode(t *testing.T) {
	tests := []struct {
		label   string
		want    int
		wantErr bool
	}{
		{label: "Abandoned", want: 1},
		{label: "Active", want: 2},
		{label: "Completed", want: 3},
		{label: "NotSet", want: 4},
		{label: "active", wantErr: true}, // labels are case-sensitive
		{label: "Merged", wantErr: true},
		{label: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := PullRequestStatusCode(tt.label)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownStatus) {
				t.Errorf("PullRequestStatusCode(%q) error = %v, want ErrUnknownStatus", tt.label, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("PullRequestStatusCode(%q) error = %v", tt.label, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PullRequestStatusCode(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func TestThreadStatusLabel(t *testing.T) {
	tests := []struct {
		code    int
		want    string
		wantErr bool
	}{
		{code: 1, want: "Active"},
		{code: 2, want: "Fixed"},
		{code: 3, want: "WontFix"},
		{code: 4, want: "Closed"},
		{code: 5, want: "ByDesign"},
		{code: 6, want: "Pending"},
		{code: 0, wantErr: true},
		{code: 7, wantErr: true},
	}

	for _, tt := range tests {
		got, err := ThreadStatusLabel(tt.code)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownStatus) {
				t.Errorf("ThreadStatusLabel(%d) error = %v, want ErrUnknownStatus", tt.code, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ThreadStatusLabel(%d) error = %v", tt.code, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ThreadStatusLabel(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestThreadStatusCode(t *testing.T) {
	tests := []struct {
		label   string
		want    int
		wantErr bool
	}{
		{label: "Active", want: 1},
		{label: "Fixed", want: 2},
		{label: "WontFix", want: 3},
		{label: "Closed", want: 4},
		{label: "ByDesign", want: 5},
		{label: "Pending", want: 6},
		{label: "fixed", wantErr: true},
		{label: "Resolved", wantErr: true},
		{label: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ThreadStatusCode(tt.label)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownStatus) {
				t.Errorf("ThreadStatusCode(%q) error = %v, want ErrUnknownStatus", tt.label, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ThreadStatusCode(%q) error = %v", tt.label, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ThreadStatusCode(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func TestStatusRoundTrip(t *testing.T) {
	for code := 1; code <= 4; code++ {
		label, err := PullRequestStatusLabel(code)
		if err != nil {
			t.Fatalf("PullRequestStatusLabel(%d) error = %v", code, err)
		}
		back, err := PullRequestStatusCode(label)
		if err != nil {
			t.Fatalf("PullRequestStatusCode(%q) error = %v", label, err)
		}
		if back != code {
			t.Errorf("pull request status %d -> %q -> %d", code, label, back)
		}
	}

	for code := 1; code <= 6; code++ {
		label, err := ThreadStatusLabel(code)
		if err != nil {
			t.Fatalf("ThreadStatusLabel(%d) error = %v", code, err)
		}
		back, err := ThreadStatusCode(label)
		if err != nil {
			t.Fatalf("ThreadStatusCode(%q) error = %v", label, err)
		}
		if back != code {
			t.Errorf("thread status %d -> %q -> %d", code, label, back)
		}
	}
}

func TestPullRequestStatusFromAPI(t *testing.T) {
	active := git.PullRequestStatusValues.Active
	label, code, err := pullRequestStatusFromAPI(&active)
	if err != nil {
		t.Fatalf("pullRequestStatusFromAPI(active) error = %v", err)
	}
	if label != "Active" || code != 2 {
		t.Errorf("pullRequestStatusFromAPI(active) = %q/%d, want Active/2", label, code)
	}

	label, code, err = pullRequestStatusFromAPI(nil)
	if err != nil {
		t.Fatalf("pullRequestStatusFromAPI(nil) error = %v", err)
	}
	if label != "NotSet" || code != 4 {
		t.Errorf("pullRequestStatusFromAPI(nil) = %q/%d, want NotSet/4", label, code)
	}

	bogus := git.PullRequestStatus("merged")
	if _, _, err := pullRequestStatusFromAPI(&bogus); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("pullRequestStatusFromAPI(merged) error = %v, want ErrUnknownStatus", err)
	}
}

func TestThreadStatusFromAPI(t *testing.T) {
	fixed := git.CommentThreadStatusValues.Fixed
	label, code, err := threadStatusFromAPI(&fixed)
	if err != nil {
		t.Fatalf("threadStatusFromAPI(fixed) error = %v", err)
	}
	if label != "Fixed" || code != 2 {
		t.Errorf("threadStatusFromAPI(fixed) = %q/%d, want Fixed/2", label, code)
	}

	// System threads carry no status; they read as empty, not as an error.
	label, code, err = threadStatusFromAPI(nil)
	if err != nil || label != "" || code != 0 {
		t.Errorf("threadStatusFromAPI(nil) = %q/%d/%v, want empty", label, code, err)
	}
	unknown := git.CommentThreadStatusValues.Unknown
	label, code, err = threadStatusFromAPI(&unknown)
	if err != nil || label != "" || code != 0 {
		t.Errorf("threadStatusFromAPI(unknown) = %q/%d/%v, want empty", label, code, err)
	}

	bogus := git.CommentThreadStatus("resolved")
	if _, _, err := threadStatusFromAPI(&bogus); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("threadStatusFromAPI(resolved) error = %v, want ErrUnknownStatus", err)
	}
}

func TestAPIStatusValues(t *testing.T) {
	prStatus, err := apiPullRequestStatusValue("Completed")
	if err != nil {
		t.Fatalf("apiPullRequestStatusValue(Completed) error = %v", err)
	}
	if prStatus != git.PullRequestStatusValues.Completed {
		t.Errorf("apiPullRequestStatusValue(Completed) = %q", prStatus)
	}
	if _, err := apiPullRequestStatusValue("Bogus"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("apiPullRequestStatusValue(Bogus) error = %v, want ErrUnknownStatus", err)
	}

	threadStatus, err := apiThreadStatusValue("WontFix")
	if err != nil {
		t.Fatalf("apiThreadStatusValue(WontFix) error = %v", err)
	}
	if threadStatus != git.CommentThreadStatusValues.WontFix {
		t.Errorf("apiThreadStatusValue(WontFix) = %q", threadStatus)
	}
	if _, err := apiThreadStatusValue("Bogus"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("apiThreadStatusValue(Bogus) error = %v, want ErrUnknownStatus", err)
	}
}
