package azdo

import (
	"context"
	"fmt"
	"strings"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/core"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"go.uber.org/zap"
)

// OrganizationManager answers connectivity and project-level questions.
type OrganizationManager struct {
	api  CoreClient
	gits GitClient
	cfg  Config
	auth *Authenticator
	log  *zap.SugaredLogger
}

// NewOrganizationManager builds a manager over already-connected clients.
func NewOrganizationManager(api CoreClient, gits GitClient, cfg Config, auth *Authenticator, log *zap.SugaredLogger) *OrganizationManager {
	return &OrganizationManager{api: api, gits: gits, cfg: cfg, auth: auth, log: log}
}

// TestConnection verifies the credentials can reach the organization by
// listing its projects.
func (m *OrganizationManager) TestConnection(ctx context.Context) (*ConnectionStatus, error) {
	projects, err := m.api.GetProjects(ctx, core.GetProjectsArgs{})
	if err != nil {
		return nil, wrapUpstream("connect to organization", err)
	}
	status := &ConnectionStatus{
		Connected:    true,
		Organization: m.auth.Organization(),
		URL:          m.auth.OrganizationURL(),
	}
	if projects != nil {
		status.ProjectCount = len(projects.Value)
	}
	m.log.Infow("connection verified", "organization", status.Organization, "projects", status.ProjectCount)
	return status, nil
}

// Info returns organization details together with the configured project.
func (m *OrganizationManager) Info(ctx context.Context) (*OrganizationInfo, error) {
	projects, err := m.api.GetProjects(ctx, core.GetProjectsArgs{})
	if err != nil {
		return nil, wrapUpstream("list projects", err)
	}

	info := &OrganizationInfo{
		Organization: m.auth.Organization(),
		URL:          m.auth.OrganizationURL(),
	}
	if projects != nil {
		info.ProjectCount = len(projects.Value)
	}

	project, err := m.api.GetProject(ctx, core.GetProjectArgs{ProjectId: &m.cfg.Project})
	if err != nil {
		return nil, wrapUpstream(fmt.Sprintf("get project %q", m.cfg.Project), err)
	}
	info.Project = teamProjectRecord(project)
	return info, nil
}

// ListProjects returns every project visible to the token.
func (m *OrganizationManager) ListProjects(ctx context.Context) ([]Project, error) {
	resp, err := m.api.GetProjects(ctx, core.GetProjectsArgs{})
	if err != nil {
		return nil, wrapUpstream("list projects", err)
	}
	records := make([]Project, 0)
	if resp == nil {
		return records, nil
	}
	for i := range resp.Value {
		records = append(records, projectReferenceRecord(&resp.Value[i]))
	}
	return records, nil
}

// ListRepositories returns the configured project's git repositories.
func (m *OrganizationManager) ListRepositories(ctx context.Context) ([]Repository, error) {
	repos, err := m.gits.GetRepositories(ctx, git.GetRepositoriesArgs{Project: &m.cfg.Project})
	if err != nil {
		return nil, wrapUpstream("list repositories", err)
	}
	records := make([]Repository, 0)
	if repos == nil {
		return records, nil
	}
	for _, repo := range *repos {
		record := Repository{}
		if repo.Id != nil {
			record.ID = *repo.Id
		}
		if repo.Name != nil {
			record.Name = *repo.Name
		}
		if repo.DefaultBranch != nil {
			record.DefaultBranch = strings.TrimPrefix(*repo.DefaultBranch, branchRefPrefix)
		}
		if repo.WebUrl != nil {
			record.WebURL = *repo.WebUrl
		}
		records = append(records, record)
	}
	return records, nil
}

func teamProjectRecord(project *core.TeamProject) Project {
	var record Project
	if project == nil {
		return record
	}
	if project.Id != nil {
		record.ID = *project.Id
	}
	if project.Name != nil {
		record.Name = *project.Name
	}
	if project.Description != nil {
		record.Description = *project.Description
	}
	if project.State != nil {
		record.State = string(*project.State)
	}
	if project.Url != nil {
		record.URL = *project.Url
	}
	return record
}

func projectReferenceRecord(ref *core.TeamProjectReference) Project {
	var record Project
	if ref == nil {
		return record
	}
	if ref.Id != nil {
		record.ID = *ref.Id
	}
	if ref.Name != nil {
		record.Name = *ref.Name
	}
	if ref.Description != nil {
		record.Description = *ref.Description
	}
	if ref.State != nil {
		record.State = string(*ref.State)
	}
	if ref.Url != nil {
		record.URL = *ref.Url
	}
	return record
}
