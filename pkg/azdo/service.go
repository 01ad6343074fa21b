// Package azdo is a typed client layer over the Azure DevOps REST API for
// work items, test cases and pull requests. A Service composes
// authentication, lazy connection management and the entity managers
// behind one object; serving surfaces (MCP tools, HTTP handlers) sit on
// top of it.
package azdo

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// connectFunc dials the Azure DevOps clients. Swapped out in tests.
type connectFunc func(ctx context.Context, auth *Authenticator) (WorkItemsClient, GitClient, CoreClient, error)

// Service is the integration facade. Construction performs no I/O; the
// first operation, or an explicit Initialize, connects.
type Service struct {
	cfg     Config
	log     *zap.SugaredLogger
	connect connectFunc

	mu          sync.Mutex
	initialized bool
	auth        *Authenticator
	workItems   *WorkItemManager
	testCases   *TestCaseManager
	pullReqs    *PullRequestManager
	org         *OrganizationManager
}

// Option customizes a Service.
type Option func(*Service)

// WithClients injects prebuilt API clients, bypassing the network
// connection. The in-memory Fake plugs in here.
func WithClients(work WorkItemsClient, gitClient GitClient, coreClient CoreClient) Option {
	return func(s *Service) {
		s.connect = func(context.Context, *Authenticator) (WorkItemsClient, GitClient, CoreClient, error) {
			return work, gitClient, coreClient, nil
		}
	}
}

// New creates an uninitialized Service.
func New(cfg Config, log *zap.SugaredLogger, opts ...Option) *Service {
	s := &Service{cfg: cfg, log: log, connect: connectClients}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize connects to Azure DevOps and wires the managers. It is
// idempotent, and the mutex guarantees concurrent callers share a single
// in-flight connection attempt.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked(ctx)
}

// Initialized reports whether the service currently holds a connection.
func (s *Service) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Close drops the connection state. Safe to call on an uninitialized
// service; the next operation reconnects.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = false
	s.auth = nil
	s.workItems, s.testCases, s.pullReqs, s.org = nil, nil, nil, nil
	return nil
}

// WorkItems returns the work item manager, connecting first if needed.
func (s *Service) WorkItems(ctx context.Context) (*WorkItemManager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initLocked(ctx); err != nil {
		return nil, err
	}
	return s.workItems, nil
}

// TestCases returns the test case manager, connecting first if needed.
func (s *Service) TestCases(ctx context.Context) (*TestCaseManager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initLocked(ctx); err != nil {
		return nil, err
	}
	return s.testCases, nil
}

// PullRequests returns the pull request manager, connecting first if
// needed.
func (s *Service) PullRequests(ctx context.Context) (*PullRequestManager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initLocked(ctx); err != nil {
		return nil, err
	}
	return s.pullReqs, nil
}

// Organization returns the organization manager, connecting first if
// needed.
func (s *Service) Organization(ctx context.Context) (*OrganizationManager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initLocked(ctx); err != nil {
		return nil, err
	}
	return s.org, nil
}

// TestConnection probes connectivity with the configured credentials.
func (s *Service) TestConnection(ctx context.Context) (*ConnectionStatus, error) {
	org, err := s.Organization(ctx)
	if err != nil {
		return nil, err
	}
	return org.TestConnection(ctx)
}

// OrganizationInfo returns organization and project details.
func (s *Service) OrganizationInfo(ctx context.Context) (*OrganizationInfo, error) {
	org, err := s.Organization(ctx)
	if err != nil {
		return nil, err
	}
	return org.Info(ctx)
}

// initLocked performs the actual initialization. Callers hold s.mu.
func (s *Service) initLocked(ctx context.Context) error {
	if s.initialized {
		return nil
	}

	auth, err := NewAuthenticator(s.cfg.OrganizationURL, s.cfg.PAT, s.cfg.Timeout)
	if err != nil {
		return err
	}
	work, gitClient, coreClient, err := s.connect(ctx, auth)
	if err != nil {
		return err
	}

	orgURL := auth.OrganizationURL()
	s.auth = auth
	s.workItems = NewWorkItemManager(work, s.cfg, orgURL, s.log)
	s.testCases = NewTestCaseManager(work, s.cfg, orgURL, s.log)
	s.pullReqs = NewPullRequestManager(gitClient, s.cfg, s.log)
	s.org = NewOrganizationManager(coreClient, gitClient, s.cfg, auth, s.log)
	s.initialized = true
	s.log.Infow("azure devops service initialized",
		"organization", auth.Organization(), "project", s.cfg.Project)
	return nil
}
