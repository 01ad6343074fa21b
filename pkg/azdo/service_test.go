package azdo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(fake *Fake) *Service {
	return New(testConfig(), zap.NewNop().Sugar(), WithClients(fake, fake, fake))
}

func TestServiceLazyInitialization(t *testing.T) {
	fake := NewFake()
	svc := newTestService(fake)

	assert.False(t, svc.Initialized(), "construction must not connect")

	work, err := svc.WorkItems(context.Background())
	require.NoError(t, err)
	require.NotNil(t, work)

	assert.True(t, svc.Initialized())

	story, err := work.CreateUserStory(context.Background(), CreateUserStoryArgs{
		Title:       "End to end through the facade",
		Description: "Created via a lazily connected manager",
	})
	require.NoError(t, err)
	assert.NotZero(t, story.ID)
}

func TestServiceInitialize_SingleInflight(t *testing.T) {
	fake := NewFake()
	svc := New(testConfig(), zap.NewNop().Sugar())

	var calls int32
	svc.connect = func(context.Context, *Authenticator) (WorkItemsClient, GitClient, CoreClient, error) {
		atomic.AddInt32(&calls, 1)
		return fake, fake, fake, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Initialize(context.Background()); err != nil {
				t.Errorf("Initialize() error = %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent callers must share one connection attempt")
	assert.True(t, svc.Initialized())
}

func TestServiceInitialize_Idempotent(t *testing.T) {
	fake := NewFake()
	svc := New(testConfig(), zap.NewNop().Sugar())

	var calls int32
	svc.connect = func(context.Context, *Authenticator) (WorkItemsClient, GitClient, CoreClient, error) {
		atomic.AddInt32(&calls, 1)
		return fake, fake, fake, nil
	}

	require.NoError(t, svc.Initialize(context.Background()))
	require.NoError(t, svc.Initialize(context.Background()))
	_, err := svc.TestCases(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestServiceClose_Reconnects(t *testing.T) {
	fake := NewFake()
	svc := New(testConfig(), zap.NewNop().Sugar())

	var calls int32
	svc.connect = func(context.Context, *Authenticator) (WorkItemsClient, GitClient, CoreClient, error) {
		atomic.AddInt32(&calls, 1)
		return fake, fake, fake, nil
	}

	require.NoError(t, svc.Initialize(context.Background()))
	require.NoError(t, svc.Close())
	assert.False(t, svc.Initialized())

	// Close twice is fine.
	require.NoError(t, svc.Close())

	_, err := svc.PullRequests(context.Background())
	require.NoError(t, err)
	assert.True(t, svc.Initialized())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestServiceInitialize_BadConfiguration(t *testing.T) {
	cfg := testConfig()
	cfg.OrganizationURL = "https://example.com/contoso"
	svc := New(cfg, zap.NewNop().Sugar(), WithClients(NewFake(), NewFake(), NewFake()))

	err := svc.Initialize(context.Background())
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.False(t, svc.Initialized())
}

func TestServiceInitialize_BadToken(t *testing.T) {
	cfg := testConfig()
	cfg.PAT = "too-short"
	svc := New(cfg, zap.NewNop().Sugar(), WithClients(NewFake(), NewFake(), NewFake()))

	err := svc.Initialize(context.Background())
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, svc.Initialized())
}

func TestServiceInitialize_RetriesAfterFailure(t *testing.T) {
	fake := NewFake()
	svc := New(testConfig(), zap.NewNop().Sugar())

	dialErr := errors.New("dial tcp: connection refused")
	var calls int32
	svc.connect = func(context.Context, *Authenticator) (WorkItemsClient, GitClient, CoreClient, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, nil, nil, dialErr
		}
		return fake, fake, fake, nil
	}

	err := svc.Initialize(context.Background())
	require.ErrorIs(t, err, dialErr)
	assert.False(t, svc.Initialized())

	require.NoError(t, svc.Initialize(context.Background()))
	assert.True(t, svc.Initialized())
}

func TestServiceTestConnection(t *testing.T) {
	fake := NewFake()
	seedProjects(fake)
	svc := newTestService(fake)

	status, err := svc.TestConnection(context.Background())
	require.NoError(t, err)

	assert.True(t, status.Connected)
	assert.Equal(t, "contoso", status.Organization)
	assert.Equal(t, 2, status.ProjectCount)
}

func TestServiceOrganizationInfo(t *testing.T) {
	fake := NewFake()
	seedProjects(fake)
	svc := newTestService(fake)

	info, err := svc.OrganizationInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Phoenix", info.Project.Name)
}
