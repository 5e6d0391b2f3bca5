package matchgen

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/modules/matching"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/services"
)

type fakeMatching struct {
	calls int
	err   error
	out   *services.GenerateResult
}

func (f *fakeMatching) Generate(ctx context.Context, userID uuid.UUID, maxMatches int) (*services.GenerateResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func newEnv(t *testing.T, m services.MatchingService) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var s testsuite.WorkflowTestSuite
	env := s.NewTestWorkflowEnvironment()
	acts := &Activities{Matching: m}
	env.RegisterWorkflowWithOptions(GenerateIntroductionsWorkflow, workflow.RegisterOptions{Name: WorkflowName})
	env.RegisterActivityWithOptions(acts.Generate, activity.RegisterOptions{Name: ActivityGenerate})
	return env
}

func TestWorkflowCreatesIntroductions(t *testing.T) {
	requester := uuid.New()
	created := &types.Introduction{ID: uuid.New(), FromUserID: requester, ToUserID: uuid.New()}
	fake := &fakeMatching{out: &services.GenerateResult{
		Suggestions: []matching.Suggestion{{UserID: created.ToUserID, Score: 0.8}, {UserID: uuid.New(), Score: 0.7}},
		Created:     []*types.Introduction{created},
		Skipped:     1,
	}}
	env := newEnv(t, fake)

	env.ExecuteWorkflow(WorkflowName, Input{UserID: requester.String(), MaxMatches: 3})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var out Result
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, requester.String(), out.UserID)
	require.Equal(t, 2, out.Suggested)
	require.Equal(t, 1, out.Skipped)
	require.Equal(t, []string{created.ID.String()}, out.CreatedIDs)
	require.Equal(t, 1, fake.calls)
}

func TestWorkflowDoesNotRetryUnknownUser(t *testing.T) {
	fake := &fakeMatching{err: apperr.NotFound("matching.Select", "user not found")}
	env := newEnv(t, fake)

	env.ExecuteWorkflow(WorkflowName, Input{UserID: uuid.New().String()})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	require.Equal(t, 1, fake.calls)
}

func TestWorkflowRejectsBadUserID(t *testing.T) {
	fake := &fakeMatching{}
	env := newEnv(t, fake)

	env.ExecuteWorkflow(WorkflowName, Input{UserID: "not-a-uuid"})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	require.Zero(t, fake.calls)
}
