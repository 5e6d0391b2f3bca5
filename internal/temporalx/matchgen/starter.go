package matchgen

import (
	"context"
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"
)

// Run starts GenerateIntroductionsWorkflow on taskQueue and waits for its result.
func Run(ctx context.Context, tc temporalsdkclient.Client, taskQueue string, in Input) (Result, error) {
	if tc == nil {
		return Result{}, fmt.Errorf("matchgen: temporal client is not configured")
	}
	run, err := tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:        "generate-intros-" + in.UserID,
		TaskQueue: taskQueue,
	}, WorkflowName, in)
	if err != nil {
		return Result{}, fmt.Errorf("matchgen: start workflow: %w", err)
	}
	var out Result
	if err := run.Get(ctx, &out); err != nil {
		return Result{}, err
	}
	return out, nil
}
