package matchgen

import (
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// GenerateIntroductionsWorkflow runs one match generation for a requester.
// The activity is retried on transient failures; a cancelled run records nothing
// beyond what the activity already committed.
func GenerateIntroductionsWorkflow(ctx workflow.Context, in Input) (Result, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return Result{}, fmt.Errorf("matchgen: missing user_id")
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	})

	var out Result
	if err := workflow.ExecuteActivity(ctx, ActivityGenerate, in).Get(ctx, &out); err != nil {
		return Result{}, err
	}
	workflow.GetLogger(ctx).Info("introductions generated", "user_id", out.UserID, "created", len(out.CreatedIDs))
	return out, nil
}
