package temporalworker

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
	"github.com/yungbote/chekinn-backend/internal/services"
	"github.com/yungbote/chekinn-backend/internal/temporalx"
	"github.com/yungbote/chekinn-backend/internal/temporalx/matchgen"
)

// Runner polls the matching task queue and executes match generation runs.
type Runner struct {
	log      *logger.Logger
	tc       temporalsdkclient.Client
	cfg      temporalx.Config
	matching services.MatchingService
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, cfg temporalx.Config, matching services.MatchingService) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if matching == nil {
		return nil, fmt.Errorf("temporal worker missing matching service")
	}
	return &Runner{log: log.With("component", "TemporalWorker"), tc: tc, cfg: cfg, matching: matching}, nil
}

// Start launches the worker and returns once it is polling. The worker stops
// when ctx is cancelled. Start failures are retried until DialMaxWait elapses.
func (r *Runner) Start(ctx context.Context) error {
	r.log.Info("Starting Temporal worker", "address", r.cfg.Address, "namespace", r.cfg.Namespace, "task_queue", r.cfg.TaskQueue)

	deadline := time.Now().Add(r.cfg.DialMaxWait)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		w := r.newWorker()
		startErr := w.Start()
		if startErr == nil {
			go func() {
				<-ctx.Done()
				w.Stop()
			}()
			r.log.Info("Temporal worker started", "task_queue", r.cfg.TaskQueue, "attempts", attempt)
			return nil
		}
		w.Stop()

		if r.cfg.DialMaxWait <= 0 || time.Now().After(deadline) {
			return fmt.Errorf("temporal worker start (namespace=%s): %w", r.cfg.Namespace, startErr)
		}
		r.log.Warn("Temporal worker failed to start; retrying", "attempt", attempt, "error", startErr)
		time.Sleep(backoff(attempt))
	}
}

func (r *Runner) newWorker() worker.Worker {
	concurrency := r.cfg.WorkerConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	w := worker.New(r.tc, r.cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})

	acts := &matchgen.Activities{Log: r.log, Matching: r.matching}
	w.RegisterWorkflowWithOptions(matchgen.GenerateIntroductionsWorkflow, workflow.RegisterOptions{Name: matchgen.WorkflowName})
	w.RegisterActivityWithOptions(acts.Generate, activity.RegisterOptions{Name: matchgen.ActivityGenerate})
	return w
}

func backoff(attempt int) time.Duration {
	d := 250 * time.Millisecond
	for i := 1; i < attempt && d < 5*time.Second; i++ {
		d *= 2
	}
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
