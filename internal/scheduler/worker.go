package scheduler

import (
	"context"
	"fmt"

	"leadpilot_backend/internal/accounts/repository"
	"leadpilot_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// quotaResetCron runs the cycle reset pass once a day. The pass itself only
// touches accounts whose cycle anchor is at least a month old, so running
// daily is safe.
const quotaResetCron = "0 3 * * *"

type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	repo      *repository.Repository
	log       *logger.Logger
}

func NewWorker(redisURL string, pool *pgxpool.Pool, log *logger.Logger) (*Worker, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			defaultQueue: 1,
		},
	})

	periodic := asynq.NewScheduler(opt, nil)
	if _, err := periodic.Register(quotaResetCron, NewQuotaCycleResetTask(), asynq.Queue(defaultQueue)); err != nil {
		return nil, err
	}

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		scheduler: periodic,
		mux:       mux,
		repo:      repository.New(pool),
		log:       log,
	}

	mux.HandleFunc(TaskQuotaCycleReset, w.handleQuotaCycleReset)

	return w, nil
}

func (w *Worker) handleQuotaCycleReset(ctx context.Context, task *asynq.Task) error {
	reset, err := w.repo.ResetExpiredCycles(ctx)
	if err != nil {
		return err
	}
	w.log.Info("quota cycles reset", "accounts", reset)
	return nil
}

// Run starts the periodic scheduler and the task server, and blocks until
// the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.scheduler.Shutdown()
		w.server.Shutdown()
	}()

	if err := w.scheduler.Start(); err != nil {
		w.log.Error("periodic scheduler failed to start", "error", err)
		return
	}

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
