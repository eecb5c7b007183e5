package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// Dispatcher relays one batch of outbox events.
type Dispatcher interface {
	Handle(ctx context.Context, cmd commands.DispatchSideEffectsCommand) (commands.DispatchReport, error)
}

// RelayConfig bounds a relay batch.
type RelayConfig struct {
	BatchSize   int
	MaxAttempts int
}

// SideEffectRelayJob executes committed side effects in the background.
type SideEffectRelayJob struct {
	dispatcher Dispatcher
	config     RelayConfig
	cron       *cron.Cron
	logger     *slog.Logger
}

func NewSideEffectRelayJob(dispatcher Dispatcher, config RelayConfig, logger *slog.Logger) *SideEffectRelayJob {
	return &SideEffectRelayJob{
		dispatcher: dispatcher,
		config:     config,
		cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:     logger.With("component", "side_effect_relay_job"),
	}
}

// Start validates the configuration and schedules the relay every second.
func (j *SideEffectRelayJob) Start() error {
	cmd, err := commands.NewDispatchSideEffectsCommand(j.config.BatchSize, j.config.MaxAttempts)
	if err != nil {
		return err
	}

	_, err = j.cron.AddFunc("* * * * * *", func() {
		j.Run(context.Background(), cmd)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Side effect relay job started (running every second)",
		"batch_size", j.config.BatchSize,
		"max_attempts", j.config.MaxAttempts,
	)
	return nil
}

// Run relays a single batch.
func (j *SideEffectRelayJob) Run(ctx context.Context, cmd commands.DispatchSideEffectsCommand) {
	report, err := j.dispatcher.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Side effect relay failed", "error", err)
		return
	}
	if report.Claimed > 0 {
		j.logger.DebugContext(ctx, "Side effects relayed",
			"claimed", report.Claimed,
			"dispatched", report.Dispatched,
			"failed", report.Failed,
		)
	}
}

// Stop waits for a running batch to finish.
func (j *SideEffectRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Side effect relay job stopped")
}
