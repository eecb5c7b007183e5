package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	relayJob *SideEffectRelayJob
}

func NewJobManager(dispatcher Dispatcher, relay RelayConfig, logger *slog.Logger) *JobManager {
	return &JobManager{
		relayJob: NewSideEffectRelayJob(dispatcher, relay, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.relayJob.Start(); err != nil {
		return fmt.Errorf("failed to start side effect relay job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.relayJob.Stop()
}
