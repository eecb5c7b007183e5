// Package jobs provides the scheduled background tasks of the order service.
//
// Jobs are cron based (github.com/robfig/cron/v3, seconds resolution).
//
// # Available Jobs
//
//  1. SideEffectRelayJob - runs every second and relays one batch of outbox
//     events: notifications to the parties and document generation
//
// # Usage
//
//	jobManager := jobs.NewJobManager(dispatchHandler, jobs.RelayConfig{BatchSize: 50, MaxAttempts: 5}, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// A tick is skipped while the previous one is still running. Several service
// instances may relay at the same time; the outbox hands each event to one
// of them only.
package jobs
