package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/effect"
	"orderflow/internal/core/domain/model/kernel"
)

// OutboxEvent is a persisted side effect awaiting dispatch.
type OutboxEvent struct {
	ID        int64
	EventID   kernel.UUID
	Effect    effect.Effect
	Attempts  int
	CreatedAt time.Time
}

// Outbox queues side effects in the transaction of the change that caused them.
type Outbox interface {
	Enqueue(ctx context.Context, effects []effect.Effect) error

	// Claim locks up to limit pending events with fewer than maxAttempts
	// attempts. Rows locked by another relay are skipped.
	Claim(ctx context.Context, limit, maxAttempts int) ([]OutboxEvent, error)

	MarkDispatched(ctx context.Context, id int64, at time.Time) error

	// MarkFailed increments the attempt counter and records cause.
	MarkFailed(ctx context.Context, id int64, cause error) error
}
