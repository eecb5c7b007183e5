// Package commands contains the operations that change state. Every command
// is a value built by its constructor and handled by a handler that owns the
// transaction: Begin, deferred Rollback, work, Commit.
package commands

import (
	"context"

	"orderflow/internal/core/ports"
)

// Unit of work views used by the handlers.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	HistoryRepoFactory interface {
		HistoryRepository() ports.HistoryRepository
	}

	DiscrepancyRepoFactory interface {
		DiscrepancyRepository() ports.DiscrepancyRepository
	}

	DocumentRepoFactory interface {
		DocumentRepository() ports.DocumentRepository
	}

	OutboxFactory interface {
		Outbox() ports.Outbox
	}

	// OrderUoW covers commands that only touch orders.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW covers transitions and their follow-up work.
	//
	//	uow := factory.Create()
	//	if err := uow.Begin(ctx); err != nil {
	//	    return err
	//	}
	//	defer func() { _ = uow.Rollback(ctx) }()
	//	// order update, history, outbox
	//	return uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		HistoryRepoFactory
		DiscrepancyRepoFactory
		DocumentRepoFactory
		OutboxFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
