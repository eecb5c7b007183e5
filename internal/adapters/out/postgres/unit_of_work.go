// Package postgres implements the unit of work and schema of the service on
// GORM and PostgreSQL.
//
// A unit of work wraps one database transaction. Repositories obtained from
// it after Begin share that transaction:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.Outbox().Enqueue(ctx, effects); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Orders written through the unit of work are marked stored only after a
// successful Commit, so a rolled back transition leaves the aggregate's
// compare-and-swap precondition untouched.
package postgres

import (
	"context"

	"orderflow/internal/adapters/out/postgres/discrepancyrepo"
	"orderflow/internal/adapters/out/postgres/documentrepo"
	"orderflow/internal/adapters/out/postgres/historyrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/outboxrepo"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates a GormUnitOfWork per business operation.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one transaction and the orders written in it.
type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	tracked []*order.Order
}

// Begin starts the transaction. A second Begin on the same instance is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}
	return nil
}

// Commit finalizes the transaction and marks every tracked order stored.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.tracked = nil
		return err
	}

	for _, o := range uow.tracked {
		o.MarkStored()
	}
	uow.tracked = nil
	return nil
}

// Rollback discards the transaction. It returns gorm.ErrInvalidTransaction
// when none is active, which deferred calls after Commit ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.tracked = nil
	return err
}

// Track registers an order written in the current transaction.
func (uow *GormUnitOfWork) Track(aggregate *order.Order) {
	uow.tracked = append(uow.tracked, aggregate)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) HistoryRepository() ports.HistoryRepository {
	return historyrepo.NewGormHistoryRepository(uow.conn())
}

func (uow *GormUnitOfWork) DiscrepancyRepository() ports.DiscrepancyRepository {
	return discrepancyrepo.NewGormDiscrepancyRepository(uow.conn())
}

func (uow *GormUnitOfWork) DocumentRepository() ports.DocumentRepository {
	return documentrepo.NewGormDocumentRepository(uow.conn())
}

func (uow *GormUnitOfWork) Outbox() ports.Outbox {
	return outboxrepo.NewGormOutbox(uow.conn())
}
