package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/discrepancy"
	"orderflow/internal/core/domain/model/effect"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type transitionFixture struct {
	repo    *MockOrderRepository
	history *MockHistoryRepository
	reports *MockDiscrepancyRepository
	outbox  *MockOutbox
	uow     *MockUoW
	factory *MockUoWFactory
	handler commands.ApplyTransitionCommandHandler
}

func newTransitionFixture() *transitionFixture {
	f := &transitionFixture{
		repo:    new(MockOrderRepository),
		history: new(MockHistoryRepository),
		reports: new(MockDiscrepancyRepository),
		outbox:  new(MockOutbox),
		uow:     new(MockUoW),
		factory: new(MockUoWFactory),
	}
	f.factory.On("Create").Return(f.uow).Once()
	f.handler = commands.NewApplyTransitionCommandHandler(f.factory, services.NewSideEffectPlanner(), discardLogger())
	return f
}

func (f *transitionFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.repo.AssertExpectations(t)
	f.history.AssertExpectations(t)
	f.reports.AssertExpectations(t)
	f.outbox.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.factory.AssertExpectations(t)
}

func transitionCmd(t *testing.T, actor kernel.Actor, action order.Action, p order.Payload) commands.ApplyTransitionCommand {
	t.Helper()
	cmd, err := commands.NewApplyTransitionCommand(actor, orderID, action, p)
	require.NoError(t, err)
	return cmd
}

func TestApplyTransitionCommandHandler_Handle_RejectNotifiesCustomer(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := orderIn(t, order.PendingConfirmation)

	var enqueued []effect.Effect
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, orderID).Return(o, nil).Once(),
		f.repo.On("Update", ctx, o).Return(nil).Once(),
		f.uow.On("HistoryRepository").Return(f.history).Once(),
		f.history.On("Append", ctx, orderID, mock.MatchedBy(func(steps []order.Transition) bool {
			return len(steps) == 1 && steps[0].To == order.Rejected && steps[0].Actor == supplier
		})).Return(nil).Once(),
		f.uow.On("Outbox").Return(f.outbox).Once(),
		f.outbox.On("Enqueue", ctx, mock.Anything).Run(func(args mock.Arguments) {
			enqueued = args.Get(1).([]effect.Effect)
		}).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	res, err := f.handler.Handle(ctx, transitionCmd(t, supplier, order.ActionReject, order.Payload{Reason: "out of stock"}))
	require.NoError(t, err)
	assert.Equal(t, order.Rejected, res.Order.Status())
	assert.Equal(t, "out of stock", res.Order.RejectionReason())
	require.Len(t, enqueued, 1)
	assert.Equal(t, effect.KindNotify, enqueued[0].Kind)
	assert.Equal(t, kernel.RoleCustomer, enqueued[0].Audience)
	assert.Equal(t, enqueued, res.Effects)
	f.assertExpectations(t)
}

func TestApplyTransitionCommandHandler_Handle_ConfirmHasNoEffects(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := orderIn(t, order.PendingConfirmation)

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, orderID).Return(o, nil).Once(),
		f.repo.On("Update", ctx, o).Return(nil).Once(),
		f.uow.On("HistoryRepository").Return(f.history).Once(),
		f.history.On("Append", ctx, orderID, mock.AnythingOfType("[]order.Transition")).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	res, err := f.handler.Handle(ctx, transitionCmd(t, supplier, order.ActionConfirm, order.Payload{}))
	require.NoError(t, err)
	assert.Equal(t, order.AwaitingPayment, res.Order.Status())
	require.Len(t, res.Transitions, 2)
	assert.Empty(t, res.Effects)
	f.uow.AssertNotCalled(t, "Outbox")
	f.assertExpectations(t)
}

func TestApplyTransitionCommandHandler_Handle_InvalidTransitionLeavesOrder(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := orderIn(t, order.PendingConfirmation)
	before := o.UpdatedAt()

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, orderID).Return(o, nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err := f.handler.Handle(ctx, transitionCmd(t, customer, order.ActionConfirm, order.Payload{}))
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, order.PendingConfirmation, o.Status())
	assert.Equal(t, before, o.UpdatedAt())
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestApplyTransitionCommandHandler_Handle_MissingReason(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := orderIn(t, order.PendingConfirmation)

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, orderID).Return(o, nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err := f.handler.Handle(ctx, transitionCmd(t, supplier, order.ActionReject, order.Payload{Reason: ""}))
	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, order.PendingConfirmation, o.Status())
	f.assertExpectations(t)
}

func TestApplyTransitionCommandHandler_Handle_StrangerGetsNotFound(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := orderIn(t, order.PendingConfirmation)

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, orderID).Return(o, nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err := f.handler.Handle(ctx, transitionCmd(t, stranger, order.ActionCancel, order.Payload{}))
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	f.assertExpectations(t)
}

func TestApplyTransitionCommandHandler_Handle_ConflictIsReturned(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := orderIn(t, order.Paid)

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, orderID).Return(o, nil).Once(),
		f.repo.On("Update", ctx, o).Return(errs.NewConflictError("order", orderID)).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err := f.handler.Handle(ctx, transitionCmd(t, supplier, order.ActionShip, order.Payload{}))
	require.ErrorIs(t, err, errs.ErrConflict)
	f.uow.AssertNotCalled(t, "Commit", ctx)
	f.assertExpectations(t)
}

func TestApplyTransitionCommandHandler_Handle_ReportDiscrepancy(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := orderIn(t, order.Delivered)

	var enqueued []effect.Effect
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, orderID).Return(o, nil).Once(),
		f.repo.On("Update", ctx, o).Return(nil).Once(),
		f.uow.On("HistoryRepository").Return(f.history).Once(),
		f.history.On("Append", ctx, orderID, mock.AnythingOfType("[]order.Transition")).Return(nil).Once(),
		f.uow.On("DiscrepancyRepository").Return(f.reports).Once(),
		f.reports.On("Add", ctx, mock.AnythingOfType("*discrepancy.Report")).Run(func(args mock.Arguments) {
			args.Get(1).(*discrepancy.Report).AssignID(31)
		}).Return(nil).Once(),
		f.uow.On("Outbox").Return(f.outbox).Once(),
		f.outbox.On("Enqueue", ctx, mock.Anything).Run(func(args mock.Arguments) {
			enqueued = args.Get(1).([]effect.Effect)
		}).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	res, err := f.handler.Handle(ctx, transitionCmd(t, customer, order.ActionReportDiscrepancy, order.Payload{
		DiscrepancyLines: []order.DiscrepancyLine{{OrderItemID: 11, ActualQuantity: 90, Reason: "short"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, order.AwaitingCorrection, res.Order.Status())
	require.NotNil(t, res.Report)
	assert.Equal(t, "-25.00", res.Report.TotalAmount().String())

	require.Len(t, enqueued, 2)
	assert.Equal(t, effect.KindGenerateDocument, enqueued[0].Kind)
	assert.Equal(t, int64(31), enqueued[0].ReportID)
	assert.Equal(t, kernel.RoleSupplier, enqueued[1].Audience)
	f.assertExpectations(t)
}

func TestApplyTransitionCommandHandler_Handle_BadDiscrepancyLinesLeaveOrder(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := orderIn(t, order.Delivered)

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, orderID).Return(o, nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err := f.handler.Handle(ctx, transitionCmd(t, customer, order.ActionReportDiscrepancy, order.Payload{
		DiscrepancyLines: []order.DiscrepancyLine{{OrderItemID: 99, ActualQuantity: 1, Reason: "lost"}},
	}))
	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, order.Delivered, o.Status())
	f.assertExpectations(t)
}

func TestApplyTransitionCommandHandler_Handle_GetError(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("orderId", orderID)).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err := f.handler.Handle(ctx, transitionCmd(t, admin, order.ActionClose, order.Payload{}))
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	f.assertExpectations(t)
}

func TestApplyTransitionCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := orderIn(t, order.Delivered)

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, orderID).Return(o, nil).Once(),
		f.repo.On("Update", ctx, o).Return(nil).Once(),
		f.uow.On("HistoryRepository").Return(f.history).Once(),
		f.history.On("Append", ctx, orderID, mock.Anything).Return(nil).Once(),
		f.uow.On("Outbox").Return(f.outbox).Once(),
		f.outbox.On("Enqueue", ctx, mock.Anything).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err := f.handler.Handle(ctx, transitionCmd(t, admin, order.ActionClose, order.Payload{}))
	require.Error(t, err)
	f.assertExpectations(t)
}

func TestNewApplyTransitionCommand_RejectsUnknownAction(t *testing.T) {
	_, err := commands.NewApplyTransitionCommand(supplier, orderID, order.Action("teleport"), order.Payload{})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewApplyTransitionCommand(supplier, 0, order.ActionConfirm, order.Payload{})
	require.ErrorIs(t, err, errs.ErrValidation)
}
