package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/discrepancy"
	"orderflow/internal/core/domain/model/document"
	"orderflow/internal/core/domain/model/effect"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	supplierID int64 = 12
	customerID int64 = 40
	orderID    int64 = 7
)

var (
	supplier = kernel.Actor{Role: kernel.RoleSupplier, ID: supplierID}
	customer = kernel.Actor{Role: kernel.RoleCustomer, ID: customerID}
	admin    = kernel.Actor{Role: kernel.RoleAdmin, ID: 1}
	stranger = kernel.Actor{Role: kernel.RoleCustomer, ID: 99}
)

func orderIn(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	price, err := kernel.MoneyFromString("2.50")
	require.NoError(t, err)
	item := order.RestoreItem(11, order.ItemLine{
		ProductID: 3,
		Name:      "Milk 3.2%",
		SKU:       "MLK-32",
		Quantity:  100,
		UnitPrice: price,
		VATRate:   decimal.NewFromInt(20),
	})
	created := time.Date(2025, 10, 16, 9, 30, 0, 0, time.UTC)
	o, err := order.RestoreOrder(order.Snapshot{
		ID:                  orderID,
		Number:              "ORD-20251016-0A1B2C3D",
		SupplierID:          supplierID,
		CustomerID:          customerID,
		Status:              status,
		Items:               []*order.Item{item},
		DeliveryAddress:     "Minsk, Nezavisimosti 1",
		DesiredDeliveryDate: created.AddDate(0, 0, 3),
		CreatedAt:           created,
		UpdatedAt:           created,
		Version:             2,
	})
	require.NoError(t, err)
	return o
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) ReplaceItems(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(_ context.Context, _ string) (*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

type MockHistoryRepository struct{ mock.Mock }

func (m *MockHistoryRepository) Append(ctx context.Context, id int64, steps []order.Transition) error {
	args := m.Called(ctx, id, steps)
	return args.Error(0)
}

type MockDiscrepancyRepository struct{ mock.Mock }

func (m *MockDiscrepancyRepository) Add(ctx context.Context, r *discrepancy.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDiscrepancyRepository) Get(ctx context.Context, id int64) (*discrepancy.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discrepancy.Report), args.Error(1)
}

func (m *MockDiscrepancyRepository) Position(ctx context.Context, orderID, reportID int64) (int64, error) {
	args := m.Called(ctx, orderID, reportID)
	return args.Get(0).(int64), args.Error(1)
}

type MockDocumentRepository struct{ mock.Mock }

func (m *MockDocumentRepository) Find(ctx context.Context, req document.Request) (*document.Document, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) Add(ctx context.Context, doc *document.Document) (*document.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) Get(_ context.Context, _ kernel.UUID) (*document.Document, error) {
	return nil, errors.New("not implemented in mock")
}

type MockOutbox struct{ mock.Mock }

func (m *MockOutbox) Enqueue(ctx context.Context, effects []effect.Effect) error {
	args := m.Called(ctx, effects)
	return args.Error(0)
}

func (m *MockOutbox) Claim(ctx context.Context, limit, maxAttempts int) ([]ports.OutboxEvent, error) {
	args := m.Called(ctx, limit, maxAttempts)
	events, _ := args.Get(0).([]ports.OutboxEvent)
	return events, args.Error(1)
}

func (m *MockOutbox) MarkDispatched(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockOutbox) MarkFailed(ctx context.Context, id int64, cause error) error {
	args := m.Called(ctx, id, cause)
	return args.Error(0)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

// MockUoW embeds MockOrderUoW for the transaction methods.
type MockUoW struct {
	MockOrderUoW
}

func (m *MockUoW) HistoryRepository() ports.HistoryRepository {
	args := m.Called()
	return args.Get(0).(ports.HistoryRepository)
}

func (m *MockUoW) DiscrepancyRepository() ports.DiscrepancyRepository {
	args := m.Called()
	return args.Get(0).(ports.DiscrepancyRepository)
}

func (m *MockUoW) DocumentRepository() ports.DocumentRepository {
	args := m.Called()
	return args.Get(0).(ports.DocumentRepository)
}

func (m *MockUoW) Outbox() ports.Outbox {
	args := m.Called()
	return args.Get(0).(ports.Outbox)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, e effect.Effect) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type MockRenderer struct{ mock.Mock }

func (m *MockRenderer) Render(doc *document.Document, o *order.Order, r *discrepancy.Report) ([]byte, error) {
	args := m.Called(doc, o, r)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Put(ctx context.Context, key, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockStorage) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}
