package queries_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/discrepancyrepo"
	"orderflow/internal/adapters/out/postgres/documentrepo"
	"orderflow/internal/adapters/out/postgres/historyrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/pgtest"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/discrepancy"
	"orderflow/internal/core/domain/model/document"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type storedTracker struct{}

func (storedTracker) Track(o *order.Order) { o.MarkStored() }

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Put(ctx context.Context, key, contentType string, data []byte) error {
	return m.Called(ctx, key, contentType, data).Error(0)
}

func (m *MockStorage) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

var (
	now      = time.Date(2025, 10, 16, 9, 30, 0, 0, time.UTC)
	supplier = kernel.Actor{Role: kernel.RoleSupplier, ID: 12}
	customer = kernel.Actor{Role: kernel.RoleCustomer, ID: 40}
	admin    = kernel.Actor{Role: kernel.RoleAdmin, ID: 1}
	stranger = kernel.Actor{Role: kernel.RoleSupplier, ID: 13}
)

type QueriesIntegrationTestSuite struct {
	suite.Suite
	pg     *pgtest.Database
	orders *orderrepo.GormOrderRepository
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	if suite.pg != nil {
		suite.Require().NoError(suite.pg.Terminate(context.Background()))
	}
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
	suite.orders = orderrepo.NewGormOrderRepository(suite.pg.DB, storedTracker{})
}

// seed stores an order of supplier 12 and customer 40 in status.
func (suite *QueriesIntegrationTestSuite) seed(status order.Status, created time.Time) *order.Order {
	price, err := kernel.MoneyFromString("2.50")
	suite.Require().NoError(err)
	item := order.RestoreItem(0, order.ItemLine{
		ProductID: 3,
		Name:      "Milk 3.2%",
		SKU:       "MLK-32",
		Quantity:  100,
		UnitPrice: price,
		VATRate:   decimal.NewFromInt(20),
	})
	o, err := order.RestoreOrder(order.Snapshot{
		Number:              order.NewNumber(created),
		SupplierID:          supplier.ID,
		SupplierName:        "Dairy Farm",
		CustomerID:          customer.ID,
		CustomerName:        "Cafe",
		Status:              status,
		Items:               []*order.Item{item},
		DeliveryAddress:     "Minsk, Nezavisimosti 1",
		DesiredDeliveryDate: created.AddDate(0, 0, 3),
		CreatedAt:           created,
		UpdatedAt:           created,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Add(suite.T().Context(), o))
	return o
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_DetailWithActions() {
	ctx := suite.T().Context()
	o := suite.seed(order.PendingConfirmation, now)
	h := queries.NewGetOrderQueryHandler(suite.pg.DB)

	q, err := queries.NewGetOrderQuery(supplier, o.ID())
	suite.Require().NoError(err)
	detail, err := h.Handle(ctx, q)
	suite.Require().NoError(err)

	suite.Equal(o.Number(), detail.Number)
	suite.Equal("PENDING_CONFIRMATION", detail.Status.Code)
	suite.Equal("Ожидает подтверждения", detail.Status.Label)
	suite.Equal("250.00", detail.TotalAmount.StringFixed(2))
	suite.Equal("50.00", detail.VATAmount.StringFixed(2))
	suite.Require().Len(detail.Items, 1)
	suite.Equal("MLK-32", detail.Items[0].ProductSKU)
	suite.Equal([]order.Action{order.ActionConfirm, order.ActionReject, order.ActionCancel}, detail.AvailableActions)

	q, err = queries.NewGetOrderQuery(customer, o.ID())
	suite.Require().NoError(err)
	detail, err = h.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Equal([]order.Action{order.ActionCancel}, detail.AvailableActions)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_RepeatedReadsAreStable() {
	ctx := suite.T().Context()
	o := suite.seed(order.Paid, now)
	h := queries.NewGetOrderQueryHandler(suite.pg.DB)
	q, err := queries.NewGetOrderQuery(admin, o.ID())
	suite.Require().NoError(err)

	first, err := h.Handle(ctx, q)
	suite.Require().NoError(err)
	second, err := h.Handle(ctx, q)
	suite.Require().NoError(err)

	suite.Equal(first.Status, second.Status)
	suite.True(first.TotalAmount.Equal(second.TotalAmount))
	suite.True(first.VATAmount.Equal(second.VATAmount))
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_TerminalHasNoActions() {
	ctx := suite.T().Context()
	o := suite.seed(order.Closed, now)
	q, err := queries.NewGetOrderQuery(admin, o.ID())
	suite.Require().NoError(err)

	detail, err := queries.NewGetOrderQueryHandler(suite.pg.DB).Handle(ctx, q)
	suite.Require().NoError(err)
	suite.NotNil(detail.AvailableActions)
	suite.Empty(detail.AvailableActions)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_ByNumber() {
	ctx := suite.T().Context()
	o := suite.seed(order.Shipped, now)
	q, err := queries.NewGetOrderByNumberQuery(customer, o.Number())
	suite.Require().NoError(err)

	detail, err := queries.NewGetOrderQueryHandler(suite.pg.DB).Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Equal(o.ID(), detail.ID)
	suite.Equal([]order.Action{order.ActionConfirmDelivery}, detail.AvailableActions)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_StrangerAndMissingAreNotFound() {
	ctx := suite.T().Context()
	o := suite.seed(order.PendingConfirmation, now)
	h := queries.NewGetOrderQueryHandler(suite.pg.DB)

	q, err := queries.NewGetOrderQuery(stranger, o.ID())
	suite.Require().NoError(err)
	_, err = h.Handle(ctx, q)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	q, err = queries.NewGetOrderQuery(admin, o.ID()+100)
	suite.Require().NoError(err)
	_, err = h.Handle(ctx, q)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestListOrders_ScopedAndPaged() {
	ctx := suite.T().Context()
	for i := range 3 {
		suite.seed(order.PendingConfirmation, now.Add(time.Duration(i)*time.Minute))
	}
	suite.seed(order.Paid, now.Add(time.Hour))
	h := queries.NewListOrdersQueryHandler(suite.pg.DB)

	q, err := queries.NewListOrdersQuery(supplier, order.Unknown, 1, 2)
	suite.Require().NoError(err)
	page, err := h.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Equal(int64(4), page.Total)
	suite.Require().Len(page.Items, 2)
	suite.Equal("PAID", page.Items[0].Status.Code)
	suite.True(page.Items[0].CreatedAt.After(page.Items[1].CreatedAt))

	q, err = queries.NewListOrdersQuery(customer, order.PendingConfirmation, 1, 0)
	suite.Require().NoError(err)
	page, err = h.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Equal(int64(3), page.Total)
	suite.Equal(queries.DefaultPageSize, page.Size)

	q, err = queries.NewListOrdersQuery(stranger, order.Unknown, 1, 10)
	suite.Require().NoError(err)
	page, err = h.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Zero(page.Total)
	suite.NotNil(page.Items)
	suite.Empty(page.Items)
}

func (suite *QueriesIntegrationTestSuite) TestListDiscrepancyReports() {
	ctx := suite.T().Context()
	o := suite.seed(order.AwaitingCorrection, now)
	itemID := o.Items()[0].ID()
	report, err := discrepancy.Compute(o, []order.DiscrepancyLine{
		{OrderItemID: itemID, ActualQuantity: 90, Reason: "short"},
	}, "pallet 2", customer, now)
	suite.Require().NoError(err)
	suite.Require().NoError(discrepancyrepo.NewGormDiscrepancyRepository(suite.pg.DB).Add(ctx, report))

	q, err := queries.NewListDiscrepancyReportsQuery(supplier, o.ID())
	suite.Require().NoError(err)
	reports, err := queries.NewListDiscrepancyReportsQueryHandler(suite.pg.DB).Handle(ctx, q)
	suite.Require().NoError(err)

	suite.Require().Len(reports, 1)
	suite.Equal("-25.00", reports[0].TotalAmount.StringFixed(2))
	suite.Equal(kernel.RoleCustomer, reports[0].CreatedByRole)
	suite.Require().Len(reports[0].Items, 1)
	suite.Equal(int64(-10), reports[0].Items[0].Discrepancy)
	suite.Equal(int64(100), reports[0].Items[0].ExpectedQuantity)

	q, err = queries.NewListDiscrepancyReportsQuery(stranger, o.ID())
	suite.Require().NoError(err)
	_, err = queries.NewListDiscrepancyReportsQueryHandler(suite.pg.DB).Handle(ctx, q)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestOrderHistory_CarriesActorRole() {
	ctx := suite.T().Context()
	o := suite.seed(order.PendingConfirmation, now)
	steps, err := o.Apply(order.ActionConfirm, supplier, order.Payload{}, now.Add(time.Minute))
	suite.Require().NoError(err)
	suite.Require().NoError(historyrepo.NewGormHistoryRepository(suite.pg.DB).Append(ctx, o.ID(), steps))

	q, err := queries.NewGetOrderHistoryQuery(customer, o.ID())
	suite.Require().NoError(err)
	entries, err := queries.NewGetOrderHistoryQueryHandler(suite.pg.DB).Handle(ctx, q)
	suite.Require().NoError(err)

	suite.Require().Len(entries, 2)
	suite.Equal("PENDING_CONFIRMATION", entries[0].From.Code)
	suite.Equal("CONFIRMED", entries[0].To.Code)
	suite.Equal("AWAITING_PAYMENT", entries[1].To.Code)
	for _, e := range entries {
		suite.Equal(kernel.RoleSupplier, e.ActorRole)
		suite.Equal(supplier.ID, e.ActorID)
	}
}

func (suite *QueriesIntegrationTestSuite) TestDocuments_ListAndURL() {
	ctx := suite.T().Context()
	o := suite.seed(order.Shipped, now)
	doc := document.New(document.Request{Kind: document.KindTTN, OrderID: o.ID()}, supplier, now)
	doc.Size = 1024
	_, err := documentrepo.NewGormDocumentRepository(suite.pg.DB).Add(ctx, doc)
	suite.Require().NoError(err)

	lq, err := queries.NewListDocumentsQuery(customer, o.ID())
	suite.Require().NoError(err)
	docs, err := queries.NewListDocumentsQueryHandler(suite.pg.DB).Handle(ctx, lq)
	suite.Require().NoError(err)
	suite.Require().Len(docs, 1)
	suite.Equal(doc.ID.String(), docs[0].ID)
	suite.Equal("TTN", docs[0].Kind)
	suite.Equal(int64(1024), docs[0].Size)

	storage := new(MockStorage)
	storage.On("PresignedURL", ctx, doc.StorageKey, 15*time.Minute).Return("https://files/ttn", nil).Once()
	h := queries.NewDocumentURLQueryHandler(suite.pg.DB, storage, 15*time.Minute)

	uq, err := queries.NewDocumentURLQuery(customer, doc.ID.String())
	suite.Require().NoError(err)
	link, err := h.Handle(ctx, uq)
	suite.Require().NoError(err)
	suite.Equal("https://files/ttn", link.URL)
	suite.True(link.ExpiresAt.After(time.Now()))
	storage.AssertExpectations(suite.T())

	uq, err = queries.NewDocumentURLQuery(stranger, doc.ID.String())
	suite.Require().NoError(err)
	_, err = h.Handle(ctx, uq)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesIntegrationTestSuite))
}
