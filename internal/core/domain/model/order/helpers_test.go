package order_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	supplierID int64 = 12
	customerID int64 = 40
)

var (
	now      = time.Date(2025, 10, 16, 9, 30, 0, 0, time.UTC)
	supplier = kernel.Actor{Role: kernel.RoleSupplier, ID: supplierID}
	customer = kernel.Actor{Role: kernel.RoleCustomer, ID: customerID}
	admin    = kernel.Actor{Role: kernel.RoleAdmin, ID: 1}
	stranger = kernel.Actor{Role: kernel.RoleSupplier, ID: 99}
)

func newItem(t *testing.T, qty int64, price, rate string) *order.Item {
	t.Helper()
	p, err := kernel.MoneyFromString(price)
	require.NoError(t, err)
	it, err := order.NewItem(order.ItemLine{
		ProductID: 3,
		Name:      "Milk 3.2%",
		SKU:       "MLK-32",
		Quantity:  qty,
		UnitPrice: p,
		VATRate:   decimal.RequireFromString(rate),
	})
	require.NoError(t, err)
	return it
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.Draft{
		Number:              order.NewNumber(now),
		SupplierID:          supplierID,
		CustomerID:          customerID,
		Items:               []*order.Item{newItem(t, 100, "2.50", "20"), newItem(t, 3, "10.05", "10")},
		DeliveryAddress:     "Minsk, Nezavisimosti 1",
		DesiredDeliveryDate: now.AddDate(0, 0, 3),
	}, now)
	require.NoError(t, err)
	o.AssignIdentity(1, []int64{11, 12})
	return o
}

func orderIn(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.Snapshot{
		ID:                  1,
		Number:              "ORD-20251016-0A1B2C3D",
		SupplierID:          supplierID,
		CustomerID:          customerID,
		Status:              status,
		Items:               []*order.Item{newItem(t, 100, "2.50", "20")},
		DeliveryAddress:     "Minsk, Nezavisimosti 1",
		DesiredDeliveryDate: now.AddDate(0, 0, 3),
		CreatedAt:           now.Add(-time.Hour),
		UpdatedAt:           now.Add(-time.Hour),
		Version:             4,
	})
	require.NoError(t, err)
	return o
}

// fullPayload satisfies every required input of every rule.
func fullPayload() order.Payload {
	return order.Payload{
		Reason:            "out of stock",
		DocumentReference: "proofs/1.pdf",
		PaymentReference:  "PP-778",
		DiscrepancyLines:  []order.DiscrepancyLine{{OrderItemID: 11, ActualQuantity: 90, Reason: "short"}},
	}
}
