package queries

import (
	"errors"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery or NewGetOrderByNumberQuery constructor",
)

// GetOrderQuery loads one order by id or by number on behalf of an actor.
//
// Example:
//
//	query, _ := queries.NewGetOrderByNumberQuery(customer, "ORD-20251016-0A1B2C3D")
//	detail, err := handler.Handle(ctx, query)
//	for _, a := range detail.AvailableActions {
//	    fmt.Println(a)
//	}
type GetOrderQuery struct {
	actor  kernel.Actor
	id     int64
	number string

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(actor kernel.Actor, id int64) (GetOrderQuery, error) {
	if id <= 0 {
		return GetOrderQuery{}, errs.NewValidationError("orderId", "is required")
	}
	return GetOrderQuery{actor: actor, id: id, guard: guard.NewConstructorGuard()}, nil
}

func NewGetOrderByNumberQuery(actor kernel.Actor, number string) (GetOrderQuery, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return GetOrderQuery{}, errs.NewValidationError("orderNumber", "is required")
	}
	return GetOrderQuery{actor: actor, number: number, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderItemView is an order line as shown to the parties.
type OrderItemView struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	ProductSKU  string          `json:"productSku,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	VATRate     decimal.Decimal `json:"vatRate"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	LineVAT     decimal.Decimal `json:"lineVat"`
}

type PaymentProofView struct {
	DocumentReference string    `json:"documentReference"`
	PaymentReference  string    `json:"paymentReference"`
	Notes             string    `json:"notes,omitempty"`
	SubmittedAt       time.Time `json:"submittedAt"`
}

// OrderDetail is the full order view, together with the actions the
// requesting actor may perform next.
type OrderDetail struct {
	ID                   int64              `json:"id"`
	Number               string             `json:"orderNumber"`
	SupplierID           int64              `json:"supplierId"`
	SupplierName         string             `json:"supplierName"`
	CustomerID           int64              `json:"customerId"`
	CustomerName         string             `json:"customerName"`
	Status               order.Presentation `json:"status"`
	TotalAmount          decimal.Decimal    `json:"totalAmount"`
	VATAmount            decimal.Decimal    `json:"vatAmount"`
	DeliveryAddress      string             `json:"deliveryAddress"`
	DesiredDeliveryDate  time.Time          `json:"desiredDeliveryDate"`
	ActualDeliveryDate   *time.Time         `json:"actualDeliveryDate,omitempty"`
	PaymentProof         *PaymentProofView  `json:"paymentProof,omitempty"`
	RejectionReason      string             `json:"rejectionReason,omitempty"`
	PaymentProblemReason string             `json:"paymentProblemReason,omitempty"`
	Notes                string             `json:"notes,omitempty"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
	Version              int64              `json:"version"`
	Items                []OrderItemView    `json:"items"`
	AvailableActions     []order.Action     `json:"availableActions"`
}
