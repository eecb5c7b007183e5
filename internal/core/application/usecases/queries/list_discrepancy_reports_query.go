package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrListDiscrepancyReportsQueryIsNotConstructed = errors.New(
	"ListDiscrepancyReportsQuery must be created via NewListDiscrepancyReportsQuery constructor",
)

type ListDiscrepancyReportsQuery struct {
	actor   kernel.Actor
	orderID int64

	guard guard.ConstructorGuard
}

func NewListDiscrepancyReportsQuery(actor kernel.Actor, orderID int64) (ListDiscrepancyReportsQuery, error) {
	if orderID <= 0 {
		return ListDiscrepancyReportsQuery{}, errs.NewValidationError("orderId", "is required")
	}
	return ListDiscrepancyReportsQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListDiscrepancyReportsQuery) Validate() error {
	return q.guard.Validate(ErrListDiscrepancyReportsQueryIsNotConstructed)
}

// DiscrepancyItemView is one mismatched line. Discrepancy and Amount are
// negative for shortfalls and positive for overages.
type DiscrepancyItemView struct {
	OrderItemID      int64           `json:"orderItemId"`
	ProductName      string          `json:"productName"`
	ProductSKU       string          `json:"productSku,omitempty"`
	ExpectedQuantity int64           `json:"expectedQuantity"`
	ActualQuantity   int64           `json:"actualQuantity"`
	Discrepancy      int64           `json:"discrepancy"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Amount           decimal.Decimal `json:"discrepancyAmount"`
	Reason           string          `json:"reason"`
}

type DiscrepancyReportView struct {
	ID            int64                 `json:"id"`
	OrderID       int64                 `json:"orderId"`
	OrderNumber   string                `json:"orderNumber"`
	Status        string                `json:"status"`
	TotalAmount   decimal.Decimal       `json:"totalDiscrepancyAmount"`
	Notes         string                `json:"notes,omitempty"`
	CreatedByRole kernel.Role           `json:"createdByRole"`
	CreatedByID   int64                 `json:"createdById"`
	CreatedAt     time.Time             `json:"createdAt"`
	Items         []DiscrepancyItemView `json:"items"`
}
