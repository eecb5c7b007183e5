package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery pages through the orders of the actor's party, newest
// first. Admins see every order. status of Unknown lists all statuses.
type ListOrdersQuery struct {
	actor  kernel.Actor
	status order.Status
	page   int
	size   int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery takes a 1-based page. A size of 0 means DefaultPageSize.
func NewListOrdersQuery(actor kernel.Actor, status order.Status, page, size int) (ListOrdersQuery, error) {
	verr := &errs.ValidationError{}
	if status != order.Unknown {
		if err := status.Validate(); err != nil {
			verr.Add("status", err.Error())
		}
	}
	if page < 1 {
		verr.Add("page", "must be at least 1")
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if size < 1 || size > MaxPageSize {
		verr.Add("size", "must be between 1 and 100")
	}
	if err := verr.OrNil(); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{actor: actor, status: status, page: page, size: size, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// OrderSummary is a row of an order list.
type OrderSummary struct {
	ID                  int64              `json:"id"`
	Number              string             `json:"orderNumber"`
	SupplierID          int64              `json:"supplierId"`
	SupplierName        string             `json:"supplierName"`
	CustomerID          int64              `json:"customerId"`
	CustomerName        string             `json:"customerName"`
	Status              order.Presentation `json:"status"`
	TotalAmount         decimal.Decimal    `json:"totalAmount"`
	DesiredDeliveryDate time.Time          `json:"desiredDeliveryDate"`
	CreatedAt           time.Time          `json:"createdAt"`
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
}
