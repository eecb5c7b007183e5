package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
	"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
)

type GetOrderHistoryQuery struct {
	actor   kernel.Actor
	orderID int64

	guard guard.ConstructorGuard
}

func NewGetOrderHistoryQuery(actor kernel.Actor, orderID int64) (GetOrderHistoryQuery, error) {
	if orderID <= 0 {
		return GetOrderHistoryQuery{}, errs.NewValidationError("orderId", "is required")
	}
	return GetOrderHistoryQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

// HistoryEntry is one status change. ActorRole is the role the actor held
// when performing it.
type HistoryEntry struct {
	Action    string             `json:"action"`
	From      order.Presentation `json:"from"`
	To        order.Presentation `json:"to"`
	ActorRole kernel.Role        `json:"actorRole"`
	ActorID   int64              `json:"actorId"`
	Note      string             `json:"note,omitempty"`
	At        time.Time          `json:"at"`
}
