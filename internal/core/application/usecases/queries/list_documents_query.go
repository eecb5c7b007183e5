package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrListDocumentsQueryIsNotConstructed = errors.New(
	"ListDocumentsQuery must be created via NewListDocumentsQuery constructor",
)

type ListDocumentsQuery struct {
	actor   kernel.Actor
	orderID int64

	guard guard.ConstructorGuard
}

func NewListDocumentsQuery(actor kernel.Actor, orderID int64) (ListDocumentsQuery, error) {
	if orderID <= 0 {
		return ListDocumentsQuery{}, errs.NewValidationError("orderId", "is required")
	}
	return ListDocumentsQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListDocumentsQuery) Validate() error {
	return q.guard.Validate(ErrListDocumentsQueryIsNotConstructed)
}

// DocumentView describes a stored document. Files are fetched through
// DocumentURLQuery.
type DocumentView struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	OrderID     int64     `json:"orderId"`
	ReportID    int64     `json:"reportId,omitempty"`
	Number      string    `json:"number"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	GeneratedAt time.Time `json:"generatedAt"`
}
