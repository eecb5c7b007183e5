package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrDocumentURLQueryIsNotConstructed = errors.New(
	"DocumentURLQuery must be created via NewDocumentURLQuery constructor",
)

// DocumentURLQuery asks for a short-lived download link of a stored document.
type DocumentURLQuery struct {
	actor      kernel.Actor
	documentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDocumentURLQuery(actor kernel.Actor, documentID string) (DocumentURLQuery, error) {
	id, err := kernel.UUIDFromString(documentID)
	if err != nil {
		return DocumentURLQuery{}, errs.NewValidationError("documentId", "must be a UUID")
	}
	return DocumentURLQuery{actor: actor, documentID: id, guard: guard.NewConstructorGuard()}, nil
}

func (q DocumentURLQuery) Validate() error {
	return q.guard.Validate(ErrDocumentURLQueryIsNotConstructed)
}

type DocumentURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
