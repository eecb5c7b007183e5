package queries

import (
	"orderflow/internal/core/domain/model/order"
)

// ListStatusesQueryHandler returns the shared status lookup every portal
// renders badges from.
type ListStatusesQueryHandler struct{}

func NewListStatusesQueryHandler() ListStatusesQueryHandler {
	return ListStatusesQueryHandler{}
}

func (ListStatusesQueryHandler) Handle() []order.Presentation {
	statuses := order.Statuses()
	out := make([]order.Presentation, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.Presentation())
	}
	return out
}
