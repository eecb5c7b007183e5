package order

import (
	"strings"
	"time"

	"orderflow/internal/pkg/errs"
)

// DiscrepancyLine is one received quantity reported by the customer.
type DiscrepancyLine struct {
	OrderItemID    int64
	ActualQuantity int64
	Reason         string
}

// Payload carries the optional and required inputs of a transition request.
// Fields irrelevant to the requested action are ignored.
type Payload struct {
	Reason             string
	DocumentReference  string
	PaymentReference   string
	Notes              string
	GenerateWaybill    bool
	ActualDeliveryDate *time.Time
	DiscrepancyLines   []DiscrepancyLine
}

func (p Payload) validateFor(rule Rule) error {
	var verr errs.ValidationError
	for _, in := range rule.Requires {
		switch in {
		case InputReason:
			if blank(p.Reason) {
				verr.Add(string(in), "must not be empty")
			}
		case InputDocumentReference:
			if blank(p.DocumentReference) {
				verr.Add(string(in), "must not be empty")
			}
		case InputPaymentReference:
			if blank(p.PaymentReference) {
				verr.Add(string(in), "must not be empty")
			}
		case InputDiscrepancyItems:
			if len(p.DiscrepancyLines) == 0 {
				verr.Add(string(in), "at least one item is required")
			}
		}
	}
	return verr.OrNil()
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
