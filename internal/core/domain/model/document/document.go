// Package document describes the paperwork generated for an order: the
// waybill (TTN), invoice, universal transfer document (UPD) and discrepancy act.
package document

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// ContentType of every rendered document.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Kind string

const (
	KindTTN            Kind = "TTN"
	KindInvoice        Kind = "INVOICE"
	KindUPD            Kind = "UPD"
	KindDiscrepancyAct Kind = "DISCREPANCY_ACT"
)

var kinds = map[Kind]struct {
	prefix   string
	eligible []order.Status
}{
	KindTTN: {"TTN", []order.Status{order.Shipped, order.Delivered, order.AwaitingCorrection, order.Closed}},
	KindInvoice: {"INV", []order.Status{
		order.AwaitingPayment, order.PendingPaymentVerification, order.PaymentProblem, order.Paid,
		order.AwaitingShipment, order.Shipped, order.Delivered, order.AwaitingCorrection, order.Closed,
	}},
	KindUPD: {"UPD", []order.Status{order.Delivered, order.AwaitingCorrection, order.Closed}},
	// Acts follow a report, so any status a report can exist in qualifies.
	KindDiscrepancyAct: {"ACT", []order.Status{order.AwaitingCorrection, order.Closed}},
}

// KindFromString parses a wire or stored kind.
func KindFromString(s string) (Kind, error) {
	k := Kind(strings.ToUpper(s))
	if _, ok := kinds[k]; !ok {
		return "", errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a document kind", s))
	}
	return k, nil
}

func (k Kind) String() string { return string(k) }

// EligibleFor reports whether a document of kind k may be produced for an
// order in status s.
func (k Kind) EligibleFor(s order.Status) bool {
	return slices.Contains(kinds[k].eligible, s)
}

// Document is the record of a generated and stored file.
type Document struct {
	ID          kernel.UUID
	Kind        Kind
	OrderID     int64
	ReportID    int64
	Number      string
	StorageKey  string
	ContentType string
	Size        int64
	GeneratedAt time.Time
	GeneratedBy kernel.Actor
}

// Request identifies the document to produce. ReportID is set only for acts.
type Request struct {
	Kind     Kind
	OrderID  int64
	ReportID int64
	// Sequence is the position of an act's report among the reports of its
	// order. It only affects the document number; zero numbers as 1.
	Sequence int64
}

// Validate checks the request against the order it targets.
func (r Request) Validate(o *order.Order) error {
	if r.Kind == KindDiscrepancyAct && r.ReportID <= 0 {
		return errs.NewValidationError("reportId", "is required for a discrepancy act")
	}
	if r.Kind != KindDiscrepancyAct && r.ReportID != 0 {
		return errs.NewValidationError("reportId", "applies to discrepancy acts only")
	}
	if !r.Kind.EligibleFor(o.Status()) {
		return errs.NewValidationError("kind",
			fmt.Sprintf("%s cannot be generated for an order in status %s", r.Kind, o.Status()))
	}
	return nil
}

// New describes a document about to be stored.
//
// Numbers are <PREFIX>-<orderId>-<seq>: TTN-42-1, or ACT-42-2 for the act of
// the second report filed for order 42.
func New(r Request, by kernel.Actor, now time.Time) *Document {
	seq := int64(1)
	if r.Sequence > 0 {
		seq = r.Sequence
	}
	number := fmt.Sprintf("%s-%d-%d", kinds[r.Kind].prefix, r.OrderID, seq)
	return &Document{
		ID:          kernel.NewUUID(),
		Kind:        r.Kind,
		OrderID:     r.OrderID,
		ReportID:    r.ReportID,
		Number:      number,
		StorageKey:  fmt.Sprintf("orders/%d/%s.xlsx", r.OrderID, strings.ToLower(number)),
		ContentType: ContentType,
		GeneratedAt: now,
		GeneratedBy: by,
	}
}
