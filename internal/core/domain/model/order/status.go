package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status is the lifecycle state of an order. Only the transition table moves
// an order between statuses.
//
//	PENDING_CONFIRMATION ──confirm──> CONFIRMED ──> AWAITING_PAYMENT ──proof──> PENDING_PAYMENT_VERIFICATION
//	        │                                                ▲                      │            │
//	      reject                                             └──proof── PAYMENT_PROBLEM <──reject-payment
//	        ▼                                                                       │
//	    REJECTED                                                              confirm-payment
//	                                                                               ▼
//	CLOSED <──close── DELIVERED <──confirm-delivery── SHIPPED <──ship── PAID / AWAITING_SHIPMENT
//	   ▲                  │
//	   └──close── AWAITING_CORRECTION <──report-discrepancy
//
// CANCELLED is reachable from PENDING_CONFIRMATION, CONFIRMED and AWAITING_PAYMENT.
type Status int

const (
	// Unknown is the zero value and never a valid stored status.
	Unknown Status = iota
	PendingConfirmation
	Confirmed
	Rejected
	AwaitingPayment
	PendingPaymentVerification
	Paid
	PaymentProblem
	// AwaitingShipment is accepted from storage but no transition enters it.
	AwaitingShipment
	Shipped
	Delivered
	AwaitingCorrection
	Closed
	Cancelled
)

// Tone is the colour family portals use to render a status badge.
type Tone string

const (
	ToneBlue   Tone = "blue"
	ToneTeal   Tone = "teal"
	ToneRed    Tone = "red"
	ToneYellow Tone = "yellow"
	ToneIndigo Tone = "indigo"
	ToneGreen  Tone = "green"
	ToneCyan   Tone = "cyan"
	ToneGray   Tone = "gray"
)

// Presentation is the display metadata shared by the supplier, customer and
// admin portals.
type Presentation struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Tone     Tone   `json:"tone"`
	Terminal bool   `json:"terminal"`
}

type statusInfo struct {
	code     string
	label    string
	tone     Tone
	terminal bool
}

// statuses lists every valid status in lifecycle order.
var statuses = []Status{
	PendingConfirmation,
	Confirmed,
	Rejected,
	AwaitingPayment,
	PendingPaymentVerification,
	Paid,
	PaymentProblem,
	AwaitingShipment,
	Shipped,
	Delivered,
	AwaitingCorrection,
	Closed,
	Cancelled,
}

var statusTable = map[Status]statusInfo{
	PendingConfirmation:        {"PENDING_CONFIRMATION", "Ожидает подтверждения", ToneBlue, false},
	Confirmed:                  {"CONFIRMED", "Подтвержден", ToneTeal, false},
	Rejected:                   {"REJECTED", "Отклонен", ToneRed, true},
	AwaitingPayment:            {"AWAITING_PAYMENT", "Ожидает оплаты", ToneYellow, false},
	PendingPaymentVerification: {"PENDING_PAYMENT_VERIFICATION", "Ожидает проверки оплаты", ToneIndigo, false},
	Paid:                       {"PAID", "Оплачен", ToneGreen, false},
	PaymentProblem:             {"PAYMENT_PROBLEM", "Проблема с оплатой", ToneRed, false},
	AwaitingShipment:           {"AWAITING_SHIPMENT", "Ожидает отгрузки", ToneBlue, false},
	Shipped:                    {"SHIPPED", "В пути", ToneCyan, false},
	Delivered:                  {"DELIVERED", "Доставлен", ToneIndigo, false},
	AwaitingCorrection:         {"AWAITING_CORRECTION", "Ожидает корректировки", ToneYellow, false},
	Closed:                     {"CLOSED", "Закрыт", ToneGray, true},
	Cancelled:                  {"CANCELLED", "Отменен", ToneGray, true},
}

var statusByCode = func() map[string]Status {
	m := make(map[string]Status, len(statusTable))
	for s, info := range statusTable {
		m[info.code] = s
	}
	return m
}()

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// StatusFromString parses a persisted or wire status code such as "PAID".
func StatusFromString(code string) (Status, error) {
	s, ok := statusByCode[code]
	if !ok {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", code))
	}
	return s, nil
}

// Validate rejects Unknown and out of range values.
func (s Status) Validate() error {
	if _, ok := statusTable[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", int(s)))
	}
	return nil
}

// String returns the status code, or "UNKNOWN" for invalid values.
func (s Status) String() string {
	if info, ok := statusTable[s]; ok {
		return info.code
	}
	return "UNKNOWN"
}

// Label is the human readable name shown in every portal.
func (s Status) Label() string {
	if info, ok := statusTable[s]; ok {
		return info.label
	}
	return s.String()
}

func (s Status) Tone() Tone {
	if info, ok := statusTable[s]; ok {
		return info.tone
	}
	return ToneGray
}

// IsTerminal reports whether no action can leave s.
func (s Status) IsTerminal() bool {
	return statusTable[s].terminal
}

func (s Status) Presentation() Presentation {
	return Presentation{Code: s.String(), Label: s.Label(), Tone: s.Tone(), Terminal: s.IsTerminal()}
}

// MarshalText encodes the status code so statuses serialize as strings.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := StatusFromString(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
