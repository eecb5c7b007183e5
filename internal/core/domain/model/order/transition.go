package order

import (
	"slices"
	"time"

	"orderflow/internal/core/domain/model/kernel"
)

// Input is a payload field a rule requires.
type Input string

const (
	InputReason            Input = "reason"
	InputDocumentReference Input = "documentReference"
	InputPaymentReference  Input = "paymentReference"
	InputDiscrepancyItems  Input = "items"
)

// Rule is one row of the transition table.
type Rule struct {
	Action Action
	// Actors lists the roles allowed to request the action.
	Actors []kernel.Role
	From   []Status
	To     Status
	// Then is a status entered automatically right after To, or Unknown.
	Then     Status
	Requires []Input
}

// Allows reports whether role may request the rule's action from status.
func (r Rule) Allows(role kernel.Role, status Status) bool {
	return slices.Contains(r.Actors, role) && slices.Contains(r.From, status)
}

// Final is the status an order rests in after the rule is applied.
func (r Rule) Final() Status {
	if r.Then != Unknown {
		return r.Then
	}
	return r.To
}

// transitions is the single source of truth for legal status changes.
// Order of rows is the order actions are offered to callers.
var transitions = []Rule{
	{
		Action: ActionConfirm,
		Actors: []kernel.Role{kernel.RoleSupplier},
		From:   []Status{PendingConfirmation},
		To:     Confirmed,
		Then:   AwaitingPayment,
	},
	{
		Action:   ActionReject,
		Actors:   []kernel.Role{kernel.RoleSupplier},
		From:     []Status{PendingConfirmation},
		To:       Rejected,
		Requires: []Input{InputReason},
	},
	{
		Action:   ActionSubmitPaymentProof,
		Actors:   []kernel.Role{kernel.RoleCustomer},
		From:     []Status{AwaitingPayment, PaymentProblem},
		To:       PendingPaymentVerification,
		Requires: []Input{InputDocumentReference, InputPaymentReference},
	},
	{
		Action: ActionConfirmPayment,
		Actors: []kernel.Role{kernel.RoleSupplier},
		From:   []Status{PendingPaymentVerification},
		To:     Paid,
	},
	{
		Action:   ActionRejectPayment,
		Actors:   []kernel.Role{kernel.RoleSupplier},
		From:     []Status{PendingPaymentVerification},
		To:       PaymentProblem,
		Requires: []Input{InputReason},
	},
	{
		Action: ActionShip,
		Actors: []kernel.Role{kernel.RoleSupplier},
		From:   []Status{Paid, AwaitingShipment},
		To:     Shipped,
	},
	{
		Action: ActionConfirmDelivery,
		Actors: []kernel.Role{kernel.RoleCustomer},
		From:   []Status{Shipped},
		To:     Delivered,
	},
	{
		Action:   ActionReportDiscrepancy,
		Actors:   []kernel.Role{kernel.RoleCustomer},
		From:     []Status{Delivered, AwaitingCorrection},
		To:       AwaitingCorrection,
		Requires: []Input{InputDiscrepancyItems},
	},
	{
		Action: ActionCancel,
		Actors: []kernel.Role{kernel.RoleCustomer, kernel.RoleSupplier},
		From:   []Status{PendingConfirmation, Confirmed, AwaitingPayment},
		To:     Cancelled,
	},
	{
		Action: ActionClose,
		Actors: []kernel.Role{kernel.RoleSupplier, kernel.RoleAdmin},
		From:   []Status{Delivered, AwaitingCorrection},
		To:     Closed,
	},
}

var ruleByAction = func() map[Action]Rule {
	m := make(map[Action]Rule, len(transitions))
	for _, r := range transitions {
		m[r.Action] = r
	}
	return m
}()

// Rules returns a copy of the transition table.
func Rules() []Rule {
	return slices.Clone(transitions)
}

// RuleFor returns the table row of action.
func RuleFor(action Action) (Rule, bool) {
	r, ok := ruleByAction[action]
	return r, ok
}

// Transition is one recorded status change. An auto-advancing rule yields
// two transitions for a single request.
type Transition struct {
	Action Action
	From   Status
	To     Status
	Actor  kernel.Actor
	At     time.Time
	Note   string
}
