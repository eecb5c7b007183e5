package services

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/document"
	"orderflow/internal/core/domain/model/effect"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// ErrReportRequired is returned when a discrepancy transition is planned
// without the id of the report it created.
var ErrReportRequired = errors.New("discrepancy report id is required")

// PlanOptions carries transition inputs that change the plan.
type PlanOptions struct {
	// GenerateWaybill asks for a TTN on ship.
	GenerateWaybill bool
	// ReportID is the report created by report-discrepancy.
	ReportID int64
}

// SideEffectPlanner maps a committed transition to its side effects.
//
// Side effects per action:
//   - confirm: none
//   - reject, confirm-payment, reject-payment: notify customer
//   - submit-payment-proof: notify supplier
//   - ship: notify customer, plus a TTN when GenerateWaybill is set
//   - confirm-delivery: notify supplier and admin
//   - report-discrepancy: discrepancy act, notify supplier
//   - close: notify supplier and customer
//   - cancel: notify the counterparty of the canceller
//
// Example:
//
//	steps, err := o.Apply(order.ActionShip, actor, payload, now)
//	effects, err := services.NewSideEffectPlanner().Plan(o, order.ActionShip, actor,
//	    services.PlanOptions{GenerateWaybill: payload.GenerateWaybill})
type SideEffectPlanner struct{}

func NewSideEffectPlanner() SideEffectPlanner {
	return SideEffectPlanner{}
}

// Plan returns the effects of action, already applied to o by actor.
func (p SideEffectPlanner) Plan(o *order.Order, action order.Action, actor kernel.Actor, opts PlanOptions) ([]effect.Effect, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	var audiences []kernel.Role
	var docs []document.Kind

	switch action {
	case order.ActionConfirm:
	case order.ActionReject, order.ActionConfirmPayment, order.ActionRejectPayment:
		audiences = []kernel.Role{kernel.RoleCustomer}
	case order.ActionSubmitPaymentProof:
		audiences = []kernel.Role{kernel.RoleSupplier}
	case order.ActionShip:
		if opts.GenerateWaybill {
			docs = []document.Kind{document.KindTTN}
		}
		audiences = []kernel.Role{kernel.RoleCustomer}
	case order.ActionConfirmDelivery:
		audiences = []kernel.Role{kernel.RoleSupplier, kernel.RoleAdmin}
	case order.ActionReportDiscrepancy:
		if opts.ReportID <= 0 {
			return nil, ErrReportRequired
		}
		docs = []document.Kind{document.KindDiscrepancyAct}
		audiences = []kernel.Role{kernel.RoleSupplier}
	case order.ActionClose:
		audiences = []kernel.Role{kernel.RoleSupplier, kernel.RoleCustomer}
	case order.ActionCancel:
		audiences = []kernel.Role{o.Counterparty(actor)}
	default:
		return nil, fmt.Errorf("no side effects defined for action %q", action)
	}

	base := effect.Effect{
		OrderID:     o.ID(),
		OrderNumber: o.Number(),
		Action:      action,
		Status:      o.Status(),
		Actor:       effect.Actor{Role: actor.Role, ID: actor.ID},
	}

	effects := make([]effect.Effect, 0, len(docs)+len(audiences))
	for _, kind := range docs {
		e := base
		e.Kind = effect.KindGenerateDocument
		e.Document = kind
		if kind == document.KindDiscrepancyAct {
			e.ReportID = opts.ReportID
		}
		effects = append(effects, e)
	}
	for _, audience := range audiences {
		e := base
		e.Kind = effect.KindNotify
		e.Audience = audience
		e.AudienceID = audienceID(o, audience)
		e.Message = fmt.Sprintf("Заказ %s: %s", o.Number(), o.Status().Label())
		effects = append(effects, e)
	}
	return effects, nil
}

func audienceID(o *order.Order, audience kernel.Role) int64 {
	switch audience {
	case kernel.RoleSupplier:
		return o.SupplierID()
	case kernel.RoleCustomer:
		return o.CustomerID()
	default:
		return 0
	}
}
