package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Action names a transition an actor may request. Values double as the
// path segment of the transition endpoint.
type Action string

const (
	ActionConfirm            Action = "confirm"
	ActionReject             Action = "reject"
	ActionSubmitPaymentProof Action = "submit-payment-proof"
	ActionConfirmPayment     Action = "confirm-payment"
	ActionRejectPayment      Action = "reject-payment"
	ActionShip               Action = "ship"
	ActionConfirmDelivery    Action = "confirm-delivery"
	ActionReportDiscrepancy  Action = "report-discrepancy"
	ActionCancel             Action = "cancel"
	ActionClose              Action = "close"
)

// ActionFromString parses a wire action name.
func ActionFromString(s string) (Action, error) {
	a := Action(s)
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a, nil
}

func (a Action) Validate() error {
	if _, ok := ruleByAction[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a known action", string(a)))
	}
	return nil
}

func (a Action) String() string {
	return string(a)
}
