package order

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order bypassed NewOrder and RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

const actionReplaceItems = "replace-items"

// PaymentProof is the customer's evidence of payment awaiting supplier review.
type PaymentProof struct {
	DocumentReference string
	PaymentReference  string
	Notes             string
	SubmittedAt       time.Time
}

// Order is the aggregate root of the ordering domain. It is created by
// checkout in PENDING_CONFIRMATION and afterwards changes only through Apply
// (status) and ReplaceItems (lines, while pending). Orders are never deleted.
//
// Invariants:
//   - supplier and customer never change
//   - TotalAmount and VATAmount are always the sums over the items
//   - RejectionReason is set only while the status is REJECTED
//   - a failed Apply leaves the order untouched
type Order struct {
	id           int64
	number       string
	supplierID   int64
	supplierName string
	customerID   int64
	customerName string

	status Status
	items  []*Item

	deliveryAddress     string
	desiredDeliveryDate time.Time
	actualDeliveryDate  *time.Time

	paymentProof         *PaymentProof
	rejectionReason      string
	paymentProblemReason string
	notes                string

	createdAt time.Time
	updatedAt time.Time

	// storedStatus and version are the values the last read or write saw;
	// storage uses them as the compare-and-swap precondition.
	storedStatus Status
	version      int64

	isConstructed bool
}

// Draft is the input of NewOrder.
type Draft struct {
	Number              string
	SupplierID          int64
	SupplierName        string
	CustomerID          int64
	CustomerName        string
	Items               []*Item
	DeliveryAddress     string
	DesiredDeliveryDate time.Time
	Notes               string
}

// NewOrder validates a draft and returns a PENDING_CONFIRMATION order
// without an id. Storage assigns the ids through AssignIdentity.
//
// Example:
//
//	item, _ := order.NewItem(order.ItemLine{ProductID: 3, Name: "Milk", Quantity: 10, UnitPrice: price, VATRate: rate})
//	o, err := order.NewOrder(order.Draft{
//	    Number:              order.NewNumber(now),
//	    SupplierID:          12,
//	    CustomerID:          40,
//	    Items:               []*order.Item{item},
//	    DeliveryAddress:     "Minsk, Nezavisimosti 1",
//	    DesiredDeliveryDate: now.AddDate(0, 0, 3),
//	}, now)
func NewOrder(d Draft, now time.Time) (*Order, error) {
	var problems []error
	if blank(d.Number) {
		problems = append(problems, errs.NewValueIsRequiredError("orderNumber"))
	}
	if d.SupplierID <= 0 {
		problems = append(problems, errs.NewValueIsRequiredError("supplierId"))
	}
	if d.CustomerID <= 0 {
		problems = append(problems, errs.NewValueIsRequiredError("customerId"))
	}
	if len(d.Items) == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("items"))
	}
	if blank(d.DeliveryAddress) {
		problems = append(problems, errs.NewValueIsRequiredError("deliveryAddress"))
	}
	if d.DesiredDeliveryDate.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("desiredDeliveryDate"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Order{
		number:              d.Number,
		supplierID:          d.SupplierID,
		supplierName:        d.SupplierName,
		customerID:          d.CustomerID,
		customerName:        d.CustomerName,
		status:              PendingConfirmation,
		storedStatus:        PendingConfirmation,
		items:               d.Items,
		deliveryAddress:     d.DeliveryAddress,
		desiredDeliveryDate: d.DesiredDeliveryDate,
		notes:               d.Notes,
		createdAt:           now,
		updatedAt:           now,
		isConstructed:       true,
	}, nil
}

// Snapshot is the full stored state of an order, used by RestoreOrder.
type Snapshot struct {
	ID                   int64
	Number               string
	SupplierID           int64
	SupplierName         string
	CustomerID           int64
	CustomerName         string
	Status               Status
	Items                []*Item
	DeliveryAddress      string
	DesiredDeliveryDate  time.Time
	ActualDeliveryDate   *time.Time
	PaymentProof         *PaymentProof
	RejectionReason      string
	PaymentProblemReason string
	Notes                string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	Version              int64
}

// RestoreOrder rebuilds an order read from storage. Only the status is
// validated, so rows written by older releases still load. The restored
// order uses s.Status and s.Version as its compare-and-swap precondition.
//
// Example:
//
//	o, err := order.RestoreOrder(order.Snapshot{ID: dto.ID, Status: order.Status(dto.Status), Version: dto.Version})
//	if err != nil {
//	    return nil, err
//	}
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := s.Status.Validate(); err != nil {
		return nil, err
	}
	return &Order{
		id:                   s.ID,
		number:               s.Number,
		supplierID:           s.SupplierID,
		supplierName:         s.SupplierName,
		customerID:           s.CustomerID,
		customerName:         s.CustomerName,
		status:               s.Status,
		storedStatus:         s.Status,
		items:                s.Items,
		deliveryAddress:      s.DeliveryAddress,
		desiredDeliveryDate:  s.DesiredDeliveryDate,
		actualDeliveryDate:   s.ActualDeliveryDate,
		paymentProof:         s.PaymentProof,
		rejectionReason:      s.RejectionReason,
		paymentProblemReason: s.PaymentProblemReason,
		notes:                s.Notes,
		createdAt:            s.CreatedAt,
		updatedAt:            s.UpdatedAt,
		version:              s.Version,
		isConstructed:        true,
	}, nil
}

// Validate reports orders built as struct literals.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the database assigned identifier. It is zero until the order
// has been inserted and AssignIdentity has run.
func (o *Order) ID() int64 { return o.id }

// Number returns the human readable order number shown to both parties and
// printed on documents. It is generated once by NewOrder and never changes.
//
// Example:
//
//	o.Number() // "ORD-20251016-0A1B2C3D"
func (o *Order) Number() string { return o.number }

// SupplierID returns the id of the supplying company.
func (o *Order) SupplierID() int64 { return o.supplierID }

// SupplierName returns the supplier name captured at checkout. Documents print
// this value even if the company is renamed later.
func (o *Order) SupplierName() string { return o.supplierName }

// CustomerID returns the id of the ordering company.
func (o *Order) CustomerID() int64 { return o.customerID }

// CustomerName returns the customer name captured at checkout.
func (o *Order) CustomerName() string { return o.customerName }

// Status returns the current status, including changes made by Apply that
// have not been stored yet. StoredStatus returns the persisted one.
//
// Example:
//
//	if o.Status().IsTerminal() {
//	    return nil // nothing more can happen to this order
//	}
func (o *Order) Status() Status { return o.status }

func (o *Order) DeliveryAddress() string { return o.deliveryAddress }

// DesiredDeliveryDate is the date the customer asked for at checkout.
func (o *Order) DesiredDeliveryDate() time.Time { return o.desiredDeliveryDate }

// ActualDeliveryDate is set by the confirm-delivery action. It is nil for
// orders that were not delivered yet.
//
// Example:
//
//	if at := o.ActualDeliveryDate(); at != nil {
//	    fmt.Println("delivered on", at.Format(time.DateOnly))
//	}
func (o *Order) ActualDeliveryDate() *time.Time { return o.actualDeliveryDate }

// PaymentProof returns the most recent proof submitted by the customer, or
// nil if none was submitted. Resubmitting after a rejected payment replaces
// the previous proof.
func (o *Order) PaymentProof() *PaymentProof { return o.paymentProof }

// RejectionReason is the supplier's reason for rejecting the order. It is
// empty unless the status is REJECTED.
func (o *Order) RejectionReason() string { return o.rejectionReason }

// PaymentProblemReason is the supplier's reason for rejecting the last
// payment proof. A new proof clears it.
func (o *Order) PaymentProblemReason() string { return o.paymentProblemReason }

func (o *Order) Notes() string { return o.notes }

func (o *Order) CreatedAt() time.Time { return o.createdAt }

func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// Version is the optimistic concurrency counter of the stored row.
func (o *Order) Version() int64 { return o.version }

// StoredStatus is the status the stored row had when the order was read.
func (o *Order) StoredStatus() Status { return o.storedStatus }

// Items returns a copy of the line slice.
func (o *Order) Items() []*Item {
	out := make([]*Item, len(o.items))
	copy(out, o.items)
	return out
}

// Item finds a line by id.
func (o *Order) Item(id int64) (*Item, bool) {
	for _, it := range o.items {
		if it.id == id {
			return it, true
		}
	}
	return nil, false
}

// TotalAmount is the sum of line totals. It is recomputed from
// the items on every call, so it always agrees with the stored lines.
//
// Example:
//
//	// lines of 3 x 0.33 and 1 x 10.05
//	o.TotalAmount().String() // "11.04"
func (o *Order) TotalAmount() kernel.Money {
	total := kernel.ZeroMoney()
	for _, it := range o.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// VATAmount is the sum of line VAT.
func (o *Order) VATAmount() kernel.Money {
	total := kernel.ZeroMoney()
	for _, it := range o.items {
		total = total.Add(it.LineVAT())
	}
	return total
}

// PartyRole returns the role under which actor takes part in the order.
// Suppliers and customers take part only in their own orders; admins in all.
func (o *Order) PartyRole(actor kernel.Actor) (kernel.Role, bool) {
	switch {
	case actor.IsSupplier() && actor.ID == o.supplierID:
		return kernel.RoleSupplier, true
	case actor.IsCustomer() && actor.ID == o.customerID:
		return kernel.RoleCustomer, true
	case actor.IsAdmin():
		return kernel.RoleAdmin, true
	default:
		return "", false
	}
}

// IsVisibleTo reports whether actor may read the order.
func (o *Order) IsVisibleTo(actor kernel.Actor) bool {
	_, ok := o.PartyRole(actor)
	return ok
}

// Counterparty returns the other party of the actor, as a role.
func (o *Order) Counterparty(actor kernel.Actor) kernel.Role {
	if actor.IsSupplier() {
		return kernel.RoleCustomer
	}
	return kernel.RoleSupplier
}

// Apply performs action on behalf of actor.
//
// The action must be offered to the actor by AvailableActions; otherwise an
// errs.InvalidTransitionError is returned. Missing required inputs yield an
// errs.ValidationError. In both cases the order is left untouched.
//
// On success the performed status changes are returned in order. A confirm
// yields two: PENDING_CONFIRMATION to CONFIRMED and CONFIRMED to AWAITING_PAYMENT.
func (o *Order) Apply(action Action, actor kernel.Actor, p Payload, now time.Time) ([]Transition, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	rule, ok := RuleFor(action)
	if !ok {
		return nil, errs.NewInvalidTransitionError(string(action), o.status.String(), actor.Role.String())
	}
	role, isParty := o.PartyRole(actor)
	if !isParty || o.status.IsTerminal() || !rule.Allows(role, o.status) {
		return nil, errs.NewInvalidTransitionError(string(action), o.status.String(), actor.Role.String())
	}
	if err := p.validateFor(rule); err != nil {
		return nil, err
	}

	steps := []Transition{{Action: action, From: o.status, To: rule.To, Actor: actor, At: now, Note: noteFor(action, p)}}
	if rule.Then != Unknown {
		steps = append(steps, Transition{Action: action, From: rule.To, To: rule.Then, Actor: actor, At: now})
	}

	o.effect(action, p, now)
	o.status = rule.Final()
	o.updatedAt = now
	return steps, nil
}

func (o *Order) effect(action Action, p Payload, now time.Time) {
	switch action {
	case ActionReject:
		o.rejectionReason = p.Reason
	case ActionSubmitPaymentProof:
		o.paymentProof = &PaymentProof{
			DocumentReference: p.DocumentReference,
			PaymentReference:  p.PaymentReference,
			Notes:             p.Notes,
			SubmittedAt:       now,
		}
		o.paymentProblemReason = ""
	case ActionRejectPayment:
		o.paymentProblemReason = p.Reason
	case ActionConfirmDelivery:
		at := now
		if p.ActualDeliveryDate != nil {
			at = *p.ActualDeliveryDate
		}
		o.actualDeliveryDate = &at
	default:
	}
}

func noteFor(action Action, p Payload) string {
	switch action {
	case ActionReject, ActionRejectPayment:
		return p.Reason
	case ActionSubmitPaymentProof:
		return fmt.Sprintf("payment reference %s", p.PaymentReference)
	default:
		return p.Notes
	}
}

// ReplaceItems swaps all lines of a pending order. Totals follow the new lines.
func (o *Order) ReplaceItems(actor kernel.Actor, items []*Item, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if role, ok := o.PartyRole(actor); !ok || role != kernel.RoleCustomer || o.status != PendingConfirmation {
		return errs.NewInvalidTransitionError(actionReplaceItems, o.status.String(), actor.Role.String())
	}
	if len(items) == 0 {
		return errs.NewValidationError("items", "at least one item is required")
	}
	o.items = items
	o.updatedAt = now
	return nil
}

// AssignIdentity stores ids assigned on insert. itemIDs follow Items order.
func (o *Order) AssignIdentity(id int64, itemIDs []int64) {
	o.id = id
	for i, it := range o.items {
		if i < len(itemIDs) {
			it.id = itemIDs[i]
		}
	}
}

// MarkStored records a successful write so the next write compares against it.
func (o *Order) MarkStored() {
	o.storedStatus = o.status
	o.version++
}
