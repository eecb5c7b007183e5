// Package discrepancy computes the quantity mismatch reports customers file
// after delivery.
//
// Sign convention: Discrepancy = actual − expected, so a shortfall is
// negative and an overage positive. Amounts carry the same sign.
package discrepancy

import (
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// Status of a report. Reports are created PENDING and are immutable.
type Status string

const StatusPending Status = "PENDING"

// Item is one mismatched order line, with product data snapshotted from the order.
type Item struct {
	OrderItemID      int64
	ProductName      string
	ProductSKU       string
	ExpectedQuantity int64
	ActualQuantity   int64
	Discrepancy      int64
	UnitPrice        kernel.Money
	Amount           kernel.Money
	Reason           string
}

// Report is an immutable discrepancy report of one order.
type Report struct {
	id          int64
	orderID     int64
	orderNumber string
	items       []Item
	total       kernel.Money
	status      Status
	notes       string
	createdAt   time.Time
	createdBy   kernel.Actor
}

// Compute builds a report from the received quantities of lines.
//
// Every problem is collected into one errs.ValidationError: no lines, a
// negative quantity, an item that is not part of the order, an item listed
// twice or a blank reason.
//
// Example: expected 100, actual 90, unit price 2.50 gives discrepancy -10
// and amount -25.00.
func Compute(o *order.Order, lines []order.DiscrepancyLine, notes string, by kernel.Actor, now time.Time) (*Report, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	verr := &errs.ValidationError{}
	if len(lines) == 0 {
		verr.Add("items", "at least one item is required")
	}

	seen := make(map[int64]bool, len(lines))
	items := make([]Item, 0, len(lines))
	total := kernel.ZeroMoney()
	for i, line := range lines {
		field := fmt.Sprintf("items[%d]", i)
		if line.ActualQuantity < 0 {
			verr.Add(field+".actualQuantity", "must not be negative")
		}
		if strings.TrimSpace(line.Reason) == "" {
			verr.Add(field+".reason", "must not be empty")
		}
		if seen[line.OrderItemID] {
			verr.Add(field+".orderItemId", fmt.Sprintf("item %d is listed more than once", line.OrderItemID))
			continue
		}
		seen[line.OrderItemID] = true

		oi, ok := o.Item(line.OrderItemID)
		if !ok {
			verr.Add(field+".orderItemId", fmt.Sprintf("item %d does not belong to order %d", line.OrderItemID, o.ID()))
			continue
		}

		diff := line.ActualQuantity - oi.Quantity()
		amount := oi.UnitPrice().MulQuantity(diff).Round()
		items = append(items, Item{
			OrderItemID:      oi.ID(),
			ProductName:      oi.Name(),
			ProductSKU:       oi.SKU(),
			ExpectedQuantity: oi.Quantity(),
			ActualQuantity:   line.ActualQuantity,
			Discrepancy:      diff,
			UnitPrice:        oi.UnitPrice(),
			Amount:           amount,
			Reason:           line.Reason,
		})
		total = total.Add(amount)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &Report{
		orderID:     o.ID(),
		orderNumber: o.Number(),
		items:       items,
		total:       total,
		status:      StatusPending,
		notes:       notes,
		createdAt:   now,
		createdBy:   by,
	}, nil
}

// Snapshot is the stored state of a report.
type Snapshot struct {
	ID          int64
	OrderID     int64
	OrderNumber string
	Items       []Item
	Total       kernel.Money
	Status      Status
	Notes       string
	CreatedAt   time.Time
	CreatedBy   kernel.Actor
}

// Restore rebuilds a stored report.
func Restore(s Snapshot) *Report {
	return &Report{
		id:          s.ID,
		orderID:     s.OrderID,
		orderNumber: s.OrderNumber,
		items:       s.Items,
		total:       s.Total,
		status:      s.Status,
		notes:       s.Notes,
		createdAt:   s.CreatedAt,
		createdBy:   s.CreatedBy,
	}
}

func (r *Report) ID() int64 { return r.id }

func (r *Report) OrderID() int64 { return r.orderID }

func (r *Report) OrderNumber() string { return r.orderNumber }

func (r *Report) Status() Status { return r.status }

func (r *Report) Notes() string { return r.notes }

func (r *Report) CreatedAt() time.Time { return r.createdAt }

func (r *Report) CreatedBy() kernel.Actor { return r.createdBy }

// TotalAmount is the signed sum of item amounts.
func (r *Report) TotalAmount() kernel.Money { return r.total }

func (r *Report) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// AssignID stores the id assigned on insert.
func (r *Report) AssignID(id int64) {
	r.id = id
}
